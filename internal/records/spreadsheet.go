package records

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoDataRows reports a workbook whose first sheet has no data row under
// the header row.
var ErrNoDataRows = errors.New("records: spreadsheet has no data rows")

// IsSpreadsheet reports whether a filename looks like an Excel workbook.
// Only spreadsheets are auto-analyzed; other uploads are attached untouched.
func IsSpreadsheet(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xls") || strings.Contains(name, "excel")
}

// ReadSheetPreview extracts the header row and first data row from the first
// sheet of a workbook.
func ReadSheetPreview(r io.Reader) (headers, firstRow []string, err error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("records: open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrNoDataRows
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("records: read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, nil, ErrNoDataRows
	}
	return rows[0], rows[1], nil
}

// AutoFill runs the field matcher over a workbook and returns the computed
// updates together with the header row. The headers let the caller show the
// user what was in the file when nothing matched.
func AutoFill(r io.Reader) (FieldUpdates, []string, error) {
	headers, firstRow, err := ReadSheetPreview(r)
	if err != nil {
		return nil, nil, err
	}
	return Match(headers, firstRow), headers, nil
}
