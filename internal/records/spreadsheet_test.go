package records

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestIsSpreadsheet(t *testing.T) {
	require.True(t, IsSpreadsheet("shipment.xlsx"))
	require.True(t, IsSpreadsheet("SHIPMENT.XLS"))
	require.True(t, IsSpreadsheet("excel export"))
	require.False(t, IsSpreadsheet("invoice.pdf"))
	require.False(t, IsSpreadsheet("records.csv"))
}

func TestAutoFillMatchesWorkbookColumns(t *testing.T) {
	buf := buildWorkbook(t,
		[]interface{}{"Invoice Number", "Shipper Name", "Buyer", "Commodity", "Destination", "Date"},
		[]interface{}{"INV-042", "Acme Exports", "Nordsee Imports", "Rice", "Germany", "2021-01-01"},
	)

	updates, headers, err := AutoFill(buf)
	require.NoError(t, err)
	require.Equal(t, []string{"Invoice Number", "Shipper Name", "Buyer", "Commodity", "Destination", "Date"}, headers)
	require.Equal(t, FieldUpdates{
		FieldInvoiceNumber:   "INV-042",
		FieldShipperName:     "Acme Exports",
		FieldBuyer:           "Nordsee Imports",
		FieldCommodity:       "Rice",
		FieldDestinationPort: "Germany",
		FieldDate:            "2021-01-01",
	}, updates)
}

func TestAutoFillUnrecognizedHeaders(t *testing.T) {
	buf := buildWorkbook(t,
		[]interface{}{"Container", "Weight"},
		[]interface{}{"MSKU123", "24000"},
	)

	updates, headers, err := AutoFill(buf)
	require.NoError(t, err)
	require.Empty(t, updates)
	require.Equal(t, []string{"Container", "Weight"}, headers)
}

func TestAutoFillHeaderOnlyWorkbook(t *testing.T) {
	buf := buildWorkbook(t, []interface{}{"Invoice Number"})
	_, _, err := AutoFill(buf)
	require.ErrorIs(t, err, ErrNoDataRows)
}

func TestAutoFillNotAWorkbook(t *testing.T) {
	_, _, err := AutoFill(bytes.NewReader([]byte("not a zip archive")))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNoDataRows)
}
