package records

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field names a record field the matcher can populate from a spreadsheet.
type Field string

const (
	FieldInvoiceNumber   Field = "invoiceNumber"
	FieldShipperName     Field = "shipperName"
	FieldBuyer           Field = "buyer"
	FieldCommodity       Field = "commodity"
	FieldDestinationPort Field = "destinationPort"
	FieldDate            Field = "date"
)

// Label returns the human-readable name shown in the auto-fill summary.
func (f Field) Label() string {
	switch f {
	case FieldInvoiceNumber:
		return "Invoice Number"
	case FieldShipperName:
		return "Shipper Name"
	case FieldBuyer:
		return "Buyer Name"
	case FieldCommodity:
		return "Commodity"
	case FieldDestinationPort:
		return "Destination Country"
	case FieldDate:
		return "Date"
	}
	return string(f)
}

// FieldUpdates is a partial record update keyed by field. Fields absent from
// the map are left untouched by the caller's merge.
type FieldUpdates map[Field]string

// matchRule maps a normalized header to a field. A header matches when it
// contains any of the contains terms or equals any of the exact synonyms.
// Rules are evaluated in order and the first match wins for that header.
type matchRule struct {
	field    Field
	contains []string
	exact    []string
}

// matchRules is the ordered rule table. Within each category the synonym
// lists are data, not code, so extending them is a one-line change.
var matchRules = []matchRule{
	{
		// Invoice number needs both "invoice" and a number marker; the bare
		// exact synonyms cover single-word headers.
		field: FieldInvoiceNumber,
		exact: []string{"invoice", "invoice_number", "invoiceno", "invoice no", "invoice number"},
	},
	{
		// Compound country phrases outrank the single-word party rules, so
		// "Consignee Country" lands on destination, not buyer.
		field: FieldDestinationPort,
		contains: []string{
			"consignee country", "import country", "receiving country", "target country", "end country",
		},
	},
	{
		field:    FieldShipperName,
		contains: []string{"shipper", "exporter", "seller"},
		exact:    []string{"shipper", "exporter", "shipper_name"},
	},
	{
		field:    FieldBuyer,
		contains: []string{"buyer", "importer", "consignee"},
		exact:    []string{"buyer", "importer", "buyer_name"},
	},
	{
		field:    FieldCommodity,
		contains: []string{"commodity", "product", "goods", "description"},
		exact:    []string{"commodity", "product", "description"},
	},
	{
		field: FieldDestinationPort,
		contains: []string{
			"destination", "country", "port", "dest", "discharge", "final", "delivery",
		},
		exact: []string{
			"destination", "country", "destination_country", "dest", "dest_country",
			"destination_port", "discharge_port", "final_destination", "delivery_country",
			"import_country", "receiving_country", "target_country", "end_country",
			"country_of_destination", "country_destination", "countryofdestination",
		},
	},
}

// invoiceNumberMarkers qualify a header containing "invoice" as an invoice
// number column.
var invoiceNumberMarkers = []string{"number", "no", "#"}

// Match scans the header row against the rule table and produces a partial
// field update from the first data row. Only the first data row is consulted;
// this is a single-record auto-fill, not a batch import.
//
// Headers that match no rule contribute nothing and are not an error. An
// empty result means the caller should surface the original header list so
// the user can see what was there.
func Match(headers, firstRow []string) FieldUpdates {
	updates := FieldUpdates{}
	for i, header := range headers {
		if header == "" || i >= len(firstRow) {
			continue
		}
		value := strings.TrimSpace(firstRow[i])
		if value == "" {
			continue
		}
		field, ok := matchHeader(normalizeHeader(header))
		if !ok {
			continue
		}
		if field == FieldDate {
			iso, ok := parseDateValue(value)
			if !ok {
				// Unparseable dates degrade to "no auto-fill for this field".
				continue
			}
			value = iso
		}
		updates[field] = value
	}
	return updates
}

func matchHeader(header string) (Field, bool) {
	// Invoice number first: it is the most specific compound test and must
	// win over the generic "no" substring of other categories.
	if strings.Contains(header, "invoice") {
		for _, marker := range invoiceNumberMarkers {
			if strings.Contains(header, marker) {
				return FieldInvoiceNumber, true
			}
		}
	}
	for _, rule := range matchRules {
		for _, term := range rule.contains {
			if strings.Contains(header, term) {
				return rule.field, true
			}
		}
		for _, syn := range rule.exact {
			if header == syn {
				return rule.field, true
			}
		}
	}
	// Date last: "date" is a common substring ("mandate", "update") so the
	// exclusions matter more than the keyword.
	if strings.Contains(header, "date") && !strings.Contains(header, "due") && !strings.Contains(header, "expiry") {
		return FieldDate, true
	}
	return "", false
}

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeHeader trims, lowercases, and folds diacritics so accented
// headers still hit the ASCII synonym lists.
func normalizeHeader(header string) string {
	header = strings.TrimSpace(header)
	if folded, _, err := transform.String(deaccent, header); err == nil {
		header = folded
	}
	return strings.ToLower(header)
}

// excelEpochOffset is the number of days between the 1900-based spreadsheet
// serial date epoch and the Unix epoch.
const excelEpochOffset = 25569

var calendarLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
	"2-1-2006",
	time.RFC3339,
}

var looseLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// parseDateValue converts a spreadsheet cell into an ISO calendar date.
// Values with a date separator are parsed as calendar strings, purely
// numeric values as spreadsheet serial dates, anything else through a loose
// fallback. Failure is reported, never raised.
func parseDateValue(value string) (string, bool) {
	if strings.ContainsAny(value, "/-") {
		return parseLayouts(value, calendarLayouts)
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		ms := int64((serial - excelEpochOffset) * 86400 * 1000)
		return time.UnixMilli(ms).UTC().Format("2006-01-02"), true
	}
	return parseLayouts(value, looseLayouts)
}

func parseLayouts(value string, layouts []string) (string, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Format("2006-01-02"), true
		}
	}
	return "", false
}
