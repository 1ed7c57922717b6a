package records

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchHeaderSynonyms(t *testing.T) {
	cases := []struct {
		header string
		field  Field
	}{
		{"Invoice Number", FieldInvoiceNumber},
		{"Invoice No", FieldInvoiceNumber},
		{"Invoice #", FieldInvoiceNumber},
		{"invoice", FieldInvoiceNumber},
		{"INVOICE_NUMBER", FieldInvoiceNumber},
		{"Shipper", FieldShipperName},
		{"Shipper Name", FieldShipperName},
		{"Exporter", FieldShipperName},
		{"Seller Company", FieldShipperName},
		{"Buyer", FieldBuyer},
		{"Importer Name", FieldBuyer},
		{"Consignee", FieldBuyer},
		{"Commodity", FieldCommodity},
		{"Product Description", FieldCommodity},
		{"Goods", FieldCommodity},
		{"Destination", FieldDestinationPort},
		{"Country", FieldDestinationPort},
		{"Port of Discharge", FieldDestinationPort},
		{"Final Destination", FieldDestinationPort},
		{"country_of_destination", FieldDestinationPort},
		{"Date", FieldDate},
		{"Shipping Date", FieldDate},
	}
	for _, tc := range cases {
		field, ok := matchHeader(normalizeHeader(tc.header))
		require.True(t, ok, "header %q should match", tc.header)
		require.Equal(t, tc.field, field, "header %q", tc.header)
	}
}

func TestMatchHeaderCompoundCountryBeatsConsignee(t *testing.T) {
	field, ok := matchHeader(normalizeHeader("Consignee Country"))
	require.True(t, ok)
	require.Equal(t, FieldDestinationPort, field)
}

func TestMatchHeaderExclusions(t *testing.T) {
	for _, header := range []string{"Due Date", "Expiry Date", "Container", "Weight", ""} {
		_, ok := matchHeader(normalizeHeader(header))
		require.False(t, ok, "header %q should not match", header)
	}
}

func TestMatchHeaderFoldsDiacritics(t *testing.T) {
	field, ok := matchHeader(normalizeHeader("  Éxporter  "))
	require.True(t, ok)
	require.Equal(t, FieldShipperName, field)
}

func TestMatchPopulatesFieldsFromFirstRow(t *testing.T) {
	headers := []string{"Invoice Number", "Shipper", "Consignee", "Commodity", "Consignee Country", "Date"}
	row := []string{"INV-2021-001", "Acme Exports", "Nordsee Imports", "Basmati Rice", "Germany", "44197"}

	updates := Match(headers, row)

	require.Equal(t, FieldUpdates{
		FieldInvoiceNumber:   "INV-2021-001",
		FieldShipperName:     "Acme Exports",
		FieldBuyer:           "Nordsee Imports",
		FieldCommodity:       "Basmati Rice",
		FieldDestinationPort: "Germany",
		FieldDate:            "2021-01-01",
	}, updates)
}

func TestMatchSkipsEmptyHeadersAndValues(t *testing.T) {
	headers := []string{"", "Buyer", "Shipper", "Commodity"}
	row := []string{"ignored", "  ", "Acme Exports"}

	updates := Match(headers, row)

	// The empty header, the blank buyer cell, and the commodity column with
	// no cell at all contribute nothing.
	require.Equal(t, FieldUpdates{FieldShipperName: "Acme Exports"}, updates)
}

func TestMatchUnmatchedHeadersYieldEmptyResult(t *testing.T) {
	updates := Match([]string{"Container", "Weight"}, []string{"MSKU123", "24000"})
	require.Empty(t, updates)
}

func TestMatchDropsUnparseableDates(t *testing.T) {
	updates := Match([]string{"Date", "Buyer"}, []string{"next tuesday", "Nordsee Imports"})
	require.Equal(t, FieldUpdates{FieldBuyer: "Nordsee Imports"}, updates)
}

func TestParseDateValue(t *testing.T) {
	cases := []struct {
		value string
		want  string
	}{
		{"2021-01-01", "2021-01-01"},
		{"2021/03/15", "2021-03-15"},
		{"03/15/2021", "2021-03-15"},
		{"15-03-2021", "2021-03-15"},
		{"44197", "2021-01-01"},
		{"44561", "2021-12-31"},
		{"Jan 1, 2021", "2021-01-01"},
		{"15 March 2021", "2021-03-15"},
	}
	for _, tc := range cases {
		got, ok := parseDateValue(tc.value)
		require.True(t, ok, "value %q should parse", tc.value)
		require.Equal(t, tc.want, got, "value %q", tc.value)
	}

	for _, value := range []string{"soon", "12,5", "n/a"} {
		_, ok := parseDateValue(value)
		require.False(t, ok, "value %q should not parse", value)
	}
}

func TestFieldLabels(t *testing.T) {
	require.Equal(t, "Invoice Number", FieldInvoiceNumber.Label())
	require.Equal(t, "Destination Country", FieldDestinationPort.Label())
	require.Equal(t, "other", Field("other").Label())
}
