package records

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestYesNoBoolUnmarshal(t *testing.T) {
	cases := []struct {
		raw  string
		want YesNoBool
	}{
		{`true`, YesNo(true)},
		{`false`, YesNo(false)},
		{`"Yes"`, YesNo(true)},
		{`"No"`, YesNo(false)},
		{`"anything else"`, YesNo(false)},
		{`null`, YesNoBool{}},
	}
	for _, tc := range cases {
		var b YesNoBool
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &b), "raw %s", tc.raw)
		require.Equal(t, tc.want, b, "raw %s", tc.raw)
	}

	var b YesNoBool
	require.Error(t, json.Unmarshal([]byte(`42`), &b))
}

func TestYesNoBoolMarshal(t *testing.T) {
	raw, err := json.Marshal(YesNo(true))
	require.NoError(t, err)
	require.Equal(t, `true`, string(raw))

	raw, err = json.Marshal(YesNoBool{})
	require.NoError(t, err)
	require.Equal(t, `null`, string(raw))
}

func TestToStorageRowCollapsesFlag(t *testing.T) {
	rec := Record{ID: "r1", ShipperName: "Acme", ShippingBillReceived: YesNo(true)}
	row := ToStorageRow(rec)
	require.NotNil(t, row.ShippingBillReceived)
	require.True(t, *row.ShippingBillReceived)

	// Unknown collapses to a strict false, never to null.
	row = ToStorageRow(Record{ID: "r2"})
	require.NotNil(t, row.ShippingBillReceived)
	require.False(t, *row.ShippingBillReceived)
}

func TestToStorageRowNeverCarriesFiles(t *testing.T) {
	rec := Record{
		ID:         "r1",
		Upload:     &BinaryFile{Name: "inv.pdf", Data: []byte("x")},
		FileStored: true,
	}
	require.Nil(t, ToStorageRow(rec).Files)
}

func TestStorageRowRoundTrip(t *testing.T) {
	created := time.Date(2021, 6, 1, 10, 0, 0, 0, time.UTC)
	row := StorageRow{
		ID:                   "r1",
		Date:                 strPtr("2021-06-01"),
		ShipperName:          "Acme Exports",
		Buyer:                "Nordsee Imports",
		InvoiceNumber:        "INV-001",
		Commodity:            "Rice",
		ShippingBillReceived: boolPtr(true),
		PQStatus:             strPtr(PQStatusPending),
		PQHardcopy:           strPtr(HardcopyNotReceived),
		PermitCopyStatus:     strPtr(PermitNotRequired),
		DestinationPort:      strPtr("Germany"),
		Remarks:              strPtr("urgent"),
		CreatedAt:            created,
		UpdatedAt:            created,
	}

	rec := FromStorageRow(row)
	require.Equal(t, "r1", rec.ID)
	require.Equal(t, YesNo(true), rec.ShippingBillReceived)
	require.False(t, rec.FileStored)
	require.Equal(t, created, rec.CreatedAt)

	back := ToStorageRow(rec)
	back.CreatedAt, back.UpdatedAt = row.CreatedAt, row.UpdatedAt
	require.Equal(t, row, back)
}

func TestFromStorageRowMarksStoredAttachment(t *testing.T) {
	row := StorageRow{ID: "r1", Files: &FileBlob{Name: "inv.pdf", Data: "data:,"}}
	rec := FromStorageRow(row)
	require.True(t, rec.FileStored)
	require.Nil(t, rec.Upload)
}

func boolPtr(b bool) *bool { return &b }
