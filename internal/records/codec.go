package records

import "time"

// StorageRow mirrors the persisted pq_records table column for column.
// Field names follow the table's snake_case convention; the Record type owns
// the UI-facing camelCase names.
type StorageRow struct {
	ID                   string    `json:"id"`
	Date                 *string   `json:"date"`
	ShipperName          string    `json:"shipper_name"`
	Buyer                string    `json:"buyer"`
	InvoiceNumber        string    `json:"invoice_number"`
	Commodity            string    `json:"commodity"`
	ShippingBillReceived *bool     `json:"shipping_bill_received"`
	PQStatus             *string   `json:"pq_status"`
	PQHardcopy           *string   `json:"pq_hardcopy"`
	PermitCopyStatus     *string   `json:"permit_copy_status"`
	DestinationPort      *string   `json:"destination_port"`
	Remarks              *string   `json:"remarks"`
	Files                *FileBlob `json:"files"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ToStorageRow translates a record into the row shape. The shipping bill
// flag is collapsed to a strict boolean here so the legacy "Yes"/"No"
// encoding never reaches the table. Files is always nil; embedding the
// attachment blob is the caller's job, not the codec's.
func ToStorageRow(rec Record) StorageRow {
	received := rec.ShippingBillReceived.Bool()
	return StorageRow{
		ID:                   rec.ID,
		Date:                 rec.Date,
		ShipperName:          rec.ShipperName,
		Buyer:                rec.Buyer,
		InvoiceNumber:        rec.InvoiceNumber,
		Commodity:            rec.Commodity,
		ShippingBillReceived: &received,
		PQStatus:             rec.PQStatus,
		PQHardcopy:           rec.PQHardcopy,
		PermitCopyStatus:     rec.PermitCopyStatus,
		DestinationPort:      rec.DestinationPort,
		Remarks:              rec.Remarks,
		Files:                nil,
	}
}

// FromStorageRow is the inverse translation. A non-nil files column becomes
// the stored-attachment marker; the embedded blob itself is never surfaced
// here and must be fetched through the attachment accessor. Timestamps pass
// through verbatim as the persistence layer assigned them.
func FromStorageRow(row StorageRow) Record {
	rec := Record{
		ID:               row.ID,
		Date:             row.Date,
		ShipperName:      row.ShipperName,
		Buyer:            row.Buyer,
		InvoiceNumber:    row.InvoiceNumber,
		Commodity:        row.Commodity,
		PQStatus:         row.PQStatus,
		PQHardcopy:       row.PQHardcopy,
		PermitCopyStatus: row.PermitCopyStatus,
		DestinationPort:  row.DestinationPort,
		Remarks:          row.Remarks,
		FileStored:       row.Files != nil,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	if row.ShippingBillReceived != nil {
		rec.ShippingBillReceived = YesNo(*row.ShippingBillReceived)
	}
	return rec
}
