package records

import "time"

// storedFileMarker is the sentinel the UI exchange uses for an attachment
// that lives in the persisted row rather than in memory.
const storedFileMarker = "stored_file"

// AttachmentUpload is a file sent inline with a save request. Data is the
// base64 payload, with or without a data-URL prefix.
type AttachmentUpload struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type"`
	Data string `json:"data" validate:"required"`
}

// SaveRecordRequest is the submit payload from the entry form.
type SaveRecordRequest struct {
	ID                   string            `json:"id"`
	Date                 *string           `json:"date"`
	ShipperName          string            `json:"shipperName" validate:"required"`
	Buyer                string            `json:"buyer" validate:"required"`
	InvoiceNumber        string            `json:"invoiceNumber" validate:"required"`
	Commodity            string            `json:"commodity" validate:"required"`
	ShippingBillReceived YesNoBool         `json:"shippingBillReceived"`
	PQStatus             *string           `json:"pqStatus"`
	PQHardcopy           *string           `json:"pqHardcopy"`
	PermitCopyStatus     *string           `json:"permitCopyStatus"`
	DestinationPort      *string           `json:"destinationPort"`
	Remarks              *string           `json:"remarks"`
	Attachment           *AttachmentUpload `json:"attachment"`
	AttachmentStored     bool              `json:"attachmentStored"`
}

// RecordResponse is the UI-facing record shape.
type RecordResponse struct {
	ID                   string    `json:"id"`
	Date                 *string   `json:"date"`
	ShipperName          string    `json:"shipperName"`
	Buyer                string    `json:"buyer"`
	InvoiceNumber        string    `json:"invoiceNumber"`
	Commodity            string    `json:"commodity"`
	ShippingBillReceived YesNoBool `json:"shippingBillReceived"`
	PQStatus             *string   `json:"pqStatus"`
	PQHardcopy           *string   `json:"pqHardcopy"`
	PermitCopyStatus     *string   `json:"permitCopyStatus"`
	DestinationPort      *string   `json:"destinationPort"`
	Remarks              *string   `json:"remarks"`
	UploadedInvoice      *string   `json:"uploadedInvoice"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

func toResponse(rec Record) RecordResponse {
	resp := RecordResponse{
		ID:                   rec.ID,
		Date:                 rec.Date,
		ShipperName:          rec.ShipperName,
		Buyer:                rec.Buyer,
		InvoiceNumber:        rec.InvoiceNumber,
		Commodity:            rec.Commodity,
		ShippingBillReceived: rec.ShippingBillReceived,
		PQStatus:             rec.PQStatus,
		PQHardcopy:           rec.PQHardcopy,
		PermitCopyStatus:     rec.PermitCopyStatus,
		DestinationPort:      rec.DestinationPort,
		Remarks:              rec.Remarks,
		CreatedAt:            rec.CreatedAt,
		UpdatedAt:            rec.UpdatedAt,
	}
	if rec.FileStored {
		marker := storedFileMarker
		resp.UploadedInvoice = &marker
	}
	return resp
}

// AutoFillResponse reports what a spreadsheet analysis produced. When no
// header matched, Headers carries the full header row for diagnosis.
type AutoFillResponse struct {
	Updates       FieldUpdates `json:"updates"`
	MatchedFields []string     `json:"matchedFields"`
	Headers       []string     `json:"headers,omitempty"`
	Message       string       `json:"message"`
}
