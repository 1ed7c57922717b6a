package records

import (
	"bytes"
	"encoding/json"
	"time"
)

// PQ status values tracked per consignment. The database does not enforce
// these; they are UI-level vocabularies carried through as text.
const (
	PQStatusPending  = "Pending"
	PQStatusReceived = "Received"

	HardcopyNotReceived = "Not Received"
	HardcopyReceived    = "Received"

	PermitNotRequired = "Not Required"
	PermitNotReceived = "Not Received"
	PermitReceived    = "Received"
)

// YesNoBool is a tri-state flag. Legacy clients encoded it as the strings
// "Yes"/"No", current clients send a JSON boolean, and both may omit it.
// It never leaves the codec boundary as a string.
type YesNoBool struct {
	Known bool
	Yes   bool
}

// Bool collapses the flag to a strict boolean. Unknown reads as false.
func (b YesNoBool) Bool() bool {
	return b.Known && b.Yes
}

// YesNo returns a known flag with the given value.
func YesNo(v bool) YesNoBool {
	return YesNoBool{Known: true, Yes: v}
}

func (b *YesNoBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*b = YesNoBool{}
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = YesNo(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*b = YesNo(s == "Yes")
	return nil
}

func (b YesNoBool) MarshalJSON() ([]byte, error) {
	if !b.Known {
		return []byte("null"), nil
	}
	return json.Marshal(b.Yes)
}

// BinaryFile is an in-memory uploaded file, held only until persistence.
type BinaryFile struct {
	Name     string
	MIMEType string
	Data     []byte
}

// FileBlob is the transportable encoding of an attachment as embedded in the
// persisted row's files column: metadata plus a base64 data-URL payload.
type FileBlob struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
	Data string `json:"data"`
}

// Record is the canonical consignment entry as the UI sees it.
//
// The attachment lives in exactly one of two places: Upload carries the raw
// bytes before the record is persisted, FileStored marks that the encoded
// blob now lives in the persisted row and must be fetched separately. The
// transition is one-way; a stored attachment only becomes binary again
// through a fresh user upload.
type Record struct {
	ID                   string
	Date                 *string
	ShipperName          string
	Buyer                string
	InvoiceNumber        string
	Commodity            string
	ShippingBillReceived YesNoBool
	PQStatus             *string
	PQHardcopy           *string
	PermitCopyStatus     *string
	DestinationPort      *string
	Remarks              *string

	Upload     *BinaryFile
	FileStored bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FileInfo describes a stored attachment without its payload.
type FileInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// DashboardStats summarises the table for the dashboard cards.
type DashboardStats struct {
	TotalContainers      int `json:"totalContainers"`
	PendingPQ            int `json:"pendingPQ"`
	CertificatesReceived int `json:"certificatesReceived"`
	PQHardcopyMissing    int `json:"pqHardcopyMissing"`
	DelaysOver48Hours    int `json:"delaysOver48Hours"`
}
