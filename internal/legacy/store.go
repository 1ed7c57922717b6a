// Package legacy reads the browser-era local store the tracker used before
// records moved to Postgres. It is a single SQLite file holding two JSON
// blobs in a key/value table, mirroring the old localStorage pair: one array
// of records and one map of record id to encoded attachment. The store is
// only ever read; migration never writes back.
package legacy

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const (
	recordsKey = "pq_records"
	filesKey   = "pq_files"
)

// Record is the legacy record shape as serialized by the old client. The
// shipping bill flag may be the string "Yes"/"No" rather than a boolean, and
// pqHardcopy may be missing entirely on old enough entries.
type Record struct {
	ID                   string          `json:"id"`
	Date                 *string         `json:"date"`
	ShipperName          string          `json:"shipperName"`
	Buyer                string          `json:"buyer"`
	InvoiceNumber        string          `json:"invoiceNumber"`
	Commodity            string          `json:"commodity"`
	ShippingBillReceived json.RawMessage `json:"shippingBillReceived"`
	PQStatus             *string         `json:"pqStatus"`
	PQHardcopy           *string         `json:"pqHardcopy"`
	PermitCopyStatus     *string         `json:"permitCopyStatus"`
	DestinationPort      *string         `json:"destinationPort"`
	Remarks              *string         `json:"remarks"`
	UploadedInvoice      *string         `json:"uploadedInvoice"`
}

// BillReceived decodes the mixed-encoding shipping bill flag to a strict
// boolean. Only the string "Yes" and JSON true count as received.
func (r Record) BillReceived() bool {
	if len(r.ShippingBillReceived) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(r.ShippingBillReceived, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(r.ShippingBillReceived, &s); err == nil {
		return s == "Yes"
	}
	return false
}

// StoredFile is the legacy attachment encoding: metadata plus a base64
// data-URL payload, keyed by record id in the parallel files blob.
type StoredFile struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
	Data string `json:"data"`
}

// Store reads the legacy key/value file.
type Store struct {
	db *sql.DB
}

// Open opens the legacy store file. A missing or empty file behaves like an
// empty store rather than an error.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("legacy: open store: %w", err)
	}
	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)"); err != nil {
		db.Close()
		return nil, fmt.Errorf("legacy: init store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Records returns every legacy record, or nil when none were ever stored.
func (s *Store) Records(ctx context.Context) ([]Record, error) {
	raw, err := s.value(ctx, recordsKey)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var records []Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("legacy: decode %s: %w", recordsKey, err)
	}
	return records, nil
}

// Files returns the record id to attachment map. A store without the files
// blob yields an empty map.
func (s *Store) Files(ctx context.Context) (map[string]StoredFile, error) {
	raw, err := s.value(ctx, filesKey)
	if err != nil {
		return nil, err
	}
	files := map[string]StoredFile{}
	if raw == "" {
		return files, nil
	}
	if err := json.Unmarshal([]byte(raw), &files); err != nil {
		return nil, fmt.Errorf("legacy: decode %s: %w", filesKey, err)
	}
	return files, nil
}

func (s *Store) value(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("legacy: read %s: %w", key, err)
	}
	return value, nil
}
