package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PersistenceError wraps any backend transport or constraint failure. The
// backend's own message is preserved so the UI can surface it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("records: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistErr(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// ListFilter narrows FetchAll. Nil members are not applied.
type ListFilter struct {
	ShipperName          *string
	Buyer                *string
	InvoiceNumber        *string
	PQStatus             *string
	PQHardcopy           *string
	PermitCopyStatus     *string
	DestinationPort      *string
	ShippingBillReceived *bool
	DateFrom             *string
	DateTo               *string
}

// Repository is the storage capability for the pq_records table. It is
// injected into the service so tests can substitute an in-memory fake.
type Repository interface {
	Exists(ctx context.Context, id string) (bool, error)
	Insert(ctx context.Context, row StorageRow) error
	Update(ctx context.Context, row StorageRow) error
	FetchAll(ctx context.Context, filter ListFilter) ([]StorageRow, error)
	DeleteByID(ctx context.Context, id string) error
	FetchFiles(ctx context.Context, id string) (*FileBlob, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a Repository over a pgx connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const rowColumns = `id, date, shipper_name, buyer, invoice_number, commodity,
	shipping_bill_received, pq_status, pq_hardcopy, permit_copy_status,
	destination_port, remarks, files, created_at, updated_at`

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	var found bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM pq_records WHERE id = $1)", id).Scan(&found)
	if err != nil {
		return false, persistErr("exists", err)
	}
	return found, nil
}

func (r *repository) Insert(ctx context.Context, row StorageRow) error {
	files, err := marshalFiles(row.Files)
	if err != nil {
		return persistErr("insert", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO pq_records (
			id, date, shipper_name, buyer, invoice_number, commodity,
			shipping_bill_received, pq_status, pq_hardcopy, permit_copy_status,
			destination_port, remarks, files
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		row.ID, row.Date, row.ShipperName, row.Buyer, row.InvoiceNumber, row.Commodity,
		row.ShippingBillReceived, row.PQStatus, row.PQHardcopy, row.PermitCopyStatus,
		row.DestinationPort, row.Remarks, files,
	)
	if err != nil {
		return persistErr("insert", err)
	}
	return nil
}

// Update rewrites every mutable column and bumps updated_at. The id and
// created_at columns are never touched.
func (r *repository) Update(ctx context.Context, row StorageRow) error {
	files, err := marshalFiles(row.Files)
	if err != nil {
		return persistErr("update", err)
	}
	_, err = r.pool.Exec(ctx, `
		UPDATE pq_records SET
			date = $2, shipper_name = $3, buyer = $4, invoice_number = $5,
			commodity = $6, shipping_bill_received = $7, pq_status = $8,
			pq_hardcopy = $9, permit_copy_status = $10, destination_port = $11,
			remarks = $12, files = $13, updated_at = NOW()
		WHERE id = $1`,
		row.ID, row.Date, row.ShipperName, row.Buyer, row.InvoiceNumber, row.Commodity,
		row.ShippingBillReceived, row.PQStatus, row.PQHardcopy, row.PermitCopyStatus,
		row.DestinationPort, row.Remarks, files,
	)
	if err != nil {
		return persistErr("update", err)
	}
	return nil
}

func (r *repository) FetchAll(ctx context.Context, filter ListFilter) ([]StorageRow, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	addText := func(column string, value *string) {
		if value != nil && *value != "" {
			conditions = append(conditions, fmt.Sprintf("%s ILIKE $%d", column, argPos))
			args = append(args, "%"+*value+"%")
			argPos++
		}
	}
	addExact := func(column string, value *string) {
		if value != nil && *value != "" {
			conditions = append(conditions, fmt.Sprintf("%s = $%d", column, argPos))
			args = append(args, *value)
			argPos++
		}
	}

	addText("shipper_name", filter.ShipperName)
	addText("buyer", filter.Buyer)
	addText("invoice_number", filter.InvoiceNumber)
	addText("destination_port", filter.DestinationPort)
	addExact("pq_status", filter.PQStatus)
	addExact("pq_hardcopy", filter.PQHardcopy)
	addExact("permit_copy_status", filter.PermitCopyStatus)
	if filter.ShippingBillReceived != nil {
		conditions = append(conditions, fmt.Sprintf("shipping_bill_received = $%d", argPos))
		args = append(args, *filter.ShippingBillReceived)
		argPos++
	}
	if filter.DateFrom != nil && *filter.DateFrom != "" {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argPos))
		args = append(args, *filter.DateFrom)
		argPos++
	}
	if filter.DateTo != nil && *filter.DateTo != "" {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argPos))
		args = append(args, *filter.DateTo)
		argPos++
	}

	query := "SELECT " + rowColumns + " FROM pq_records"
	if len(conditions) > 0 {
		query += " WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			query += " AND " + conditions[i]
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, persistErr("fetch all", err)
	}
	defer rows.Close()

	result := []StorageRow{}
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, persistErr("fetch all", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("fetch all", err)
	}
	return result, nil
}

// DeleteByID removes the row. Deleting an id that does not exist is a
// success; the command tag is not inspected.
func (r *repository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, "DELETE FROM pq_records WHERE id = $1", id); err != nil {
		return persistErr("delete", err)
	}
	return nil
}

// FetchFiles returns the embedded files blob for a record, or nil when the
// record is missing or carries no attachment. The two cases are deliberately
// indistinguishable.
func (r *repository) FetchFiles(ctx context.Context, id string) (*FileBlob, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, "SELECT files FROM pq_records WHERE id = $1", id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistErr("fetch files", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var blob FileBlob
	if err := json.Unmarshal(raw, &blob); err != nil {
		return nil, persistErr("fetch files", err)
	}
	return &blob, nil
}

func marshalFiles(blob *FileBlob) ([]byte, error) {
	if blob == nil {
		return nil, nil
	}
	return json.Marshal(blob)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRow(s rowScanner) (StorageRow, error) {
	var row StorageRow
	var date, pqStatus, pqHardcopy, permitCopy, destPort, remarks pgtype.Text
	var billReceived pgtype.Bool
	var files []byte
	var createdAt, updatedAt pgtype.Timestamptz
	err := s.Scan(
		&row.ID, &date, &row.ShipperName, &row.Buyer, &row.InvoiceNumber, &row.Commodity,
		&billReceived, &pqStatus, &pqHardcopy, &permitCopy,
		&destPort, &remarks, &files, &createdAt, &updatedAt,
	)
	if err != nil {
		return StorageRow{}, err
	}
	row.Date = textPtr(date)
	row.PQStatus = textPtr(pqStatus)
	row.PQHardcopy = textPtr(pqHardcopy)
	row.PermitCopyStatus = textPtr(permitCopy)
	row.DestinationPort = textPtr(destPort)
	row.Remarks = textPtr(remarks)
	if billReceived.Valid {
		v := billReceived.Bool
		row.ShippingBillReceived = &v
	}
	if len(files) > 0 {
		var blob FileBlob
		if err := json.Unmarshal(files, &blob); err != nil {
			return StorageRow{}, err
		}
		row.Files = &blob
	}
	if createdAt.Valid {
		row.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		row.UpdatedAt = updatedAt.Time
	}
	return row, nil
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	v := t.String
	return &v
}
