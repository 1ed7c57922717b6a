package records

import (
	"context"
	"fmt"

	"github.com/EsakiSelvam05/pq-tracker-v2/internal/legacy"
)

// LegacyStore is the read side of the pre-Postgres local store.
type LegacyStore interface {
	Records(ctx context.Context) ([]legacy.Record, error)
	Files(ctx context.Context) (map[string]legacy.StoredFile, error)
}

// MigrationReport aggregates the outcome of a legacy migration run.
type MigrationReport struct {
	Total    int      `json:"total"`
	Migrated int      `json:"migrated"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// MigrateLegacyStore copies every record from the legacy local store into
// the remote table. It is a best-effort bulk loader: per-record failures are
// logged and skipped, and only a failed read of the store itself aborts the
// run. Inserts are blind, with no existence check, so re-running after a
// partial migration duplicates rows; that matches the behavior the data was
// originally migrated with and is reported, not hidden.
func (s *Service) MigrateLegacyStore(ctx context.Context) (MigrationReport, error) {
	if s.legacy == nil {
		return MigrationReport{}, fmt.Errorf("records: no legacy store configured")
	}

	legacyRecords, err := s.legacy.Records(ctx)
	if err != nil {
		return MigrationReport{}, fmt.Errorf("records: read legacy store: %w", err)
	}
	if len(legacyRecords) == 0 {
		s.logger.Info("no legacy records found to migrate")
		return MigrationReport{}, nil
	}
	files, err := s.legacy.Files(ctx)
	if err != nil {
		return MigrationReport{}, fmt.Errorf("records: read legacy files: %w", err)
	}

	s.logger.Info("migrating legacy records", "count", len(legacyRecords))

	report := MigrationReport{Total: len(legacyRecords)}
	for _, lr := range legacyRecords {
		row := ToStorageRow(fromLegacy(lr))
		if stored, ok := files[lr.ID]; ok {
			row.Files = &FileBlob{Name: stored.Name, Type: stored.Type, Size: stored.Size, Data: stored.Data}
		}
		if err := s.repo.Insert(ctx, row); err != nil {
			s.logger.Error("legacy record failed to migrate", "id", lr.ID, "error", err)
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", lr.ID, err))
			continue
		}
		s.logger.Info("migrated legacy record", "id", lr.ID, "invoice", lr.InvoiceNumber)
		report.Migrated++
	}
	return report, nil
}

// fromLegacy lifts a legacy-shaped record into the current shape. The mixed
// "Yes"/"No" flag becomes a strict boolean and a missing hardcopy status
// defaults to Not Received. Legacy timestamps are not carried; the table
// assigns fresh ones on insert.
func fromLegacy(lr legacy.Record) Record {
	hardcopy := lr.PQHardcopy
	if hardcopy == nil {
		v := HardcopyNotReceived
		hardcopy = &v
	}
	return Record{
		ID:                   lr.ID,
		Date:                 lr.Date,
		ShipperName:          lr.ShipperName,
		Buyer:                lr.Buyer,
		InvoiceNumber:        lr.InvoiceNumber,
		Commodity:            lr.Commodity,
		ShippingBillReceived: YesNo(lr.BillReceived()),
		PQStatus:             lr.PQStatus,
		PQHardcopy:           hardcopy,
		PermitCopyStatus:     lr.PermitCopyStatus,
		DestinationPort:      lr.DestinationPort,
		Remarks:              lr.Remarks,
	}
}
