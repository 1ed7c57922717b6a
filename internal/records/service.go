package records

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Service owns the persistence orchestration around the pq_records table:
// attachment encoding, shape translation, and the check-then-write save.
type Service struct {
	repo   Repository
	legacy LegacyStore
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires a Service. The legacy store may be nil when no migration
// source is configured.
func NewService(repo Repository, legacy LegacyStore, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		legacy: legacy,
		logger: logger,
		now:    time.Now,
	}
}

// Save persists a record, inserting or updating by a point existence check
// on the id. The check and the write are not atomic; a concurrent writer on
// the same id means last response wins, which is accepted.
//
// An in-memory upload is encoded into the row's files column. When the
// record carries no new upload but was already stored with an attachment,
// the embedded blob is preserved on update by re-reading it first.
func (s *Service) Save(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	row := ToStorageRow(rec)
	if rec.Upload != nil {
		blob := EncodeAttachment(*rec.Upload)
		row.Files = &blob
	}

	// A failed lookup falls through to insert; the write surfaces the real
	// backend error.
	exists, err := s.repo.Exists(ctx, rec.ID)
	if err != nil {
		s.logger.Warn("existence check failed, attempting insert", "id", rec.ID, "error", err)
		exists = false
	}

	if exists {
		if row.Files == nil && rec.FileStored {
			stored, err := s.repo.FetchFiles(ctx, rec.ID)
			if err != nil {
				return Record{}, err
			}
			row.Files = stored
		}
		if err := s.repo.Update(ctx, row); err != nil {
			return Record{}, err
		}
	} else {
		if err := s.repo.Insert(ctx, row); err != nil {
			return Record{}, err
		}
	}

	rec.Upload = nil
	rec.FileStored = row.Files != nil
	return rec, nil
}

// FetchAll returns records newest first. An empty table is an empty slice,
// not an error.
func (s *Service) FetchAll(ctx context.Context, filter ListFilter) ([]Record, error) {
	rows, err := s.repo.FetchAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := make([]Record, 0, len(rows))
	for _, row := range rows {
		result = append(result, FromStorageRow(row))
	}
	return result, nil
}

// DeleteByID removes a record. A missing id is not an error.
func (s *Service) DeleteByID(ctx context.Context, id string) error {
	return s.repo.DeleteByID(ctx, id)
}

// FetchAttachment returns the decoded attachment, or nil when the record
// does not exist, has no attachment, or the stored payload does not decode.
// Only transport failures surface as errors.
func (s *Service) FetchAttachment(ctx context.Context, id string) (*BinaryFile, error) {
	blob, err := s.repo.FetchFiles(ctx, id)
	if err != nil {
		return nil, err
	}
	if blob == nil {
		return nil, nil
	}
	file, err := DecodeAttachment(*blob)
	if err != nil {
		s.logger.Warn("stored attachment did not decode", "id", id, "error", err)
		return nil, nil
	}
	return file, nil
}

// AttachmentInfo returns an attachment's metadata without its payload.
func (s *Service) AttachmentInfo(ctx context.Context, id string) (*FileInfo, error) {
	blob, err := s.repo.FetchFiles(ctx, id)
	if err != nil {
		return nil, err
	}
	if blob == nil {
		return nil, nil
	}
	return &FileInfo{Name: blob.Name, Type: blob.Type, Size: blob.Size}, nil
}

// delayThreshold is how long a consignment may sit in Pending before the
// dashboard counts it as delayed.
const delayThreshold = 48 * time.Hour

// Stats aggregates the dashboard counters over the whole table.
func (s *Service) Stats(ctx context.Context) (DashboardStats, error) {
	recs, err := s.FetchAll(ctx, ListFilter{})
	if err != nil {
		return DashboardStats{}, err
	}
	stats := DashboardStats{TotalContainers: len(recs)}
	now := s.now()
	for _, rec := range recs {
		status := ""
		if rec.PQStatus != nil {
			status = *rec.PQStatus
		}
		switch status {
		case PQStatusPending:
			stats.PendingPQ++
			if now.Sub(rec.CreatedAt) > delayThreshold {
				stats.DelaysOver48Hours++
			}
		case PQStatusReceived:
			stats.CertificatesReceived++
		}
		if rec.PQHardcopy == nil || *rec.PQHardcopy != HardcopyReceived {
			stats.PQHardcopyMissing++
		}
	}
	return stats, nil
}
