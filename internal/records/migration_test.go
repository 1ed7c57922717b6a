package records

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/EsakiSelvam05/pq-tracker-v2/internal/legacy"
)

// memoryLegacy is a canned LegacyStore.
type memoryLegacy struct {
	records    []legacy.Record
	files      map[string]legacy.StoredFile
	recordsErr error
	filesErr   error
}

func (m *memoryLegacy) Records(ctx context.Context) ([]legacy.Record, error) {
	return m.records, m.recordsErr
}

func (m *memoryLegacy) Files(ctx context.Context) (map[string]legacy.StoredFile, error) {
	return m.files, m.filesErr
}

func legacyFixture() *memoryLegacy {
	status := PQStatusPending
	return &memoryLegacy{
		records: []legacy.Record{
			{
				ID:                   "l1",
				ShipperName:          "Acme Exports",
				Buyer:                "Nordsee Imports",
				InvoiceNumber:        "INV-001",
				Commodity:            "Rice",
				ShippingBillReceived: json.RawMessage(`"Yes"`),
				PQStatus:             &status,
			},
			{
				ID:                   "l2",
				ShipperName:          "Beta Traders",
				InvoiceNumber:        "INV-002",
				ShippingBillReceived: json.RawMessage(`true`),
			},
		},
		files: map[string]legacy.StoredFile{
			"l1": {Name: "inv.pdf", Type: "application/pdf", Size: 3, Data: "data:application/pdf;base64,cGRm"},
		},
	}
}

func TestMigrateLegacyStoreCopiesRecords(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, legacyFixture())

	report, err := svc.MigrateLegacyStore(context.Background())
	require.NoError(t, err)
	require.Equal(t, MigrationReport{Total: 2, Migrated: 2}, report)
	require.Len(t, repo.rows, 2)

	first := repo.rows[0]
	require.Equal(t, "l1", first.ID)
	require.NotNil(t, first.ShippingBillReceived)
	require.True(t, *first.ShippingBillReceived)
	require.NotNil(t, first.Files)
	require.Equal(t, "inv.pdf", first.Files.Name)

	// Records without a stored file migrate with an empty files column, and
	// a missing hardcopy status defaults to Not Received.
	second := repo.rows[1]
	require.Nil(t, second.Files)
	require.NotNil(t, second.PQHardcopy)
	require.Equal(t, HardcopyNotReceived, *second.PQHardcopy)
}

func TestMigrateLegacyStoreBillReceivedCoercion(t *testing.T) {
	store := &memoryLegacy{records: []legacy.Record{
		{ID: "l1", ShippingBillReceived: json.RawMessage(`"No"`)},
		{ID: "l2", ShippingBillReceived: json.RawMessage(`false`)},
		{ID: "l3"},
	}}
	repo := newMemoryRepo()
	svc := newTestService(repo, store)

	_, err := svc.MigrateLegacyStore(context.Background())
	require.NoError(t, err)
	for _, row := range repo.rows {
		require.NotNil(t, row.ShippingBillReceived)
		require.False(t, *row.ShippingBillReceived, "row %s", row.ID)
	}
}

func TestMigrateLegacyStoreSkipsFailedRecords(t *testing.T) {
	repo := newMemoryRepo()
	repo.insertErrFor = map[string]error{"l1": persistErr("insert", errors.New("boom"))}
	svc := newTestService(repo, legacyFixture())

	report, err := svc.MigrateLegacyStore(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, report.Total)
	require.Equal(t, 1, report.Migrated)
	require.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	require.Contains(t, report.Errors[0], "l1")
}

func TestMigrateLegacyStoreRerunDuplicates(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, legacyFixture())

	_, err := svc.MigrateLegacyStore(context.Background())
	require.NoError(t, err)
	_, err = svc.MigrateLegacyStore(context.Background())
	require.NoError(t, err)

	// Inserts are blind; a second run doubles the rows.
	require.Equal(t, 4, repo.inserts)
}

func TestMigrateLegacyStoreEmptyStore(t *testing.T) {
	svc := newTestService(newMemoryRepo(), &memoryLegacy{})
	report, err := svc.MigrateLegacyStore(context.Background())
	require.NoError(t, err)
	require.Equal(t, MigrationReport{}, report)
}

func TestMigrateLegacyStoreNotConfigured(t *testing.T) {
	svc := newTestService(newMemoryRepo(), nil)
	_, err := svc.MigrateLegacyStore(context.Background())
	require.Error(t, err)
}

func TestMigrateLegacyStoreReadFailureAborts(t *testing.T) {
	store := legacyFixture()
	store.recordsErr = errors.New("file locked")
	repo := newMemoryRepo()
	svc := newTestService(repo, store)

	_, err := svc.MigrateLegacyStore(context.Background())
	require.Error(t, err)
	require.Empty(t, repo.rows)
}
