package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artel-io/naryad/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "naryad.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func inTx(t *testing.T, store *Store, fn func(tx *Tx)) {
	t.Helper()
	tx, err := store.BeginTx(context.Background())
	require.NoError(t, err)
	fn(tx)
	require.NoError(t, tx.Commit())
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Migrate(context.Background()))

	n, err := store.CountRows(context.Background(), "workers")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpsertJobTypeAddsThenUpdates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	inTx(t, store, func(tx *Tx) {
		added, err := tx.UpsertJobType(ctx, model.JobType{Name: "Сварка", Unit: "шт.", Price: 150})
		require.NoError(t, err)
		assert.True(t, added)
	})

	inTx(t, store, func(tx *Tx) {
		added, err := tx.UpsertJobType(ctx, model.JobType{Name: "сварка", Unit: "шт.", Price: 200})
		require.NoError(t, err)
		assert.False(t, added, "case-folded name must match the existing row")
	})

	j, err := store.GetJobType(ctx, "Сварка")
	require.NoError(t, err)
	require.NotNil(t, j)
	assert.InDelta(t, 200, j.Price, 1e-9)

	n, err := store.CountRows(ctx, "job_types")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUpsertWorkerFallsBackToName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	inTx(t, store, func(tx *Tx) {
		added, err := tx.UpsertWorker(ctx, model.Worker{FullName: "Иванов Иван", PersonnelNo: ""})
		require.NoError(t, err)
		assert.True(t, added)

		// Same person, now with a personnel number: matched by name.
		added, err = tx.UpsertWorker(ctx, model.Worker{FullName: "  иванов   иван ", PersonnelNo: "1001"})
		require.NoError(t, err)
		assert.False(t, added)

		// And from now on matched by personnel number.
		added, err = tx.UpsertWorker(ctx, model.Worker{FullName: "Иванов И.", PersonnelNo: "1001"})
		require.NoError(t, err)
		assert.False(t, added)
	})

	n, err := store.CountRows(ctx, "workers")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUpsertContractSnapshotsHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	inTx(t, store, func(tx *Tx) {
		added, err := tx.UpsertContract(ctx, model.Contract{Code: "К-1", Name: "Первая редакция"})
		require.NoError(t, err)
		assert.True(t, added)
	})

	inTx(t, store, func(tx *Tx) {
		added, err := tx.UpsertContract(ctx, model.Contract{Code: "К-1", Name: "Вторая редакция", Executor: "ООО Ремонт"})
		require.NoError(t, err)
		assert.False(t, added)
	})

	history, err := store.GetContractHistory(ctx, "К-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Первая редакция", history[0].Name, "history holds the pre-update row")

	n, err := store.CountRows(ctx, "contracts")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEnsureWorkerGeneratesPersonnelNo(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	inTx(t, store, func(tx *Tx) {
		id1, err := tx.EnsureWorker(ctx, model.OrderWorker{FullName: "Петров Петр"})
		require.NoError(t, err)
		require.NotZero(t, id1)

		// Second reference to the same name resolves, not duplicates.
		id2, err := tx.EnsureWorker(ctx, model.OrderWorker{FullName: "Петров Петр"})
		require.NoError(t, err)
		assert.Equal(t, id1, id2)
	})

	n, err := store.CountRows(ctx, "workers")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCreateWorkOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	inTx(t, store, func(tx *Tx) {
		contractID, err := tx.EnsureContract(ctx, "")
		require.NoError(t, err)
		productID, err := tx.EnsureProduct(ctx, "101")
		require.NoError(t, err)
		workerID, err := tx.EnsureWorker(ctx, model.OrderWorker{FullName: "Иванов", PersonnelNo: "1001"})
		require.NoError(t, err)

		items := []model.OrderItem{
			{JobName: "Сварка", Unit: "шт.", UnitPrice: 150, Quantity: 2, Amount: 300},
			{JobName: "Окраска", Unit: "м2", UnitPrice: 80, Quantity: 1, Amount: 80},
		}
		orderID, err := tx.CreateWorkOrder(ctx, "2025-06-16", productID, contractID, items,
			[]WorkerAllocation{{WorkerID: workerID, Amount: 380}})
		require.NoError(t, err)
		require.NotZero(t, orderID)
	})

	for table, want := range map[string]int{
		"work_orders": 1, "work_order_items": 2, "work_order_workers": 1,
	} {
		n, err := store.CountRows(ctx, table)
		require.NoError(t, err)
		assert.Equal(t, want, n, table)
	}
}

func TestRollbackLeavesStoreUntouched(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	_, err = tx.UpsertJobType(ctx, model.JobType{Name: "Сварка", Price: 150})
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	n, err := store.CountRows(ctx, "job_types")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBackupCopiesStoreFile(t *testing.T) {
	store := newTestStore(t)
	backupDir := t.TempDir()

	path, err := Backup(store.Path(), backupDir)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Contains(t, filepath.Base(path), "naryad-")
}
