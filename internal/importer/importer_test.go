package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artel-io/naryad/internal/config"
	"github.com/artel-io/naryad/internal/model"
	"github.com/artel-io/naryad/internal/storage"
)

func newTestImporter(t *testing.T) (*Importer, *storage.Store) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.Open(filepath.Join(dir, "naryad.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	cfg := config.Config{
		DBPath:        store.Path(),
		BackupDir:     filepath.Join(dir, "backups"),
		ReportDir:     filepath.Join(dir, "reports"),
		MaxReportRows: 50,
	}
	return New(store, cfg), store
}

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const jobTypesCSV = `Наименование работ;Ед. изм.;Цена
Сварка;шт.;150
Окраска;м2;80
`

const jobTypesUpdatedCSV = `Наименование работ;Ед. изм.;Цена
Сварка;шт.;200
Окраска;м2;80
`

const ordersCSV = `Наряды за 2025 год;;;;;
№;Вид работ;Ед. изм.;Цена;Кол-во;Сумма
ФИО сотрудника: Иванов Иван;;;;;
ФИО сотрудника: Петров Петр;;;;;
ФИО сотрудника: Сидоров Семен;;;;;
Изделие № 101;;;;;
16.06.;;;;;
1;Сварка;шт.;33;1;33
2;Подгонка;шт.;67;1;67
Итого;;;;;100
`

func TestRunImportsJobTypesIdempotently(t *testing.T) {
	im, store := newTestImporter(t)
	ctx := context.Background()

	res, err := im.Run(ctx, writeFixture(t, "rates.csv", jobTypesCSV), Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.PerKind[model.KindJobTypes].Added)
	assert.Zero(t, res.PerKind[model.KindJobTypes].Updated)

	// Same rows with one changed price: nothing added, both matched.
	res, err = im.Run(ctx, writeFixture(t, "rates.csv", jobTypesUpdatedCSV), Options{})
	require.NoError(t, err)
	assert.Zero(t, res.PerKind[model.KindJobTypes].Added)
	assert.Equal(t, 2, res.PerKind[model.KindJobTypes].Updated)

	j, err := store.GetJobType(ctx, "Сварка")
	require.NoError(t, err)
	require.NotNil(t, j)
	assert.InDelta(t, 200, j.Price, 1e-9)

	n, err := store.CountRows(ctx, "job_types")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRunDryRunTouchesNothing(t *testing.T) {
	im, store := newTestImporter(t)
	ctx := context.Background()

	res, err := im.Run(ctx, writeFixture(t, "rates.csv", jobTypesCSV), Options{DryRun: true})
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.Equal(t, 2, res.PerKind[model.KindJobTypes].Added)
	assert.FileExists(t, res.ReportPath)

	n, err := store.CountRows(ctx, "job_types")
	require.NoError(t, err)
	assert.Zero(t, n, "a dry run must not write to the store")
}

func TestRunReconstructsLedger(t *testing.T) {
	im, store := newTestImporter(t)
	ctx := context.Background()

	res, err := im.Run(ctx, writeFixture(t, "orders.csv", ordersCSV), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.PerKind[model.KindOrders].Added)

	for table, want := range map[string]int{
		"work_orders":        1,
		"work_order_items":   2,
		"work_order_workers": 3,
		"workers":            3,
		"job_types":          2,
	} {
		n, err := store.CountRows(ctx, table)
		require.NoError(t, err)
		assert.Equal(t, want, n, table)
	}
}

func TestRunSplitsTotalExactly(t *testing.T) {
	im, store := newTestImporter(t)
	ctx := context.Background()

	_, err := im.Run(ctx, writeFixture(t, "orders.csv", ordersCSV), Options{})
	require.NoError(t, err)

	allocs, err := store.WorkOrderAllocations(ctx, 1)
	require.NoError(t, err)
	require.Len(t, allocs, 3)

	var sum float64
	for _, a := range allocs {
		assert.InDelta(t, 100.0/3, a.Amount, 0.01, "each share stays within a kopeck of the even split")
		sum += a.Amount
	}
	assert.InDelta(t, 100, sum, 1e-9, "shares must sum to the order total")
}

const ordersBareBannerCSV = `Наряды за 2025;;;;;
№;Вид работ;Ед. изм.;Цена;Кол-во;Сумма
ФИО сотрудника: Иванов Иван;;;;;
Изделие № 7;;;;;
16.06.;;;;;
1;Сварка;шт.;150;2;300
Итого;;;;;300
`

func TestRunUnknownExtensionKeepsBannerYear(t *testing.T) {
	im, store := newTestImporter(t)
	ctx := context.Background()

	// A .dat export falls back to the delimited-text codec, so the bare
	// "за 2025" banner form must still supply the year for day.month dates.
	res, err := im.Run(ctx, writeFixture(t, "orders.dat", ordersBareBannerCSV), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.PerKind[model.KindOrders].Added)

	dates, err := store.WorkOrderDates(ctx)
	require.NoError(t, err)
	require.Len(t, dates, 1)
	assert.Equal(t, "2025-06-16", dates[0])
}

func TestRunBacksUpBeforeCommit(t *testing.T) {
	im, _ := newTestImporter(t)

	res, err := im.Run(context.Background(),
		writeFixture(t, "rates.csv", jobTypesCSV), Options{BackupBefore: true})
	require.NoError(t, err)
	require.NotEmpty(t, res.BackupPath)
	assert.FileExists(t, res.BackupPath)
}

func TestRunPresetFiltersKinds(t *testing.T) {
	im, store := newTestImporter(t)
	ctx := context.Background()

	res, err := im.Run(ctx, writeFixture(t, "rates.csv", jobTypesCSV),
		Options{Preset: model.PresetOrders})
	require.NoError(t, err)
	assert.Zero(t, res.PerKind[model.KindJobTypes].Added)
	assert.Equal(t, 1, res.Skipped)

	n, err := store.CountRows(ctx, "job_types")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRunWarnsOnUndecodableFile(t *testing.T) {
	im, _ := newTestImporter(t)

	res, err := im.Run(context.Background(),
		writeFixture(t, "broken.xlsx", "not a workbook"), Options{DryRun: true})
	require.NoError(t, err)
	require.NotEmpty(t, res.Warnings)
	assert.FileExists(t, res.ReportPath)
}

func TestRunReportsProgress(t *testing.T) {
	im, _ := newTestImporter(t)

	var notes []string
	opts := Options{
		DryRun: true,
		Progress: func(step, total int, note string) {
			assert.LessOrEqual(t, step, total)
			notes = append(notes, note)
		},
	}
	_, err := im.Run(context.Background(), writeFixture(t, "rates.csv", jobTypesCSV), opts)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}
