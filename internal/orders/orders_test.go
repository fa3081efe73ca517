package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artel-io/naryad/internal/model"
)

func ledgerTable(rows ...[]string) model.RawTable {
	return model.RawTable{Rows: rows}
}

func TestReconstructPartitionsGroupsByDate(t *testing.T) {
	// Three date lines with 2, 1 and 3 item lines respectively must yield
	// exactly three groups with those item counts, in order.
	tbl := ledgerTable(
		[]string{"Наряды за 2025 г."},
		[]string{"ФИО сотрудника: Иванов Иван"},
		[]string{"Изделие № 101, 102"},
		[]string{"16.06."},
		[]string{"1", "Сварка", "шт.", "150", "2", "300"},
		[]string{"2", "Окраска", "м2", "80", "1", "80"},
		[]string{"17.06."},
		[]string{"1", "Сборка", "шт.", "200", "1", "200"},
		[]string{"18.06."},
		[]string{"1", "Сварка", "шт.", "150", "1", "150"},
		[]string{"2", "Зачистка", "шт.", "50", "2", "100"},
		[]string{"3", "Упаковка", "шт.", "20", "5", "100"},
		[]string{"Итого", "", "", "", "", "930"},
	)

	groups := FromTable(tbl, SheetMarkers())
	require.Len(t, groups, 3)
	assert.Len(t, groups[0].Items, 2)
	assert.Len(t, groups[1].Items, 1)
	assert.Len(t, groups[2].Items, 3)
	assert.Equal(t, "2025-06-16", groups[0].Date)
	assert.Equal(t, "2025-06-17", groups[1].Date)
	assert.Equal(t, "2025-06-18", groups[2].Date)
}

func TestReconstructYearFallbackFromBanner(t *testing.T) {
	tbl := ledgerTable(
		[]string{"Ведомость нарядов за 2025 г."},
		[]string{"16.06."},
		[]string{"1", "Сварка", "шт.", "150", "2", "300"},
	)
	groups := FromTable(tbl, SheetMarkers())
	require.Len(t, groups, 1)
	assert.Equal(t, "2025-06-16", groups[0].Date)
}

func TestReconstructExplicitYearWins(t *testing.T) {
	tbl := ledgerTable(
		[]string{"Наряды за 2025 г."},
		[]string{"16.06.24"},
		[]string{"1", "Сварка", "шт.", "150", "2", "300"},
	)
	groups := FromTable(tbl, SheetMarkers())
	require.Len(t, groups, 1)
	assert.Equal(t, "2024-06-16", groups[0].Date)
}

func TestReconstructWorkersAccumulateAcrossGroups(t *testing.T) {
	tbl := ledgerTable(
		[]string{"ФИО сотрудника: Иванов Иван, таб. № 1001"},
		[]string{"01.02.2025"},
		[]string{"1", "Сварка", "шт.", "100", "1", "100"},
		[]string{"ФИО сотрудника: Петров Петр"},
		[]string{"02.02.2025"},
		[]string{"1", "Окраска", "м2", "80", "1", "80"},
	)
	groups := FromTable(tbl, SheetMarkers())
	require.Len(t, groups, 2)

	require.Len(t, groups[0].Workers, 1)
	assert.Equal(t, "Иванов Иван", groups[0].Workers[0].FullName)
	assert.Equal(t, "1001", groups[0].Workers[0].PersonnelNo)

	require.Len(t, groups[1].Workers, 2)
	assert.Equal(t, "Петров Петр", groups[1].Workers[1].FullName)
}

func TestReconstructWorkerDeduplication(t *testing.T) {
	tbl := ledgerTable(
		[]string{"ФИО сотрудника: Иванов Иван"},
		[]string{"ФИО сотрудника: Иванов Иван"},
		[]string{"01.02.2025"},
		[]string{"1", "Сварка", "шт.", "100", "1", "100"},
	)
	groups := FromTable(tbl, SheetMarkers())
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Workers, 1)
}

func TestReconstructProductsReplacedByNewHeader(t *testing.T) {
	tbl := ledgerTable(
		[]string{"Изделие № 101, 102 (повтор)"},
		[]string{"01.02.2025"},
		[]string{"1", "Сварка", "шт.", "100", "1", "100"},
		[]string{"Изделие № 103"},
		[]string{"02.02.2025"},
		[]string{"1", "Окраска", "м2", "80", "1", "80"},
	)
	groups := FromTable(tbl, SheetMarkers())
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"101", "102"}, groups[0].Products)
	assert.Equal(t, []string{"103"}, groups[1].Products)
}

func TestReconstructBackfillsAmountAndQuantity(t *testing.T) {
	tbl := ledgerTable(
		[]string{"01.02.2025"},
		[]string{"", "Сварка", "шт.", "150", "2"}, // no amount
		[]string{"", "Окраска", "м2", "80", "", "240"},
	)
	groups := FromTable(tbl, SheetMarkers())
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Items, 2)

	assert.InDelta(t, 300, groups[0].Items[0].Amount, 1e-9)
	assert.InDelta(t, 3, groups[0].Items[1].Quantity, 1e-9)
	assert.InDelta(t, 240, groups[0].Items[1].Amount, 1e-9)
}

func TestReconstructEmptyGroupsDiscarded(t *testing.T) {
	tbl := ledgerTable(
		[]string{"01.02.2025"},
		[]string{"02.02.2025"},
		[]string{"1", "Сварка", "шт.", "100", "1", "100"},
		[]string{"Итого", "100"},
	)
	groups := FromTable(tbl, SheetMarkers())
	require.Len(t, groups, 1)
	assert.Equal(t, "2025-02-02", groups[0].Date)
}

func TestReconstructTotalsClosesGroup(t *testing.T) {
	tbl := ledgerTable(
		[]string{"01.02.2025"},
		[]string{"1", "Сварка", "шт.", "100", "1", "100"},
		[]string{"Итого", "100"},
		[]string{"1", "Потерянная строка", "шт.", "50", "1", "50"}, // ignored after close
	)
	groups := FromTable(tbl, SheetMarkers())
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Items, 1)
}

func TestReconstructIgnoresFreeTextLines(t *testing.T) {
	tbl := ledgerTable(
		[]string{"Цех металлоконструкций"},
		[]string{"01.02.2025"},
		[]string{"1", "Сварка", "шт.", "100", "1", "100"},
	)
	groups := FromTable(tbl, SheetMarkers())
	require.Len(t, groups, 1)
}

func TestCSVMarkersBareYearBanner(t *testing.T) {
	tbl := ledgerTable(
		[]string{"Наряды за 2025"},
		[]string{"16.06."},
		[]string{"1", "Сварка", "шт.", "150", "2", "300"},
	)
	groups := FromTable(tbl, CSVMarkers())
	require.Len(t, groups, 1)
	assert.Equal(t, "2025-06-16", groups[0].Date)
}
