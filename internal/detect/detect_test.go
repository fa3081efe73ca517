package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artel-io/naryad/internal/model"
)

func tableWithHeaders(headers ...string) model.RawTable {
	return model.RawTable{Headers: headers, Rows: [][]string{make([]string, len(headers))}}
}

func TestDetectOrders(t *testing.T) {
	d := Detect(tableWithHeaders("№ п/п", "Вид работ", "Ед. изм.", "Цена", "Кол-во", "Сумма"), 0)
	assert.Equal(t, model.KindOrders, d.Kind)
	assert.Equal(t, 1, d.Confidence)
	assert.NotEmpty(t, d.Hints)
}

func TestDetectJobTypes(t *testing.T) {
	d := Detect(tableWithHeaders("Наименование", "Ед. изм.", "Цена"), 0)
	assert.Equal(t, model.KindJobTypes, d.Kind)
}

func TestDetectProducts(t *testing.T) {
	d := Detect(tableWithHeaders("Изделие", "Зав. №", "Договор"), 0)
	assert.Equal(t, model.KindProducts, d.Kind)
}

func TestDetectContracts(t *testing.T) {
	d := Detect(tableWithHeaders("Код контракта", "Наименование", "Исполнитель"), 0)
	assert.Equal(t, model.KindContracts, d.Kind)
}

func TestDetectWorkers(t *testing.T) {
	d := Detect(tableWithHeaders("ФИО", "Табельный номер", "Цех"), 0)
	assert.Equal(t, model.KindWorkers, d.Kind)
}

func TestDetectUnknown(t *testing.T) {
	d := Detect(tableWithHeaders("Колонка 1", "Колонка 2"), 3)
	assert.Equal(t, model.KindUnknown, d.Kind)
	assert.Equal(t, 0, d.Confidence)
	assert.Equal(t, 3, d.SourceIndex)
}

func TestDetectTieBreakContractsOverProducts(t *testing.T) {
	// Satisfies both the Contracts rule (контракт + наимен) and the
	// Products rule (издели + № + контракт); the fixed priority order
	// classifies it as Contracts.
	d := Detect(tableWithHeaders("Наименование изделия", "Заводской №", "Контракт"), 0)
	assert.Equal(t, model.KindContracts, d.Kind)
}

func TestDetectHeaderlessLedger(t *testing.T) {
	tbl := model.RawTable{Rows: [][]string{
		{"Наряды за июнь 2025 г."},
		{"№", "Вид работ", "Ед. изм.", "Цена", "Кол-во", "Сумма"},
		{"1", "Сварка", "шт.", "150", "2", "300"},
	}}
	d := Detect(tbl, 0)
	assert.Equal(t, model.KindOrders, d.Kind)
}

func TestRouteDropsUnknownAndKeepsOrder(t *testing.T) {
	tables := []model.RawTable{
		tableWithHeaders("Наименование", "Ед. изм.", "Цена"),
		tableWithHeaders("Мусор", "Прочее"),
		tableWithHeaders("ФИО", "Должность"),
	}
	plan, detections := Route(tables, model.PresetAuto)
	require.Len(t, detections, 3)
	require.Len(t, plan, 2)
	assert.Equal(t, Routed{Kind: model.KindJobTypes, Index: 0}, plan[0])
	assert.Equal(t, Routed{Kind: model.KindWorkers, Index: 2}, plan[1])
}

func TestRoutePresetFilters(t *testing.T) {
	tables := []model.RawTable{
		tableWithHeaders("Наименование", "Ед. изм.", "Цена"),
		tableWithHeaders("№ п/п", "Вид работ", "Ед. изм.", "Цена", "Кол-во", "Сумма"),
	}

	plan, _ := Route(tables, model.PresetPrice)
	require.Len(t, plan, 1)
	assert.Equal(t, model.KindJobTypes, plan[0].Kind)

	plan, _ = Route(tables, model.PresetOrders)
	require.Len(t, plan, 1)
	assert.Equal(t, model.KindOrders, plan[0].Kind)

	plan, _ = Route(tables, model.PresetRefs)
	require.Len(t, plan, 1)
	assert.Equal(t, model.KindJobTypes, plan[0].Kind)
}

func TestRouteWorkerRosterOverride(t *testing.T) {
	// A single-sheet roster without position or unit columns: the generic
	// rules fail, the override routes it to Workers.
	tbl := model.RawTable{
		Headers: []string{"Список сотрудников цеха №2"},
		Rows: [][]string{
			{"Иванов Иван Иванович"},
			{"Петров Петр"},
		},
	}
	plan, detections := Route([]model.RawTable{tbl}, model.PresetAuto)
	require.Len(t, plan, 1)
	assert.Equal(t, model.KindWorkers, plan[0].Kind)
	assert.Contains(t, detections[0].Hints, "workers:roster-override")
}

func TestRouteOverrideOnlyForSingleTableFiles(t *testing.T) {
	roster := model.RawTable{Headers: []string{"Список сотрудников"}}
	other := tableWithHeaders("Наименование", "Ед. изм.", "Цена")
	plan, _ := Route([]model.RawTable{roster, other}, model.PresetAuto)
	require.Len(t, plan, 1)
	assert.Equal(t, model.KindJobTypes, plan[0].Kind)
}
