package fields

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artel-io/naryad/internal/model"
)

func TestResolveColumn(t *testing.T) {
	headers := []string{"№ п/п", "Наименование работ", "Ед. изм.", "Расценка, руб."}

	assert.Equal(t, 1, ResolveColumn(headers, []string{"наимен"}))
	assert.Equal(t, 2, ResolveColumn(headers, []string{"ед. изм"}))
	assert.Equal(t, 3, ResolveColumn(headers, []string{"расцен", "цена"}))
	assert.Equal(t, -1, ResolveColumn(headers, []string{"табель"}))
}

func TestResolveColumnCandidateOrderWins(t *testing.T) {
	// The earlier, more specific candidate must win even when a later
	// candidate matches an earlier column.
	headers := []string{"Цена за ед.", "Расценка"}
	assert.Equal(t, 1, ResolveColumn(headers, []string{"расцен", "цена"}))
}

func TestParseJobTypes(t *testing.T) {
	tbl := model.RawTable{
		Headers: []string{"Наименование", "Ед. изм.", "Цена"},
		Rows: [][]string{
			{"Сварка", "шт.", "150,0"},
			{"Окраска", "м2", "80"},
			{"", "шт.", "99"},      // no natural key: dropped
			{"Сборка", "", "10"},   // unit defaults
			{"Левая", "шт.", "-5"}, // negative price: dropped
		},
	}
	jobs, err := ParseJobTypes(tbl)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, model.JobType{Name: "Сварка", Unit: "шт.", Price: 150}, jobs[0])
	assert.Equal(t, model.JobType{Name: "Окраска", Unit: "м2", Price: 80}, jobs[1])
	assert.Equal(t, "шт.", jobs[2].Unit)
}

func TestParseJobTypesMissingColumns(t *testing.T) {
	tbl := model.RawTable{Headers: []string{"Наименование", "Количество"}}
	_, err := ParseJobTypes(tbl)
	require.Error(t, err)

	var missing *MissingColumnsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, model.KindJobTypes, missing.Kind)
	assert.Contains(t, missing.Missing, "price")
}

func TestParseWorkers(t *testing.T) {
	tbl := model.RawTable{
		Headers: []string{"ФИО", "Табельный номер", "Цех", "Должность"},
		Rows: [][]string{
			{"Иванов Иван Иванович", "1001", "Цех 2", "сварщик"},
			{"Петров Петр", "", "", "маляр"},
			{"", "1003", "", ""}, // nameless: dropped
		},
	}
	workers, err := ParseWorkers(tbl)
	require.NoError(t, err)
	require.Len(t, workers, 2)
	assert.Equal(t, "1001", workers[0].PersonnelNo)
	assert.Equal(t, "Цех 2", workers[0].Department)
	assert.Equal(t, "маляр", workers[1].Position)
}

func TestParseProducts(t *testing.T) {
	tbl := model.RawTable{
		Headers: []string{"Изделие", "Зав. №", "Договор"},
		Rows: [][]string{
			{"Рама", "101", "К-2024/5"},
			{"Крышка", "102", ""},
			{"", "", "К-2024/5"}, // no key at all: dropped
		},
	}
	products, err := ParseProducts(tbl)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "101", products[0].ProductNo)
	assert.Equal(t, "К-2024/5", products[0].ContractCode)
}

func TestParseContracts(t *testing.T) {
	tbl := model.RawTable{
		Headers: []string{"Код контракта", "Наименование", "Исполнитель", "Дата начала", "Дата окончания"},
		Rows: [][]string{
			{"К-2024/5", "Поставка рам", "ООО Ремонт", "01.02.2024", "31.12.2024"},
			{"", "Без кода", "", "", ""}, // codeless: dropped
		},
	}
	contracts, err := ParseContracts(tbl)
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	assert.Equal(t, "К-2024/5", contracts[0].Code)
	assert.Equal(t, "2024-02-01", contracts[0].StartDate)
	assert.Equal(t, "2024-12-31", contracts[0].EndDate)
}
