package fields

import (
	"github.com/artel-io/naryad/internal/model"
)

// Candidate lists are ordered: earlier entries are more specific and win
// over the generic ones that follow.

var workerSpec = map[string][]string{
	"fullName":    {"фио", "ф.и.о", "фамилия", "сотрудник", "работник", "full name"},
	"personnelNo": {"табельный", "табель", "таб.", "таб №", "personnel"},
	"dept":        {"подразделение", "отдел", "цех", "department"},
	"position":    {"должность", "разряд", "профессия", "position", "rank"},
	"status":      {"статус", "status"},
}

// ParseWorkers extracts roster entries. Rows without a full name are
// dropped: the name is the fallback natural key, so a row without it can
// never be matched on commit.
func ParseWorkers(t model.RawTable) ([]model.Worker, error) {
	cols, err := resolveAll(model.KindWorkers, t.Headers, workerSpec, []string{"fullName"})
	if err != nil {
		return nil, err
	}

	var workers []model.Worker
	for _, row := range t.Rows {
		w := model.Worker{
			FullName:    cols.text(row, "fullName"),
			PersonnelNo: cols.text(row, "personnelNo"),
			Department:  cols.text(row, "dept"),
			Position:    cols.text(row, "position"),
			Status:      cols.text(row, "status"),
		}
		if w.FullName == "" {
			continue
		}
		workers = append(workers, w)
	}
	return workers, nil
}

var jobTypeSpec = map[string][]string{
	"name":  {"наименование работ", "вид работ", "наимен", "работ", "name", "job"},
	"unit":  {"ед. изм", "ед.изм", "ед изм", "ед.", "unit", "изм"},
	"price": {"расцен", "цена", "тариф", "price"},
}

// ParseJobTypes extracts price-list rows. Rows with an empty name or a
// negative price are dropped.
func ParseJobTypes(t model.RawTable) ([]model.JobType, error) {
	cols, err := resolveAll(model.KindJobTypes, t.Headers, jobTypeSpec, []string{"name", "price"})
	if err != nil {
		return nil, err
	}

	var jobs []model.JobType
	for _, row := range t.Rows {
		j := model.JobType{
			Name:  cols.text(row, "name"),
			Unit:  cols.text(row, "unit"),
			Price: cols.number(row, "price"),
		}
		if j.Name == "" || j.Price < 0 {
			continue
		}
		if j.Unit == "" {
			j.Unit = "шт."
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

var productSpec = map[string][]string{
	"name":         {"наименование издели", "издели", "наимен", "product", "name"},
	"productNo":    {"заводской №", "зав. №", "зав.№", "№", "номер", "number"},
	"contractCode": {"контракт", "договор", "contract"},
}

// ParseProducts extracts product register rows. The factory number is the
// natural key with the name as fallback; rows carrying neither are dropped.
func ParseProducts(t model.RawTable) ([]model.Product, error) {
	cols, err := resolveAll(model.KindProducts, t.Headers, productSpec, []string{"name", "productNo"})
	if err != nil {
		return nil, err
	}

	var products []model.Product
	for _, row := range t.Rows {
		p := model.Product{
			Name:         cols.text(row, "name"),
			ProductNo:    cols.text(row, "productNo"),
			ContractCode: cols.text(row, "contractCode"),
		}
		if p.ProductNo == "" && p.Name == "" {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

var contractSpec = map[string][]string{
	"code":           {"код контракта", "шифр", "код", "контракт", "договор", "contract"},
	"name":           {"наимен", "name"},
	"type":           {"вид контракта", "тип", "type"},
	"executor":       {"исполнит", "executor"},
	"igk":            {"игк", "igk"},
	"contractNumber": {"номер контракта", "№ контракта", "номер договора", "contract number"},
	"bankAccount":    {"счет", "счёт", "account"},
	"startDate":      {"дата начала", "начало", "start"},
	"endDate":        {"дата окончания", "окончание", "срок", "end"},
	"description":    {"примечание", "описание", "description", "note"},
}

// ParseContracts extracts contract register rows keyed by contract code.
func ParseContracts(t model.RawTable) ([]model.Contract, error) {
	cols, err := resolveAll(model.KindContracts, t.Headers, contractSpec, []string{"code"})
	if err != nil {
		return nil, err
	}

	var contracts []model.Contract
	for _, row := range t.Rows {
		c := model.Contract{
			Code:           cols.text(row, "code"),
			Name:           cols.text(row, "name"),
			Type:           cols.text(row, "type"),
			Executor:       cols.text(row, "executor"),
			IGK:            cols.text(row, "igk"),
			ContractNumber: cols.text(row, "contractNumber"),
			BankAccount:    cols.text(row, "bankAccount"),
			StartDate:      cols.date(row, "startDate"),
			EndDate:        cols.date(row, "endDate"),
			Description:    cols.text(row, "description"),
		}
		if c.Code == "" {
			continue
		}
		contracts = append(contracts, c)
	}
	return contracts, nil
}
