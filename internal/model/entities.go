package model

// Worker is a roster entry. Natural key: PersonnelNo, falling back to
// FullName compared case-insensitively.
type Worker struct {
	FullName    string
	PersonnelNo string
	Department  string
	Position    string
	Status      string
}

// JobType is one price-list row. Natural key: Name.
type JobType struct {
	Name  string
	Unit  string
	Price float64
}

// Product is a manufactured item register row. Natural key: ProductNo,
// falling back to Name.
type Product struct {
	Name         string
	ProductNo    string
	ContractCode string
}

// Contract is a contract register row. Natural key: Code. Dates are ISO
// yyyy-mm-dd strings or empty.
type Contract struct {
	Code           string
	Name           string
	Type           string
	Executor       string
	IGK            string
	ContractNumber string
	BankAccount    string
	StartDate      string
	EndDate        string
	Description    string
}

// OrderItem is a single job line inside a reconstructed work order.
type OrderItem struct {
	JobName   string
	Unit      string
	UnitPrice float64
	Quantity  float64
	Amount    float64
}

// OrderWorker identifies a worker referenced by a ledger, by name and an
// optional personnel number.
type OrderWorker struct {
	FullName    string
	PersonnelNo string
}

// OrderGroup is one reconstructed work order: a dated group of item lines
// with the product numbers and workers in effect at that point of the
// ledger. Groups with no items are discarded before commit.
type OrderGroup struct {
	Date     string
	Products []string
	Items    []OrderItem
	Workers  []OrderWorker
}

// Total sums the item amounts of the group.
func (g OrderGroup) Total() float64 {
	var total float64
	for _, it := range g.Items {
		total += it.Amount
	}
	return total
}
