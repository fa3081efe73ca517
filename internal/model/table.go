// Package model defines the data types shared across the import pipeline.
package model

// RawTable is one table extracted from an input file: an ordered header row
// plus ordered data rows. Cells are kept as strings; normalization happens
// later, in the field parsers. Headerless tables carry a nil Headers slice
// and keep every extracted row in Rows.
type RawTable struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// IsEmpty reports whether the table carries no data at all.
func (t RawTable) IsEmpty() bool {
	return len(t.Headers) == 0 && len(t.Rows) == 0
}

// Lines returns the table as a flat sequence of rows, header first. The
// order reconstructor scans tables line-by-line and must see marker rows
// even when a reader promoted one of them to the header position.
func (t RawTable) Lines() [][]string {
	if len(t.Headers) == 0 {
		return t.Rows
	}
	lines := make([][]string, 0, len(t.Rows)+1)
	lines = append(lines, t.Headers)
	lines = append(lines, t.Rows...)
	return lines
}

// TableKind classifies a raw table into one of the canonical record kinds.
type TableKind string

const (
	// KindJobTypes is a price list of job types (name, unit, tariff).
	KindJobTypes TableKind = "job_types"
	// KindProducts is a product register (name, factory number, contract).
	KindProducts TableKind = "products"
	// KindContracts is a contract register keyed by contract code.
	KindContracts TableKind = "contracts"
	// KindWorkers is a personnel roster keyed by personnel number.
	KindWorkers TableKind = "workers"
	// KindOrders is a ledger-style work order listing.
	KindOrders TableKind = "orders"
	// KindUnknown marks a table no detection rule matched.
	KindUnknown TableKind = "unknown"
)

// DetectedTable is the classification verdict for a single raw table.
// Confidence is binary: 1 when a detection rule matched, 0 otherwise.
// Hints name the marker sets that matched, for the dry-run report.
type DetectedTable struct {
	Kind        TableKind
	Hints       []string
	Confidence  int
	SourceIndex int
}

// Preset narrows an import run to a subset of table kinds.
type Preset string

const (
	// PresetAuto imports everything the detector recognizes.
	PresetAuto Preset = "auto"
	// PresetPrice imports job-type price lists only.
	PresetPrice Preset = "price"
	// PresetOrders imports work-order ledgers only.
	PresetOrders Preset = "orders"
	// PresetRefs imports reference tables: workers, products, contracts, job types.
	PresetRefs Preset = "refs"
)

// Allows reports whether the preset admits tables of the given kind.
func (p Preset) Allows(kind TableKind) bool {
	switch p {
	case PresetPrice:
		return kind == KindJobTypes
	case PresetOrders:
		return kind == KindOrders
	case PresetRefs:
		return kind == KindWorkers || kind == KindProducts ||
			kind == KindContracts || kind == KindJobTypes
	default:
		return true
	}
}
