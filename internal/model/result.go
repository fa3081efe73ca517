package model

// UpsertResult counts the outcome of committing one kind of entity.
type UpsertResult struct {
	Added   int
	Updated int
}

// Add merges another result into this one.
func (r *UpsertResult) Add(other UpsertResult) {
	r.Added += other.Added
	r.Updated += other.Updated
}

// ImportResult is the aggregate outcome of one import invocation. For
// dry runs Added holds the count of recognized rows per kind, Updated
// stays zero and the store is untouched.
type ImportResult struct {
	PerKind    map[TableKind]UpsertResult
	Warnings   []string
	ReportPath string
	BackupPath string
	Added      int
	Updated    int
	Skipped    int
	Errors     int
	DryRun     bool
}

// NewImportResult returns an empty result ready for accumulation.
func NewImportResult(dryRun bool) *ImportResult {
	return &ImportResult{
		PerKind: make(map[TableKind]UpsertResult),
		DryRun:  dryRun,
	}
}

// Record merges a per-kind upsert outcome into the aggregate counters.
func (r *ImportResult) Record(kind TableKind, res UpsertResult) {
	pk := r.PerKind[kind]
	pk.Add(res)
	r.PerKind[kind] = pk
	r.Added += res.Added
	r.Updated += res.Updated
}

// Warn appends a user-facing warning line.
func (r *ImportResult) Warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
