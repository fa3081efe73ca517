// Package fields extracts canonical entities from raw tables by resolving
// semantic fields to columns through ordered header-keyword candidates.
package fields

import (
	"fmt"
	"strings"

	"github.com/artel-io/naryad/internal/model"
	"github.com/artel-io/naryad/internal/normalize"
)

// MissingColumnsError reports that a table routed to a parser lacks one
// or more mandatory columns. This is the one parser-level failure that is
// not swallowed: it means the whole table was misrouted.
type MissingColumnsError struct {
	Kind    model.TableKind
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s table is missing required columns: %s",
		e.Kind, strings.Join(e.Missing, ", "))
}

// ResolveColumn finds the column holding a semantic field: candidates are
// tried in order, and the first header containing a candidate substring
// wins. Returns -1 when no header matches. Pure; unit-testable without
// any table machinery.
func ResolveColumn(headers []string, candidates []string) int {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalize.ForSearch(h)
	}
	for _, cand := range candidates {
		for i, h := range normalized {
			if h != "" && strings.Contains(h, cand) {
				return i
			}
		}
	}
	return -1
}

// columns maps semantic field names to resolved column indexes.
type columns map[string]int

func (c columns) text(row []string, field string) string {
	idx, ok := c[field]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (c columns) number(row []string, field string) float64 {
	return normalize.Number(c.text(row, field))
}

func (c columns) date(row []string, field string) string {
	iso, _ := normalize.Date(c.text(row, field))
	return iso
}

// resolveAll maps each semantic field to a column. Fields listed in
// required must all resolve, otherwise a MissingColumnsError for the
// given kind is returned.
func resolveAll(kind model.TableKind, headers []string, spec map[string][]string, required []string) (columns, error) {
	cols := make(columns, len(spec))
	for field, candidates := range spec {
		if idx := ResolveColumn(headers, candidates); idx >= 0 {
			cols[field] = idx
		}
	}

	var missing []string
	for _, field := range required {
		if _, ok := cols[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Kind: kind, Missing: missing}
	}
	return cols, nil
}
