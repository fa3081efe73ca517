// Package detect classifies raw tables into record kinds using header
// marker sets, and resolves per-table detections into a routing plan.
package detect

import (
	"fmt"
	"strings"

	"github.com/artel-io/naryad/internal/model"
	"github.com/artel-io/naryad/internal/normalize"
)

// markerGroup is one semantic requirement of a detection rule: at least
// one of its substrings must occur among the normalized headers.
type markerGroup struct {
	name    string
	markers []string
}

// rule matches a table kind when every one of its groups is satisfied.
type rule struct {
	kind   model.TableKind
	groups []markerGroup
}

// Detection rules in fixed priority order; the first match wins. The
// ordering is the tie-break for tables satisfying several rules at once
// (a product register that also carries a contract column, for example),
// so it must not be reordered.
var rules = []rule{
	{
		kind: model.KindOrders,
		groups: []markerGroup{
			{name: "number", markers: []string{"№", "номер", "наряд", "заказ", "order"}},
			{name: "job", markers: []string{"вид работ", "наименование работ", "работ", "job", "work"}},
			{name: "quantity", markers: []string{"кол-во", "колич", "qty", "quantity"}},
			{name: "price", markers: []string{"цена", "расцен", "тариф", "price", "rate"}},
			{name: "amount", markers: []string{"сумма", "стоимость", "amount", "total"}},
		},
	},
	{
		kind: model.KindContracts,
		groups: []markerGroup{
			{name: "code", markers: []string{"контракт", "договор", "contract", "код"}},
			{name: "detail", markers: []string{
				"наимен", "name",
				"исполнит", "игк", "вид контракта", "тип", "executor", "igk",
			}},
		},
	},
	{
		kind: model.KindJobTypes,
		groups: []markerGroup{
			{name: "name", markers: []string{"наимен", "вид работ", "работ", "name", "job"}},
			{name: "unit", markers: []string{"ед.", "ед. изм", "ед изм", "unit", "изм"}},
			{name: "price", markers: []string{"цена", "расцен", "тариф", "price"}},
		},
	},
	{
		kind: model.KindProducts,
		groups: []markerGroup{
			{name: "product", markers: []string{"издели", "product"}},
			{name: "number", markers: []string{"№", "номер", "зав.", "number"}},
			{name: "contract", markers: []string{"контракт", "договор", "contract"}},
		},
	},
	{
		kind: model.KindWorkers,
		groups: []markerGroup{
			{name: "fullname", markers: []string{"фио", "ф.и.о", "фамилия", "сотрудник", "работник", "full name"}},
			{name: "id-or-position", markers: []string{
				"табель", "таб.", "personnel",
				"должност", "разряд", "position", "rank",
			}},
		},
	},
}

// Detect classifies a single raw table. Confidence is binary: 1 when a
// rule matched, 0 for Unknown. Hints name the matched marker groups so
// the dry-run report can explain the decision to the operator.
func Detect(t model.RawTable, sourceIndex int) model.DetectedTable {
	for _, headers := range headerCandidates(t) {
		for _, r := range rules {
			hints := make([]string, 0, len(r.groups))
			matched := true
			for _, g := range r.groups {
				marker, ok := matchGroup(headers, g)
				if !ok {
					matched = false
					break
				}
				hints = append(hints, fmt.Sprintf("%s:%s=%q", r.kind, g.name, marker))
			}
			if matched {
				return model.DetectedTable{
					Kind:        r.kind,
					Confidence:  1,
					SourceIndex: sourceIndex,
					Hints:       hints,
				}
			}
		}
	}

	return model.DetectedTable{Kind: model.KindUnknown, SourceIndex: sourceIndex}
}

func matchGroup(headers []string, g markerGroup) (string, bool) {
	for _, m := range g.markers {
		for _, h := range headers {
			if strings.Contains(h, m) {
				return m, true
			}
		}
	}
	return "", false
}

// headerCandidates yields the rows a table may be judged by: the header
// row first, then the first data rows. Ledger sheets regularly promote a
// banner line to the header position with the real marker header sitting
// a few rows below, so judging the header alone would miss them.
func headerCandidates(t model.RawTable) [][]string {
	var candidates [][]string
	if len(t.Headers) > 0 {
		candidates = append(candidates, normalizeRow(t.Headers))
	}
	limit := len(t.Rows)
	if limit > 5 {
		limit = 5
	}
	for _, row := range t.Rows[:limit] {
		candidates = append(candidates, normalizeRow(row))
	}
	return candidates
}

func normalizeRow(cells []string) []string {
	out := make([]string, 0, len(cells))
	for _, c := range cells {
		if n := normalize.ForSearch(c); n != "" {
			out = append(out, n)
		}
	}
	return out
}
