package detect

import (
	"log/slog"
	"strings"

	"github.com/artel-io/naryad/internal/model"
	"github.com/artel-io/naryad/internal/normalize"
)

// Routed is one entry of the routing plan: which parser handles which
// table of the input file.
type Routed struct {
	Kind  model.TableKind
	Index int
}

// Route classifies every table and returns the routing plan, dropping
// Unknown tables and anything the preset filters out, in source order.
//
// One targeted override: a file carrying a single table whose header or
// leading rows spell out a worker roster ("список сотрудников", a full
// name column next to a personnel-number column) is routed to Workers
// even when the generic rules fail, because single-sheet rosters often
// lack every other signature column.
func Route(tables []model.RawTable, preset model.Preset) ([]Routed, []model.DetectedTable) {
	detections := make([]model.DetectedTable, 0, len(tables))
	for i, t := range tables {
		d := Detect(t, i)
		if d.Kind == model.KindUnknown && len(tables) == 1 && looksLikeWorkerRoster(t) {
			d = model.DetectedTable{
				Kind:        model.KindWorkers,
				Confidence:  1,
				SourceIndex: i,
				Hints:       []string{"workers:roster-override"},
			}
		}
		detections = append(detections, d)
	}

	var plan []Routed
	for _, d := range detections {
		if d.Kind == model.KindUnknown {
			slog.Debug("dropping unclassified table", "index", d.SourceIndex)
			continue
		}
		if !preset.Allows(d.Kind) {
			slog.Debug("preset filtered table out",
				"index", d.SourceIndex,
				"kind", d.Kind,
				"preset", preset)
			continue
		}
		plan = append(plan, Routed{Kind: d.Kind, Index: d.SourceIndex})
	}
	return plan, detections
}

var rosterPhrases = []string{
	"список работников",
	"список сотрудников",
	"list of workers",
	"list of employees",
}

var rosterNameMarkers = []string{"фио", "ф.и.о", "фамилия", "full name"}
var rosterNumberMarkers = []string{"табель", "таб.", "таб №", "personnel"}

func looksLikeWorkerRoster(t model.RawTable) bool {
	lines := t.Lines()
	limit := len(lines)
	if limit > 6 {
		limit = 6
	}

	var joined strings.Builder
	for _, line := range lines[:limit] {
		for _, cell := range line {
			joined.WriteString(normalize.ForSearch(cell))
			joined.WriteString(" ")
		}
	}
	text := joined.String()

	for _, p := range rosterPhrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return containsAny(text, rosterNameMarkers) && containsAny(text, rosterNumberMarkers)
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}
