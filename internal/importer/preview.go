package importer

import (
	"fmt"
	"strings"

	"github.com/artel-io/naryad/internal/model"
	"github.com/artel-io/naryad/internal/report"
)

var kindTitles = map[model.TableKind]string{
	model.KindWorkers:   "Работники",
	model.KindJobTypes:  "Виды работ",
	model.KindProducts:  "Изделия",
	model.KindContracts: "Контракты",
	model.KindOrders:    "Наряды",
}

// renderPreview fills the dry-run result with recognized-row counts and
// writes the HTML preview. No store I/O happens here: the preview states
// what a real commit would process, not how many rows already exist.
func (im *Importer) renderPreview(res *model.ImportResult, p *parsed, detections []model.DetectedTable) error {
	res.Record(model.KindWorkers, model.UpsertResult{Added: len(p.workers)})
	res.Record(model.KindJobTypes, model.UpsertResult{Added: len(p.jobTypes)})
	res.Record(model.KindProducts, model.UpsertResult{Added: len(p.products)})
	res.Record(model.KindContracts, model.UpsertResult{Added: len(p.contracts)})

	nonEmptyGroups := 0
	for _, g := range p.groups {
		if len(g.Items) > 0 {
			nonEmptyGroups++
		}
	}
	res.Record(model.KindOrders, model.UpsertResult{Added: nonEmptyGroups})

	var sections []report.Section

	if allUnknown(detections) {
		sections = append(sections, report.Section{
			Heading: "Ничего не распознано",
			Lines: []string{
				"Ни одна таблица файла не была классифицирована. " +
					"Проверьте, что заголовки колонок соответствуют одному из поддерживаемых видов данных.",
			},
		})
	} else {
		summary := report.Section{Heading: "Будет импортировано"}
		for _, kind := range []model.TableKind{
			model.KindWorkers, model.KindJobTypes, model.KindProducts,
			model.KindContracts, model.KindOrders,
		} {
			if n := res.PerKind[kind].Added; n > 0 {
				summary.Lines = append(summary.Lines,
					fmt.Sprintf("%s: %d", kindTitles[kind], n))
			}
		}
		if res.Skipped > 0 {
			summary.Lines = append(summary.Lines,
				fmt.Sprintf("Пропущено таблиц: %d", res.Skipped))
		}
		sections = append(sections, summary)
		sections = append(sections, im.detectionSection(detections))
	}

	if len(res.Warnings) > 0 {
		sections = append(sections, report.Section{
			Heading: "Предупреждения",
			Lines:   res.Warnings,
		})
	}

	path, err := report.WriteHTML(im.cfg.ReportDir, "Предпросмотр импорта", sections)
	if err != nil {
		return fmt.Errorf("failed to write dry-run report: %w", err)
	}
	res.ReportPath = path
	return nil
}

func (im *Importer) detectionSection(detections []model.DetectedTable) report.Section {
	s := report.Section{Heading: "Распознавание таблиц"}
	for _, d := range detections {
		if len(s.Lines) >= im.cfg.MaxReportRows {
			s.Lines = append(s.Lines, "…")
			break
		}
		line := fmt.Sprintf("таблица %d: %s", d.SourceIndex+1, d.Kind)
		if len(d.Hints) > 0 {
			line += " (" + strings.Join(d.Hints, ", ") + ")"
		}
		s.Lines = append(s.Lines, line)
	}
	return s
}

func allUnknown(detections []model.DetectedTable) bool {
	for _, d := range detections {
		if d.Kind != model.KindUnknown {
			return false
		}
	}
	return true
}
