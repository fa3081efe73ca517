package cli

import (
	"fmt"
	"strings"

	"github.com/artel-io/naryad/internal/model"
)

// kindOrder fixes the display order of the per-kind counters.
var kindOrder = []model.TableKind{
	model.KindWorkers,
	model.KindJobTypes,
	model.KindProducts,
	model.KindContracts,
	model.KindOrders,
}

var kindLabels = map[model.TableKind]string{
	model.KindWorkers:   "Работники",
	model.KindJobTypes:  "Виды работ",
	model.KindProducts:  "Изделия",
	model.KindContracts: "Контракты",
	model.KindOrders:    "Наряды",
}

// RenderResult renders an import outcome for the terminal.
func RenderResult(res *model.ImportResult) string {
	var b strings.Builder

	if res.DryRun {
		b.WriteString(FormatTitle("Предпросмотр импорта (без записи)"))
	} else {
		b.WriteString(FormatTitle("Импорт завершён"))
	}
	b.WriteString("\n")

	for _, kind := range kindOrder {
		pk, ok := res.PerKind[kind]
		if !ok || (pk.Added == 0 && pk.Updated == 0) {
			continue
		}
		line := fmt.Sprintf("%s: добавлено %d", kindLabels[kind], pk.Added)
		if pk.Updated > 0 {
			line += fmt.Sprintf(", обновлено %d", pk.Updated)
		}
		b.WriteString("  " + FormatSuccess(line) + "\n")
	}

	if res.Added == 0 && res.Updated == 0 {
		b.WriteString("  " + FormatWarning("ничего не импортировано") + "\n")
	}
	if res.Skipped > 0 {
		b.WriteString("  " + FormatSubtle(fmt.Sprintf("пропущено таблиц: %d", res.Skipped)) + "\n")
	}

	for _, w := range res.Warnings {
		b.WriteString("  " + FormatWarning(w) + "\n")
	}

	if res.ReportPath != "" {
		b.WriteString("  " + FormatSubtle("отчёт: "+res.ReportPath) + "\n")
	}
	if res.BackupPath != "" {
		b.WriteString("  " + FormatSubtle("резервная копия: "+res.BackupPath) + "\n")
	}

	return b.String()
}
