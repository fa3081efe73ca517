package reader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/artel-io/naryad/internal/model"
)

// readPDF reconstructs tabular rows from positioned text fragments: words
// sharing a baseline become one row, and horizontal gaps wider than a
// threshold split a row into cells. This recovers simple report tables;
// heavily styled layouts degrade to headerless text rows, which the
// detector then classifies as Unknown.
func readPDF(path string) ([]model.RawTable, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	var tables []model.RawTable
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		rows := pageRows(page.Content().Text)
		if len(rows) == 0 {
			continue
		}
		tables = append(tables, tableFromRows(fmt.Sprintf("page%d", pageNum), rows))
	}
	return tables, nil
}

const (
	baselineTolerance = 2.0  // points; fragments this close share a row
	cellGap           = 12.0 // points; a wider gap starts a new cell
)

func pageRows(texts []pdf.Text) [][]string {
	if len(texts) == 0 {
		return nil
	}

	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if diff := sorted[i].Y - sorted[j].Y; diff > baselineTolerance || diff < -baselineTolerance {
			return sorted[i].Y > sorted[j].Y // PDF origin is bottom-left
		}
		return sorted[i].X < sorted[j].X
	})

	var rows [][]string
	var cells []string
	var cell strings.Builder
	lastY := sorted[0].Y
	lastEnd := sorted[0].X

	flushCell := func() {
		if s := strings.TrimSpace(cell.String()); s != "" {
			cells = append(cells, s)
		}
		cell.Reset()
	}
	flushRow := func() {
		flushCell()
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
		cells = nil
	}

	for _, t := range sorted {
		if lastY-t.Y > baselineTolerance {
			flushRow()
			lastY = t.Y
			lastEnd = t.X
		} else if t.X-lastEnd > cellGap {
			flushCell()
		}
		cell.WriteString(t.S)
		lastEnd = t.X + t.W
	}
	flushRow()
	return rows
}
