package reader

import (
	"fmt"
	"os"

	"github.com/PuerkitoBio/goquery"

	"github.com/artel-io/naryad/internal/model"
)

// readHTML extracts one RawTable per <table> element.
func readHTML(path string) ([]model.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var tables []model.RawTable
	doc.Find("table").Each(func(i int, tbl *goquery.Selection) {
		var rows [][]string
		tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, normalizeSpace(cell.Text()))
			})
			if cells != nil {
				rows = append(rows, cells)
			}
		})
		tables = append(tables, tableFromRows(fmt.Sprintf("table%d", i+1), rows))
	})
	return tables, nil
}
