package reader

import (
	"fmt"

	"github.com/extrame/xls"
	"github.com/knieriem/odf/ods"
	"github.com/xuri/excelize/v2"

	"github.com/artel-io/naryad/internal/model"
)

// readXLSX extracts one RawTable per workbook sheet.
func readXLSX(path string) ([]model.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	var tables []model.RawTable
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		tables = append(tables, tableFromRows(sheet, rows))
	}
	return tables, nil
}

// readXLS handles the legacy binary workbook format.
func readXLS(path string) ([]model.RawTable, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls workbook: %w", err)
	}

	var tables []model.RawTable
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		var rows [][]string
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			var cells []string
			for c := 0; c <= row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			rows = append(rows, cells)
		}
		tables = append(tables, tableFromRows(sheet.Name, rows))
	}
	return tables, nil
}

// readODS extracts one RawTable per spreadsheet in an OpenDocument file.
func readODS(path string) ([]model.RawTable, error) {
	f, err := ods.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ods document: %w", err)
	}
	defer func() { _ = f.Close() }()

	var doc ods.Doc
	if err := f.ParseContent(&doc); err != nil {
		return nil, fmt.Errorf("parse ods content: %w", err)
	}

	var tables []model.RawTable
	for _, t := range doc.Table {
		tables = append(tables, tableFromRows(t.Name, t.Strings()))
	}
	return tables, nil
}
