package reader

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/artel-io/naryad/internal/model"
)

// Word-processor formats are zip archives holding an XML body. Only the
// embedded tables are of interest, so both readers walk the XML token
// stream collecting table/row/cell boundaries and the text inside cells,
// without modelling the rest of the document.

// readDOCX extracts one RawTable per table in word/document.xml.
func readDOCX(path string) ([]model.RawTable, error) {
	body, err := zipEntry(path, "word/document.xml")
	if err != nil {
		return nil, err
	}
	return walkXMLTables(body, xmlTableNames{table: "tbl", row: "tr", cell: "tc"})
}

// readODT extracts one RawTable per table in an OpenDocument text file.
func readODT(path string) ([]model.RawTable, error) {
	body, err := zipEntry(path, "content.xml")
	if err != nil {
		return nil, err
	}
	return walkXMLTables(body, xmlTableNames{table: "table", row: "table-row", cell: "table-cell"})
}

func zipEntry(path, name string) (io.ReadCloser, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				_ = zr.Close()
				return nil, fmt.Errorf("open %s: %w", name, err)
			}
			return &zipEntryReader{rc: rc, zr: zr}, nil
		}
	}
	_ = zr.Close()
	return nil, fmt.Errorf("archive has no %s", name)
}

type zipEntryReader struct {
	rc io.ReadCloser
	zr *zip.ReadCloser
}

func (r *zipEntryReader) Read(p []byte) (int, error) { return r.rc.Read(p) }

func (r *zipEntryReader) Close() error {
	_ = r.rc.Close()
	return r.zr.Close()
}

type xmlTableNames struct {
	table string
	row   string
	cell  string
}

func walkXMLTables(body io.ReadCloser, names xmlTableNames) ([]model.RawTable, error) {
	defer func() { _ = body.Close() }()

	dec := xml.NewDecoder(body)
	var (
		tables  []model.RawTable
		rows    [][]string
		row     []string
		cell    strings.Builder
		inTable bool
		inCell  bool
		index   int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case names.table:
				inTable = true
				rows = nil
			case names.row:
				row = nil
			case names.cell:
				if inTable {
					inCell = true
					cell.Reset()
				}
			}
		case xml.CharData:
			if inCell {
				cell.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case names.cell:
				if inCell {
					row = append(row, strings.TrimSpace(cell.String()))
					inCell = false
				}
			case names.row:
				if inTable && row != nil {
					rows = append(rows, row)
				}
			case names.table:
				if inTable {
					index++
					tables = append(tables, tableFromRows(fmt.Sprintf("table%d", index), rows))
					inTable = false
				}
			}
		}
	}
	return tables, nil
}
