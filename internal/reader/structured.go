package reader

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/LindsayBradford/go-dbf/godbf"

	"github.com/artel-io/naryad/internal/model"
)

// readXML flattens a record-oriented XML document: the repeated child
// elements one level under the root are treated as records, their child
// elements and attributes as columns.
func readXML(path string) ([]model.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := xml.NewDecoder(f)
	var records []map[string]string
	depth := 0
	var current map[string]string
	var field string
	var text strings.Builder

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch depth {
			case 2:
				current = make(map[string]string)
				for _, a := range t.Attr {
					current[a.Name.Local] = a.Value
				}
			case 3:
				field = t.Name.Local
				text.Reset()
			}
		case xml.CharData:
			if depth == 3 {
				text.Write(t)
			}
		case xml.EndElement:
			switch depth {
			case 2:
				if len(current) > 0 {
					records = append(records, current)
				}
				current = nil
			case 3:
				if current != nil && field != "" {
					current[field] = strings.TrimSpace(text.String())
				}
				field = ""
			}
			depth--
		}
	}

	t := tableFromRecords(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), records)
	if t.IsEmpty() {
		return nil, nil
	}
	return []model.RawTable{t}, nil
}

// readJSON accepts a top-level array of objects, or an object whose
// "data" key holds one.
func readJSON(path string) ([]model.RawTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var list []map[string]any
	if err := json.Unmarshal(raw, &list); err != nil {
		var wrapper struct {
			Data []map[string]any `json:"data"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil || wrapper.Data == nil {
			return nil, fmt.Errorf("json is not a record list")
		}
		list = wrapper.Data
	}

	records := make([]map[string]string, 0, len(list))
	for _, obj := range list {
		rec := make(map[string]string, len(obj))
		for k, v := range obj {
			rec[k] = scalarString(v)
		}
		records = append(records, rec)
	}

	t := tableFromRecords(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), records)
	if t.IsEmpty() {
		return nil, nil
	}
	return []model.RawTable{t}, nil
}

// readDBF reads all records of a dBase table.
func readDBF(path string) ([]model.RawTable, error) {
	table, err := godbf.NewFromFile(path, "UTF8")
	if err != nil {
		return nil, fmt.Errorf("open dbf: %w", err)
	}

	headers := table.FieldNames()
	rows := make([][]string, 0, table.NumberOfRecords())
	for i := 0; i < table.NumberOfRecords(); i++ {
		row := make([]string, len(headers))
		for j := range headers {
			row[j] = strings.TrimSpace(table.FieldValue(i, j))
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return []model.RawTable{{Name: name, Headers: headers, Rows: rows}}, nil
}

// tableFromRecords converts keyed records to a RawTable with a stable,
// sorted column order.
func tableFromRecords(name string, records []map[string]string) model.RawTable {
	if len(records) == 0 {
		return model.RawTable{Name: name}
	}

	seen := make(map[string]bool)
	var headers []string
	for _, rec := range records {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}
	sort.Strings(headers)

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = rec[h]
		}
		rows = append(rows, row)
	}
	return model.RawTable{Name: name, Headers: headers, Rows: rows}
}

func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
