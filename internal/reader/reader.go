// Package reader extracts raw tables from heterogeneous input files. One
// strategy per file extension is registered in a dispatch map; adding a
// format is a pure-addition change. Readers are fail-open: malformed or
// unreadable content yields an empty Result with an Unsupported reason,
// and the only error ever returned is the file literally not existing.
package reader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/artel-io/naryad/internal/model"
)

// Result is the typed outcome of reading one file. An empty Tables slice
// with a non-empty Unsupported reason means the format could not be
// decoded, as opposed to a well-formed file that simply had no tables.
type Result struct {
	Unsupported string
	Tables      []model.RawTable
}

// readFunc decodes one file into raw tables. Implementations return an
// error freely; the dispatcher converts it to an Unsupported result.
type readFunc func(path string) ([]model.RawTable, error)

var registry = map[string]readFunc{
	".xlsx": readXLSX,
	".xlsm": readXLSX,
	".xls":  readXLS,
	".ods":  readODS,
	".csv":  readCSV,
	".txt":  readCSV,
	".docx": readDOCX,
	".odt":  readODT,
	".xml":  readXML,
	".dbf":  readDBF,
	".json": readJSON,
	".html": readHTML,
	".htm":  readHTML,
	".pdf":  readPDF,
}

// ReadAny extracts all tables from the file at path, dispatching on the
// lower-cased extension. Unknown extensions are attempted as CSV as a
// last resort.
func ReadAny(path string) (Result, error) {
	if _, err := os.Stat(path); err != nil {
		return Result{}, fmt.Errorf("input file %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	read, ok := registry[ext]
	if !ok {
		slog.Debug("unknown extension, attempting CSV", "path", path, "ext", ext)
		read = readCSV
	}

	tables, err := safeRead(read, path)
	if err != nil {
		slog.Warn("file could not be decoded",
			"path", path,
			"ext", ext,
			"error", err)
		return Result{Unsupported: fmt.Sprintf("%s: %v", filepath.Base(path), err)}, nil
	}

	kept := tables[:0]
	for _, t := range tables {
		if !t.IsEmpty() {
			kept = append(kept, t)
		}
	}
	return Result{Tables: kept}, nil
}

// safeRead shields the pipeline from format codecs that panic on truncated
// or corrupt input instead of returning an error.
func safeRead(read readFunc, path string) (tables []model.RawTable, err error) {
	defer func() {
		if r := recover(); r != nil {
			tables = nil
			err = fmt.Errorf("codec panic: %v", r)
		}
	}()
	return read(path)
}

// IsDelimited reports whether the file is handled by the delimited-text
// codec: .csv and .txt by registration, plus every unknown extension via
// the last-resort fallback.
func IsDelimited(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := registry[ext]; !ok {
		return true
	}
	return ext == ".csv" || ext == ".txt"
}

// Extensions returns the registered extension list, sorted, for
// user-facing help.
func Extensions() []string {
	exts := make([]string, 0, len(registry))
	for ext := range registry {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// tableFromRows shapes a grid of cells into a RawTable. The first row
// becomes the header when every data row has a consistent width with it;
// otherwise the table stays headerless and keeps all rows as data.
func tableFromRows(name string, rows [][]string) model.RawTable {
	rows = trimEmptyRows(rows)
	if len(rows) == 0 {
		return model.RawTable{Name: name}
	}
	if len(rows) == 1 {
		return model.RawTable{Name: name, Headers: rows[0]}
	}

	width := len(rows[0])
	consistent := width > 0
	for _, r := range rows[1:] {
		if len(r) > width {
			consistent = false
			break
		}
	}
	if !consistent {
		return model.RawTable{Name: name, Rows: rows}
	}
	return model.RawTable{Name: name, Headers: rows[0], Rows: padRows(rows[1:], width)}
}

func trimEmptyRows(rows [][]string) [][]string {
	kept := make([][]string, 0, len(rows))
	for _, r := range rows {
		empty := true
		for _, c := range r {
			if strings.TrimSpace(c) != "" {
				empty = false
				break
			}
		}
		if !empty {
			kept = append(kept, r)
		}
	}
	return kept
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func padRows(rows [][]string, width int) [][]string {
	for i, r := range rows {
		for len(r) < width {
			r = append(r, "")
		}
		rows[i] = r
	}
	return rows
}
