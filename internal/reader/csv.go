package reader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/artel-io/naryad/internal/model"
)

// readCSV reads a delimiter-separated text file into a single RawTable.
// The delimiter is sniffed from the first lines; files that are not valid
// UTF-8 are retried as Windows-1251, the dominant legacy encoding of the
// inputs this pipeline sees.
func readCSV(path string) ([]model.RawTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if !utf8.Valid(raw) {
		decoded, err := charmap.Windows1251.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("decode cp1251: %w", err)
		}
		raw = decoded
	}

	text := string(raw)
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = sniffDelimiter(text)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	t := tableFromRows(name, rows)
	if t.IsEmpty() {
		return nil, nil
	}
	return []model.RawTable{t}, nil
}

// sniffDelimiter picks the separator that appears most consistently in
// the first few lines, preferring semicolon and tab over comma because
// regional CSV exports use comma as the decimal separator.
func sniffDelimiter(text string) rune {
	lines := strings.SplitN(text, "\n", 6)
	counts := map[rune]int{';': 0, '\t': 0, ',': 0, '|': 0}
	for _, line := range lines {
		for d := range counts {
			counts[d] += strings.Count(line, string(d))
		}
	}
	best := ','
	bestCount := 0
	for _, d := range []rune{';', '\t', '|', ','} {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}
