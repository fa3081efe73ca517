// Package orders reconstructs work-order groups from ledger-style tables:
// a flat sequence of lines mixing worker headers, product headers, dated
// item groups and a terminal totals sentinel, with no structural delimiter
// between orders beyond these marker lines.
package orders

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/artel-io/naryad/internal/model"
	"github.com/artel-io/naryad/internal/normalize"
)

// Markers holds the compiled marker patterns of one ledger dialect. The
// spreadsheet and CSV dialects differ only here and in how the banner
// year is written; the state machine itself is shared.
type Markers struct {
	WorkerHeader  *regexp.Regexp
	ProductHeader *regexp.Regexp
	DateLine      *regexp.Regexp
	Totals        *regexp.Regexp
	BannerYear    *regexp.Regexp
}

// SheetMarkers matches the workbook dialect of the ledger.
func SheetMarkers() Markers {
	return Markers{
		WorkerHeader:  regexp.MustCompile(`(?i)(фио\s+сотрудника|ф\.?\s*и\.?\s*о\.?|full\s+name)`),
		ProductHeader: regexp.MustCompile(`(?i)издели[ея]\s*(№|n|номер|:)|product\s*(no|№|#)`),
		DateLine:      regexp.MustCompile(`^\s*(\d{1,2})\.(\d{1,2})\.?(\d{2,4})?\s*$`),
		Totals:        regexp.MustCompile(`(?i)^\s*(итого|всего|total)`),
		BannerYear:    regexp.MustCompile(`(?i)(\d{4})\s*(?:г\.?|год|year)`),
	}
}

// CSVMarkers matches the CSV export dialect. Exports keep the same marker
// wording but the banner year may also appear as a bare "за 2025" token.
func CSVMarkers() Markers {
	m := SheetMarkers()
	m.BannerYear = regexp.MustCompile(`(?i)за\s+(\d{4})|(\d{4})\s*(?:г\.?|год|year)`)
	return m
}

type state int

const (
	stateScanning state = iota
	stateInGroup
)

// Reconstructor is the explicit state machine: one pass over the lines of
// a ledger, three pieces of session state. Workers accumulate once and
// persist across groups; products are replaced by every product-header
// line; the open group collects item lines until a boundary closes it.
type Reconstructor struct {
	group    *model.OrderGroup
	markers  Markers
	workers  []model.OrderWorker
	products []string
	out      []model.OrderGroup
	year     int
	state    state
}

// New returns a reconstructor with the given marker dialect. fallbackYear
// completes date lines written without a year; zero means the current
// year.
func New(markers Markers, fallbackYear int) *Reconstructor {
	if fallbackYear == 0 {
		fallbackYear = time.Now().Year()
	}
	return &Reconstructor{markers: markers, year: fallbackYear}
}

// Step consumes one line. The marker checks run in fixed priority: worker
// header, product header, date group, totals sentinel, item line. Lines
// matching nothing are ignored.
func (r *Reconstructor) Step(cells []string) {
	joined := strings.TrimSpace(strings.Join(cells, " "))
	if joined == "" {
		return
	}

	switch {
	case r.markers.WorkerHeader.MatchString(joined):
		r.addWorker(cells, joined)
	case r.markers.ProductHeader.MatchString(joined):
		r.products = parseProductList(r.markers.ProductHeader, joined)
	case len(cells) > 0 && r.markers.DateLine.MatchString(firstNonEmpty(cells)):
		r.openGroup(firstNonEmpty(cells))
	case r.markers.Totals.MatchString(firstNonEmpty(cells)):
		r.closeGroup()
		r.state = stateScanning
	default:
		if r.state == stateInGroup {
			r.addItem(cells)
		}
	}
}

// Finish closes any open group and returns the reconstructed orders.
func (r *Reconstructor) Finish() []model.OrderGroup {
	r.closeGroup()
	return r.out
}

// FromTable runs the reconstructor over a whole table, picking the
// fallback year from the table name and leading banner lines.
func FromTable(t model.RawTable, markers Markers) []model.OrderGroup {
	lines := t.Lines()
	r := New(markers, bannerYear(markers, t.Name, lines))
	for _, line := range lines {
		r.Step(line)
	}
	return r.Finish()
}

func (r *Reconstructor) addWorker(cells []string, joined string) {
	name := ""
	if _, after, found := strings.Cut(joined, ":"); found {
		name = strings.TrimSpace(after)
	}
	if name == "" {
		// Marker in one cell, name in the next non-empty one.
		markerSeen := false
		for _, c := range cells {
			c = strings.TrimSpace(c)
			if c == "" {
				continue
			}
			if !markerSeen {
				markerSeen = true
				continue
			}
			name = c
			break
		}
	}

	personnelNo := ""
	if m := personnelNoRe.FindStringSubmatch(joined); m != nil {
		personnelNo = m[1]
		name = strings.TrimSpace(personnelNoRe.ReplaceAllString(name, ""))
	}
	name = strings.Trim(name, " ,;")
	if name == "" {
		return
	}

	for _, w := range r.workers {
		if w.FullName == name && w.PersonnelNo == personnelNo {
			return
		}
	}
	r.workers = append(r.workers, model.OrderWorker{FullName: name, PersonnelNo: personnelNo})
}

var personnelNoRe = regexp.MustCompile(`(?i)таб(?:ельный)?\.?\s*№?\s*:?\s*(\d+)`)

func (r *Reconstructor) openGroup(cell string) {
	r.closeGroup()

	m := r.markers.DateLine.FindStringSubmatch(cell)
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year := r.year
	if m[3] != "" {
		year, _ = strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
	}

	date, ok := normalize.Date(fmt.Sprintf("%02d.%02d.%04d", day, month, year))
	if !ok {
		return
	}

	r.group = &model.OrderGroup{
		Date:     date,
		Products: append([]string(nil), r.products...),
		Workers:  append([]model.OrderWorker(nil), r.workers...),
	}
	r.state = stateInGroup
}

func (r *Reconstructor) closeGroup() {
	if r.group != nil && len(r.group.Items) > 0 {
		r.out = append(r.out, *r.group)
	}
	r.group = nil
	r.state = stateScanning
}

// addItem parses a job line. The first cell that is neither numeric nor a
// unit token is the job name; numeric cells before it are the row ordinal
// and are skipped. After the job name the cells fill positional slots
// price, quantity, amount — an empty cell between numerics marks its slot
// as missing, and a missing amount or quantity is backfilled from the
// other two.
func (r *Reconstructor) addItem(cells []string) {
	item := model.OrderItem{Unit: "шт."}

	jobIdx := -1
	for i, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" || isNumeric(c) || unitRe.MatchString(c) {
			continue
		}
		item.JobName = c
		jobIdx = i
		break
	}
	if jobIdx < 0 {
		return
	}

	var slots []*float64
	started := false
	for _, c := range cells[jobIdx+1:] {
		c = strings.TrimSpace(c)
		switch {
		case unitRe.MatchString(c) && !started:
			item.Unit = c
			started = true
		case isNumeric(c):
			v := normalize.Number(c)
			slots = append(slots, &v)
			started = true
		case c == "" && started:
			slots = append(slots, nil)
		}
	}

	numeric := 0
	for _, s := range slots {
		if s != nil {
			numeric++
		}
	}
	if numeric == 0 {
		return
	}
	if numeric == 1 && len(slots) == 1 {
		// A lone number on a job line is a quantity without a tariff.
		item.Quantity = *slots[0]
		r.group.Items = append(r.group.Items, item)
		return
	}

	take := func(i int) float64 {
		if i < len(slots) && slots[i] != nil {
			return *slots[i]
		}
		return 0
	}
	item.UnitPrice, item.Quantity, item.Amount = take(0), take(1), take(2)

	if item.Amount == 0 && item.UnitPrice > 0 && item.Quantity > 0 {
		item.Amount = item.UnitPrice * item.Quantity
	}
	if item.Quantity == 0 && item.UnitPrice > 0 && item.Amount > 0 {
		item.Quantity = item.Amount / item.UnitPrice
	}

	r.group.Items = append(r.group.Items, item)
}

func isNumeric(s string) bool {
	return normalize.Number(s) != 0 || isZeroToken(s)
}

var unitRe = regexp.MustCompile(`(?i)^(шт|м2|м²|кг|час|ч|компл|м\.?п|пог|м|л|т)\.?$`)

// parseProductList pulls a comma-separated product number list out of a
// product-header line, stripping repeat annotations.
func parseProductList(header *regexp.Regexp, joined string) []string {
	loc := header.FindStringIndex(joined)
	tail := joined[loc[1]:]
	tail = strings.TrimLeft(tail, " :№")

	var products []string
	for _, piece := range strings.Split(tail, ",") {
		piece = repeatRe.ReplaceAllString(piece, "")
		piece = strings.Join(strings.Fields(piece), " ")
		piece = strings.Trim(piece, " .;")
		if piece != "" {
			products = append(products, piece)
		}
	}
	return products
}

var repeatRe = regexp.MustCompile(`(?i)\(?\s*(повтор[а-яё]*|repeat\w*)\s*\)?`)

func firstNonEmpty(cells []string) string {
	for _, c := range cells {
		if s := strings.TrimSpace(c); s != "" {
			return s
		}
	}
	return ""
}

func isZeroToken(s string) bool {
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	return err == nil && v == 0
}

// bannerYear extracts a four-digit year from the table name or the first
// lines of the sheet ("Наряды за 2025 г.").
func bannerYear(markers Markers, name string, lines [][]string) int {
	probe := []string{name}
	limit := len(lines)
	if limit > 10 {
		limit = 10
	}
	for _, line := range lines[:limit] {
		probe = append(probe, strings.Join(line, " "))
	}

	for _, text := range probe {
		m := markers.BannerYear.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		for _, sub := range m[1:] {
			if sub == "" {
				continue
			}
			if year, err := strconv.Atoi(sub); err == nil && year >= 1990 && year <= 2100 {
				return year
			}
		}
	}
	return 0
}
