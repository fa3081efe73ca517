// Package normalize converts locale-specific textual tokens into canonical
// values. All functions are pure and never return errors: unparsable input
// degrades to a zero value, matching the fail-open policy of the readers.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	thousandsStripper = strings.NewReplacer(" ", "", " ", "", " ", "")

	dottedDateRe = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{2,4})$`)
	isoDateRe    = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	spelledRe    = regexp.MustCompile(`^(\d{1,2})\s+([^\s\d]+)\s+(\d{4})`)
)

// excelEpoch is the day-serial origin used by spreadsheet engines. Serial 1
// maps to 1899-12-31 because the epoch itself is day zero.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// monthStems maps lowercase month-name prefixes to month numbers. Russian
// stems cover both nominative and genitive forms ("май"/"мая" both start
// with "ма", which collides with "март", so the table keys are long enough
// to stay unambiguous).
var monthStems = []struct {
	stem  string
	month time.Month
}{
	{"янв", time.January}, {"фев", time.February}, {"мар", time.March},
	{"апр", time.April}, {"мая", time.May}, {"май", time.May},
	{"июн", time.June}, {"июл", time.July}, {"авг", time.August},
	{"сен", time.September}, {"окт", time.October}, {"ноя", time.November},
	{"дек", time.December},
	{"jan", time.January}, {"feb", time.February}, {"mar", time.March},
	{"apr", time.April}, {"may", time.May}, {"jun", time.June},
	{"jul", time.July}, {"aug", time.August}, {"sep", time.September},
	{"oct", time.October}, {"nov", time.November}, {"dec", time.December},
}

// Number parses a locale-tolerant numeric token: thousands separators
// (plain and non-breaking spaces) are stripped and a comma decimal
// separator is accepted. Returns 0 when the token is not a number.
func Number(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = thousandsStripper.Replace(s)
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// Date resolves a textual date to ISO yyyy-mm-dd. Recognized, in priority
// order: a numeric spreadsheet day serial in [1, 80000]; dd.mm.yyyy and
// dd.mm.yy (two-digit years land in 2000+); an ISO date passed through;
// "<day> <month name> <year>" with Russian or English month names matched
// by prefix. Returns ("", false) when nothing matches.
func Date(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	if serial, err := strconv.ParseFloat(thousandsStripper.Replace(s), 64); err == nil {
		if serial >= 1 && serial <= 80000 {
			d := excelEpoch.AddDate(0, 0, int(serial))
			return d.Format("2006-01-02"), true
		}
		return "", false
	}

	if m := dottedDateRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		return buildDate(year, time.Month(month), day)
	}

	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return buildDate(year, time.Month(month), day)
	}

	if m := spelledRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		name := strings.ToLower(m[2])
		for _, ms := range monthStems {
			if strings.HasPrefix(name, ms.stem) {
				return buildDate(year, ms.month, day)
			}
		}
	}

	return "", false
}

func buildDate(year int, month time.Month, day int) (string, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return "", false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (31.02 becomes 03.03); reject that.
	if d.Day() != day || d.Month() != month {
		return "", false
	}
	return d.Format("2006-01-02"), true
}

// ForSearch folds text for natural-key comparison: trimmed, lowercased,
// inner whitespace collapsed. Empty input stays empty.
func ForSearch(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(s), " ")
}
