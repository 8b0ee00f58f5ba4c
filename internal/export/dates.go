package export

import (
	"fmt"
	"strings"
	"time"
)

// Locale selects the date grammar a bank renders transaction dates in.
type Locale string

const (
	// LocaleFrench parses "<day> <month-name>" (no year in the source
	// text; the current calendar year is synthesized).
	LocaleFrench Locale = "fr"
	// LocaleEnglish parses "<Month> <day>, <year>", optionally followed
	// by bullet-separated annotations which are discarded.
	LocaleEnglish Locale = "en"
)

// frenchMonths accepts full names and common abbreviations, accented and
// unaccented.
var frenchMonths = map[string]string{
	"janvier": "01", "janv": "01", "jan": "01",
	"février": "02", "fév": "02", "fev": "02",
	"mars":  "03",
	"avril": "04", "avr": "04",
	"mai":  "05",
	"juin": "06", "jun": "06",
	"juillet": "07", "juil": "07", "jul": "07",
	"août": "08", "aout": "08",
	"septembre": "09", "sept": "09", "sep": "09",
	"octobre": "10", "oct": "10",
	"novembre": "11", "nov": "11",
	"décembre": "12", "déc": "12", "dec": "12",
}

var englishMonths = map[string]string{
	"january": "01", "jan": "01",
	"february": "02", "feb": "02",
	"march": "03", "mar": "03",
	"april": "04", "apr": "04",
	"may":  "05",
	"june": "06", "jun": "06",
	"july": "07", "jul": "07",
	"august": "08", "aug": "08",
	"september": "09", "sep": "09", "sept": "09",
	"october": "10", "oct": "10",
	"november": "11", "nov": "11",
	"december": "12", "dec": "12",
}

// NormalizeDate converts locale-formatted date text to YYYY-MM-DD. Parse
// failure is non-fatal: the raw input is returned unchanged and ok is
// false, so the caller surfaces a degraded row instead of failing the
// batch.
func NormalizeDate(raw string, locale Locale) (string, bool) {
	switch locale {
	case LocaleFrench:
		return normalizeFrench(raw, time.Now().Year())
	case LocaleEnglish:
		return normalizeEnglish(raw)
	default:
		return raw, false
	}
}

// normalizeFrench parses "<day> <month-name>". The source text carries no
// year, so the given calendar year is stamped in; near a year boundary a
// December transaction exported in January gets the wrong year. Known
// limitation, inherited from the data source.
func normalizeFrench(raw string, year int) (string, bool) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(raw)))
	if len(fields) < 2 {
		return raw, false
	}

	month, ok := frenchMonths[fields[1]]
	if !ok {
		return raw, false
	}
	return fmt.Sprintf("%04d-%s-%s", year, month, padDay(fields[0])), true
}

// normalizeEnglish parses "<Month> <day>, <year>" and discards anything
// after the first bullet separator ("October 11, 2025 • 8:22 PM • ...").
func normalizeEnglish(raw string) (string, bool) {
	datePart := raw
	if i := strings.IndexAny(raw, "•·"); i >= 0 {
		datePart = raw[:i]
	}
	datePart = strings.TrimSpace(datePart)

	fields := strings.FieldsFunc(datePart, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) != 3 {
		return raw, false
	}

	month, ok := englishMonths[strings.ToLower(fields[0])]
	if !ok {
		return raw, false
	}
	return fields[2] + "-" + month + "-" + padDay(fields[1]), true
}

func padDay(day string) string {
	if len(day) < 2 {
		return "0" + day
	}
	return day
}
