package normalize

import (
	"regexp"
	"strconv"
	"time"
)

// dateLayouts are tried in order. Two-digit years resolve to the 21st
// century via Go's reference-time semantics ("06" pivots at 1969, and race
// history never predates 2000 here).
var dateLayouts = []string{
	"02/01/2006",
	"02-01-2006",
	"2006-01-02",
	"02.01.2006",
	"02/01/06",
}

// looseDateRe extracts a (day, month, year) triple from anything the fixed
// layouts miss, e.g. mixed separators.
var looseDateRe = regexp.MustCompile(`(\d{1,2})\D(\d{1,2})\D(\d{2,4})`)

// ParseDate parses a race date cell. Returns nil when no day/month/year
// triple can be recovered.
func ParseDate(text string) *time.Time {
	text = SanitizeText(text)
	if text == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return &t
		}
	}
	m := looseDateRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &t
}

// ISODate renders a parsed race date in the storage format for date columns.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}
