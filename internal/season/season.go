// Package season derives HKJC-style racing season codes from dates. The
// racing year starts on 1 September, so a race on 31 August 2024 belongs to
// "23/24" and a race on 1 September 2024 belongs to "24/25".
//
// This package is the single source of truth for season derivation; nothing
// else in the module computes a season code directly.
package season

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Unknown is the sentinel code for dates that could not be resolved.
const Unknown Code = "Unknown"

// Code is a two-digit-pair season code such as "24/25".
//
// Codes do NOT sort chronologically as plain strings: "99/00" precedes
// "00/01" in time. Callers needing chronological order must compare
// StartYear values, not the strings themselves.
type Code string

// Resolve maps a race date to its season code.
func Resolve(date time.Time) Code {
	year := date.Year()
	if int(date.Month()) >= 9 {
		return Code(fmt.Sprintf("%02d/%02d", year%100, (year+1)%100))
	}
	return Code(fmt.Sprintf("%02d/%02d", (year-1)%100, year%100))
}

// Current returns the season that began in September of the current calendar
// year, used when ordering stored rows around "this season".
func Current(now time.Time) Code {
	year := now.Year()
	return Code(fmt.Sprintf("%02d/%02d", year%100, (year+1)%100))
}

// StartYear returns the leading two digits of the code as an integer, or -1
// for Unknown or malformed codes. This is the documented comparison key for
// ordering seasons; note it wraps at the century boundary.
func (c Code) StartYear() int {
	if len(c) < 2 {
		return -1
	}
	n, err := strconv.Atoi(string(c[:2]))
	if err != nil {
		return -1
	}
	return n
}

// IsUnknown reports whether the code is the unresolved sentinel.
func (c Code) IsUnknown() bool {
	return c == Unknown || c == ""
}

// SortNewestFirst orders season codes by StartYear descending, matching how
// stored preference rows are presented.
func SortNewestFirst(codes []Code) {
	sort.Slice(codes, func(i, j int) bool {
		return codes[i].StartYear() > codes[j].StartYear()
	})
}
