// Package normalize cleans raw textual race fields into typed values. Every
// function in this package is total: malformed input yields a nil pointer or
// an "Unknown" sentinel, never an error that could abort an aggregation loop.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	digitsRe     = regexp.MustCompile(`(\d+)`)
	decimalRe    = regexp.MustCompile(`(\d+\.?\d*)`)
)

// invisibleReplacer strips encoding artifacts that scraped HTML cells carry:
// byte order marks, zero-width characters and non-breaking spaces.
var invisibleReplacer = strings.NewReplacer(
	"\uFEFF", "",
	"​", "",
	"‌", "",
	"‍", "",
	" ", " ",
	" ", " ",
	" ", " ",
)

// SanitizeText removes invisible marks and collapses runs of whitespace.
func SanitizeText(text string) string {
	if text == "" {
		return ""
	}
	text = invisibleReplacer.Replace(text)
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// CleanPlacing extracts a finishing position from free text. Placings that
// are non-numeric or non-positive (withdrawn, disqualified, "DNF") return
// nil so they can never masquerade as a winning position.
func CleanPlacing(text string) *int {
	text = SanitizeText(text)
	if text == "" {
		return nil
	}
	var digits strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return nil
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}

// ParseWeight extracts the leading integer pound value from a weight cell.
func ParseWeight(text string) *int {
	text = SanitizeText(text)
	if text == "" {
		return nil
	}
	m := digitsRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

// ParseInt parses a whole-number cell, nil on anything else.
func ParseInt(text string) *int {
	text = SanitizeText(text)
	n, err := strconv.Atoi(text)
	if err != nil {
		return nil
	}
	return &n
}

// ParseFloat parses a decimal cell, nil on anything else.
func ParseFloat(text string) *float64 {
	text = SanitizeText(text)
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	return &f
}

// FinishTimeSeconds converts "1.09.23" (min.sec.hundredths) or "58.44"
// (sec.hundredths) to seconds.
func FinishTimeSeconds(text string) *float64 {
	text = SanitizeText(text)
	if text == "" {
		return nil
	}
	parts := strings.Split(text, ".")
	switch len(parts) {
	case 3:
		mins, err1 := strconv.Atoi(parts[0])
		secs, err2 := strconv.Atoi(parts[1])
		hundredths, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return nil
		}
		total := float64(mins)*60 + float64(secs) + float64(hundredths)/100
		return &total
	case 2:
		secs, err1 := strconv.Atoi(parts[0])
		hundredths, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return nil
		}
		total := float64(secs) + float64(hundredths)/100
		return &total
	default:
		return nil
	}
}

// ParseLengthsBehind converts a lengths-behind-winner cell to a float.
// Dead-heat and distance markers count as zero.
func ParseLengthsBehind(text string) float64 {
	text = SanitizeText(text)
	if text == "" {
		return 0
	}
	switch strings.ToUpper(text) {
	case "DH", "DHD", "DIST", "NSE":
		return 0
	}
	m := decimalRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return f
}

// CleanCourseType normalizes turf track variants: `"A"` -> A, B+2 -> B2.
func CleanCourseType(text string) string {
	text = strings.NewReplacer(`"`, "", "+", "", "-", "").Replace(text)
	return strings.TrimSpace(text)
}

// ParseCourseInfo splits a combined course cell such as `ST / "A+3" / Turf`
// or `ST / AWT` into a racecourse code and a surface/track designation.
// All-weather races always run at Sha Tin.
func ParseCourseInfo(text string) (raceCourse, courseType string) {
	text = SanitizeText(text)
	if text == "" {
		return "Unknown", "Unknown"
	}
	if strings.Contains(text, "AWT") {
		return "ST", "AWT"
	}
	parts := strings.Split(text, "/")
	raceCourse = "Unknown"
	courseType = "Turf"
	if len(parts) > 0 && strings.TrimSpace(parts[0]) != "" {
		raceCourse = strings.TrimSpace(parts[0])
	}
	if len(parts) > 2 {
		courseType = CleanCourseType(parts[2])
	}
	return raceCourse, courseType
}
