package classify

import (
	"regexp"
	"strconv"
	"strings"
)

// Class-jump direction names. "Up" means moving into a lower class number
// (better company), "Down" the reverse.
const (
	JumpUp   = "Up"
	JumpDown = "Down"
	JumpSame = "Same"
)

// GriffinClass is the canonical class number for Griffin races (restricted
// races for unraced imports), so they compare against graded class numbers.
const GriffinClass = 6

var classNumberRe = regexp.MustCompile(`(\d+)`)

// ClassNumber extracts a comparable class number from the raw class cell.
// Group races (G1/G2/G3) have no class number and return (0, false); they
// neither produce a jump nor disturb the previous-class state. Griffin
// races canonicalize to GriffinClass.
func ClassNumber(classText string) (int, bool) {
	t := strings.ToUpper(strings.TrimSpace(classText))
	if t == "" {
		return 0, false
	}
	for _, g := range []string{"G1", "G2", "G3"} {
		if strings.Contains(t, g) {
			return 0, false
		}
	}
	if strings.Contains(t, "GRIFFIN") || strings.Contains(t, "GRF") {
		return GriffinClass, true
	}
	m := classNumberRe.FindStringSubmatch(t)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// JumpType compares consecutive class numbers chronologically. Lower class
// numbers are better company, so a drop in number is a jump up.
func JumpType(prevClass, currClass int) string {
	switch {
	case currClass < prevClass:
		return JumpUp
	case currClass > prevClass:
		return JumpDown
	default:
		return JumpSame
	}
}
