package classify

// Running-style bucket names, front to back.
const (
	StyleLeader  = "Leader"
	StyleOnPace  = "On-pace"
	StyleStalker = "Stalker"
	StyleCloser  = "Closer"
)

// StyleBucket maps an early running position to a style bucket using the
// fraction of the field ahead: (pos-1)/(fieldSize-1), so the leader is 0.0
// and the tailender 1.0. The denominator floors at 1 for walkover fields.
// Returns "" when either input is missing.
func StyleBucket(earlyPos, fieldSize int) string {
	if earlyPos <= 0 || fieldSize <= 0 {
		return ""
	}
	denom := fieldSize - 1
	if denom < 1 {
		denom = 1
	}
	pct := float64(earlyPos-1) / float64(denom)
	switch {
	case pct <= 0.15:
		return StyleLeader
	case pct <= 0.35:
		return StyleOnPace
	case pct <= 0.65:
		return StyleStalker
	default:
		return StyleCloser
	}
}

// StyleBucketOrder gives the display rank of a style bucket, leaders first.
// Unrecognized buckets sort last.
func StyleBucketOrder(bucket string) int {
	switch bucket {
	case StyleLeader:
		return 1
	case StyleOnPace:
		return 2
	case StyleStalker:
		return 3
	case StyleCloser:
		return 4
	default:
		return 99
	}
}
