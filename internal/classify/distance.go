// Package classify maps typed race attributes onto the discrete buckets the
// preference tables are keyed by. Every classifier is a pure, total
// function: out-of-domain input maps to the Unknown / zero bucket rather
// than an error.
package classify

// GroupUnknown is the bucket for inputs outside a classifier's domain.
const GroupUnknown = "Unknown"

// Distance group names.
const (
	DistanceSprint    = "Sprint"
	DistanceShort     = "Short"
	DistanceMid       = "Mid"
	DistanceLong      = "Long"
	DistanceEndurance = "Endurance"
)

// DistanceGroup buckets a race distance using track- and surface-specific
// thresholds. All upper bounds are inclusive. Sha Tin's all-weather track
// has no sprint trips; Happy Valley is always turf.
func DistanceGroup(raceCourse, courseType string, distance int) string {
	if distance <= 0 {
		return GroupUnknown
	}
	switch raceCourse {
	case "ST":
		if courseType == "AWT" {
			switch {
			case distance <= 1200:
				return DistanceShort
			case distance <= 1650:
				return DistanceMid
			case distance <= 2000:
				return DistanceLong
			default:
				return DistanceEndurance
			}
		}
		switch {
		case distance <= 1000:
			return DistanceSprint
		case distance <= 1400:
			return DistanceShort
		case distance <= 1800:
			return DistanceMid
		case distance <= 2200:
			return DistanceLong
		default:
			return DistanceEndurance
		}
	case "HV":
		switch {
		case distance <= 1000:
			return DistanceSprint
		case distance <= 1200:
			return DistanceShort
		case distance <= 1800:
			return DistanceMid
		case distance <= 2200:
			return DistanceLong
		default:
			return DistanceEndurance
		}
	}
	return GroupUnknown
}

// SimpleDistanceGroup buckets a distance without regard to track or
// surface. The distance-preference aggregation uses this coarser scheme so
// a horse's trips compare across courses.
func SimpleDistanceGroup(distance int) string {
	switch {
	case distance <= 0:
		return GroupUnknown
	case distance < 1000:
		return DistanceSprint
	case distance <= 1400:
		return DistanceShort
	case distance < 1800:
		return DistanceMid
	case distance < 2200:
		return DistanceLong
	default:
		return DistanceEndurance
	}
}

// TurnCount returns the number of turns run for a course, surface and
// distance combination. Straight-course trips are 0; unknown combinations
// default to 0 rather than guessing.
func TurnCount(raceCourse, courseType string, distance int) float64 {
	switch raceCourse {
	case "ST":
		if courseType == "AWT" {
			switch {
			case distance <= 1200:
				return 0.0
			case distance <= 1650:
				return 1.0
			case distance <= 2000:
				return 2.0
			}
			return 0.0
		}
		switch {
		case distance <= 1000:
			return 0.0
		case distance <= 1400:
			return 1.0
		case distance <= 1800:
			return 2.0
		case distance <= 2200:
			return 3.0
		}
	case "HV":
		switch {
		case distance <= 1000:
			return 1.0
		case distance <= 1200:
			return 2.0
		case distance <= 1800:
			return 3.0
		}
	}
	return 0.0
}
