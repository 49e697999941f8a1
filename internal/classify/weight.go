package classify

// Carried-weight group names, in ascending pound order.
const (
	WeightLight   = "Light"
	WeightLowMid  = "Low-Mid"
	WeightMid     = "Mid"
	WeightHighMid = "High-Mid"
	WeightHeavy   = "Heavy"
)

// WeightGroup buckets the pounds carried on race day.
func WeightGroup(pounds float64) string {
	switch {
	case pounds < 110:
		return WeightLight
	case pounds <= 116:
		return WeightLowMid
	case pounds <= 123:
		return WeightMid
	case pounds <= 130:
		return WeightHighMid
	default:
		return WeightHeavy
	}
}

// BWRGroup buckets the body-weight ratio (carried weight relative to the
// declared body weight, scaled by 10) into seven bands.
func BWRGroup(bwr float64) string {
	switch {
	case bwr <= 0.90:
		return "Very Low"
	case bwr <= 0.98:
		return "Low"
	case bwr <= 1.04:
		return "Medium Low"
	case bwr <= 1.10:
		return "Medium"
	case bwr <= 1.18:
		return "Medium High"
	case bwr <= 1.34:
		return "High"
	default:
		return "Very High"
	}
}

// HWTRGroup buckets the historical weight trend ratio (current carried
// weight over the mean of recent races) into five bands.
func HWTRGroup(hwtr float64) string {
	switch {
	case hwtr < 0.85:
		return "<0.85"
	case hwtr < 0.95:
		return "0.85-0.95"
	case hwtr < 1.05:
		return "0.95-1.05"
	case hwtr < 1.15:
		return "1.05-1.15"
	default:
		return "1.15+"
	}
}
