package classify

// Two draw-grouping policies coexist. They bucket the same attribute with
// incompatible vocabularies, so the call site must choose one explicitly
// rather than this package guessing. The persisted horse_draw_pref table is
// built with the field-relative policy; the fixed-band policy serves ad-hoc
// barrier analysis where the field size is unavailable.

// FixedDrawGroup buckets a barrier draw by absolute stall number.
func FixedDrawGroup(draw int) string {
	switch {
	case draw <= 0:
		return GroupUnknown
	case draw <= 3:
		return "Inside"
	case draw <= 6:
		return "InnerMid"
	case draw <= 9:
		return "OuterMid"
	case draw <= 12:
		return "Wide"
	default:
		return "Outer"
	}
}

// RelativeDrawGroup buckets a barrier draw by its percentile position
// within the field, so stall 7 of 14 and stall 4 of 8 land together.
func RelativeDrawGroup(draw, fieldSize int) string {
	if fieldSize <= 0 || draw <= 0 {
		return GroupUnknown
	}
	switch {
	case float64(draw) <= float64(fieldSize)*0.33:
		return "Low"
	case float64(draw) <= float64(fieldSize)*0.66:
		return "Middle"
	default:
		return "High"
	}
}
