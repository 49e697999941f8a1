package aggregate

import "github.com/shopspring/decimal"

// smallSampleRuns is the run count below which a bucket's rate is halved so
// 1/1 and 2/2 buckets do not look artificially strong.
const smallSampleRuns = 3

// Top3Rate converts accumulated counts into a dampened top-3 rate, rounded
// to 4 decimal places. The result is always in [0, 1] and the computation
// is idempotent: re-deriving from the same counts yields the same rate.
func Top3Rate(top3, total int) float64 {
	if total <= 0 {
		return 0
	}
	rate := decimal.NewFromInt(int64(top3)).Div(decimal.NewFromInt(int64(total)))
	if total < smallSampleRuns {
		rate = rate.Mul(decimal.NewFromFloat(0.5))
	}
	f, _ := rate.Round(4).Float64()
	return f
}
