package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/yourusername/horse-prefs/internal/classify"
	"github.com/yourusername/horse-prefs/internal/models"
	"github.com/yourusername/horse-prefs/internal/season"
)

type bwrKey struct {
	season   season.Code
	distance int
	group    string
}

// BodyWeightRatio computes carried weight relative to declared body weight.
// the ×10 scaling puts typical values near 1.0 (a 120 lb impost on a 1,200
// lb horse). Rounded to 3 decimal places; 0 when the declared weight is
// missing or zero.
func BodyWeightRatio(actualWeight, declaredWeight int) float64 {
	if declaredWeight <= 0 || actualWeight <= 0 {
		return 0
	}
	ratio := decimal.NewFromInt(int64(actualWeight)).
		Div(decimal.NewFromInt(int64(declaredWeight))).
		Mul(decimal.NewFromInt(10))
	f, _ := ratio.Round(3).Float64()
	return f
}

// BuildBWRDistancePrefs tallies top-3 performance per season, exact race
// distance and body-weight-ratio band.
func BuildBWRDistancePrefs(horseID string, records []models.RaceRecord) []models.BWRDistancePref {
	stats := make(map[bwrKey]*counter)
	for i := range records {
		r := &records[i]
		if !r.HasPlacing() || r.Date == nil || r.Distance == nil {
			continue
		}
		if r.ActualWeight == nil || r.DeclaredWeight == nil || *r.DeclaredWeight == 0 {
			continue
		}
		bwr := BodyWeightRatio(*r.ActualWeight, *r.DeclaredWeight)
		if bwr == 0 {
			continue
		}
		key := bwrKey{
			season:   season.Resolve(*r.Date),
			distance: *r.Distance,
			group:    classify.BWRGroup(bwr),
		}
		c := stats[key]
		if c == nil {
			c = &counter{}
			stats[key] = c
		}
		c.observe(r.IsTop3())
	}

	now := updateStamp()
	prefs := make([]models.BWRDistancePref, 0, len(stats))
	for key, c := range stats {
		prefs = append(prefs, models.BWRDistancePref{
			HorseID:    horseID,
			Season:     key.season,
			Distance:   key.distance,
			BWRGroup:   key.group,
			PrefCounts: c.counts(),
			LastUpdate: now,
		})
	}
	sort.Slice(prefs, func(i, j int) bool {
		if prefs[i].Season != prefs[j].Season {
			return prefs[i].Season.StartYear() > prefs[j].Season.StartYear()
		}
		if prefs[i].Distance != prefs[j].Distance {
			return prefs[i].Distance < prefs[j].Distance
		}
		return prefs[i].BWRGroup < prefs[j].BWRGroup
	})
	return prefs
}
