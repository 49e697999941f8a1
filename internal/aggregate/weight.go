package aggregate

import (
	"sort"

	"github.com/yourusername/horse-prefs/internal/classify"
	"github.com/yourusername/horse-prefs/internal/models"
	"github.com/yourusername/horse-prefs/internal/season"
)

// maxPlausibleWeight guards against scrape glitches; Hong Kong handicaps
// never allot more than 150 lb.
const maxPlausibleWeight = 150

type weightKey struct {
	season        season.Code
	distanceGroup string
	weightGroup   string
}

type weightCounter struct {
	counter
	weightSum float64
}

// BuildWeightPrefs tallies top-3 performance per season, distance group and
// carried-weight group, and records the mean weight carried in each bucket.
func BuildWeightPrefs(horseID string, records []models.RaceRecord) []models.WeightPref {
	stats := make(map[weightKey]*weightCounter)
	for i := range records {
		r := &records[i]
		if !r.HasPlacing() || r.Date == nil || r.Distance == nil || r.ActualWeight == nil {
			continue
		}
		carried := float64(*r.ActualWeight)
		if carried <= 0 || carried > maxPlausibleWeight {
			continue
		}
		key := weightKey{
			season:        season.Resolve(*r.Date),
			distanceGroup: classify.DistanceGroup(r.RaceCourse, r.CourseType, *r.Distance),
			weightGroup:   classify.WeightGroup(carried),
		}
		c := stats[key]
		if c == nil {
			c = &weightCounter{}
			stats[key] = c
		}
		c.observe(r.IsTop3())
		c.weightSum += carried
	}

	now := updateStamp()
	prefs := make([]models.WeightPref, 0, len(stats))
	for key, c := range stats {
		avg := 0.0
		if c.total > 0 {
			avg = c.weightSum / float64(c.total)
		}
		prefs = append(prefs, models.WeightPref{
			HorseID:       horseID,
			Season:        key.season,
			DistanceGroup: key.distanceGroup,
			WeightGroup:   key.weightGroup,
			CarriedWeight: avg,
			PrefCounts:    c.counts(),
			LastUpdate:    now,
		})
	}
	sort.Slice(prefs, func(i, j int) bool {
		if prefs[i].Season != prefs[j].Season {
			return prefs[i].Season.StartYear() > prefs[j].Season.StartYear()
		}
		if prefs[i].DistanceGroup != prefs[j].DistanceGroup {
			return prefs[i].DistanceGroup < prefs[j].DistanceGroup
		}
		return prefs[i].WeightGroup < prefs[j].WeightGroup
	})
	return prefs
}
