package aggregate

import (
	"sort"

	"github.com/yourusername/horse-prefs/internal/classify"
	"github.com/yourusername/horse-prefs/internal/models"
	"github.com/yourusername/horse-prefs/internal/season"
)

type distanceKey struct {
	season season.Code
	group  string
}

// BuildDistancePrefs tallies top-3 performance per season and simple
// distance group. Order-independent single pass.
func BuildDistancePrefs(horseID string, records []models.RaceRecord) []models.DistancePref {
	stats := make(map[distanceKey]*counter)
	for i := range records {
		r := &records[i]
		if !r.HasPlacing() || r.Date == nil || r.Distance == nil {
			continue
		}
		key := distanceKey{
			season: season.Resolve(*r.Date),
			group:  classify.SimpleDistanceGroup(*r.Distance),
		}
		c := stats[key]
		if c == nil {
			c = &counter{}
			stats[key] = c
		}
		c.observe(r.IsTop3())
	}

	now := updateStamp()
	prefs := make([]models.DistancePref, 0, len(stats))
	for key, c := range stats {
		prefs = append(prefs, models.DistancePref{
			HorseID:       horseID,
			Season:        key.season,
			DistanceGroup: key.group,
			PrefCounts:    c.counts(),
			LastUpdate:    now,
		})
	}
	sort.Slice(prefs, func(i, j int) bool {
		if prefs[i].Season != prefs[j].Season {
			return prefs[i].Season.StartYear() > prefs[j].Season.StartYear()
		}
		return prefs[i].DistanceGroup < prefs[j].DistanceGroup
	})
	return prefs
}
