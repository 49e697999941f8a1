package aggregate

import (
	"sort"

	"github.com/yourusername/horse-prefs/internal/models"
	"github.com/yourusername/horse-prefs/internal/season"
)

type goingKey struct {
	season season.Code
	going  string
}

// BuildGoingPrefs tallies top-3 performance per season and track condition.
func BuildGoingPrefs(horseID string, records []models.RaceRecord) []models.GoingPref {
	stats := make(map[goingKey]*counter)
	for i := range records {
		r := &records[i]
		if !r.HasPlacing() || r.Date == nil || r.Going == "" {
			continue
		}
		key := goingKey{season: season.Resolve(*r.Date), going: r.Going}
		c := stats[key]
		if c == nil {
			c = &counter{}
			stats[key] = c
		}
		c.observe(r.IsTop3())
	}

	now := updateStamp()
	prefs := make([]models.GoingPref, 0, len(stats))
	for key, c := range stats {
		prefs = append(prefs, models.GoingPref{
			HorseID:    horseID,
			Season:     key.season,
			GoingType:  key.going,
			PrefCounts: c.counts(),
			LastUpdate: now,
		})
	}
	sort.Slice(prefs, func(i, j int) bool {
		if prefs[i].Season != prefs[j].Season {
			return prefs[i].Season.StartYear() > prefs[j].Season.StartYear()
		}
		return prefs[i].GoingType < prefs[j].GoingType
	})
	return prefs
}
