package aggregate

import (
	"sort"

	"github.com/yourusername/horse-prefs/internal/classify"
	"github.com/yourusername/horse-prefs/internal/models"
	"github.com/yourusername/horse-prefs/internal/season"
)

// defaultFieldSize stands in when a record carries no field size; twelve is
// the typical Hong Kong field.
const defaultFieldSize = 12

type drawKey struct {
	season        season.Code
	raceCourse    string
	distanceGroup string
	drawGroup     string
}

// BuildDrawPrefs tallies top-3 performance per season, racecourse, distance
// group and barrier-draw group. Draw grouping is field-size relative (the
// policy persisted in horse_draw_pref); callers wanting fixed stall bands
// use classify.FixedDrawGroup on their own tallies.
func BuildDrawPrefs(horseID string, records []models.RaceRecord) []models.DrawPref {
	stats := make(map[drawKey]*counter)
	for i := range records {
		r := &records[i]
		if !r.HasPlacing() || r.Date == nil || r.Distance == nil || r.DrawNumber == nil {
			continue
		}
		if r.RaceCourse == "" || r.RaceCourse == "Unknown" {
			continue
		}
		fieldSize := defaultFieldSize
		if r.FieldSize != nil && *r.FieldSize > 0 {
			fieldSize = *r.FieldSize
		}
		key := drawKey{
			season:        season.Resolve(*r.Date),
			raceCourse:    r.RaceCourse,
			distanceGroup: classify.DistanceGroup(r.RaceCourse, r.CourseType, *r.Distance),
			drawGroup:     classify.RelativeDrawGroup(*r.DrawNumber, fieldSize),
		}
		c := stats[key]
		if c == nil {
			c = &counter{}
			stats[key] = c
		}
		c.observe(r.IsTop3())
	}

	now := updateStamp()
	prefs := make([]models.DrawPref, 0, len(stats))
	for key, c := range stats {
		prefs = append(prefs, models.DrawPref{
			HorseID:       horseID,
			Season:        key.season,
			RaceCourse:    key.raceCourse,
			DistanceGroup: key.distanceGroup,
			DrawGroup:     key.drawGroup,
			PrefCounts:    c.counts(),
			LastUpdate:    now,
		})
	}
	sort.Slice(prefs, func(i, j int) bool {
		if prefs[i].Season != prefs[j].Season {
			return prefs[i].Season.StartYear() > prefs[j].Season.StartYear()
		}
		if prefs[i].RaceCourse != prefs[j].RaceCourse {
			return prefs[i].RaceCourse < prefs[j].RaceCourse
		}
		if prefs[i].DistanceGroup != prefs[j].DistanceGroup {
			return prefs[i].DistanceGroup < prefs[j].DistanceGroup
		}
		return prefs[i].DrawGroup < prefs[j].DrawGroup
	})
	return prefs
}
