package aggregate

import (
	"sort"

	"github.com/yourusername/horse-prefs/internal/models"
	"github.com/yourusername/horse-prefs/internal/normalize"
	"github.com/yourusername/horse-prefs/internal/season"
)

type courseKey struct {
	season     season.Code
	raceCourse string
	courseType string
}

// BuildCoursePrefs tallies top-3 performance per season, racecourse and
// surface/track designation.
func BuildCoursePrefs(horseID string, records []models.RaceRecord) []models.CoursePref {
	stats := make(map[courseKey]*counter)
	for i := range records {
		r := &records[i]
		if !r.HasPlacing() || r.Date == nil || r.RaceCourse == "" || r.RaceCourse == "Unknown" {
			continue
		}
		key := courseKey{
			season:     season.Resolve(*r.Date),
			raceCourse: r.RaceCourse,
			courseType: normalize.CleanCourseType(r.CourseType),
		}
		c := stats[key]
		if c == nil {
			c = &counter{}
			stats[key] = c
		}
		c.observe(r.IsTop3())
	}

	now := updateStamp()
	prefs := make([]models.CoursePref, 0, len(stats))
	for key, c := range stats {
		prefs = append(prefs, models.CoursePref{
			HorseID:    horseID,
			Season:     key.season,
			RaceCourse: key.raceCourse,
			CourseType: key.courseType,
			PrefCounts: c.counts(),
			LastUpdate: now,
		})
	}
	sort.Slice(prefs, func(i, j int) bool {
		if prefs[i].Season != prefs[j].Season {
			return prefs[i].Season.StartYear() > prefs[j].Season.StartYear()
		}
		if prefs[i].RaceCourse != prefs[j].RaceCourse {
			return prefs[i].RaceCourse < prefs[j].RaceCourse
		}
		return prefs[i].CourseType < prefs[j].CourseType
	})
	return prefs
}
