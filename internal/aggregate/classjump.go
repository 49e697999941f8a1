package aggregate

import (
	"sort"

	"github.com/yourusername/horse-prefs/internal/classify"
	"github.com/yourusername/horse-prefs/internal/models"
	"github.com/yourusername/horse-prefs/internal/season"
)

type classJumpKey struct {
	season   season.Code
	jumpType string
}

// BuildClassJumpPrefs tallies top-3 performance by class movement between
// consecutive races. Records are sorted chronologically first; only races
// with a resolvable class number advance the rolling previous-class state,
// so a group race in between neither produces a jump nor corrupts the
// comparison across it.
func BuildClassJumpPrefs(horseID string, records []models.RaceRecord) []models.ClassJumpPref {
	ordered := sortedChronological(records)

	stats := make(map[classJumpKey]*counter)
	prevClass := 0
	prevValid := false
	for i := range ordered {
		r := &ordered[i]
		if !r.HasPlacing() {
			continue
		}
		currClass, ok := classify.ClassNumber(r.ClassText)

		jump := ""
		if prevValid && ok {
			jump = classify.JumpType(prevClass, currClass)
		}
		if ok {
			prevClass = currClass
			prevValid = true
		}
		if jump == "" {
			continue
		}

		key := classJumpKey{season: season.Resolve(*r.Date), jumpType: jump}
		c := stats[key]
		if c == nil {
			c = &counter{}
			stats[key] = c
		}
		c.observe(r.IsTop3())
	}

	now := updateStamp()
	prefs := make([]models.ClassJumpPref, 0, len(stats))
	for key, c := range stats {
		prefs = append(prefs, models.ClassJumpPref{
			HorseID:    horseID,
			Season:     key.season,
			JumpType:   key.jumpType,
			PrefCounts: c.counts(),
			LastUpdate: now,
		})
	}
	sort.Slice(prefs, func(i, j int) bool {
		if prefs[i].Season != prefs[j].Season {
			return prefs[i].Season.StartYear() > prefs[j].Season.StartYear()
		}
		return prefs[i].JumpType < prefs[j].JumpType
	})
	return prefs
}
