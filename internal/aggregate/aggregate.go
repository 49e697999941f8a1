// Package aggregate turns a horse's chronological race history into grouped
// top-3 rate statistics, one builder per preference dimension. Builders are
// pure: they never mutate their input records and records missing a field a
// dimension needs are skipped by that dimension alone.
package aggregate

import (
	"sort"
	"time"

	"github.com/yourusername/horse-prefs/internal/models"
)

// counter accumulates runs and top-3 finishes for one grouping key.
type counter struct {
	top3  int
	total int
}

func (c *counter) observe(top3 bool) {
	c.total++
	if top3 {
		c.top3++
	}
}

// counts materializes a counter into the shared PrefCounts shape.
func (c counter) counts() models.PrefCounts {
	return models.PrefCounts{
		Top3Count: c.top3,
		TotalRuns: c.total,
		Top3Rate:  Top3Rate(c.top3, c.total),
	}
}

// updateStamp renders the LastUpdate value for freshly built rows.
func updateStamp() string {
	return time.Now().Format(models.UpdateTimeLayout)
}

// sortedChronological returns the records ordered oldest to newest, skipping
// any without a parseable date. The input slice is left untouched.
func sortedChronological(records []models.RaceRecord) []models.RaceRecord {
	out := make([]models.RaceRecord, 0, len(records))
	for _, r := range records {
		if r.Date != nil {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(*out[j].Date)
	})
	return out
}
