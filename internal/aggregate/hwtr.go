package aggregate

import (
	"sort"
	"strconv"

	"github.com/yourusername/horse-prefs/internal/classify"
	"github.com/yourusername/horse-prefs/internal/models"
	"github.com/yourusername/horse-prefs/internal/season"
)

// hwtrLookback caps how many earlier races feed the trend mean; hwtrMinHistory
// is the floor below which no ratio is computed for a race.
const (
	hwtrLookback   = 3
	hwtrMinHistory = 2
)

type hwtrKey struct {
	season season.Code
	class  string
	group  string
}

// BuildHWTRTrends tallies top-3 performance by historical weight trend
// ratio per class. For each race the ratio compares its carried weight to
// the mean of up to three strictly earlier carried weights; races with
// fewer than two earlier weighted races are skipped.
func BuildHWTRTrends(horseID string, records []models.RaceRecord) []models.HWTRTrend {
	ordered := sortedChronological(records)

	stats := make(map[hwtrKey]*counter)
	for i := range ordered {
		r := &ordered[i]
		if !r.HasPlacing() || r.ActualWeight == nil || *r.ActualWeight <= 0 {
			continue
		}

		cls := hwtrClass(r.ClassText)
		if cls == "" {
			continue
		}

		// Walk backwards through strictly earlier races for weights.
		history := make([]float64, 0, hwtrLookback)
		for j := i - 1; j >= 0 && len(history) < hwtrLookback; j-- {
			prev := &ordered[j]
			if prev.ActualWeight != nil && *prev.ActualWeight > 0 {
				history = append(history, float64(*prev.ActualWeight))
			}
		}
		if len(history) < hwtrMinHistory {
			continue
		}

		sum := 0.0
		for _, w := range history {
			sum += w
		}
		hwtr := float64(*r.ActualWeight) / (sum / float64(len(history)))

		key := hwtrKey{
			season: season.Resolve(*r.Date),
			class:  cls,
			group:  classify.HWTRGroup(hwtr),
		}
		c := stats[key]
		if c == nil {
			c = &counter{}
			stats[key] = c
		}
		c.observe(r.IsTop3())
	}

	now := updateStamp()
	trends := make([]models.HWTRTrend, 0, len(stats))
	for key, c := range stats {
		trends = append(trends, models.HWTRTrend{
			HorseID:    horseID,
			Season:     key.season,
			Class:      key.class,
			HWTRGroup:  key.group,
			PrefCounts: c.counts(),
			LastUpdate: now,
		})
	}
	sort.Slice(trends, func(i, j int) bool {
		if trends[i].Season != trends[j].Season {
			return trends[i].Season.StartYear() > trends[j].Season.StartYear()
		}
		if trends[i].Class != trends[j].Class {
			return trends[i].Class < trends[j].Class
		}
		return trends[i].HWTRGroup < trends[j].HWTRGroup
	})
	return trends
}

// hwtrClass renders the class key for the trend table: the canonical class
// number when one resolves, otherwise the raw text so group races still
// bucket together under their own label.
func hwtrClass(classText string) string {
	if n, ok := classify.ClassNumber(classText); ok {
		return strconv.Itoa(n)
	}
	if classText == "" {
		return ""
	}
	return classText
}
