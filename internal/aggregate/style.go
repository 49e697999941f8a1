package aggregate

import (
	"fmt"
	"math"
	"sort"

	"github.com/yourusername/horse-prefs/internal/classify"
	"github.com/yourusername/horse-prefs/internal/models"
	"github.com/yourusername/horse-prefs/internal/normalize"
	"github.com/yourusername/horse-prefs/internal/season"
)

// RunningPositionFromRecord normalizes one race record into the per-race
// horse_running_position row that the style aggregation is rebuilt from.
// Returns false when the record has no date or distance to anchor the row.
func RunningPositionFromRecord(horseID string, r *models.RaceRecord) (models.RunningPosition, bool) {
	if r.Date == nil || r.Distance == nil {
		return models.RunningPosition{}, false
	}
	pos := models.RunningPosition{
		HorseID:       horseID,
		RaceDate:      normalize.ISODate(*r.Date),
		RaceNumber:    r.RaceNumber,
		Season:        season.Resolve(*r.Date),
		RaceCourse:    r.RaceCourse,
		CourseType:    r.CourseType,
		DistanceGroup: classify.DistanceGroup(r.RaceCourse, r.CourseType, *r.Distance),
		TurnCount:     classify.TurnCount(r.RaceCourse, r.CourseType, *r.Distance),
		EarlyPos:      r.EarlyPosition,
		MidPos:        r.MidPosition,
		FinalPos:      r.FinalPosition,
		FinishTime:    r.FinishTimeSeconds,
		Placing:       r.Placing,
		FieldSize:     r.FieldSize,
		LastUpdate:    updateStamp(),
	}
	pos.RaceID = r.RaceID
	if pos.RaceID == "" {
		pos.RaceID = RaceIDFor(pos.RaceDate, pos.RaceCourse, pos.RaceNumber)
	}
	return pos, true
}

// RaceIDFor derives a stable race identifier from date, course and race
// number, e.g. "20240901_ST_03".
func RaceIDFor(isoDate, raceCourse, raceNumber string) string {
	compact := ""
	for _, r := range isoDate {
		if r != '-' {
			compact += string(r)
		}
	}
	if raceNumber == "" {
		raceNumber = "00"
	}
	if len(raceNumber) == 1 {
		raceNumber = "0" + raceNumber
	}
	return fmt.Sprintf("%s_%s_%s", compact, raceCourse, raceNumber)
}

type styleKey struct {
	horseID       string
	season        season.Code
	raceCourse    string
	courseType    string
	distanceGroup string
	turnCount     float64
	bucket        string
}

// BuildRunningStylePrefs is the second-stage aggregation: it consumes
// already-persisted running-position rows (not raw race rows) and tallies
// top-3 performance per style bucket within each course/trip shape.
func BuildRunningStylePrefs(positions []models.RunningPosition) []models.RunningStylePref {
	stats := make(map[styleKey]*counter)
	for i := range positions {
		p := &positions[i]
		if p.EarlyPos == nil || p.FieldSize == nil {
			continue
		}
		bucket := classify.StyleBucket(*p.EarlyPos, *p.FieldSize)
		if bucket == "" {
			continue
		}
		key := styleKey{
			horseID:       p.HorseID,
			season:        p.Season,
			raceCourse:    orUnknown(p.RaceCourse),
			courseType:    orUnknown(p.CourseType),
			distanceGroup: orUnknown(p.DistanceGroup),
			turnCount:     math.Round(p.TurnCount*10) / 10,
			bucket:        bucket,
		}
		c := stats[key]
		if c == nil {
			c = &counter{}
			stats[key] = c
		}
		top3 := p.Placing != nil && *p.Placing > 0 && *p.Placing <= 3
		c.observe(top3)
	}

	now := updateStamp()
	prefs := make([]models.RunningStylePref, 0, len(stats))
	for key, c := range stats {
		prefs = append(prefs, models.RunningStylePref{
			HorseID:       key.horseID,
			Season:        key.season,
			RaceCourse:    key.raceCourse,
			CourseType:    key.courseType,
			DistanceGroup: key.distanceGroup,
			TurnCount:     key.turnCount,
			StyleBucket:   key.bucket,
			PrefCounts:    c.counts(),
			LastUpdate:    now,
		})
	}
	sort.Slice(prefs, func(i, j int) bool {
		a, b := &prefs[i], &prefs[j]
		if a.HorseID != b.HorseID {
			return a.HorseID < b.HorseID
		}
		if a.Season != b.Season {
			return a.Season.StartYear() > b.Season.StartYear()
		}
		if a.RaceCourse != b.RaceCourse {
			return a.RaceCourse < b.RaceCourse
		}
		if a.DistanceGroup != b.DistanceGroup {
			return a.DistanceGroup < b.DistanceGroup
		}
		if a.TurnCount != b.TurnCount {
			return a.TurnCount > b.TurnCount
		}
		return classify.StyleBucketOrder(a.StyleBucket) < classify.StyleBucketOrder(b.StyleBucket)
	})
	return prefs
}

func orUnknown(s string) string {
	if s == "" {
		return classify.GroupUnknown
	}
	return s
}
