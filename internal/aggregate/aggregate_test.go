package aggregate

import (
	"reflect"
	"testing"
	"time"

	"github.com/yourusername/horse-prefs/internal/models"
)

func record(t *testing.T, opts func(*models.RaceRecord)) models.RaceRecord {
	t.Helper()
	d := time.Date(2024, 10, 6, 0, 0, 0, 0, time.UTC)
	placing := 1
	distance := 1200
	rec := models.RaceRecord{
		Date:       &d,
		Placing:    &placing,
		Distance:   &distance,
		RaceCourse: "ST",
		CourseType: "A",
		Going:      "GOOD",
	}
	if opts != nil {
		opts(&rec)
	}
	return rec
}

func intp(n int) *int { return &n }

func datep(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestBuildDistancePrefsGroupsBySeason(t *testing.T) {
	records := []models.RaceRecord{
		record(t, nil), // 24/25, Short (1200)
		record(t, func(r *models.RaceRecord) { r.Placing = intp(5) }),
		record(t, func(r *models.RaceRecord) { r.Date = datep(2024, 3, 2) }), // 23/24
	}
	prefs := BuildDistancePrefs("K123", records)
	if len(prefs) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(prefs))
	}
	// Newest season first.
	if prefs[0].Season != "24/25" || prefs[1].Season != "23/24" {
		t.Fatalf("unexpected season order: %s, %s", prefs[0].Season, prefs[1].Season)
	}
	if prefs[0].TotalRuns != 2 || prefs[0].Top3Count != 1 {
		t.Errorf("24/25 counts: got %d/%d", prefs[0].Top3Count, prefs[0].TotalRuns)
	}
	if prefs[1].TotalRuns != 1 || prefs[1].Top3Count != 1 {
		t.Errorf("23/24 counts: got %d/%d", prefs[1].Top3Count, prefs[1].TotalRuns)
	}
	// Single-run bucket is dampened.
	if prefs[1].Top3Rate != 0.5 {
		t.Errorf("23/24 rate: expected 0.5, got %v", prefs[1].Top3Rate)
	}
}

func TestBuildDistancePrefsSkipsUnusableRecords(t *testing.T) {
	records := []models.RaceRecord{
		record(t, func(r *models.RaceRecord) { r.Placing = nil }),
		record(t, func(r *models.RaceRecord) { r.Distance = nil }),
		record(t, func(r *models.RaceRecord) { r.Date = nil }),
	}
	if prefs := BuildDistancePrefs("K123", records); len(prefs) != 0 {
		t.Fatalf("expected no rows, got %d", len(prefs))
	}
}

func TestBuildDistancePrefsIdempotent(t *testing.T) {
	records := []models.RaceRecord{
		record(t, nil),
		record(t, func(r *models.RaceRecord) { r.Placing = intp(4) }),
		record(t, func(r *models.RaceRecord) { r.Distance = intp(1650) }),
	}
	a := BuildDistancePrefs("K123", records)
	b := BuildDistancePrefs("K123", records)
	for i := range a {
		a[i].LastUpdate = ""
		b[i].LastUpdate = ""
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("rebuild produced different rows:\n%v\n%v", a, b)
	}
}

func TestBuildGoingPrefs(t *testing.T) {
	records := []models.RaceRecord{
		record(t, nil),
		record(t, func(r *models.RaceRecord) { r.Going = "YIELDING"; r.Placing = intp(6) }),
		record(t, func(r *models.RaceRecord) { r.Going = "" }),
	}
	prefs := BuildGoingPrefs("K123", records)
	if len(prefs) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(prefs))
	}
}

func TestBuildCoursePrefsCleansCourseType(t *testing.T) {
	records := []models.RaceRecord{
		record(t, func(r *models.RaceRecord) { r.CourseType = `"C+3"` }),
	}
	prefs := BuildCoursePrefs("K123", records)
	if len(prefs) != 1 {
		t.Fatalf("expected 1 row, got %d", len(prefs))
	}
	if prefs[0].CourseType != "C3" {
		t.Errorf("expected C3, got %s", prefs[0].CourseType)
	}
}

func TestBuildDrawPrefsUsesRelativeGrouping(t *testing.T) {
	records := []models.RaceRecord{
		record(t, func(r *models.RaceRecord) {
			r.DrawNumber = intp(2)
			r.FieldSize = intp(14)
		}),
		record(t, func(r *models.RaceRecord) {
			r.DrawNumber = intp(13)
			r.FieldSize = intp(14)
			r.Placing = intp(9)
		}),
	}
	prefs := BuildDrawPrefs("K123", records)
	if len(prefs) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(prefs))
	}
	groups := map[string]bool{}
	for _, p := range prefs {
		groups[p.DrawGroup] = true
	}
	if !groups["Low"] || !groups["High"] {
		t.Fatalf("expected Low and High groups, got %v", groups)
	}
}

func TestBuildWeightPrefsMeanCarriedWeight(t *testing.T) {
	records := []models.RaceRecord{
		record(t, func(r *models.RaceRecord) { r.ActualWeight = intp(120) }),
		record(t, func(r *models.RaceRecord) { r.ActualWeight = intp(122); r.Placing = intp(8) }),
		// outlier skipped
		record(t, func(r *models.RaceRecord) { r.ActualWeight = intp(180) }),
	}
	prefs := BuildWeightPrefs("K123", records)
	if len(prefs) != 1 {
		t.Fatalf("expected 1 row, got %d", len(prefs))
	}
	if prefs[0].TotalRuns != 2 {
		t.Errorf("expected 2 runs, got %d", prefs[0].TotalRuns)
	}
	if prefs[0].CarriedWeight != 121 {
		t.Errorf("expected mean 121, got %v", prefs[0].CarriedWeight)
	}
	if prefs[0].WeightGroup != "Mid" {
		t.Errorf("expected Mid, got %s", prefs[0].WeightGroup)
	}
}

func TestBuildBWRDistancePrefs(t *testing.T) {
	records := []models.RaceRecord{
		record(t, func(r *models.RaceRecord) {
			r.ActualWeight = intp(120)
			r.DeclaredWeight = intp(1100)
		}),
		// missing declared weight: skipped
		record(t, func(r *models.RaceRecord) { r.ActualWeight = intp(120) }),
	}
	prefs := BuildBWRDistancePrefs("K123", records)
	if len(prefs) != 1 {
		t.Fatalf("expected 1 row, got %d", len(prefs))
	}
	// 120/1100*10 = 1.091 -> Medium
	if prefs[0].BWRGroup != "Medium" {
		t.Errorf("expected Medium, got %s", prefs[0].BWRGroup)
	}
	if prefs[0].Distance != 1200 {
		t.Errorf("expected exact distance key 1200, got %d", prefs[0].Distance)
	}
}

func TestBuildClassJumpPrefs(t *testing.T) {
	records := []models.RaceRecord{
		// Deliberately unsorted input; builder sorts ascending.
		record(t, func(r *models.RaceRecord) { r.Date = datep(2024, 11, 3); r.ClassText = "3" }),
		record(t, func(r *models.RaceRecord) { r.Date = datep(2024, 9, 8); r.ClassText = "4" }),
		record(t, func(r *models.RaceRecord) { r.Date = datep(2024, 12, 1); r.ClassText = "3" }),
	}
	prefs := BuildClassJumpPrefs("K123", records)
	// 4->3 Up, 3->3 Same
	if len(prefs) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(prefs))
	}
	byType := map[string]models.ClassJumpPref{}
	for _, p := range prefs {
		byType[p.JumpType] = p
	}
	if byType["Up"].TotalRuns != 1 || byType["Same"].TotalRuns != 1 {
		t.Fatalf("unexpected tallies: %+v", byType)
	}
}

func TestBuildClassJumpPrefsGriffinCanonicalized(t *testing.T) {
	records := []models.RaceRecord{
		record(t, func(r *models.RaceRecord) { r.Date = datep(2024, 9, 8); r.ClassText = "4" }),
		record(t, func(r *models.RaceRecord) { r.Date = datep(2024, 10, 20); r.ClassText = "Griffin" }),
	}
	prefs := BuildClassJumpPrefs("K123", records)
	if len(prefs) != 1 {
		t.Fatalf("expected 1 row, got %d", len(prefs))
	}
	// Griffin -> 6, 6 > 4 is a move down in company.
	if prefs[0].JumpType != "Down" {
		t.Fatalf("expected Down, got %s", prefs[0].JumpType)
	}
}

func TestBuildClassJumpPrefsGroupRaceDoesNotResetState(t *testing.T) {
	records := []models.RaceRecord{
		record(t, func(r *models.RaceRecord) { r.Date = datep(2024, 9, 8); r.ClassText = "4" }),
		record(t, func(r *models.RaceRecord) { r.Date = datep(2024, 10, 1); r.ClassText = "G1" }),
		record(t, func(r *models.RaceRecord) { r.Date = datep(2024, 11, 3); r.ClassText = "3" }),
	}
	prefs := BuildClassJumpPrefs("K123", records)
	// The G1 contributes no jump; the class-3 race still compares to class 4.
	if len(prefs) != 1 {
		t.Fatalf("expected 1 row, got %d", len(prefs))
	}
	if prefs[0].JumpType != "Up" || prefs[0].TotalRuns != 1 {
		t.Fatalf("expected one Up run, got %+v", prefs[0])
	}
}

func TestBuildHWTRTrendsMinimumHistory(t *testing.T) {
	base := func(day, weight int) models.RaceRecord {
		return record(t, func(r *models.RaceRecord) {
			r.Date = datep(2024, 10, day)
			r.ActualWeight = intp(weight)
			r.ClassText = "4"
		})
	}

	// Only one prior race: nothing produced.
	prefs := BuildHWTRTrends("K123", []models.RaceRecord{base(1, 118), base(8, 120)})
	if len(prefs) != 0 {
		t.Fatalf("one prior race must produce no trend, got %d rows", len(prefs))
	}

	// Exactly two priors: the third race produces one tally.
	prefs = BuildHWTRTrends("K123", []models.RaceRecord{base(1, 118), base(8, 120), base(15, 121)})
	if len(prefs) != 1 {
		t.Fatalf("expected 1 row, got %d", len(prefs))
	}
	if prefs[0].TotalRuns != 1 {
		t.Errorf("expected 1 run, got %d", prefs[0].TotalRuns)
	}
	// 121 / mean(118,120) = 1.0168 -> 0.95-1.05
	if prefs[0].HWTRGroup != "0.95-1.05" {
		t.Errorf("expected 0.95-1.05, got %s", prefs[0].HWTRGroup)
	}
	if prefs[0].Class != "4" {
		t.Errorf("expected class 4, got %s", prefs[0].Class)
	}
}

func TestBuildHWTRTrendsLookbackCap(t *testing.T) {
	records := []models.RaceRecord{}
	for day := 1; day <= 5; day++ {
		records = append(records, record(t, func(r *models.RaceRecord) {
			r.Date = datep(2024, 10, day)
			r.ActualWeight = intp(110 + day)
			r.ClassText = "3"
		}))
	}
	// Final race carries 115; lookback mean is (114+113+112)/3 = 113, not the
	// full history mean.
	prefs := BuildHWTRTrends("K123", records)
	total := 0
	for _, p := range prefs {
		total += p.TotalRuns
	}
	// Races 3, 4, 5 have enough history.
	if total != 3 {
		t.Fatalf("expected 3 tallied races, got %d", total)
	}
}

func TestBuildJockeyCombosTracksLastRaceDate(t *testing.T) {
	records := []models.RaceRecord{
		record(t, func(r *models.RaceRecord) { r.Jockey = "Z Purton"; r.Date = datep(2024, 9, 8) }),
		record(t, func(r *models.RaceRecord) { r.Jockey = "Z Purton"; r.Date = datep(2024, 12, 1); r.Placing = intp(4) }),
	}
	prefs := BuildJockeyCombos("K123", records)
	if len(prefs) != 1 {
		t.Fatalf("expected 1 row, got %d", len(prefs))
	}
	if prefs[0].LastRaceDate != "2024-12-01" {
		t.Errorf("expected 2024-12-01, got %s", prefs[0].LastRaceDate)
	}
	if prefs[0].TotalRuns != 2 || prefs[0].Top3Count != 1 {
		t.Errorf("counts: got %d/%d", prefs[0].Top3Count, prefs[0].TotalRuns)
	}
}

func TestBuildJockeyTrainerCombos(t *testing.T) {
	records := []models.RaceRecord{
		record(t, func(r *models.RaceRecord) { r.Jockey = "Z Purton"; r.Trainer = "C S Shum" }),
		record(t, func(r *models.RaceRecord) { r.Jockey = "Z Purton"; r.Trainer = "J Size" }),
		record(t, func(r *models.RaceRecord) { r.Jockey = "Z Purton" }), // no trainer: skipped
	}
	prefs := BuildJockeyTrainerCombos("K123", records)
	if len(prefs) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(prefs))
	}
}

func TestBuildRunningStylePrefs(t *testing.T) {
	positions := []models.RunningPosition{
		{
			HorseID: "K123", Season: "24/25", RaceCourse: "ST", CourseType: "A",
			DistanceGroup: "Short", TurnCount: 1.0,
			EarlyPos: intp(1), FieldSize: intp(14), Placing: intp(2),
		},
		{
			HorseID: "K123", Season: "24/25", RaceCourse: "ST", CourseType: "A",
			DistanceGroup: "Short", TurnCount: 1.0,
			EarlyPos: intp(2), FieldSize: intp(14), Placing: intp(6),
		},
		// missing field size: skipped
		{
			HorseID: "K123", Season: "24/25", RaceCourse: "ST", CourseType: "A",
			DistanceGroup: "Short", TurnCount: 1.0,
			EarlyPos: intp(3), Placing: intp(1),
		},
	}
	prefs := BuildRunningStylePrefs(positions)
	if len(prefs) != 1 {
		t.Fatalf("expected 1 row, got %d", len(prefs))
	}
	p := prefs[0]
	if p.StyleBucket != "Leader" {
		t.Errorf("expected Leader, got %s", p.StyleBucket)
	}
	if p.TotalRuns != 2 || p.Top3Count != 1 {
		t.Errorf("counts: got %d/%d", p.Top3Count, p.TotalRuns)
	}
	if p.Top3Rate != 0.25 {
		t.Errorf("expected dampened 0.25, got %v", p.Top3Rate)
	}
}

func TestRunningPositionFromRecord(t *testing.T) {
	rec := record(t, func(r *models.RaceRecord) {
		r.EarlyPosition = intp(3)
		r.FieldSize = intp(12)
		r.RaceNumber = "5"
	})
	pos, ok := RunningPositionFromRecord("K123", &rec)
	if !ok {
		t.Fatal("expected a row")
	}
	if pos.RaceID != "20241006_ST_05" {
		t.Errorf("unexpected race ID: %s", pos.RaceID)
	}
	if pos.DistanceGroup != "Short" {
		t.Errorf("expected Short, got %s", pos.DistanceGroup)
	}
	if pos.TurnCount != 1.0 {
		t.Errorf("expected 1 turn, got %v", pos.TurnCount)
	}
	if pos.Season != "24/25" {
		t.Errorf("expected 24/25, got %s", pos.Season)
	}
}
