package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/horse-prefs/internal/datasource"
	"github.com/yourusername/horse-prefs/internal/models"
	"github.com/yourusername/horse-prefs/internal/repository"
	"github.com/yourusername/horse-prefs/internal/scheduler"
	"github.com/yourusername/horse-prefs/internal/season"
)

var _ scheduler.RebuildRunner = (*Engine)(nil)

// fakeBatchRepo records upserted rows for one preference dimension.
type fakeBatchRepo[T any] struct {
	rows    []T
	deletes []string
	err     error
}

func (f *fakeBatchRepo[T]) Upsert(ctx context.Context, row *T) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, *row)
	return nil
}

func (f *fakeBatchRepo[T]) UpsertBatch(ctx context.Context, rows []T) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeBatchRepo[T]) GetByHorse(ctx context.Context, horseID string) ([]T, error) {
	return f.rows, f.err
}

func (f *fakeBatchRepo[T]) DeleteByHorse(ctx context.Context, horseID string) error {
	if f.err != nil {
		return f.err
	}
	f.deletes = append(f.deletes, horseID)
	f.rows = nil
	return nil
}

type fakeRatingRepo struct{}

func (f *fakeRatingRepo) Upsert(ctx context.Context, rating *models.Rating) error { return nil }
func (f *fakeRatingRepo) GetByHorse(ctx context.Context, horseID string) ([]models.Rating, error) {
	return nil, nil
}
func (f *fakeRatingRepo) GetLatest(ctx context.Context, horseID string) (*models.Rating, error) {
	return nil, models.ErrNotFound
}

type fakeFieldSizeRepo struct {
	rows []models.FieldSize
}

func (f *fakeFieldSizeRepo) Upsert(ctx context.Context, fs *models.FieldSize) error {
	f.rows = append(f.rows, *fs)
	return nil
}

func (f *fakeFieldSizeRepo) Get(ctx context.Context, raceDate, raceNumber, raceCourse string) (*models.FieldSize, error) {
	return nil, models.ErrNotFound
}

// fakeRepos bundles the fakes so tests can assert on individual dimensions.
type fakeRepos struct {
	distance    *fakeBatchRepo[models.DistancePref]
	course      *fakeBatchRepo[models.CoursePref]
	going       *fakeBatchRepo[models.GoingPref]
	draw        *fakeBatchRepo[models.DrawPref]
	weight      *fakeBatchRepo[models.WeightPref]
	bwr         *fakeBatchRepo[models.BWRDistancePref]
	classJump   *fakeBatchRepo[models.ClassJumpPref]
	hwtr        *fakeBatchRepo[models.HWTRTrend]
	jockey      *fakeBatchRepo[models.ComboPref]
	trainer     *fakeBatchRepo[models.ComboPref]
	jockeyTrain *fakeBatchRepo[models.JockeyTrainerPref]
	runningPos  *fakeBatchRepo[models.RunningPosition]
	style       *fakeBatchRepo[models.RunningStylePref]
	fieldSize   *fakeFieldSizeRepo
}

func newFakeRepos() (*fakeRepos, *repository.Repositories) {
	f := &fakeRepos{
		distance:    &fakeBatchRepo[models.DistancePref]{},
		course:      &fakeBatchRepo[models.CoursePref]{},
		going:       &fakeBatchRepo[models.GoingPref]{},
		draw:        &fakeBatchRepo[models.DrawPref]{},
		weight:      &fakeBatchRepo[models.WeightPref]{},
		bwr:         &fakeBatchRepo[models.BWRDistancePref]{},
		classJump:   &fakeBatchRepo[models.ClassJumpPref]{},
		hwtr:        &fakeBatchRepo[models.HWTRTrend]{},
		jockey:      &fakeBatchRepo[models.ComboPref]{},
		trainer:     &fakeBatchRepo[models.ComboPref]{},
		jockeyTrain: &fakeBatchRepo[models.JockeyTrainerPref]{},
		runningPos:  &fakeBatchRepo[models.RunningPosition]{},
		style:       &fakeBatchRepo[models.RunningStylePref]{},
		fieldSize:   &fakeFieldSizeRepo{},
	}
	repos := &repository.Repositories{
		Distance:        f.distance,
		Course:          f.course,
		Going:           f.going,
		Draw:            f.draw,
		Weight:          f.weight,
		BWRDistance:     f.bwr,
		ClassJump:       f.classJump,
		HWTR:            f.hwtr,
		JockeyCombo:     f.jockey,
		TrainerCombo:    f.trainer,
		JockeyTrainer:   f.jockeyTrain,
		RunningPosition: f.runningPos,
		RunningStyle:    f.style,
		Rating:          &fakeRatingRepo{},
		FieldSize:       f.fieldSize,
	}
	return f, repos
}

// fakeSource serves canned history rows per horse.
type fakeSource struct {
	name      string
	histories map[string][][]string
	listErr   error
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) ListHorses(ctx context.Context) ([]string, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	ids := make([]string, 0, len(s.histories))
	for id := range s.histories {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *fakeSource) FetchHistory(ctx context.Context, horseID string) ([][]string, error) {
	rows, ok := s.histories[horseID]
	if !ok {
		return nil, datasource.NewSourceError(s.name, datasource.ErrCodeNotFound, "no such horse", datasource.ErrHorseNotFound)
	}
	return rows, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// historyRow builds a full-width scraped-table row.
func historyRow(placing, date, distance, draw, actualWeight string) []string {
	return []string{
		"001", placing, date, `ST / "A" / Turf`, distance, "GOOD",
		"4", draw, "", "J Size", "K Teetan", "", "",
		actualWeight, "5 3 " + placing, "1.09.50", "1080",
	}
}

func TestRebuildHorsePersistsAllDimensions(t *testing.T) {
	f, repos := newFakeRepos()
	src := &fakeSource{
		name: "csv",
		histories: map[string][][]string{
			"K002": {
				historyRow("1", "06/10/2024", "1200", "2", "120"),
				historyRow("4", "22/09/2024", "1400", "7", "122"),
			},
		},
	}

	engine, err := NewEngine([]datasource.RaceHistorySource{src}, repos, quietLogger(), true)
	require.NoError(t, err)

	result, err := engine.RebuildHorse(context.Background(), "batch-1", "K002")
	require.NoError(t, err)

	assert.Equal(t, 2, result.RecordsRead)
	assert.Equal(t, 0, result.RecordsSkipped)
	assert.NotEmpty(t, f.distance.rows)
	assert.NotEmpty(t, f.course.rows)
	assert.NotEmpty(t, f.going.rows)
	assert.NotEmpty(t, f.weight.rows)
	assert.NotEmpty(t, f.bwr.rows)
	assert.NotEmpty(t, f.jockey.rows)
	assert.NotEmpty(t, f.trainer.rows)
	assert.NotEmpty(t, f.jockeyTrain.rows)
	assert.Len(t, f.runningPos.rows, 2)
	assert.Positive(t, result.RowsWritten)

	for _, pref := range f.distance.rows {
		assert.Equal(t, "K002", pref.HorseID)
		assert.Equal(t, season.Code("24/25"), pref.Season)
	}
}

func TestRebuildHorseSkipsShortRows(t *testing.T) {
	f, repos := newFakeRepos()
	src := &fakeSource{
		name: "csv",
		histories: map[string][][]string{
			"K002": {
				historyRow("1", "06/10/2024", "1200", "2", "120"),
				{"001", "2"}, // scraped fragment, below minimum width
			},
		},
	}

	engine, err := NewEngine([]datasource.RaceHistorySource{src}, repos, quietLogger(), true)
	require.NoError(t, err)

	result, err := engine.RebuildHorse(context.Background(), "batch-1", "K002")
	require.NoError(t, err)

	assert.Equal(t, 1, result.RecordsRead)
	assert.Equal(t, 1, result.RecordsSkipped)
	assert.Len(t, f.runningPos.rows, 1)
}

func TestRebuildHorseBuildsStyleFromStoredPositions(t *testing.T) {
	f, repos := newFakeRepos()

	// A previously persisted position with a known field size; the fresh
	// rows carry none, so only this row can reach a style bucket.
	early, placing, fieldSize := 1, 1, 14
	f.runningPos.rows = append(f.runningPos.rows, models.RunningPosition{
		HorseID:       "K002",
		RaceDate:      "2024-09-08",
		RaceID:        "20240908_ST_03",
		Season:        season.Code("24/25"),
		RaceCourse:    "ST",
		CourseType:    "Turf",
		DistanceGroup: "Short",
		TurnCount:     1.0,
		EarlyPos:      &early,
		Placing:       &placing,
		FieldSize:     &fieldSize,
	})

	src := &fakeSource{
		name: "csv",
		histories: map[string][][]string{
			"K002": {historyRow("1", "06/10/2024", "1200", "2", "120")},
		},
	}

	engine, err := NewEngine([]datasource.RaceHistorySource{src}, repos, quietLogger(), true)
	require.NoError(t, err)

	_, err = engine.RebuildHorse(context.Background(), "batch-1", "K002")
	require.NoError(t, err)

	require.Len(t, f.style.rows, 1)
	assert.Equal(t, "Leader", f.style.rows[0].StyleBucket)
	assert.Equal(t, 1, f.style.rows[0].Top3Count)
}

func TestRebuildHorsePurgesStoredRowsFirst(t *testing.T) {
	f, repos := newFakeRepos()

	// Rows from an earlier run whose grouping keys no longer appear in the
	// history; an upsert-only rebuild would leave them behind.
	f.distance.rows = append(f.distance.rows, models.DistancePref{
		HorseID:       "K001",
		Season:        season.Code("19/20"),
		DistanceGroup: "Extended",
	})
	f.runningPos.rows = append(f.runningPos.rows, models.RunningPosition{
		HorseID:  "K001",
		RaceDate: "2019-10-06",
		RaceID:   "20191006_ST_01",
		Season:   season.Code("19/20"),
	})

	src := &fakeSource{
		name: "csv",
		histories: map[string][][]string{
			"K001": {historyRow("1", "06/10/2024", "1200", "2", "120")},
		},
	}

	engine, err := NewEngine([]datasource.RaceHistorySource{src}, repos, quietLogger(), true)
	require.NoError(t, err)
	engine.SetPurge(true)

	_, err = engine.RebuildHorse(context.Background(), "batch-1", "K001")
	require.NoError(t, err)

	assert.Equal(t, []string{"K001"}, f.distance.deletes)
	assert.Equal(t, []string{"K001"}, f.weight.deletes)
	assert.Equal(t, []string{"K001"}, f.runningPos.deletes)
	assert.Equal(t, []string{"K001"}, f.style.deletes)

	require.NotEmpty(t, f.distance.rows)
	for _, pref := range f.distance.rows {
		assert.NotEqual(t, "Extended", pref.DistanceGroup)
	}
	for _, pos := range f.runningPos.rows {
		assert.Equal(t, season.Code("24/25"), pos.Season)
	}
}

func TestRebuildHorseWithoutPurgeKeepsStoredRows(t *testing.T) {
	f, repos := newFakeRepos()
	f.distance.rows = append(f.distance.rows, models.DistancePref{
		HorseID:       "K001",
		Season:        season.Code("19/20"),
		DistanceGroup: "Extended",
	})

	src := &fakeSource{
		name: "csv",
		histories: map[string][][]string{
			"K001": {historyRow("1", "06/10/2024", "1200", "2", "120")},
		},
	}

	engine, err := NewEngine([]datasource.RaceHistorySource{src}, repos, quietLogger(), true)
	require.NoError(t, err)

	_, err = engine.RebuildHorse(context.Background(), "batch-1", "K001")
	require.NoError(t, err)

	assert.Empty(t, f.distance.deletes)
	assert.Equal(t, "Extended", f.distance.rows[0].DistanceGroup)
}

func TestRebuildHorsesIsolatesFailures(t *testing.T) {
	_, repos := newFakeRepos()
	src := &fakeSource{
		name: "csv",
		histories: map[string][][]string{
			"K001": {historyRow("1", "06/10/2024", "1200", "2", "120")},
		},
	}

	engine, err := NewEngine([]datasource.RaceHistorySource{src}, repos, quietLogger(), true)
	require.NoError(t, err)

	report, err := engine.RebuildHorses(context.Background(), []string{"K001", "K999"})
	require.NoError(t, err)

	assert.Equal(t, 2, report.HorsesTotal)
	assert.Equal(t, 1, report.HorsesRebuilt)
	assert.Equal(t, 1, report.HorsesFailed)
	assert.NotEmpty(t, report.BatchID)
}

func TestRebuildHorsesStopsOnErrorWhenConfigured(t *testing.T) {
	_, repos := newFakeRepos()
	src := &fakeSource{name: "csv", histories: map[string][][]string{}}

	engine, err := NewEngine([]datasource.RaceHistorySource{src}, repos, quietLogger(), false)
	require.NoError(t, err)

	report, err := engine.RebuildHorses(context.Background(), []string{"K001", "K002"})
	require.Error(t, err)
	assert.Equal(t, 1, report.HorsesFailed)
	assert.Equal(t, 0, report.HorsesRebuilt)
}

func TestRebuildHorsesAbortsBatchOnUpsertFailure(t *testing.T) {
	f, repos := newFakeRepos()
	f.weight.err = errors.New("connection reset")
	src := &fakeSource{
		name: "csv",
		histories: map[string][][]string{
			"K001": {historyRow("1", "06/10/2024", "1200", "2", "120")},
		},
	}

	engine, err := NewEngine([]datasource.RaceHistorySource{src}, repos, quietLogger(), false)
	require.NoError(t, err)

	_, err = engine.RebuildHorses(context.Background(), []string{"K001"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weight prefs")
}

func TestListHorsesMergesSources(t *testing.T) {
	_, repos := newFakeRepos()
	src1 := &fakeSource{name: "csv", histories: map[string][][]string{"K002": nil, "K001": nil}}
	src2 := &fakeSource{name: "results_api", histories: map[string][][]string{"K002": nil, "A010": nil}}

	engine, err := NewEngine([]datasource.RaceHistorySource{src1, src2}, repos, quietLogger(), true)
	require.NoError(t, err)

	horses, err := engine.ListHorses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A010", "K001", "K002"}, horses)
}

func TestNewEngineRequiresSources(t *testing.T) {
	_, repos := newFakeRepos()
	_, err := NewEngine(nil, repos, quietLogger(), true)
	assert.Error(t, err)
}
