// Package service orchestrates the per-horse aggregate-and-persist cycle:
// fetch raw history rows, normalize them into typed records, rebuild every
// preference dimension and upsert the results.
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/horse-prefs/internal/aggregate"
	"github.com/yourusername/horse-prefs/internal/datasource"
	"github.com/yourusername/horse-prefs/internal/logger"
	"github.com/yourusername/horse-prefs/internal/metrics"
	"github.com/yourusername/horse-prefs/internal/models"
	"github.com/yourusername/horse-prefs/internal/normalize"
	"github.com/yourusername/horse-prefs/internal/repository"
)

// Engine rebuilds preference tables horse by horse. Horses are processed
// sequentially; a failure on one horse never corrupts another horse's rows.
type Engine struct {
	sources         []datasource.RaceHistorySource
	repos           *repository.Repositories
	log             *logrus.Logger
	batchLog        *logger.BatchLogger
	continueOnError bool
	purge           bool
}

// HorseResult reports the outcome of one per-horse rebuild.
type HorseResult struct {
	HorseID        string
	RecordsRead    int
	RecordsSkipped int
	RowsWritten    int
}

// BatchReport reports the outcome of a full rebuild batch.
type BatchReport struct {
	BatchID        string
	HorsesTotal    int
	HorsesRebuilt  int
	HorsesFailed   int
	RecordsRead    int
	RecordsSkipped int
	RowsWritten    int
	Duration       time.Duration
}

// NewEngine creates a rebuild engine over the given sources and repositories.
func NewEngine(sources []datasource.RaceHistorySource, repos *repository.Repositories, log *logrus.Logger, continueOnError bool) (*Engine, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("at least one race history source is required")
	}
	if repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}

	return &Engine{
		sources:         sources,
		repos:           repos,
		log:             log,
		batchLog:        logger.NewBatchLogger(log),
		continueOnError: continueOnError,
	}, nil
}

// SetPurge makes each rebuild delete the horse's stored preference rows
// before writing. Upserts alone never remove rows whose grouping key no
// longer appears in the history, so a purged rebuild is the way to clear
// rows left behind by corrected source data.
func (e *Engine) SetPurge(purge bool) {
	e.purge = purge
}

// ListHorses returns the union of horse IDs across all sources, sorted.
func (e *Engine) ListHorses(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	for _, src := range e.sources {
		ids, err := src.ListHorses(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list horses from %s: %w", src.Name(), err)
		}
		for _, id := range ids {
			seen[id] = true
		}
	}

	horses := make([]string, 0, len(seen))
	for id := range seen {
		horses = append(horses, id)
	}
	sort.Strings(horses)
	return horses, nil
}

// RebuildAll rebuilds every horse known to the configured sources. It
// satisfies the scheduler's runner contract.
func (e *Engine) RebuildAll(ctx context.Context) error {
	horses, err := e.ListHorses(ctx)
	if err != nil {
		return err
	}
	_, err = e.RebuildHorses(ctx, horses)
	return err
}

// RebuildHorses rebuilds the given horses one at a time. Per-horse failures
// are counted and logged; they abort the batch only when the engine is
// configured to stop on error.
func (e *Engine) RebuildHorses(ctx context.Context, horseIDs []string) (*BatchReport, error) {
	report := &BatchReport{
		BatchID:     uuid.New().String(),
		HorsesTotal: len(horseIDs),
	}
	started := time.Now()

	for _, horseID := range horseIDs {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		horseStart := time.Now()
		result, err := e.RebuildHorse(ctx, report.BatchID, horseID)
		if err != nil {
			report.HorsesFailed++
			metrics.RecordHorseFailed()
			e.batchLog.LogHorseFailed(report.BatchID, horseID, err)
			if !e.continueOnError {
				report.Duration = time.Since(started)
				return report, fmt.Errorf("rebuild failed for horse %s: %w", horseID, err)
			}
			continue
		}

		report.HorsesRebuilt++
		report.RecordsRead += result.RecordsRead
		report.RecordsSkipped += result.RecordsSkipped
		report.RowsWritten += result.RowsWritten

		elapsed := time.Since(horseStart)
		metrics.RecordHorseProcessed(elapsed.Seconds())
		e.batchLog.LogHorseRebuilt(report.BatchID, horseID,
			result.RecordsRead, result.RecordsSkipped, result.RowsWritten,
			float64(elapsed.Milliseconds()))
	}

	report.Duration = time.Since(started)
	metrics.RecordBatch(report.HorsesRebuilt, report.Duration.Seconds(), float64(time.Now().Unix()))
	e.batchLog.LogBatchSummary(report.BatchID, report.HorsesRebuilt, report.HorsesFailed,
		float64(report.Duration.Milliseconds()))

	return report, nil
}

// RebuildHorse runs the full aggregate-and-persist cycle for one horse.
func (e *Engine) RebuildHorse(ctx context.Context, batchID, horseID string) (*HorseResult, error) {
	rows, err := e.fetchHistory(ctx, horseID)
	if err != nil {
		return nil, err
	}

	result := &HorseResult{HorseID: horseID}
	records := make([]models.RaceRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := normalize.RecordFromRow(row)
		if err != nil {
			result.RecordsSkipped++
			metrics.RecordSkipped("row_too_short")
			e.batchLog.LogRecordSkipped(horseID, "row_too_short")
			continue
		}
		records = append(records, rec)
		metrics.RecordProcessed()
	}
	result.RecordsRead = len(records)

	// Purge only after the fetch succeeded so a dead source cannot wipe a
	// horse's existing rows.
	if e.purge {
		if err := e.purgeHorse(ctx, horseID); err != nil {
			return nil, err
		}
	}

	if err := e.persistPrefs(ctx, horseID, records, result); err != nil {
		return nil, err
	}

	return result, nil
}

// purgeHorse deletes the horse's rows from every preference table. The
// race_field_size cache is race-keyed, not horse-keyed, so it is left alone.
func (e *Engine) purgeHorse(ctx context.Context, horseID string) error {
	deletes := []struct {
		table string
		fn    func(context.Context, string) error
	}{
		{"horse_distance_pref", e.repos.Distance.DeleteByHorse},
		{"horse_course_pref", e.repos.Course.DeleteByHorse},
		{"horse_going_pref", e.repos.Going.DeleteByHorse},
		{"horse_draw_pref", e.repos.Draw.DeleteByHorse},
		{"horse_weight_pref", e.repos.Weight.DeleteByHorse},
		{"horse_bwr_distance_pref", e.repos.BWRDistance.DeleteByHorse},
		{"horse_class_jump_pref", e.repos.ClassJump.DeleteByHorse},
		{"horse_hwtr_trend", e.repos.HWTR.DeleteByHorse},
		{"horse_jockey_combo", e.repos.JockeyCombo.DeleteByHorse},
		{"horse_trainer_combo", e.repos.TrainerCombo.DeleteByHorse},
		{"horse_jockey_trainer_combo", e.repos.JockeyTrainer.DeleteByHorse},
		{"horse_running_position", e.repos.RunningPosition.DeleteByHorse},
		{"horse_running_style_pref", e.repos.RunningStyle.DeleteByHorse},
	}

	for _, d := range deletes {
		if err := d.fn(ctx, horseID); err != nil {
			return fmt.Errorf("purge %s: %w", d.table, err)
		}
	}
	return nil
}

// fetchHistory tries each source in order until one serves the horse.
func (e *Engine) fetchHistory(ctx context.Context, horseID string) ([][]string, error) {
	var lastErr error
	for _, src := range e.sources {
		rows, err := src.FetchHistory(ctx, horseID)
		if err == nil {
			metrics.RecordSourceFetch(src.Name(), true)
			return rows, nil
		}
		metrics.RecordSourceFetch(src.Name(), false)
		lastErr = err
	}
	return nil, fmt.Errorf("no source served horse %s: %w", horseID, lastErr)
}

// persistPrefs rebuilds and upserts every preference dimension for one horse.
func (e *Engine) persistPrefs(ctx context.Context, horseID string, records []models.RaceRecord, result *HorseResult) error {
	distance := aggregate.BuildDistancePrefs(horseID, records)
	if err := e.repos.Distance.UpsertBatch(ctx, distance); err != nil {
		return fmt.Errorf("distance prefs: %w", err)
	}
	result.RowsWritten += len(distance)
	metrics.RecordUpserts("horse_distance_pref", len(distance))

	course := aggregate.BuildCoursePrefs(horseID, records)
	if err := e.repos.Course.UpsertBatch(ctx, course); err != nil {
		return fmt.Errorf("course prefs: %w", err)
	}
	result.RowsWritten += len(course)
	metrics.RecordUpserts("horse_course_pref", len(course))

	going := aggregate.BuildGoingPrefs(horseID, records)
	if err := e.repos.Going.UpsertBatch(ctx, going); err != nil {
		return fmt.Errorf("going prefs: %w", err)
	}
	result.RowsWritten += len(going)
	metrics.RecordUpserts("horse_going_pref", len(going))

	draw := aggregate.BuildDrawPrefs(horseID, records)
	if err := e.repos.Draw.UpsertBatch(ctx, draw); err != nil {
		return fmt.Errorf("draw prefs: %w", err)
	}
	result.RowsWritten += len(draw)
	metrics.RecordUpserts("horse_draw_pref", len(draw))

	weight := aggregate.BuildWeightPrefs(horseID, records)
	if err := e.repos.Weight.UpsertBatch(ctx, weight); err != nil {
		return fmt.Errorf("weight prefs: %w", err)
	}
	result.RowsWritten += len(weight)
	metrics.RecordUpserts("horse_weight_pref", len(weight))

	bwr := aggregate.BuildBWRDistancePrefs(horseID, records)
	if err := e.repos.BWRDistance.UpsertBatch(ctx, bwr); err != nil {
		return fmt.Errorf("bwr distance prefs: %w", err)
	}
	result.RowsWritten += len(bwr)
	metrics.RecordUpserts("horse_bwr_distance_pref", len(bwr))

	classJump := aggregate.BuildClassJumpPrefs(horseID, records)
	if err := e.repos.ClassJump.UpsertBatch(ctx, classJump); err != nil {
		return fmt.Errorf("class jump prefs: %w", err)
	}
	result.RowsWritten += len(classJump)
	metrics.RecordUpserts("horse_class_jump_pref", len(classJump))

	hwtr := aggregate.BuildHWTRTrends(horseID, records)
	if err := e.repos.HWTR.UpsertBatch(ctx, hwtr); err != nil {
		return fmt.Errorf("hwtr trends: %w", err)
	}
	result.RowsWritten += len(hwtr)
	metrics.RecordUpserts("horse_hwtr_trend", len(hwtr))

	jockey := aggregate.BuildJockeyCombos(horseID, records)
	if err := e.repos.JockeyCombo.UpsertBatch(ctx, jockey); err != nil {
		return fmt.Errorf("jockey combos: %w", err)
	}
	result.RowsWritten += len(jockey)
	metrics.RecordUpserts("horse_jockey_combo", len(jockey))

	trainer := aggregate.BuildTrainerCombos(horseID, records)
	if err := e.repos.TrainerCombo.UpsertBatch(ctx, trainer); err != nil {
		return fmt.Errorf("trainer combos: %w", err)
	}
	result.RowsWritten += len(trainer)
	metrics.RecordUpserts("horse_trainer_combo", len(trainer))

	jockeyTrainer := aggregate.BuildJockeyTrainerCombos(horseID, records)
	if err := e.repos.JockeyTrainer.UpsertBatch(ctx, jockeyTrainer); err != nil {
		return fmt.Errorf("jockey trainer combos: %w", err)
	}
	result.RowsWritten += len(jockeyTrainer)
	metrics.RecordUpserts("horse_jockey_trainer_combo", len(jockeyTrainer))

	if err := e.persistRunningStyle(ctx, horseID, records, result); err != nil {
		return err
	}

	return nil
}

// persistRunningStyle writes per-race running-position rows, refreshes the
// field-size cache, then rebuilds the second-stage style aggregate from the
// persisted positions so historical rows with known field sizes still count.
func (e *Engine) persistRunningStyle(ctx context.Context, horseID string, records []models.RaceRecord, result *HorseResult) error {
	positions := make([]models.RunningPosition, 0, len(records))
	for i := range records {
		pos, ok := aggregate.RunningPositionFromRecord(horseID, &records[i])
		if !ok {
			continue
		}
		positions = append(positions, pos)
	}

	if err := e.repos.RunningPosition.UpsertBatch(ctx, positions); err != nil {
		return fmt.Errorf("running positions: %w", err)
	}
	result.RowsWritten += len(positions)
	metrics.RecordUpserts("horse_running_position", len(positions))

	for i := range positions {
		pos := &positions[i]
		if pos.FieldSize == nil || *pos.FieldSize <= 0 {
			continue
		}
		fs := models.FieldSize{
			RaceDate:   pos.RaceDate,
			RaceNumber: pos.RaceNumber,
			RaceCourse: pos.RaceCourse,
			FieldSize:  *pos.FieldSize,
		}
		if err := e.repos.FieldSize.Upsert(ctx, &fs); err != nil {
			return fmt.Errorf("field size cache: %w", err)
		}
	}

	stored, err := e.repos.RunningPosition.GetByHorse(ctx, horseID)
	if err != nil {
		return fmt.Errorf("running positions readback: %w", err)
	}

	styles := aggregate.BuildRunningStylePrefs(stored)
	if err := e.repos.RunningStyle.UpsertBatch(ctx, styles); err != nil {
		return fmt.Errorf("running style prefs: %w", err)
	}
	result.RowsWritten += len(styles)
	metrics.RecordUpserts("horse_running_style_pref", len(styles))

	return nil
}
