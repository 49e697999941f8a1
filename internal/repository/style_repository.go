package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/horse-prefs/internal/database"
	"github.com/yourusername/horse-prefs/internal/models"
)

// PostgresRunningStylePrefRepository implements RunningStylePrefRepository for PostgreSQL
type PostgresRunningStylePrefRepository struct {
	db database.Querier
}

// NewPostgresRunningStylePrefRepository creates a new running-style preference repository
func NewPostgresRunningStylePrefRepository(db database.Querier) RunningStylePrefRepository {
	return &PostgresRunningStylePrefRepository{db: db}
}

// Upsert inserts or updates a single running-style preference row
func (r *PostgresRunningStylePrefRepository) Upsert(ctx context.Context, pref *models.RunningStylePref) error {
	if pref.HorseID == "" {
		return models.ErrHorseIDRequired
	}

	query := `
		INSERT INTO horse_running_style_pref
			(horse_id, season, race_course, course_type, distance_group, turn_count,
			 style_bucket, top3_count, total_runs, top3_rate, last_update)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (horse_id, season, race_course, course_type, distance_group, turn_count, style_bucket)
		DO UPDATE SET
			top3_count = EXCLUDED.top3_count,
			total_runs = EXCLUDED.total_runs,
			top3_rate = EXCLUDED.top3_rate,
			last_update = EXCLUDED.last_update
	`

	_, err := r.db.Exec(ctx, query,
		pref.HorseID, pref.Season, pref.RaceCourse, pref.CourseType,
		pref.DistanceGroup, pref.TurnCount, pref.StyleBucket,
		pref.Top3Count, pref.TotalRuns, pref.Top3Rate, pref.LastUpdate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert running style pref: %w", err)
	}

	return nil
}

// UpsertBatch upserts a rebuilt set of running-style preference rows
func (r *PostgresRunningStylePrefRepository) UpsertBatch(ctx context.Context, prefs []models.RunningStylePref) error {
	for i := range prefs {
		if err := r.Upsert(ctx, &prefs[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByHorse retrieves all running-style preference rows for a horse
func (r *PostgresRunningStylePrefRepository) GetByHorse(ctx context.Context, horseID string) ([]models.RunningStylePref, error) {
	query := `
		SELECT horse_id, season, race_course, course_type, distance_group, turn_count,
		       style_bucket, top3_count, total_runs, top3_rate, last_update
		FROM horse_running_style_pref
		WHERE horse_id = $1
		ORDER BY race_course, course_type, distance_group, style_bucket
	`

	rows, err := r.db.Query(ctx, query, horseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query running style prefs: %w", err)
	}
	defer rows.Close()

	var prefs []models.RunningStylePref
	for rows.Next() {
		var p models.RunningStylePref
		err := rows.Scan(
			&p.HorseID, &p.Season, &p.RaceCourse, &p.CourseType,
			&p.DistanceGroup, &p.TurnCount, &p.StyleBucket,
			&p.Top3Count, &p.TotalRuns, &p.Top3Rate, &p.LastUpdate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan running style pref: %w", err)
		}
		prefs = append(prefs, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating running style prefs: %w", err)
	}

	sortBySeasonDesc(prefs, func(p *models.RunningStylePref) int { return p.Season.StartYear() })
	return prefs, nil
}

// DeleteByHorse removes all running-style preference rows for a horse
func (r *PostgresRunningStylePrefRepository) DeleteByHorse(ctx context.Context, horseID string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM horse_running_style_pref WHERE horse_id = $1", horseID)
	if err != nil {
		return fmt.Errorf("failed to delete running style prefs: %w", err)
	}
	return nil
}
