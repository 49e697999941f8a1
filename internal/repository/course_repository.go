package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/horse-prefs/internal/database"
	"github.com/yourusername/horse-prefs/internal/models"
)

// PostgresCoursePrefRepository implements CoursePrefRepository for PostgreSQL
type PostgresCoursePrefRepository struct {
	db database.Querier
}

// NewPostgresCoursePrefRepository creates a new course preference repository
func NewPostgresCoursePrefRepository(db database.Querier) CoursePrefRepository {
	return &PostgresCoursePrefRepository{db: db}
}

// Upsert inserts or updates a single course preference row
func (r *PostgresCoursePrefRepository) Upsert(ctx context.Context, pref *models.CoursePref) error {
	if pref.HorseID == "" {
		return models.ErrHorseIDRequired
	}

	query := `
		INSERT INTO horse_course_pref
			(horse_id, season, race_course, course_type, top3_count, total_runs, top3_rate, last_update)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (horse_id, season, race_course, course_type) DO UPDATE SET
			top3_count = EXCLUDED.top3_count,
			total_runs = EXCLUDED.total_runs,
			top3_rate = EXCLUDED.top3_rate,
			last_update = EXCLUDED.last_update
	`

	_, err := r.db.Exec(ctx, query,
		pref.HorseID, pref.Season, pref.RaceCourse, pref.CourseType,
		pref.Top3Count, pref.TotalRuns, pref.Top3Rate, pref.LastUpdate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert course pref: %w", err)
	}

	return nil
}

// UpsertBatch upserts a rebuilt set of course preference rows
func (r *PostgresCoursePrefRepository) UpsertBatch(ctx context.Context, prefs []models.CoursePref) error {
	for i := range prefs {
		if err := r.Upsert(ctx, &prefs[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByHorse retrieves all course preference rows for a horse
func (r *PostgresCoursePrefRepository) GetByHorse(ctx context.Context, horseID string) ([]models.CoursePref, error) {
	query := `
		SELECT horse_id, season, race_course, course_type, top3_count, total_runs, top3_rate, last_update
		FROM horse_course_pref
		WHERE horse_id = $1
	`

	rows, err := r.db.Query(ctx, query, horseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query course prefs: %w", err)
	}
	defer rows.Close()

	var prefs []models.CoursePref
	for rows.Next() {
		var p models.CoursePref
		err := rows.Scan(
			&p.HorseID, &p.Season, &p.RaceCourse, &p.CourseType,
			&p.Top3Count, &p.TotalRuns, &p.Top3Rate, &p.LastUpdate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course pref: %w", err)
		}
		prefs = append(prefs, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course prefs: %w", err)
	}

	sortBySeasonDesc(prefs, func(p *models.CoursePref) int { return p.Season.StartYear() })
	return prefs, nil
}

// DeleteByHorse removes all course preference rows for a horse
func (r *PostgresCoursePrefRepository) DeleteByHorse(ctx context.Context, horseID string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM horse_course_pref WHERE horse_id = $1", horseID)
	if err != nil {
		return fmt.Errorf("failed to delete course prefs: %w", err)
	}
	return nil
}
