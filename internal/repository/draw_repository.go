package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/horse-prefs/internal/database"
	"github.com/yourusername/horse-prefs/internal/models"
)

// PostgresDrawPrefRepository implements DrawPrefRepository for PostgreSQL
type PostgresDrawPrefRepository struct {
	db database.Querier
}

// NewPostgresDrawPrefRepository creates a new draw preference repository
func NewPostgresDrawPrefRepository(db database.Querier) DrawPrefRepository {
	return &PostgresDrawPrefRepository{db: db}
}

// Upsert inserts or updates a single draw preference row
func (r *PostgresDrawPrefRepository) Upsert(ctx context.Context, pref *models.DrawPref) error {
	if pref.HorseID == "" {
		return models.ErrHorseIDRequired
	}

	query := `
		INSERT INTO horse_draw_pref
			(horse_id, season, race_course, distance_group, draw_group,
			 top3_count, total_runs, top3_rate, last_update)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (horse_id, season, race_course, distance_group, draw_group) DO UPDATE SET
			top3_count = EXCLUDED.top3_count,
			total_runs = EXCLUDED.total_runs,
			top3_rate = EXCLUDED.top3_rate,
			last_update = EXCLUDED.last_update
	`

	_, err := r.db.Exec(ctx, query,
		pref.HorseID, pref.Season, pref.RaceCourse, pref.DistanceGroup, pref.DrawGroup,
		pref.Top3Count, pref.TotalRuns, pref.Top3Rate, pref.LastUpdate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert draw pref: %w", err)
	}

	return nil
}

// UpsertBatch upserts a rebuilt set of draw preference rows
func (r *PostgresDrawPrefRepository) UpsertBatch(ctx context.Context, prefs []models.DrawPref) error {
	for i := range prefs {
		if err := r.Upsert(ctx, &prefs[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByHorse retrieves all draw preference rows for a horse, most recently
// updated first
func (r *PostgresDrawPrefRepository) GetByHorse(ctx context.Context, horseID string) ([]models.DrawPref, error) {
	query := `
		SELECT horse_id, season, race_course, distance_group, draw_group,
		       top3_count, total_runs, top3_rate, last_update
		FROM horse_draw_pref
		WHERE horse_id = $1
		ORDER BY last_update DESC
	`

	rows, err := r.db.Query(ctx, query, horseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query draw prefs: %w", err)
	}
	defer rows.Close()

	var prefs []models.DrawPref
	for rows.Next() {
		var p models.DrawPref
		err := rows.Scan(
			&p.HorseID, &p.Season, &p.RaceCourse, &p.DistanceGroup, &p.DrawGroup,
			&p.Top3Count, &p.TotalRuns, &p.Top3Rate, &p.LastUpdate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draw pref: %w", err)
		}
		prefs = append(prefs, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating draw prefs: %w", err)
	}

	return prefs, nil
}

// DeleteByHorse removes all draw preference rows for a horse
func (r *PostgresDrawPrefRepository) DeleteByHorse(ctx context.Context, horseID string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM horse_draw_pref WHERE horse_id = $1", horseID)
	if err != nil {
		return fmt.Errorf("failed to delete draw prefs: %w", err)
	}
	return nil
}
