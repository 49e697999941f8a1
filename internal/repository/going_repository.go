package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/horse-prefs/internal/database"
	"github.com/yourusername/horse-prefs/internal/models"
)

// PostgresGoingPrefRepository implements GoingPrefRepository for PostgreSQL
type PostgresGoingPrefRepository struct {
	db database.Querier
}

// NewPostgresGoingPrefRepository creates a new going preference repository
func NewPostgresGoingPrefRepository(db database.Querier) GoingPrefRepository {
	return &PostgresGoingPrefRepository{db: db}
}

// Upsert inserts or updates a single going preference row
func (r *PostgresGoingPrefRepository) Upsert(ctx context.Context, pref *models.GoingPref) error {
	if pref.HorseID == "" {
		return models.ErrHorseIDRequired
	}

	query := `
		INSERT INTO horse_going_pref
			(horse_id, season, going_type, top3_count, total_runs, top3_rate, last_update)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (horse_id, season, going_type) DO UPDATE SET
			top3_count = EXCLUDED.top3_count,
			total_runs = EXCLUDED.total_runs,
			top3_rate = EXCLUDED.top3_rate,
			last_update = EXCLUDED.last_update
	`

	_, err := r.db.Exec(ctx, query,
		pref.HorseID, pref.Season, pref.GoingType,
		pref.Top3Count, pref.TotalRuns, pref.Top3Rate, pref.LastUpdate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert going pref: %w", err)
	}

	return nil
}

// UpsertBatch upserts a rebuilt set of going preference rows
func (r *PostgresGoingPrefRepository) UpsertBatch(ctx context.Context, prefs []models.GoingPref) error {
	for i := range prefs {
		if err := r.Upsert(ctx, &prefs[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByHorse retrieves all going preference rows for a horse
func (r *PostgresGoingPrefRepository) GetByHorse(ctx context.Context, horseID string) ([]models.GoingPref, error) {
	query := `
		SELECT horse_id, season, going_type, top3_count, total_runs, top3_rate, last_update
		FROM horse_going_pref
		WHERE horse_id = $1
	`

	rows, err := r.db.Query(ctx, query, horseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query going prefs: %w", err)
	}
	defer rows.Close()

	var prefs []models.GoingPref
	for rows.Next() {
		var p models.GoingPref
		err := rows.Scan(
			&p.HorseID, &p.Season, &p.GoingType,
			&p.Top3Count, &p.TotalRuns, &p.Top3Rate, &p.LastUpdate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan going pref: %w", err)
		}
		prefs = append(prefs, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating going prefs: %w", err)
	}

	sortBySeasonDesc(prefs, func(p *models.GoingPref) int { return p.Season.StartYear() })
	return prefs, nil
}

// DeleteByHorse removes all going preference rows for a horse
func (r *PostgresGoingPrefRepository) DeleteByHorse(ctx context.Context, horseID string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM horse_going_pref WHERE horse_id = $1", horseID)
	if err != nil {
		return fmt.Errorf("failed to delete going prefs: %w", err)
	}
	return nil
}
