package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/horse-prefs/internal/database"
	"github.com/yourusername/horse-prefs/internal/models"
)

// PostgresDistancePrefRepository implements DistancePrefRepository for PostgreSQL
type PostgresDistancePrefRepository struct {
	db database.Querier
}

// NewPostgresDistancePrefRepository creates a new distance preference repository
func NewPostgresDistancePrefRepository(db database.Querier) DistancePrefRepository {
	return &PostgresDistancePrefRepository{db: db}
}

// Upsert inserts or updates a single distance preference row
func (r *PostgresDistancePrefRepository) Upsert(ctx context.Context, pref *models.DistancePref) error {
	if pref.HorseID == "" {
		return models.ErrHorseIDRequired
	}

	query := `
		INSERT INTO horse_distance_pref
			(horse_id, season, distance_group, top3_count, total_runs, top3_rate, last_update)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (horse_id, season, distance_group) DO UPDATE SET
			top3_count = EXCLUDED.top3_count,
			total_runs = EXCLUDED.total_runs,
			top3_rate = EXCLUDED.top3_rate,
			last_update = EXCLUDED.last_update
	`

	_, err := r.db.Exec(ctx, query,
		pref.HorseID, pref.Season, pref.DistanceGroup,
		pref.Top3Count, pref.TotalRuns, pref.Top3Rate, pref.LastUpdate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert distance pref: %w", err)
	}

	return nil
}

// UpsertBatch upserts a rebuilt set of distance preference rows
func (r *PostgresDistancePrefRepository) UpsertBatch(ctx context.Context, prefs []models.DistancePref) error {
	for i := range prefs {
		if err := r.Upsert(ctx, &prefs[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByHorse retrieves all distance preference rows for a horse
func (r *PostgresDistancePrefRepository) GetByHorse(ctx context.Context, horseID string) ([]models.DistancePref, error) {
	query := `
		SELECT horse_id, season, distance_group, top3_count, total_runs, top3_rate, last_update
		FROM horse_distance_pref
		WHERE horse_id = $1
	`

	rows, err := r.db.Query(ctx, query, horseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query distance prefs: %w", err)
	}
	defer rows.Close()

	var prefs []models.DistancePref
	for rows.Next() {
		var p models.DistancePref
		err := rows.Scan(
			&p.HorseID, &p.Season, &p.DistanceGroup,
			&p.Top3Count, &p.TotalRuns, &p.Top3Rate, &p.LastUpdate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan distance pref: %w", err)
		}
		prefs = append(prefs, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating distance prefs: %w", err)
	}

	sortBySeasonDesc(prefs, func(p *models.DistancePref) int { return p.Season.StartYear() })
	return prefs, nil
}

// DeleteByHorse removes all distance preference rows for a horse
func (r *PostgresDistancePrefRepository) DeleteByHorse(ctx context.Context, horseID string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM horse_distance_pref WHERE horse_id = $1", horseID)
	if err != nil {
		return fmt.Errorf("failed to delete distance prefs: %w", err)
	}
	return nil
}
