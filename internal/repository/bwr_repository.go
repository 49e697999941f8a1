package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/horse-prefs/internal/database"
	"github.com/yourusername/horse-prefs/internal/models"
)

// PostgresBWRDistancePrefRepository implements BWRDistancePrefRepository for PostgreSQL
type PostgresBWRDistancePrefRepository struct {
	db database.Querier
}

// NewPostgresBWRDistancePrefRepository creates a new body-weight-ratio preference repository
func NewPostgresBWRDistancePrefRepository(db database.Querier) BWRDistancePrefRepository {
	return &PostgresBWRDistancePrefRepository{db: db}
}

// Upsert inserts or updates a single body-weight-ratio preference row
func (r *PostgresBWRDistancePrefRepository) Upsert(ctx context.Context, pref *models.BWRDistancePref) error {
	if pref.HorseID == "" {
		return models.ErrHorseIDRequired
	}

	query := `
		INSERT INTO horse_bwr_distance_pref
			(horse_id, season, distance, bwr_group, top3_count, total_runs, top3_rate, last_update)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (horse_id, season, distance, bwr_group) DO UPDATE SET
			top3_count = EXCLUDED.top3_count,
			total_runs = EXCLUDED.total_runs,
			top3_rate = EXCLUDED.top3_rate,
			last_update = EXCLUDED.last_update
	`

	_, err := r.db.Exec(ctx, query,
		pref.HorseID, pref.Season, pref.Distance, pref.BWRGroup,
		pref.Top3Count, pref.TotalRuns, pref.Top3Rate, pref.LastUpdate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert bwr distance pref: %w", err)
	}

	return nil
}

// UpsertBatch upserts a rebuilt set of body-weight-ratio preference rows
func (r *PostgresBWRDistancePrefRepository) UpsertBatch(ctx context.Context, prefs []models.BWRDistancePref) error {
	for i := range prefs {
		if err := r.Upsert(ctx, &prefs[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByHorse retrieves all body-weight-ratio preference rows for a horse
func (r *PostgresBWRDistancePrefRepository) GetByHorse(ctx context.Context, horseID string) ([]models.BWRDistancePref, error) {
	query := `
		SELECT horse_id, season, distance, bwr_group, top3_count, total_runs, top3_rate, last_update
		FROM horse_bwr_distance_pref
		WHERE horse_id = $1
		ORDER BY distance
	`

	rows, err := r.db.Query(ctx, query, horseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bwr distance prefs: %w", err)
	}
	defer rows.Close()

	var prefs []models.BWRDistancePref
	for rows.Next() {
		var p models.BWRDistancePref
		err := rows.Scan(
			&p.HorseID, &p.Season, &p.Distance, &p.BWRGroup,
			&p.Top3Count, &p.TotalRuns, &p.Top3Rate, &p.LastUpdate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bwr distance pref: %w", err)
		}
		prefs = append(prefs, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bwr distance prefs: %w", err)
	}

	return prefs, nil
}

// DeleteByHorse removes all body-weight-ratio preference rows for a horse
func (r *PostgresBWRDistancePrefRepository) DeleteByHorse(ctx context.Context, horseID string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM horse_bwr_distance_pref WHERE horse_id = $1", horseID)
	if err != nil {
		return fmt.Errorf("failed to delete bwr distance prefs: %w", err)
	}
	return nil
}
