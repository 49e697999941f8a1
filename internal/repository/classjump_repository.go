package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/horse-prefs/internal/database"
	"github.com/yourusername/horse-prefs/internal/models"
)

// PostgresClassJumpPrefRepository implements ClassJumpPrefRepository for PostgreSQL
type PostgresClassJumpPrefRepository struct {
	db database.Querier
}

// NewPostgresClassJumpPrefRepository creates a new class-movement preference repository
func NewPostgresClassJumpPrefRepository(db database.Querier) ClassJumpPrefRepository {
	return &PostgresClassJumpPrefRepository{db: db}
}

// Upsert inserts or updates a single class-movement preference row
func (r *PostgresClassJumpPrefRepository) Upsert(ctx context.Context, pref *models.ClassJumpPref) error {
	if pref.HorseID == "" {
		return models.ErrHorseIDRequired
	}

	query := `
		INSERT INTO horse_class_jump_pref
			(horse_id, season, jump_type, top3_count, total_runs, top3_rate, last_update)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (horse_id, season, jump_type) DO UPDATE SET
			top3_count = EXCLUDED.top3_count,
			total_runs = EXCLUDED.total_runs,
			top3_rate = EXCLUDED.top3_rate,
			last_update = EXCLUDED.last_update
	`

	_, err := r.db.Exec(ctx, query,
		pref.HorseID, pref.Season, pref.JumpType,
		pref.Top3Count, pref.TotalRuns, pref.Top3Rate, pref.LastUpdate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert class jump pref: %w", err)
	}

	return nil
}

// UpsertBatch upserts a rebuilt set of class-movement preference rows
func (r *PostgresClassJumpPrefRepository) UpsertBatch(ctx context.Context, prefs []models.ClassJumpPref) error {
	for i := range prefs {
		if err := r.Upsert(ctx, &prefs[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByHorse retrieves all class-movement preference rows for a horse,
// newest seasons first. Season codes wrap at the century boundary, so the
// ordering happens on the parsed start year rather than in SQL.
func (r *PostgresClassJumpPrefRepository) GetByHorse(ctx context.Context, horseID string) ([]models.ClassJumpPref, error) {
	query := `
		SELECT horse_id, season, jump_type, top3_count, total_runs, top3_rate, last_update
		FROM horse_class_jump_pref
		WHERE horse_id = $1
	`

	rows, err := r.db.Query(ctx, query, horseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query class jump prefs: %w", err)
	}
	defer rows.Close()

	var prefs []models.ClassJumpPref
	for rows.Next() {
		var p models.ClassJumpPref
		err := rows.Scan(
			&p.HorseID, &p.Season, &p.JumpType,
			&p.Top3Count, &p.TotalRuns, &p.Top3Rate, &p.LastUpdate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan class jump pref: %w", err)
		}
		prefs = append(prefs, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating class jump prefs: %w", err)
	}

	sortBySeasonDesc(prefs, func(p *models.ClassJumpPref) int { return p.Season.StartYear() })
	return prefs, nil
}

// DeleteByHorse removes all class-movement preference rows for a horse
func (r *PostgresClassJumpPrefRepository) DeleteByHorse(ctx context.Context, horseID string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM horse_class_jump_pref WHERE horse_id = $1", horseID)
	if err != nil {
		return fmt.Errorf("failed to delete class jump prefs: %w", err)
	}
	return nil
}
