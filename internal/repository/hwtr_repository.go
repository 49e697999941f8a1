package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/horse-prefs/internal/database"
	"github.com/yourusername/horse-prefs/internal/models"
)

// PostgresHWTRTrendRepository implements HWTRTrendRepository for PostgreSQL
type PostgresHWTRTrendRepository struct {
	db database.Querier
}

// NewPostgresHWTRTrendRepository creates a new weight-trend repository
func NewPostgresHWTRTrendRepository(db database.Querier) HWTRTrendRepository {
	return &PostgresHWTRTrendRepository{db: db}
}

// Upsert inserts or updates a single weight-trend row
func (r *PostgresHWTRTrendRepository) Upsert(ctx context.Context, trend *models.HWTRTrend) error {
	if trend.HorseID == "" {
		return models.ErrHorseIDRequired
	}

	query := `
		INSERT INTO horse_hwtr_trend
			(horse_id, season, class, hwtr_group, top3_count, total_runs, top3_rate, last_update)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (horse_id, season, class, hwtr_group) DO UPDATE SET
			top3_count = EXCLUDED.top3_count,
			total_runs = EXCLUDED.total_runs,
			top3_rate = EXCLUDED.top3_rate,
			last_update = EXCLUDED.last_update
	`

	_, err := r.db.Exec(ctx, query,
		trend.HorseID, trend.Season, trend.Class, trend.HWTRGroup,
		trend.Top3Count, trend.TotalRuns, trend.Top3Rate, trend.LastUpdate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert hwtr trend: %w", err)
	}

	return nil
}

// UpsertBatch upserts a rebuilt set of weight-trend rows
func (r *PostgresHWTRTrendRepository) UpsertBatch(ctx context.Context, trends []models.HWTRTrend) error {
	for i := range trends {
		if err := r.Upsert(ctx, &trends[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByHorse retrieves all weight-trend rows for a horse
func (r *PostgresHWTRTrendRepository) GetByHorse(ctx context.Context, horseID string) ([]models.HWTRTrend, error) {
	query := `
		SELECT horse_id, season, class, hwtr_group, top3_count, total_runs, top3_rate, last_update
		FROM horse_hwtr_trend
		WHERE horse_id = $1
	`

	rows, err := r.db.Query(ctx, query, horseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query hwtr trends: %w", err)
	}
	defer rows.Close()

	var trends []models.HWTRTrend
	for rows.Next() {
		var t models.HWTRTrend
		err := rows.Scan(
			&t.HorseID, &t.Season, &t.Class, &t.HWTRGroup,
			&t.Top3Count, &t.TotalRuns, &t.Top3Rate, &t.LastUpdate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hwtr trend: %w", err)
		}
		trends = append(trends, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hwtr trends: %w", err)
	}

	sortBySeasonDesc(trends, func(t *models.HWTRTrend) int { return t.Season.StartYear() })
	return trends, nil
}

// DeleteByHorse removes all weight-trend rows for a horse
func (r *PostgresHWTRTrendRepository) DeleteByHorse(ctx context.Context, horseID string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM horse_hwtr_trend WHERE horse_id = $1", horseID)
	if err != nil {
		return fmt.Errorf("failed to delete hwtr trends: %w", err)
	}
	return nil
}
