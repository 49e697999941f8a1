package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/horse-prefs/internal/database"
	"github.com/yourusername/horse-prefs/internal/models"
)

// PostgresRunningPositionRepository implements RunningPositionRepository for PostgreSQL
type PostgresRunningPositionRepository struct {
	db database.Querier
}

// NewPostgresRunningPositionRepository creates a new running position repository
func NewPostgresRunningPositionRepository(db database.Querier) RunningPositionRepository {
	return &PostgresRunningPositionRepository{db: db}
}

// Upsert inserts or updates one per-race running position row. A field size
// resolved on an earlier run survives a later upsert that lacks one, since
// the field-size lookup may only succeed intermittently.
func (r *PostgresRunningPositionRepository) Upsert(ctx context.Context, pos *models.RunningPosition) error {
	if pos.HorseID == "" {
		return models.ErrHorseIDRequired
	}

	query := `
		INSERT INTO horse_running_position
			(horse_id, race_id, race_date, race_number, season, race_course, course_type,
			 distance_group, turn_count, early_pos, mid_pos, final_pos, finish_time,
			 placing, field_size, last_update)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (horse_id, race_id) DO UPDATE SET
			race_date = EXCLUDED.race_date,
			race_number = EXCLUDED.race_number,
			season = EXCLUDED.season,
			race_course = EXCLUDED.race_course,
			course_type = EXCLUDED.course_type,
			distance_group = EXCLUDED.distance_group,
			turn_count = EXCLUDED.turn_count,
			early_pos = EXCLUDED.early_pos,
			mid_pos = EXCLUDED.mid_pos,
			final_pos = EXCLUDED.final_pos,
			finish_time = EXCLUDED.finish_time,
			placing = EXCLUDED.placing,
			field_size = COALESCE(EXCLUDED.field_size, horse_running_position.field_size),
			last_update = EXCLUDED.last_update
	`

	_, err := r.db.Exec(ctx, query,
		pos.HorseID, pos.RaceID, pos.RaceDate, pos.RaceNumber, pos.Season,
		pos.RaceCourse, pos.CourseType, pos.DistanceGroup, pos.TurnCount,
		pos.EarlyPos, pos.MidPos, pos.FinalPos, pos.FinishTime,
		pos.Placing, pos.FieldSize, pos.LastUpdate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert running position: %w", err)
	}

	return nil
}

// UpsertBatch upserts a set of per-race running position rows
func (r *PostgresRunningPositionRepository) UpsertBatch(ctx context.Context, positions []models.RunningPosition) error {
	for i := range positions {
		if err := r.Upsert(ctx, &positions[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByHorse retrieves all running position rows for a horse, oldest race
// first
func (r *PostgresRunningPositionRepository) GetByHorse(ctx context.Context, horseID string) ([]models.RunningPosition, error) {
	query := `
		SELECT horse_id, race_id, race_date, race_number, season, race_course, course_type,
		       distance_group, turn_count, early_pos, mid_pos, final_pos, finish_time,
		       placing, field_size, last_update
		FROM horse_running_position
		WHERE horse_id = $1
		ORDER BY race_date, race_id
	`

	rows, err := r.db.Query(ctx, query, horseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query running positions: %w", err)
	}
	defer rows.Close()

	var positions []models.RunningPosition
	for rows.Next() {
		var p models.RunningPosition
		err := rows.Scan(
			&p.HorseID, &p.RaceID, &p.RaceDate, &p.RaceNumber, &p.Season,
			&p.RaceCourse, &p.CourseType, &p.DistanceGroup, &p.TurnCount,
			&p.EarlyPos, &p.MidPos, &p.FinalPos, &p.FinishTime,
			&p.Placing, &p.FieldSize, &p.LastUpdate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan running position: %w", err)
		}
		positions = append(positions, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating running positions: %w", err)
	}

	return positions, nil
}

// DeleteByHorse removes all running position rows for a horse
func (r *PostgresRunningPositionRepository) DeleteByHorse(ctx context.Context, horseID string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM horse_running_position WHERE horse_id = $1", horseID)
	if err != nil {
		return fmt.Errorf("failed to delete running positions: %w", err)
	}
	return nil
}
