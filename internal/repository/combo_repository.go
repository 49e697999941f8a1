package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/horse-prefs/internal/database"
	"github.com/yourusername/horse-prefs/internal/models"
)

// PostgresComboPrefRepository implements ComboPrefRepository over either the
// jockey or the trainer partnership table; both share a schema.
type PostgresComboPrefRepository struct {
	db    database.Querier
	table string
}

// NewPostgresJockeyComboRepository creates a repository over horse_jockey_combo
func NewPostgresJockeyComboRepository(db database.Querier) ComboPrefRepository {
	return &PostgresComboPrefRepository{db: db, table: "horse_jockey_combo"}
}

// NewPostgresTrainerComboRepository creates a repository over horse_trainer_combo
func NewPostgresTrainerComboRepository(db database.Querier) ComboPrefRepository {
	return &PostgresComboPrefRepository{db: db, table: "horse_trainer_combo"}
}

// Upsert inserts or updates a single partnership row
func (r *PostgresComboPrefRepository) Upsert(ctx context.Context, pref *models.ComboPref) error {
	if pref.HorseID == "" {
		return models.ErrHorseIDRequired
	}

	query := fmt.Sprintf(`
		INSERT INTO %s
			(horse_id, season, partner, top3_count, total_runs, top3_rate, last_race_date, last_update)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (horse_id, season, partner) DO UPDATE SET
			top3_count = EXCLUDED.top3_count,
			total_runs = EXCLUDED.total_runs,
			top3_rate = EXCLUDED.top3_rate,
			last_race_date = EXCLUDED.last_race_date,
			last_update = EXCLUDED.last_update
	`, r.table)

	_, err := r.db.Exec(ctx, query,
		pref.HorseID, pref.Season, pref.Partner,
		pref.Top3Count, pref.TotalRuns, pref.Top3Rate, pref.LastRaceDate, pref.LastUpdate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert %s row: %w", r.table, err)
	}

	return nil
}

// UpsertBatch upserts a rebuilt set of partnership rows
func (r *PostgresComboPrefRepository) UpsertBatch(ctx context.Context, prefs []models.ComboPref) error {
	for i := range prefs {
		if err := r.Upsert(ctx, &prefs[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByHorse retrieves all partnership rows for a horse
func (r *PostgresComboPrefRepository) GetByHorse(ctx context.Context, horseID string) ([]models.ComboPref, error) {
	query := fmt.Sprintf(`
		SELECT horse_id, season, partner, top3_count, total_runs, top3_rate, last_race_date, last_update
		FROM %s
		WHERE horse_id = $1
	`, r.table)

	rows, err := r.db.Query(ctx, query, horseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s rows: %w", r.table, err)
	}
	defer rows.Close()

	var prefs []models.ComboPref
	for rows.Next() {
		var p models.ComboPref
		err := rows.Scan(
			&p.HorseID, &p.Season, &p.Partner,
			&p.Top3Count, &p.TotalRuns, &p.Top3Rate, &p.LastRaceDate, &p.LastUpdate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", r.table, err)
		}
		prefs = append(prefs, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", r.table, err)
	}

	sortBySeasonDesc(prefs, func(p *models.ComboPref) int { return p.Season.StartYear() })
	return prefs, nil
}

// DeleteByHorse removes all partnership rows for a horse
func (r *PostgresComboPrefRepository) DeleteByHorse(ctx context.Context, horseID string) error {
	_, err := r.db.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE horse_id = $1", r.table), horseID)
	if err != nil {
		return fmt.Errorf("failed to delete %s rows: %w", r.table, err)
	}
	return nil
}

// PostgresJockeyTrainerPrefRepository implements JockeyTrainerPrefRepository for PostgreSQL
type PostgresJockeyTrainerPrefRepository struct {
	db database.Querier
}

// NewPostgresJockeyTrainerPrefRepository creates a new jockey and trainer pairing repository
func NewPostgresJockeyTrainerPrefRepository(db database.Querier) JockeyTrainerPrefRepository {
	return &PostgresJockeyTrainerPrefRepository{db: db}
}

// Upsert inserts or updates a single pairing row
func (r *PostgresJockeyTrainerPrefRepository) Upsert(ctx context.Context, pref *models.JockeyTrainerPref) error {
	if pref.HorseID == "" {
		return models.ErrHorseIDRequired
	}

	query := `
		INSERT INTO horse_jockey_trainer_combo
			(horse_id, season, jockey, trainer, top3_count, total_runs, top3_rate, last_race_date, last_update)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (horse_id, season, jockey, trainer) DO UPDATE SET
			top3_count = EXCLUDED.top3_count,
			total_runs = EXCLUDED.total_runs,
			top3_rate = EXCLUDED.top3_rate,
			last_race_date = EXCLUDED.last_race_date,
			last_update = EXCLUDED.last_update
	`

	_, err := r.db.Exec(ctx, query,
		pref.HorseID, pref.Season, pref.Jockey, pref.Trainer,
		pref.Top3Count, pref.TotalRuns, pref.Top3Rate, pref.LastRaceDate, pref.LastUpdate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert jockey trainer combo: %w", err)
	}

	return nil
}

// UpsertBatch upserts a rebuilt set of pairing rows
func (r *PostgresJockeyTrainerPrefRepository) UpsertBatch(ctx context.Context, prefs []models.JockeyTrainerPref) error {
	for i := range prefs {
		if err := r.Upsert(ctx, &prefs[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByHorse retrieves all pairing rows for a horse
func (r *PostgresJockeyTrainerPrefRepository) GetByHorse(ctx context.Context, horseID string) ([]models.JockeyTrainerPref, error) {
	query := `
		SELECT horse_id, season, jockey, trainer, top3_count, total_runs, top3_rate, last_race_date, last_update
		FROM horse_jockey_trainer_combo
		WHERE horse_id = $1
	`

	rows, err := r.db.Query(ctx, query, horseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query jockey trainer combos: %w", err)
	}
	defer rows.Close()

	var prefs []models.JockeyTrainerPref
	for rows.Next() {
		var p models.JockeyTrainerPref
		err := rows.Scan(
			&p.HorseID, &p.Season, &p.Jockey, &p.Trainer,
			&p.Top3Count, &p.TotalRuns, &p.Top3Rate, &p.LastRaceDate, &p.LastUpdate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan jockey trainer combo: %w", err)
		}
		prefs = append(prefs, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jockey trainer combos: %w", err)
	}

	sortBySeasonDesc(prefs, func(p *models.JockeyTrainerPref) int { return p.Season.StartYear() })
	return prefs, nil
}

// DeleteByHorse removes all pairing rows for a horse
func (r *PostgresJockeyTrainerPrefRepository) DeleteByHorse(ctx context.Context, horseID string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM horse_jockey_trainer_combo WHERE horse_id = $1", horseID)
	if err != nil {
		return fmt.Errorf("failed to delete jockey trainer combos: %w", err)
	}
	return nil
}
