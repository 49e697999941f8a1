package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/horse-prefs/internal/database"
	"github.com/yourusername/horse-prefs/internal/metrics"
	"github.com/yourusername/horse-prefs/internal/models"
)

// uniqueViolation is the SQLSTATE raised when a row trips a unique
// constraint.
const uniqueViolation = "23505"

// PostgresWeightPrefRepository implements WeightPrefRepository for
// PostgreSQL. Databases that predate distance_group joining the primary key
// can carry a stale unique index over (horse_id, season, weight_group);
// rows it rejects are skipped with a warning rather than failing the whole
// rebuild.
type PostgresWeightPrefRepository struct {
	db  database.Querier
	log *logrus.Logger
}

// NewPostgresWeightPrefRepository creates a new weight preference repository
func NewPostgresWeightPrefRepository(db database.Querier, log *logrus.Logger) WeightPrefRepository {
	return &PostgresWeightPrefRepository{db: db, log: log}
}

// Upsert inserts or updates a single weight preference row. Returns
// models.ErrDuplicateKey when a stale unique constraint rejects the row.
func (r *PostgresWeightPrefRepository) Upsert(ctx context.Context, pref *models.WeightPref) error {
	if pref.HorseID == "" {
		return models.ErrHorseIDRequired
	}

	query := `
		INSERT INTO horse_weight_pref
			(horse_id, season, distance_group, weight_group, carried_weight,
			 top3_count, total_runs, top3_rate, last_update)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (horse_id, season, distance_group, weight_group) DO UPDATE SET
			carried_weight = EXCLUDED.carried_weight,
			top3_count = EXCLUDED.top3_count,
			total_runs = EXCLUDED.total_runs,
			top3_rate = EXCLUDED.top3_rate,
			last_update = EXCLUDED.last_update
	`

	_, err := r.db.Exec(ctx, query,
		pref.HorseID, pref.Season, pref.DistanceGroup, pref.WeightGroup, pref.CarriedWeight,
		pref.Top3Count, pref.TotalRuns, pref.Top3Rate, pref.LastUpdate,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", models.ErrDuplicateKey, pgErr.ConstraintName)
		}
		return fmt.Errorf("failed to upsert weight pref: %w", err)
	}

	return nil
}

// UpsertBatch upserts a rebuilt set of weight preference rows, skipping rows
// a stale unique constraint rejects
func (r *PostgresWeightPrefRepository) UpsertBatch(ctx context.Context, prefs []models.WeightPref) error {
	for i := range prefs {
		err := r.Upsert(ctx, &prefs[i])
		if err == nil {
			continue
		}
		if errors.Is(err, models.ErrDuplicateKey) {
			r.log.WithFields(logrus.Fields{
				"horse_id":       prefs[i].HorseID,
				"season":         prefs[i].Season,
				"distance_group": prefs[i].DistanceGroup,
				"weight_group":   prefs[i].WeightGroup,
			}).Warn("Duplicate weight_pref record skipped")
			metrics.RecordDuplicateSkip()
			continue
		}
		return err
	}
	return nil
}

// GetByHorse retrieves all weight preference rows for a horse
func (r *PostgresWeightPrefRepository) GetByHorse(ctx context.Context, horseID string) ([]models.WeightPref, error) {
	query := `
		SELECT horse_id, season, distance_group, weight_group, carried_weight,
		       top3_count, total_runs, top3_rate, last_update
		FROM horse_weight_pref
		WHERE horse_id = $1
	`

	rows, err := r.db.Query(ctx, query, horseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query weight prefs: %w", err)
	}
	defer rows.Close()

	var prefs []models.WeightPref
	for rows.Next() {
		var p models.WeightPref
		err := rows.Scan(
			&p.HorseID, &p.Season, &p.DistanceGroup, &p.WeightGroup, &p.CarriedWeight,
			&p.Top3Count, &p.TotalRuns, &p.Top3Rate, &p.LastUpdate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan weight pref: %w", err)
		}
		prefs = append(prefs, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating weight prefs: %w", err)
	}

	sortBySeasonDesc(prefs, func(p *models.WeightPref) int { return p.Season.StartYear() })
	return prefs, nil
}

// DeleteByHorse removes all weight preference rows for a horse
func (r *PostgresWeightPrefRepository) DeleteByHorse(ctx context.Context, horseID string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM horse_weight_pref WHERE horse_id = $1", horseID)
	if err != nil {
		return fmt.Errorf("failed to delete weight prefs: %w", err)
	}
	return nil
}
