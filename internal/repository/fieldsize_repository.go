package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/horse-prefs/internal/database"
	"github.com/yourusername/horse-prefs/internal/models"
)

// fieldSizeCacheTTL bounds how long a runner count is served from memory.
// Counts only change when a result page is re-scraped, so an hour is plenty.
const fieldSizeCacheTTL = time.Hour

// PostgresFieldSizeRepository implements FieldSizeRepository for PostgreSQL
// with an in-memory cache in front. The same race is looked up once per
// runner during a batch, so the cache saves one round trip per horse.
type PostgresFieldSizeRepository struct {
	db    database.Querier
	cache *cache.Cache
}

// NewPostgresFieldSizeRepository creates a new field size repository
func NewPostgresFieldSizeRepository(db database.Querier) FieldSizeRepository {
	return &PostgresFieldSizeRepository{
		db:    db,
		cache: cache.New(fieldSizeCacheTTL, fieldSizeCacheTTL*2),
	}
}

func fieldSizeKey(raceDate, raceNumber, raceCourse string) string {
	return raceDate + "|" + raceNumber + "|" + raceCourse
}

// Upsert inserts or updates one runner count
func (r *PostgresFieldSizeRepository) Upsert(ctx context.Context, fs *models.FieldSize) error {
	query := `
		INSERT INTO race_field_size (race_date, race_number, race_course, field_size)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (race_date, race_number, race_course) DO UPDATE SET
			field_size = EXCLUDED.field_size
	`

	_, err := r.db.Exec(ctx, query, fs.RaceDate, fs.RaceNumber, fs.RaceCourse, fs.FieldSize)
	if err != nil {
		return fmt.Errorf("failed to upsert field size: %w", err)
	}

	r.cache.Set(fieldSizeKey(fs.RaceDate, fs.RaceNumber, fs.RaceCourse), *fs, cache.DefaultExpiration)
	return nil
}

// Get retrieves the runner count for one race
func (r *PostgresFieldSizeRepository) Get(ctx context.Context, raceDate, raceNumber, raceCourse string) (*models.FieldSize, error) {
	key := fieldSizeKey(raceDate, raceNumber, raceCourse)
	if cached, found := r.cache.Get(key); found {
		fs := cached.(models.FieldSize)
		return &fs, nil
	}

	query := `
		SELECT race_date, race_number, race_course, field_size
		FROM race_field_size
		WHERE race_date = $1 AND race_number = $2 AND race_course = $3
	`

	fs := &models.FieldSize{}
	err := r.db.QueryRow(ctx, query, raceDate, raceNumber, raceCourse).Scan(
		&fs.RaceDate, &fs.RaceNumber, &fs.RaceCourse, &fs.FieldSize,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query field size: %w", err)
	}

	r.cache.Set(key, *fs, cache.DefaultExpiration)
	return fs, nil
}
