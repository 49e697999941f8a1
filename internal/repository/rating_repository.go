package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/horse-prefs/internal/database"
	"github.com/yourusername/horse-prefs/internal/models"
)

// PostgresRatingRepository implements RatingRepository for PostgreSQL
type PostgresRatingRepository struct {
	db database.Querier
}

// NewPostgresRatingRepository creates a new official rating repository
func NewPostgresRatingRepository(db database.Querier) RatingRepository {
	return &PostgresRatingRepository{db: db}
}

// Upsert inserts or updates one rating snapshot
func (r *PostgresRatingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	if rating.HorseID == "" {
		return models.ErrHorseIDRequired
	}

	query := `
		INSERT INTO horse_rating
			(horse_id, season, as_of_date, official_rating, rating_start_season,
			 rating_start_career, last_update)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (horse_id, season, as_of_date) DO UPDATE SET
			official_rating = EXCLUDED.official_rating,
			rating_start_season = EXCLUDED.rating_start_season,
			rating_start_career = EXCLUDED.rating_start_career,
			last_update = EXCLUDED.last_update
	`

	_, err := r.db.Exec(ctx, query,
		rating.HorseID, rating.Season, rating.AsOfDate, rating.OfficialRating,
		rating.RatingStartSeason, rating.RatingStartCareer, rating.LastUpdate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}

	return nil
}

// GetByHorse retrieves the full rating history for a horse, newest first
func (r *PostgresRatingRepository) GetByHorse(ctx context.Context, horseID string) ([]models.Rating, error) {
	query := `
		SELECT horse_id, season, as_of_date, official_rating, rating_start_season,
		       rating_start_career, last_update
		FROM horse_rating
		WHERE horse_id = $1
		ORDER BY as_of_date DESC
	`

	rows, err := r.db.Query(ctx, query, horseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []models.Rating
	for rows.Next() {
		var rt models.Rating
		err := rows.Scan(
			&rt.HorseID, &rt.Season, &rt.AsOfDate, &rt.OfficialRating,
			&rt.RatingStartSeason, &rt.RatingStartCareer, &rt.LastUpdate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rt)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}

	return ratings, nil
}

// GetLatest retrieves the most recent rating snapshot for a horse
func (r *PostgresRatingRepository) GetLatest(ctx context.Context, horseID string) (*models.Rating, error) {
	query := `
		SELECT horse_id, season, as_of_date, official_rating, rating_start_season,
		       rating_start_career, last_update
		FROM horse_rating
		WHERE horse_id = $1
		ORDER BY as_of_date DESC
		LIMIT 1
	`

	rating := &models.Rating{}
	err := r.db.QueryRow(ctx, query, horseID).Scan(
		&rating.HorseID, &rating.Season, &rating.AsOfDate, &rating.OfficialRating,
		&rating.RatingStartSeason, &rating.RatingStartCareer, &rating.LastUpdate,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query latest rating: %w", err)
	}

	return rating, nil
}
