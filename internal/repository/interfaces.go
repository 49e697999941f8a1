package repository

import (
	"context"

	"github.com/yourusername/horse-prefs/internal/models"
)

// DistancePrefRepository defines the interface for distance preference access
type DistancePrefRepository interface {
	Upsert(ctx context.Context, pref *models.DistancePref) error
	UpsertBatch(ctx context.Context, prefs []models.DistancePref) error
	GetByHorse(ctx context.Context, horseID string) ([]models.DistancePref, error)
	DeleteByHorse(ctx context.Context, horseID string) error
}

// CoursePrefRepository defines the interface for course preference access
type CoursePrefRepository interface {
	Upsert(ctx context.Context, pref *models.CoursePref) error
	UpsertBatch(ctx context.Context, prefs []models.CoursePref) error
	GetByHorse(ctx context.Context, horseID string) ([]models.CoursePref, error)
	DeleteByHorse(ctx context.Context, horseID string) error
}

// GoingPrefRepository defines the interface for going preference access
type GoingPrefRepository interface {
	Upsert(ctx context.Context, pref *models.GoingPref) error
	UpsertBatch(ctx context.Context, prefs []models.GoingPref) error
	GetByHorse(ctx context.Context, horseID string) ([]models.GoingPref, error)
	DeleteByHorse(ctx context.Context, horseID string) error
}

// DrawPrefRepository defines the interface for draw preference access.
// GetByHorse returns rows most recently updated first.
type DrawPrefRepository interface {
	Upsert(ctx context.Context, pref *models.DrawPref) error
	UpsertBatch(ctx context.Context, prefs []models.DrawPref) error
	GetByHorse(ctx context.Context, horseID string) ([]models.DrawPref, error)
	DeleteByHorse(ctx context.Context, horseID string) error
}

// WeightPrefRepository defines the interface for carried-weight preference
// access. Upserts skip rows rejected by a stale unique constraint from
// before distance_group joined the key.
type WeightPrefRepository interface {
	Upsert(ctx context.Context, pref *models.WeightPref) error
	UpsertBatch(ctx context.Context, prefs []models.WeightPref) error
	GetByHorse(ctx context.Context, horseID string) ([]models.WeightPref, error)
	DeleteByHorse(ctx context.Context, horseID string) error
}

// BWRDistancePrefRepository defines the interface for body-weight-ratio
// preference access
type BWRDistancePrefRepository interface {
	Upsert(ctx context.Context, pref *models.BWRDistancePref) error
	UpsertBatch(ctx context.Context, prefs []models.BWRDistancePref) error
	GetByHorse(ctx context.Context, horseID string) ([]models.BWRDistancePref, error)
	DeleteByHorse(ctx context.Context, horseID string) error
}

// ClassJumpPrefRepository defines the interface for class-movement
// preference access. GetByHorse returns newest seasons first.
type ClassJumpPrefRepository interface {
	Upsert(ctx context.Context, pref *models.ClassJumpPref) error
	UpsertBatch(ctx context.Context, prefs []models.ClassJumpPref) error
	GetByHorse(ctx context.Context, horseID string) ([]models.ClassJumpPref, error)
	DeleteByHorse(ctx context.Context, horseID string) error
}

// HWTRTrendRepository defines the interface for weight-trend access
type HWTRTrendRepository interface {
	Upsert(ctx context.Context, trend *models.HWTRTrend) error
	UpsertBatch(ctx context.Context, trends []models.HWTRTrend) error
	GetByHorse(ctx context.Context, horseID string) ([]models.HWTRTrend, error)
	DeleteByHorse(ctx context.Context, horseID string) error
}

// ComboPrefRepository defines the interface for jockey or trainer
// partnership access. One implementation exists per table.
type ComboPrefRepository interface {
	Upsert(ctx context.Context, pref *models.ComboPref) error
	UpsertBatch(ctx context.Context, prefs []models.ComboPref) error
	GetByHorse(ctx context.Context, horseID string) ([]models.ComboPref, error)
	DeleteByHorse(ctx context.Context, horseID string) error
}

// JockeyTrainerPrefRepository defines the interface for jockey and trainer
// pairing access
type JockeyTrainerPrefRepository interface {
	Upsert(ctx context.Context, pref *models.JockeyTrainerPref) error
	UpsertBatch(ctx context.Context, prefs []models.JockeyTrainerPref) error
	GetByHorse(ctx context.Context, horseID string) ([]models.JockeyTrainerPref, error)
	DeleteByHorse(ctx context.Context, horseID string) error
}

// RunningPositionRepository defines the interface for per-race running
// position access. Upserts never overwrite a known field size with NULL.
type RunningPositionRepository interface {
	Upsert(ctx context.Context, pos *models.RunningPosition) error
	UpsertBatch(ctx context.Context, positions []models.RunningPosition) error
	GetByHorse(ctx context.Context, horseID string) ([]models.RunningPosition, error)
	DeleteByHorse(ctx context.Context, horseID string) error
}

// RunningStylePrefRepository defines the interface for running-style
// preference access
type RunningStylePrefRepository interface {
	Upsert(ctx context.Context, pref *models.RunningStylePref) error
	UpsertBatch(ctx context.Context, prefs []models.RunningStylePref) error
	GetByHorse(ctx context.Context, horseID string) ([]models.RunningStylePref, error)
	DeleteByHorse(ctx context.Context, horseID string) error
}

// RatingRepository defines the interface for official rating history access
type RatingRepository interface {
	Upsert(ctx context.Context, rating *models.Rating) error
	GetByHorse(ctx context.Context, horseID string) ([]models.Rating, error)
	GetLatest(ctx context.Context, horseID string) (*models.Rating, error)
}

// FieldSizeRepository defines the interface for the race runner-count cache.
// The rebuild engine only writes this table; Get exists for the external
// ingestion driver, which looks up runner counts while scraping race cards.
type FieldSizeRepository interface {
	Upsert(ctx context.Context, fs *models.FieldSize) error
	Get(ctx context.Context, raceDate, raceNumber, raceCourse string) (*models.FieldSize, error)
}
