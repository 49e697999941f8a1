package database

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/horse-prefs/internal/config"
)

// Initialize creates a database connection pool, heals the schema and
// applies any pending migrations.
func Initialize(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*DB, error) {
	// Create connection pool
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, db, log); err != nil {
		db.Close()
		return nil, err
	}

	if err := db.Migrate(ctx, log); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
