package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

// currentSchemaVersion is the version the code expects after Migrate runs.
const currentSchemaVersion = 3

// migration moves the schema from one version to the next inside a single
// transaction.
type migration struct {
	from, to    int
	description string
	run         func(ctx context.Context, tx pgx.Tx) error
}

var migrations = []migration{
	{
		from:        0,
		to:          1,
		description: "widen horse_rating primary key to include as_of_date",
		run:         widenRatingPrimaryKey,
	},
	{
		from:        1,
		to:          2,
		description: "widen horse_weight_pref primary key to include distance_group",
		run:         widenWeightPrefPrimaryKey,
	},
	{
		from:        2,
		to:          3,
		description: "store turn_count as a real number",
		run:         turnCountToReal,
	},
}

// Migrate brings the schema up to the current version. Each step runs in its
// own transaction and records the new version, so an interrupted run resumes
// where it stopped.
func (db *DB) Migrate(ctx context.Context, log *logrus.Logger) error {
	_, err := db.Exec(ctx, `CREATE TABLE IF NOT EXISTS horse_prefs_schema_version (
		version INTEGER NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create schema version table: %w", err)
	}

	version, err := db.schemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if version != m.from {
			continue
		}
		log.WithFields(logrus.Fields{
			"from": m.from,
			"to":   m.to,
		}).Infof("Applying migration: %s", m.description)

		err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
			if err := m.run(ctx, tx); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, "DELETE FROM horse_prefs_schema_version"); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, "INSERT INTO horse_prefs_schema_version (version) VALUES ($1)", m.to)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %d -> %d failed: %w", m.from, m.to, err)
		}
		version = m.to
	}

	if version != currentSchemaVersion {
		return fmt.Errorf("schema at unexpected version %d, want %d", version, currentSchemaVersion)
	}
	return nil
}

func (db *DB) schemaVersion(ctx context.Context) (int, error) {
	var version int
	err := db.QueryRow(ctx, "SELECT version FROM horse_prefs_schema_version LIMIT 1").Scan(&version)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// widenRatingPrimaryKey rebuilds horse_rating with as_of_date in the key.
// Early databases keyed ratings by (horse_id, season) and kept only the
// latest snapshot; the history table needs one row per publication date.
// Postgres cannot alter a primary key in place, so this copies into a new
// table and swaps it in.
func widenRatingPrimaryKey(ctx context.Context, tx pgx.Tx) error {
	keyCols, err := tablePrimaryKeyColumns(ctx, tx, "horse_rating")
	if err != nil {
		return err
	}
	if len(keyCols) != 2 {
		// Already widened or table created fresh by EnsureSchema.
		return nil
	}

	stmts := []string{
		`CREATE TABLE horse_rating_new (
			horse_id TEXT NOT NULL,
			season TEXT NOT NULL,
			as_of_date TEXT NOT NULL DEFAULT '',
			official_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			rating_start_season DOUBLE PRECISION NOT NULL DEFAULT 0,
			rating_start_career DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_update TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (horse_id, season, as_of_date)
		)`,
		`INSERT INTO horse_rating_new
			(horse_id, season, as_of_date, official_rating, rating_start_season, rating_start_career, last_update)
		 SELECT horse_id, season, COALESCE(as_of_date, ''), official_rating,
		        rating_start_season, rating_start_career, last_update
		 FROM horse_rating`,
		`DROP TABLE horse_rating`,
		`ALTER TABLE horse_rating_new RENAME TO horse_rating`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// widenWeightPrefPrimaryKey rebuilds horse_weight_pref with distance_group
// in the key. Rows from the old key collapse onto distance_group 'Unknown';
// the next rebuild replaces them with properly bucketed rows.
func widenWeightPrefPrimaryKey(ctx context.Context, tx pgx.Tx) error {
	keyCols, err := tablePrimaryKeyColumns(ctx, tx, "horse_weight_pref")
	if err != nil {
		return err
	}
	if len(keyCols) != 3 {
		return nil
	}

	stmts := []string{
		`CREATE TABLE horse_weight_pref_new (
			horse_id TEXT NOT NULL,
			season TEXT NOT NULL,
			distance_group TEXT NOT NULL DEFAULT 'Unknown',
			weight_group TEXT NOT NULL,
			carried_weight DOUBLE PRECISION NOT NULL DEFAULT 0,
			top3_count INTEGER NOT NULL DEFAULT 0,
			total_runs INTEGER NOT NULL DEFAULT 0,
			top3_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_update TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (horse_id, season, distance_group, weight_group)
		)`,
		`INSERT INTO horse_weight_pref_new
			(horse_id, season, distance_group, weight_group, carried_weight,
			 top3_count, total_runs, top3_rate, last_update)
		 SELECT horse_id, season, COALESCE(distance_group, 'Unknown'), weight_group,
		        carried_weight, top3_count, total_runs, top3_rate, last_update
		 FROM horse_weight_pref`,
		`DROP TABLE horse_weight_pref`,
		`ALTER TABLE horse_weight_pref_new RENAME TO horse_weight_pref`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// turnCountToReal converts turn_count columns from INTEGER to DOUBLE
// PRECISION. Some trips have half turns, which the integer columns silently
// truncated. Style aggregates are rebuilt from running positions on the next
// batch run, so no backfill happens here.
func turnCountToReal(ctx context.Context, tx pgx.Tx) error {
	for _, table := range []string{"horse_running_position", "horse_running_style_pref"} {
		stmt := fmt.Sprintf(
			"ALTER TABLE %s ALTER COLUMN turn_count TYPE DOUBLE PRECISION USING turn_count::double precision",
			table,
		)
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
