package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// tableSpec declares a table's create statement and the full column set the
// code expects. Columns added after a table first shipped are healed in
// place with ALTER TABLE so older databases keep working.
type tableSpec struct {
	name    string
	create  string
	columns map[string]string // column name -> SQL type for ADD COLUMN
}

var tableSpecs = []tableSpec{
	{
		name: "horse_distance_pref",
		create: `CREATE TABLE IF NOT EXISTS horse_distance_pref (
			horse_id TEXT NOT NULL,
			season TEXT NOT NULL,
			distance_group TEXT NOT NULL,
			top3_count INTEGER NOT NULL DEFAULT 0,
			total_runs INTEGER NOT NULL DEFAULT 0,
			top3_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_update TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (horse_id, season, distance_group)
		)`,
		columns: map[string]string{
			"top3_count":  "INTEGER NOT NULL DEFAULT 0",
			"total_runs":  "INTEGER NOT NULL DEFAULT 0",
			"top3_rate":   "DOUBLE PRECISION NOT NULL DEFAULT 0",
			"last_update": "TEXT NOT NULL DEFAULT ''",
		},
	},
	{
		name: "horse_course_pref",
		create: `CREATE TABLE IF NOT EXISTS horse_course_pref (
			horse_id TEXT NOT NULL,
			season TEXT NOT NULL,
			race_course TEXT NOT NULL,
			course_type TEXT NOT NULL,
			top3_count INTEGER NOT NULL DEFAULT 0,
			total_runs INTEGER NOT NULL DEFAULT 0,
			top3_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_update TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (horse_id, season, race_course, course_type)
		)`,
		columns: map[string]string{
			"top3_count":  "INTEGER NOT NULL DEFAULT 0",
			"total_runs":  "INTEGER NOT NULL DEFAULT 0",
			"top3_rate":   "DOUBLE PRECISION NOT NULL DEFAULT 0",
			"last_update": "TEXT NOT NULL DEFAULT ''",
		},
	},
	{
		name: "horse_going_pref",
		create: `CREATE TABLE IF NOT EXISTS horse_going_pref (
			horse_id TEXT NOT NULL,
			season TEXT NOT NULL,
			going_type TEXT NOT NULL,
			top3_count INTEGER NOT NULL DEFAULT 0,
			total_runs INTEGER NOT NULL DEFAULT 0,
			top3_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_update TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (horse_id, season, going_type)
		)`,
		columns: map[string]string{
			"top3_count":  "INTEGER NOT NULL DEFAULT 0",
			"total_runs":  "INTEGER NOT NULL DEFAULT 0",
			"top3_rate":   "DOUBLE PRECISION NOT NULL DEFAULT 0",
			"last_update": "TEXT NOT NULL DEFAULT ''",
		},
	},
	{
		name: "horse_draw_pref",
		create: `CREATE TABLE IF NOT EXISTS horse_draw_pref (
			horse_id TEXT NOT NULL,
			season TEXT NOT NULL,
			race_course TEXT NOT NULL,
			distance_group TEXT NOT NULL,
			draw_group TEXT NOT NULL,
			top3_count INTEGER NOT NULL DEFAULT 0,
			total_runs INTEGER NOT NULL DEFAULT 0,
			top3_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_update TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (horse_id, season, race_course, distance_group, draw_group)
		)`,
		columns: map[string]string{
			"top3_count":  "INTEGER NOT NULL DEFAULT 0",
			"total_runs":  "INTEGER NOT NULL DEFAULT 0",
			"top3_rate":   "DOUBLE PRECISION NOT NULL DEFAULT 0",
			"last_update": "TEXT NOT NULL DEFAULT ''",
		},
	},
	{
		name: "horse_weight_pref",
		create: `CREATE TABLE IF NOT EXISTS horse_weight_pref (
			horse_id TEXT NOT NULL,
			season TEXT NOT NULL,
			distance_group TEXT NOT NULL,
			weight_group TEXT NOT NULL,
			carried_weight DOUBLE PRECISION NOT NULL DEFAULT 0,
			top3_count INTEGER NOT NULL DEFAULT 0,
			total_runs INTEGER NOT NULL DEFAULT 0,
			top3_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_update TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (horse_id, season, distance_group, weight_group)
		)`,
		columns: map[string]string{
			"distance_group": "TEXT NOT NULL DEFAULT 'Unknown'",
			"carried_weight": "DOUBLE PRECISION NOT NULL DEFAULT 0",
			"top3_count":     "INTEGER NOT NULL DEFAULT 0",
			"total_runs":     "INTEGER NOT NULL DEFAULT 0",
			"top3_rate":      "DOUBLE PRECISION NOT NULL DEFAULT 0",
			"last_update":    "TEXT NOT NULL DEFAULT ''",
		},
	},
	{
		name: "horse_bwr_distance_pref",
		create: `CREATE TABLE IF NOT EXISTS horse_bwr_distance_pref (
			horse_id TEXT NOT NULL,
			season TEXT NOT NULL,
			distance INTEGER NOT NULL,
			bwr_group TEXT NOT NULL,
			top3_count INTEGER NOT NULL DEFAULT 0,
			total_runs INTEGER NOT NULL DEFAULT 0,
			top3_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_update TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (horse_id, season, distance, bwr_group)
		)`,
		columns: map[string]string{
			"top3_count":  "INTEGER NOT NULL DEFAULT 0",
			"total_runs":  "INTEGER NOT NULL DEFAULT 0",
			"top3_rate":   "DOUBLE PRECISION NOT NULL DEFAULT 0",
			"last_update": "TEXT NOT NULL DEFAULT ''",
		},
	},
	{
		name: "horse_class_jump_pref",
		create: `CREATE TABLE IF NOT EXISTS horse_class_jump_pref (
			horse_id TEXT NOT NULL,
			season TEXT NOT NULL,
			jump_type TEXT NOT NULL,
			top3_count INTEGER NOT NULL DEFAULT 0,
			total_runs INTEGER NOT NULL DEFAULT 0,
			top3_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_update TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (horse_id, season, jump_type)
		)`,
		columns: map[string]string{
			"top3_count":  "INTEGER NOT NULL DEFAULT 0",
			"total_runs":  "INTEGER NOT NULL DEFAULT 0",
			"top3_rate":   "DOUBLE PRECISION NOT NULL DEFAULT 0",
			"last_update": "TEXT NOT NULL DEFAULT ''",
		},
	},
	{
		name: "horse_hwtr_trend",
		create: `CREATE TABLE IF NOT EXISTS horse_hwtr_trend (
			horse_id TEXT NOT NULL,
			season TEXT NOT NULL,
			class TEXT NOT NULL,
			hwtr_group TEXT NOT NULL,
			top3_count INTEGER NOT NULL DEFAULT 0,
			total_runs INTEGER NOT NULL DEFAULT 0,
			top3_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_update TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (horse_id, season, class, hwtr_group)
		)`,
		columns: map[string]string{
			"top3_count":  "INTEGER NOT NULL DEFAULT 0",
			"total_runs":  "INTEGER NOT NULL DEFAULT 0",
			"top3_rate":   "DOUBLE PRECISION NOT NULL DEFAULT 0",
			"last_update": "TEXT NOT NULL DEFAULT ''",
		},
	},
	{
		name: "horse_jockey_combo",
		create: `CREATE TABLE IF NOT EXISTS horse_jockey_combo (
			horse_id TEXT NOT NULL,
			season TEXT NOT NULL,
			partner TEXT NOT NULL,
			top3_count INTEGER NOT NULL DEFAULT 0,
			total_runs INTEGER NOT NULL DEFAULT 0,
			top3_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_race_date TEXT NOT NULL DEFAULT '',
			last_update TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (horse_id, season, partner)
		)`,
		columns: map[string]string{
			"top3_count":     "INTEGER NOT NULL DEFAULT 0",
			"total_runs":     "INTEGER NOT NULL DEFAULT 0",
			"top3_rate":      "DOUBLE PRECISION NOT NULL DEFAULT 0",
			"last_race_date": "TEXT NOT NULL DEFAULT ''",
			"last_update":    "TEXT NOT NULL DEFAULT ''",
		},
	},
	{
		name: "horse_trainer_combo",
		create: `CREATE TABLE IF NOT EXISTS horse_trainer_combo (
			horse_id TEXT NOT NULL,
			season TEXT NOT NULL,
			partner TEXT NOT NULL,
			top3_count INTEGER NOT NULL DEFAULT 0,
			total_runs INTEGER NOT NULL DEFAULT 0,
			top3_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_race_date TEXT NOT NULL DEFAULT '',
			last_update TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (horse_id, season, partner)
		)`,
		columns: map[string]string{
			"top3_count":     "INTEGER NOT NULL DEFAULT 0",
			"total_runs":     "INTEGER NOT NULL DEFAULT 0",
			"top3_rate":      "DOUBLE PRECISION NOT NULL DEFAULT 0",
			"last_race_date": "TEXT NOT NULL DEFAULT ''",
			"last_update":    "TEXT NOT NULL DEFAULT ''",
		},
	},
	{
		name: "horse_jockey_trainer_combo",
		create: `CREATE TABLE IF NOT EXISTS horse_jockey_trainer_combo (
			horse_id TEXT NOT NULL,
			season TEXT NOT NULL,
			jockey TEXT NOT NULL,
			trainer TEXT NOT NULL,
			top3_count INTEGER NOT NULL DEFAULT 0,
			total_runs INTEGER NOT NULL DEFAULT 0,
			top3_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_race_date TEXT NOT NULL DEFAULT '',
			last_update TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (horse_id, season, jockey, trainer)
		)`,
		columns: map[string]string{
			"top3_count":     "INTEGER NOT NULL DEFAULT 0",
			"total_runs":     "INTEGER NOT NULL DEFAULT 0",
			"top3_rate":      "DOUBLE PRECISION NOT NULL DEFAULT 0",
			"last_race_date": "TEXT NOT NULL DEFAULT ''",
			"last_update":    "TEXT NOT NULL DEFAULT ''",
		},
	},
	{
		name: "horse_running_position",
		create: `CREATE TABLE IF NOT EXISTS horse_running_position (
			horse_id TEXT NOT NULL,
			race_id TEXT NOT NULL,
			race_date TEXT NOT NULL DEFAULT '',
			race_number TEXT NOT NULL DEFAULT '',
			season TEXT NOT NULL DEFAULT '',
			race_course TEXT NOT NULL DEFAULT '',
			course_type TEXT NOT NULL DEFAULT '',
			distance_group TEXT NOT NULL DEFAULT '',
			turn_count DOUBLE PRECISION NOT NULL DEFAULT 0,
			early_pos INTEGER,
			mid_pos DOUBLE PRECISION,
			final_pos INTEGER,
			finish_time DOUBLE PRECISION,
			placing INTEGER,
			field_size INTEGER,
			last_update TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (horse_id, race_id)
		)`,
		columns: map[string]string{
			"race_date":      "TEXT NOT NULL DEFAULT ''",
			"race_number":    "TEXT NOT NULL DEFAULT ''",
			"season":         "TEXT NOT NULL DEFAULT ''",
			"race_course":    "TEXT NOT NULL DEFAULT ''",
			"course_type":    "TEXT NOT NULL DEFAULT ''",
			"distance_group": "TEXT NOT NULL DEFAULT ''",
			"turn_count":     "DOUBLE PRECISION NOT NULL DEFAULT 0",
			"early_pos":      "INTEGER",
			"mid_pos":        "DOUBLE PRECISION",
			"final_pos":      "INTEGER",
			"finish_time":    "DOUBLE PRECISION",
			"placing":        "INTEGER",
			"field_size":     "INTEGER",
			"last_update":    "TEXT NOT NULL DEFAULT ''",
		},
	},
	{
		name: "horse_running_style_pref",
		create: `CREATE TABLE IF NOT EXISTS horse_running_style_pref (
			horse_id TEXT NOT NULL,
			season TEXT NOT NULL,
			race_course TEXT NOT NULL,
			course_type TEXT NOT NULL,
			distance_group TEXT NOT NULL,
			turn_count DOUBLE PRECISION NOT NULL DEFAULT 0,
			style_bucket TEXT NOT NULL,
			top3_count INTEGER NOT NULL DEFAULT 0,
			total_runs INTEGER NOT NULL DEFAULT 0,
			top3_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_update TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (horse_id, season, race_course, course_type, distance_group, turn_count, style_bucket)
		)`,
		columns: map[string]string{
			"top3_count":  "INTEGER NOT NULL DEFAULT 0",
			"total_runs":  "INTEGER NOT NULL DEFAULT 0",
			"top3_rate":   "DOUBLE PRECISION NOT NULL DEFAULT 0",
			"last_update": "TEXT NOT NULL DEFAULT ''",
		},
	},
	{
		name: "horse_rating",
		create: `CREATE TABLE IF NOT EXISTS horse_rating (
			horse_id TEXT NOT NULL,
			season TEXT NOT NULL,
			as_of_date TEXT NOT NULL DEFAULT '',
			official_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			rating_start_season DOUBLE PRECISION NOT NULL DEFAULT 0,
			rating_start_career DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_update TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (horse_id, season, as_of_date)
		)`,
		columns: map[string]string{
			"as_of_date":          "TEXT NOT NULL DEFAULT ''",
			"official_rating":     "DOUBLE PRECISION NOT NULL DEFAULT 0",
			"rating_start_season": "DOUBLE PRECISION NOT NULL DEFAULT 0",
			"rating_start_career": "DOUBLE PRECISION NOT NULL DEFAULT 0",
			"last_update":         "TEXT NOT NULL DEFAULT ''",
		},
	},
	{
		name: "race_field_size",
		create: `CREATE TABLE IF NOT EXISTS race_field_size (
			race_date TEXT NOT NULL,
			race_number TEXT NOT NULL,
			race_course TEXT NOT NULL,
			field_size INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (race_date, race_number, race_course)
		)`,
		columns: map[string]string{
			"field_size": "INTEGER NOT NULL DEFAULT 0",
		},
	},
}

// EnsureSchema creates any missing preference tables and adds any columns
// that newer code expects but an older database lacks. Safe to run on every
// startup.
func EnsureSchema(ctx context.Context, q Querier, log *logrus.Logger) error {
	for _, spec := range tableSpecs {
		if _, err := q.Exec(ctx, spec.create); err != nil {
			return fmt.Errorf("failed to create table %s: %w", spec.name, err)
		}

		existing, err := tableColumns(ctx, q, spec.name)
		if err != nil {
			return err
		}
		for col, sqlType := range spec.columns {
			if existing[col] {
				continue
			}
			log.WithFields(logrus.Fields{
				"table":  spec.name,
				"column": col,
			}).Info("Adding missing column")
			alter := fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s", spec.name, col, sqlType)
			if _, err := q.Exec(ctx, alter); err != nil {
				return fmt.Errorf("failed to add column %s.%s: %w", spec.name, col, err)
			}
		}
	}
	return nil
}

// tableColumns returns the set of column names currently on a table.
func tableColumns(ctx context.Context, q Querier, table string) (map[string]bool, error) {
	rows, err := q.Query(ctx,
		`SELECT column_name FROM information_schema.columns
		 WHERE table_schema = current_schema() AND table_name = $1`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect columns of %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column name: %w", err)
		}
		cols[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns of %s: %w", table, err)
	}
	return cols, nil
}

// tablePrimaryKeyColumns returns a table's primary key columns in key order.
func tablePrimaryKeyColumns(ctx context.Context, q Querier, table string) ([]string, error) {
	rows, err := q.Query(ctx,
		`SELECT kcu.column_name
		 FROM information_schema.table_constraints tc
		 JOIN information_schema.key_column_usage kcu
		   ON kcu.constraint_name = tc.constraint_name
		  AND kcu.table_schema = tc.table_schema
		 WHERE tc.table_schema = current_schema()
		   AND tc.table_name = $1
		   AND tc.constraint_type = 'PRIMARY KEY'
		 ORDER BY kcu.ordinal_position`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect primary key of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan key column: %w", err)
		}
		cols = append(cols, strings.ToLower(name))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating key columns of %s: %w", table, err)
	}
	return cols, nil
}
