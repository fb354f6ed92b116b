package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"pastebox/internal/database"
)

type migrationStep struct {
	Name string
	SQL  string
	// AddsColumn names a pastes column the step creates; the step is skipped
	// when the column is already present (databases created by older builds).
	AddsColumn string
}

var sqliteSteps = []migrationStep{
	{
		Name: "create_table_pastes",
		SQL: `CREATE TABLE IF NOT EXISTS pastes (
  id                INTEGER PRIMARY KEY AUTOINCREMENT,
  content           TEXT,
  stored_filename   TEXT,
  original_filename TEXT,
  is_file           INTEGER NOT NULL DEFAULT 0,
  created_at        DATETIME DEFAULT CURRENT_TIMESTAMP
);`,
	},
	{
		Name: "create_table_settings",
		SQL: `CREATE TABLE IF NOT EXISTS settings (
  key   TEXT PRIMARY KEY,
  value TEXT
);`,
	},
	{
		Name:       "add_column_file_size",
		SQL:        `ALTER TABLE pastes ADD COLUMN file_size INTEGER DEFAULT 0;`,
		AddsColumn: "file_size",
	},
	{
		Name:       "add_column_submission_id",
		SQL:        `ALTER TABLE pastes ADD COLUMN submission_id TEXT;`,
		AddsColumn: "submission_id",
	},
	{
		Name: "create_index_pastes_stored_filename",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_pastes_stored_filename ON pastes (stored_filename);`,
	},
	{
		Name: "create_index_pastes_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_pastes_created_at ON pastes (created_at);`,
	},
	{
		Name: "backfill_text_file_size",
		SQL: `UPDATE pastes SET file_size = LENGTH(CAST(content AS BLOB))
WHERE is_file = 0 AND COALESCE(file_size, 0) = 0 AND content IS NOT NULL;`,
	},
}

var postgresSteps = []migrationStep{
	{
		Name: "create_table_pastes",
		SQL: `CREATE TABLE IF NOT EXISTS pastes (
  id                BIGSERIAL   PRIMARY KEY,
  content           TEXT,
  stored_filename   TEXT,
  original_filename TEXT,
  is_file           BOOLEAN     NOT NULL DEFAULT FALSE,
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_settings",
		SQL: `CREATE TABLE IF NOT EXISTS settings (
  key   TEXT PRIMARY KEY,
  value TEXT
);`,
	},
	{
		Name:       "add_column_file_size",
		SQL:        `ALTER TABLE pastes ADD COLUMN IF NOT EXISTS file_size BIGINT NOT NULL DEFAULT 0 CHECK (file_size >= 0);`,
		AddsColumn: "file_size",
	},
	{
		Name:       "add_column_submission_id",
		SQL:        `ALTER TABLE pastes ADD COLUMN IF NOT EXISTS submission_id TEXT;`,
		AddsColumn: "submission_id",
	},
	{
		Name: "create_index_pastes_stored_filename",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_pastes_stored_filename ON pastes (stored_filename);`,
	},
	{
		Name: "create_index_pastes_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_pastes_created_at ON pastes (created_at);`,
	},
	{
		Name: "backfill_text_file_size",
		SQL: `UPDATE pastes SET file_size = octet_length(content)
WHERE is_file = FALSE AND file_size = 0 AND content IS NOT NULL;`,
	},
}

func stepsFor(d database.Dialect) []migrationStep {
	if d == database.DialectPostgres {
		return postgresSteps
	}
	return sqliteSteps
}

// EnsureMigrated brings the schema up to date. Every step is idempotent, so it
// runs on each start and also upgrades databases created by older builds.
func EnsureMigrated(ctx context.Context, db *sql.DB, d database.Dialect) error {
	start := time.Now()
	logger := log.With().Str("component", "database").Str("dialect", string(d)).Logger()

	logger.Info().Str("event", "db_migration_start").Msg("applying schema")

	for _, step := range stepsFor(d) {
		stepStart := time.Now()

		if step.AddsColumn != "" {
			exists, err := columnExists(ctx, db, d, "pastes", step.AddsColumn)
			if err != nil {
				logger.Error().Err(err).Str("migration_step", step.Name).Msg("db_migration_failed")
				return fmt.Errorf("migration step %s: column check: %w", step.Name, err)
			}
			if exists {
				logger.Debug().Str("migration_step", step.Name).Msg("column present, skipping")
				continue
			}
		}

		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			logger.Error().
				Err(err).
				Str("event", "db_migration_failed").
				Str("migration_step", step.Name).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Msg("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logger.Debug().
			Str("event", "db_migration_step").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Msg("migration step applied")
	}

	logger.Info().
		Str("event", "db_migration_success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("schema up to date")

	return nil
}

func columnExists(ctx context.Context, db *sql.DB, d database.Dialect, table, column string) (bool, error) {
	var q string
	switch d {
	case database.DialectPostgres:
		q = `SELECT COUNT(*) FROM information_schema.columns WHERE table_name = ? AND column_name = ?`
	default:
		q = `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`
	}

	var n int
	if err := db.QueryRowContext(ctx, d.Rebind(q), table, column).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
