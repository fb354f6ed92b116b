package migration

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"pastebox/internal/database"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "pastes.db")+"?_time_format=sqlite")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func columns(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query(`SELECT name FROM pragma_table_info('pastes')`)
	require.NoError(t, err)
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		out = append(out, name)
	}
	require.NoError(t, rows.Err())
	return out
}

func TestEnsureMigrated_FreshDatabase(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	require.NoError(t, EnsureMigrated(ctx, db, database.DialectSQLite))

	assert.ElementsMatch(t,
		[]string{"id", "content", "stored_filename", "original_filename", "is_file", "created_at", "file_size", "submission_id"},
		columns(t, db),
	)

	_, err := db.Exec(`INSERT INTO settings (key, value) VALUES ('upload_folder', '/tmp')`)
	assert.NoError(t, err)
}

func TestEnsureMigrated_Idempotent(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	require.NoError(t, EnsureMigrated(ctx, db, database.DialectSQLite))
	require.NoError(t, EnsureMigrated(ctx, db, database.DialectSQLite))
}

func TestEnsureMigrated_UpgradesLegacySchema(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	// Table shape written by the first releases: no file_size, no submission_id.
	_, err := db.Exec(`CREATE TABLE pastes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  content TEXT,
  stored_filename TEXT,
  original_filename TEXT,
  is_file INTEGER,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO pastes (content, is_file) VALUES ('héllo', 0)`)
	require.NoError(t, err)

	require.NoError(t, EnsureMigrated(ctx, db, database.DialectSQLite))

	var size int64
	require.NoError(t, db.QueryRow(`SELECT file_size FROM pastes WHERE id = 1`).Scan(&size))
	assert.Equal(t, int64(6), size, "text size is backfilled as UTF-8 byte length")
}

func TestStepsFor(t *testing.T) {
	assert.Equal(t, sqliteSteps, stepsFor(database.DialectSQLite))
	assert.Equal(t, postgresSteps, stepsFor(database.DialectPostgres))
	assert.Len(t, postgresSteps, len(sqliteSteps))
}
