package service

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"pastebox/internal/config"
	"pastebox/internal/database"
	"pastebox/internal/database/migration"
	"pastebox/internal/model"
	"pastebox/internal/repository/sqlrepo"
	"pastebox/internal/storage"
)

type testEnv struct {
	ctx      context.Context
	root     string
	pastes   *sqlrepo.PasteSQL
	settings *sqlrepo.SettingsSQL
	loc      *storage.Locator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewSQLite(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "pastes.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migration.EnsureMigrated(ctx, db, database.DialectSQLite))

	settings := sqlrepo.NewSettingsSQL(db, database.DialectSQLite)
	root := filepath.Join(t.TempDir(), "files")
	require.NoError(t, os.MkdirAll(root, 0o755))

	return &testEnv{
		ctx:      ctx,
		root:     root,
		pastes:   sqlrepo.NewPasteSQL(db, database.DialectSQLite),
		settings: settings,
		loc:      storage.NewLocator(settings, root),
	}
}

// addFile writes a file under the current root and inserts its record.
func (e *testEnv) addFile(t *testing.T, stored, body string) *model.Paste {
	t.Helper()
	root, err := e.loc.Root(e.ctx)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, stored), []byte(body), 0o644))
	p, err := e.pastes.Create(e.ctx, &model.Paste{
		IsFile:           true,
		StoredFilename:   stored,
		OriginalFilename: stored,
		FileSize:         int64(len(body)),
	})
	require.NoError(t, err)
	return p
}

// readOnlyRoot drops write permission on dir so removals inside it fail.
func readOnlyRoot(t *testing.T, dir string) {
	t.Helper()
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for this user")
	}
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })
}

type fakeWatcher struct {
	mu    sync.Mutex
	calls []string
}

func (w *fakeWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, "stop")
	return nil
}

func (w *fakeWatcher) Restart(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, "restart:"+path)
	return nil
}
