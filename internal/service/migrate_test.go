package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pastebox/internal/model"
	"pastebox/internal/repository"
)

func newMigrator(env *testEnv, w WatcherControl) *Migrator {
	return NewMigrator(env.loc, w, NewReconciler(env.pastes, env.loc, nil, time.Minute), nil)
}

func TestMigrator_PartialFailure(t *testing.T) {
	env := newTestEnv(t)
	w := &fakeWatcher{}
	m := newMigrator(env, w)

	var records []*model.Paste
	for i := 0; i < 5; i++ {
		records = append(records, env.addFile(t, fmt.Sprintf("%d_f.txt", i), "x"))
	}
	locked := map[string]bool{"1_f.txt": true, "3_f.txt": true}
	m.move = func(src, dst string) error {
		if locked[filepath.Base(src)] {
			return errors.New("permission denied")
		}
		return moveFile(src, dst)
	}

	newRoot := filepath.Join(t.TempDir(), "moved")
	res, err := m.Migrate(env.ctx, env.root, newRoot)
	require.NoError(t, err)

	assert.Equal(t, 3, res.MovedCount)
	assert.Equal(t, 2, res.ErrorCount)
	assert.Len(t, res.Errors, 2)
	assert.Equal(t, 2, res.Swept, "sweep removes exactly the records whose files did not move")

	root, err := env.loc.Root(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, newRoot, root)
	assert.Equal(t, []string{"stop", "restart:" + newRoot}, w.calls)

	for _, p := range records {
		_, err := env.pastes.FindByID(env.ctx, p.ID)
		if locked[p.StoredFilename] {
			assert.ErrorIs(t, err, repository.ErrNotFound)
			assert.FileExists(t, filepath.Join(env.root, p.StoredFilename))
		} else {
			assert.NoError(t, err)
			assert.FileExists(t, filepath.Join(newRoot, p.StoredFilename))
		}
	}
}

func TestMigrator_OldRootMissing(t *testing.T) {
	env := newTestEnv(t)
	w := &fakeWatcher{}
	m := newMigrator(env, w)

	newRoot := filepath.Join(t.TempDir(), "new")
	res, err := m.Migrate(env.ctx, filepath.Join(t.TempDir(), "never-existed"), newRoot)
	require.NoError(t, err)
	assert.Zero(t, res.MovedCount)
	assert.Zero(t, res.ErrorCount)
	assert.DirExists(t, newRoot)

	root, err := env.loc.Root(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, newRoot, root)
	assert.Equal(t, []string{"restart:" + newRoot}, w.calls)
}

func TestMigrator_UnusableTargetFailsFast(t *testing.T) {
	env := newTestEnv(t)
	w := &fakeWatcher{}
	m := newMigrator(env, w)
	p := env.addFile(t, "1_a.txt", "a")

	blocker := filepath.Join(t.TempDir(), "plain-file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	for _, target := range []string{"", blocker, filepath.Join(blocker, "child")} {
		_, err := m.Migrate(env.ctx, env.root, target)
		assert.Error(t, err, "target %q", target)
	}

	root, err := env.loc.Root(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, env.root, root, "root is not committed")
	assert.Empty(t, w.calls, "watcher untouched")
	assert.FileExists(t, filepath.Join(env.root, p.StoredFilename))
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	require.NoError(t, os.WriteFile(dst, []byte("existing"), 0o644))
	assert.Error(t, moveFile(src, dst), "never overwrites")
	require.NoError(t, os.Remove(dst))

	require.NoError(t, moveFile(src, dst))
	assert.NoFileExists(t, src)
	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b))
}

func TestCopyAndRemove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o600))
	mod := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mod, mod))

	require.NoError(t, copyAndRemove(src, dst))

	assert.NoFileExists(t, src)
	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mod))
	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b))
}

func TestRootService(t *testing.T) {
	env := newTestEnv(t)
	w := &fakeWatcher{}
	svc := NewRootService(env.loc, env.settings, newMigrator(env, w))

	cur, err := svc.Current(env.ctx)
	require.NoError(t, err)
	assert.True(t, cur.IsFirstTime)
	assert.Equal(t, env.root, cur.CurrentPath)

	_, err = svc.ChangeRoot(env.ctx, "  ", true)
	assert.ErrorIs(t, err, ErrValidation)

	setupRoot := filepath.Join(t.TempDir(), "setup")
	res, err := svc.ChangeRoot(env.ctx, setupRoot, true)
	require.NoError(t, err)
	assert.Nil(t, res.Migration)
	assert.Equal(t, []string{"restart:" + setupRoot}, w.calls)

	v, ok, err := env.settings.Get(env.ctx, model.SettingSetupComplete)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	p := env.addFile(t, "1_a.txt", "a")
	nextRoot := filepath.Join(t.TempDir(), "next")
	res, err = svc.ChangeRoot(env.ctx, nextRoot, false)
	require.NoError(t, err)
	require.NotNil(t, res.Migration)
	assert.Equal(t, 1, res.Migration.MovedCount)
	assert.FileExists(t, filepath.Join(nextRoot, p.StoredFilename))

	cur, err = svc.Current(env.ctx)
	require.NoError(t, err)
	assert.False(t, cur.IsFirstTime)
	assert.Equal(t, nextRoot, cur.CurrentPath)
}
