package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pastebox/internal/model"
	"pastebox/internal/repository/mocks"
)

func TestLocator_Root(t *testing.T) {
	ctx := context.Background()

	t.Run("falls back to default", func(t *testing.T) {
		settings := new(mocks.MockSettingsRepository)
		settings.On("Get", ctx, model.SettingUploadFolder).Return("", false, nil)

		root, err := NewLocator(settings, "/default").Root(ctx)
		require.NoError(t, err)
		assert.Equal(t, "/default", root)
	})

	t.Run("reads fresh on every call", func(t *testing.T) {
		settings := new(mocks.MockSettingsRepository)
		settings.On("Get", ctx, model.SettingUploadFolder).Return("/a", true, nil).Once()
		settings.On("Get", ctx, model.SettingUploadFolder).Return("/b", true, nil).Once()

		l := NewLocator(settings, "/default")
		first, err := l.Root(ctx)
		require.NoError(t, err)
		second, err := l.Root(ctx)
		require.NoError(t, err)

		assert.Equal(t, "/a", first)
		assert.Equal(t, "/b", second)
		settings.AssertExpectations(t)
	})

	t.Run("store failure", func(t *testing.T) {
		settings := new(mocks.MockSettingsRepository)
		settings.On("Get", ctx, model.SettingUploadFolder).Return("", false, errors.New("db down"))

		_, err := NewLocator(settings, "/default").Root(ctx)
		assert.ErrorContains(t, err, "db down")
	})
}

func TestLocator_PathFor(t *testing.T) {
	ctx := context.Background()
	settings := new(mocks.MockSettingsRepository)
	settings.On("Get", ctx, model.SettingUploadFolder).Return("/srv/files", true, nil)
	l := NewLocator(settings, "/default")

	p, err := l.PathFor(ctx, &model.Paste{IsFile: true, StoredFilename: "1_a.txt", OriginalFilename: "a.txt"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/files", "1_a.txt"), p)

	_, err = l.PathFor(ctx, &model.Paste{Content: "text"})
	assert.ErrorIs(t, err, ErrNotFile)

	_, err = l.PathFor(ctx, &model.Paste{IsFile: true, StoredFilename: "../escape", OriginalFilename: "x"})
	assert.Error(t, err)
}

func TestLocator_SetRoot(t *testing.T) {
	ctx := context.Background()
	settings := new(mocks.MockSettingsRepository)
	settings.On("Set", ctx, model.SettingUploadFolder, "/new").Return(nil)

	require.NoError(t, NewLocator(settings, "/default").SetRoot(ctx, "/new"))
	settings.AssertCalled(t, "Set", mock.Anything, model.SettingUploadFolder, "/new")
}

func TestAccessProbes(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, Writable(dir))
	assert.True(t, Readable(dir))

	missing := filepath.Join(dir, "missing")
	assert.False(t, Writable(missing))
	assert.False(t, Readable(missing))
}

func TestLocator_EnsureRoot(t *testing.T) {
	ctx := context.Background()

	t.Run("persists default", func(t *testing.T) {
		def := filepath.Join(t.TempDir(), "files")
		settings := new(mocks.MockSettingsRepository)
		settings.On("Get", ctx, model.SettingUploadFolder).Return("", false, nil)
		settings.On("Set", ctx, model.SettingUploadFolder, def).Return(nil)

		root, err := NewLocator(settings, def).EnsureRoot(ctx)
		require.NoError(t, err)
		assert.Equal(t, def, root)
		assert.DirExists(t, def)
		settings.AssertExpectations(t)
	})

	t.Run("keeps stored root", func(t *testing.T) {
		stored := filepath.Join(t.TempDir(), "stored")
		settings := new(mocks.MockSettingsRepository)
		settings.On("Get", ctx, model.SettingUploadFolder).Return(stored, true, nil)

		root, err := NewLocator(settings, "/default").EnsureRoot(ctx)
		require.NoError(t, err)
		assert.Equal(t, stored, root)
		assert.DirExists(t, stored)
		settings.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})
}
