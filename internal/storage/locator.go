package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pastebox/internal/model"
	"pastebox/internal/repository"
)

// ErrNotFile is returned by PathFor for records that have no backing file.
var ErrNotFile = errors.New("record is not file-backed")

// Locator owns the current storage root. The root lives in the settings table
// and is read on every call, so a concurrent migration is visible immediately.
type Locator struct {
	settings    repository.SettingsRepository
	defaultRoot string
}

func NewLocator(settings repository.SettingsRepository, defaultRoot string) *Locator {
	return &Locator{settings: settings, defaultRoot: defaultRoot}
}

// Root returns the storage root in effect now.
func (l *Locator) Root(ctx context.Context) (string, error) {
	v, ok, err := l.settings.Get(ctx, model.SettingUploadFolder)
	if err != nil {
		return "", fmt.Errorf("resolve storage root: %w", err)
	}
	if !ok || v == "" {
		return l.defaultRoot, nil
	}
	return v, nil
}

// SetRoot commits a new storage root.
func (l *Locator) SetRoot(ctx context.Context, path string) error {
	return l.settings.Set(ctx, model.SettingUploadFolder, path)
}

// EnsureRoot persists the default root when none is stored yet and makes
// sure the directory exists. It returns the root in effect.
func (l *Locator) EnsureRoot(ctx context.Context) (string, error) {
	v, ok, err := l.settings.Get(ctx, model.SettingUploadFolder)
	if err != nil {
		return "", fmt.Errorf("resolve storage root: %w", err)
	}
	root := v
	if !ok || v == "" {
		if root, err = filepath.Abs(l.defaultRoot); err != nil {
			return "", err
		}
		if err := l.SetRoot(ctx, root); err != nil {
			return "", fmt.Errorf("persist default root: %w", err)
		}
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("create storage root: %w", err)
	}
	return root, nil
}

// PathFor joins the current root and the record's stored name.
func (l *Locator) PathFor(ctx context.Context, p *model.Paste) (string, error) {
	if !p.IsFile || p.StoredFilename == "" {
		return "", ErrNotFile
	}
	root, err := l.Root(ctx)
	if err != nil {
		return "", err
	}
	return Join(root, p.StoredFilename)
}

// Join places name directly under root. Names that would leave root are rejected.
func Join(root, name string) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid stored name %q", name)
	}
	return filepath.Join(root, name), nil
}
