package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"pastebox/internal/model"
	"pastebox/internal/repository"
	"pastebox/internal/storage"
)

// RootSettings is what the settings page shows.
type RootSettings struct {
	CurrentPath string `json:"current_path"`
	IsFirstTime bool   `json:"is_first_time"`
}

// ChangeRootResult reports a storage root change.
type ChangeRootResult struct {
	Message      string           `json:"message"`
	Path         string           `json:"path"`
	Migration    *MigrationResult `json:"migration_details,omitempty"`
	CleanupCount int              `json:"cleanup_count"`
}

// RootService covers the storage root settings flow.
type RootService interface {
	Current(ctx context.Context) (*RootSettings, error)
	SetupRequired(ctx context.Context) (bool, error)

	// ChangeRoot switches the storage root. During first-run setup nothing is
	// migrated; otherwise existing files are moved from the current root.
	ChangeRoot(ctx context.Context, path string, isSetup bool) (*ChangeRootResult, error)
}

type rootService struct {
	loc      *storage.Locator
	settings repository.SettingsRepository
	migrator *Migrator
}

func NewRootService(loc *storage.Locator, settings repository.SettingsRepository, migrator *Migrator) RootService {
	return &rootService{loc: loc, settings: settings, migrator: migrator}
}

func (s *rootService) Current(ctx context.Context) (*RootSettings, error) {
	root, err := s.loc.Root(ctx)
	if err != nil {
		return nil, err
	}
	first, err := s.SetupRequired(ctx)
	if err != nil {
		return nil, err
	}
	return &RootSettings{CurrentPath: root, IsFirstTime: first}, nil
}

func (s *rootService) SetupRequired(ctx context.Context) (bool, error) {
	_, ok, err := s.settings.Get(ctx, model.SettingSetupComplete)
	if err != nil {
		return false, fmt.Errorf("read setup flag: %w", err)
	}
	return !ok, nil
}

func (s *rootService) ChangeRoot(ctx context.Context, path string, isSetup bool) (*ChangeRootResult, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, validationError("path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, validationError("invalid path %q", path)
	}

	res := &ChangeRootResult{Path: abs}
	if isSetup {
		swept, err := s.migrator.Adopt(ctx, abs)
		if err != nil {
			return nil, err
		}
		res.CleanupCount = swept
		if err := s.settings.Set(ctx, model.SettingSetupComplete, "true"); err != nil {
			return nil, fmt.Errorf("mark setup complete: %w", err)
		}
		res.Message = "Storage folder set up successfully"
		log.Info().Str("root", abs).Msg("first-run setup complete")
		return res, nil
	}

	old, err := s.loc.Root(ctx)
	if err != nil {
		return nil, err
	}
	mig, err := s.migrator.Migrate(ctx, old, abs)
	if err != nil {
		return nil, err
	}
	res.Migration = mig
	res.CleanupCount = mig.Swept
	res.Message = fmt.Sprintf("Storage folder changed. Moved %d files", mig.MovedCount)
	if mig.ErrorCount > 0 {
		res.Message += fmt.Sprintf(", %d errors", mig.ErrorCount)
	}
	return res, nil
}
