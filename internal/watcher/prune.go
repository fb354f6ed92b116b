package watcher

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"pastebox/internal/metrics"
	"pastebox/internal/repository"
	"pastebox/internal/storage"
)

const handleTimeout = 10 * time.Second

// Pruner returns the Handler that removes the record of a deleted file.
// A file that exists again under the current root is left alone, as is a
// name no record references.
func Pruner(pastes repository.PasteRepository, loc *storage.Locator, m *metrics.Metrics) Handler {
	return func(ctx context.Context, name string) {
		ctx, cancel := context.WithTimeout(ctx, handleTimeout)
		defer cancel()
		logger := log.With().Str("component", "watcher").Str("stored_filename", name).Logger()

		root, err := loc.Root(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("resolve root failed")
			m.WatcherEvent("error")
			return
		}
		path, err := storage.Join(root, name)
		if err != nil {
			logger.Warn().Err(err).Msg("ignoring event")
			m.WatcherEvent("untracked")
			return
		}
		if _, err := os.Lstat(path); err == nil {
			logger.Debug().Msg("file present again, keeping record")
			m.WatcherEvent("present")
			return
		}

		p, err := pastes.FindFileByStoredName(ctx, name)
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info().Msg("deleted file not tracked")
			m.WatcherEvent("untracked")
			return
		}
		if err != nil {
			logger.Error().Err(err).Msg("lookup failed")
			m.WatcherEvent("error")
			return
		}

		if err := pastes.Delete(ctx, p.ID); err != nil {
			logger.Error().Err(err).Int64("paste_id", p.ID).Msg("prune failed")
			m.WatcherEvent("error")
			return
		}
		logger.Info().Int64("paste_id", p.ID).Msg("record pruned")
		m.WatcherEvent("pruned")
		m.Reconciled("watcher", 1)
	}
}
