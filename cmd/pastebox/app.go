package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"pastebox/internal/config"
	"pastebox/internal/database"
	"pastebox/internal/database/migration"
	handlers "pastebox/internal/http/handler"
	"pastebox/internal/logging"
	"pastebox/internal/metrics"
	"pastebox/internal/repository/sqlrepo"
	"pastebox/internal/service"
	"pastebox/internal/storage"
	"pastebox/internal/watcher"
)

// app holds the wired components shared by every command.
type app struct {
	cfg        *config.AppConfig
	db         *sql.DB
	registry   *prometheus.Registry
	locator    *storage.Locator
	watcher    *watcher.Watcher
	reconciler *service.Reconciler
	services   handlers.Services
}

func newApp(ctx context.Context) (*app, error) {
	cfg := config.Load()
	logging.Setup(cfg.Log.Level, cfg.Log.Format, nil)

	db, dialect, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := migration.EnsureMigrated(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(reg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	pastes := sqlrepo.NewPasteSQL(db, dialect)
	settings := sqlrepo.NewSettingsSQL(db, dialect)
	loc := storage.NewLocator(settings, cfg.Storage.DefaultUploadFolder)

	var archive storage.ArchiveStore
	if cfg.MinIO.Enabled() {
		archive, err = storage.NewMinIOArchive(ctx, cfg.MinIO)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("initialize archive store: %w", err)
		}
	} else {
		log.Info().Msg("archive offload disabled, export links unavailable")
	}

	w := watcher.New(watcher.NewFSNotifySource, watcher.Pruner(pastes, loc, m), cfg.Storage.WatcherStopTimeout())
	rec := service.NewReconciler(pastes, loc, m, cfg.Storage.OrphanGrace())
	migrator := service.NewMigrator(loc, w, rec, m)

	return &app{
		cfg:        cfg,
		db:         db,
		registry:   reg,
		locator:    loc,
		watcher:    w,
		reconciler: rec,
		services: handlers.Services{
			Pastes:      service.NewPasteService(pastes, loc, m, cfg.Storage.PageSize),
			Bulk:        service.NewBulkService(pastes, loc, archive, time.Duration(cfg.MinIO.LinkTTLSec)*time.Second),
			Roots:       service.NewRootService(loc, settings, migrator),
			Maintenance: rec,
		},
	}, nil
}

// Close stops the watcher and releases the database.
func (a *app) Close() {
	if err := a.watcher.Stop(); err != nil {
		log.Warn().Err(err).Msg("watcher stop")
	}
	if err := a.db.Close(); err != nil {
		log.Warn().Err(err).Msg("database close")
	}
}
