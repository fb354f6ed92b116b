package service

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"pastebox/internal/metrics"
	"pastebox/internal/repository"
	"pastebox/internal/storage"
)

var tracer = otel.Tracer("pastebox/internal/service")

// OrphanReport lists unreferenced files found in the storage root.
type OrphanReport struct {
	DryRun bool        `json:"dry_run"`
	Files  []string    `json:"files"`
	Errors []ItemError `json:"errors"`
}

// MaintenanceService is the admin-facing part of the Reconciler.
type MaintenanceService interface {
	Sweep(ctx context.Context) (int, error)
	SweepOrphanFiles(ctx context.Context, dryRun bool) (*OrphanReport, error)
}

var _ MaintenanceService = (*Reconciler)(nil)

// Reconciler brings records and files back in line after changes the
// watcher did not see.
type Reconciler struct {
	pastes  repository.PasteRepository
	loc     *storage.Locator
	metrics *metrics.Metrics
	grace   time.Duration
	now     func() time.Time
}

// NewReconciler constructs a Reconciler. Files younger than grace are never
// treated as orphans, which covers an ingest between file write and insert.
func NewReconciler(pastes repository.PasteRepository, loc *storage.Locator, m *metrics.Metrics, grace time.Duration) *Reconciler {
	return &Reconciler{pastes: pastes, loc: loc, metrics: m, grace: grace, now: time.Now}
}

// Sweep removes every file record whose file is verifiably absent from the
// current root and returns how many were removed.
func (r *Reconciler) Sweep(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "reconciler.sweep")
	defer span.End()

	root, err := r.loc.Root(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve root")
		return 0, err
	}
	files, err := r.pastes.ListFiles(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list files")
		return 0, err
	}

	removed := 0
	for _, p := range files {
		path, err := storage.Join(root, p.StoredFilename)
		if err != nil {
			log.Warn().Err(err).Int64("paste_id", p.ID).Msg("skipping record with invalid stored name")
			continue
		}
		if _, err := os.Lstat(path); !errors.Is(err, fs.ErrNotExist) {
			if err != nil {
				log.Warn().Err(err).Int64("paste_id", p.ID).Str("path", path).Msg("cannot check file, keeping record")
			}
			continue
		}
		if err := r.pastes.Delete(ctx, p.ID); err != nil {
			log.Error().Err(err).Int64("paste_id", p.ID).Msg("failed to remove orphan record")
			continue
		}
		removed++
		log.Info().
			Int64("paste_id", p.ID).
			Str("original_filename", p.OriginalFilename).
			Msg("removed orphan record")
	}

	span.SetAttributes(
		attribute.String("storage.root", root),
		attribute.Int("records.checked", len(files)),
		attribute.Int("records.removed", removed),
	)
	r.metrics.Reconciled("sweep", removed)
	log.Info().Str("root", root).Int("checked", len(files)).Int("removed", removed).Msg("sweep finished")
	return removed, nil
}

// SweepOrphanFiles removes regular files in the current root that no record
// references and that are older than the grace period. With dryRun it only
// reports them.
func (r *Reconciler) SweepOrphanFiles(ctx context.Context, dryRun bool) (*OrphanReport, error) {
	ctx, span := tracer.Start(ctx, "reconciler.sweep_orphan_files")
	defer span.End()

	report := &OrphanReport{DryRun: dryRun, Files: []string{}, Errors: []ItemError{}}

	root, err := r.loc.Root(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		return report, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, ioError("read storage root", err)
	}
	names, err := r.pastes.StoredNames(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := r.now().Add(-r.grace)
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if _, ok := names[e.Name()]; ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if dryRun {
			report.Files = append(report.Files, e.Name())
			continue
		}
		if err := removeIfExists(filepath.Join(root, e.Name())); err != nil {
			report.Errors = append(report.Errors, ItemError{Item: e.Name(), Message: err.Error()})
			continue
		}
		report.Files = append(report.Files, e.Name())
		log.Info().Str("root", root).Str("file", e.Name()).Msg("removed orphan file")
	}

	if !dryRun {
		r.metrics.OrphansRemoved(len(report.Files))
	}
	span.SetAttributes(attribute.Bool("dry_run", dryRun), attribute.Int("files.orphaned", len(report.Files)))
	return report, nil
}

// BackfillSizes stores the on-disk size of file records whose size is zero.
func (r *Reconciler) BackfillSizes(ctx context.Context) (int, error) {
	root, err := r.loc.Root(ctx)
	if err != nil {
		return 0, err
	}
	files, err := r.pastes.ListFiles(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, p := range files {
		if p.FileSize > 0 {
			continue
		}
		path, err := storage.Join(root, p.StoredFilename)
		if err != nil {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			continue
		}
		if err := r.pastes.SetFileSize(ctx, p.ID, info.Size()); err != nil {
			return updated, err
		}
		updated++
	}
	if updated > 0 {
		log.Info().Int("updated", updated).Msg("file sizes backfilled")
	}
	return updated, nil
}

// Run sweeps every interval until ctx is cancelled. Failures are logged only.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if _, err := r.Sweep(ctx); err != nil {
				log.Error().Err(err).Msg("periodic sweep failed")
			}
		}
	}
}
