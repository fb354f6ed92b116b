package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pastebox/internal/metrics"
	"pastebox/internal/storage"
)

// WatcherControl is the part of the filesystem watcher the migrator drives.
type WatcherControl interface {
	Stop() error
	Restart(path string) error
}

// MoveFunc moves one file. It must not overwrite dst.
type MoveFunc func(src, dst string) error

// MigrationResult reports a storage root migration.
type MigrationResult struct {
	MovedCount int         `json:"moved_count"`
	ErrorCount int         `json:"error_count"`
	Errors     []ItemError `json:"errors"`
	Swept      int         `json:"swept"`
}

// Migrator relocates the storage root. Only one migration runs at a time.
type Migrator struct {
	loc        *storage.Locator
	watcher    WatcherControl
	reconciler *Reconciler
	metrics    *metrics.Metrics
	move       MoveFunc

	mu sync.Mutex
}

func NewMigrator(loc *storage.Locator, w WatcherControl, rec *Reconciler, m *metrics.Metrics) *Migrator {
	return &Migrator{loc: loc, watcher: w, reconciler: rec, metrics: m, move: moveFile}
}

// Migrate moves the regular files directly under oldRoot into newRoot, then
// commits newRoot, restarts the watcher on it and sweeps. Per-file failures
// are reported in the result; the migration itself is not rolled back.
// A missing oldRoot counts as already migrated.
func (m *Migrator) Migrate(ctx context.Context, oldRoot, newRoot string) (*MigrationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, span := tracer.Start(ctx, "migrator.migrate", trace.WithAttributes(
		attribute.String("root.old", oldRoot),
		attribute.String("root.new", newRoot),
	))
	defer span.End()

	if err := prepareRoot(newRoot); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "prepare root")
		return nil, err
	}

	res := &MigrationResult{Errors: []ItemError{}}

	if oldRoot != "" && !samePath(oldRoot, newRoot) {
		if _, err := os.Stat(oldRoot); err == nil {
			m.pauseWatcher()
			m.moveAll(oldRoot, newRoot, res)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, ioError("stat old root", err)
		}
	}

	m.metrics.Migrated(res.MovedCount, res.ErrorCount)
	span.SetAttributes(attribute.Int("files.moved", res.MovedCount), attribute.Int("files.failed", res.ErrorCount))
	log.Info().
		Str("old_root", oldRoot).
		Str("new_root", newRoot).
		Int("moved", res.MovedCount).
		Int("failed", res.ErrorCount).
		Msg("files migrated")

	swept, err := m.commit(ctx, newRoot)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit root")
		if oldRoot != "" {
			if rerr := m.watcher.Restart(oldRoot); rerr != nil {
				log.Error().Err(rerr).Str("root", oldRoot).Msg("failed to resume watcher on old root")
			}
		}
		return res, err
	}
	res.Swept = swept
	return res, nil
}

// Adopt makes newRoot current without moving anything.
func (m *Migrator) Adopt(ctx context.Context, newRoot string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := prepareRoot(newRoot); err != nil {
		return 0, err
	}
	return m.commit(ctx, newRoot)
}

// commit runs the mandatory order: store root, restart watcher, sweep.
func (m *Migrator) commit(ctx context.Context, newRoot string) (int, error) {
	if err := m.loc.SetRoot(ctx, newRoot); err != nil {
		return 0, fmt.Errorf("commit storage root: %w", err)
	}
	if err := m.watcher.Restart(newRoot); err != nil {
		log.Error().Err(err).Str("root", newRoot).Msg("watcher restart failed")
	}
	swept, err := m.reconciler.Sweep(ctx)
	if err != nil {
		log.Error().Err(err).Str("root", newRoot).Msg("post-migration sweep failed")
		return 0, nil
	}
	return swept, nil
}

// pauseWatcher stops observation so files leaving the old root are not
// taken for deletions.
func (m *Migrator) pauseWatcher() {
	if err := m.watcher.Stop(); err != nil {
		log.Warn().Err(err).Msg("watcher stop before migration failed")
	}
}

func (m *Migrator) moveAll(oldRoot, newRoot string, res *MigrationResult) {
	entries, err := os.ReadDir(oldRoot)
	if err != nil {
		res.ErrorCount++
		res.Errors = append(res.Errors, ItemError{Item: oldRoot, Message: err.Error()})
		return
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		src := filepath.Join(oldRoot, e.Name())
		dst := filepath.Join(newRoot, e.Name())
		if err := m.move(src, dst); err != nil {
			res.ErrorCount++
			res.Errors = append(res.Errors, ItemError{Item: e.Name(), Message: err.Error()})
			log.Warn().Err(err).Str("file", e.Name()).Msg("file not migrated")
			continue
		}
		res.MovedCount++
	}
}

func prepareRoot(root string) error {
	if root == "" {
		return validationError("path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: cannot create %s: %w", ErrValidation, root, err)
		}
		return ioError("create "+root, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return ioError("stat "+root, err)
	}
	if !info.IsDir() {
		return validationError("%s is not a directory", root)
	}
	if !storage.Writable(root) {
		return validationError("directory %s is not writable", root)
	}
	return nil
}

func samePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return aa == bb
}

func moveFile(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%s already exists in target", filepath.Base(dst))
	}
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	return copyAndRemove(src, dst)
}

func copyAndRemove(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err = out.Sync(); err != nil {
		_ = out.Close()
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())
	return os.Remove(src)
}
