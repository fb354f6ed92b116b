package watcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrStopTimeout is returned when the consumer did not finish within the stop timeout.
var ErrStopTimeout = errors.New("watcher stop timed out")

const queueSize = 256

// Handler processes one deletion event. It runs on the consumer goroutine,
// one event at a time, in arrival order.
type Handler func(ctx context.Context, name string)

type run struct {
	path   string
	src    Source
	cancel context.CancelFunc
	done   chan struct{}
}

// Watcher observes one storage root at a time. Events are buffered in a
// bounded queue and drained by a single consumer, so handling a slow event
// never blocks the notification source for more than one event.
type Watcher struct {
	newSource   func() Source
	handle      Handler
	stopTimeout time.Duration

	mu  sync.Mutex
	cur *run
}

func New(newSource func() Source, handle Handler, stopTimeout time.Duration) *Watcher {
	return &Watcher{newSource: newSource, handle: handle, stopTimeout: stopTimeout}
}

// Start begins observing path. It fails if the watcher is already running.
func (w *Watcher) Start(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cur != nil {
		return fmt.Errorf("watcher already running on %s", w.cur.path)
	}

	src := w.newSource()
	events, err := src.Start(path)
	if err != nil {
		return fmt.Errorf("start watcher on %s: %w", path, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &run{path: path, src: src, cancel: cancel, done: make(chan struct{})}
	queue := make(chan string, queueSize)

	go func() {
		defer close(queue)
		for name := range events {
			select {
			case queue <- name:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		defer close(r.done)
		for name := range queue {
			if ctx.Err() != nil {
				return
			}
			w.handle(ctx, name)
		}
	}()

	w.cur = r
	log.Info().Str("component", "watcher").Str("path", path).Msg("watcher started")
	return nil
}

// Stop ends observation and waits for the consumer to drain, at most the
// configured timeout. Stopping a stopped watcher is a no-op.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	r := w.cur
	w.cur = nil
	w.mu.Unlock()
	if r == nil {
		return nil
	}

	if err := r.src.Stop(); err != nil {
		log.Warn().Err(err).Str("component", "watcher").Str("path", r.path).Msg("source stop failed")
	}

	select {
	case <-r.done:
		r.cancel()
		log.Info().Str("component", "watcher").Str("path", r.path).Msg("watcher stopped")
		return nil
	case <-time.After(w.stopTimeout):
		r.cancel()
		log.Error().
			Str("component", "watcher").
			Str("path", r.path).
			Dur("timeout", w.stopTimeout).
			Msg("watcher did not stop in time")
		return ErrStopTimeout
	}
}

// Restart stops the current observation, if any, and starts on path.
// A stop timeout is logged and does not prevent the restart.
func (w *Watcher) Restart(path string) error {
	if err := w.Stop(); err != nil && !errors.Is(err, ErrStopTimeout) {
		return err
	}
	return w.Start(path)
}

// Path returns the observed root, or "" when stopped.
func (w *Watcher) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cur == nil {
		return ""
	}
	return w.cur.path
}
