package watcher

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Source is the OS-level notification mechanism. Start begins delivering the
// base names of direct children of path that were deleted or moved away; the
// channel is closed once Stop has released the underlying resources.
type Source interface {
	Start(path string) (<-chan string, error)
	Stop() error
}

type fsnotifySource struct {
	mu   sync.Mutex
	w    *fsnotify.Watcher
	done chan struct{}
}

// NewFSNotifySource returns a Source backed by fsnotify. It is not recursive.
func NewFSNotifySource() Source {
	return &fsnotifySource{}
}

func (s *fsnotifySource) Start(path string) (<-chan string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w != nil {
		return nil, fmt.Errorf("fsnotify source already watching")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	dir := filepath.Clean(path)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	s.w = w
	s.done = make(chan struct{})
	out := make(chan string, 64)
	go s.forward(w, dir, out, s.done)
	return out, nil
}

func (s *fsnotifySource) forward(w *fsnotify.Watcher, dir string, out chan<- string, done <-chan struct{}) {
	defer close(out)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if filepath.Dir(ev.Name) != dir {
				continue
			}
			select {
			case out <- filepath.Base(ev.Name):
			case <-done:
				return
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Str("component", "watcher").Str("path", dir).Msg("fsnotify error")
		case <-done:
			return
		}
	}
}

func (s *fsnotifySource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return nil
	}
	close(s.done)
	err := s.w.Close()
	s.w = nil
	return err
}
