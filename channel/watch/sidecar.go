// Package watch reloads the webhook URL when the sidecar file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/linanwx/matrixchat/config"
	"github.com/linanwx/matrixchat/logger"
)

const defaultDebounce = 200 * time.Millisecond

// SidecarWatcher watches the directory holding the sidecar file. Editors often
// replace files by rename, so the file itself is not watched directly.
type SidecarWatcher struct {
	path     string
	debounce time.Duration
	onChange func(url string)

	mu      sync.Mutex
	current string
	watcher *fsnotify.Watcher
}

// NewSidecarWatcher creates a watcher for path. current is the URL already in
// use; onChange is called with every later non-empty URL that differs from it.
func NewSidecarWatcher(path, current string, onChange func(url string)) (*SidecarWatcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("watch: onChange callback is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch: add %s: %w", filepath.Dir(abs), err)
	}
	return &SidecarWatcher{
		path:     abs,
		debounce: defaultDebounce,
		onChange: onChange,
		current:  current,
		watcher:  w,
	}, nil
}

// Run blocks until ctx is done, delivering endpoint changes.
func (s *SidecarWatcher) Run(ctx context.Context) error {
	defer s.watcher.Close()
	logger.Info("watching webhook sidecar", "path", s.path)

	var (
		timer  *time.Timer
		fire   <-chan time.Time
		target = filepath.Clean(s.path)
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-s.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Reset(s.debounce)
			}
			fire = timer.C

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("sidecar watcher error", "err", err)

		case <-fire:
			fire = nil
			s.reload()
		}
	}
}

func (s *SidecarWatcher) reload() {
	url, err := config.ReadSidecar(s.path)
	if err != nil {
		logger.Warn("read webhook sidecar failed", "path", s.path, "err", err)
		return
	}
	if url == "" {
		return
	}

	s.mu.Lock()
	if url == s.current {
		s.mu.Unlock()
		return
	}
	s.current = url
	s.mu.Unlock()

	logger.Info("webhook sidecar changed", "path", s.path)
	s.onChange(url)
}
