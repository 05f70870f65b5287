package server

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/psidex/graphview/internal/elements"
	"github.com/psidex/graphview/internal/view"
)

// Loader produces the elements to show, typically by reading the watched file.
type Loader func() (elements.Elements, error)

// Watcher re-initialises the view whenever the watched file changes. A load or
// validation failure is logged and the previous view stays current.
type Watcher struct {
	views     *view.Initializer
	container string
	path      string
	load      Loader
	debounce  time.Duration
	logger    *slog.Logger
}

func NewWatcher(views *view.Initializer, container, path string, load Loader, debounce time.Duration, logger *slog.Logger) *Watcher {
	return &Watcher{
		views:     views,
		container: container,
		path:      path,
		load:      load,
		debounce:  debounce,
		logger:    logger,
	}
}

// Reload loads the elements and initialises a new view from them.
func (w *Watcher) Reload(ctx context.Context) error {
	els, err := w.load()
	if err != nil {
		return fmt.Errorf("load %s: %w", w.path, err)
	}
	return w.views.Init(ctx, els, w.container)
}

// Run watches until ctx is done. The directory is watched rather than the file so that
// editors which save by renaming a temp file over the original are noticed.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(w.path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	debounce := time.NewTimer(0)
	<-debounce.C // drain initial timer

	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}

			pending = true

			debounce.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", "error", err)

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			if err := w.Reload(ctx); err != nil {
				w.logger.Error("Reload failed, keeping previous view", "path", w.path, "error", err)
			}
		}
	}
}
