// Package watch reloads the catalog data file when it changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Options configures the watcher.
type Options struct {
	// Path is the data file to watch.
	Path string
	// Debounce is the quiet period before reload fires.
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watch calls reload after the data file was written, created, renamed or
// removed, once events have been quiet for opts.Debounce. reload receives the
// number of events it stands for. The parent
// directory is watched because editors and deploy tools usually replace the
// file instead of writing it in place. Watch blocks until ctx is done.
func Watch(ctx context.Context, opts Options, reload func(events int)) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	abs, err := filepath.Abs(opts.Path)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", opts.Path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %q: %w", filepath.Dir(abs), err)
	}

	debouncer := NewDebouncer(opts.Debounce, reload)
	defer debouncer.Stop()

	opts.Logger.Info("watching data file", slog.String("path", abs), slog.Duration("debounce", opts.Debounce))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRelevant(event, abs) {
				continue
			}
			debouncer.Trigger()
			opts.Logger.Debug("data file event", slog.String("op", event.Op.String()), slog.Int("pending", debouncer.Pending()))

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// isRelevant keeps content-changing events on the watched file.
func isRelevant(event fsnotify.Event, path string) bool {
	if event.Op == 0 {
		return false
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".swp") || strings.HasPrefix(name, "#") {
		return false
	}
	return filepath.Clean(event.Name) == path
}
