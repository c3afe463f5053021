// Package watch re-runs a full rebuild whenever the source tree changes.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a rebuild is triggered.
const DefaultDebounce = 300 * time.Millisecond

// RebuildFunc performs one full rebuild.
type RebuildFunc func(ctx context.Context) error

// Options configures Watch.
type Options struct {
	// Root is the source directory to watch.
	Root string
	// Ignore is a directory whose events are dropped, typically the output
	// directory when it lives inside Root.
	Ignore string
	// Debounce is the quiet period before rebuilding.
	Debounce time.Duration
	// Extensions limits which file changes trigger a rebuild.
	Extensions []string
}

// DefaultExtensions are the source file types that affect the output.
var DefaultExtensions = []string{".md", ".html", ".css"}

// Watch watches opts.Root and calls rebuild after each burst of relevant
// changes until ctx is cancelled. Rebuild errors are logged and do not stop
// the loop. New directories are added to the watch list as they appear.
func Watch(ctx context.Context, opts Options, logger *slog.Logger, rebuild RebuildFunc) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}
	ignore := ""
	if opts.Ignore != "" {
		if abs, err := filepath.Abs(opts.Ignore); err == nil {
			ignore = abs
		}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, opts.Root, ignore); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", opts.Root))

	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(opts.Debounce)
			timerCh = timer.C
		} else {
			timer.Reset(opts.Debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			logger.Info("watcher: change detected, rebuilding")
			if err := rebuild(ctx); err != nil {
				logger.Error("watcher: rebuild failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ignore != "" && isUnder(ev.Name, ignore) {
				continue
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name, ignore); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					schedule()
					continue
				}
			}

			if !hasExtension(ev.Name, opts.Extensions) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("watcher: event", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its subdirectories except ignore.
func addDirsRecursive(w *fsnotify.Watcher, root, ignore string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if ignore != "" && isUnder(path, ignore) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

func isUnder(path, dir string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return abs == dir || strings.HasPrefix(abs, dir+string(os.PathSeparator))
}

func hasExtension(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
