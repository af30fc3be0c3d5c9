// Package watch triggers revalidation when corpus artifacts change. It
// coalesces bursts of filesystem events so a bulk edit produces a single
// run instead of one per file.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is how long the watcher waits after the last change
// before triggering.
const DefaultDebounce = 2 * time.Second

// Config carries watcher tunables. Zero values select the defaults.
type Config struct {
	// Debounce is the quiet period after the last change.
	Debounce time.Duration
	// Logger receives watcher diagnostics.
	Logger zerolog.Logger
}

// Watcher observes a corpus directory tree for artifact changes.
type Watcher struct {
	root     string
	debounce time.Duration
	logger   zerolog.Logger
	watcher  *fsnotify.Watcher
}

// New creates a watcher over the corpus rooted at root. Every
// subdirectory is watched except hidden ones.
func New(root string, cfg Config) (*Watcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("watch corpus root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch corpus root: %s is not a directory", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		root:     root,
		debounce: cfg.Debounce,
		logger:   cfg.Logger,
		watcher:  fsw,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}

	if err := w.addRecursive(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Root returns the watched corpus root.
func (w *Watcher) Root() string {
	return w.root
}

// Close stops the underlying filesystem watcher. A Run in progress
// returns once the event stream drains.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run blocks, invoking fn after each settled batch of changes, until ctx
// is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context)) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				w.maybeWatchDir(event.Name)
			}
			pending = true
			timer.Reset(w.debounce)
		case <-timer.C:
			if pending {
				pending = false
				w.logger.Debug().Str("root", w.root).Msg("corpus changed, revalidating")
				fn(ctx)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

// relevant filters out chmod noise and changes inside hidden directories.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return false
		}
	}
	return true
}

// maybeWatchDir starts watching a newly created directory so changes
// inside it are seen too.
func (w *Watcher) maybeWatchDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addRecursive(path); err != nil {
		w.logger.Warn().Err(err).Str("dir", path).Msg("failed to watch new directory")
	}
}

// addRecursive watches path and every non-hidden directory below it.
func (w *Watcher) addRecursive(path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(p); err != nil {
			w.logger.Warn().Err(err).Str("dir", p).Msg("failed to watch directory")
		}
		return nil
	})
}
