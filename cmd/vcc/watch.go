package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watcher recompiles component sources when they change.
type watcher struct {
	fs       *fsnotify.Watcher
	builder  *builder
	roots    []string        // absolute directories being watched
	files    map[string]bool // explicit files; when set, only these are rebuilt
	debounce time.Duration
	pending  map[string]bool
}

func newWatcher(b *builder, paths []string, debounce time.Duration) (*watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &watcher{
		fs:       fsWatcher,
		builder:  b,
		debounce: debounce,
		pending:  make(map[string]bool),
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsWatcher.Close()
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			fsWatcher.Close()
			return nil, err
		}
		if !info.IsDir() {
			if w.files == nil {
				w.files = make(map[string]bool)
			}
			w.files[abs] = true
			abs = filepath.Dir(abs)
		}
		if err := w.watchDirRecursive(abs); err != nil {
			fsWatcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", abs, err)
		}
		w.roots = append(w.roots, abs)
	}
	return w, nil
}

// watchDirRecursive adds a directory and its subdirectories to the watch list
func (w *watcher) watchDirRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if d.IsDir() {
			// Skip hidden directories
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return w.fs.Add(path)
		}
		return nil
	})
}

// Run processes file system events until ctx is done.
func (w *watcher) Run(ctx context.Context) error {
	defer w.fs.Close()
	w.builder.opts.Logger.Printf("watching %s", strings.Join(w.roots, ", "))

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if w.queue(event) {
				fire = time.After(w.debounce)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.builder.opts.Logger.Printf("watcher error: %v", err)

		case <-fire:
			fire = nil
			w.flush()
		}
	}
}

// queue records a changed source. It reports whether a rebuild is due.
func (w *watcher) queue(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watchDirRecursive(event.Name); err != nil {
				w.builder.opts.Logger.Printf("failed to watch %s: %v", event.Name, err)
			}
			return false
		}
	}

	if !strings.HasSuffix(event.Name, w.builder.opts.Extension) {
		return false
	}
	if w.files != nil && !w.files[event.Name] {
		return false
	}
	w.pending[event.Name] = true
	return true
}

// flush rebuilds every pending source. Errors are reported and the watch goes on.
func (w *watcher) flush() {
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	clear(w.pending)

	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := w.builder.buildFile(w.rootOf(p), p); err != nil && !errors.Is(err, errCompileFailed) {
			w.builder.opts.Logger.Printf("%v", err)
		}
	}
}

// rootOf returns the watched root containing path.
func (w *watcher) rootOf(path string) string {
	best := filepath.Dir(path)
	for _, r := range w.roots {
		if rel, err := filepath.Rel(r, path); err == nil && !strings.HasPrefix(rel, "..") {
			if len(r) < len(best) {
				best = r
			}
		}
	}
	return best
}
