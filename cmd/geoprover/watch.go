package main

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 200 * time.Millisecond

// watcher recompiles theorem files matching its patterns after they change.
type watcher struct {
	app      *app
	patterns []string // absolute
	fsw      *fsnotify.Watcher

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op
}

func (a *app) watch(ctx context.Context, patterns []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	files, err := expand(patterns)
	if err != nil {
		return err
	}
	_ = a.compileAll(files)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	w, err := newWatcher(a, patterns)
	if err != nil {
		return err
	}
	w.fsw = fsw
	for _, p := range w.patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(p))
		if err := w.addWatchesRecursive(filepath.FromSlash(base)); err != nil {
			return err
		}
	}
	a.logger.Info("watching theorem files", "patterns", strings.Join(patterns, " "))
	w.run(ctx)
	return nil
}

func newWatcher(a *app, patterns []string) (*watcher, error) {
	abs := make([]string, len(patterns))
	for i, p := range patterns {
		ap, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		abs[i] = ap
	}
	return &watcher{app: a, patterns: abs, pending: make(map[string]fsnotify.Op)}, nil
}

func (w *watcher) addWatchesRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.app.logger.Warn("Failed to watch directory", "path", path, "error", err)
		} else {
			w.app.logger.Debug("Watching directory", "path", path)
		}
		return nil
	})
}

func (w *watcher) run(ctx context.Context) {
	ticker := time.NewTicker(debounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.app.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *watcher) matches(path string) bool {
	if !isTheoremFile(path) {
		return false
	}
	for _, p := range w.patterns {
		if ok, _ := doublestar.PathMatch(p, path); ok {
			return true
		}
	}
	return false
}

func (w *watcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) && w.fsw != nil {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addWatchesRecursive(event.Name)
			return
		}
	}
	if !w.matches(event.Name) {
		return
	}
	w.pendingMu.Lock()
	w.pending[event.Name] |= event.Op
	w.pendingMu.Unlock()
	w.app.logger.Debug("Theorem change detected", "path", event.Name, "op", event.Op.String())
}

// flush recompiles the files changed since the last flush. Files that no
// longer exist are skipped; editors that save by rename recreate them.
func (w *watcher) flush() {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	var files []string
	for path := range w.pending {
		if fileExists(path) {
			files = append(files, path)
		}
	}
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	if len(files) == 0 {
		return
	}
	sort.Strings(files)
	_ = w.app.compileAll(files)
}
