// Package watch reports changed note files under an ingestion root.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kailas-cloud/minutesmind/internal/domain/note"
	"github.com/kailas-cloud/minutesmind/internal/ingest/discover"
)

// DefaultDebounce is the quiet period before a change set is emitted.
const DefaultDebounce = 500 * time.Millisecond

// Watcher follows a notes root recursively.
type Watcher struct {
	root     string
	debounce time.Duration
	logger   *zap.Logger
}

// New creates a watcher for root. debounce <= 0 means DefaultDebounce.
func New(root string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{root: absRoot, debounce: debounce, logger: logger.Named("watch")}, nil
}

// Run blocks until ctx is done. Every time the tree has been quiet for the
// debounce period, onChange receives the eligible files created or written
// since the previous call, in discovery order. Removals are ignored.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context, []note.File)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := w.addTree(fw, w.root); err != nil {
		return err
	}
	w.logger.Info("Watching for note changes", zap.String("root", w.root))

	pending := make(map[string]note.File)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			changed := w.handleEvent(fw, ev)
			if len(changed) == 0 {
				continue
			}
			for _, f := range changed {
				pending[f.RelPath] = f
			}
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", zap.Error(err))
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			files := make([]note.File, 0, len(pending))
			for _, f := range pending {
				files = append(files, f)
			}
			discover.Sort(files)
			clear(pending)
			onChange(ctx, files)
		}
	}
}

// handleEvent maps an fsnotify event to changed note files. A created
// directory is added to the watch set and the notes already inside it are
// reported: files moved or copied in along with it raise no events of their own.
func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event) []note.File {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return nil
	}
	info, err := os.Stat(ev.Name)
	if err != nil {
		return nil
	}
	if info.IsDir() {
		if !ev.Has(fsnotify.Create) {
			return nil
		}
		return w.addDir(fw, ev.Name)
	}
	if !info.Mode().IsRegular() || !discover.IsEligible(ev.Name) {
		return nil
	}
	rel, ok := w.relPath(ev.Name)
	if !ok {
		return nil
	}
	return []note.File{{AbsPath: ev.Name, RelPath: rel}}
}

// addDir watches a new subtree and returns its eligible files relative to the root.
func (w *Watcher) addDir(fw *fsnotify.Watcher, dir string) []note.File {
	if err := w.addTree(fw, dir); err != nil {
		w.logger.Warn("Cannot watch new directory", zap.String("path", dir), zap.Error(err))
	}
	found, err := discover.Files(dir)
	if err != nil {
		w.logger.Warn("Cannot list new directory", zap.String("path", dir), zap.Error(err))
		return nil
	}
	files := found[:0]
	for _, f := range found {
		if rel, ok := w.relPath(f.AbsPath); ok {
			f.RelPath = rel
			files = append(files, f)
		}
	}
	return files
}

func (w *Watcher) relPath(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("walk %s: %w", dir, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
