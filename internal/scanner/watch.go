package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce groups editor save bursts into a single change.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes to component files below a root directory.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	log      *logrus.Logger
	excludes []string

	mu      sync.Mutex
	timer   *time.Timer
	pending string
}

// NewWatcher creates a watcher. A zero debounce uses DefaultDebounce.
func NewWatcher(debounce time.Duration, excludes []string, log *logrus.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{watcher: w, debounce: debounce, log: log, excludes: excludes}, nil
}

// Run watches root and every directory below it until ctx is done. onChange
// receives the last changed component file of each debounced burst and is
// never called concurrently with itself.
func (w *Watcher) Run(ctx context.Context, root string, onChange func(path string)) error {
	defer w.watcher.Close()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.excluded(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.log.WithError(err).Warnf("Failed to watch directory %s", path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set up watches under %s: %w", root, err)
	}
	w.log.Infof("Watching %s for component changes", root)

	fire := make(chan string, 1)
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil

		case path := <-fire:
			onChange(path)

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event, fire)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Error("File watcher error")
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event, fire chan<- string) {
	if event.Op&fsnotify.Create == fsnotify.Create && isDir(event.Name) && !w.excluded(event.Name) {
		if err := w.watcher.Add(event.Name); err != nil {
			w.log.WithError(err).Warnf("Failed to watch directory %s", event.Name)
		}
		return
	}
	if !IsComponentFile(event.Name) || w.excluded(event.Name) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	w.log.Debugf("File event %s on %s", event.Op, event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = event.Name
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		path := w.pending
		w.mu.Unlock()
		select {
		case fire <- path:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) excluded(path string) bool {
	for _, pattern := range w.excludes {
		if matchGlob(path, pattern) {
			return true
		}
	}
	return false
}

// IsComponentFile reports whether path looks like *.component.{ts,html,css}.
func IsComponentFile(path string) bool {
	base := filepath.Base(path)
	for _, ext := range []string{".component.ts", ".component.html", ".component.css"} {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
