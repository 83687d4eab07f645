// Package watch triggers organize runs when new files land in a
// directory. Events are debounced so a burst of downloads produces a
// single run after the directory settles.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jamesainslie/tidy/pkg/tidy/logging"
)

// DefaultDebounce is the settle period used when none is configured.
const DefaultDebounce = 2 * time.Second

// Watcher watches a single directory and invokes a callback once the
// directory has been quiet for the debounce period.
type Watcher struct {
	root     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *logging.Logger
}

// New creates a Watcher for the given directory. A zero debounce uses
// DefaultDebounce.
func New(root string, debounce time.Duration) (*Watcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("watch target: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch target is not a directory: %s", absRoot)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(absRoot); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("adding watch: %w", err)
	}

	return &Watcher{
		root:     absRoot,
		debounce: debounce,
		watcher:  fsw,
		logger:   logging.Get("watch"),
	}, nil
}

// Root returns the watched directory.
func (w *Watcher) Root() string {
	return w.root
}

// Run blocks until the context is cancelled, invoking onSettle after
// each burst of file activity goes quiet. Callback errors are logged
// and do not stop the loop.
func (w *Watcher) Run(ctx context.Context, onSettle func(ctx context.Context) error) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("activity", "path", event.Name, "op", event.Op.String())
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", "error", err)

		case <-timer.C:
			pending = false
			w.logger.Info("directory settled, organizing", "root", w.root)
			if err := onSettle(ctx); err != nil {
				w.logger.Error("organize failed", "error", err)
			}
		}
	}
}

// relevant reports whether an event should trigger a run. Only new or
// renamed-in files matter; hidden files and our own moves out of the
// root are ignored.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}
	// A path that no longer exists was renamed away, not in. Directory
	// creation is how organize builds category dirs; acting on either
	// would loop.
	info, err := os.Lstat(event.Name)
	if err != nil || info.IsDir() {
		return false
	}
	return true
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
