// Package watch notifies a caller when a repository's metadata directory
// or working tree changes, debounced into a single event per burst
// (SPEC_FULL.md §3).
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceTime = 100 * time.Millisecond

// Watcher emits a value on Events every time the watched repository's
// fangs/ metadata directory or working tree changes, coalescing bursts of
// filesystem events (e.g. an editor's write-then-rename) into one.
type Watcher struct {
	Events chan struct{}
	Errors chan error

	inner *fsnotify.Watcher
}

// New creates a Watcher rooted at root (a repository's working tree),
// watching both root itself (for untracked file changes) and its fangs/
// metadata directory (for ref/index/object changes).
func New(root, fangsDir string) (*Watcher, error) {
	inner, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		Events: make(chan struct{}, 1),
		Errors: make(chan error, 1),
		inner:  inner,
	}

	walkAndWatch(inner, root)
	walkAndWatch(inner, filepath.Join(fangsDir, "refs", "heads"))

	return w, nil
}

// walkAndWatch adds fsnotify watches to dir and all its subdirectories.
// Missing directories are silently skipped — fsnotify does not recurse, so
// every level must be registered explicitly.
func walkAndWatch(w *fsnotify.Watcher, dir string) {
	_ = filepath.Walk(dir, func(path string, fi os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if fi.IsDir() {
			_ = w.Add(path) //nolint:errcheck // best-effort; missing dirs just aren't watched
		}
		return nil
	})
}

// Run starts the debounced event loop and blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	defer w.inner.Close() //nolint:errcheck

	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.inner.Events:
			if !ok {
				return
			}
			if shouldIgnoreEvent(event) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceTime, func() {
				select {
				case w.Events <- struct{}{}:
				default:
				}
			})
		case err, ok := <-w.inner.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		}
	}
}

func shouldIgnoreEvent(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return true
	}
	if strings.HasSuffix(base, ".tmp-") || strings.HasPrefix(base, ".tmp-") {
		return true
	}
	return false
}
