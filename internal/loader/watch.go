package loader

import (
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/binderir/aidlc/internal/debug"
)

// Watcher invalidates a Loader's cache entries when their source files
// change on disk, shaped after internal/indexing/watcher.go.
// Per §5 ("single-threaded by design"), the watcher goroutine only scans
// the cache under the Loader's lock for units backed by a changed file and
// calls Invalidate, a single atomic map delete, on them — it never triggers
// concurrent compilation itself; a caller must re-resolve
// affected QNames on its own schedule.
type Watcher struct {
	loader  *Loader
	fsw     *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher starts watching every directory in the Loader's search path.
func NewWatcher(l *Loader) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range l.searchPath {
		_ = fsw.Add(dir) // best-effort: a missing search-path entry is not fatal
	}
	w := &Watcher{loader: l, fsw: fsw, done: make(chan struct{})}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.invalidatePath(event.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			debug.Logf("watch", "fsnotify error: %v", err)
		case <-w.done:
			return
		}
	}
}

// invalidatePath drops every cached unit whose source path matches, since a
// single file may back several units (an AIDL file declaring more than one
// interface/parcelable, or a Java file with nested Parcelable classes).
// A fs write/rename event does not always mean the content actually changed
// (editors commonly rewrite a file with identical bytes, or emit duplicate
// events for one save); contentKey lets an unchanged file skip invalidation
// so it never gets re-parsed.
func (w *Watcher) invalidatePath(path string) {
	content, err := os.ReadFile(path)
	unchanged := false
	var newHash uint64
	if err == nil {
		newHash = contentKey(content)
	}

	w.loader.mu.Lock()
	var stale []string
	for qname, u := range w.loader.cache {
		if u.sourcePath != path {
			continue
		}
		if err == nil && u.contentHash == newHash {
			unchanged = true
			continue
		}
		stale = append(stale, qname)
	}
	w.loader.mu.Unlock()

	if unchanged && len(stale) == 0 {
		debug.Logf("watch", "skipping %s: content unchanged", path)
		return
	}
	for _, qname := range stale {
		debug.Logf("watch", "invalidating %s (source changed: %s)", qname, path)
		w.loader.Invalidate(qname)
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
