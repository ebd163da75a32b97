package hadaf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// WatchResult reports the outcome of handling one document.
type WatchResult struct {
	Path    string
	Changed bool
	Err     error
}

// Watcher handles documents under a directory as they are saved. Events are
// debounced so a burst of writes to the same file is handled once.
type Watcher struct {
	watcher     *fsnotify.Watcher
	root        string
	docs        *DocumentService
	debounceDur time.Duration
	log         zerolog.Logger
}

// NewWatcher creates a watcher for the documents under root.
func NewWatcher(root string, docs *DocumentService, debounce time.Duration, log zerolog.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		watcher:     watcher,
		root:        filepath.Clean(root),
		docs:        docs,
		debounceDur: debounce,
		log:         log,
	}

	if err := w.addRecursive(w.root); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}

	return w, nil
}

// Sync handles every document currently under the root.
func (w *Watcher) Sync(ctx context.Context) ([]WatchResult, error) {
	paths, err := w.docs.Find(w.root)
	if err != nil {
		return nil, err
	}
	results := make([]WatchResult, 0, len(paths))
	for _, path := range paths {
		results = append(results, w.handle(ctx, path))
	}
	return results, nil
}

// Watch starts handling documents as they change. The returned channel
// receives one result per handled document and is closed when ctx is done.
func (w *Watcher) Watch(ctx context.Context) (<-chan WatchResult, error) {
	out := make(chan WatchResult)

	go func() {
		defer close(out)
		for {
			paths, ok := w.next(ctx)
			if !ok {
				return
			}
			for _, path := range paths {
				select {
				case out <- w.handle(ctx, path):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) handle(ctx context.Context, path string) WatchResult {
	changed, err := w.docs.HandleFile(ctx, path)
	if err != nil {
		w.log.Error().Err(err).Str("path", path).Msg("failed to handle document")
	}
	return WatchResult{Path: path, Changed: changed, Err: err}
}

// next blocks until a batch of document changes has settled and returns the
// changed paths, sorted. It returns false once ctx is done or the watcher is
// closed.
func (w *Watcher) next(ctx context.Context) ([]string, bool) {
	for {
		select {
		case <-ctx.Done():
			return nil, false

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil, false
			}
			w.track(event)
			if w.shouldIgnore(event.Name) {
				continue
			}

			w.log.Debug().
				Str("path", event.Name).
				Str("op", event.Op.String()).
				Msg("file system event")

			changed := map[string]bool{}
			deleted := map[string]bool{}
			classifyEvent(event, changed, deleted)

			debounce := time.NewTimer(w.debounceDur)
		debounceLoop:
			for {
				select {
				case e, ok := <-w.watcher.Events:
					if !ok {
						debounce.Stop()
						return nil, false
					}
					w.track(e)
					if !w.shouldIgnore(e.Name) {
						classifyEvent(e, changed, deleted)
					}
					if !debounce.Stop() {
						<-debounce.C
					}
					debounce.Reset(w.debounceDur)
				case <-debounce.C:
					break debounceLoop
				case <-ctx.Done():
					debounce.Stop()
					return nil, false
				}
			}

			for p := range deleted {
				delete(changed, p)
			}
			if len(changed) == 0 {
				continue
			}

			paths := make([]string, 0, len(changed))
			for p := range changed {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			return paths, true

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil, false
			}
			w.log.Error().Err(err).Msg("watcher error")
		}
	}
}

// track starts watching directories created under the root.
func (w *Watcher) track(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) {
		return
	}
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		_ = w.addRecursive(event.Name)
	}
}

func classifyEvent(event fsnotify.Event, changed, deleted map[string]bool) {
	switch {
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		deleted[event.Name] = true
		delete(changed, event.Name)
	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		changed[event.Name] = true
		delete(deleted, event.Name)
	}
}

func (w *Watcher) addRecursive(path string) error {
	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			w.log.Debug().Err(err).Str("path", p).Msg("skipping path during walk")
			return nil
		}
		if d.IsDir() {
			if p != w.root && isHidden(p) {
				return filepath.SkipDir
			}
			return w.watcher.Add(p)
		}
		return nil
	})
}

func (w *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	for _, ext := range []string{".tmp", ".lock", ".swp", ".swx", "~"} {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}
	return !w.docs.Matches(w.root, path)
}
