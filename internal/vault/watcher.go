package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FSWatcher implements Watcher over fsnotify for an OSStore. It watches
// the store root plus the requested folders and their immediate
// subfolders, emitting events for markdown files only. New subfolders are
// added to the watch set as they appear.
type FSWatcher struct {
	store   *OSStore
	folders []string

	watcher *fsnotify.Watcher
	events  chan Event
	errors  chan error
	done    chan struct{}
	wg      sync.WaitGroup

	mu      sync.Mutex
	running bool
}

// NewFSWatcher creates a watcher for the given folders (store-relative).
// It must be started with Start before it emits events.
func NewFSWatcher(store *OSStore, folders ...string) (*FSWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FSWatcher{
		store:   store,
		folders: folders,
		watcher: watcher,
		events:  make(chan Event, 100),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching. Folders that do not exist yet are skipped; they
// are picked up when created under a watched parent.
func (w *FSWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}

	for _, folder := range w.folders {
		dir := filepath.Join(w.store.Root(), filepath.FromSlash(folder))
		if err := w.addTree(dir); err != nil {
			return err
		}
	}

	w.running = true
	w.wg.Add(1)
	go w.processEvents()
	return nil
}

// addTree watches dir and its immediate subdirectories.
func (w *FSWatcher) addTree(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) || (err == nil && !info.IsDir()) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", dir, err)
	}

	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sub := filepath.Join(dir, e.Name())
		if err := w.watcher.Add(sub); err != nil {
			return fmt.Errorf("failed to watch %s: %w", sub, err)
		}
	}
	return nil
}

// Stop stops the watcher and blocks until the event loop has exited.
func (w *FSWatcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.done)
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	w.wg.Wait()

	close(w.events)
	close(w.errors)
	return nil
}

// Events returns the event channel. Closed when the watcher stops.
func (w *FSWatcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel. Closed when the watcher stops.
func (w *FSWatcher) Errors() <-chan error {
	return w.errors
}

func (w *FSWatcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ve, ok := w.convertEvent(event); ok {
				select {
				case w.events <- ve:
				case <-w.done:
					return
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			case <-w.done:
				return
			}
		}
	}
}

// convertEvent maps an fsnotify event to a vault event. Directory creates
// extend the watch set; non-markdown files are ignored.
func (w *FSWatcher) convertEvent(event fsnotify.Event) (Event, bool) {
	rel, ok := w.store.Rel(event.Name)
	if !ok {
		return Event{}, false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			// New track folders must be watched too. The create still
			// matters to cache discovery, so it is reported.
			_ = w.watcher.Add(event.Name)
			return Event{Op: OpCreate, Path: rel}, true
		}
	}

	if !strings.HasSuffix(event.Name, ".md") {
		return Event{}, false
	}

	var op Op
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpModify
	case event.Has(fsnotify.Remove):
		op = OpDelete
	case event.Has(fsnotify.Rename):
		// The old name disappears here; the new name arrives as a
		// separate create.
		op = OpRename
	default:
		return Event{}, false
	}

	return Event{Op: op, Path: rel, OldPath: ""}, true
}
