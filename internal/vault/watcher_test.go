package vault

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitForEvent(t *testing.T, w *FSWatcher, want Op, wantPath string) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-w.Events():
			if ev.Op == want && ev.Path == wantPath {
				return
			}
			// Unrelated events (e.g. a create preceding the write we
			// asked for) are skipped.
		case err := <-w.Errors():
			t.Fatalf("watcher error: %v", err)
		case <-deadline:
			t.Fatalf("timed out waiting for %v %s", want, wantPath)
		}
	}
}

func TestFSWatcherLifecycle(t *testing.T) {
	store := newTestStore(t)
	if err := os.MkdirAll(filepath.Join(store.Root(), "Tracks"), 0755); err != nil {
		t.Fatal(err)
	}

	w, err := NewFSWatcher(store, "Tracks")
	if err != nil {
		t.Fatalf("NewFSWatcher() error: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer w.Stop()

	if err := w.Start(); err == nil {
		t.Error("second Start() should fail")
	}

	if err := store.CreateFile("Tracks/note.md", "x"); err != nil {
		t.Fatal(err)
	}
	waitForEvent(t, w, OpCreate, "Tracks/note.md")

	if err := store.WriteFile("Tracks/note.md", "y"); err != nil {
		t.Fatal(err)
	}
	waitForEvent(t, w, OpModify, "Tracks/note.md")

	if err := store.DeleteFile("Tracks/note.md"); err != nil {
		t.Fatal(err)
	}
	waitForEvent(t, w, OpDelete, "Tracks/note.md")
}

func TestFSWatcherIgnoresNonMarkdown(t *testing.T) {
	store := newTestStore(t)
	if err := os.MkdirAll(filepath.Join(store.Root(), "Tracks"), 0755); err != nil {
		t.Fatal(err)
	}

	w, err := NewFSWatcher(store, "Tracks")
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := store.CreateFile("Tracks/data.json", "{}"); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-w.Events():
		t.Errorf("unexpected event for non-markdown file: %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestFSWatcherStopIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	w, err := NewFSWatcher(store, "Tracks")
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("second Stop() error: %v", err)
	}
}
