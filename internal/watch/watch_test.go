package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startWatcher(t *testing.T) (*Watcher, string) {
	t.Helper()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "todos.db")

	w, err := New(dbPath, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { w.Stop() })
	return w, dbPath
}

func TestWatcherReportsDatabaseWrites(t *testing.T) {
	w, dbPath := startWatcher(t)

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(dbPath+"-wal", []byte{byte(i)}, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}

	// The burst above should have been coalesced into one notification.
	select {
	case <-w.Changes():
		t.Error("expected a single notification for one burst")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	w, dbPath := startWatcher(t)
	dir := filepath.Dir(dbPath)

	for _, name := range []string{"notes.txt", "todos.db-shm", "other.db"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	select {
	case <-w.Changes():
		t.Error("unexpected change notification")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherStartStop(t *testing.T) {
	w, _ := startWatcher(t)

	if !w.IsRunning() {
		t.Fatal("watcher should be running after Start")
	}
	if err := w.Start(); err == nil {
		t.Error("expected error starting a running watcher")
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if w.IsRunning() {
		t.Error("watcher should not be running after Stop")
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop: %v", err)
	}
	if _, ok := <-w.Changes(); ok {
		t.Error("changes channel should be closed after Stop")
	}
}
