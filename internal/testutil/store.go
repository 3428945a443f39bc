package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/nhle/todo-manager/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T, opts ...store.Option) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:", opts...)
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// DBPath returns a database path inside a per-test temporary directory.
func DBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "todos.db")
}

// OpenFileStore opens a file-backed store at path. The caller closes it,
// which lets tests simulate a process restart by reopening the same path.
func OpenFileStore(t *testing.T, path string, opts ...store.Option) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(path, opts...)
	if err != nil {
		t.Fatalf("opening store at %s: %v", path, err)
	}
	return s
}

// FixedClock returns a clock that always reports at.
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// SteppingClock returns a clock that starts at start and advances by step
// on every call, so successive creations get distinct timestamps.
func SteppingClock(start time.Time, step time.Duration) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(step)
		return now
	}
}
