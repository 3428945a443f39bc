package store

import (
	"context"

	"github.com/nhle/todo-manager/internal/model"
)

// TaskStore defines durable CRUD over the task collection.
//
// Every mutation is synchronous: when it returns nil the change is committed
// to disk and visible to List. A mutation that fails leaves the collection
// exactly as it was.
type TaskStore interface {
	// Create validates and persists a new task and returns it.
	Create(ctx context.Context, draft model.Draft) (model.Task, error)

	// Update replaces the mutable fields of the task with the given id.
	Update(ctx context.Context, id string, patch model.Patch) (model.Task, error)

	// Delete permanently removes the task and returns the remaining tasks.
	Delete(ctx context.Context, id string) ([]model.Task, error)

	// Get returns a single task by id.
	Get(ctx context.Context, id string) (model.Task, error)

	// List returns every task as of the last committed write.
	List(ctx context.Context) ([]model.Task, error)

	// Reload rereads the collection from disk, picking up writes made by
	// other processes.
	Reload(ctx context.Context) error
}

// PreferenceStore defines durable boolean flags keyed by name.
type PreferenceStore interface {
	// GetPreference returns the stored flag, or def if it was never written.
	GetPreference(ctx context.Context, key string, def bool) (bool, error)

	// SetPreference durably writes the flag.
	SetPreference(ctx context.Context, key string, value bool) error
}

// Store is the full persistence interface used by the application.
type Store interface {
	TaskStore
	PreferenceStore
	Close() error
}
