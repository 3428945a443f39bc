package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/todo-manager/internal/model"
)

// taskRow is the database representation of a task.
type taskRow struct {
	ID        string       `db:"id"`
	Title     string       `db:"title"`
	IsDone    sql.NullBool `db:"is_done"`
	Category  string       `db:"category"`
	Priority  int          `db:"priority"`
	DueDate   sql.NullTime `db:"due_date"`
	CreatedAt time.Time    `db:"created_at"`
}

const selectTasks = `
	SELECT id, title, is_done, category, priority, due_date, created_at
	FROM tasks`

// Create inserts a new task. The title is trimmed; a zero Category or
// Priority defaults to General and Medium.
func (s *SQLiteStore) Create(ctx context.Context, draft model.Draft) (model.Task, error) {
	title, category, priority, err := normalizeFields(draft.Title, draft.Category, draft.Priority)
	if err != nil {
		return model.Task{}, err
	}

	task := model.Task{
		ID:        uuid.New().String(),
		Title:     title,
		Done:      model.DoneUnset,
		Category:  category,
		Priority:  priority,
		DueDate:   utcPtr(draft.DueDate),
		CreatedAt: s.now().UTC(),
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (id, title, is_done, category, priority, due_date, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			task.ID, task.Title, doneToNull(task.Done), string(task.Category),
			int(task.Priority), task.DueDate, task.CreatedAt,
		)
		return err
	})
	if err != nil {
		log.WithError(err).Error("creating task failed")
		return model.Task{}, persistenceErr("creating task", err)
	}

	s.mu.Lock()
	s.tasks[task.ID] = task
	s.mu.Unlock()

	log.WithFields(log.Fields{"task": task.ID, "priority": task.Priority}).Debug("task created")
	return cloneTask(task), nil
}

// Update replaces title, category, priority, due date and done state of the
// task with the given id. ID and CreatedAt never change.
func (s *SQLiteStore) Update(ctx context.Context, id string, patch model.Patch) (model.Task, error) {
	title, category, priority, err := normalizeFields(patch.Title, patch.Category, patch.Priority)
	if err != nil {
		return model.Task{}, err
	}
	if patch.Done < model.DoneUnset || patch.Done > model.DoneDone {
		return model.Task{}, fmt.Errorf("%w: invalid done state %d", ErrValidation, int(patch.Done))
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var updated model.Task
	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE tasks SET
				title = ?, is_done = ?, category = ?, priority = ?, due_date = ?
			WHERE id = ?`,
			title, doneToNull(patch.Done), string(category), int(priority),
			utcPtr(patch.DueDate), id,
		)
		if err != nil {
			return err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("task %s: %w", id, ErrNotFound)
		}

		var row taskRow
		if err := tx.GetContext(ctx, &row, selectTasks+" WHERE id = ?", id); err != nil {
			return fmt.Errorf("reading back task %s: %w", id, err)
		}
		updated, err = row.toModel()
		return err
	})
	if errors.Is(err, ErrNotFound) {
		s.forget(id)
		return model.Task{}, fmt.Errorf("updating task: %w", err)
	}
	if err != nil {
		log.WithError(err).WithField("task", id).Error("updating task failed")
		return model.Task{}, persistenceErr(fmt.Sprintf("updating task %s", id), err)
	}

	s.mu.Lock()
	s.tasks[id] = updated
	s.mu.Unlock()

	log.WithFields(log.Fields{"task": id, "done": updated.Done}).Debug("task updated")
	return cloneTask(updated), nil
}

// Delete removes a task by id and returns the remaining collection.
// Deleting an id that does not exist fails with ErrNotFound.
func (s *SQLiteStore) Delete(ctx context.Context, id string) ([]model.Task, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
		if err != nil {
			return err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		s.forget(id)
		return nil, fmt.Errorf("deleting task: %w", err)
	}
	if err != nil {
		log.WithError(err).WithField("task", id).Error("deleting task failed")
		return nil, persistenceErr(fmt.Sprintf("deleting task %s", id), err)
	}

	s.mu.Lock()
	delete(s.tasks, id)
	s.mu.Unlock()

	log.WithField("task", id).Debug("task deleted")
	return s.snapshot(), nil
}

// forget drops id from the cache after the database reported it missing,
// which happens when another process deleted it.
func (s *SQLiteStore) forget(id string) {
	s.mu.Lock()
	delete(s.tasks, id)
	s.mu.Unlock()
}

// Get returns the task with the given id from the committed collection.
func (s *SQLiteStore) Get(_ context.Context, id string) (model.Task, error) {
	s.mu.RLock()
	task, ok := s.tasks[id]
	s.mu.RUnlock()
	if !ok {
		return model.Task{}, fmt.Errorf("getting task %s: %w", id, ErrNotFound)
	}
	return cloneTask(task), nil
}

// List returns a copy of every committed task.
func (s *SQLiteStore) List(_ context.Context) ([]model.Task, error) {
	return s.snapshot(), nil
}

// Reload replaces the in-memory collection with the rows on disk.
func (s *SQLiteStore) Reload(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows, selectTasks); err != nil {
		return persistenceErr("loading tasks", err)
	}

	tasks := make(map[string]model.Task, len(rows))
	for _, r := range rows {
		t, err := r.toModel()
		if err != nil {
			return persistenceErr("loading tasks", err)
		}
		tasks[t.ID] = t
	}

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return nil
}

// normalizeFields trims the title and applies enum defaults, rejecting
// anything outside the closed sets.
func normalizeFields(
	title string,
	category model.Category,
	priority model.Priority,
) (string, model.Category, model.Priority, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "", 0, fmt.Errorf("%w: task title must not be empty", ErrValidation)
	}
	if category == "" {
		category = model.CategoryGeneral
	}
	if !category.Valid() {
		return "", "", 0, fmt.Errorf("%w: unknown category %q", ErrValidation, string(category))
	}
	if priority == 0 {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return "", "", 0, fmt.Errorf("%w: unknown priority %d", ErrValidation, int(priority))
	}
	return title, category, priority, nil
}

// toModel converts a database row into a model.Task.
func (r taskRow) toModel() (model.Task, error) {
	t := model.Task{
		ID:        r.ID,
		Title:     r.Title,
		Category:  model.Category(r.Category),
		Priority:  model.Priority(r.Priority),
		CreatedAt: r.CreatedAt.UTC(),
	}
	if !t.Category.Valid() || !t.Priority.Valid() {
		return model.Task{}, fmt.Errorf("task %s has invalid category %q or priority %d",
			r.ID, r.Category, r.Priority)
	}
	switch {
	case !r.IsDone.Valid:
		t.Done = model.DoneUnset
	case r.IsDone.Bool:
		t.Done = model.DoneDone
	default:
		t.Done = model.DoneNotDone
	}
	if r.DueDate.Valid {
		d := r.DueDate.Time.UTC()
		t.DueDate = &d
	}
	return t, nil
}

// doneToNull maps the tri-state flag onto a nullable integer column.
func doneToNull(d model.DoneState) sql.NullInt64 {
	switch d {
	case model.DoneDone:
		return sql.NullInt64{Int64: int64(boolToInt(true)), Valid: true}
	case model.DoneNotDone:
		return sql.NullInt64{Int64: int64(boolToInt(false)), Valid: true}
	default:
		return sql.NullInt64{}
	}
}

// utcPtr returns a UTC copy of t, or nil.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
