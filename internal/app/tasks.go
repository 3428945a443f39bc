package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/todo-manager/internal/model"
	"github.com/nhle/todo-manager/internal/store"
	"github.com/nhle/todo-manager/internal/ui/settings"
	"github.com/nhle/todo-manager/internal/watch"
)

// tasksLoadedMsg carries a fresh snapshot of the task collection.
type tasksLoadedMsg struct {
	tasks []model.Task
}

// errMsg reports a failed store operation.
type errMsg struct {
	op  string
	err error
}

// prefsLoadedMsg carries the stored display preferences.
type prefsLoadedMsg struct {
	values settings.Values
}

// prefsSavedMsg is sent after preferences are written.
type prefsSavedMsg struct{}

// dbChangedMsg is sent when another process wrote to the database.
type dbChangedMsg struct{}

// loadTasks returns a command that reads the committed collection.
func (m Model) loadTasks() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		return listTasks(context.Background(), s, "listing tasks")
	}
}

// reloadTasks rescans the database before listing, picking up writes made
// by other processes.
func (m Model) reloadTasks() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		if err := s.Reload(ctx); err != nil {
			return errMsg{op: "reloading tasks", err: err}
		}
		return listTasks(ctx, s, "reloading tasks")
	}
}

// createTask persists a new task and returns the updated snapshot.
func (m Model) createTask(draft model.Draft) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := s.Create(ctx, draft); err != nil {
			return errMsg{op: "creating task", err: err}
		}
		return listTasks(ctx, s, "creating task")
	}
}

// updateTask replaces the mutable fields of a task.
func (m Model) updateTask(id string, patch model.Patch) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := s.Update(ctx, id, patch); err != nil {
			return errMsg{op: "updating task", err: err}
		}
		return listTasks(ctx, s, "updating task")
	}
}

// toggleDone marks an undone task done and a done task not done.
func (m Model) toggleDone(task model.Task) tea.Cmd {
	patch := model.PatchFrom(task)
	patch.Done = nextDone(task.Done)
	return m.updateTask(task.ID, patch)
}

// deleteTask removes a task; the store hands back the remaining snapshot.
func (m Model) deleteTask(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		tasks, err := s.Delete(context.Background(), id)
		if err != nil {
			return errMsg{op: "deleting task", err: err}
		}
		return tasksLoadedMsg{tasks: tasks}
	}
}

// loadPrefs reads the display preferences. The dark-mode default comes
// from the terminal until the user picks one.
func (m Model) loadPrefs() tea.Cmd {
	s := m.store
	darkDefault := m.darkDefault
	return func() tea.Msg {
		ctx := context.Background()
		spacing, err := s.GetPreference(ctx, model.PrefRowSpacing, false)
		if err != nil {
			return errMsg{op: "loading preferences", err: err}
		}
		dark, err := s.GetPreference(ctx, model.PrefDarkMode, darkDefault())
		if err != nil {
			return errMsg{op: "loading preferences", err: err}
		}
		return prefsLoadedMsg{values: settings.Values{RowSpacing: spacing, DarkMode: dark}}
	}
}

// savePrefs writes both display preferences.
func (m Model) savePrefs(v settings.Values) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		if err := s.SetPreference(ctx, model.PrefRowSpacing, v.RowSpacing); err != nil {
			return errMsg{op: "saving preferences", err: err}
		}
		if err := s.SetPreference(ctx, model.PrefDarkMode, v.DarkMode); err != nil {
			return errMsg{op: "saving preferences", err: err}
		}
		return prefsSavedMsg{}
	}
}

// waitForChange blocks until the watcher reports a database write.
func waitForChange(w *watch.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		for {
			select {
			case _, ok := <-w.Changes():
				if !ok {
					return nil
				}
				return dbChangedMsg{}
			case err, ok := <-w.Errors():
				if !ok {
					return nil
				}
				log.WithError(err).Warn("database watcher error")
			}
		}
	}
}

func listTasks(ctx context.Context, s store.TaskStore, op string) tea.Msg {
	tasks, err := s.List(ctx)
	if err != nil {
		return errMsg{op: op, err: err}
	}
	return tasksLoadedMsg{tasks: tasks}
}

func nextDone(d model.DoneState) model.DoneState {
	if d == model.DoneDone {
		return model.DoneNotDone
	}
	return model.DoneDone
}

// describeError turns a store error into a status bar notice, keeping the
// three failure kinds apart.
func describeError(err error) string {
	switch {
	case errors.Is(err, store.ErrValidation):
		return "Invalid input: " + err.Error()
	case errors.Is(err, store.ErrNotFound):
		return "That task no longer exists"
	case errors.Is(err, store.ErrPersistence):
		return "Could not save changes: " + err.Error()
	default:
		return err.Error()
	}
}
