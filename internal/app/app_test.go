package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo-manager/internal/model"
	"github.com/nhle/todo-manager/internal/store"
	"github.com/nhle/todo-manager/internal/testutil"
	"github.com/nhle/todo-manager/internal/ui/settings"
	"github.com/nhle/todo-manager/internal/ui/taskform"
)

var now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) (Model, *store.SQLiteStore) {
	t.Helper()
	s := testutil.NewTestStore(t, store.WithClock(testutil.FixedClock(now)))
	m := New(s, Options{
		Now:         func() time.Time { return now },
		DarkDefault: func() bool { return false },
	})
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, s
}

// send feeds msg to the model and discards any follow-up command.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// run executes cmd and feeds its message back, one level deep.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = run(t, m, c)
		}
		return m
	}
	if msg == nil {
		return m
	}
	return send(t, m, msg)
}

// press sends a key and runs the command it produces.
func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, cmd := m.Update(msg)
	return run(t, next.(Model), cmd)
}

func seed(t *testing.T, s *store.SQLiteStore, drafts ...model.Draft) {
	t.Helper()
	for _, d := range drafts {
		if _, err := s.Create(context.Background(), d); err != nil {
			t.Fatalf("seeding %q: %v", d.Title, err)
		}
	}
}

func TestCreateFromFormShowsTask(t *testing.T) {
	m, s := newTestApp(t)

	next, cmd := m.Update(taskform.CreatedMsg{Draft: model.Draft{
		Title:    "  Buy milk ",
		Category: model.CategoryShopping,
		Priority: model.PriorityLow,
	}})
	m = run(t, next.(Model), cmd)

	rows := m.taskList.Visible()
	if len(rows) != 1 || rows[0].Task.Title != "Buy milk" {
		t.Fatalf("rows = %+v", rows)
	}
	if m.currentView != ViewList {
		t.Errorf("view = %v, want list", m.currentView)
	}

	stored, _ := s.List(context.Background())
	if len(stored) != 1 {
		t.Errorf("store has %d tasks", len(stored))
	}
}

func TestCreateValidationErrorShowsNotice(t *testing.T) {
	m, _ := newTestApp(t)

	next, cmd := m.Update(taskform.CreatedMsg{Draft: model.Draft{Title: "   "}})
	m = run(t, next.(Model), cmd)

	if !strings.HasPrefix(m.notice, "Invalid input") {
		t.Errorf("notice = %q", m.notice)
	}
	if len(m.taskList.Tasks()) != 0 {
		t.Error("no task should have been added")
	}
}

func TestToggleDone(t *testing.T) {
	m, s := newTestApp(t)
	seed(t, s, model.Draft{Title: "Water plants"})
	m = run(t, m, m.loadTasks())

	m = press(t, m, "x")
	item, _ := m.taskList.SelectedItem()
	if item.Task.Done != model.DoneDone || item.Status != model.StatusDone {
		t.Fatalf("after first toggle: %+v", item)
	}

	m = press(t, m, "x")
	item, _ = m.taskList.SelectedItem()
	if item.Task.Done != model.DoneNotDone {
		t.Errorf("after second toggle: done = %v, want not done", item.Task.Done)
	}
}

func TestPastDueTaskCannotBeEdited(t *testing.T) {
	m, s := newTestApp(t)
	past := now.Add(-time.Hour)
	seed(t, s, model.Draft{Title: "Too late", DueDate: &past})
	m = run(t, m, m.loadTasks())

	m = press(t, m, "e")
	if m.currentView != ViewList {
		t.Errorf("view = %v, want list", m.currentView)
	}
	if !strings.Contains(m.notice, "Past-due") {
		t.Errorf("notice = %q", m.notice)
	}

	// Toggling done is still allowed.
	m = press(t, m, "x")
	item, _ := m.taskList.SelectedItem()
	if item.Status != model.StatusDone {
		t.Errorf("status = %v, want done", item.Status)
	}
}

func TestEditOpensForm(t *testing.T) {
	m, s := newTestApp(t)
	future := now.Add(time.Hour)
	seed(t, s, model.Draft{Title: "Soon", DueDate: &future})
	m = run(t, m, m.loadTasks())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	m = next.(Model)
	if m.currentView != ViewEdit || !m.form.Editing() {
		t.Errorf("view = %v, want edit form", m.currentView)
	}

	m = send(t, m, taskform.CancelMsg{})
	if m.currentView != ViewList {
		t.Errorf("cancel should return to list, got %v", m.currentView)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m, s := newTestApp(t)
	seed(t, s, model.Draft{Title: "Keep"}, model.Draft{Title: "Drop"})
	m = run(t, m, m.loadTasks())

	m = press(t, m, "d")
	if m.pendingDelete == nil {
		t.Fatal("expected pending delete")
	}
	if !strings.Contains(m.keyHints(), "Delete") {
		t.Errorf("hints = %q", m.keyHints())
	}
	m = press(t, m, "n")
	if m.pendingDelete != nil || len(m.taskList.Tasks()) != 2 {
		t.Fatal("cancelled delete should keep both tasks")
	}

	target, _ := m.taskList.SelectedItem()
	m = press(t, m, "d")
	m = press(t, m, "y")

	tasks := m.taskList.Tasks()
	if len(tasks) != 1 || tasks[0].ID == target.Task.ID {
		t.Errorf("tasks after delete = %+v", tasks)
	}
	if _, err := s.Get(context.Background(), target.Task.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("deleted task still stored: %v", err)
	}
}

func TestDeleteOfVanishedTaskReportsNotFound(t *testing.T) {
	m, s := newTestApp(t)
	seed(t, s, model.Draft{Title: "Ephemeral"})
	m = run(t, m, m.loadTasks())

	item, _ := m.taskList.SelectedItem()
	if _, err := s.Delete(context.Background(), item.Task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	m = press(t, m, "d")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected a delete command")
	}

	// The failed delete reports the error and asks for a reload.
	next, reload := m.Update(cmd())
	m = next.(Model)
	if m.notice != "That task no longer exists" {
		t.Errorf("notice = %q", m.notice)
	}
	m = run(t, m, reload)
	if got := len(m.taskList.Tasks()); got != 0 {
		t.Errorf("vanished task still listed: %d rows", got)
	}
}

func TestSettingsPersistPreferences(t *testing.T) {
	m, s := newTestApp(t)

	next, cmd := m.Update(settings.SavedMsg{Values: settings.Values{RowSpacing: true, DarkMode: true}})
	m = run(t, next.(Model), cmd)

	if !m.taskList.RowSpacing() || !m.prefs.DarkMode {
		t.Errorf("prefs not applied: %+v", m.prefs)
	}

	ctx := context.Background()
	spacing, _ := s.GetPreference(ctx, model.PrefRowSpacing, false)
	dark, _ := s.GetPreference(ctx, model.PrefDarkMode, false)
	if !spacing || !dark {
		t.Errorf("stored prefs spacing=%v dark=%v", spacing, dark)
	}
}

func TestLoadPrefsUsesDefaults(t *testing.T) {
	m, s := newTestApp(t)
	m.darkDefault = func() bool { return true }

	m = run(t, m, m.loadPrefs())
	if m.prefs.RowSpacing || !m.prefs.DarkMode {
		t.Errorf("defaults = %+v, want spacing off, dark from terminal", m.prefs)
	}

	if err := s.SetPreference(context.Background(), model.PrefDarkMode, false); err != nil {
		t.Fatalf("set: %v", err)
	}
	m = run(t, m, m.loadPrefs())
	if m.prefs.DarkMode {
		t.Error("stored preference should override terminal default")
	}
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		err    error
		prefix string
	}{
		{fmt.Errorf("%w: empty title", store.ErrValidation), "Invalid input"},
		{fmt.Errorf("task x: %w", store.ErrNotFound), "That task no longer exists"},
		{fmt.Errorf("creating task: %w: %w", store.ErrPersistence, errors.New("disk full")), "Could not save changes"},
		{errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		if got := describeError(tt.err); !strings.HasPrefix(got, tt.prefix) {
			t.Errorf("describeError(%v) = %q, want prefix %q", tt.err, got, tt.prefix)
		}
	}
}

func TestNextDone(t *testing.T) {
	cases := map[model.DoneState]model.DoneState{
		model.DoneUnset:   model.DoneDone,
		model.DoneNotDone: model.DoneDone,
		model.DoneDone:    model.DoneNotDone,
	}
	for in, want := range cases {
		if got := nextDone(in); got != want {
			t.Errorf("nextDone(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestViewShowsTabTitle(t *testing.T) {
	m, s := newTestApp(t)
	seed(t, s, model.Draft{Title: "Buy milk", Priority: model.PriorityLow})
	m = run(t, m, m.loadTasks())

	m = press(t, m, "2")
	view := m.View()
	if !strings.Contains(view, "My tasks - Low") || !strings.Contains(view, "1 of 1 tasks") {
		t.Errorf("view header missing: %q", view)
	}
}
