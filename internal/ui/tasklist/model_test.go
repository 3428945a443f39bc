package tasklist

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo-manager/internal/keys"
	"github.com/nhle/todo-manager/internal/model"
)

var now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func dueIn(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func newTestList(t *testing.T) Model {
	t.Helper()
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetClock(func() time.Time { return now })
	m.SetTasks([]model.Task{
		{ID: "milk", Title: "Buy milk", Priority: model.PriorityLow, Category: model.CategoryShopping, CreatedAt: now},
		{ID: "rent", Title: "Pay rent", Priority: model.PriorityHigh, DueDate: dueIn(48 * time.Hour), CreatedAt: now},
		{ID: "taxes", Title: "File taxes", Priority: model.PriorityHigh, DueDate: dueIn(-time.Hour), CreatedAt: now},
		{ID: "gym", Title: "Gym", Priority: model.PriorityMedium, Done: model.DoneDone, DueDate: dueIn(-time.Hour), CreatedAt: now},
	})
	return m
}

func visibleIDs(m Model) []string {
	var ids []string
	for _, ti := range m.Visible() {
		ids = append(ids, ti.Task.ID)
	}
	return ids
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTabsFilterByPriority(t *testing.T) {
	m := newTestList(t)

	if got := strings.Join(visibleIDs(m), ","); got != "gym,taxes,rent,milk" {
		t.Fatalf("all tab = %s", got)
	}
	if m.Title() != "My tasks - All" {
		t.Errorf("title = %q", m.Title())
	}

	m, _ = m.Update(runes("4"))
	if got := strings.Join(visibleIDs(m), ","); got != "taxes,rent" {
		t.Errorf("high tab = %s", got)
	}
	if m.Title() != "My tasks - High" {
		t.Errorf("title = %q", m.Title())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.Tab().Name != "All" {
		t.Errorf("tab after wrap = %s, want All", m.Tab().Name)
	}

	if err := m.SetTabByName("low"); err != nil {
		t.Fatalf("SetTabByName: %v", err)
	}
	if got := strings.Join(visibleIDs(m), ","); got != "milk" {
		t.Errorf("low tab = %s", got)
	}
	if err := m.SetTabByName("urgent"); err == nil {
		t.Error("expected error for unknown tab")
	}
}

func TestSearchFiltersAsYouType(t *testing.T) {
	m := newTestList(t)

	m, _ = m.Update(runes("/"))
	if !m.Searching() {
		t.Fatal("expected search mode")
	}
	for _, r := range "MILK" {
		m, _ = m.Update(runes(string(r)))
	}
	if got := strings.Join(visibleIDs(m), ","); got != "milk" {
		t.Errorf("search results = %s", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Searching() {
		t.Error("enter should leave search mode")
	}
	if m.Filter().Search != "MILK" {
		t.Errorf("search = %q, want kept after enter", m.Filter().Search)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Filter().Search != "" || len(m.Visible()) != 4 {
		t.Errorf("esc should clear search, got %q with %d rows", m.Filter().Search, len(m.Visible()))
	}
}

func TestRowsCarryStatusAndLock(t *testing.T) {
	m := newTestList(t)

	byID := map[string]TaskItem{}
	for _, ti := range m.Visible() {
		byID[ti.Task.ID] = ti
	}

	if byID["taxes"].Status != model.StatusOverdue || !byID["taxes"].Locked {
		t.Errorf("taxes = %+v, want overdue and locked", byID["taxes"])
	}
	if byID["gym"].Status != model.StatusDone || !byID["gym"].Locked {
		t.Errorf("gym = %+v, want done and locked", byID["gym"])
	}
	if byID["milk"].Status != model.StatusPending || byID["milk"].Locked {
		t.Errorf("milk = %+v, want pending and unlocked", byID["milk"])
	}
}

func TestSelectionFollowsTaskAcrossRefresh(t *testing.T) {
	m := newTestList(t)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	sel, ok := m.SelectedItem()
	if !ok || sel.Task.ID != "rent" {
		t.Fatalf("selected = %+v", sel)
	}

	tasks := append([]model.Task{}, m.Tasks()...)
	tasks = append(tasks, model.Task{ID: "early", Title: "Early", Priority: model.PriorityLow, DueDate: dueIn(-2 * time.Hour), CreatedAt: now})
	m.SetTasks(tasks)

	sel, _ = m.SelectedItem()
	if sel.Task.ID != "rent" {
		t.Errorf("selection moved to %s", sel.Task.ID)
	}
}

func TestRowSpacing(t *testing.T) {
	m := newTestList(t)
	if m.RowSpacing() {
		t.Fatal("spacing should default off")
	}
	m.SetRowSpacing(true)
	if !m.RowSpacing() || m.delegate.Spacing() != 1 {
		t.Error("spacing not applied")
	}
}

func TestEmptyStateMessages(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	if !strings.Contains(m.View(), "No tasks yet") {
		t.Error("expected empty-collection hint")
	}

	m = newTestList(t)
	m.search = "zzz"
	m.refresh()
	if !strings.Contains(m.View(), "No matching tasks") {
		t.Error("expected no-match hint")
	}
}
