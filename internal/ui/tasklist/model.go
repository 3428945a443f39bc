package tasklist

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-manager/internal/keys"
	"github.com/nhle/todo-manager/internal/model"
	"github.com/nhle/todo-manager/internal/query"
	"github.com/nhle/todo-manager/internal/theme"
)

// DefaultDateFormat is used when no date format has been configured.
const DefaultDateFormat = "Jan 02 2006 15:04"

// Tab is one of the priority tabs shown above the list.
type Tab struct {
	Name     string
	Priority *model.Priority
}

// Tabs are the priority tabs in display order. The first keeps everything.
var Tabs = func() []Tab {
	tabs := []Tab{{Name: "All"}}
	for _, p := range model.Priorities {
		tabs = append(tabs, Tab{Name: p.String(), Priority: &p})
	}
	return tabs
}()

// Model is the main task list view component. It holds the full snapshot
// from the store and derives the visible rows through the query engine.
type Model struct {
	list        list.Model
	keys        *keys.KeyMap
	delegate    ItemDelegate
	tasks       []model.Task
	tab         int
	search      string
	searchMode  bool
	searchInput textinput.Model
	now         func() time.Time
	width       int
	height      int
}

// New creates a new task list model.
func New(k *keys.KeyMap, width, height int) Model {
	delegate := ItemDelegate{dateFormat: DefaultDateFormat}
	l := list.New([]list.Item{}, delegate, width, listHeight(height))
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	si := textinput.New()
	si.Placeholder = "search titles..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		keys:        k,
		delegate:    delegate,
		searchInput: si,
		now:         time.Now,
		width:       width,
		height:      height,
	}
}

// SetClock overrides the clock used to resolve row status.
func (m *Model) SetClock(now func() time.Time) {
	m.now = now
	m.refresh()
}

// SetDateFormat sets the Go time layout used for due dates.
func (m *Model) SetDateFormat(layout string) {
	if layout == "" {
		layout = DefaultDateFormat
	}
	m.delegate.dateFormat = layout
	m.list.SetDelegate(m.delegate)
}

// SetRowSpacing toggles a blank line between rows.
func (m *Model) SetRowSpacing(on bool) {
	m.delegate.spacing = 0
	if on {
		m.delegate.spacing = 1
	}
	m.list.SetDelegate(m.delegate)
}

// RowSpacing reports whether rows are spaced out.
func (m Model) RowSpacing() bool {
	return m.delegate.spacing > 0
}

// SetTasks replaces the snapshot and recomputes the visible rows.
func (m *Model) SetTasks(tasks []model.Task) {
	m.tasks = tasks
	m.refresh()
}

// Tasks returns the full snapshot the list was last given.
func (m Model) Tasks() []model.Task {
	return m.tasks
}

// SetTabByName selects the tab whose name matches (case-insensitive).
func (m *Model) SetTabByName(name string) error {
	p, err := query.ParsePriorityFilter(name)
	if err != nil {
		return err
	}
	for i, t := range Tabs {
		if (t.Priority == nil && p == nil) || (t.Priority != nil && p != nil && *t.Priority == *p) {
			m.setTab(i)
			return nil
		}
	}
	return fmt.Errorf("unknown tab %q", name)
}

// Tab returns the active tab.
func (m Model) Tab() Tab {
	return Tabs[m.tab]
}

// Title returns the header title for the active tab.
func (m Model) Title() string {
	return "My tasks - " + m.Tab().Name
}

// Filter returns the query for the current tab and search text.
func (m Model) Filter() query.Filter {
	return query.Filter{Priority: m.Tab().Priority, Search: m.search}
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// Visible returns the rows currently shown, in display order.
func (m Model) Visible() []TaskItem {
	items := m.list.Items()
	out := make([]TaskItem, 0, len(items))
	for _, it := range items {
		if ti, ok := it.(TaskItem); ok {
			out = append(out, ti)
		}
	}
	return out
}

// SelectedItem returns the focused row.
func (m Model) SelectedItem() (TaskItem, bool) {
	ti, ok := m.list.SelectedItem().(TaskItem)
	return ti, ok
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode. The list is
// filtered as the user types.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Blur()
		m.searchInput.Reset()
		m.search = ""
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if v := m.searchInput.Value(); v != m.search {
		m.search = v
		m.refresh()
	}
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.search)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Back):
		if m.search != "" {
			m.search = ""
			m.searchInput.Reset()
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		m.setTab((m.tab + 1) % len(Tabs))
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.setTab((m.tab + len(Tabs) - 1) % len(Tabs))
		return m, nil

	case key.Matches(msg, m.keys.TabAll):
		m.setTab(0)
		return m, nil
	case key.Matches(msg, m.keys.TabLow):
		m.setTab(1)
		return m, nil
	case key.Matches(msg, m.keys.TabMedium):
		m.setTab(2)
		return m, nil
	case key.Matches(msg, m.keys.TabHigh):
		m.setTab(3)
		return m, nil
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) setTab(i int) {
	if i == m.tab {
		return
	}
	m.tab = i
	m.refresh()
	m.list.Select(0)
}

// refresh re-runs the query over the snapshot, keeping the selection on
// the same task when it is still visible.
func (m *Model) refresh() {
	selectedID := ""
	if ti, ok := m.SelectedItem(); ok {
		selectedID = ti.Task.ID
	}

	now := m.now()
	visible := query.Apply(m.tasks, m.Filter())
	items := make([]list.Item, len(visible))
	selected := 0
	for i, t := range visible {
		items[i] = newItem(t, now)
		if t.ID == selectedID {
			selected = i
		}
	}
	m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(selected)
	}
}

// View renders the tabs, search bar and rows.
func (m Model) View() string {
	tabs := m.renderTabs()

	var searchBar string
	switch {
	case m.searchMode:
		searchBar = m.searchInput.View()
	case m.search != "":
		searchBar = theme.HelpStyle.Render(fmt.Sprintf("search: %q (esc to clear)", m.search))
	}
	searchBar = lipgloss.NewStyle().Padding(0, 1).Render(searchBar)

	body := m.list.View()
	if len(m.list.Items()) == 0 {
		body = m.renderEmptyState()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabs, searchBar, body)
}

func (m Model) renderTabs() string {
	parts := make([]string, len(Tabs))
	for i, t := range Tabs {
		style := theme.TabStyle
		if i == m.tab {
			style = theme.ActiveTabStyle
		}
		parts[i] = style.Render(fmt.Sprintf("%d %s", i+1, t.Name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// renderEmptyState shows guidance text when no rows are visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(listHeight(m.height)).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if len(m.tasks) > 0 {
		return style.Render("No matching tasks.\nTry another tab or search.")
	}
	return style.Render("No tasks yet.\n\nPress " + strings.Join(m.keys.New.Keys(), "/") + " to add one.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, listHeight(height))
	m.searchInput.Width = width - 4
}

// listHeight leaves room for the tab row and the search line.
func listHeight(height int) int {
	h := height - 2
	if h < 1 {
		return 1
	}
	return h
}
