package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/todo-manager/internal/keys"
	"github.com/nhle/todo-manager/internal/model"
	"github.com/nhle/todo-manager/internal/store"
	"github.com/nhle/todo-manager/internal/theme"
	"github.com/nhle/todo-manager/internal/ui"
	helpview "github.com/nhle/todo-manager/internal/ui/help"
	"github.com/nhle/todo-manager/internal/ui/settings"
	"github.com/nhle/todo-manager/internal/ui/taskform"
	"github.com/nhle/todo-manager/internal/ui/tasklist"
	"github.com/nhle/todo-manager/internal/watch"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewCreate
	ViewEdit
	ViewSettings
	ViewHelp
)

// Options tune the root model. Zero values fall back to defaults.
type Options struct {
	// DateFormat is the Go layout used for due dates in the list.
	DateFormat string
	// DefaultFilter is the priority tab shown at startup.
	DefaultFilter string
	// Watcher, when set, triggers a reload after other processes write
	// to the database.
	Watcher *watch.Watcher
	// Now is the clock used for status and due-date validation.
	Now func() time.Time
	// DarkDefault decides the theme before the user has chosen one.
	DarkDefault func() bool
}

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the task and preference stores.
type Model struct {
	currentView   ViewState
	previousView  ViewState
	layout        ui.Layout
	store         store.Store
	keys          *keys.KeyMap
	taskList      tasklist.Model
	form          taskform.Model
	settingsView  settings.Model
	helpView      helpview.Model
	watcher       *watch.Watcher
	now           func() time.Time
	darkDefault   func() bool
	prefs         settings.Values
	pendingDelete *model.Task
	notice        string
	ready         bool
}

// New creates a new root application model backed by s.
func New(s store.Store, opts Options) Model {
	k := keys.DefaultKeyMap()
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DarkDefault == nil {
		opts.DarkDefault = theme.DetectDark
	}

	list := tasklist.New(k, 80, 24)
	list.SetClock(opts.Now)
	list.SetDateFormat(opts.DateFormat)
	if opts.DefaultFilter != "" {
		if err := list.SetTabByName(opts.DefaultFilter); err != nil {
			log.WithError(err).Warn("ignoring default filter")
		}
	}

	form := taskform.New(80, 24)
	form.SetClock(opts.Now)

	return Model{
		currentView:  ViewList,
		store:        s,
		keys:         k,
		taskList:     list,
		form:         form,
		settingsView: settings.New(80, 24),
		helpView:     helpview.New(k, 80, 24),
		watcher:      opts.Watcher,
		now:          opts.Now,
		darkDefault:  opts.DarkDefault,
	}
}

// Init loads tasks and preferences and starts listening for external
// database changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadTasks(),
		m.loadPrefs(),
		waitForChange(m.watcher),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.taskList.SetSize(contentWidth, contentHeight)
		m.form.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case tasksLoadedMsg:
		m.taskList.SetTasks(msg.tasks)
		return m, nil

	case prefsLoadedMsg:
		m.applyPrefs(msg.values)
		return m, nil

	case prefsSavedMsg:
		return m, nil

	case errMsg:
		m.notice = describeError(msg.err)
		log.WithError(msg.err).WithField("op", msg.op).Warn("operation failed")
		if errors.Is(msg.err, store.ErrNotFound) {
			return m, m.reloadTasks()
		}
		return m, nil

	case dbChangedMsg:
		return m, tea.Batch(m.reloadTasks(), waitForChange(m.watcher))

	case taskform.CreatedMsg:
		m.currentView = ViewList
		return m, m.createTask(msg.Draft)

	case taskform.UpdatedMsg:
		m.currentView = ViewList
		return m, m.updateTask(msg.ID, msg.Patch)

	case taskform.CancelMsg:
		m.currentView = ViewList
		return m, nil

	case settings.SavedMsg:
		m.currentView = ViewList
		m.applyPrefs(msg.Values)
		return m, m.savePrefs(msg.Values)

	case settings.ClosedMsg:
		m.currentView = ViewList
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		switch m.currentView {
		case ViewList:
			return m.handleListKeys(msg)
		case ViewHelp:
			if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Quit) {
				m.currentView = m.previousView
				return m, nil
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleListKeys handles global actions on the list view. Keys are passed
// through to the list while its search input has focus.
func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.taskList.Searching() {
		return m.updateActiveView(msg)
	}
	m.notice = ""

	if m.pendingDelete != nil {
		task := *m.pendingDelete
		m.pendingDelete = nil
		if key.Matches(msg, m.keys.Confirm) {
			return m, m.deleteTask(task.ID)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.currentView = ViewCreate
		return m, m.form.StartCreate()

	case key.Matches(msg, m.keys.Edit):
		item, ok := m.taskList.SelectedItem()
		if !ok {
			return m, nil
		}
		if item.Locked {
			m.notice = "Past-due tasks can't be edited"
			return m, nil
		}
		m.currentView = ViewEdit
		return m, m.form.StartEdit(item.Task)

	case key.Matches(msg, m.keys.Toggle):
		item, ok := m.taskList.SelectedItem()
		if !ok {
			return m, nil
		}
		return m, m.toggleDone(item.Task)

	case key.Matches(msg, m.keys.Delete):
		item, ok := m.taskList.SelectedItem()
		if ok {
			task := item.Task
			m.pendingDelete = &task
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.reloadTasks()

	case key.Matches(msg, m.keys.Settings):
		m.currentView = ViewSettings
		return m, m.settingsView.Start(m.prefs)
	}

	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewCreate, ViewEdit:
		m.form, cmd = m.form.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

func (m *Model) applyPrefs(v settings.Values) {
	m.prefs = v
	theme.Apply(v.DarkMode)
	m.taskList.SetRowSpacing(v.RowSpacing)
}

func (m Model) quit() tea.Cmd {
	if m.watcher != nil {
		if err := m.watcher.Stop(); err != nil {
			log.WithError(err).Warn("stopping watcher")
		}
	}
	return tea.Quit
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := "My tasks"
	if m.currentView == ViewList {
		title = m.taskList.Title()
	}
	summary := fmt.Sprintf("%d of %d tasks", len(m.taskList.Visible()), len(m.taskList.Tasks()))

	header := m.layout.RenderHeader(title, summary)
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.notice)

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.taskList.View()
	case ViewCreate, ViewEdit:
		return m.form.View()
	case ViewSettings:
		return m.settingsView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.pendingDelete != nil {
		return fmt.Sprintf("Delete %q? y confirm | any other key cancels", m.pendingDelete.Title)
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCreate, ViewEdit:
		return "enter next/submit | esc cancel"
	case ViewSettings:
		return "←/→ toggle | enter next/save | esc cancel"
	default:
		if m.taskList.Searching() {
			return "type to filter | enter keep | esc clear"
		}
		return "q quit | ? help | n new | e edit | x done | d delete | / search | tab priority | s settings"
	}
}
