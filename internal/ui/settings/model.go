// Package settings is the display preferences screen.
package settings

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-manager/internal/theme"
)

// Values are the display preferences edited on this screen.
type Values struct {
	RowSpacing bool
	DarkMode   bool
}

// SavedMsg is dispatched when the user confirms the settings.
type SavedMsg struct {
	Values Values
}

// ClosedMsg is dispatched when the user leaves without saving.
type ClosedMsg struct{}

// Model is the settings form.
type Model struct {
	form   *huh.Form
	values *Values
	width  int
	height int
}

// New creates a settings model.
func New(width, height int) Model {
	return Model{values: &Values{}, width: width, height: height}
}

// Start opens the form prefilled with current.
func (m *Model) Start(current Values) tea.Cmd {
	*m.values = current
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Row spacing").
				Description("Add a blank line between tasks.").
				Affirmative("On").
				Negative("Off").
				Value(&m.values.RowSpacing),
			huh.NewConfirm().
				Title("Dark mode").
				Description("Use the dark color theme.").
				Affirmative("On").
				Negative("Off").
				Value(&m.values.DarkMode),
		),
	).WithWidth(m.formWidth())
	return m.form.Init()
}

// Update handles messages for the settings form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		v := *m.values
		return m, func() tea.Msg { return SavedMsg{Values: v} }
	case huh.StateAborted:
		return m, func() tea.Msg { return ClosedMsg{} }
	}
	return m, cmd
}

// View renders the settings panel.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Settings")

	return theme.PanelStyle.
		Width(m.formWidth()).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, m.form.View()))
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 6
	if w < 30 {
		w = 30
	}
	if w > 70 {
		w = 70
	}
	return w
}
