package taskform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-manager/internal/dateparse"
	"github.com/nhle/todo-manager/internal/model"
	"github.com/nhle/todo-manager/internal/theme"
)

// dueLayout is how an existing due date is shown in the edit form.
const dueLayout = "2006-01-02 15:04"

// CreatedMsg is dispatched when the create form is submitted.
type CreatedMsg struct {
	Draft model.Draft
}

// UpdatedMsg is dispatched when the edit form is submitted.
type UpdatedMsg struct {
	ID    string
	Patch model.Patch
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title    string
	category model.Category
	priority model.Priority
	dueDate  string
	done     model.DoneState
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   string
	now      func() time.Time
	width    int
	height   int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{category: model.CategoryGeneral, priority: model.PriorityMedium},
		now:    time.Now,
		width:  width,
		height: height,
	}
}

// SetClock overrides the clock used to validate due dates.
func (m *Model) SetClock(now func() time.Time) {
	m.now = now
}

// StartCreate initializes the form for creating a new task.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = ""
	*m.fb = formBindings{category: model.CategoryGeneral, priority: model.PriorityMedium}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing task.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.editMode = true
	m.editID = task.ID
	*m.fb = formBindings{
		title:    task.Title,
		category: task.Category,
		priority: task.Priority,
		done:     task.Done,
	}
	if task.DueDate != nil {
		m.fb.dueDate = task.DueDate.Local().Format(dueLayout)
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Editing reports whether the form edits an existing task.
func (m Model) Editing() bool {
	return m.editMode
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editMode {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What needs to be done?").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewSelect[model.Category]().
			Title("Category").
			Options(categoryOptions()...).
			Value(&m.fb.category),
		huh.NewSelect[model.Priority]().
			Title("Priority").
			Options(priorityOptions()...).
			Value(&m.fb.priority),
		huh.NewInput().
			Title("Due Date").
			Placeholder("YYYY-MM-DD, YYYY-MM-DD HH:MM or \"tomorrow 5pm\" (optional)").
			Value(&m.fb.dueDate).
			Validate(m.validateDue),
	}
	if m.editMode {
		fields = append(fields,
			huh.NewSelect[model.DoneState]().
				Title("Done").
				Options(
					huh.NewOption("Not set", model.DoneUnset),
					huh.NewOption("Not done", model.DoneNotDone),
					huh.NewOption("Done", model.DoneDone),
				).
				Value(&m.fb.done),
		)
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func categoryOptions() []huh.Option[model.Category] {
	opts := make([]huh.Option[model.Category], len(model.Categories))
	for i, c := range model.Categories {
		opts[i] = huh.NewOption(string(c), c)
	}
	return opts
}

func priorityOptions() []huh.Option[model.Priority] {
	opts := make([]huh.Option[model.Priority], len(model.Priorities))
	for i, p := range model.Priorities {
		opts[i] = huh.NewOption(p.String(), p)
	}
	return opts
}

func (m Model) handleSubmit() tea.Cmd {
	due, err := m.parseDue(m.fb.dueDate)
	if err != nil {
		// The due time passed while the form was open.
		return func() tea.Msg { return CancelMsg{} }
	}

	if m.editMode {
		msg := UpdatedMsg{
			ID: m.editID,
			Patch: model.Patch{
				Title:    m.fb.title,
				Category: m.fb.category,
				Priority: m.fb.priority,
				DueDate:  due,
				Done:     m.fb.done,
			},
		}
		return func() tea.Msg { return msg }
	}

	msg := CreatedMsg{Draft: model.Draft{
		Title:    m.fb.title,
		Category: m.fb.category,
		Priority: m.fb.priority,
		DueDate:  due,
	}}
	return func() tea.Msg { return msg }
}

// parseDue returns nil for an empty input. Due dates must not be in the past.
func (m Model) parseDue(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	now := m.now()
	t, err := dateparse.ParseFuture(s, now.In(time.Local))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (m Model) validateDue(s string) error {
	if _, err := m.parseDue(s); err != nil {
		return fmt.Errorf("invalid due date: %w", err)
	}
	return nil
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
