package tasklist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo-manager/internal/model"
	"github.com/nhle/todo-manager/internal/theme"
)

// TaskItem wraps a model.Task with its resolved status so it can be used
// in a bubbles/list.
type TaskItem struct {
	Task   model.Task
	Status model.Status
	// Locked is set for past-due tasks, which can no longer be edited.
	Locked bool
}

// FilterValue returns the string used for list filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Task.Title }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	return strings.Join([]string{
		string(i.Task.Category),
		i.Task.Priority.String(),
		i.Status.String(),
	}, " | ")
}

// newItem annotates t for display at now.
func newItem(t model.Task, now time.Time) TaskItem {
	return TaskItem{
		Task:   t,
		Status: model.ResolveStatus(t, now),
		Locked: t.PastDue(now),
	}
}

// ItemDelegate implements list.ItemDelegate for rendering task rows.
type ItemDelegate struct {
	spacing    int
	dateFormat string
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return d.spacing }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	fmt.Fprint(w, d.renderRow(ti, index == m.Index()))
}

func (d ItemDelegate) renderRow(ti TaskItem, selected bool) string {
	check := "○"
	if ti.Status == model.StatusDone {
		check = "✓"
	}

	pri := theme.PriorityStyle(ti.Task.Priority).Render(fmt.Sprintf("%-6s", ti.Task.Priority))
	status := theme.StatusStyle(ti.Status).Render(strings.ToUpper(ti.Status.String()))
	category := theme.DueDateStyle.Render("[" + string(ti.Task.Category) + "]")

	due := ""
	if ti.Task.DueDate != nil {
		due = theme.DueDateStyle.Render(" due " + ti.Task.DueDate.Local().Format(d.dateFormat))
	}

	line := fmt.Sprintf("%s %s %s %s%s %s", check, pri, ti.Task.Title, category, due, status)

	switch {
	case selected:
		return theme.SelectedItemStyle.Render(line)
	case ti.Locked:
		return theme.ListItemStyle.Inherit(theme.LockedItemStyle).Render(line)
	default:
		return theme.ListItemStyle.Render(line)
	}
}
