package model

import (
	"fmt"
	"strings"
	"time"
)

// Priority is the ordered urgency of a task. Lower values are less urgent.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

// Priorities lists every priority in ascending order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// String returns the display name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// MarshalText implements encoding.TextMarshaler.
func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return []byte(strings.ToLower(p.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Priority) UnmarshalText(b []byte) error {
	v, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePriority parses a priority name, ignoring case.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	}
	return 0, fmt.Errorf("unknown priority %q (want low, medium or high)", s)
}

// Category is a free classification tag for a task.
type Category string

const (
	CategoryGeneral  Category = "General"
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryShopping Category = "Shopping"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryGeneral, CategoryWork, CategoryPersonal, CategoryShopping}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %q", string(c))
	}
	return []byte(strings.ToLower(string(c))), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	v, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseCategory parses a category name, ignoring case.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (want general, work, personal or shopping)", s)
}

// DoneState records whether a task has been marked done. A task that was
// never marked is distinct from one explicitly marked as not done.
type DoneState int

const (
	DoneUnset DoneState = iota
	DoneNotDone
	DoneDone
)

// String returns the display name of the state.
func (d DoneState) String() string {
	switch d {
	case DoneUnset:
		return "unset"
	case DoneNotDone:
		return "not done"
	case DoneDone:
		return "done"
	default:
		return fmt.Sprintf("DoneState(%d)", int(d))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d DoneState) MarshalText() ([]byte, error) {
	switch d {
	case DoneUnset:
		return []byte("unset"), nil
	case DoneNotDone:
		return []byte("false"), nil
	case DoneDone:
		return []byte("true"), nil
	}
	return nil, fmt.Errorf("invalid done state %d", int(d))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DoneState) UnmarshalText(b []byte) error {
	v, err := ParseDoneState(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDoneState accepts true/false/unset and their common spellings.
func ParseDoneState(s string) (DoneState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unset", "none":
		return DoneUnset, nil
	case "false", "no", "n", "not-done", "not done", "0":
		return DoneNotDone, nil
	case "true", "yes", "y", "done", "1":
		return DoneDone, nil
	}
	return DoneUnset, fmt.Errorf("unknown done state %q (want true, false or unset)", s)
}

// Task is a single trackable to-do item.
type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Done      DoneState  `json:"is_done"`
	Category  Category   `json:"category"`
	Priority  Priority   `json:"priority"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// IsDone reports whether the task has been explicitly marked done.
func (t Task) IsDone() bool { return t.Done == DoneDone }

// PastDue reports whether the task has a due date earlier than now,
// regardless of its done state.
func (t Task) PastDue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now)
}

// Draft carries the user-supplied fields for a new task.
type Draft struct {
	Title    string
	Category Category
	Priority Priority
	DueDate  *time.Time
}

// Patch carries the replacement values for every mutable field of a task.
// A Done value of DoneUnset clears the done flag.
type Patch struct {
	Title    string
	Category Category
	Priority Priority
	DueDate  *time.Time
	Done     DoneState
}

// PatchFrom returns a Patch that leaves t unchanged when applied.
func PatchFrom(t Task) Patch {
	return Patch{
		Title:    t.Title,
		Category: t.Category,
		Priority: t.Priority,
		DueDate:  t.DueDate,
		Done:     t.Done,
	}
}
