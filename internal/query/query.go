// Package query derives the visible task list from a snapshot of the store.
package query

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/search"

	"github.com/nhle/todo-manager/internal/model"
)

// FilterAll is the priority filter name that keeps every task.
const FilterAll = "all"

// Filter holds the list view criteria. A nil Priority keeps every priority;
// an empty Search keeps every title.
type Filter struct {
	Priority *model.Priority
	Search   string
}

// Apply returns the tasks that satisfy f, ordered by due date. Tasks
// without a due date come last; ties are broken by creation time and then
// by id. The input slice is never modified.
func Apply(tasks []model.Task, f Filter) []model.Task {
	m := newMatcher()

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !f.matchesPriority(t) || !m.contains(t.Title, f.Search) {
			continue
		}
		out = append(out, t)
	}

	slices.SortStableFunc(out, Compare)
	return out
}

// Compare orders tasks for display.
func Compare(a, b model.Task) int {
	switch {
	case a.DueDate == nil && b.DueDate != nil:
		return 1
	case a.DueDate != nil && b.DueDate == nil:
		return -1
	case a.DueDate != nil && b.DueDate != nil:
		if c := a.DueDate.Compare(*b.DueDate); c != 0 {
			return c
		}
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// ParsePriorityFilter maps a tab or flag value to a priority filter.
// "all" (or empty) yields nil.
func ParsePriorityFilter(s string) (*model.Priority, error) {
	if s == "" || strings.EqualFold(strings.TrimSpace(s), FilterAll) {
		return nil, nil
	}
	p, err := model.ParsePriority(s)
	if err != nil {
		return nil, fmt.Errorf("parsing priority filter: %w", err)
	}
	return &p, nil
}

func (f Filter) matchesPriority(t model.Task) bool {
	return f.Priority == nil || t.Priority == *f.Priority
}

type matcher struct {
	m *search.Matcher
}

// newMatcher builds a collation-based matcher that ignores case and
// diacritics, so "cafe" finds "Café" and "MILK" finds "Buy milk".
func newMatcher() matcher {
	return matcher{m: search.New(language.Und, search.IgnoreCase, search.IgnoreDiacritics)}
}

func (m matcher) contains(title, pattern string) bool {
	if pattern == "" {
		return true
	}
	start, _ := m.m.IndexString(title, pattern)
	return start >= 0
}
