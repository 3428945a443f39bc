package model

import "time"

// Status is the derived display state of a task. It is never persisted.
type Status int

const (
	StatusPending Status = iota
	StatusOverdue
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusOverdue:
		return "overdue"
	default:
		return "pending"
	}
}

// ResolveStatus classifies t relative to now. A done task is always
// StatusDone; a task without a due date is never StatusOverdue.
func ResolveStatus(t Task, now time.Time) Status {
	if t.IsDone() {
		return StatusDone
	}
	if t.PastDue(now) {
		return StatusOverdue
	}
	return StatusPending
}
