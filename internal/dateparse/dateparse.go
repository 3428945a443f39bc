// Package dateparse turns user-typed due dates into timestamps. It accepts
// ISO dates ("2026-05-01", "2026-05-01 17:30") and English phrases such as
// "tomorrow 5pm" or "next friday".
package dateparse

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var (
	// ErrUnrecognized is returned when no layout or phrase matches.
	ErrUnrecognized = errors.New("unrecognized date")
	// ErrPast is returned by ParseFuture for dates before the base time.
	ErrPast = errors.New("date is in the past")
)

// dateOnly is given an end-of-day time so "today" is not already overdue.
const dateOnly = "2006-01-02"

var layouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05Z07:00",
}

// Parser parses due dates relative to a base time.
type Parser struct {
	w *when.Parser
}

// New returns a Parser with the English and common rule sets loaded.
func New() *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{w: w}
}

var defaultParser = New()

// Parse parses s with the default parser.
func Parse(s string, base time.Time) (time.Time, error) {
	return defaultParser.Parse(s, base)
}

// ParseFuture parses s with the default parser and rejects results before base.
func ParseFuture(s string, base time.Time) (time.Time, error) {
	return defaultParser.ParseFuture(s, base)
}

// Parse interprets s in base's location. Natural-language phrases are
// resolved relative to base.
func (p *Parser) Parse(s string, base time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty input", ErrUnrecognized)
	}

	loc := base.Location()
	if d, err := time.ParseInLocation(dateOnly, s, loc); err == nil {
		return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 0, 0, loc), nil
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	r, err := p.w.Parse(s, base)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, s)
	}
	return r.Time, nil
}

// ParseFuture is Parse that also rejects dates earlier than base.
func (p *Parser) ParseFuture(s string, base time.Time) (time.Time, error) {
	t, err := p.Parse(s, base)
	if err != nil {
		return time.Time{}, err
	}
	if t.Before(base) {
		return time.Time{}, fmt.Errorf("%w: %s", ErrPast, t.Format("2006-01-02 15:04"))
	}
	return t, nil
}
