package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-manager/internal/theme"
)

// Layout manages the terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.StatusBarHeight
	if h < 0 {
		return 0
	}
	return h
}

// RenderHeader renders the title bar with a right-aligned summary such as
// the visible task count.
func (l Layout) RenderHeader(title, summary string) string {
	return fillRow(l.Width, theme.HeaderStyle, theme.HeaderStyle.Render(title), summary)
}

// RenderStatusBar renders the bottom bar with keyboard hints. A non-empty
// notice replaces the hints and is highlighted.
func (l Layout) RenderStatusBar(hints, notice string) string {
	if notice != "" {
		return fillRow(l.Width, theme.NoticeStyle, theme.NoticeStyle.Render(notice), "")
	}
	return fillRow(l.Width, theme.StatusBarStyle, theme.StatusBarStyle.Render(hints), "")
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}

// fillRow pads left with style's background so the bar spans width, placing
// right (if any) at the far end.
func fillRow(width int, style lipgloss.Style, left, right string) string {
	rightRendered := ""
	if right != "" {
		rightRendered = style.Align(lipgloss.Right).Render(right)
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(rightRendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, rightRendered)
}
