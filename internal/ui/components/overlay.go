package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Overlay draws over on top of base with its top-left corner at column x,
// line y. Base lines are padded when the overlay reaches past them.
func Overlay(base, over string, x, y int) string {
	if over == "" {
		return base
	}
	x, y = max(x, 0), max(y, 0)
	lines := strings.Split(base, "\n")
	overLines := strings.Split(over, "\n")
	for len(lines) < y+len(overLines) {
		lines = append(lines, "")
	}
	for i, ol := range overLines {
		line := lines[y+i]
		w := lipgloss.Width(ol)
		left := ansi.Truncate(line, x, "")
		if pad := x - lipgloss.Width(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		right := ""
		if lipgloss.Width(line) > x+w {
			right = ansi.TruncateLeft(line, x+w, "")
		}
		lines[y+i] = left + ol + right
	}
	return strings.Join(lines, "\n")
}
