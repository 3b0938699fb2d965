package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7f57b4")).
			Padding(1, 2).
			Width(44)
	dialogTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#7f57b4")).
				Bold(true)
	dialogBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ba0bf"))
	dialogFieldStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#d7d9da")).
				Background(lipgloss.Color("#1f2530"))
)

func dialog(title string, body []string, hints ...string) string {
	parts := []string{dialogTitleStyle.Render(SanitizeOneLine(title)), ""}
	parts = append(parts, body...)
	if len(hints) > 0 {
		parts = append(parts, "", strings.Join(hints, hintGap))
	}
	return dialogStyle.Render(strings.Join(parts, "\n"))
}

// ConfirmDialog asks a yes/no question answered with y or n.
func ConfirmDialog(title, message string) string {
	return dialog(title,
		[]string{dialogBodyStyle.Render(SanitizeText(message))},
		Hint("y", "Confirm"), Hint("n", "Cancel"))
}

// InputDialog prompts for a short value. note, when set, is shown under
// the field (the accepted range, for instance).
func InputDialog(title, input, note string) string {
	body := []string{dialogFieldStyle.Render("> " + SanitizeOneLine(input) + "█")}
	if note != "" {
		body = append(body, dialogBodyStyle.Render(note))
	}
	return dialog(title, body, Hint("enter", "Go"), Hint("esc", "Cancel"))
}
