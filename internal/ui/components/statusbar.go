package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	keyCapStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#16161d")).
			Background(lipgloss.Color("#888ba4")).
			Bold(true).
			Padding(0, 1)
	hintDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ba0bf"))
	statusLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#d7d9da")).
				Background(lipgloss.Color("#273540")).
				Padding(0, 1)
	statusBarStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)

const hintGap = "  "

// StatusBar renders the page status followed by key hints, wrapped so no
// row is wider than width. Width <= 0 keeps everything on one row.
func StatusBar(status string, hints []string, width int) string {
	segments := make([]string, 0, len(hints)+1)
	if status = SanitizeOneLine(status); status != "" {
		segments = append(segments, statusLabelStyle.Render(status))
	}
	segments = append(segments, hints...)
	if len(segments) == 0 {
		return ""
	}
	inner := width
	if width > 0 {
		inner = max(width-statusBarStyle.GetPaddingLeft(), 1)
	}
	return statusBarStyle.Render(strings.Join(wrapSegments(segments, inner, hintGap), "\n"))
}

// Hint formats one key binding as a key cap followed by its action.
func Hint(key, desc string) string {
	return keyCapStyle.Render(key) + " " + hintDescStyle.Render(desc)
}

// wrapSegments packs single-line segments into rows joined by gap.
func wrapSegments(segments []string, width int, gap string) []string {
	if width <= 0 {
		return []string{strings.Join(segments, gap)}
	}
	gapW := lipgloss.Width(gap)
	var rows []string
	var row strings.Builder
	rowW := 0
	for _, seg := range segments {
		w := lipgloss.Width(seg)
		if rowW > 0 && rowW+gapW+w > width {
			rows = append(rows, row.String())
			row.Reset()
			rowW = 0
		}
		if rowW > 0 {
			row.WriteString(gap)
			rowW += gapW
		}
		row.WriteString(seg)
		rowW += w
	}
	if rowW > 0 {
		rows = append(rows, row.String())
	}
	return rows
}
