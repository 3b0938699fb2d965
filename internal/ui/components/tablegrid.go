package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TableColumn is one column of a grid. Width excludes the separator.
type TableColumn struct {
	Header string
	Width  int
	Align  lipgloss.Position
}

// tableGridLeftOffset is the indent before the first column. Column
// hit-testing in ResizableTable counts from the same origin.
const tableGridLeftOffset = 2

var (
	gridLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#273540"))
	gridHeaderStyle = boxLabelStyle.Bold(true)
	gridActiveRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#d7d9da")).
				Background(lipgloss.Color("#1f2530")).
				Bold(true)
	gridActiveSepStyle = gridLineStyle.
				Background(lipgloss.Color("#1f2530"))
)

// TableGrid renders a header, a rule and rows, stretching or squeezing the
// last column so each line is exactly tableWidth cells wide.
func TableGrid(columns []TableColumn, rows [][]string, tableWidth int) string {
	if tableWidth <= 0 {
		return ""
	}
	if len(columns) == 0 {
		return padRight("", tableWidth)
	}
	b := lipgloss.RoundedBorder()
	cols := fitGridColumns(columns, tableWidth)

	out := make([]string, 0, len(rows)+2)
	out = append(out,
		renderGridRow(cols, headerCells(cols), b.Left, tableWidth, true, false),
		renderGridRule(cols, b.Middle, b.Top, tableWidth))
	for _, row := range rows {
		out = append(out, renderGridRow(cols, row, b.Left, tableWidth, false, false))
	}
	return strings.Join(out, "\n")
}

func headerCells(columns []TableColumn) []string {
	cells := make([]string, len(columns))
	for i, c := range columns {
		cells[i] = SanitizeOneLine(c.Header)
	}
	return cells
}

func fitGridColumns(columns []TableColumn, tableWidth int) []TableColumn {
	cols := make([]TableColumn, len(columns))
	used := tableGridLeftOffset + len(columns) - 1
	for i, c := range columns {
		c.Width = max(c.Width, 1)
		cols[i] = c
		used += c.Width
	}
	last := &cols[len(cols)-1]
	last.Width = max(last.Width+tableWidth-used, 1)
	return cols
}

func renderGridRow(columns []TableColumn, cells []string, sep string, tableWidth int, header, active bool) string {
	sepStyle := gridLineStyle
	if active {
		sepStyle = gridActiveSepStyle
	}
	styledSep := sepStyle.Inline(true).Render(sep)

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", tableGridLeftOffset))
	for i, col := range columns {
		if i > 0 {
			b.WriteString(styledSep)
		}
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		cell := renderGridCell(text, col.Width, col.Align)
		switch {
		case header:
			cell = gridHeaderStyle.Inline(true).Render(cell)
		case active:
			cell = gridActiveRowStyle.Inline(true).Render(cell)
		}
		b.WriteString(cell)
	}
	return padRight(b.String(), tableWidth)
}

func renderGridRule(columns []TableColumn, cross, horiz string, tableWidth int) string {
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = strings.Repeat(horiz, max(col.Width, 1))
	}
	line := strings.Repeat(" ", tableGridLeftOffset) + strings.Join(parts, cross)
	return gridLineStyle.Inline(true).Render(padRight(line, tableWidth))
}

// renderGridCell clamps text to width and pads it per align.
func renderGridCell(text string, width int, align lipgloss.Position) string {
	if width <= 0 {
		return ""
	}
	text = ClampTextWidth(text, width)
	gap := width - lipgloss.Width(text)
	if gap <= 0 {
		return truncateRunes(text, width)
	}
	switch align {
	case lipgloss.Right:
		return strings.Repeat(" ", gap) + text
	case lipgloss.Center:
		return strings.Repeat(" ", gap/2) + text + strings.Repeat(" ", gap-gap/2)
	}
	return text + strings.Repeat(" ", gap)
}
