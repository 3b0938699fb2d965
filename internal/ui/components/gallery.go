package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Card is the gallery rendering of one row.
type Card struct {
	Title    string
	Subtitle string
	Lines    []string
}

const (
	galleryCardWidth = 30
	galleryCardLines = 4
	galleryGap       = 1
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#273540")).
			Padding(0, 1)
	cardActiveStyle = cardStyle.
			BorderForeground(lipgloss.Color("#7f57b4"))
	cardTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d7d9da")).
			Bold(true)
	cardSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#9ba0bf"))
)

// Gallery lays rows out as a grid of cards.
type Gallery[T any] struct {
	StorageKey string
	EmptyText  string

	rows   []T
	cardFn func(T) Card
	keyFn  func(T) string

	width  int
	height int
	cursor int
	offset int // first visible card row
}

// NewGallery builds a gallery. storageKey identifies the directory in click
// messages.
func NewGallery[T any](storageKey string, cardFn func(T) Card, keyFn func(T) string) *Gallery[T] {
	return &Gallery[T]{
		StorageKey: storageKey,
		EmptyText:  "No results match the current filters.",
		cardFn:     cardFn,
		keyFn:      keyFn,
	}
}

func (g *Gallery[T]) SetRows(rows []T) {
	g.rows = rows
	if g.cursor >= len(rows) {
		g.cursor = max(len(rows)-1, 0)
	}
	g.ensureVisible()
}

func (g *Gallery[T]) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.ensureVisible()
}

func (g *Gallery[T]) Cursor() int { return g.cursor }

// RowKeys returns the key of every row in order.
func (g *Gallery[T]) RowKeys() []string {
	keys := make([]string, len(g.rows))
	for i, r := range g.rows {
		keys[i] = g.keyFn(r)
	}
	return keys
}

func (g *Gallery[T]) Selected() (T, bool) {
	var zero T
	if g.cursor < 0 || g.cursor >= len(g.rows) {
		return zero, false
	}
	return g.rows[g.cursor], true
}

func (g *Gallery[T]) cardOuterWidth() int {
	return galleryCardWidth + 2 + galleryGap
}

func (g *Gallery[T]) cardOuterHeight() int {
	return galleryCardLines + 2
}

// PerRow returns how many cards fit side by side.
func (g *Gallery[T]) PerRow() int {
	if g.width <= 0 {
		return 3
	}
	return max(g.width/g.cardOuterWidth(), 1)
}

func (g *Gallery[T]) visibleCardRows() int {
	if g.height <= 0 {
		return max((len(g.rows)+g.PerRow()-1)/g.PerRow(), 1)
	}
	return max(g.height/g.cardOuterHeight(), 1)
}

func (g *Gallery[T]) ensureVisible() {
	per := g.PerRow()
	row := g.cursor / per
	visible := g.visibleCardRows()
	if row < g.offset {
		g.offset = row
	}
	if row >= g.offset+visible {
		g.offset = row - visible + 1
	}
}

func (g *Gallery[T]) move(delta int) {
	if len(g.rows) == 0 {
		return
	}
	g.cursor = min(max(g.cursor+delta, 0), len(g.rows)-1)
	g.ensureVisible()
}

func (g *Gallery[T]) activate(idx int) tea.Cmd {
	if idx < 0 || idx >= len(g.rows) {
		return nil
	}
	row := g.rows[idx]
	return emit(RowClickMsg[T]{StorageKey: g.StorageKey, Key: g.keyFn(row), Index: idx, Row: row})
}

// Update moves the selection and activates cards. Mouse coordinates are
// relative to the gallery's top-left corner.
func (g *Gallery[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			g.move(-1)
		case "right", "l":
			g.move(1)
		case "up", "k":
			g.move(-g.PerRow())
		case "down", "j":
			g.move(g.PerRow())
		case "home":
			g.move(-len(g.rows))
		case "end":
			g.move(len(g.rows))
		case "enter":
			return g.activate(g.cursor)
		}
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			g.move(-g.PerRow())
		case tea.MouseButtonWheelDown:
			g.move(g.PerRow())
		case tea.MouseButtonLeft:
			if idx, ok := g.CardAt(msg.X, msg.Y); ok {
				g.cursor = idx
				return g.activate(idx)
			}
		}
	}
	return nil
}

// CardAt maps a position to a card index.
func (g *Gallery[T]) CardAt(x, y int) (int, bool) {
	if x < 0 || y < 0 {
		return 0, false
	}
	col := x / g.cardOuterWidth()
	if col >= g.PerRow() || x%g.cardOuterWidth() >= galleryCardWidth+2 {
		return 0, false
	}
	row := y/g.cardOuterHeight() + g.offset
	if row >= g.offset+g.visibleCardRows() {
		return 0, false
	}
	idx := row*g.PerRow() + col
	if idx >= len(g.rows) {
		return 0, false
	}
	return idx, true
}

func (g *Gallery[T]) renderCard(idx int) string {
	card := cardFor(g.cardFn, g.rows[idx])
	inner := galleryCardWidth - 2
	lines := []string{
		cardTitleStyle.Render(ClampTextWidth(card.Title, inner)),
		cardSubtitleStyle.Render(ClampTextWidth(card.Subtitle, inner)),
	}
	for _, l := range card.Lines {
		if len(lines) == galleryCardLines {
			break
		}
		lines = append(lines, ClampTextWidth(l, inner))
	}
	for len(lines) < galleryCardLines {
		lines = append(lines, "")
	}
	style := cardStyle
	if idx == g.cursor {
		style = cardActiveStyle
	}
	return style.Width(galleryCardWidth).Render(strings.Join(lines, "\n"))
}

func cardFor[T any](fn func(T) Card, row T) (card Card) {
	defer func() {
		if r := recover(); r != nil {
			card = Card{Title: CellPanicMark}
		}
	}()
	return fn(row)
}

// View renders the visible card rows.
func (g *Gallery[T]) View() string {
	if len(g.rows) == 0 {
		width := g.width
		if width <= 0 {
			width = 60
		}
		return emptyStateStyle.Width(max(width-2, 10)).Render(g.EmptyText)
	}

	per := g.PerRow()
	gap := strings.Repeat(" ", galleryGap)
	var rows []string
	for r := g.offset; r < g.offset+g.visibleCardRows(); r++ {
		start := r * per
		if start >= len(g.rows) {
			break
		}
		end := min(start+per, len(g.rows))
		cards := make([]string, 0, (end-start)*2)
		for i := start; i < end; i++ {
			cards = append(cards, g.renderCard(i), gap)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return strings.Join(rows, "\n")
}
