package components

import (
	"maps"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/gravitrone/credir/internal/query"
	"github.com/gravitrone/credir/internal/store"
)

// CellPanicMark replaces a cell whose renderer panicked.
const CellPanicMark = "!"

const (
	defaultColumnWidth = 12
	minColumnWidth     = 3
	tableHeaderLines   = 2
)

var (
	emptyStateStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#273540")).
			Foreground(lipgloss.Color("#9ba0bf")).
			Italic(true).
			Align(lipgloss.Center).
			Padding(1, 2)
)

// Column configures one table column. Render turns a row into cell text.
type Column[T any] struct {
	Key      string
	Label    string
	Width    int
	MinWidth int
	Align    lipgloss.Position
	Sortable bool
	Render   func(T) string
}

func (c Column[T]) defaultWidth() int {
	if c.Width > 0 {
		return max(c.Width, c.minWidth())
	}
	return max(defaultColumnWidth, c.minWidth())
}

func (c Column[T]) minWidth() int {
	if c.MinWidth > 0 {
		return c.MinWidth
	}
	return minColumnWidth
}

type dragState struct {
	col        int
	startX     int
	startWidth int
}

// ResizableTable renders rows under user-resizable columns. Widths are
// loaded from and saved to storage under StorageKey, so each table instance
// keeps its own layout.
//
// Mouse coordinates passed to Update are relative to the table's top-left
// corner: the header is line 0, the rule line 1 and data rows follow.
type ResizableTable[T any] struct {
	StorageKey string
	EmptyText  string
	// OnRowClick replaces the default RowClickMsg when set.
	OnRowClick func(index int, row T) tea.Cmd

	columns []Column[T]
	widths  map[string]int
	rows    []T
	keyFn   func(T) string
	storage store.Storage
	loadErr error

	width  int
	height int
	cursor int
	offset int

	sortBy  string
	sortDir query.Dir

	resizing bool
	focusCol int
	drag     *dragState
}

// NewResizableTable builds a table. Persisted widths override column
// defaults by key; columns without a saved width keep their default.
func NewResizableTable[T any](storageKey string, columns []Column[T], keyFn func(T) string, storage store.Storage) *ResizableTable[T] {
	t := &ResizableTable[T]{
		StorageKey: storageKey,
		EmptyText:  "No results match the current filters.",
		columns:    columns,
		keyFn:      keyFn,
		storage:    storage,
	}
	t.widths = t.defaultWidths()

	if storage != nil && storageKey != "" {
		saved, err := store.LoadWidths(storage, storageKey)
		if err != nil {
			t.loadErr = err
			return t
		}
		for _, c := range columns {
			if w, ok := saved[c.Key]; ok {
				t.widths[c.Key] = max(w, c.minWidth())
			}
		}
	}
	return t
}

func (t *ResizableTable[T]) defaultWidths() map[string]int {
	out := make(map[string]int, len(t.columns))
	for _, c := range t.columns {
		out[c.Key] = c.defaultWidth()
	}
	return out
}

// LoadErr returns the error hit while reading persisted widths, if any.
func (t *ResizableTable[T]) LoadErr() error { return t.loadErr }

// SetRows replaces the rows, keeping the cursor in range.
func (t *ResizableTable[T]) SetRows(rows []T) {
	t.rows = rows
	if t.cursor >= len(rows) {
		t.cursor = max(len(rows)-1, 0)
	}
	t.ensureVisible()
}

func (t *ResizableTable[T]) Rows() []T { return t.rows }
func (t *ResizableTable[T]) Len() int  { return len(t.rows) }

// RowKeys returns the key of every row in order.
func (t *ResizableTable[T]) RowKeys() []string {
	keys := make([]string, len(t.rows))
	for i, r := range t.rows {
		keys[i] = t.keyFn(r)
	}
	return keys
}

// SetSize sets the rendered width and the height in lines, header included.
func (t *ResizableTable[T]) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.ensureVisible()
}

// SetSort marks the column the server ordered by.
func (t *ResizableTable[T]) SetSort(by string, dir query.Dir) {
	t.sortBy = by
	t.sortDir = dir
}

// Widths returns a copy of the current width mapping.
func (t *ResizableTable[T]) Widths() map[string]int {
	return maps.Clone(t.widths)
}

// SetWidth resizes one column, clamped to its minimum.
func (t *ResizableTable[T]) SetWidth(key string, w int) {
	for _, c := range t.columns {
		if c.Key == key {
			t.widths[key] = max(w, c.minWidth())
			return
		}
	}
}

// Persist writes the full width mapping for StorageKey.
func (t *ResizableTable[T]) Persist() error {
	if t.storage == nil || t.StorageKey == "" {
		return nil
	}
	return store.SaveWidths(t.storage, t.StorageKey, t.Widths())
}

func (t *ResizableTable[T]) persistCmd() tea.Cmd {
	err := t.Persist()
	return emit(WidthsSavedMsg{StorageKey: t.StorageKey, Widths: t.Widths(), Err: err})
}

// ResetWidths forgets persisted widths and restores the defaults.
func (t *ResizableTable[T]) ResetWidths() error {
	t.widths = t.defaultWidths()
	if t.storage == nil || t.StorageKey == "" {
		return nil
	}
	return store.ResetWidths(t.storage, t.StorageKey)
}

func (t *ResizableTable[T]) Cursor() int     { return t.cursor }
func (t *ResizableTable[T]) Resizing() bool  { return t.resizing }
func (t *ResizableTable[T]) Dragging() bool  { return t.drag != nil }
func (t *ResizableTable[T]) FocusedCol() int { return t.focusCol }

// Selected returns the row under the cursor.
func (t *ResizableTable[T]) Selected() (T, bool) {
	var zero T
	if t.cursor < 0 || t.cursor >= len(t.rows) {
		return zero, false
	}
	return t.rows[t.cursor], true
}

func (t *ResizableTable[T]) visibleRows() int {
	if t.height <= 0 {
		return max(len(t.rows), 1)
	}
	return max(t.height-tableHeaderLines, 1)
}

func (t *ResizableTable[T]) move(delta int) {
	if len(t.rows) == 0 {
		return
	}
	t.cursor = min(max(t.cursor+delta, 0), len(t.rows)-1)
	t.ensureVisible()
}

func (t *ResizableTable[T]) ensureVisible() {
	visible := t.visibleRows()
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+visible {
		t.offset = t.cursor - visible + 1
	}
	if t.offset > max(len(t.rows)-visible, 0) {
		t.offset = max(len(t.rows)-visible, 0)
	}
	if t.offset < 0 {
		t.offset = 0
	}
}

func (t *ResizableTable[T]) activate(idx int) tea.Cmd {
	if idx < 0 || idx >= len(t.rows) {
		return nil
	}
	row := t.rows[idx]
	if t.OnRowClick != nil {
		return t.OnRowClick(idx, row)
	}
	return emit(RowClickMsg[T]{StorageKey: t.StorageKey, Key: t.keyFn(row), Index: idx, Row: row})
}

// Update handles navigation, resize mode and mouse input.
func (t *ResizableTable[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if t.resizing {
			return t.handleResizeKey(msg)
		}
		return t.handleKey(msg)
	case tea.MouseMsg:
		return t.handleMouse(msg)
	}
	return nil
}

func (t *ResizableTable[T]) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		t.move(-1)
	case "down", "j":
		t.move(1)
	case "pgup":
		t.move(-t.visibleRows())
	case "pgdown":
		t.move(t.visibleRows())
	case "home":
		t.move(-len(t.rows))
	case "end":
		t.move(len(t.rows))
	case "enter":
		return t.activate(t.cursor)
	case "w":
		if len(t.columns) > 0 {
			t.resizing = true
			t.focusCol = min(t.focusCol, len(t.columns)-1)
		}
	}
	return nil
}

func (t *ResizableTable[T]) handleResizeKey(msg tea.KeyMsg) tea.Cmd {
	key := t.columns[t.focusCol].Key
	switch msg.String() {
	case "left", "h":
		t.SetWidth(key, t.widths[key]-1)
	case "right", "l":
		t.SetWidth(key, t.widths[key]+1)
	case "shift+left", "H":
		t.SetWidth(key, t.widths[key]-5)
	case "shift+right", "L":
		t.SetWidth(key, t.widths[key]+5)
	case "tab":
		t.focusCol = (t.focusCol + 1) % len(t.columns)
	case "shift+tab":
		t.focusCol = (t.focusCol - 1 + len(t.columns)) % len(t.columns)
	case "s":
		if t.columns[t.focusCol].Sortable {
			return emit(SortMsg{StorageKey: t.StorageKey, Column: key})
		}
	case "enter", "esc", "w":
		t.resizing = false
		return t.persistCmd()
	}
	return nil
}

func (t *ResizableTable[T]) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelUp:
		t.move(-1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelDown:
		t.move(1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if len(t.rows) == 0 {
			return nil
		}
		if msg.Y == 0 {
			if col, ok := t.BoundaryAt(msg.X); ok {
				t.drag = &dragState{col: col, startX: msg.X, startWidth: t.widths[t.columns[col].Key]}
				return nil
			}
			if col, ok := t.ColumnAt(msg.X); ok && t.columns[col].Sortable {
				return emit(SortMsg{StorageKey: t.StorageKey, Column: t.columns[col].Key})
			}
			return nil
		}
		if msg.Y >= tableHeaderLines {
			if _, ok := t.ColumnAt(msg.X); !ok {
				return nil
			}
			idx := t.offset + msg.Y - tableHeaderLines
			if idx < len(t.rows) && idx < t.offset+t.visibleRows() {
				t.cursor = idx
				return t.activate(idx)
			}
		}
	case msg.Action == tea.MouseActionMotion && t.drag != nil:
		key := t.columns[t.drag.col].Key
		t.SetWidth(key, t.drag.startWidth+msg.X-t.drag.startX)
	case msg.Action == tea.MouseActionRelease && t.drag != nil:
		t.drag = nil
		return t.persistCmd()
	}
	return nil
}

// columnStart returns the x of the first cell of column i.
func (t *ResizableTable[T]) columnStart(i int) int {
	x := tableGridLeftOffset
	for j := 0; j < i; j++ {
		x += t.widths[t.columns[j].Key] + 1
	}
	return x
}

// BoundaryAt reports which column's right edge lies under x. The edge is
// the separator cell plus the last content cell before it.
func (t *ResizableTable[T]) BoundaryAt(x int) (int, bool) {
	for i, c := range t.columns {
		edge := t.columnStart(i) + t.widths[c.Key]
		if x == edge || x == edge-1 {
			return i, true
		}
	}
	return 0, false
}

// ColumnAt reports which column's cells lie under x.
func (t *ResizableTable[T]) ColumnAt(x int) (int, bool) {
	for i, c := range t.columns {
		start := t.columnStart(i)
		if x >= start && x < start+t.widths[c.Key] {
			return i, true
		}
	}
	return 0, false
}

func renderCell[T any](c Column[T], row T) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = CellPanicMark
		}
	}()
	if c.Render == nil {
		return ""
	}
	return c.Render(row)
}

func (t *ResizableTable[T]) gridColumns() []TableColumn {
	cols := make([]TableColumn, len(t.columns))
	for i, c := range t.columns {
		label := c.Label
		if c.Key == t.sortBy && t.sortBy != "" {
			if t.sortDir == query.Desc {
				label += " ↓"
			} else {
				label += " ↑"
			}
		}
		cols[i] = TableColumn{Header: label, Width: t.widths[c.Key], Align: c.Align}
	}
	return cols
}

func (t *ResizableTable[T]) contentWidth() int {
	w := tableGridLeftOffset
	for i, c := range t.columns {
		if i > 0 {
			w++
		}
		w += t.widths[c.Key]
	}
	return w
}

// View renders the table, or the empty state when there are no rows.
func (t *ResizableTable[T]) View() string {
	viewWidth := t.width
	if viewWidth <= 0 {
		viewWidth = t.contentWidth()
	}

	if len(t.rows) == 0 {
		text := t.EmptyText
		return emptyStateStyle.Width(max(viewWidth-2, 10)).Render(text)
	}

	sep := lipgloss.RoundedBorder().Left
	cross := lipgloss.RoundedBorder().Middle
	horiz := lipgloss.RoundedBorder().Top
	cols := t.gridColumns()
	lineWidth := max(viewWidth, t.contentWidth())

	header := headerCells(cols)
	if t.resizing {
		header[t.focusCol] = "‹" + header[t.focusCol] + "›"
	}

	lines := make([]string, 0, t.visibleRows()+tableHeaderLines)
	lines = append(lines, renderGridRow(cols, header, sep, lineWidth, true, false))
	lines = append(lines, renderGridRule(cols, cross, horiz, lineWidth))

	end := min(t.offset+t.visibleRows(), len(t.rows))
	for i := t.offset; i < end; i++ {
		cells := make([]string, len(t.columns))
		for j, c := range t.columns {
			cells[j] = renderCell(c, t.rows[i])
		}
		lines = append(lines, renderGridRow(cols, cells, sep, lineWidth, false, i == t.cursor))
	}

	for i, line := range lines {
		lines[i] = ansi.Truncate(line, viewWidth, "")
	}
	return strings.Join(lines, "\n")
}
