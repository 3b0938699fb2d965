package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gravitrone/credir/internal/query"
	"github.com/gravitrone/credir/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRow struct {
	ID    string
	Name  string
	Price string
}

func testColumns() []Column[testRow] {
	return []Column[testRow]{
		{Key: "name", Label: "Name", Width: 10, Sortable: true, Render: func(r testRow) string { return r.Name }},
		{Key: "price", Label: "Price", Width: 8, Align: lipgloss.Right, Sortable: true, Render: func(r testRow) string { return r.Price }},
	}
}

func testRows() []testRow {
	return []testRow{
		{ID: "1", Name: "Alpha", Price: "$100"},
		{ID: "2", Name: "Bravo", Price: "$200"},
		{ID: "3", Name: "Charlie", Price: "$300"},
	}
}

func newTestTable(s store.Storage) *ResizableTable[testRow] {
	tbl := NewResizableTable("listings", testColumns(), func(r testRow) string { return r.ID }, s)
	tbl.SetRows(testRows())
	return tbl
}

func TestResizableTableUsesDefaultWidths(t *testing.T) {
	tbl := newTestTable(store.NewMemory())
	assert.Equal(t, map[string]int{"name": 10, "price": 8}, tbl.Widths())
	assert.NoError(t, tbl.LoadErr())
}

func TestResizableTablePersistedWidthsOverrideByKey(t *testing.T) {
	s := store.NewMemory()
	require.NoError(t, store.SaveWidths(s, "listings", map[string]int{"name": 20, "gone": 7}))

	tbl := newTestTable(s)
	assert.Equal(t, map[string]int{"name": 20, "price": 8}, tbl.Widths())
}

func TestResizableTableInstancesAreIndependent(t *testing.T) {
	s := store.NewMemory()
	require.NoError(t, store.SaveWidths(s, "listings", map[string]int{"name": 20}))

	other := NewResizableTable("listings-sidebar", testColumns(), func(r testRow) string { return r.ID }, s)
	assert.Equal(t, 10, other.Widths()["name"])
}

func TestResizableTableSetWidthClampsToMinimum(t *testing.T) {
	tbl := newTestTable(nil)
	tbl.SetWidth("name", 1)
	assert.Equal(t, minColumnWidth, tbl.Widths()["name"])

	tbl.SetWidth("unknown", 40)
	_, ok := tbl.Widths()["unknown"]
	assert.False(t, ok)
}

func TestResizableTableGeometry(t *testing.T) {
	tbl := newTestTable(nil)

	// name cells at x 2..11, separator at 12, price cells at 13..20, edge at 21.
	col, ok := tbl.ColumnAt(5)
	assert.True(t, ok)
	assert.Equal(t, 0, col)

	col, ok = tbl.ColumnAt(13)
	assert.True(t, ok)
	assert.Equal(t, 1, col)

	_, ok = tbl.ColumnAt(12)
	assert.False(t, ok)

	col, ok = tbl.BoundaryAt(12)
	assert.True(t, ok)
	assert.Equal(t, 0, col)

	col, ok = tbl.BoundaryAt(21)
	assert.True(t, ok)
	assert.Equal(t, 1, col)

	_, ok = tbl.BoundaryAt(5)
	assert.False(t, ok)
}

func TestResizableTableDragResizesAndPersistsOnRelease(t *testing.T) {
	s := store.NewMemory()
	tbl := newTestTable(s)

	assert.Nil(t, tbl.Update(press(12, 0)))
	assert.True(t, tbl.Dragging())

	assert.Nil(t, tbl.Update(motion(16, 0)))
	assert.Equal(t, 14, tbl.Widths()["name"])

	// Nothing is written until the drag ends.
	_, saved, err := s.Get(store.WidthsKey("listings"))
	require.NoError(t, err)
	assert.False(t, saved)

	msg := drain(tbl.Update(release(16, 0)))
	assert.False(t, tbl.Dragging())
	require.IsType(t, WidthsSavedMsg{}, msg)
	assert.NoError(t, msg.(WidthsSavedMsg).Err)

	widths, err := store.LoadWidths(s, "listings")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"name": 14, "price": 8}, widths)
}

func TestResizableTableDragBelowMinimumClamps(t *testing.T) {
	tbl := newTestTable(nil)
	tbl.Update(press(12, 0))
	tbl.Update(motion(0, 0))
	assert.Equal(t, minColumnWidth, tbl.Widths()["name"])
}

func TestResizableTableHeaderClickEmitsSort(t *testing.T) {
	tbl := newTestTable(nil)
	msg := drain(tbl.Update(press(5, 0)))
	assert.Equal(t, SortMsg{StorageKey: "listings", Column: "name"}, msg)
}

func TestResizableTableRowClick(t *testing.T) {
	tbl := newTestTable(nil)
	msg := drain(tbl.Update(press(5, 3)))

	click, ok := msg.(RowClickMsg[testRow])
	require.True(t, ok)
	assert.Equal(t, 1, click.Index)
	assert.Equal(t, "2", click.Key)
	assert.Equal(t, "Bravo", click.Row.Name)
	assert.Equal(t, 1, tbl.Cursor())
}

func TestResizableTableRowClickOutsideRowsIgnored(t *testing.T) {
	tbl := newTestTable(nil)
	assert.Nil(t, tbl.Update(press(5, 9)))
	assert.Nil(t, tbl.Update(press(60, 2)))
}

func TestResizableTableOnRowClickOverride(t *testing.T) {
	tbl := newTestTable(nil)
	var got string
	tbl.OnRowClick = func(_ int, r testRow) tea.Cmd {
		got = r.Name
		return nil
	}
	tbl.Update(typeKey(tea.KeyDown))
	tbl.Update(typeKey(tea.KeyEnter))
	assert.Equal(t, "Bravo", got)
}

func TestResizableTableKeyboardResize(t *testing.T) {
	s := store.NewMemory()
	tbl := newTestTable(s)

	tbl.Update(runeKey("w"))
	assert.True(t, tbl.Resizing())

	tbl.Update(typeKey(tea.KeyRight))
	tbl.Update(runeKey("L"))
	assert.Equal(t, 16, tbl.Widths()["name"])

	tbl.Update(typeKey(tea.KeyTab))
	assert.Equal(t, 1, tbl.FocusedCol())
	tbl.Update(runeKey("h"))
	assert.Equal(t, 7, tbl.Widths()["price"])

	msg := drain(tbl.Update(runeKey("s")))
	assert.Equal(t, SortMsg{StorageKey: "listings", Column: "price"}, msg)

	msg = drain(tbl.Update(typeKey(tea.KeyEnter)))
	assert.False(t, tbl.Resizing())
	assert.IsType(t, WidthsSavedMsg{}, msg)

	widths, err := store.LoadWidths(s, "listings")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"name": 16, "price": 7}, widths)
}

func TestResizableTableResetWidths(t *testing.T) {
	s := store.NewMemory()
	tbl := newTestTable(s)
	tbl.SetWidth("name", 30)
	require.NoError(t, tbl.Persist())

	require.NoError(t, tbl.ResetWidths())
	assert.Equal(t, 10, tbl.Widths()["name"])
	assert.Empty(t, s.Snapshot())
}

func TestResizableTableNavigationAndWheel(t *testing.T) {
	tbl := newTestTable(nil)
	tbl.SetSize(40, 4) // two visible rows

	tbl.Update(typeKey(tea.KeyEnd))
	assert.Equal(t, 2, tbl.Cursor())

	tbl.Update(wheel(tea.MouseButtonWheelUp))
	assert.Equal(t, 1, tbl.Cursor())

	tbl.Update(typeKey(tea.KeyHome))
	assert.Equal(t, 0, tbl.Cursor())

	tbl.Update(wheel(tea.MouseButtonWheelDown))
	row, ok := tbl.Selected()
	require.True(t, ok)
	assert.Equal(t, "Bravo", row.Name)
}

func TestResizableTableSetRowsClampsCursor(t *testing.T) {
	tbl := newTestTable(nil)
	tbl.Update(typeKey(tea.KeyEnd))
	tbl.SetRows(testRows()[:1])
	assert.Equal(t, 0, tbl.Cursor())

	tbl.SetRows(nil)
	_, ok := tbl.Selected()
	assert.False(t, ok)
}

func TestResizableTableViewShowsHeaderRowsAndSortIndicator(t *testing.T) {
	tbl := newTestTable(nil)
	tbl.SetSort("price", query.Desc)

	view := tbl.View()
	assert.Contains(t, view, "Name")
	assert.Contains(t, view, "Price ↓")
	assert.Contains(t, view, "Charlie")
	assert.Len(t, strings.Split(view, "\n"), 5)
}

func TestResizableTableViewClipsToWidth(t *testing.T) {
	tbl := newTestTable(nil)
	tbl.SetSize(12, 0)
	for _, line := range strings.Split(tbl.View(), "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 12)
	}
}

func TestResizableTableEmptyState(t *testing.T) {
	tbl := newTestTable(nil)
	tbl.SetRows(nil)
	tbl.SetSize(80, 10)

	view := tbl.View()
	assert.Contains(t, view, "No results match the current filters.")
	assert.NotContains(t, view, "Price")
}

func TestResizableTableCellPanicRendersMark(t *testing.T) {
	cols := testColumns()
	cols[1].Render = func(testRow) string { panic("bad row") }
	tbl := NewResizableTable("listings", cols, func(r testRow) string { return r.ID }, nil)
	tbl.SetRows(testRows())

	var view string
	assert.NotPanics(t, func() { view = tbl.View() })
	assert.Contains(t, view, CellPanicMark)
	assert.Contains(t, view, "Alpha")
}

func TestResizableTableCorruptWidthsReported(t *testing.T) {
	s := store.NewMemory()
	require.NoError(t, s.Set(store.WidthsKey("listings"), "{not json"))

	tbl := newTestTable(s)
	assert.Error(t, tbl.LoadErr())
	assert.Equal(t, 10, tbl.Widths()["name"])
}
