package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gravitrone/credir/internal/query"
)

// FilterChangedMsg reports filter edits to merge into the page state. Unset
// values remove their key.
type FilterChangedMsg struct {
	Source  string
	Changes map[string]query.Value
}

// FilterSearchMsg is sent when Enter is pressed in a text filter. It
// bypasses the debounce.
type FilterSearchMsg struct {
	Key   string
	Value string
}

// SortMsg asks the page to order by a column.
type SortMsg struct {
	StorageKey string
	Column     string
}

// RowClickMsg reports an activated row of a table or gallery.
type RowClickMsg[T any] struct {
	StorageKey string
	Key        string
	Index      int
	Row        T
}

// WidthsSavedMsg reports the outcome of persisting column widths.
type WidthsSavedMsg struct {
	StorageKey string
	Widths     map[string]int
	Err        error
}

// PageLinkMsg asks the page to follow a pagination link.
type PageLinkMsg struct {
	URL   string
	Label string
}

// DropdownSelectMsg reports a chosen dropdown option.
type DropdownSelectMsg struct {
	ID    string
	Value string
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
