package components

// List is a scrolling window of options with a cursor. Overlays render and
// hit-test through it so the visible rows and the cursor agree.
type List struct {
	items  []Option
	cursor int
	offset int
	height int
}

// NewList creates a list showing at most height rows.
func NewList(height int) *List {
	return &List{height: max(height, 1)}
}

// SetItems replaces the options and resets the cursor.
func (l *List) SetItems(items []Option) {
	l.items = items
	l.cursor = 0
	l.offset = 0
}

func (l *List) Items() []Option { return l.items }
func (l *List) Len() int        { return len(l.items) }

// Rows is the number of rows the list occupies on screen.
func (l *List) Rows() int { return min(l.height, len(l.items)) }

func (l *List) Down() { l.SetCursor(l.cursor + 1) }
func (l *List) Up()   { l.SetCursor(l.cursor - 1) }

// SetCursor moves the cursor to i, clamped, and scrolls it into view.
func (l *List) SetCursor(i int) {
	if len(l.items) == 0 {
		l.cursor, l.offset = 0, 0
		return
	}
	l.cursor = min(max(i, 0), len(l.items)-1)
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.height {
		l.offset = l.cursor - l.height + 1
	}
}

// Visible returns the options currently in the window.
func (l *List) Visible() []Option {
	if len(l.items) == 0 {
		return nil
	}
	end := min(l.offset+l.height, len(l.items))
	return l.items[l.offset:end]
}

// Selected returns the absolute index under the cursor.
func (l *List) Selected() int { return l.cursor }

func (l *List) IsSelected(abs int) bool { return abs == l.cursor }

// RelToAbs converts a visible row to an absolute index; -1 when the row
// is outside the window.
func (l *List) RelToAbs(rel int) int {
	if rel < 0 || rel >= l.Rows() {
		return -1
	}
	return l.offset + rel
}
