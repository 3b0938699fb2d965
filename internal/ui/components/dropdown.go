package components

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PointerObserver receives mouse events while attached to a PointerHub.
type PointerObserver interface {
	// HandlePointer reports whether the event was consumed.
	HandlePointer(msg tea.MouseMsg) (tea.Cmd, bool)
}

// PointerHub routes mouse events to attached overlays ahead of the page.
// Overlays attach when they open and detach when they close.
type PointerHub struct {
	order     []string
	observers map[string]PointerObserver
}

func NewPointerHub() *PointerHub {
	return &PointerHub{observers: map[string]PointerObserver{}}
}

// Attach registers obs under id, replacing an earlier registration.
func (h *PointerHub) Attach(id string, obs PointerObserver) {
	h.Detach(id)
	h.order = append(h.order, id)
	h.observers[id] = obs
}

func (h *PointerHub) Detach(id string) {
	if _, ok := h.observers[id]; !ok {
		return
	}
	delete(h.observers, id)
	h.order = slices.DeleteFunc(h.order, func(s string) bool { return s == id })
}

// Len is the number of attached observers.
func (h *PointerHub) Len() int { return len(h.order) }

// Dispatch offers msg to observers, newest first, until one consumes it.
func (h *PointerHub) Dispatch(msg tea.MouseMsg) (tea.Cmd, bool) {
	for _, id := range slices.Backward(slices.Clone(h.order)) {
		obs, ok := h.observers[id]
		if !ok {
			continue
		}
		if cmd, consumed := obs.HandlePointer(msg); consumed {
			return cmd, true
		}
	}
	return nil, false
}

var (
	dropdownStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7f57b4"))
	dropdownItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#d7d9da")).
				Padding(0, 1)
	dropdownCursorStyle = dropdownItemStyle.
				Foreground(lipgloss.Color("#16161d")).
				Background(lipgloss.Color("#7f57b4")).
				Bold(true)
)

// dropdownRows caps the overlay height; longer option sets scroll.
const dropdownRows = 6

// Dropdown is an option overlay. While open it is attached to the hub so a
// click outside it closes it.
type Dropdown struct {
	id    string
	list  *List
	hub   *PointerHub
	open  bool
	x, y  int
	value string
}

func NewDropdown(id string, options []Option, hub *PointerHub) *Dropdown {
	d := &Dropdown{id: id, list: NewList(dropdownRows), hub: hub}
	d.list.SetItems(options)
	return d
}

func (d *Dropdown) ID() string    { return d.id }
func (d *Dropdown) IsOpen() bool  { return d.open }
func (d *Dropdown) Value() string { return d.value }

// SetValue marks the current option without emitting.
func (d *Dropdown) SetValue(v string) { d.value = v }

// Open shows the overlay with its top-left corner at x, y on screen.
func (d *Dropdown) Open(x, y int) {
	d.open = true
	d.x, d.y = x, y
	d.list.SetCursor(0)
	for i, o := range d.list.Items() {
		if o.Value == d.value {
			d.list.SetCursor(i)
		}
	}
	if d.hub != nil {
		d.hub.Attach(d.id, d)
	}
}

// Close hides the overlay and detaches it. Safe to call when closed.
func (d *Dropdown) Close() {
	d.open = false
	if d.hub != nil {
		d.hub.Detach(d.id)
	}
}

// Position returns the overlay's top-left corner.
func (d *Dropdown) Position() (int, int) { return d.x, d.y }

func (d *Dropdown) choose(i int) tea.Cmd {
	if i < 0 || i >= d.list.Len() {
		return nil
	}
	d.value = d.list.Items()[i].Value
	d.Close()
	return emit(DropdownSelectMsg{ID: d.id, Value: d.value})
}

func (d *Dropdown) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !d.open {
		return nil
	}
	switch key.String() {
	case "up", "k":
		d.list.Up()
	case "pgup":
		d.list.SetCursor(d.list.Selected() - dropdownRows)
	case "pgdown":
		d.list.SetCursor(d.list.Selected() + dropdownRows)
	case "down", "j":
		d.list.Down()
	case "enter", " ":
		return d.choose(d.list.Selected())
	case "esc", "q":
		d.Close()
	}
	return nil
}

// HandlePointer selects a clicked option or closes on a click outside.
func (d *Dropdown) HandlePointer(msg tea.MouseMsg) (tea.Cmd, bool) {
	if !d.open {
		return nil, false
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil, d.contains(msg.X, msg.Y)
	}
	if !d.contains(msg.X, msg.Y) {
		d.Close()
		return nil, true
	}
	return d.choose(d.list.RelToAbs(msg.Y - d.y - 1)), true
}

func (d *Dropdown) contains(x, y int) bool {
	w, h := d.Size()
	return x >= d.x && x < d.x+w && y >= d.y && y < d.y+h
}

// Size is the rendered width and height including the border.
func (d *Dropdown) Size() (int, int) {
	inner := 0
	for _, o := range d.list.Items() {
		inner = max(inner, lipgloss.Width(o.Label)+2)
	}
	return inner + 2, d.list.Rows() + 2
}

func (d *Dropdown) View() string {
	if !d.open {
		return ""
	}
	w, _ := d.Size()
	visible := d.list.Visible()
	lines := make([]string, len(visible))
	for rel, o := range visible {
		style := dropdownItemStyle
		if d.list.IsSelected(d.list.RelToAbs(rel)) {
			style = dropdownCursorStyle
		}
		lines[rel] = style.Width(w - 2).Render(SanitizeOneLine(o.Label))
	}
	return dropdownStyle.Render(strings.Join(lines, "\n"))
}
