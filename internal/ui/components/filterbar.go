package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gravitrone/credir/internal/query"
)

// FilterControl is one control of a FilterBar.
type FilterControl interface {
	Key() string
	Label() string
	Focus() tea.Cmd
	Blur()
	Focused() bool
	// SetExternal resyncs the control from the server-confirmed state.
	SetExternal(st query.State)
	Update(msg tea.Msg) tea.Cmd
	View(width int) string
	// Close releases timers so nothing fires after the page goes away.
	Close()
}

var filterSegmentStyle = lipgloss.NewStyle().MarginRight(3)

// FilterBar groups the filter controls of a directory and owns their focus.
type FilterBar struct {
	controls []FilterControl
	focus    int
	width    int
}

func NewFilterBar(controls ...FilterControl) *FilterBar {
	return &FilterBar{controls: controls, focus: -1}
}

func (b *FilterBar) Controls() []FilterControl { return b.controls }

// Control returns the control for key.
func (b *FilterBar) Control(key string) (FilterControl, bool) {
	for _, c := range b.controls {
		if c.Key() == key {
			return c, true
		}
	}
	return nil, false
}

// Active reports whether a control holds keyboard focus.
func (b *FilterBar) Active() bool { return b.focus >= 0 }

func (b *FilterBar) Focused() FilterControl {
	if b.focus < 0 || b.focus >= len(b.controls) {
		return nil
	}
	return b.controls[b.focus]
}

func (b *FilterBar) SetWidth(w int) { b.width = w }

// FocusIndex focuses control i, blurring the previous one.
func (b *FilterBar) FocusIndex(i int) tea.Cmd {
	if len(b.controls) == 0 {
		return nil
	}
	if b.focus >= 0 {
		b.controls[b.focus].Blur()
	}
	b.focus = (i%len(b.controls) + len(b.controls)) % len(b.controls)
	return b.controls[b.focus].Focus()
}

func (b *FilterBar) Blur() {
	if b.focus >= 0 {
		b.controls[b.focus].Blur()
	}
	b.focus = -1
}

// SetExternal resyncs every control.
func (b *FilterBar) SetExternal(st query.State) {
	for _, c := range b.controls {
		c.SetExternal(st)
	}
}

// Close tears down every control and drops focus.
func (b *FilterBar) Close() {
	b.Blur()
	for _, c := range b.controls {
		c.Close()
	}
}

type editingControl interface {
	Editing() bool
}

func (b *FilterBar) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		// Timer and blink messages carry their own ids; each control
		// ignores the ones that are not its own.
		cmds := make([]tea.Cmd, 0, len(b.controls))
		for _, c := range b.controls {
			cmds = append(cmds, c.Update(msg))
		}
		return tea.Batch(cmds...)
	}
	ctrl := b.Focused()
	if ctrl == nil {
		return nil
	}
	if ed, ok := ctrl.(editingControl); ok && ed.Editing() {
		return ctrl.Update(msg)
	}
	switch key.String() {
	case "tab":
		return b.FocusIndex(b.focus + 1)
	case "shift+tab":
		return b.FocusIndex(b.focus - 1)
	case "esc":
		b.Blur()
		return nil
	}
	return ctrl.Update(msg)
}

func (b *FilterBar) View() string {
	if len(b.controls) == 0 {
		return ""
	}
	segments := make([]string, 0, len(b.controls))
	for _, c := range b.controls {
		segments = append(segments, filterSegmentStyle.Render(c.View(b.width)))
	}
	return strings.Join(wrapSegments(segments, b.width, ""), "\n")
}
