package components

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gravitrone/credir/internal/query"
)

// DefaultDebounce is the quiet period before a typed filter is committed.
const DefaultDebounce = 500 * time.Millisecond

var filterIDs atomic.Int64

var (
	filterLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#9ba0bf"))
	filterFocusLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#7f57b4")).
				Bold(true)
)

// filterDebounceMsg fires when a debounce timer expires. Only the timer
// carrying the input's current generation commits.
type filterDebounceMsg struct {
	id  int64
	gen uint64
}

// FilterInput is a free-text filter. Typing updates the draft immediately;
// the committed value follows after the debounce delay, or at once on Enter.
type FilterInput struct {
	key   string
	label string
	delay time.Duration

	input     textinput.Model
	id        int64
	gen       uint64
	pending   bool
	closed    bool
	committed string
}

// NewFilterInput creates a text filter for key.
func NewFilterInput(key, label string, delay time.Duration) *FilterInput {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "Search..."
	ti.CharLimit = 120
	ti.Width = 24
	return &FilterInput{
		key:   key,
		label: label,
		delay: delay,
		input: ti,
		id:    filterIDs.Add(1),
	}
}

func (f *FilterInput) Key() string   { return f.key }
func (f *FilterInput) Label() string { return f.label }

// Value is the draft text as typed.
func (f *FilterInput) Value() string { return f.input.Value() }

// Committed is the last value reported to the page.
func (f *FilterInput) Committed() string { return f.committed }

// Pending reports whether a debounce timer is outstanding.
func (f *FilterInput) Pending() bool { return f.pending }

func (f *FilterInput) Focus() tea.Cmd {
	f.closed = false
	return f.input.Focus()
}

func (f *FilterInput) Blur()         { f.input.Blur() }
func (f *FilterInput) Focused() bool { return f.input.Focused() }

// SetExternal resyncs the draft from server state and drops any pending
// debounce.
func (f *FilterInput) SetExternal(st query.State) {
	v := st.Text(f.key)
	f.gen++
	f.pending = false
	f.committed = v
	f.input.SetValue(v)
}

// Close cancels the pending debounce and puts the draft back to the
// committed value. Timers already in flight are ignored when they fire.
func (f *FilterInput) Close() {
	f.gen++
	f.pending = false
	f.closed = true
	if f.input.Value() != f.committed {
		f.input.SetValue(f.committed)
	}
}

func (f *FilterInput) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case filterDebounceMsg:
		if msg.id != f.id || msg.gen != f.gen || f.closed {
			return nil
		}
		f.pending = false
		return f.commit()
	case tea.KeyMsg:
		if !f.input.Focused() {
			return nil
		}
		if msg.Type == tea.KeyEnter {
			f.gen++
			f.pending = false
			f.committed = f.input.Value()
			return emit(FilterSearchMsg{Key: f.key, Value: f.committed})
		}
		before := f.input.Value()
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		if f.input.Value() == before {
			return cmd
		}
		return tea.Batch(cmd, f.schedule())
	default:
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		return cmd
	}
}

func (f *FilterInput) schedule() tea.Cmd {
	f.gen++
	f.closed = false
	if f.delay <= 0 {
		f.pending = false
		return f.commit()
	}
	f.pending = true
	id, gen := f.id, f.gen
	return tea.Tick(f.delay, func(time.Time) tea.Msg {
		return filterDebounceMsg{id: id, gen: gen}
	})
}

func (f *FilterInput) commit() tea.Cmd {
	v := f.input.Value()
	if v == f.committed {
		return nil
	}
	f.committed = v
	return emit(FilterChangedMsg{Source: f.key, Changes: map[string]query.Value{f.key: query.String(v)}})
}

func (f *FilterInput) View(width int) string {
	label := filterLabelStyle.Render(f.label + ":")
	if f.input.Focused() {
		label = filterFocusLabelStyle.Render(f.label + ":")
	}
	f.input.Width = max(min(width-lipgloss.Width(label)-1, 32), 8)
	return label + " " + strings.TrimRight(f.input.View(), " ")
}
