package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gravitrone/credir/internal/query"
)

// Option is one choice of a discrete filter. An empty Value means "any".
type Option struct {
	Value string
	Label string
}

var (
	optionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d7d9da"))
	optionActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#16161d")).
				Background(lipgloss.Color("#7f57b4")).
				Bold(true)
	optionCheckedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#ffbf3f"))
)

// controlFocus is shared by the discrete controls.
type controlFocus struct{ focused bool }

func (c *controlFocus) Focus() tea.Cmd {
	c.focused = true
	return nil
}

func (c *controlFocus) Blur()          { c.focused = false }
func (c *controlFocus) Focused() bool  { return c.focused }
func (c *controlFocus) Close()         {}

func controlLabel(label string, focused bool) string {
	if focused {
		return filterFocusLabelStyle.Render(label + ":")
	}
	return filterLabelStyle.Render(label + ":")
}

// Select picks one option. Changes are reported immediately.
type Select struct {
	controlFocus
	key     string
	label   string
	options []Option
	index   int
}

// NewSelect prepends an "Any" option to options.
func NewSelect(key, label string, options []Option) *Select {
	all := append([]Option{{Value: "", Label: "Any"}}, options...)
	return &Select{key: key, label: label, options: all}
}

func (s *Select) Key() string   { return s.key }
func (s *Select) Label() string { return s.label }

// Value is the selected option value, "" for any.
func (s *Select) Value() string { return s.options[s.index].Value }

func (s *Select) SetExternal(st query.State) {
	v := st.Text(s.key)
	s.index = 0
	for i, o := range s.options {
		if o.Value == v {
			s.index = i
			return
		}
	}
}

func (s *Select) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !s.focused {
		return nil
	}
	switch key.String() {
	case "left", "h":
		s.index = (s.index - 1 + len(s.options)) % len(s.options)
	case "right", "l", " ":
		s.index = (s.index + 1) % len(s.options)
	default:
		return nil
	}
	return s.changed()
}

func (s *Select) changed() tea.Cmd {
	v := query.Unset()
	if s.Value() != "" {
		v = query.String(s.Value())
	}
	return emit(FilterChangedMsg{Source: s.key, Changes: map[string]query.Value{s.key: v}})
}

func (s *Select) View(int) string {
	text := "‹ " + s.options[s.index].Label + " ›"
	style := optionStyle
	if s.focused {
		style = optionActiveStyle
	}
	return controlLabel(s.label, s.focused) + " " + style.Render(text)
}

// MultiSelect picks any number of options and reports them as a list.
type MultiSelect struct {
	controlFocus
	key      string
	label    string
	options  []Option
	cursor   int
	selected map[string]bool
}

func NewMultiSelect(key, label string, options []Option) *MultiSelect {
	return &MultiSelect{key: key, label: label, options: options, selected: map[string]bool{}}
}

func (m *MultiSelect) Key() string   { return m.key }
func (m *MultiSelect) Label() string { return m.label }

// Values returns the checked option values in option order.
func (m *MultiSelect) Values() []string {
	var out []string
	for _, o := range m.options {
		if m.selected[o.Value] {
			out = append(out, o.Value)
		}
	}
	return out
}

func (m *MultiSelect) SetExternal(st query.State) {
	m.selected = map[string]bool{}
	v, ok := st.Get(m.key)
	if !ok {
		return
	}
	for _, item := range v.Strings() {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				m.selected[part] = true
			}
		}
	}
}

func (m *MultiSelect) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused || len(m.options) == 0 {
		return nil
	}
	switch key.String() {
	case "left", "h":
		m.cursor = max(m.cursor-1, 0)
	case "right", "l":
		m.cursor = min(m.cursor+1, len(m.options)-1)
	case " ", "x":
		v := m.options[m.cursor].Value
		m.selected[v] = !m.selected[v]
		values := m.Values()
		change := query.Unset()
		if len(values) > 0 {
			change = query.List(values...)
		}
		return emit(FilterChangedMsg{Source: m.key, Changes: map[string]query.Value{m.key: change}})
	}
	return nil
}

func (m *MultiSelect) View(int) string {
	parts := make([]string, 0, len(m.options))
	for i, o := range m.options {
		mark := "[ ]"
		style := optionStyle
		if m.selected[o.Value] {
			mark = "[x]"
			style = optionCheckedStyle
		}
		text := mark + " " + o.Label
		if m.focused && i == m.cursor {
			style = optionActiveStyle
		}
		parts = append(parts, style.Render(text))
	}
	return controlLabel(m.label, m.focused) + " " + strings.Join(parts, " ")
}

// Toggle is an on/off filter sending onValue when on. Off removes the key.
type Toggle struct {
	controlFocus
	key     string
	label   string
	onValue string
	on      bool
}

func NewToggle(key, label, onValue string) *Toggle {
	return &Toggle{key: key, label: label, onValue: onValue}
}

func (t *Toggle) Key() string   { return t.key }
func (t *Toggle) Label() string { return t.label }
func (t *Toggle) On() bool      { return t.on }

func (t *Toggle) SetExternal(st query.State) {
	t.on = strings.EqualFold(st.Text(t.key), t.onValue)
}

func (t *Toggle) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !t.focused {
		return nil
	}
	switch key.String() {
	case " ", "enter", "x":
		t.on = !t.on
		change := query.Unset()
		if t.on {
			change = query.String(t.onValue)
		}
		return emit(FilterChangedMsg{Source: t.key, Changes: map[string]query.Value{t.key: change}})
	}
	return nil
}

func (t *Toggle) View(int) string {
	mark := "[ ]"
	style := optionStyle
	if t.on {
		mark = "[x]"
		style = optionCheckedStyle
	}
	if t.focused {
		style = optionActiveStyle
	}
	return controlLabel(t.label, t.focused) + " " + style.Render(mark)
}
