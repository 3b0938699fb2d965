package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gravitrone/credir/internal/format"
	"github.com/gravitrone/credir/internal/query"
)

// RangeUnit is one scale a range filter can be expressed in.
type RangeUnit struct {
	Name    string
	Floor   float64
	Ceiling float64
	Step    float64
	Label   func(v, ceiling float64) string
}

// Rate units used by the listing rent filter.
var (
	YearlyRate  = RangeUnit{Name: "yearly", Ceiling: 20000, Step: 500, Label: format.BoundLabel}
	MonthlyRate = RangeUnit{Name: "monthly", Ceiling: 2000, Step: 50, Label: format.BoundLabel}
)

const rangeBarWidth = 16

var (
	rangeTrackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#273540"))
	rangeFillStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7f57b4"))
	rangeThumbStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffbf3f")).
			Bold(true)
)

// RangeFilter is a two-thumb slider sending <key>_min and <key>_max. A
// bound resting on the floor or ceiling is open-ended and removed from the
// query. With more than one unit, the active unit is sent as unitKey.
type RangeFilter struct {
	controlFocus
	key     string
	label   string
	unitKey string
	units   []RangeUnit
	unit    int

	min      float64
	max      float64
	maxThumb bool

	editing bool
	edit    textinput.Model
}

// NewRangeFilter builds a range over units; the first unit is the default.
func NewRangeFilter(key, label, unitKey string, units ...RangeUnit) *RangeFilter {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 16
	ti.Width = 10
	r := &RangeFilter{key: key, label: label, unitKey: unitKey, units: units, edit: ti}
	r.min = r.Unit().Floor
	r.max = r.Unit().Ceiling
	return r
}

func (r *RangeFilter) Key() string   { return r.key }
func (r *RangeFilter) Label() string { return r.label }

// Unit returns the active unit.
func (r *RangeFilter) Unit() RangeUnit { return r.units[r.unit] }

// Bounds returns the current min and max.
func (r *RangeFilter) Bounds() (float64, float64) { return r.min, r.max }

// Editing reports whether a bound is being typed.
func (r *RangeFilter) Editing() bool { return r.editing }

func (r *RangeFilter) Blur() {
	r.focused = false
	r.editing = false
	r.edit.Blur()
}

func (r *RangeFilter) SetExternal(st query.State) {
	r.unit = 0
	if r.unitKey != "" {
		name := st.Text(r.unitKey)
		for i, u := range r.units {
			if u.Name == name {
				r.unit = i
			}
		}
	}
	u := r.Unit()
	r.min, r.max = u.Floor, u.Ceiling
	if v, ok := st.Get(r.key + "_min"); ok {
		if f, ok := v.Float(); ok {
			r.min = f
		}
	}
	if v, ok := st.Get(r.key + "_max"); ok {
		if f, ok := v.Float(); ok {
			r.max = f
		}
	}
	r.clamp(false)
}

// clamp keeps both bounds inside the unit and min below max. movedMax says
// which thumb the user moved; the other one wins ties.
func (r *RangeFilter) clamp(movedMax bool) {
	u := r.Unit()
	r.min = math.Min(math.Max(r.min, u.Floor), u.Ceiling)
	r.max = math.Min(math.Max(r.max, u.Floor), u.Ceiling)
	if r.min < r.max {
		return
	}
	gap := math.Min(u.Step, u.Ceiling-u.Floor)
	if movedMax {
		r.max = math.Min(r.min+gap, u.Ceiling)
		r.min = math.Min(r.min, r.max-gap)
	} else {
		r.min = math.Max(r.max-gap, u.Floor)
		r.max = math.Max(r.max, r.min+gap)
	}
}

// SwitchUnit moves to another unit. A max resting on the ceiling resets both
// bounds to the new unit's full span; otherwise both scale proportionally.
func (r *RangeFilter) SwitchUnit(index int) tea.Cmd {
	if index < 0 || index >= len(r.units) || index == r.unit {
		return nil
	}
	from, to := r.Unit(), r.units[index]
	r.unit = index
	if r.max >= from.Ceiling {
		r.min, r.max = to.Floor, to.Ceiling
	} else {
		scale := func(v float64) float64 {
			pos := (v - from.Floor) / (from.Ceiling - from.Floor)
			return to.Floor + pos*(to.Ceiling-to.Floor)
		}
		r.min, r.max = scale(r.min), scale(r.max)
		r.clamp(false)
	}
	return r.changed(true)
}

func (r *RangeFilter) step(delta float64) tea.Cmd {
	if r.maxThumb {
		r.max += delta
	} else {
		r.min += delta
	}
	r.clamp(r.maxThumb)
	return r.changed(false)
}

// Changes returns the query changes describing the current bounds.
func (r *RangeFilter) Changes(withUnit bool) map[string]query.Value {
	u := r.Unit()
	changes := map[string]query.Value{
		r.key + "_min": query.Unset(),
		r.key + "_max": query.Unset(),
	}
	if r.min > u.Floor {
		changes[r.key+"_min"] = query.Number(math.Round(r.min))
	}
	if r.max < u.Ceiling {
		changes[r.key+"_max"] = query.Number(math.Round(r.max))
	}
	if withUnit && r.unitKey != "" {
		changes[r.unitKey] = query.Unset()
		if r.unit > 0 {
			changes[r.unitKey] = query.String(u.Name)
		}
	}
	return changes
}

func (r *RangeFilter) changed(withUnit bool) tea.Cmd {
	return emit(FilterChangedMsg{Source: r.key, Changes: r.Changes(withUnit)})
}

func (r *RangeFilter) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !r.focused {
		if r.editing {
			var cmd tea.Cmd
			r.edit, cmd = r.edit.Update(msg)
			return cmd
		}
		return nil
	}
	if r.editing {
		return r.updateEdit(key)
	}
	u := r.Unit()
	switch key.String() {
	case "left", "h":
		return r.step(-u.Step)
	case "right", "l":
		return r.step(u.Step)
	case "shift+left", "H":
		return r.step(-u.Step * 10)
	case "shift+right", "L":
		return r.step(u.Step * 10)
	case " ":
		r.maxThumb = !r.maxThumb
	case "u":
		if len(r.units) > 1 {
			return r.SwitchUnit((r.unit + 1) % len(r.units))
		}
	case "e":
		r.editing = true
		v := r.min
		if r.maxThumb {
			v = r.max
		}
		r.edit.SetValue(format.Int(int(math.Round(v))))
		r.edit.CursorEnd()
		return r.edit.Focus()
	}
	return nil
}

func (r *RangeFilter) updateEdit(key tea.KeyMsg) tea.Cmd {
	switch key.Type {
	case tea.KeyEsc:
		r.editing = false
		r.edit.Blur()
		return nil
	case tea.KeyEnter:
		r.editing = false
		r.edit.Blur()
		return r.SetText(r.edit.Value(), r.maxThumb)
	}
	var cmd tea.Cmd
	r.edit, cmd = r.edit.Update(key)
	return cmd
}

// SetText applies a typed bound. Input is sanitized, falls back to the
// floor or ceiling when it is not a number, and is clamped like a thumb.
func (r *RangeFilter) SetText(s string, isMax bool) tea.Cmd {
	u := r.Unit()
	v := format.ParseBound(s, isMax, u.Ceiling)
	if !isMax && format.SanitizeNumeric(s) == "" {
		v = u.Floor
	}
	if isMax {
		r.max = v
	} else {
		r.min = v
	}
	r.clamp(isMax)
	return r.changed(false)
}

func (r *RangeFilter) bar() string {
	u := r.Unit()
	span := u.Ceiling - u.Floor
	pos := func(v float64) int {
		if span <= 0 {
			return 0
		}
		return int(math.Round((v - u.Floor) / span * float64(rangeBarWidth-1)))
	}
	lo, hi := pos(r.min), pos(r.max)
	var b strings.Builder
	for i := range rangeBarWidth {
		switch {
		case i == lo || i == hi:
			b.WriteString(rangeThumbStyle.Render("●"))
		case i > lo && i < hi:
			b.WriteString(rangeFillStyle.Render("━"))
		default:
			b.WriteString(rangeTrackStyle.Render("─"))
		}
	}
	return b.String()
}

func (r *RangeFilter) View(int) string {
	u := r.Unit()
	minLabel := u.Label(r.min, 0)
	maxLabel := u.Label(r.max, u.Ceiling)
	if r.editing {
		if r.maxThumb {
			maxLabel = "[" + r.edit.View() + "]"
		} else {
			minLabel = "[" + r.edit.View() + "]"
		}
	} else if r.focused {
		if r.maxThumb {
			maxLabel = optionActiveStyle.Render(maxLabel)
		} else {
			minLabel = optionActiveStyle.Render(minLabel)
		}
	}
	out := controlLabel(r.label, r.focused) + " " + minLabel + " " + r.bar() + " " + maxLabel
	if len(r.units) > 1 {
		out += " " + filterLabelStyle.Render("/"+u.Name)
	}
	return out
}
