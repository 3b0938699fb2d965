package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gravitrone/credir/internal/format"
	"github.com/gravitrone/credir/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRateFilter() *RangeFilter {
	return NewRangeFilter("rate", "Rate", "rate_unit", YearlyRate, MonthlyRate)
}

func TestRangeFilterSwitchAtCeilingResetsToNewSpan(t *testing.T) {
	r := newRateFilter()
	r.SetExternal(query.New())
	lo, hi := r.Bounds()
	require.Equal(t, 0.0, lo)
	require.Equal(t, 20000.0, hi)

	msg := drain(r.SwitchUnit(1))
	lo, hi = r.Bounds()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 2000.0, hi)
	assert.Contains(t, r.View(0), "$2,000+")

	changes := msg.(FilterChangedMsg).Changes
	assert.True(t, changes["rate_min"].IsUnset())
	assert.True(t, changes["rate_max"].IsUnset())
	assert.Equal(t, "monthly", changes["rate_unit"].Text())
}

func TestRangeFilterSwitchBelowCeilingScalesProportionally(t *testing.T) {
	r := newRateFilter()
	r.SetExternal(query.New().With(map[string]query.Value{
		"rate_min": query.Number(5000),
		"rate_max": query.Number(10000),
	}))

	msg := drain(r.SwitchUnit(1))
	lo, hi := r.Bounds()
	assert.InDelta(t, 500, lo, 0.001)
	assert.InDelta(t, 1000, hi, 0.001)
	assert.Less(t, lo, hi)

	changes := msg.(FilterChangedMsg).Changes
	assert.Equal(t, "500", changes["rate_min"].Text())
	assert.Equal(t, "1000", changes["rate_max"].Text())

	drain(r.SwitchUnit(0))
	lo, hi = r.Bounds()
	assert.InDelta(t, 5000, lo, 0.001)
	assert.InDelta(t, 10000, hi, 0.001)
}

func TestRangeFilterSwitchToSameUnitIsNoop(t *testing.T) {
	r := newRateFilter()
	assert.Nil(t, r.SwitchUnit(0))
	assert.Nil(t, r.SwitchUnit(5))
}

func TestRangeFilterThumbsCannotCross(t *testing.T) {
	r := newRateFilter()
	r.Focus()

	// Move the min thumb far past the max.
	for range 60 {
		r.Update(runeKey("L"))
	}
	lo, hi := r.Bounds()
	assert.Less(t, lo, hi)
	assert.Equal(t, 20000.0, hi)

	r.Update(typeKey(tea.KeySpace))
	for range 60 {
		r.Update(runeKey("H"))
	}
	lo, hi = r.Bounds()
	assert.Less(t, lo, hi)
}

func TestRangeFilterStepEmitsBounds(t *testing.T) {
	r := newRateFilter()
	r.Focus()

	msg := drain(r.Update(typeKey(tea.KeyRight)))
	changes := msg.(FilterChangedMsg).Changes
	assert.Equal(t, "500", changes["rate_min"].Text())
	assert.True(t, changes["rate_max"].IsUnset())
	_, hasUnit := changes["rate_unit"]
	assert.False(t, hasUnit)
}

func TestRangeFilterTextInputSanitizesAndClamps(t *testing.T) {
	r := newRateFilter()

	drain(r.SetText("$12,000/yr", false))
	lo, _ := r.Bounds()
	assert.Equal(t, 12000.0, lo)

	// Non-numeric max falls back to the ceiling.
	drain(r.SetText("lots", true))
	_, hi := r.Bounds()
	assert.Equal(t, 20000.0, hi)

	// A max below the min is pushed above it like a thumb would be.
	drain(r.SetText("3000", true))
	lo, hi = r.Bounds()
	assert.Less(t, lo, hi)
	assert.Equal(t, 12000.0, lo)

	drain(r.SetText("abc", false))
	lo, _ = r.Bounds()
	assert.Equal(t, 0.0, lo)
}

func TestRangeFilterEditMode(t *testing.T) {
	r := newRateFilter()
	r.Focus()

	r.Update(runeKey("e"))
	require.True(t, r.Editing())
	r.edit.SetValue("7500")

	msg := drain(r.Update(typeKey(tea.KeyEnter)))
	assert.False(t, r.Editing())
	assert.Equal(t, "7500", msg.(FilterChangedMsg).Changes["rate_min"].Text())

	r.Update(runeKey("e"))
	r.Update(typeKey(tea.KeyEsc))
	assert.False(t, r.Editing())
}

func TestRangeFilterSetExternalReadsUnit(t *testing.T) {
	r := newRateFilter()
	r.SetExternal(query.New().With(map[string]query.Value{
		"rate_unit": query.String("monthly"),
		"rate_max":  query.String("900"),
	}))
	assert.Equal(t, "monthly", r.Unit().Name)
	lo, hi := r.Bounds()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 900.0, hi)
}

func TestRangeFilterSingleUnitArea(t *testing.T) {
	area := RangeUnit{Name: "sf", Ceiling: 100000, Step: 1000, Label: format.AreaBoundLabel}
	r := NewRangeFilter("size", "Size", "", area)
	r.Focus()

	assert.Nil(t, r.Update(runeKey("u")))
	assert.Contains(t, r.View(0), "100,000+ SF")

	changes := r.Changes(true)
	assert.Len(t, changes, 2)
}
