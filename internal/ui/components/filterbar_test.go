package components

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gravitrone/credir/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBar() (*FilterBar, *FilterInput, *Select) {
	search := NewFilterInput("search", "Search", time.Second)
	state := NewSelect("state", "State", stateOptions)
	return NewFilterBar(search, state, newRateFilter()), search, state
}

func TestFilterBarFocusCycling(t *testing.T) {
	bar, search, state := newTestBar()
	assert.False(t, bar.Active())

	bar.FocusIndex(0)
	assert.True(t, search.Focused())

	bar.Update(typeKey(tea.KeyTab))
	assert.False(t, search.Focused())
	assert.True(t, state.Focused())

	bar.Update(typeKey(tea.KeyShiftTab))
	bar.Update(typeKey(tea.KeyShiftTab))
	assert.Equal(t, "rate", bar.Focused().Key())

	bar.Update(typeKey(tea.KeyEsc))
	assert.False(t, bar.Active())
	assert.Nil(t, bar.Focused())
}

func TestFilterBarRoutesKeysToFocusedControl(t *testing.T) {
	bar, _, _ := newTestBar()
	bar.FocusIndex(1)

	msg := drain(bar.Update(typeKey(tea.KeyRight)))
	assert.Equal(t, "TX", msg.(FilterChangedMsg).Changes["state"].Text())

	bar.Blur()
	assert.Nil(t, bar.Update(typeKey(tea.KeyRight)))
}

func TestFilterBarRoutesTimersToAllControls(t *testing.T) {
	bar, search, _ := newTestBar()
	bar.FocusIndex(0)
	typeInto(search, "reno")
	bar.Blur()

	msg := drain(bar.Update(filterDebounceMsg{id: search.id, gen: search.gen}))
	require.NotNil(t, msg)
}

func TestFilterBarEscInsideRangeEditStaysFocused(t *testing.T) {
	bar, _, _ := newTestBar()
	bar.FocusIndex(2)
	bar.Update(runeKey("e"))

	bar.Update(typeKey(tea.KeyEsc))
	assert.True(t, bar.Active())
}

func TestFilterBarSetExternalAndClose(t *testing.T) {
	bar, search, state := newTestBar()
	bar.SetExternal(query.New().With(map[string]query.Value{
		"search": query.String("tower"),
		"state":  query.String("CA"),
	}))
	assert.Equal(t, "tower", search.Value())
	assert.Equal(t, "CA", state.Value())

	bar.FocusIndex(0)
	typeInto(search, "s")
	gen := search.gen
	bar.Close()
	assert.False(t, bar.Active())
	assert.Equal(t, "tower", search.Value())
	assert.Nil(t, drain(bar.Update(filterDebounceMsg{id: search.id, gen: gen})))

	c, ok := bar.Control("state")
	require.True(t, ok)
	assert.Equal(t, state, c)
}
