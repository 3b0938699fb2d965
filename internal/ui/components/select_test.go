package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gravitrone/credir/internal/query"
	"github.com/stretchr/testify/assert"
)

var stateOptions = []Option{{Value: "TX", Label: "Texas"}, {Value: "CA", Label: "California"}}

func TestSelectCyclesAndEmitsImmediately(t *testing.T) {
	s := NewSelect("state", "State", stateOptions)
	s.Focus()

	msg := drain(s.Update(typeKey(tea.KeyRight)))
	assert.Equal(t, FilterChangedMsg{Source: "state", Changes: map[string]query.Value{"state": query.String("TX")}}, msg)

	s.Update(typeKey(tea.KeyRight))
	msg = drain(s.Update(typeKey(tea.KeyRight)))
	assert.True(t, msg.(FilterChangedMsg).Changes["state"].IsUnset())
	assert.Equal(t, "", s.Value())
}

func TestSelectSetExternal(t *testing.T) {
	s := NewSelect("state", "State", stateOptions)
	s.SetExternal(query.New().Set("state", query.String("CA")))
	assert.Equal(t, "CA", s.Value())

	s.SetExternal(query.New().Set("state", query.String("ZZ")))
	assert.Equal(t, "", s.Value())
	assert.Contains(t, s.View(0), "Any")
}

func TestSelectIgnoresKeysWhenBlurred(t *testing.T) {
	s := NewSelect("state", "State", stateOptions)
	assert.Nil(t, s.Update(typeKey(tea.KeyRight)))
}

func TestMultiSelectTogglesList(t *testing.T) {
	m := NewMultiSelect("property_type", "Type", []Option{
		{Value: "office", Label: "Office"}, {Value: "retail", Label: "Retail"},
	})
	m.Focus()

	msg := drain(m.Update(typeKey(tea.KeySpace)))
	assert.Equal(t, []string{"office"}, msg.(FilterChangedMsg).Changes["property_type"].Strings())

	m.Update(typeKey(tea.KeyRight))
	msg = drain(m.Update(typeKey(tea.KeySpace)))
	assert.Equal(t, query.KindList, msg.(FilterChangedMsg).Changes["property_type"].Kind())
	assert.Equal(t, []string{"office", "retail"}, m.Values())

	m.Update(typeKey(tea.KeyLeft))
	m.Update(typeKey(tea.KeySpace))
	msg = drain(m.Update(typeKey(tea.KeyRight)))
	assert.Nil(t, msg)
	msg = drain(m.Update(typeKey(tea.KeySpace)))
	assert.True(t, msg.(FilterChangedMsg).Changes["property_type"].IsUnset())
}

func TestMultiSelectSetExternalAcceptsListAndCSV(t *testing.T) {
	m := NewMultiSelect("property_type", "Type", []Option{
		{Value: "office", Label: "Office"}, {Value: "retail", Label: "Retail"}, {Value: "land", Label: "Land"},
	})
	m.SetExternal(query.New().Set("property_type", query.List("land", "office")))
	assert.Equal(t, []string{"office", "land"}, m.Values())

	m.SetExternal(query.New().Set("property_type", query.String("retail,land")))
	assert.Equal(t, []string{"retail", "land"}, m.Values())
}

func TestToggleSendsOnValue(t *testing.T) {
	tg := NewToggle("status", "Available only", "available")
	tg.Focus()

	msg := drain(tg.Update(typeKey(tea.KeySpace)))
	assert.Equal(t, "available", msg.(FilterChangedMsg).Changes["status"].Text())
	assert.True(t, tg.On())

	msg = drain(tg.Update(typeKey(tea.KeySpace)))
	assert.True(t, msg.(FilterChangedMsg).Changes["status"].IsUnset())

	tg.SetExternal(query.New().Set("status", query.String("Available")))
	assert.True(t, tg.On())
}
