package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

var perPageOptions = []Option{
	{Value: "15", Label: "15 per page"},
	{Value: "30", Label: "30 per page"},
	{Value: "50", Label: "50 per page"},
}

func TestDropdownAttachesOnlyWhileOpen(t *testing.T) {
	hub := NewPointerHub()
	d := NewDropdown("per-page", perPageOptions, hub)
	assert.Equal(t, 0, hub.Len())

	d.Open(10, 5)
	assert.Equal(t, 1, hub.Len())

	// Reopening does not register twice.
	d.Open(10, 5)
	assert.Equal(t, 1, hub.Len())

	d.Update(typeKey(tea.KeyEsc))
	assert.False(t, d.IsOpen())
	assert.Equal(t, 0, hub.Len())
}

func TestDropdownKeyboardSelectDetaches(t *testing.T) {
	hub := NewPointerHub()
	d := NewDropdown("per-page", perPageOptions, hub)
	d.SetValue("15")
	d.Open(0, 0)

	d.Update(typeKey(tea.KeyDown))
	msg := drain(d.Update(typeKey(tea.KeyEnter)))
	assert.Equal(t, DropdownSelectMsg{ID: "per-page", Value: "30"}, msg)
	assert.Equal(t, "30", d.Value())
	assert.Equal(t, 0, hub.Len())
}

func TestDropdownClickInsideSelects(t *testing.T) {
	hub := NewPointerHub()
	d := NewDropdown("per-page", perPageOptions, hub)
	d.Open(10, 5)

	// border at y=5, options at 6..8
	cmd, consumed := hub.Dispatch(press(12, 8))
	assert.True(t, consumed)
	assert.Equal(t, DropdownSelectMsg{ID: "per-page", Value: "50"}, drain(cmd))
	assert.Equal(t, 0, hub.Len())
}

func TestDropdownClickOutsideCloses(t *testing.T) {
	hub := NewPointerHub()
	d := NewDropdown("per-page", perPageOptions, hub)
	d.Open(10, 5)

	cmd, consumed := hub.Dispatch(press(0, 0))
	assert.True(t, consumed)
	assert.Nil(t, cmd)
	assert.False(t, d.IsOpen())
	assert.Equal(t, 0, hub.Len())

	// Once detached the hub no longer sees clicks.
	_, consumed = hub.Dispatch(press(0, 0))
	assert.False(t, consumed)
}

func TestDropdownCloseIsIdempotent(t *testing.T) {
	hub := NewPointerHub()
	d := NewDropdown("per-page", perPageOptions, hub)
	d.Close()
	d.Open(0, 0)
	d.Close()
	d.Close()
	assert.Equal(t, 0, hub.Len())
	assert.Equal(t, "", d.View())
}

func TestDropdownScrollsLongOptionSets(t *testing.T) {
	hub := NewPointerHub()
	d := NewDropdown("per-page", pageSizes(5, 10, 15, 20, 25, 30, 50, 100), hub)
	d.SetValue("100")
	d.Open(0, 0)

	_, h := d.Size()
	assert.Equal(t, dropdownRows+2, h)
	view := SanitizeText(d.View())
	assert.Contains(t, view, "100 per page")
	assert.NotContains(t, view, " 5 per page")
	assert.NotContains(t, view, " 10 per page")

	// The top visible row is option 2 (15) once scrolled to the end.
	cmd, consumed := hub.Dispatch(press(2, 1))
	assert.True(t, consumed)
	assert.Equal(t, DropdownSelectMsg{ID: "per-page", Value: "15"}, drain(cmd))
}

func TestPointerHubNewestFirst(t *testing.T) {
	hub := NewPointerHub()
	a := NewDropdown("a", perPageOptions, hub)
	b := NewDropdown("b", perPageOptions, hub)
	a.Open(0, 0)
	b.Open(0, 0)

	cmd, consumed := hub.Dispatch(press(2, 1))
	assert.True(t, consumed)
	assert.Equal(t, DropdownSelectMsg{ID: "b", Value: "15"}, drain(cmd))
	assert.True(t, a.IsOpen())
	assert.Equal(t, 1, hub.Len())
}
