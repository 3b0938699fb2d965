package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirmDialogShowsQuestionAndKeys(t *testing.T) {
	clean := SanitizeText(ConfirmDialog("Quit", "A search is still being typed."))

	assert.Contains(t, clean, "Quit")
	assert.Contains(t, clean, "A search is still being typed.")
	assert.Contains(t, clean, "Confirm")
	assert.Contains(t, clean, "Cancel")
}

func TestInputDialogShowsFieldAndRange(t *testing.T) {
	clean := SanitizeText(InputDialog("Go to page", "12", "1 to 40"))

	assert.Contains(t, clean, "Go to page")
	assert.Contains(t, clean, "> 12")
	assert.Contains(t, clean, "1 to 40")
	assert.Contains(t, clean, "enter")
}

func TestInputDialogWithoutNote(t *testing.T) {
	withNote := InputDialog("Go to page", "", "1 to 40")
	without := InputDialog("Go to page", "", "")
	assert.NotContains(t, SanitizeText(without), "1 to 40")
	assert.NotEqual(t, withNote, without)
}

func TestInputDialogStripsEscapes(t *testing.T) {
	out := InputDialog("Go to page", "3\x1b[2J", "")
	assert.NotContains(t, out, "\x1b[2J")
}
