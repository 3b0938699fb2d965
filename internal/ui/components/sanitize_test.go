package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeOneLineFlattensAddresses(t *testing.T) {
	assert.Equal(t, "123 Main St Suite 400 Austin", SanitizeOneLine("123 Main St\nSuite 400\tAustin"))
	assert.Equal(t, "Plaza North", SanitizeOneLine("Plaza\r\nNorth"))
	assert.Equal(t, "", SanitizeOneLine(""))
}

func TestSanitizeOneLineDropsHyperlinks(t *testing.T) {
	in := "\x1b]8;;https://example.test\x07Riverside Lofts\x1b]8;;\x07 for lease"
	assert.Equal(t, "Riverside Lofts for lease", SanitizeOneLine(in))
}

func TestSanitizeTextStripsColorCodes(t *testing.T) {
	assert.Equal(t, "Office", SanitizeText("\x1b[31mOffice\x1b[0m"))
	assert.Equal(t, "line one\nline two", SanitizeText("line one\nline two\x07"))
}

func TestSanitizeTextRemovesBidiControls(t *testing.T) {
	assert.Equal(t, "Fund IV", SanitizeText("Fund \u202eIV\u202c"))
	assert.Equal(t, "Brokerage", SanitizeText("\u2066Brokerage\u2069"))
}
