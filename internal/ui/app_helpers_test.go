package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestCenterBlockUniformPadsEveryLineEqually(t *testing.T) {
	out := centerBlockUniform("hi\nworld", 15)

	lines := strings.Split(out, "\n")
	assert.Equal(t, 2, len(lines))
	assert.Equal(t, "     hi", lines[0])
	assert.Equal(t, "     world", lines[1])
}

func TestCenterBlockUniformLeavesWideBlocksUnchanged(t *testing.T) {
	in := "0123456789"
	assert.Equal(t, in, centerBlockUniform(in, 5))
	assert.Equal(t, in, centerBlockUniform(in, 0))
}

func TestToastStyleColoursByLevel(t *testing.T) {
	assert.Equal(t, ColorError, ToastStyle("error").GetForeground())
	assert.Equal(t, ColorWarning, ToastStyle("warning").GetForeground())
	assert.Equal(t, ColorSuccess, ToastStyle("success").GetForeground())
	assert.Equal(t, ColorBlue, ToastStyle("info").GetForeground())
	assert.Equal(t, ColorBlue, ToastStyle("bogus").GetForeground())
}

func TestRenderToastTitlesByLevel(t *testing.T) {
	app := App{width: 80}
	app.toast = &appToast{level: "success", text: "Saved."}
	out := app.renderToast()
	assert.Contains(t, out, "Success")
	assert.Contains(t, out, "Saved.")

	app.toast = &appToast{level: "error", text: "Could not load listings"}
	out = app.renderToast()
	assert.Contains(t, out, "Error")
	assert.Contains(t, out, "Could not load listings")
	assert.Greater(t, lipgloss.Height(out), 2)
}
