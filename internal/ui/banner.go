package ui

import "github.com/charmbracelet/lipgloss"

const bannerArt = `┌─┐┬─┐┌─┐┌┬┐┬┬─┐
│  ├┬┘├┤  ││││├┬┘
└─┘┴└─└─┘─┴┘┴┴└─`

const bannerSubtitle = "Commercial Real Estate Directory"

// RenderBanner returns the compact styled banner with its subtitle.
func RenderBanner() string {
	lines := splitLines(bannerArt)
	rendered := make([]string, 0, len(lines)+1)
	for i, line := range lines {
		if line == "" {
			continue
		}
		line = BannerStyle.Render(line)
		if i == len(lines)-1 {
			line += "  " + BannerAccentStyle.Render(bannerSubtitle)
		}
		rendered = append(rendered, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
