package ui

import (
	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders help and about text for terminal display. Falls
// back to the raw text if the renderer cannot be built.
func RenderMarkdown(text string, width int, theme Theme) string {
	style := "light"
	if theme.IsDark {
		style = "dark"
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return out
}
