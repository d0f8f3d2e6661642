package utils

import (
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

const (
	defaultWrapWidth       = 100
	previewHorizontalSpace = 4
)

// RenderMarkdown styles markdown for the terminal. width is the space
// available to the output; zero or less uses the default wrap width.
func RenderMarkdown(content string, width int) (string, error) {
	wrapWidth := width - previewHorizontalSpace
	if width <= 0 || wrapWidth <= 0 {
		wrapWidth = defaultWrapWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(wrapWidth),
		glamour.WithColorProfile(termenv.ANSI256),
	)
	if err != nil {
		return "", err
	}

	return r.Render(content)
}
