package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return nil, err
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// NewScreenRenderer renders USSD screens, keeping every line break of the
// gateway text.
func NewScreenRenderer() (func(string) (string, error), error) {
	render, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	return func(screen string) (string, error) {
		return render(ScreenMarkdown(screen))
	}, nil
}

// ScreenMarkdown converts plain screen text to Markdown with hard line breaks.
func ScreenMarkdown(screen string) string {
	lines := strings.Split(strings.TrimRight(screen, "\n"), "\n")
	for i, l := range lines {
		if l != "" && i < len(lines)-1 && lines[i+1] != "" {
			lines[i] = l + "  "
		}
	}
	return strings.Join(lines, "\n")
}
