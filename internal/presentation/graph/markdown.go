package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/dialcode/pkg/menu"
)

// GenerateMarkdown documents the menu tree as Markdown: one section per
// screen, its choices, and the dial-string shortcuts.
func GenerateMarkdown(m *menu.Menu, accessCode []string) string {
	code := strings.Join(accessCode, "*")

	var sb strings.Builder
	sb.WriteString("# Menu\n\n")
	sb.WriteString(fmt.Sprintf("Dial `*%s#` to start.\n", code))

	for i, screen := range m.Screens {
		sb.WriteString(fmt.Sprintf("\n## Screen %d: %s\n\n", i+1, strings.TrimSpace(screen.Question)))
		sb.WriteString("| Key | Choice | Records |\n|---|---|---|\n")
		for _, o := range screen.Options {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s = %q |\n", o.Key, o.Label, screen.Field, o.Value))
		}
	}

	sb.WriteString("\n## Summary\n\n")
	sb.WriteString(fmt.Sprintf("`%s`\n", m.Summary))

	sb.WriteString("\n## Shortcuts\n\n")
	for i := range m.Screens {
		target := fmt.Sprintf("screen %d", i+2)
		if i+1 == len(m.Screens) {
			target = "the summary"
		}
		sb.WriteString(fmt.Sprintf("- `*%s%s#` answers %d screen(s) and shows %s\n", code, strings.Repeat("*N", i+1), i+1, target))
	}
	return sb.String()
}
