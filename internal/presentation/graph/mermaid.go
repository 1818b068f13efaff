package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/dialcode/pkg/menu"
)

// Node identifiers used in the generated charts.
const (
	DialNodeID    = "dial"
	SummaryNodeID = "summary"
)

// GraphOverlay contains dynamic session data to visualize on the graph.
type GraphOverlay struct {
	// CurrentScreen is the 1-based screen a session is waiting on. Zero means none.
	CurrentScreen int
	// Answered lists the screens already answered.
	Answered []int
}

// ScreenID returns the chart node id of screen n.
func ScreenID(n int) string {
	return fmt.Sprintf("screen%d", n)
}

// GenerateMermaid produces a Mermaid flowchart of the menu tree.
// Single-choice steps are solid edges; dial-string shortcuts are dotted edges
// leaving the dial node. accessCode is shown on the shortcut labels.
func GenerateMermaid(m *menu.Menu, accessCode []string, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	code := strings.Join(accessCode, "*")
	sb.WriteString(fmt.Sprintf("    %s((\"*%s#\"))\n", DialNodeID, code))

	for i, screen := range m.Screens {
		n := i + 1
		sb.WriteString(fmt.Sprintf("    %s[/\"%s\"/]\n", ScreenID(n), label(screen.Question)))
	}
	sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", SummaryNodeID, label(m.Summary)))

	if len(m.Screens) > 0 {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", DialNodeID, ScreenID(1)))
	}

	for i, screen := range m.Screens {
		next := SummaryNodeID
		if i+1 < len(m.Screens) {
			next = ScreenID(i + 2)
		}
		for _, o := range screen.Options {
			sb.WriteString(fmt.Sprintf("    %s -- \"%s: %s\" --> %s\n", ScreenID(i+1), o.Key, label(o.Label), next))
		}
	}

	// Shortcuts: answering k screens from the dial string lands on screen k+1 (or the summary).
	for i, screen := range m.Screens {
		if len(screen.Options) == 0 {
			break
		}
		next := SummaryNodeID
		if i+1 < len(m.Screens) {
			next = ScreenID(i + 2)
		}
		shortcut := fmt.Sprintf("*%s%s#", code, strings.Repeat("*N", i+1))
		sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> %s\n", DialNodeID, shortcut, next))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[int]bool)
		for _, n := range overlay.Answered {
			if n < 1 || n > len(m.Screens) || seen[n] {
				continue
			}
			seen[n] = true
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", ScreenID(n)))
		}
		if overlay.CurrentScreen >= 1 && overlay.CurrentScreen <= len(m.Screens) {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", ScreenID(overlay.CurrentScreen)))
		}
	}

	return sb.String()
}

// label makes text safe inside a quoted Mermaid label.
func label(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.ReplaceAll(s, "\n", " ")
}
