// Package menu holds the fixed menu tree of the dialog: the screens, their
// choice vocabularies and the rules that assemble prompts and the summary.
package menu

import (
	"fmt"
	"strings"

	"github.com/aretw0/dialcode/pkg/domain"
)

// InvalidPrefix is prepended to a screen prompt when a choice is rejected.
const InvalidPrefix = "Invalid choice. "

// Option is a single numbered entry on a screen.
type Option struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	// Value is what gets recorded on the session when the option is chosen.
	Value string `json:"value" yaml:"value"`
}

// Screen is one step of the menu tree awaiting a single choice.
type Screen struct {
	// Field is the session answer this screen records.
	Field string `json:"field" yaml:"field"`
	// Question may reference earlier answers as {field}.
	Question string   `json:"question" yaml:"question"`
	Options  []Option `json:"options" yaml:"options"`
}

// Choose resolves a token against the screen vocabulary.
func (s Screen) Choose(token string) (Option, bool) {
	for _, o := range s.Options {
		if o.Key == token {
			return o, true
		}
	}
	return Option{}, false
}

// Menu is an ordered list of screens followed by a summary.
type Menu struct {
	// Welcome is prefixed to the first screen on a fresh entry; {app} is the application id.
	Welcome string   `json:"welcome" yaml:"welcome"`
	Screens []Screen `json:"screens" yaml:"screens"`
	// Summary may reference every answer as {field}.
	Summary string `json:"summary" yaml:"summary"`
}

// Default returns the shipped two-screen menu.
func Default() *Menu {
	return &Menu{
		Welcome: "Welcome to {app} USSD Application.\n",
		Screens: []Screen{
			{
				Field:    domain.FieldFeeling,
				Question: "How are you feeling?\n",
				Options: []Option{
					{Key: "1", Label: "Feeling fine", Value: "Feeling fine"},
					{Key: "2", Label: "Feeling frisky", Value: "Feeling frisky"},
					{Key: "3", Label: "Not well", Value: "Not well"},
				},
			},
			{
				Field:    domain.FieldReason,
				Question: "Why are you {feeling}?",
				Options: []Option{
					{Key: "1", Label: "Money", Value: "because of money"},
					{Key: "2", Label: "Relationship", Value: "because of relationship"},
					{Key: "3", Label: "A lot", Value: "because of a lot"},
				},
			},
		},
		Summary: "You are {feeling} {reason}.",
	}
}

// Len returns the number of screens.
func (m *Menu) Len() int {
	return len(m.Screens)
}

// Screen returns the 1-based screen n.
func (m *Menu) Screen(n int) (Screen, bool) {
	if n < 1 || n > len(m.Screens) {
		return Screen{}, false
	}
	return m.Screens[n-1], true
}

// Prompt renders screen n for the given session.
func (m *Menu) Prompt(n int, s *domain.Session) string {
	screen, ok := m.Screen(n)
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(interpolate(screen.Question, s.Answers()))
	for _, o := range screen.Options {
		fmt.Fprintf(&b, "\n%s. %s", o.Key, o.Label)
	}
	return b.String()
}

// WelcomePrompt renders the fresh-entry screen for the given application id.
func (m *Menu) WelcomePrompt(app string, s *domain.Session) string {
	welcome := strings.ReplaceAll(m.Welcome, "{app}", app)
	return welcome + m.Prompt(1, s)
}

// InvalidPrompt renders screen n prefixed with the invalid-choice notice.
func (m *Menu) InvalidPrompt(n int, s *domain.Session) string {
	return InvalidPrefix + m.Prompt(n, s)
}

// SummaryText renders the terminal summary for the given session.
func (m *Menu) SummaryText(s *domain.Session) string {
	return interpolate(m.Summary, s.Answers())
}

// Validate checks the menu is usable by the engine.
func (m *Menu) Validate() error {
	if len(m.Screens) == 0 {
		return fmt.Errorf("menu has no screens")
	}
	for i, s := range m.Screens {
		if s.Field == "" {
			return fmt.Errorf("screen %d: field is required", i+1)
		}
		if len(s.Options) == 0 {
			return fmt.Errorf("screen %d: no options", i+1)
		}
		seen := make(map[string]bool, len(s.Options))
		for _, o := range s.Options {
			if seen[o.Key] {
				return fmt.Errorf("screen %d: duplicate option key %q", i+1, o.Key)
			}
			seen[o.Key] = true
		}
	}
	return nil
}

func interpolate(tmpl string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
