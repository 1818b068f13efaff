package dial

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Separator splits segments of a dial string.
	Separator = "*"
	// Terminator may close a segment (usually the last one).
	Terminator = "#"
)

// DefaultAccessCode is the reserved code that opens the application.
var DefaultAccessCode = []string{"920", "1806"}

// Mode is the entry mode of a request.
type Mode int

const (
	// ModeMalformed is an unsupported token layout.
	ModeMalformed Mode = iota
	// ModeFresh opens the dialog with the welcome screen.
	ModeFresh
	// ModeContinue answers whichever screen the session is on.
	ModeContinue
	// ModeDirectAccess embeds the first screen's answer in the dial string.
	ModeDirectAccess
	// ModeAutoSummary embeds the answers of both screens.
	ModeAutoSummary
)

var modeNames = map[Mode]string{
	ModeMalformed:    "malformed",
	ModeFresh:        "fresh",
	ModeContinue:     "continue",
	ModeDirectAccess: "direct_access",
	ModeAutoSummary:  "auto_summary",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// Entry is the classified form of a request's dialed text.
type Entry struct {
	Mode Mode
	// Choices holds the answers to apply, in screen order.
	Choices []string
}

// Tokens splits raw dialed text into its non-empty segments, stripping any
// trailing terminator from each one.
func Tokens(text string) []string {
	parts := strings.Split(text, Separator)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.TrimRight(p, Terminator)
		if p == "" {
			continue
		}
		tokens = append(tokens, p)
	}
	return tokens
}

// MinAccessCodeSegments is the shortest usable access code. A single segment
// would be indistinguishable from a one-token menu choice.
const MinAccessCodeSegments = 2

// ErrAccessCode is returned for access codes that cannot be classified.
var ErrAccessCode = errors.New("invalid access code")

// ValidateAccessCode checks a parsed access code.
func ValidateAccessCode(code []string) error {
	if len(code) == 0 {
		return fmt.Errorf("%w: access code has no digits", ErrAccessCode)
	}
	if len(code) < MinAccessCodeSegments {
		return fmt.Errorf("%w: need at least %d segments, got %d", ErrAccessCode, MinAccessCodeSegments, len(code))
	}
	return nil
}

// ParseAccessCode converts a configured code such as "*920*1806#" into tokens.
func ParseAccessCode(code string) []string {
	return Tokens(code)
}

// Classify maps tokens onto an entry mode.
// firstContact is the gateway flag marking the first request of a dial.
// accessCode defaults to DefaultAccessCode when empty.
func Classify(tokens []string, firstContact bool, accessCode []string) Entry {
	if len(accessCode) == 0 {
		accessCode = DefaultAccessCode
	}
	n := len(accessCode)

	switch {
	case len(tokens) == 1:
		if firstContact {
			return Entry{Mode: ModeFresh}
		}
		return Entry{Mode: ModeContinue, Choices: []string{tokens[0]}}
	case len(tokens) == n:
		if hasPrefix(tokens, accessCode) {
			return Entry{Mode: ModeFresh}
		}
	case len(tokens) == n+1:
		if hasPrefix(tokens, accessCode) {
			return Entry{Mode: ModeDirectAccess, Choices: clone(tokens[n:])}
		}
	case len(tokens) == n+2:
		if hasPrefix(tokens, accessCode) {
			return Entry{Mode: ModeAutoSummary, Choices: clone(tokens[n:])}
		}
	}
	return Entry{Mode: ModeMalformed}
}

// Parse is shorthand for Classify(Tokens(text), firstContact, accessCode).
func Parse(text string, firstContact bool, accessCode []string) Entry {
	return Classify(Tokens(text), firstContact, accessCode)
}

func hasPrefix(tokens, prefix []string) bool {
	if len(tokens) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if tokens[i] != p {
			return false
		}
	}
	return true
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
