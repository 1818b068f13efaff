package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrMissingSessionID is returned when a request carries an empty session identifier.
var ErrMissingSessionID = errors.New("SESSIONID is missing")

// ErrMalformedInput is returned when the dialed text does not map to a supported entry mode.
var ErrMalformedInput = errors.New("malformed input")

// ErrInvalidChoice is returned when a token is not part of a screen's vocabulary.
var ErrInvalidChoice = errors.New("invalid choice")

// ErrInputRejected is returned when the raw input fails boundary sanitization.
var ErrInputRejected = errors.New("input rejected")

// ChoiceError reports the screen and token of a rejected choice.
type ChoiceError struct {
	Screen int
	Choice string
}

func (e *ChoiceError) Error() string {
	return fmt.Sprintf("invalid choice %q on screen %d", e.Choice, e.Screen)
}

func (e *ChoiceError) Unwrap() error {
	return ErrInvalidChoice
}

// Stable error identifiers surfaced to callers.
const (
	CodeMissingSessionID = "missing_session_id"
	CodeMalformedInput   = "malformed_input"
	CodeInvalidChoice    = "invalid_choice"
	CodeInputRejected    = "input_rejected"
	CodeSessionNotFound  = "session_not_found"
	CodeInternal         = "internal"
)

// Code maps an error to its stable identifier.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingSessionID):
		return CodeMissingSessionID
	case errors.Is(err, ErrMalformedInput):
		return CodeMalformedInput
	case errors.Is(err, ErrInvalidChoice):
		return CodeInvalidChoice
	case errors.Is(err, ErrInputRejected):
		return CodeInputRejected
	case errors.Is(err, ErrSessionNotFound):
		return CodeSessionNotFound
	}
	return CodeInternal
}
