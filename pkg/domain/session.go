package domain

import "time"

// Answer fields recorded on a Session.
const (
	FieldFeeling = "feeling"
	FieldReason  = "reason"
)

// Session represents the state of a single dialog.
type Session struct {
	// Screen is the 1-based position in the menu tree.
	Screen int `json:"screen"`

	Feeling string `json:"feeling"`
	Reason  string `json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates a clean session waiting on the first screen.
func NewSession() *Session {
	now := time.Now().UTC()
	return &Session{
		Screen:    1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Answer returns the value recorded for the given field.
func (s *Session) Answer(field string) string {
	switch field {
	case FieldFeeling:
		return s.Feeling
	case FieldReason:
		return s.Reason
	}
	return ""
}

// SetAnswer records a value for the given field. Unknown fields are ignored.
func (s *Session) SetAnswer(field, value string) {
	switch field {
	case FieldFeeling:
		s.Feeling = value
	case FieldReason:
		s.Reason = value
	}
}

// Answers returns the recorded fields keyed by name.
func (s *Session) Answers() map[string]string {
	return map[string]string{
		FieldFeeling: s.Feeling,
		FieldReason:  s.Reason,
	}
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Touch refreshes the last activity timestamp.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now().UTC()
}
