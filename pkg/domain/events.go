package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventScreenEnter    EventType = "screen_enter"
	EventChoiceRejected EventType = "choice_rejected"
	EventComplete       EventType = "complete"
	EventRequestFailed  EventType = "request_failed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Mode      string    `json:"mode"`
}

// ScreenEvent is fired when a session lands on a screen, including re-prompts.
type ScreenEvent struct {
	EventBase
	Screen int `json:"screen"`
}

// ChoiceEvent is fired when a token is rejected by a screen.
type ChoiceEvent struct {
	EventBase
	Screen int    `json:"screen"`
	Choice string `json:"choice"`
	// Terminal is true when the rejection failed the request instead of re-prompting.
	Terminal bool `json:"terminal"`
}

// CompleteEvent is fired when a dialog reaches its summary.
type CompleteEvent struct {
	EventBase
	Answers map[string]string `json:"answers"`
}

// FailureEvent is fired when a request ends with an error.
type FailureEvent struct {
	EventBase
	Code string `json:"code"`
	Err  error  `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnScreenEnter    func(context.Context, *ScreenEvent)
	OnChoiceRejected func(context.Context, *ChoiceEvent)
	OnComplete       func(context.Context, *CompleteEvent)
	OnRequestFailed  func(context.Context, *FailureEvent)
}
