package runner

import (
	"log/slog"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithSubscriber sets the application id and phone number sent on every request.
// Empty values keep the defaults.
func WithSubscriber(userID, msisdn string) Option {
	return func(r *Runner) {
		if userID != "" {
			r.UserID = userID
		}
		if msisdn != "" {
			r.MSISDN = msisdn
		}
	}
}

// WithSessionIDs replaces the generator used to open simulated sessions.
func WithSessionIDs(next func() string) Option {
	return func(r *Runner) {
		r.NextSessionID = next
	}
}
