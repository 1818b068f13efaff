package runner

import (
	"context"

	"github.com/aretw0/dialcode/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents the engine's answer.
	Output(ctx context.Context, resp domain.Response) error

	// Input reads the next dial string.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (session boundaries, rejected requests).
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms a screen before it is printed.
type ContentRenderer func(string) (string, error)
