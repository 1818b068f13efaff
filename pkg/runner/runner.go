package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/dialcode/pkg/domain"
	"github.com/aretw0/dialcode/pkg/ports"
	"github.com/google/uuid"
)

// Default subscriber used when none is configured.
const (
	DefaultUserID = "dialcode"
	DefaultMSISDN = "0000000000"
)

// Runner handles the request loop against a dialog engine using provided IO.
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on stdin/stdout.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	UserID string
	MSISDN string

	// NextSessionID opens a new simulated session.
	NextSessionID func() string
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		UserID:        DefaultUserID,
		MSISDN:        DefaultMSISDN,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		NextSessionID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run relays lines to the engine until input ends, the user types exit or ctx is done.
func (r *Runner) Run(ctx context.Context, engine ports.DialogEngine) error {
	handler := r.resolveHandler()

	sessionID := r.NextSessionID()
	first := true

	for {
		text, err := handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, domain.ErrInputRejected) {
				if err := handler.SystemOutput(ctx, err.Error()); err != nil {
					return fmt.Errorf("output error: %w", err)
				}
				continue
			}
			return fmt.Errorf("input error: %w", err)
		}

		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" {
			return nil
		}

		req := domain.Request{
			UserID:       r.UserID,
			MSISDN:       r.MSISDN,
			UserData:     text,
			SessionID:    sessionID,
			FirstContact: first,
		}
		resp, err := engine.Handle(ctx, req)
		first = false

		if err != nil {
			r.Logger.Debug("Request failed", "session_id", sessionID, "err", err)
			if err := handler.SystemOutput(ctx, fmt.Sprintf("Session closed (%s): %v", domain.Code(err), err)); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			sessionID, first = r.NextSessionID(), true
			continue
		}

		if err := handler.Output(ctx, resp); err != nil {
			return fmt.Errorf("output error: %w", err)
		}

		if !resp.Continue {
			r.Logger.Debug("Session ended", "session_id", sessionID)
			if err := handler.SystemOutput(ctx, "Session ended. Dial again to start over."); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			sessionID, first = r.NextSessionID(), true
		}
	}
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r.Handler
}
