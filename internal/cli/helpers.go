package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/dialcode/internal/config"
	"github.com/aretw0/dialcode/internal/logging"
	"github.com/aretw0/dialcode/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// CreateLogger configures the application logger from cfg.
// debug forces the debug level.
func CreateLogger(cfg config.LogConfig, debug bool) (*slog.Logger, error) {
	level := cfg.Level
	if debug {
		level = "debug"
	}
	return logging.FromConfig(cfg.Format, level)
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnScreenEnter: func(ctx context.Context, e *domain.ScreenEvent) {
			logger.Debug("Enter Screen", "session_id", e.SessionID, "mode", e.Mode, "screen", e.Screen)
		},
		OnChoiceRejected: func(ctx context.Context, e *domain.ChoiceEvent) {
			logger.Debug("Choice Rejected", "session_id", e.SessionID, "screen", e.Screen, "choice", e.Choice, "terminal", e.Terminal)
		},
		OnComplete: func(ctx context.Context, e *domain.CompleteEvent) {
			logger.Debug("Dialog Complete", "session_id", e.SessionID, "mode", e.Mode)
		},
		OnRequestFailed: func(ctx context.Context, e *domain.FailureEvent) {
			logger.Debug("Request Failed", "session_id", e.SessionID, "code", e.Code, "err", e.Err)
		},
	}
}
