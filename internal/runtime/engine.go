package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/dialcode/internal/logging"
	"github.com/aretw0/dialcode/pkg/dial"
	"github.com/aretw0/dialcode/pkg/domain"
	"github.com/aretw0/dialcode/pkg/menu"
	"github.com/aretw0/dialcode/pkg/session"
)

// RequestObserver receives the outcome of every handled request.
type RequestObserver interface {
	ObserveRequest(mode, outcome string, d time.Duration)
}

// Engine is the dialog state machine.
// Branching depends only on the entry mode and the session's current screen.
type Engine struct {
	sessions   *session.Manager
	menu       *menu.Menu
	accessCode []string
	hooks      domain.LifecycleHooks
	observer   RequestObserver
	logger     *slog.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithMenu replaces the default menu.
func WithMenu(m *menu.Menu) EngineOption {
	return func(e *Engine) {
		e.menu = m
	}
}

// WithAccessCode sets the reserved dial code, e.g. "*920*1806#".
func WithAccessCode(code []string) EngineOption {
	return func(e *Engine) {
		e.accessCode = code
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithObserver registers a request observer (metrics).
func WithObserver(o RequestObserver) EngineOption {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a new engine backed by the given session manager.
func NewEngine(sessions *session.Manager, opts ...EngineOption) *Engine {
	e := &Engine{
		sessions:   sessions,
		menu:       menu.Default(),
		accessCode: dial.DefaultAccessCode,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Menu returns the menu the engine walks.
func (e *Engine) Menu() *menu.Menu {
	return e.menu
}

// outcome is the result of a single transition.
type outcome struct {
	message  string
	cont     bool
	next     *domain.Session // nil removes the session
	screen   int             // screen rendered, 0 on completion
	rejected *domain.ChoiceError
	answers  map[string]string
}

// Handle advances the dialog addressed by req and returns the next screen or the summary.
func (e *Engine) Handle(ctx context.Context, req domain.Request) (domain.Response, error) {
	start := time.Now()
	entry := dial.Parse(req.UserData, req.FirstContact, e.accessCode)
	mode := entry.Mode.String()

	resp, out, err := e.handle(ctx, req, entry)

	status := "ok"
	if err != nil {
		status = domain.Code(err)
		e.fail(ctx, req, mode, err)
	} else {
		e.emit(ctx, req, mode, out)
	}
	if e.observer != nil {
		e.observer.ObserveRequest(mode, status, time.Since(start))
	}
	return resp, err
}

func (e *Engine) handle(ctx context.Context, req domain.Request, entry dial.Entry) (domain.Response, outcome, error) {
	if req.SessionID == "" {
		return domain.Response{}, outcome{}, domain.ErrMissingSessionID
	}
	if entry.Mode == dial.ModeMalformed {
		return domain.Response{}, outcome{}, fmt.Errorf("%w: unsupported dial string %q", domain.ErrMalformedInput, req.UserData)
	}

	var out outcome
	err := e.sessions.Update(ctx, req.SessionID, func(s *domain.Session, created bool) (*domain.Session, error) {
		var err error
		out, err = e.transition(s, created, req, entry)
		if err != nil {
			return nil, err
		}
		return out.next, nil
	})
	if err != nil {
		return domain.Response{}, outcome{}, err
	}

	e.logger.Debug("Request handled",
		"session_id", req.SessionID,
		"mode", entry.Mode.String(),
		"screen", out.screen,
		"continue", out.cont,
	)

	return domain.Response{
		UserID:   req.UserID,
		MSISDN:   req.MSISDN,
		Message:  out.message,
		Continue: out.cont,
	}, out, nil
}

// transition computes the next state. s is a private copy; errors discard it.
func (e *Engine) transition(s *domain.Session, created bool, req domain.Request, entry dial.Entry) (outcome, error) {
	switch entry.Mode {
	case dial.ModeFresh:
		s.Screen = 1
		return outcome{
			message: e.menu.WelcomePrompt(req.UserID, s),
			cont:    true,
			next:    s,
			screen:  1,
		}, nil

	case dial.ModeContinue:
		if created {
			return outcome{}, fmt.Errorf("%w: no active session for choice %q", domain.ErrMalformedInput, entry.Choices[0])
		}
		done, err := e.apply(s, entry.Choices[0])
		var ce *domain.ChoiceError
		if errors.As(err, &ce) {
			// Recover locally: same screen, state unchanged.
			return outcome{
				message:  e.menu.InvalidPrompt(s.Screen, s),
				cont:     true,
				next:     s,
				screen:   s.Screen,
				rejected: ce,
			}, nil
		}
		if err != nil {
			return outcome{}, err
		}
		return e.advance(s, done), nil

	case dial.ModeDirectAccess, dial.ModeAutoSummary:
		s.Screen = 1
		done := false
		for i, choice := range entry.Choices {
			if done {
				return outcome{}, fmt.Errorf("%w: %d choices left after the last screen", domain.ErrMalformedInput, len(entry.Choices)-i)
			}
			var err error
			done, err = e.apply(s, choice)
			if err != nil {
				return outcome{}, fmt.Errorf("%s: %w", entry.Mode, err)
			}
		}
		return e.advance(s, done), nil
	}

	return outcome{}, fmt.Errorf("%w: unsupported entry mode %s", domain.ErrMalformedInput, entry.Mode)
}

// apply records choice against the session's current screen.
// It reports whether the last screen has been answered.
func (e *Engine) apply(s *domain.Session, choice string) (bool, error) {
	screen, ok := e.menu.Screen(s.Screen)
	if !ok {
		return false, fmt.Errorf("%w: session is on unknown screen %d", domain.ErrMalformedInput, s.Screen)
	}
	opt, ok := screen.Choose(choice)
	if !ok {
		return false, &domain.ChoiceError{Screen: s.Screen, Choice: choice}
	}
	s.SetAnswer(screen.Field, opt.Value)
	if s.Screen == e.menu.Len() {
		return true, nil
	}
	s.Screen++
	return false, nil
}

func (e *Engine) advance(s *domain.Session, done bool) outcome {
	if done {
		return outcome{
			message: e.menu.SummaryText(s),
			cont:    false,
			next:    nil,
			answers: s.Answers(),
		}
	}
	return outcome{
		message: e.menu.Prompt(s.Screen, s),
		cont:    true,
		next:    s,
		screen:  s.Screen,
	}
}

func (e *Engine) base(req domain.Request, mode string, t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now(),
		Type:      t,
		SessionID: req.SessionID,
		Mode:      mode,
	}
}

func (e *Engine) emit(ctx context.Context, req domain.Request, mode string, out outcome) {
	if out.rejected != nil && e.hooks.OnChoiceRejected != nil {
		e.hooks.OnChoiceRejected(ctx, &domain.ChoiceEvent{
			EventBase: e.base(req, mode, domain.EventChoiceRejected),
			Screen:    out.rejected.Screen,
			Choice:    out.rejected.Choice,
		})
	}
	if out.screen > 0 && e.hooks.OnScreenEnter != nil {
		e.hooks.OnScreenEnter(ctx, &domain.ScreenEvent{
			EventBase: e.base(req, mode, domain.EventScreenEnter),
			Screen:    out.screen,
		})
	}
	if out.answers != nil {
		e.logger.Info("Dialog completed", "session_id", req.SessionID, "mode", mode)
		if e.hooks.OnComplete != nil {
			e.hooks.OnComplete(ctx, &domain.CompleteEvent{
				EventBase: e.base(req, mode, domain.EventComplete),
				Answers:   out.answers,
			})
		}
	}
}

func (e *Engine) fail(ctx context.Context, req domain.Request, mode string, err error) {
	code := domain.Code(err)
	e.logger.Warn("Request failed", "session_id", req.SessionID, "mode", mode, "code", code, "err", err)

	var ce *domain.ChoiceError
	if errors.As(err, &ce) && e.hooks.OnChoiceRejected != nil {
		e.hooks.OnChoiceRejected(ctx, &domain.ChoiceEvent{
			EventBase: e.base(req, mode, domain.EventChoiceRejected),
			Screen:    ce.Screen,
			Choice:    ce.Choice,
			Terminal:  true,
		})
	}
	if e.hooks.OnRequestFailed != nil {
		e.hooks.OnRequestFailed(ctx, &domain.FailureEvent{
			EventBase: e.base(req, mode, domain.EventRequestFailed),
			Code:      code,
			Err:       err,
		})
	}
}
