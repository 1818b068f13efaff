package dialcode

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/dialcode/internal/runtime"
	"github.com/aretw0/dialcode/pkg/adapters/memory"
	"github.com/aretw0/dialcode/pkg/dial"
	"github.com/aretw0/dialcode/pkg/domain"
	"github.com/aretw0/dialcode/pkg/menu"
	"github.com/aretw0/dialcode/pkg/ports"
	"github.com/aretw0/dialcode/pkg/session"
)

// Engine is the high-level entry point for the dialcode library.
// It wires a session store, the session manager and the dialog runtime.
type Engine struct {
	runtime    *runtime.Engine
	sessions   *session.Manager
	store      ports.SessionStore
	locker     ports.DistributedLocker
	lockTTL    time.Duration
	menu       *menu.Menu
	accessCode []string
	hooks      domain.LifecycleHooks
	observer   runtime.RequestObserver
	logger     *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore injects a session store. The default is an in-memory store.
func WithStore(store ports.SessionStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker extends the per-session guard across processes.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithLockTTL bounds how long a distributed session lock is held.
func WithLockTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		e.lockTTL = ttl
	}
}

// WithAccessCode sets the reserved dial code, e.g. "*920*1806#".
func WithAccessCode(code string) Option {
	return func(e *Engine) {
		e.accessCode = dial.ParseAccessCode(code)
		if e.accessCode == nil {
			e.accessCode = []string{}
		}
	}
}

// WithMenu replaces the shipped menu.
func WithMenu(m *menu.Menu) Option {
	return func(e *Engine) {
		e.menu = m
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithObserver registers a per-request observer, typically a metrics collector.
func WithObserver(o runtime.RequestObserver) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.menu == nil {
		eng.menu = menu.Default()
	}
	if err := eng.menu.Validate(); err != nil {
		return nil, fmt.Errorf("invalid menu: %w", err)
	}
	if eng.accessCode == nil {
		eng.accessCode = dial.DefaultAccessCode
	}
	if err := dial.ValidateAccessCode(eng.accessCode); err != nil {
		return nil, err
	}

	managerOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(eng.locker))
	}
	if eng.lockTTL > 0 {
		managerOpts = append(managerOpts, session.WithLockTTL(eng.lockTTL))
	}
	eng.sessions = session.NewManager(eng.store, managerOpts...)

	runtimeOpts := []runtime.EngineOption{
		runtime.WithMenu(eng.menu),
		runtime.WithAccessCode(eng.accessCode),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	}
	if eng.observer != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithObserver(eng.observer))
	}
	eng.runtime = runtime.NewEngine(eng.sessions, runtimeOpts...)

	return eng, nil
}

// Handle processes one gateway request and returns the next screen or the final summary.
func (e *Engine) Handle(ctx context.Context, req domain.Request) (domain.Response, error) {
	return e.runtime.Handle(ctx, req)
}

// Menu returns the menu tree the engine walks.
func (e *Engine) Menu() *menu.Menu {
	return e.menu
}

// AccessCode returns the reserved dial code tokens.
func (e *Engine) AccessCode() []string {
	return append([]string(nil), e.accessCode...)
}

// Sessions returns the session manager, for inspection and administration.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// Close releases the session store if it holds resources.
func (e *Engine) Close() error {
	if c, ok := e.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
