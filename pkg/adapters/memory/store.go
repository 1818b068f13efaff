package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/dialcode/pkg/domain"
)

type entry struct {
	session  domain.Session
	lastSeen time.Time
}

// Store implements ports.SessionStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]entry
	mu   sync.RWMutex

	idle  time.Duration
	sweep time.Duration
	now   func() time.Time

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Option configures the Store.
type Option func(*Store)

// WithIdleTimeout expires sessions that see no Save for longer than d.
// Zero (the default) keeps sessions until deleted.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.idle = d
	}
}

// WithSweepInterval sets how often expired sessions are evicted.
// Defaults to the idle timeout.
func WithSweepInterval(d time.Duration) Option {
	return func(s *Store) {
		s.sweep = d
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a new in-memory store. When an idle timeout is configured a
// background sweep runs until Close.
func NewStore(opts ...Option) *Store {
	s := &Store{
		data: make(map[string]entry),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.idle > 0 {
		if s.sweep <= 0 {
			s.sweep = s.idle
		}
		s.stop = make(chan struct{})
		s.done = make(chan struct{})
		go s.sweepLoop()
	}
	return s
}

// Save persists a copy of the session.
func (s *Store) Save(ctx context.Context, sessionID string, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = entry{session: *session, lastSeen: s.now()}
	return nil
}

// Load retrieves a copy of the session so callers can't mutate store state by pointer.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[sessionID]
	if !ok || s.expired(e, s.now()) {
		return nil, domain.ErrSessionNotFound
	}
	ret := e.session
	return &ret, nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns active sessions.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	sessions := make([]string, 0, len(s.data))
	for id, e := range s.data {
		if s.expired(e, now) {
			continue
		}
		sessions = append(sessions, id)
	}
	return sessions, nil
}

// Sweep evicts expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	if s.idle <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.data {
		if s.expired(e, now) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

// Close stops the background sweep.
func (s *Store) Close() error {
	if s.stop == nil {
		return nil
	}
	s.stopOnce.Do(func() {
		close(s.stop)
		<-s.done
	})
	return nil
}

func (s *Store) expired(e entry, now time.Time) bool {
	return s.idle > 0 && now.Sub(e.lastSeen) > s.idle
}

func (s *Store) sweepLoop() {
	defer close(s.done)
	ticker := time.NewTicker(s.sweep)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
