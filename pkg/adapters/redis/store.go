package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/dialcode/pkg/domain"
	"github.com/aretw0/dialcode/pkg/persistence"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces session keys.
const DefaultPrefix = "dialcode:session:"

// Key namespaces under the prefix. Session IDs are opaque gateway values, so
// every session key carries sessionNS and can never equal the index or a lock
// key (see Locker).
const (
	sessionNS = "s:"
	indexName = "index"
	lockNS    = "lock:"
)

// noExpiryScore is the index score of sessions without a TTL (2100-01-01, in ms).
const noExpiryScore = 4102444800000

// SessionKey returns the Redis key holding a session under prefix.
func SessionKey(prefix, sessionID string) string {
	return prefix + sessionNS + sessionID
}

// IndexKey returns the sorted set indexing the sessions under prefix.
func IndexKey(prefix string) string {
	return prefix + indexName
}

// Store implements ports.SessionStore using Redis.
// Each session is a string key holding the codec payload; a sorted set
// indexes the IDs by expiry.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	codec  persistence.Codec
	now    func() time.Time
}

type Option func(*Store)

// WithTTL expires sessions idle for longer than ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithClock replaces the clock used to score the expiry index.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithCodec sets the payload codec. Defaults to persistence.JSONCodec.
func WithCodec(codec persistence.Codec) Option {
	return func(s *Store) {
		if codec != nil {
			s.codec = codec
		}
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		codec:  persistence.JSONCodec{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Client exposes the underlying client so a Locker can share the connection pool.
func (s *Store) Client() *backend.Client {
	return s.client
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) key(sessionID string) string {
	return SessionKey(s.prefix, sessionID)
}

func (s *Store) indexKey() string {
	return IndexKey(s.prefix)
}

// Save persists the session and refreshes its TTL.
func (s *Store) Save(ctx context.Context, sessionID string, session *domain.Session) error {
	data, err := s.codec.Encode(session)
	if err != nil {
		return err
	}

	score := float64(s.now().Add(s.ttl).UnixMilli())
	if s.ttl == 0 {
		score = noExpiryScore
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(sessionID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: sessionID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the session from Redis.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	return s.codec.Decode(val)
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(sessionID))
	pipe.ZRem(ctx, s.indexKey(), sessionID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// List returns active sessions, lazily pruning the index of entries whose
// expiry score has passed or whose key is gone.
func (s *Store) List(ctx context.Context) ([]string, error) {
	cutoff := "(" + strconv.FormatInt(s.now().UnixMilli(), 10)
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", cutoff).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired sessions: %w", err)
	}

	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(ids) == 0 {
		return ids, nil
	}

	pipe := s.client.Pipeline()
	exists := make([]*backend.IntCmd, len(ids))
	for i, id := range ids {
		exists[i] = pipe.Exists(ctx, s.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	live := make([]string, 0, len(ids))
	var gone []any
	for i, id := range ids {
		if exists[i].Val() > 0 {
			live = append(live, id)
		} else {
			gone = append(gone, id)
		}
	}
	if len(gone) > 0 {
		if err := s.client.ZRem(ctx, s.indexKey(), gone...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune expired sessions: %w", err)
		}
	}
	return live, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
