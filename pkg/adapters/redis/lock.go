package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/dialcode/pkg/ports"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

// DefaultRetryInterval is the polling interval while a lock is contended.
const DefaultRetryInterval = 50 * time.Millisecond

// ErrLockAcquire is returned when the lock cannot be acquired.
var ErrLockAcquire = errors.New("failed to acquire distributed lock")

// releaseScript deletes the lock only if the caller still owns it.
var releaseScript = backend.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// Locker implements ports.DistributedLocker using Redis.
type Locker struct {
	client *backend.Client
	prefix string
	retry  time.Duration
}

// LockKey returns the Redis key guarding key under prefix. It shares the store
// prefix but not the session namespace, so no session ID can collide with it.
func LockKey(prefix, key string) string {
	return prefix + lockNS + key
}

// NewLocker creates a new Redis locker.
func NewLocker(client *backend.Client, prefix string) *Locker {
	return &Locker{
		client: client,
		prefix: prefix,
		retry:  DefaultRetryInterval,
	}
}

// Lock acquires a distributed lock for the given key using Redis SET NX PX.
// The lock value is a random token so only its owner can release it.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := LockKey(l.prefix, key)
	token := uuid.NewString()

	ok, err := l.try(ctx, lockKey, token, ttl)
	if err != nil {
		return nil, err
	}

	if !ok {
		ticker := time.NewTicker(l.retry)
		defer ticker.Stop()

		for !ok {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %w", ErrLockAcquire, ctx.Err())
			case <-ticker.C:
				ok, err = l.try(ctx, lockKey, token, ttl)
				if err != nil {
					return nil, err
				}
			}
		}
	}

	return func(ctx context.Context) error {
		return releaseScript.Run(ctx, l.client, []string{lockKey}, token).Err()
	}, nil
}

func (l *Locker) try(ctx context.Context, lockKey, token string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis error acquiring lock: %w", err)
	}
	return ok, nil
}
