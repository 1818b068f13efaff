package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/dialcode"
	"github.com/aretw0/dialcode/internal/config"
	"github.com/aretw0/dialcode/internal/metrics"
	"github.com/aretw0/dialcode/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/dialcode/pkg/adapters/redis"
	"github.com/aretw0/dialcode/pkg/domain"
	"github.com/aretw0/dialcode/pkg/persistence"
	"github.com/aretw0/dialcode/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Stack is an engine together with the infrastructure built for it.
type Stack struct {
	Engine *dialcode.Engine
	Store  ports.SessionStore
	// Registry and Metrics are nil when metrics are disabled.
	Registry *prometheus.Registry
	Metrics  *metrics.Collector
}

// Close releases the engine's store.
func (s *Stack) Close() error {
	return s.Engine.Close()
}

// storeBundle is a configured store and, for shared backends, its locker.
type storeBundle struct {
	store  ports.SessionStore
	locker ports.DistributedLocker
}

// openStore builds the session store selected by cfg.Store.Driver.
func openStore(ctx context.Context, cfg config.Config) (storeBundle, error) {
	switch cfg.Store.Driver {
	case config.DriverRedis:
		rc := cfg.Store.Redis
		codec, err := sessionCodec(rc)
		if err != nil {
			return storeBundle{}, err
		}
		store := redisAdapter.New(rc.Addr, rc.Password, rc.DB,
			redisAdapter.WithPrefix(rc.Prefix),
			redisAdapter.WithTTL(cfg.Session.IdleTimeout),
			redisAdapter.WithCodec(codec),
		)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return storeBundle{}, fmt.Errorf("failed to reach redis at %s: %w", rc.Addr, err)
		}
		return storeBundle{
			store:  store,
			locker: redisAdapter.NewLocker(store.Client(), rc.Prefix),
		}, nil
	case config.DriverMemory, "":
		return storeBundle{
			store: memory.NewStore(memory.WithIdleTimeout(cfg.Session.IdleTimeout)),
		}, nil
	}
	return storeBundle{}, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// sessionCodec seals redis payloads when an encryption key is configured.
func sessionCodec(rc config.RedisConfig) (persistence.Codec, error) {
	if rc.EncryptionKey == "" {
		return persistence.JSONCodec{}, nil
	}
	active, err := persistence.ParseKey(rc.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid store.redis.encryption_key: %w", err)
	}
	enc := persistence.EncryptionConfig{ActiveKey: active}
	for i, k := range rc.FallbackKeys {
		key, err := persistence.ParseKey(k)
		if err != nil {
			return nil, fmt.Errorf("invalid store.redis.fallback_keys[%d]: %w", i, err)
		}
		enc.FallbackKeys = append(enc.FallbackKeys, key)
	}
	return persistence.NewEncryptedCodec(enc, nil)
}

// OpenStore returns the configured session store, for administration commands.
func OpenStore(ctx context.Context, cfg config.Config) (ports.SessionStore, error) {
	b, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return b.store, nil
}

// BuildEngine initializes a dialcode engine from configuration.
// Extra hooks run after the metrics and logging hooks.
func BuildEngine(ctx context.Context, cfg config.Config, logger *slog.Logger, extra ...domain.LifecycleHooks) (*Stack, error) {
	bundle, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	stack := &Stack{Store: bundle.store}
	hookSets := []domain.LifecycleHooks{createDebugHooks(logger)}

	engineOpts := []dialcode.Option{
		dialcode.WithStore(bundle.store),
		dialcode.WithLogger(logger),
		dialcode.WithAccessCode(cfg.Dial.AccessCode),
		dialcode.WithLockTTL(cfg.Session.LockTTL),
	}
	if bundle.locker != nil {
		engineOpts = append(engineOpts, dialcode.WithLocker(bundle.locker))
	}

	if cfg.Metrics.Enabled {
		stack.Registry = prometheus.NewRegistry()
		stack.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		stack.Metrics = metrics.New(stack.Registry)
		hookSets = append(hookSets, stack.Metrics.Hooks())
		engineOpts = append(engineOpts, dialcode.WithObserver(stack.Metrics))
	}

	hookSets = append(hookSets, extra...)
	engineOpts = append(engineOpts, dialcode.WithLifecycleHooks(metrics.Chain(hookSets...)))

	engine, err := dialcode.New(engineOpts...)
	if err != nil {
		if c, ok := bundle.store.(interface{ Close() error }); ok {
			c.Close()
		}
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	stack.Engine = engine

	logger.Debug("Engine ready",
		"store", cfg.Store.Driver,
		"access_code", cfg.Dial.AccessCode,
		"idle_timeout", cfg.Session.IdleTimeout,
		"metrics", cfg.Metrics.Enabled,
	)
	return stack, nil
}
