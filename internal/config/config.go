// Package config loads the dialcode configuration from an optional YAML file,
// an optional .env file and DIALCODE_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/dialcode/pkg/dial"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Config is the full runtime configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Dial    DialConfig    `mapstructure:"dial" yaml:"dial"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Session SessionConfig `mapstructure:"session" yaml:"session"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type DialConfig struct {
	// AccessCode is the reserved dial code, e.g. "*920*1806#".
	AccessCode string `mapstructure:"access_code" yaml:"access_code"`
}

type StoreConfig struct {
	Driver string      `mapstructure:"driver" yaml:"driver"`
	Redis  RedisConfig `mapstructure:"redis" yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
	Prefix   string `mapstructure:"prefix" yaml:"prefix"`
	// EncryptionKey is a base64 AES-256 key. When set, payloads are sealed.
	EncryptionKey string `mapstructure:"encryption_key" yaml:"encryption_key"`
	// FallbackKeys open payloads sealed under retired keys.
	FallbackKeys []string `mapstructure:"fallback_keys" yaml:"fallback_keys"`
}

type SessionConfig struct {
	// IdleTimeout expires abandoned sessions. Zero keeps them until completed.
	IdleTimeout time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	LockTTL     time.Duration `mapstructure:"lock_ttl" yaml:"lock_ttl"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Dial: DialConfig{
			AccessCode: "*920*1806#",
		},
		Store: StoreConfig{
			Driver: DriverMemory,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "dialcode:session:",
			},
		},
		Session: SessionConfig{
			LockTTL: 30 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// envKeys maps environment variables onto configuration paths.
var envKeys = map[string]string{
	"DIALCODE_ADDR":             "server.addr",
	"DIALCODE_SHUTDOWN_TIMEOUT": "server.shutdown_timeout",
	"DIALCODE_LOG_LEVEL":        "log.level",
	"DIALCODE_LOG_FORMAT":       "log.format",
	"DIALCODE_ACCESS_CODE":      "dial.access_code",
	"DIALCODE_STORE":            "store.driver",
	"DIALCODE_REDIS_ADDR":       "store.redis.addr",
	"DIALCODE_REDIS_PASSWORD":   "store.redis.password",
	"DIALCODE_REDIS_DB":         "store.redis.db",
	"DIALCODE_REDIS_PREFIX":     "store.redis.prefix",
	"DIALCODE_ENCRYPTION_KEY":   "store.redis.encryption_key",
	"DIALCODE_FALLBACK_KEYS":    "store.redis.fallback_keys",
	"DIALCODE_IDLE_TIMEOUT":     "session.idle_timeout",
	"DIALCODE_LOCK_TTL":         "session.lock_ttl",
	"DIALCODE_METRICS":          "metrics.enabled",
}

// Load builds the configuration. path may be empty; a named file must exist.
// A .env file in the working directory is read if present.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}

	raw := map[string]any{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	}

	for env, key := range envKeys {
		if val, ok := os.LookupEnv(env); ok {
			setPath(raw, key, val)
		}
	}

	cfg := Default()
	if err := decode(raw, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverRedis:
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("store.redis.addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q (want %s or %s)", c.Store.Driver, DriverMemory, DriverRedis)
	}
	if strings.Trim(c.Dial.AccessCode, "*# ") == "" {
		return fmt.Errorf("dial.access_code is required")
	}
	if err := dial.ValidateAccessCode(dial.ParseAccessCode(c.Dial.AccessCode)); err != nil {
		return fmt.Errorf("dial.access_code %q: %w", c.Dial.AccessCode, err)
	}
	if len(c.Store.Redis.FallbackKeys) > 0 && c.Store.Redis.EncryptionKey == "" {
		return fmt.Errorf("store.redis.fallback_keys require store.redis.encryption_key")
	}
	if c.Session.IdleTimeout < 0 {
		return fmt.Errorf("session.idle_timeout must not be negative")
	}
	return nil
}

func decode(raw map[string]any, out *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func setPath(m map[string]any, path, val string) {
	parts := strings.Split(path, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = val
}
