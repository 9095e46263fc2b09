package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ffe/backend/internal/infrastructure/config"
)

// Locker guards a key for a limited time
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// FeatureFlags reports whether a named flag is switched on
type FeatureFlags interface {
	IsEnabled(ctx context.Context, flag string) (bool, error)
}

// Factory creates the Redis-backed stores, falling back to in-process
// implementations when Redis is unavailable
type Factory struct {
	redisConfig           config.RedisConfig
	flagsConfig           config.FeatureFlagsConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	connect               func(config.RedisConfig) (*redis.Client, error)
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores when Redis is unavailable.
// Default is true (allow fallback)
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(redisCfg config.RedisConfig, flagsCfg config.FeatureFlagsConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           redisCfg,
		flagsConfig:           flagsCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		connect:               NewRedisClient,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Create returns the submission locker and feature flag store.
// The returned client is nil when the in-memory fallback was used.
func (f *Factory) Create() (Locker, FeatureFlags, *redis.Client, error) {
	client, err := f.connect(f.redisConfig)
	if err == nil {
		f.logger.Info("Using Redis locker and feature flags", zap.String("addr", f.redisConfig.Addr()))
		return NewRedisLocker(client, ""), NewRedisFeatureFlags(client, f.flagsConfig), client, nil
	}

	if !f.allowInMemoryFallback {
		return nil, nil, nil, fmt.Errorf("Redis required but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory locker and default feature flags. "+
		"Concurrent submissions are only guarded within this instance.",
		zap.Error(err),
	)
	return NewInMemoryLocker(), NewStaticFeatureFlags(f.flagsConfig), nil, nil
}
