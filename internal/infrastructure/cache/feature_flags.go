package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/ffe/backend/internal/infrastructure/config"
)

const defaultFlagPrefix = "ffe:feature_flag:"

// flagClient is the part of *redis.Client the flag store uses
type flagClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisFeatureFlags reads boolean feature flags from Redis keys.
// A missing key falls back to the configured default, then to false.
type RedisFeatureFlags struct {
	client    flagClient
	keyPrefix string
	defaults  map[string]bool
}

// NewRedisFeatureFlags creates a flag store with an existing Redis client
func NewRedisFeatureFlags(client *redis.Client, cfg config.FeatureFlagsConfig) *RedisFeatureFlags {
	return newRedisFeatureFlags(client, cfg)
}

func newRedisFeatureFlags(client flagClient, cfg config.FeatureFlagsConfig) *RedisFeatureFlags {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultFlagPrefix
	}
	return &RedisFeatureFlags{
		client:    client,
		keyPrefix: prefix,
		defaults:  cfg.Defaults,
	}
}

// IsEnabled reports whether flag is on. On a Redis failure the default is
// returned together with the error.
func (f *RedisFeatureFlags) IsEnabled(ctx context.Context, flag string) (bool, error) {
	value, err := f.client.Get(ctx, f.keyPrefix+flag).Result()
	if errors.Is(err, redis.Nil) {
		return f.defaults[flag], nil
	}
	if err != nil {
		return f.defaults[flag], fmt.Errorf("failed to read feature flag %s: %w", flag, err)
	}

	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return f.defaults[flag], fmt.Errorf("feature flag %s has invalid value %q", flag, value)
	}
	return enabled, nil
}

// StaticFeatureFlags serves the configured defaults only
type StaticFeatureFlags struct {
	defaults map[string]bool
}

// NewStaticFeatureFlags creates a flag store from configuration
func NewStaticFeatureFlags(cfg config.FeatureFlagsConfig) *StaticFeatureFlags {
	return &StaticFeatureFlags{defaults: cfg.Defaults}
}

// IsEnabled reports the configured default for flag
func (f *StaticFeatureFlags) IsEnabled(ctx context.Context, flag string) (bool, error) {
	return f.defaults[flag], nil
}
