package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ffe/backend/internal/infrastructure/config"
)

const defaultLockPrefix = "ffe:lock:"

// releaseScript deletes the key only while it still holds our token
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`

// lockClient is the part of *redis.Client the locker uses
type lockClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisLocker implements a distributed lock with SET NX and a TTL.
// It is suitable for deployments where several instances accept submissions.
type RedisLocker struct {
	client    lockClient
	keyPrefix string

	mu     sync.Mutex
	tokens map[string]string
}

// NewRedisClient connects to Redis and checks the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisLocker creates a locker with an existing Redis client
func NewRedisLocker(client *redis.Client, keyPrefix string) *RedisLocker {
	return newRedisLocker(client, keyPrefix)
}

func newRedisLocker(client lockClient, keyPrefix string) *RedisLocker {
	if keyPrefix == "" {
		keyPrefix = defaultLockPrefix
	}
	return &RedisLocker{
		client:    client,
		keyPrefix: keyPrefix,
		tokens:    make(map[string]string),
	}
}

// Acquire takes the lock for ttl.
// Returns false when another holder already has it.
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, l.keyPrefix+key, token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !ok {
		return false, nil
	}

	l.mu.Lock()
	l.tokens[key] = token
	l.mu.Unlock()
	return true, nil
}

// Release drops a lock this locker holds. A lock that has expired and been
// taken by someone else is left in place.
func (l *RedisLocker) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	token, ok := l.tokens[key]
	delete(l.tokens, key)
	l.mu.Unlock()
	if !ok {
		return nil
	}

	if err := l.client.Eval(ctx, releaseScript, []string{l.keyPrefix + key}, token).Err(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}
