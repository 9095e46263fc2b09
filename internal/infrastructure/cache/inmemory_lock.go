package cache

import (
	"context"
	"sync"
	"time"
)

// InMemoryLocker holds locks in process memory.
// It is suitable for single-instance deployments and testing.
type InMemoryLocker struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewInMemoryLocker creates a new in-memory locker
func NewInMemoryLocker() *InMemoryLocker {
	return &InMemoryLocker{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Acquire takes the lock unless a holder exists and has not expired
func (l *InMemoryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if expiresAt, exists := l.entries[key]; exists && now.Before(expiresAt) {
		return false, nil
	}
	l.entries[key] = now.Add(ttl)
	return true, nil
}

// Release drops the lock
func (l *InMemoryLocker) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
	return nil
}
