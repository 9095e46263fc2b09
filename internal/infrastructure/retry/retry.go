// Package retry runs remote calls under a bounded, jittered retry policy.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// DefaultMaxAttempts is the total number of tries for one remote call
const DefaultMaxAttempts = 3

// Policy controls how Do retries. Sleep and Jitter are injectable so tests run instantly.
type Policy struct {
	// MaxAttempts is the total number of tries including the first
	MaxAttempts int
	// IsTransient decides whether an error is worth another try
	IsTransient func(error) bool
	// Jitter returns a duration in [0, max]
	Jitter func(max time.Duration) time.Duration
	// Sleep waits for d or until ctx is done
	Sleep  func(ctx context.Context, d time.Duration) error
	Logger *zap.Logger
}

// NewPolicy creates a policy with the default attempt count, jitter and sleep
func NewPolicy(isTransient func(error) bool, logger *zap.Logger) Policy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		IsTransient: isTransient,
		Jitter:      UniformJitter,
		Sleep:       SleepContext,
		Logger:      logger,
	}
}

// Do calls fn until it succeeds, fails with a non-transient error, or
// MaxAttempts tries have failed. After failed attempt n it sleeps a random
// duration in [0, 2^n] seconds. The last error is returned unchanged.
func (p Policy) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if p.IsTransient == nil || !p.IsTransient(err) {
			return err
		}
		if attempt == maxAttempts {
			break
		}

		delay := p.jitter(Backoff(attempt))
		logger.Warn("Transient error, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if sleepErr := p.sleep(ctx, delay); sleepErr != nil {
			return errors.Join(err, sleepErr)
		}
	}

	logger.Error("Retries exhausted",
		zap.String("operation", operation),
		zap.Int("attempts", maxAttempts),
		zap.Error(err),
	)
	return err
}

// Value is Do for calls that return a result
func Value[T any](ctx context.Context, p Policy, operation string, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := p.Do(ctx, operation, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, err
}

// Backoff returns the upper bound of the sleep after failed attempt n: 2^n seconds
func Backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * time.Second
}

// UniformJitter returns a uniformly random duration in [0, max]
func UniformJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(max) + 1))
}

// SleepContext waits for d or returns ctx.Err() if ctx finishes first
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p Policy) jitter(max time.Duration) time.Duration {
	if p.Jitter == nil {
		return UniformJitter(max)
	}
	return p.Jitter(max)
}

func (p Policy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep == nil {
		return SleepContext(ctx, d)
	}
	return p.Sleep(ctx, d)
}
