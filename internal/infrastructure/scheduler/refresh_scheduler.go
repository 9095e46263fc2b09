// Package scheduler runs background jobs inside the server process.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ffe/backend/internal/domain/organisation"
	"github.com/ffe/backend/internal/infrastructure/config"
)

// LinkedOrganisations lists organisations that have a Salesforce account
type LinkedOrganisations interface {
	FindLinked(ctx context.Context, limit, offset int) ([]*organisation.Organisation, error)
}

// OrganisationPuller refreshes one organisation from the CRM.
// It reports whether a pull actually ran.
type OrganisationPuller interface {
	Pull(ctx context.Context, org *organisation.Organisation) (bool, error)
}

// RefreshResult summarises one refresh run
type RefreshResult struct {
	Scanned int
	Pulled  int
	Skipped int
	Failed  int
}

// RefreshScheduler periodically pulls linked organisations from the CRM.
// The pull itself is throttled to once per day per organisation.
type RefreshScheduler struct {
	orgs   LinkedOrganisations
	puller OrganisationPuller
	logger *zap.Logger
	config config.SchedulerConfig

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	running   sync.Mutex
}

// NewRefreshScheduler creates a new refresh scheduler
func NewRefreshScheduler(
	orgs LinkedOrganisations,
	puller OrganisationPuller,
	logger *zap.Logger,
	cfg config.SchedulerConfig,
) (*RefreshScheduler, error) {
	if cfg.Enabled && (cfg.Interval <= 0 || cfg.BatchSize <= 0) {
		return nil, fmt.Errorf("%w: interval and batch size must be positive", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefreshScheduler{
		orgs:   orgs,
		puller: puller,
		logger: logger,
		config: cfg,
	}, nil
}

// Start starts the refresh loop
func (s *RefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Organisation refresh scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Organisation refresh scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Int("batch_size", s.config.BatchSize),
		zap.Bool("run_on_start", s.config.RunOnStart),
	)

	if s.config.RunOnStart {
		return s.TriggerImmediateRefresh(ctx)
	}
	return nil
}

// Stop gracefully stops the scheduler
func (s *RefreshScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Organisation refresh scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Organisation refresh scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning returns whether the scheduler is running
func (s *RefreshScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// HealthCheck fails when the scheduler is enabled but not running.
// A disabled scheduler is healthy.
func (s *RefreshScheduler) HealthCheck(ctx context.Context) error {
	if !s.config.Enabled || s.IsRunning() {
		return nil
	}
	return ErrSchedulerNotRunning
}

// TriggerImmediateRefresh starts a refresh run without waiting for the next tick
func (s *RefreshScheduler) TriggerImmediateRefresh(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("Triggering immediate organisation refresh")

	go func() {
		defer s.wg.Done()
		s.execute(ctx)
	}()
	return nil
}

func (s *RefreshScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Organisation refresh loop stopping")
			return
		case <-ticker.C:
			s.execute(ctx)
		}
	}
}

// execute runs one refresh, skipping it when the previous run is still going
func (s *RefreshScheduler) execute(ctx context.Context) {
	if !s.running.TryLock() {
		s.logger.Warn("Organisation refresh already in progress, skipping")
		return
	}
	defer s.running.Unlock()

	runCtx := ctx
	if s.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.config.JobTimeout)
		defer cancel()
	}

	startTime := time.Now()
	result, err := s.RunOnce(runCtx)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Organisation refresh failed",
			zap.Duration("duration", duration),
			zap.Int("scanned", result.Scanned),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Organisation refresh completed",
		zap.Duration("duration", duration),
		zap.Int("scanned", result.Scanned),
		zap.Int("pulled", result.Pulled),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
}

// RunOnce pages through every linked organisation and pulls each one.
// A failure on one organisation is logged and the run continues.
func (s *RefreshScheduler) RunOnce(ctx context.Context) (RefreshResult, error) {
	var result RefreshResult
	batch := s.config.BatchSize
	if batch <= 0 {
		batch = 100
	}

	for offset := 0; ; offset += batch {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		orgs, err := s.orgs.FindLinked(ctx, batch, offset)
		if err != nil {
			return result, fmt.Errorf("failed to list linked organisations: %w", err)
		}

		for _, org := range orgs {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			result.Scanned++

			pulled, err := s.puller.Pull(ctx, org)
			switch {
			case err != nil:
				result.Failed++
				s.logger.Warn("Failed to refresh organisation",
					zap.String("organisation_id", org.ID.String()),
					zap.Error(err),
				)
			case pulled:
				result.Pulled++
			default:
				result.Skipped++
			}
		}

		if len(orgs) < batch {
			return result, nil
		}
	}
}
