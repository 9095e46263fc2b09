package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when a stopped scheduler is asked to run or report healthy
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)
