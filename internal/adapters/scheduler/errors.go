package scheduler

import "errors"

var (
	// ErrInvalidInterval is returned for non-positive refresh intervals.
	ErrInvalidInterval = errors.New("refresh interval must be positive")
	// ErrNotStarted is returned when running a job before Start.
	ErrNotStarted = errors.New("scheduler not started")
)
