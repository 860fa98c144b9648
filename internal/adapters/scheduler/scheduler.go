// Package scheduler keeps the snapshot cache warm with a periodic refresh job.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/aocbot/aocbot/pkg/logger"
	"github.com/aocbot/aocbot/pkg/metrics"
)

const jobName = "refresh-snapshot"

// Refresher forces a fetch of the leaderboard snapshot.
type Refresher interface {
	RefreshSnapshot(ctx context.Context) error
}

// Scheduler runs the refresh job every interval.
type Scheduler struct {
	mu        sync.Mutex
	scheduler gocron.Scheduler
	job       gocron.Job

	refresher Refresher
	interval  time.Duration
	timeout   time.Duration
	log       logger.Logger
}

// Option configures the Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// WithTimeout bounds a single refresh run.
func WithTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New creates a stopped scheduler.
func New(refresher Refresher, interval time.Duration, opts ...Option) (*Scheduler, error) {
	const op = "scheduler.New"
	if interval <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidInterval)
	}
	s := &Scheduler{
		refresher: refresher,
		interval:  interval,
		timeout:   30 * time.Second,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start registers the job and runs it once right away. Runs stop when ctx
// is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	const op = "scheduler.Start"
	s.mu.Lock()
	defer s.mu.Unlock()

	gs, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	job, err := gs.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() { s.run(ctx) }),
		gocron.WithName(jobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = gs.Shutdown()
		return fmt.Errorf("%s: %w", op, err)
	}

	gs.Start()
	s.scheduler, s.job = gs, job
	s.log.Info(ctx, "snapshot refresh scheduled", logger.Duration("interval", s.interval))

	// duration jobs wait one interval before the first run
	if err := job.RunNow(); err != nil {
		s.log.Warn(ctx, "initial snapshot refresh not queued", logger.Error(err))
	}
	return nil
}

// RunNow queues an immediate refresh.
func (s *Scheduler) RunNow() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job == nil {
		return ErrNotStarted
	}
	return s.job.RunNow()
}

// Stop waits for a running refresh and shuts the scheduler down.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scheduler == nil {
		return nil
	}
	err := s.scheduler.Shutdown()
	s.scheduler, s.job = nil, nil
	return err
}

func (s *Scheduler) run(parent context.Context) {
	if parent.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.refresher.RefreshSnapshot(ctx); err != nil {
		metrics.RecordRefreshRun("error")
		s.log.Error(ctx, "snapshot refresh failed", logger.Error(err))
		return
	}
	metrics.RecordRefreshRun("ok")
	s.log.Debug(ctx, "snapshot refreshed", logger.Duration("took", time.Since(start)))
}
