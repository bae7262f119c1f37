package scheduler

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"ArticlesEnhancer/internal/ports"
)

// IntervalScheduler runs a job, waits a fixed delay, and repeats.
// The delay is measured from the end of the previous run, so runs never overlap.
type IntervalScheduler struct {
	delay  time.Duration
	logger *slog.Logger
}

var _ ports.Scheduler = (*IntervalScheduler)(nil)

// NewIntervalScheduler builds a scheduler with the given inter-run delay.
func NewIntervalScheduler(delay time.Duration, log *slog.Logger) *IntervalScheduler {
	if delay <= 0 {
		delay = 5 * time.Second
	}
	return &IntervalScheduler{delay: delay, logger: log}
}

// Delay returns the configured pause between runs.
func (s *IntervalScheduler) Delay() time.Duration {
	return s.delay
}

// Run blocks until ctx is cancelled and returns ctx.Err().
// A panicking job is logged and the loop keeps going.
func (s *IntervalScheduler) Run(ctx context.Context, job func(context.Context)) error {
	if job == nil {
		<-ctx.Done()
		return ctx.Err()
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.runSafely(ctx, job)

		timer.Reset(s.delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (s *IntervalScheduler) runSafely(ctx context.Context, job func(context.Context)) {
	defer func() {
		if r := recover(); r != nil && s.logger != nil {
			s.logger.Error("job panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	job(ctx)
}
