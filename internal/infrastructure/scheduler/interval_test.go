package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestIntervalSchedulerRunsUntilCancelled(t *testing.T) {
	s := NewIntervalScheduler(10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	err := s.Run(ctx, func(context.Context) {
		if runs.Add(1) == 3 {
			cancel()
		}
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := runs.Load(); got != 3 {
		t.Fatalf("expected 3 runs, got %d", got)
	}
}

func TestIntervalSchedulerWaitsBetweenRuns(t *testing.T) {
	delay := 40 * time.Millisecond
	s := NewIntervalScheduler(delay, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stamps []time.Time
	_ = s.Run(ctx, func(context.Context) {
		stamps = append(stamps, time.Now())
		if len(stamps) == 2 {
			cancel()
		}
	})

	if len(stamps) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(stamps))
	}
	if gap := stamps[1].Sub(stamps[0]); gap < delay {
		t.Fatalf("runs %v apart, want at least %v", gap, delay)
	}
}

func TestIntervalSchedulerSurvivesPanics(t *testing.T) {
	s := NewIntervalScheduler(time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	_ = s.Run(ctx, func(context.Context) {
		if runs.Add(1) == 2 {
			cancel()
			return
		}
		panic("boom")
	})

	if got := runs.Load(); got != 2 {
		t.Fatalf("loop should continue after a panic, got %d runs", got)
	}
}

func TestIntervalSchedulerNilJobWaitsForContext(t *testing.T) {
	s := NewIntervalScheduler(0, nil)
	if s.Delay() != 5*time.Second {
		t.Fatalf("unexpected default delay: %v", s.Delay())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := s.Run(ctx, nil); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
