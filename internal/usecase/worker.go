package usecase

import (
	"context"
	"fmt"

	"ArticlesEnhancer/internal/ports"
)

// Worker wires the polling driver with the enhancement cycle.
type Worker struct {
	driver   ports.Scheduler
	enhancer *Enhancer
}

// NewWorker returns the long-running loop around an enhancer.
func NewWorker(driver ports.Scheduler, enhancer *Enhancer) *Worker {
	return &Worker{driver: driver, enhancer: enhancer}
}

// Run blocks, executing one cycle per tick, until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if w.driver == nil || w.enhancer == nil {
		return fmt.Errorf("worker is not configured")
	}

	return w.driver.Run(ctx, func(cycleCtx context.Context) {
		w.enhancer.RunCycle(cycleCtx)
	})
}
