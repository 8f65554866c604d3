// Package scheduler runs the recurring settlement cycle. It replaces the
// usual framework-managed background job with an explicit, restartable
// periodic task that owns a reference to the settlement engine.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is the unit of work the scheduler triggers on every tick. The
// settlement engine's SettlePending satisfies it.
type Job func(ctx context.Context) error

// Scheduler invokes a job at a fixed interval until stopped. Overlap
// protection (skip-if-busy) is the job's responsibility; the scheduler
// only guarantees the cadence.
type Scheduler struct {
	interval time.Duration
	job      Job
	logger   *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// New creates a stopped scheduler.
func New(interval time.Duration, job Job, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		job:      job,
		logger:   logger.With("component", "scheduler"),
	}
}

// Start launches the ticker loop. Calling Start on a running scheduler is
// a no-op. The loop stops when Stop is called or ctx is canceled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.running = true
	s.logger.Info("scheduler started", "interval", s.interval)

	go s.loop(ctx)
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.job(ctx); err != nil {
				s.logger.Error("scheduled job failed", "error", err)
			}
		}
	}
}

// Stop cancels the loop and waits for an in-flight job to finish. The
// scheduler can be started again afterwards.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.cancel()
	<-s.done
	s.running = false
	s.logger.Info("scheduler stopped")
}
