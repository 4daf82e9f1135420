// Package scheduler runs the periodic maintenance jobs: contract renewal
// and temp storage cleanup. Jobs are an explicit list wired at startup, and
// time is injected through the Clock so tests drive ticks deterministically.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/edaraujo/secretaria/internal/pkg/logger"
)

// Clock abstracts wall time for the scheduler.
type Clock interface {
	Now() time.Time
	Ticker(d time.Duration) Ticker
}

// Ticker delivers ticks until stopped.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Ticker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (rt *realTicker) Chan() <-chan time.Time { return rt.t.C }
func (rt *realTicker) Stop()                  { rt.t.Stop() }

// NewRealClock returns a Clock backed by the system clock.
func NewRealClock() Clock { return realClock{} }

// Job is one periodic task. Handler errors are logged per run; a failing
// run never stops the schedule.
type Job struct {
	Name     string
	Interval time.Duration
	Handler  func(ctx context.Context, now time.Time) error
}

// Scheduler drives a fixed set of jobs on their intervals.
type Scheduler struct {
	clock Clock
	jobs  []Job
	wg    sync.WaitGroup
}

// New creates a scheduler over the given jobs.
func New(clock Clock, jobs []Job) *Scheduler {
	return &Scheduler{clock: clock, jobs: jobs}
}

// Start launches one goroutine per job. Jobs run until ctx is cancelled;
// Stop blocks until all of them return.
func (s *Scheduler) Start(ctx context.Context) {
	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.run(ctx, job)
	}
	logger.Info().Int("jobs", len(s.jobs)).Msg("Scheduler started")
}

// Stop waits for every job goroutine to drain.
func (s *Scheduler) Stop() {
	s.wg.Wait()
	logger.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context, job Job) {
	defer s.wg.Done()

	ticker := s.clock.Ticker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.Chan():
			if err := job.Handler(ctx, now); err != nil {
				logger.Error().Err(err).Str("job", job.Name).Msg("Scheduled job failed")
			}
		}
	}
}

// CurrentTerm maps a point in time to the (semester, year) term it falls
// in: January through June is semester 1, July through December semester 2.
func CurrentTerm(now time.Time) (semester, year int) {
	if now.Month() <= time.June {
		return 1, now.Year()
	}
	return 2, now.Year()
}
