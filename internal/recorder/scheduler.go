// SPDX-License-Identifier: MIT

package recorder

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pvrd/pvrd/internal/log"
)

// Scheduler drives the orchestrator's tick loop on a fixed interval.
// The clock is injected so tests can step time deterministically.
type Scheduler struct {
	orch     *Orchestrator
	interval time.Duration
	clock    TimerClock
	logger   zerolog.Logger
	done     chan struct{}
}

// NewScheduler creates a scheduler ticking every interval. A nil clock
// uses the wall clock.
func NewScheduler(orch *Orchestrator, interval time.Duration, clock TimerClock) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	return &Scheduler{
		orch:     orch,
		interval: interval,
		clock:    clock,
		logger:   log.WithComponent("scheduler"),
		done:     make(chan struct{}),
	}
}

// Start launches the tick loop. It returns immediately; the loop exits
// when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go s.loop(ctx)
}

// Done is closed once the loop has exited.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	s.logger.Info().Dur("interval", s.interval).Msg("scheduler started")
	timer := s.clock.NewTimer(s.interval)
	defer timer.Stop()

	// One pass up front so recordings due at startup are not delayed
	// by a full interval.
	s.orch.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("scheduler stopped")
			return
		case <-timer.C():
			s.orch.Tick(ctx)
			timer.Reset(s.interval)
		}
	}
}
