// SPDX-License-Identifier: MIT

package recorder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type mockTimerClock struct {
	*fakeClock
	fire chan time.Time
}

func (c *mockTimerClock) NewTimer(time.Duration) Timer {
	return &mockTimer{c: c.fire}
}

type mockTimer struct {
	c chan time.Time
}

func (m *mockTimer) C() <-chan time.Time        { return m.c }
func (m *mockTimer) Stop() bool                 { return true }
func (m *mockTimer) Reset(time.Duration) bool   { return true }

func TestSchedulerPromotesOnTick(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFixture(t)
	clock := &mockTimerClock{fakeClock: f.clock, fire: make(chan time.Time)}
	sched := NewScheduler(f.orch, 30*time.Second, clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		<-sched.Done()
	}()
	sched.Start(ctx)

	info, err := f.orch.StartOrSchedule(ctx, StartRequest{
		ChannelID: "bbc1", Title: "Film", Start: "21:00",
	})
	require.NoError(t, err)

	f.clock.Advance(31 * time.Minute)
	clock.fire <- f.clock.Now()

	require.Eventually(t, func() bool {
		got, _ := f.orch.Get(info.ID)
		return got.State == StateRunning
	}, 2*time.Second, 5*time.Millisecond)

	// Wind the capture down so its exit watcher drains before the leak check.
	require.NoError(t, f.orch.Stop(ctx, info.ID))
	f.settle(t, func() bool {
		got, _ := f.orch.Get(info.ID)
		return got.State == StateStopped
	})
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFixture(t)
	clock := &mockTimerClock{fakeClock: f.clock, fire: make(chan time.Time)}
	sched := NewScheduler(f.orch, 30*time.Second, clock)

	ctx, cancel := context.WithCancel(context.Background())
	sched.Start(ctx)
	cancel()

	select {
	case <-sched.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler loop did not exit on context cancel")
	}
	assert.Empty(t, f.launcher.Launched())
}
