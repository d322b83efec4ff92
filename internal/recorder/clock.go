// SPDX-License-Identifier: MIT

package recorder

import "time"

// Clock supplies the current time. Injected so tests drive scheduling
// deterministically.
type Clock interface {
	Now() time.Time
}

// TimerClock additionally creates timers for the scheduler loop.
type TimerClock interface {
	Clock
	NewTimer(d time.Duration) Timer
}

// Timer abstracts time.Timer for mocking.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
	Reset(d time.Duration) bool
}

// RealClock implements TimerClock using the standard time package.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) NewTimer(d time.Duration) Timer {
	return &realTimer{t: time.NewTimer(d)}
}

type realTimer struct {
	t *time.Timer
}

func (r *realTimer) C() <-chan time.Time        { return r.t.C }
func (r *realTimer) Stop() bool                 { return r.t.Stop() }
func (r *realTimer) Reset(d time.Duration) bool { return r.t.Reset(d) }
