// SPDX-License-Identifier: MIT

package capture

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrFakeLaunch is returned by a FakeLauncher configured to fail.
var ErrFakeLaunch = errors.New("fake launch failure")

// FakeLauncher is a test double that records launches and hands out
// controllable handles instead of spawning processes.
type FakeLauncher struct {
	mu       sync.Mutex
	launched []LaunchSpec
	handles  map[string]*FakeHandle

	// FailNext makes the next Launch call fail once.
	FailNext bool
	// ExitOnStop makes handles report a clean exit when stopped,
	// mimicking ffmpeg responding to SIGTERM. Defaults to true.
	ExitOnStop bool
}

// NewFakeLauncher creates a fake launcher whose handles exit cleanly on Stop.
func NewFakeLauncher() *FakeLauncher {
	return &FakeLauncher{
		handles:    make(map[string]*FakeHandle),
		ExitOnStop: true,
	}
}

// Launch records the spec and returns a fresh fake handle.
func (f *FakeLauncher) Launch(_ context.Context, spec LaunchSpec) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailNext {
		f.FailNext = false
		return nil, ErrFakeLaunch
	}

	h := &FakeHandle{
		exit:       make(chan ExitStatus, 1),
		exitOnStop: f.ExitOnStop,
	}
	f.launched = append(f.launched, spec)
	f.handles[spec.RecordingID] = h
	return h, nil
}

// Launched returns a copy of all recorded launch specs.
func (f *FakeLauncher) Launched() []LaunchSpec {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]LaunchSpec, len(f.launched))
	copy(out, f.launched)
	return out
}

// Handles returns every handle launched so far.
func (f *FakeLauncher) Handles() []*FakeHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*FakeHandle, 0, len(f.handles))
	for _, h := range f.handles {
		out = append(out, h)
	}
	return out
}

// Handle returns the fake handle for a recording id, if one was launched.
func (f *FakeLauncher) Handle(recordingID string) (*FakeHandle, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.handles[recordingID]
	return h, ok
}

// FakeHandle is a controllable Handle.
type FakeHandle struct {
	mu         sync.Mutex
	exit       chan ExitStatus
	exited     bool
	stopCalls  int
	exitOnStop bool
}

// Exit implements Handle.
func (h *FakeHandle) Exit() <-chan ExitStatus {
	return h.exit
}

// Stop implements Handle. When configured, it delivers a clean exit.
func (h *FakeHandle) Stop(_ context.Context) error {
	h.mu.Lock()
	h.stopCalls++
	shouldExit := h.exitOnStop && !h.exited
	h.mu.Unlock()

	if shouldExit {
		h.Terminate(ExitStatus{Code: 0, EndedAt: time.Now()})
	}
	return nil
}

// Terminate delivers a final exit status, at most once.
func (h *FakeHandle) Terminate(status ExitStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.exited {
		return
	}
	h.exited = true
	h.exit <- status
	close(h.exit)
}

// StopCalls reports how many times Stop was invoked.
func (h *FakeHandle) StopCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stopCalls
}
