// SPDX-License-Identifier: MIT

// Package capture launches and supervises the external capture process
// backing one recording. The process is opaque to callers beyond the
// Launcher/Handle contract: launch it, ask it to stop, watch it exit.
package capture

import (
	"context"
	"time"
)

// LaunchSpec describes one capture process to start.
type LaunchSpec struct {
	RecordingID string
	StreamURL   string
	OutputPath  string
}

// ExitStatus reports how a capture process ended.
type ExitStatus struct {
	Code    int
	Err     error // non-nil for abnormal termination
	EndedAt time.Time
}

// Handle is the opaque reference to one live capture process.
type Handle interface {
	// Exit delivers exactly one ExitStatus when the process terminates,
	// then the channel is closed.
	Exit() <-chan ExitStatus

	// Stop requests graceful termination and escalates to a forced kill
	// after the configured grace period. Safe to call more than once.
	Stop(ctx context.Context) error
}

// Launcher starts capture processes.
type Launcher interface {
	Launch(ctx context.Context, spec LaunchSpec) (Handle, error)
}
