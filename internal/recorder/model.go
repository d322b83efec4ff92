// SPDX-License-Identifier: MIT

// Package recorder is the recording orchestrator core: the authoritative
// registry of recordings, their state machine, the time resolution
// policy, the façade operations and the scheduler loop that promotes due
// recordings and reconciles capture process exits.
package recorder

import (
	"time"

	"github.com/pvrd/pvrd/internal/capture"
)

// State is one lifecycle state of a recording.
type State string

const (
	StateScheduled State = "scheduled"
	StateRunning   State = "running"
	StateStopping  State = "stopping"
	StateStopped   State = "stopped"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateCanceled  State = "canceled"
)

// Terminal reports whether no further transitions may leave s.
func (s State) Terminal() bool {
	switch s {
	case StateStopped, StateCompleted, StateFailed, StateCanceled:
		return true
	}
	return false
}

// stopCause records what triggered a stop, so exit reconciliation can
// tell Completed (reached its own stop time) from Stopped (manual).
type stopCause int

const (
	causeNone stopCause = iota
	causeManual
	causeTimer
)

// Recording is the registry's internal record. All fields are guarded by
// the registry lock; the capture handle is owned by the process manager
// and held here only as an opaque reference.
type Recording struct {
	ID          string
	ChannelID   string
	Title       string
	Description string
	Start       time.Time
	Stop        time.Time // zero means record until explicitly stopped
	FilePath    string
	State       State
	Error       string
	CreatedAt   time.Time

	handle    capture.Handle
	cause     stopCause
	launching bool // guards against a second concurrent launch for this id
}

// Info is the exported snapshot of a recording, safe to hand out of the
// registry lock.
type Info struct {
	ID          string
	ChannelID   string
	Title       string
	Description string
	Start       time.Time
	Stop        time.Time
	FilePath    string
	State       State
	Error       string
	CreatedAt   time.Time
}

func (r *Recording) info() Info {
	return Info{
		ID:          r.ID,
		ChannelID:   r.ChannelID,
		Title:       r.Title,
		Description: r.Description,
		Start:       r.Start,
		Stop:        r.Stop,
		FilePath:    r.FilePath,
		State:       r.State,
		Error:       r.Error,
		CreatedAt:   r.CreatedAt,
	}
}
