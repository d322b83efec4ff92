// SPDX-License-Identifier: MIT

package recorder

import (
	"errors"
	"fmt"
	"time"

	"github.com/pvrd/pvrd/internal/channels"
)

// ErrorClass buckets recorder errors for transport-layer status mapping.
type ErrorClass string

const (
	ClassInvalidArgument ErrorClass = "invalid_argument"
	ClassNotFound        ErrorClass = "not_found"
	ClassConflict        ErrorClass = "conflict"
	ClassUnavailable     ErrorClass = "unavailable"
	ClassInternal        ErrorClass = "internal"
)

// ErrChannelNotFound reports a channel reference that matched nothing in
// the directory.
type ErrChannelNotFound struct {
	Ref string
}

func (e ErrChannelNotFound) Error() string {
	return fmt.Sprintf("channel not found: %s", e.Ref)
}

// ErrInvalidTimeFormat reports a start/stop string that could not be parsed.
type ErrInvalidTimeFormat struct {
	Field string
	Value string
}

func (e ErrInvalidTimeFormat) Error() string {
	return fmt.Sprintf("invalid %s time: %q", e.Field, e.Value)
}

// ErrInvalidTimeRange reports stop <= start.
type ErrInvalidTimeRange struct {
	Start time.Time
	Stop  time.Time
}

func (e ErrInvalidTimeRange) Error() string {
	return fmt.Sprintf("stop time %s is not after start time %s",
		e.Stop.Format(time.RFC3339), e.Start.Format(time.RFC3339))
}

// ErrDuplicateSchedule reports a creation request that collides with an
// existing recording id but carries different parameters.
type ErrDuplicateSchedule struct {
	RecordingID string
}

func (e ErrDuplicateSchedule) Error() string {
	return fmt.Sprintf("recording %s already exists with different parameters", e.RecordingID)
}

// ErrRecordingNotFound reports an unknown recording id, or one in a
// state the requested operation does not apply to.
type ErrRecordingNotFound struct {
	RecordingID string
}

func (e ErrRecordingNotFound) Error() string {
	return fmt.Sprintf("recording not found: %s", e.RecordingID)
}

// ErrLaunchFailed reports that the capture process could not be started.
type ErrLaunchFailed struct {
	RecordingID string
	Cause       error
}

func (e ErrLaunchFailed) Error() string {
	return fmt.Sprintf("launch failed for recording %s: %v", e.RecordingID, e.Cause)
}

func (e ErrLaunchFailed) Unwrap() error {
	return e.Cause
}

// Classify maps an error to its ErrorClass.
func Classify(err error) ErrorClass {
	if err == nil {
		return ""
	}
	if errors.Is(err, channels.ErrNotFound) {
		return ClassNotFound
	}

	switch err.(type) {
	case ErrChannelNotFound, *ErrChannelNotFound,
		ErrRecordingNotFound, *ErrRecordingNotFound:
		return ClassNotFound
	case ErrInvalidTimeFormat, *ErrInvalidTimeFormat,
		ErrInvalidTimeRange, *ErrInvalidTimeRange:
		return ClassInvalidArgument
	case ErrDuplicateSchedule, *ErrDuplicateSchedule:
		return ClassConflict
	case ErrLaunchFailed, *ErrLaunchFailed:
		return ClassUnavailable
	default:
		return ClassInternal
	}
}
