// SPDX-License-Identifier: MIT

package recorder

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStart(t *testing.T) {
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	// A summer evening, so the local offset differs from UTC.
	now := time.Date(2025, 7, 14, 20, 30, 0, 0, loc)

	tests := []struct {
		name      string
		value     string
		want      time.Time
		immediate bool
	}{
		{
			name:      "empty means now",
			value:     "",
			want:      now,
			immediate: true,
		},
		{
			name:  "time of day later today",
			value: "21:00",
			want:  time.Date(2025, 7, 14, 21, 0, 0, 0, loc),
		},
		{
			name:  "time of day already passed rolls to tomorrow",
			value: "06:00",
			want:  time.Date(2025, 7, 15, 6, 0, 0, 0, loc),
		},
		{
			name:  "time of day with seconds",
			value: "21:15:30",
			want:  time.Date(2025, 7, 14, 21, 15, 30, 0, loc),
		},
		{
			name:  "absolute future",
			value: "2025-07-20T10:00",
			want:  time.Date(2025, 7, 20, 10, 0, 0, 0, loc),
		},
		{
			name:      "absolute past starts immediately",
			value:     "2025-07-14T08:00",
			want:      now,
			immediate: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, immediate, err := resolveStart(tt.value, now, loc)
			require.NoError(t, err)
			assert.Equal(t, tt.immediate, immediate)
			assert.True(t, start.Equal(tt.want), "got %v, want %v", start, tt.want)
		})
	}
}

func TestResolveStartAcrossDSTChange(t *testing.T) {
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	t.Run("clocks fall back overnight", func(t *testing.T) {
		// 2025-10-26 02:00 BST the clocks go back; a rolled-over start
		// must still land at 06:00 local, not 05:00.
		now := time.Date(2025, 10, 25, 23, 0, 0, 0, loc)
		start, immediate, err := resolveStart("06:00", now, loc)
		require.NoError(t, err)
		assert.False(t, immediate)
		assert.True(t, start.Equal(time.Date(2025, 10, 26, 6, 0, 0, 0, loc)),
			"got %v", start)
		assert.Equal(t, 6, start.In(loc).Hour())
	})

	t.Run("clocks spring forward overnight", func(t *testing.T) {
		// 2025-03-30 01:00 GMT the clocks go forward.
		now := time.Date(2025, 3, 29, 22, 0, 0, 0, loc)
		start, immediate, err := resolveStart("06:00", now, loc)
		require.NoError(t, err)
		assert.False(t, immediate)
		assert.Equal(t, 6, start.In(loc).Hour())
		assert.Equal(t, 30, start.In(loc).Day())
	})
}

func TestResolveStopAcrossDSTChange(t *testing.T) {
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	start := time.Date(2025, 10, 25, 23, 45, 0, 0, loc)
	stop, err := resolveStop("06:00", start, loc)
	require.NoError(t, err)
	assert.True(t, stop.Equal(time.Date(2025, 10, 26, 6, 0, 0, 0, loc)),
		"got %v", stop)
	assert.Equal(t, 6, stop.In(loc).Hour())
}

func TestResolveStartInvalid(t *testing.T) {
	now := time.Date(2025, 7, 14, 20, 30, 0, 0, time.UTC)
	_, _, err := resolveStart("not-a-time", now, time.UTC)

	var bad ErrInvalidTimeFormat
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, "start", bad.Field)
}

func TestResolveStop(t *testing.T) {
	loc := time.UTC
	start := time.Date(2025, 7, 14, 21, 0, 0, 0, loc)

	t.Run("empty means open ended", func(t *testing.T) {
		stop, err := resolveStop("", start, loc)
		require.NoError(t, err)
		assert.True(t, stop.IsZero())
	})

	t.Run("time of day on start date", func(t *testing.T) {
		stop, err := resolveStop("22:00", start, loc)
		require.NoError(t, err)
		assert.True(t, stop.Equal(time.Date(2025, 7, 14, 22, 0, 0, 0, loc)))
	})

	t.Run("time of day before start rolls to next day", func(t *testing.T) {
		stop, err := resolveStop("01:00", start, loc)
		require.NoError(t, err)
		assert.True(t, stop.Equal(time.Date(2025, 7, 15, 1, 0, 0, 0, loc)))
	})

	t.Run("absolute before start rejected", func(t *testing.T) {
		_, err := resolveStop("2025-07-14T20:00", start, loc)
		var bad ErrInvalidTimeRange
		require.ErrorAs(t, err, &bad)
	})

	t.Run("absolute equal to start rejected", func(t *testing.T) {
		_, err := resolveStop("2025-07-14T21:00", start, loc)
		require.Error(t, err)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := resolveStop("soon", start, loc)
		var bad ErrInvalidTimeFormat
		require.ErrorAs(t, err, &bad)
		assert.Equal(t, "stop", bad.Field)
	})
}

func TestResolveStopAlwaysAfterStart(t *testing.T) {
	// For any time-of-day stop value the resolved stop must land strictly
	// after the start, on the same or the following day.
	loc := time.UTC
	start := time.Date(2025, 3, 1, 23, 45, 0, 0, loc)

	for hour := 0; hour < 24; hour++ {
		value := time.Date(2000, 1, 1, hour, 0, 0, 0, loc).Format("15:04")
		stop, err := resolveStop(value, start, loc)
		require.NoError(t, err)
		assert.True(t, stop.After(start), "stop %v for %q not after start %v", stop, value, start)
		assert.LessOrEqual(t, stop.Sub(start), 24*time.Hour)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorClass
	}{
		{ErrChannelNotFound{Ref: "x"}, ClassNotFound},
		{ErrRecordingNotFound{RecordingID: "x"}, ClassNotFound},
		{ErrInvalidTimeFormat{Field: "start", Value: "x"}, ClassInvalidArgument},
		{ErrInvalidTimeRange{}, ClassInvalidArgument},
		{ErrDuplicateSchedule{RecordingID: "x"}, ClassConflict},
		{ErrLaunchFailed{RecordingID: "x", Cause: errors.New("boom")}, ClassUnavailable},
		{errors.New("anything else"), ClassInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.err), "for %T", tt.err)
	}
}
