// SPDX-License-Identifier: MIT

package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordingID(t *testing.T) {
	start := time.Date(2025, 7, 14, 21, 0, 0, 0, time.UTC)
	assert.Equal(t, "bbc1_1752526800", RecordingID("bbc1", start))

	// Same channel and instant in another zone maps to the same id.
	loc, err := time.LoadLocation("Europe/London")
	assert.NoError(t, err)
	assert.Equal(t, RecordingID("bbc1", start), RecordingID("bbc1", start.In(loc)))
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"News at Ten", "News at Ten"},
		{"Match: Arsenal/Spurs", "Match_ Arsenal_Spurs"},
		{"50% off!", "50_ off_"},
		{"already-safe_name.ext", "already-safe_name.ext"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SafeFilename(tt.in))
	}
}

func TestOutputPath(t *testing.T) {
	start := time.Date(2025, 7, 14, 21, 0, 0, 0, time.UTC)
	got := OutputPath("/srv/rec", "bbc1", "News: Late Edition", start)
	want := filepath.Join("/srv/rec", "2025-07-14T21:00:00Z_bbc1_News_ Late Edition.mp4")
	assert.Equal(t, want, got)
}

func TestTransitionTable(t *testing.T) {
	legal := []struct{ from, to State }{
		{StateScheduled, StateRunning},
		{StateScheduled, StateFailed},
		{StateScheduled, StateCanceled},
		{StateRunning, StateStopping},
		{StateRunning, StateFailed},
		{StateStopping, StateStopped},
		{StateStopping, StateCompleted},
	}
	for _, tt := range legal {
		assert.True(t, canTransition(tt.from, tt.to), "%s -> %s should be legal", tt.from, tt.to)
	}

	illegal := []struct{ from, to State }{
		{StateRunning, StateScheduled},
		{StateStopping, StateRunning},
		{StateStopped, StateRunning},
		{StateCompleted, StateScheduled},
		{StateFailed, StateRunning},
		{StateCanceled, StateScheduled},
		{StateScheduled, StateStopping},
		{StateScheduled, StateCompleted},
	}
	for _, tt := range illegal {
		assert.False(t, canTransition(tt.from, tt.to), "%s -> %s should be illegal", tt.from, tt.to)
	}

	for _, s := range []State{StateStopped, StateCompleted, StateFailed, StateCanceled} {
		assert.True(t, s.Terminal())
	}
	for _, s := range []State{StateScheduled, StateRunning, StateStopping} {
		assert.False(t, s.Terminal())
	}
}
