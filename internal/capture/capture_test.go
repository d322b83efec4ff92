// SPDX-License-Identifier: MIT

package capture

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArgs(t *testing.T) {
	args := BuildArgs("http://head.end/bbc1", "/rec/out.mp4")

	assert.Equal(t, []string{
		"-nostdin", "-y",
		"-i", "http://head.end/bbc1",
		"-c", "copy",
		"-f", "mp4",
		"/rec/out.mp4",
	}, args)
}

func TestLaunchMissingBinaryFailsFast(t *testing.T) {
	l := NewFFmpegLauncher("/nonexistent/ffmpeg-binary", time.Second)
	_, err := l.Launch(context.Background(), LaunchSpec{
		RecordingID: "bbc1_1",
		StreamURL:   "http://head.end/bbc1",
		OutputPath:  t.TempDir() + "/out.mp4",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start capture process")
}

func TestLaunchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := NewFFmpegLauncher("ffmpeg", time.Second)
	_, err := l.Launch(ctx, LaunchSpec{RecordingID: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStderrTail(t *testing.T) {
	tail := newStderrTail(3)
	tail.consume(strings.NewReader("one\ntwo\nthree\nfour\n"))

	assert.Equal(t, []string{"two", "three", "four"}, tail.last(10))
	assert.Equal(t, []string{"four"}, tail.last(1))
}

func TestStderrTailEmpty(t *testing.T) {
	tail := newStderrTail(4)
	assert.Empty(t, tail.last(5))
}

func TestFakeHandleStopDeliversExit(t *testing.T) {
	f := NewFakeLauncher()
	h, err := f.Launch(context.Background(), LaunchSpec{RecordingID: "r1"})
	require.NoError(t, err)

	require.NoError(t, h.Stop(context.Background()))

	select {
	case st, ok := <-h.Exit():
		require.True(t, ok)
		assert.Equal(t, 0, st.Code)
	case <-time.After(time.Second):
		t.Fatal("expected exit status after stop")
	}

	// Channel closes after the single delivery.
	_, ok := <-h.Exit()
	assert.False(t, ok)
}

func TestFakeLauncherFailNext(t *testing.T) {
	f := NewFakeLauncher()
	f.FailNext = true

	_, err := f.Launch(context.Background(), LaunchSpec{RecordingID: "r1"})
	assert.ErrorIs(t, err, ErrFakeLaunch)

	// Failure is one-shot.
	_, err = f.Launch(context.Background(), LaunchSpec{RecordingID: "r2"})
	assert.NoError(t, err)
	assert.Len(t, f.Launched(), 1)
}

func TestFakeHandleTerminateOnce(t *testing.T) {
	f := NewFakeLauncher()
	_, err := f.Launch(context.Background(), LaunchSpec{RecordingID: "r1"})
	require.NoError(t, err)

	h, ok := f.Handle("r1")
	require.True(t, ok)

	h.Terminate(ExitStatus{Code: 1})
	h.Terminate(ExitStatus{Code: 2}) // second call must be a no-op

	st := <-h.Exit()
	assert.Equal(t, 1, st.Code)
}
