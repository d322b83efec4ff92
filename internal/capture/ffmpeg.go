// SPDX-License-Identifier: MIT

package capture

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/pvrd/pvrd/internal/log"
	"github.com/pvrd/pvrd/internal/procgroup"
)

var (
	startTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pvrd_capture_start_total",
		Help: "Total number of capture process starts",
	}, []string{"result"})

	exitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pvrd_capture_exit_total",
		Help: "Total number of capture process exits",
	}, []string{"reason"})

	forcedKills = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pvrd_capture_forced_kill_total",
		Help: "Total number of captures that ignored SIGTERM and were killed",
	})
)

// FFmpegLauncher launches ffmpeg copy-mode captures.
type FFmpegLauncher struct {
	BinPath   string
	StopGrace time.Duration
}

// NewFFmpegLauncher creates a launcher using the given ffmpeg binary and
// graceful-stop window.
func NewFFmpegLauncher(binPath string, stopGrace time.Duration) *FFmpegLauncher {
	if binPath == "" {
		binPath = "ffmpeg"
	}
	if stopGrace <= 0 {
		stopGrace = 10 * time.Second
	}
	return &FFmpegLauncher{BinPath: binPath, StopGrace: stopGrace}
}

// BuildArgs assembles the ffmpeg invocation for a stream-to-file copy.
func BuildArgs(streamURL, outputPath string) []string {
	return []string{
		"-nostdin",
		"-y",
		"-i", streamURL,
		"-c", "copy",
		"-f", "mp4",
		outputPath,
	}
}

// Launch starts the capture process. The returned handle owns the
// process lifetime; ctx only bounds the launch itself.
func (l *FFmpegLauncher) Launch(ctx context.Context, spec LaunchSpec) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := log.WithComponent("capture").With().
		Str(log.FieldRecordingID, spec.RecordingID).
		Logger()

	cmd := exec.Command(l.BinPath, BuildArgs(spec.StreamURL, spec.OutputPath)...) // #nosec G204 -- binary path from config
	procgroup.Set(cmd)

	tail := newStderrTail(64)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		startTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("capture stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		startTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("start capture process: %w", err)
	}
	startTotal.WithLabelValues("ok").Inc()

	logger.Info().
		Str("output", spec.OutputPath).
		Str("command", cmd.String()).
		Msg("capture process started")

	h := &processHandle{
		cmd:    cmd,
		grace:  l.StopGrace,
		exit:   make(chan ExitStatus, 1),
		done:   make(chan struct{}),
		tail:   tail,
		logger: logger,
	}

	go tail.consume(stderr)
	go h.wait()
	return h, nil
}

// processHandle supervises one live capture process.
type processHandle struct {
	cmd    *exec.Cmd
	grace  time.Duration
	exit   chan ExitStatus
	done   chan struct{}
	tail   *stderrTail
	logger zerolog.Logger

	stopOnce sync.Once
}

// wait blocks on process exit and publishes the final status exactly once.
func (h *processHandle) wait() {
	err := h.cmd.Wait()
	close(h.done)

	status := ExitStatus{EndedAt: time.Now()}
	reason := "clean"
	if err != nil {
		status.Code = 1
		if exitErr, ok := err.(*exec.ExitError); ok {
			status.Code = exitErr.ExitCode()
		}
		status.Err = err
		reason = "error"
		h.logger.Warn().
			Int("exit_code", status.Code).
			Strs("stderr", h.tail.last(20)).
			Msg("capture process exited with error")
	} else {
		h.logger.Info().Msg("capture process exited cleanly")
	}
	exitTotal.WithLabelValues(reason).Inc()

	h.exit <- status
	close(h.exit)
}

// Exit delivers the final process status.
func (h *processHandle) Exit() <-chan ExitStatus {
	return h.exit
}

// Stop sends SIGTERM to the process group and escalates to SIGKILL once
// the grace period elapses without an exit.
func (h *processHandle) Stop(ctx context.Context) error {
	var sigErr error
	h.stopOnce.Do(func() {
		select {
		case <-h.done:
			return // already exited
		default:
		}

		h.logger.Debug().Msg("sending SIGTERM to capture process")
		sigErr = procgroup.Signal(h.cmd, syscall.SIGTERM)
		if sigErr != nil {
			return
		}

		grace := h.grace
		go func() {
			select {
			case <-h.done:
			case <-time.After(grace):
				forcedKills.Inc()
				_ = procgroup.Signal(h.cmd, syscall.SIGKILL)
			}
		}()
	})
	return sigErr
}

// LastStderr returns up to n retained stderr lines for diagnostics.
func (h *processHandle) LastStderr(n int) []string {
	return h.tail.last(n)
}
