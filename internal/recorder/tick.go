// SPDX-License-Identifier: MIT

package recorder

import (
	"context"
	"fmt"
	"time"

	"github.com/pvrd/pvrd/internal/capture"
	"github.com/pvrd/pvrd/internal/log"
)

// Tick runs one scheduler pass: promote due scheduled recordings, stop
// recordings past their stop time, then reconcile process exits.
func (o *Orchestrator) Tick(ctx context.Context) {
	schedulerTicks.Inc()
	now := o.clock.Now().In(o.loc)

	o.promoteDue(ctx, now)
	o.stopDue(ctx, now)
	o.reconcileExits()
}

type launchJob struct {
	recordingID string
	channelID   string
	outputPath  string
}

// promoteDue launches every scheduled recording whose start time has
// arrived. The stream URL is re-resolved at launch so lineup changes
// between scheduling and promotion take effect.
func (o *Orchestrator) promoteDue(ctx context.Context, now time.Time) {
	o.reg.mu.Lock()
	var jobs []launchJob
	for _, rec := range o.reg.recs {
		if rec.State == StateScheduled && !rec.launching && !rec.Start.After(now) {
			rec.launching = true
			jobs = append(jobs, launchJob{
				recordingID: rec.ID,
				channelID:   rec.ChannelID,
				outputPath:  rec.FilePath,
			})
		}
	}
	o.reg.mu.Unlock()

	for _, job := range jobs {
		var (
			handle capture.Handle
			lerr   error
		)
		ch, err := o.dir.Resolve(job.channelID, 0)
		if err != nil {
			lerr = fmt.Errorf("channel %q no longer in lineup: %w", job.channelID, err)
		} else {
			handle, lerr = o.launcher.Launch(ctx, capture.LaunchSpec{
				RecordingID: job.recordingID,
				StreamURL:   ch.Stream,
				OutputPath:  job.outputPath,
			})
		}

		o.reg.mu.Lock()
		rec := o.reg.recs[job.recordingID]
		rec.launching = false
		if lerr != nil {
			rec.Error = lerr.Error()
			o.reg.transition(rec, StateFailed)
			o.logger.Warn().Err(lerr).
				Str(log.FieldRecordingID, job.recordingID).
				Msg("scheduled launch failed")
		} else {
			rec.handle = handle
			o.reg.transition(rec, StateRunning)
		}
		o.reg.updateGauges()
		o.reg.mu.Unlock()

		if lerr == nil {
			o.watchExit(job.recordingID, handle)
		}
	}
}

// stopDue moves recordings past their stop time into Stopping and
// signals their processes. Recordings without a stop time run until
// stopped manually.
func (o *Orchestrator) stopDue(ctx context.Context, now time.Time) {
	o.reg.mu.Lock()
	var handles []capture.Handle
	for _, rec := range o.reg.recs {
		if rec.State == StateRunning && !rec.Stop.IsZero() && !rec.Stop.After(now) {
			rec.cause = causeTimer
			o.reg.transition(rec, StateStopping)
			if rec.handle != nil {
				handles = append(handles, rec.handle)
			}
		}
	}
	o.reg.updateGauges()
	o.reg.mu.Unlock()

	for _, h := range handles {
		if err := h.Stop(ctx); err != nil {
			o.logger.Warn().Err(err).Msg("timed stop signal failed")
		}
	}
}

// reconcileExits drains the exit queue and finalizes each recording's
// state. A stop that was requested (manually or by timer) ends in
// Stopped or Completed; an exit while still Running is a failure.
// Persistence runs outside the lock.
func (o *Orchestrator) reconcileExits() {
	var saved []Info
	for {
		select {
		case ev := <-o.exits:
			o.reg.mu.Lock()
			rec, ok := o.reg.recs[ev.recordingID]
			if !ok {
				o.reg.mu.Unlock()
				continue
			}
			switch rec.State {
			case StateStopping:
				to := StateStopped
				if rec.cause == causeTimer {
					to = StateCompleted
				}
				if ev.status.Err != nil {
					rec.Error = ev.status.Err.Error()
				}
				o.reg.transition(rec, to)
				saved = append(saved, rec.info())
			case StateRunning:
				if ev.status.Err != nil {
					rec.Error = ev.status.Err.Error()
				} else {
					rec.Error = fmt.Sprintf("capture exited unexpectedly (code %d)", ev.status.Code)
				}
				o.reg.transition(rec, StateFailed)
			default:
				o.logger.Debug().
					Str(log.FieldRecordingID, ev.recordingID).
					Str("state", string(rec.State)).
					Msg("ignoring exit for settled recording")
			}
			o.reg.updateGauges()
			o.reg.mu.Unlock()
		default:
			o.persistAll(saved)
			return
		}
	}
}

func (o *Orchestrator) persistAll(infos []Info) {
	if o.persist == nil {
		return
	}
	for _, info := range infos {
		if err := o.persist.SaveRecording(info); err != nil {
			persistErrors.Inc()
			o.logger.Error().Err(err).
				Str(log.FieldRecordingID, info.ID).
				Msg("persisting recording metadata failed")
		}
	}
}
