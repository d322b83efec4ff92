// SPDX-License-Identifier: MIT

package recorder

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pvrd/pvrd/internal/capture"
	"github.com/pvrd/pvrd/internal/channels"
	"github.com/pvrd/pvrd/internal/guide"
	"github.com/pvrd/pvrd/internal/log"
)

// Directory resolves channel references. Implemented by channels.Directory.
type Directory interface {
	Resolve(id string, number int) (channels.Channel, error)
}

// Persister writes the sidecar metadata and saved-recordings index entry
// for a recording that reached Stopped or Completed.
type Persister interface {
	SaveRecording(info Info) error
}

// Config wires the orchestrator's collaborators.
type Config struct {
	Directory     Directory
	Guide         guide.Lookup // optional; nil disables guide lookups
	Launcher      capture.Launcher
	Persister     Persister // optional
	Clock         Clock
	Location      *time.Location
	RecordingsDir string
}

// Orchestrator coordinates channel resolution, time resolution, the
// registry, the capture process manager and persistence under one
// locking discipline.
type Orchestrator struct {
	reg      *Registry
	dir      Directory
	guide    guide.Lookup
	launcher capture.Launcher
	persist  Persister
	clock    Clock
	loc      *time.Location
	outDir   string

	exits  chan exitEvent
	logger zerolog.Logger
}

type exitEvent struct {
	recordingID string
	status      capture.ExitStatus
}

// New creates an orchestrator. Directory and Launcher are required.
func New(cfg Config) *Orchestrator {
	clock := cfg.Clock
	if clock == nil {
		clock = RealClock{}
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Orchestrator{
		reg:      NewRegistry(),
		dir:      cfg.Directory,
		guide:    cfg.Guide,
		launcher: cfg.Launcher,
		persist:  cfg.Persister,
		clock:    clock,
		loc:      loc,
		outDir:   cfg.RecordingsDir,
		exits:    make(chan exitEvent, 64),
		logger:   log.WithComponent("recorder"),
	}
}

// StartRequest carries the parameters of a start-or-schedule operation.
// Start and Stop are the raw request strings; resolution happens here.
type StartRequest struct {
	ChannelID   string
	Number      int
	Title       string
	Description string
	Start       string
	Stop        string
}

func (r StartRequest) channelRef() string {
	if r.Number > 0 {
		return fmt.Sprintf("#%d", r.Number)
	}
	return r.ChannelID
}

// StartOrSchedule resolves the channel and the effective start/stop,
// then either launches a capture immediately or inserts a scheduled
// record. Resubmitting identical parameters returns the existing record;
// a colliding id with different parameters fails with ErrDuplicateSchedule.
// Validation failures leave no partial record.
func (o *Orchestrator) StartOrSchedule(ctx context.Context, req StartRequest) (Info, error) {
	ch, err := o.dir.Resolve(req.ChannelID, req.Number)
	if err != nil {
		return Info{}, ErrChannelNotFound{Ref: req.channelRef()}
	}

	now := o.clock.Now().In(o.loc)
	start, immediate, err := resolveStart(req.Start, now, o.loc)
	if err != nil {
		return Info{}, err
	}
	stop, err := resolveStop(req.Stop, start, o.loc)
	if err != nil {
		return Info{}, err
	}

	title, desc := req.Title, req.Description
	if o.guide != nil && (title == "" || stop.IsZero()) {
		prog, gerr := o.guide.ProgrammeAt(ctx, ch.ID, start)
		if gerr != nil {
			o.logger.Warn().Err(gerr).
				Str(log.FieldChannelID, ch.ID).
				Msg("guide unavailable, falling back to defaults")
		} else {
			if title == "" {
				title = prog.Title
			}
			if desc == "" {
				desc = prog.Description
			}
			if stop.IsZero() && prog.Stop.After(start) {
				stop = prog.Stop.In(o.loc)
			}
		}
	}
	if title == "" {
		title = "unknown"
	}

	id := RecordingID(ch.ID, start)
	path := OutputPath(o.outDir, ch.ID, title, start)

	o.reg.mu.Lock()
	if existing, ok := o.reg.recs[id]; ok {
		same := existing.ChannelID == ch.ID &&
			existing.Title == title &&
			existing.Stop.Equal(stop)
		if same {
			info := existing.info()
			o.reg.mu.Unlock()
			return info, nil
		}
		o.reg.mu.Unlock()
		return Info{}, ErrDuplicateSchedule{RecordingID: id}
	}

	rec := &Recording{
		ID:          id,
		ChannelID:   ch.ID,
		Title:       title,
		Description: desc,
		Start:       start,
		Stop:        stop,
		FilePath:    path,
		State:       StateScheduled,
		CreatedAt:   o.clock.Now(),
	}
	o.reg.recs[id] = rec

	if !immediate {
		o.reg.updateGauges()
		info := rec.info()
		o.reg.mu.Unlock()
		o.logger.Info().
			Str(log.FieldRecordingID, id).
			Time("start", start).
			Msg("recording scheduled")
		return info, nil
	}

	// Immediate start: reserve the id under the launching guard, then
	// launch outside the lock so process I/O cannot stall other callers.
	rec.launching = true
	o.reg.mu.Unlock()

	handle, lerr := o.launcher.Launch(ctx, capture.LaunchSpec{
		RecordingID: id,
		StreamURL:   ch.Stream,
		OutputPath:  path,
	})

	o.reg.mu.Lock()
	rec.launching = false
	if lerr != nil {
		// Kept as Failed for auditability; the caller still gets the error.
		rec.Error = lerr.Error()
		o.reg.transition(rec, StateFailed)
		o.reg.updateGauges()
		o.reg.mu.Unlock()
		return Info{}, ErrLaunchFailed{RecordingID: id, Cause: lerr}
	}
	rec.handle = handle
	o.reg.transition(rec, StateRunning)
	o.reg.updateGauges()
	info := rec.info()
	o.reg.mu.Unlock()

	o.watchExit(id, handle)
	return info, nil
}

// Stop requests graceful termination of a running recording. Valid only
// from Running or Stopping; anything else is reported as not found.
func (o *Orchestrator) Stop(ctx context.Context, id string) error {
	o.reg.mu.Lock()
	rec, ok := o.reg.recs[id]
	if !ok || (rec.State != StateRunning && rec.State != StateStopping) {
		o.reg.mu.Unlock()
		return ErrRecordingNotFound{RecordingID: id}
	}
	if rec.State == StateStopping {
		o.reg.mu.Unlock()
		return nil
	}
	rec.cause = causeManual
	o.reg.transition(rec, StateStopping)
	handle := rec.handle
	o.reg.updateGauges()
	o.reg.mu.Unlock()

	if handle != nil {
		if err := handle.Stop(ctx); err != nil {
			o.logger.Warn().Err(err).
				Str(log.FieldRecordingID, id).
				Msg("graceful stop signal failed")
		}
	}
	return nil
}

// Cancel removes a scheduled recording's future trigger. Valid only
// from Scheduled, before promotion has begun.
func (o *Orchestrator) Cancel(_ context.Context, id string) error {
	o.reg.mu.Lock()
	defer o.reg.mu.Unlock()

	rec, ok := o.reg.recs[id]
	if !ok || rec.State != StateScheduled || rec.launching {
		return ErrRecordingNotFound{RecordingID: id}
	}
	o.reg.transition(rec, StateCanceled)
	o.reg.updateGauges()
	return nil
}

// ListActive returns all recordings currently running or stopping.
func (o *Orchestrator) ListActive() []Info {
	return o.reg.list(func(r *Recording) bool {
		return r.State == StateRunning || r.State == StateStopping
	})
}

// ListScheduled returns all scheduled recordings ordered by start time.
func (o *Orchestrator) ListScheduled() []Info {
	return o.reg.list(func(r *Recording) bool {
		return r.State == StateScheduled && !r.launching
	})
}

// Get returns the snapshot of one recording.
func (o *Orchestrator) Get(id string) (Info, error) {
	o.reg.mu.Lock()
	defer o.reg.mu.Unlock()
	rec, ok := o.reg.recs[id]
	if !ok {
		return Info{}, ErrRecordingNotFound{RecordingID: id}
	}
	return rec.info(), nil
}

// watchExit forwards the handle's exit notification to the scheduler's
// reconciliation queue.
func (o *Orchestrator) watchExit(id string, h capture.Handle) {
	go func() {
		st, ok := <-h.Exit()
		if !ok {
			return
		}
		o.exits <- exitEvent{recordingID: id, status: st}
	}()
}

// Shutdown requests a graceful stop of every live capture. State
// reconciliation is left to the exits queue; callers typically cancel
// the scheduler context right after.
func (o *Orchestrator) Shutdown(ctx context.Context) {
	o.reg.mu.Lock()
	var handles []capture.Handle
	for _, rec := range o.reg.recs {
		if rec.State == StateRunning && rec.handle != nil {
			rec.cause = causeManual
			o.reg.transition(rec, StateStopping)
			handles = append(handles, rec.handle)
		}
	}
	o.reg.updateGauges()
	o.reg.mu.Unlock()

	for _, h := range handles {
		_ = h.Stop(ctx)
	}
}
