// SPDX-License-Identifier: MIT

package recorder

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pvrd/pvrd/internal/log"
)

// Registry is the authoritative mapping of recording id to record. One
// mutex serializes every read-then-write sequence: façade operations,
// scheduler promotions and exit reconciliation all act under it, so no
// two callers can act on a stale state.
type Registry struct {
	mu     sync.Mutex
	recs   map[string]*Recording
	logger zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		recs:   make(map[string]*Recording),
		logger: log.WithComponent("registry"),
	}
}

// transition moves rec to the target state if the edge is legal. Callers
// must hold r.mu. An illegal edge is a programming error: it is logged
// and refused rather than applied.
func (r *Registry) transition(rec *Recording, to State) bool {
	if !canTransition(rec.State, to) {
		r.logger.Error().
			Str(log.FieldRecordingID, rec.ID).
			Str(log.FieldOldState, string(rec.State)).
			Str(log.FieldNewState, string(to)).
			Msg("refusing illegal state transition")
		return false
	}

	stateTransitions.WithLabelValues(string(rec.State), string(to)).Inc()
	r.logger.Info().
		Str(log.FieldRecordingID, rec.ID).
		Str(log.FieldOldState, string(rec.State)).
		Str(log.FieldNewState, string(to)).
		Msg("recording state changed")

	rec.State = to
	if to.Terminal() {
		rec.handle = nil
		rec.launching = false
	}
	return true
}

// list returns snapshots of all records matching pred, ordered by start
// time ascending then id for determinism.
func (r *Registry) list(pred func(*Recording) bool) []Info {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Info, 0)
	for _, rec := range r.recs {
		if pred(rec) {
			out = append(out, rec.info())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// updateGauges refreshes the active/scheduled gauges. Callers must hold r.mu.
func (r *Registry) updateGauges() {
	var active, scheduled int
	for _, rec := range r.recs {
		switch rec.State {
		case StateRunning, StateStopping:
			active++
		case StateScheduled:
			if !rec.launching {
				scheduled++
			}
		}
	}
	activeRecordings.Set(float64(active))
	scheduledRecordings.Set(float64(scheduled))
}
