// SPDX-License-Identifier: MIT

package recorder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stateTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pvrd_recording_transitions_total",
		Help: "Recording state transitions",
	}, []string{"from", "to"})

	activeRecordings = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pvrd_recordings_active",
		Help: "Recordings currently running or stopping",
	})

	scheduledRecordings = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pvrd_recordings_scheduled",
		Help: "Recordings waiting for their start time",
	})

	schedulerTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pvrd_scheduler_ticks_total",
		Help: "Scheduler loop ticks",
	})

	persistErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pvrd_persist_errors_total",
		Help: "Failed sidecar or index writes",
	})
)
