// SPDX-License-Identifier: MIT

// Package api exposes the recorder over HTTP: start, stop, cancel and
// the active/scheduled/saved listings, plus health and metrics.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pvrd/pvrd/internal/recorder"
	"github.com/pvrd/pvrd/internal/store"
)

// Recorder is the orchestrator surface the handlers need.
type Recorder interface {
	StartOrSchedule(ctx context.Context, req recorder.StartRequest) (recorder.Info, error)
	Stop(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	ListActive() []recorder.Info
	ListScheduled() []recorder.Info
}

// SavedLister reads the saved-recordings index.
type SavedLister interface {
	List(ctx context.Context) ([]store.SavedRecording, error)
}

// Server holds the handler dependencies.
type Server struct {
	rec   Recorder
	saved SavedLister // nil disables /api/recordings/saved
}

// Options configures the router.
type Options struct {
	// RateLimitRPS caps requests per second per client IP on /api.
	// Zero disables the limit.
	RateLimitRPS int
}

// NewServer creates a server with the given collaborators.
func NewServer(rec Recorder, saved SavedLister) *Server {
	return &Server{rec: rec, saved: saved}
}

// Router builds the HTTP routing table with the full middleware stack.
func (s *Server) Router(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(recoverer)
	r.Use(requestID)
	r.Use(requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if opts.RateLimitRPS > 0 {
			r.Use(httprate.Limit(opts.RateLimitRPS, time.Second,
				httprate.WithKeyFuncs(httprate.KeyByIP)))
		}

		r.Route("/recordings", func(r chi.Router) {
			r.Get("/", s.handleListActive)
			r.Get("/scheduled", s.handleListScheduled)
			r.Get("/saved", s.handleListSaved)
			r.Post("/start", s.handleStart)
			r.Post("/stop", s.handleStop)
			r.Post("/cancel", s.handleCancel)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
