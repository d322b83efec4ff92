// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pvrd/pvrd/internal/recorder"
)

// recordingJSON is the wire shape of a recording.
type recordingJSON struct {
	ID          string     `json:"id"`
	Channel     string     `json:"channel"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Start       time.Time  `json:"start"`
	Stop        *time.Time `json:"stop"`
	FilePath    string     `json:"file_path"`
	State       string     `json:"state"`
	Error       string     `json:"error,omitempty"`
}

func toJSON(info recorder.Info) recordingJSON {
	var stop *time.Time
	if !info.Stop.IsZero() {
		t := info.Stop
		stop = &t
	}
	return recordingJSON{
		ID:          info.ID,
		Channel:     info.ChannelID,
		Title:       info.Title,
		Description: info.Description,
		Start:       info.Start,
		Stop:        stop,
		FilePath:    info.FilePath,
		State:       string(info.State),
		Error:       info.Error,
	}
}

func toJSONList(infos []recorder.Info) []recordingJSON {
	out := make([]recordingJSON, 0, len(infos))
	for _, info := range infos {
		out = append(out, toJSON(info))
	}
	return out
}

type startRequest struct {
	ChannelID   string `json:"channel_id"`
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Start       string `json:"start"`
	Stop        string `json:"stop"`
}

type idRequest struct {
	RecordingID string `json:"recording_id"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ChannelID == "" && req.Number <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "channel_id or number is required"})
		return
	}

	info, err := s.rec.StartOrSchedule(r.Context(), recorder.StartRequest{
		ChannelID:   req.ChannelID,
		Number:      req.Number,
		Title:       req.Title,
		Description: req.Description,
		Start:       req.Start,
		Stop:        req.Stop,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	if info.State == recorder.StateScheduled {
		status = http.StatusAccepted
	}
	writeJSON(w, status, toJSON(info))
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.RecordingID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "recording_id is required"})
		return
	}
	if err := s.rec.Stop(r.Context(), req.RecordingID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped", "recording_id": req.RecordingID})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.RecordingID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "recording_id is required"})
		return
	}
	if err := s.rec.Cancel(r.Context(), req.RecordingID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "canceled", "recording_id": req.RecordingID})
}

func (s *Server) handleListActive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toJSONList(s.rec.ListActive()))
}

func (s *Server) handleListScheduled(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toJSONList(s.rec.ListScheduled()))
}

func (s *Server) handleListSaved(w http.ResponseWriter, r *http.Request) {
	if s.saved == nil {
		writeJSON(w, http.StatusOK, []recordingJSON{})
		return
	}
	recs, err := s.saved.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	type savedJSON struct {
		ID       string     `json:"id"`
		Channel  string     `json:"channel"`
		Title    string     `json:"title"`
		Start    time.Time  `json:"start"`
		Stop     *time.Time `json:"stop"`
		FilePath string     `json:"file_path"`
		Outcome  string     `json:"outcome"`
	}
	out := make([]savedJSON, 0, len(recs))
	for _, rec := range recs {
		out = append(out, savedJSON{
			ID:       rec.ID,
			Channel:  rec.Channel,
			Title:    rec.Title,
			Start:    rec.Start,
			Stop:     rec.Stop,
			FilePath: rec.FilePath,
			Outcome:  rec.Outcome,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
