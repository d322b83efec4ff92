// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"

	"github.com/pvrd/pvrd/internal/log"
	"github.com/pvrd/pvrd/internal/recorder"
)

type errorResponse struct {
	Error string `json:"error"`
	Class string `json:"class,omitempty"`
}

// statusFor maps recorder error classes onto HTTP status codes.
func statusFor(class recorder.ErrorClass) int {
	switch class {
	case recorder.ClassInvalidArgument:
		return http.StatusBadRequest
	case recorder.ClassNotFound:
		return http.StatusNotFound
	case recorder.ClassConflict:
		return http.StatusConflict
	case recorder.ClassUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := log.WithComponent("api")
		logger.Error().Err(err).Msg("encoding response failed")
	}
}

func writeError(w http.ResponseWriter, err error) {
	class := recorder.Classify(err)
	writeJSON(w, statusFor(class), errorResponse{
		Error: err.Error(),
		Class: string(class),
	})
}
