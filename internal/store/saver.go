// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pvrd/pvrd/internal/log"
	"github.com/pvrd/pvrd/internal/recorder"
)

// Saver persists finished recordings as a sidecar plus an index row. It
// implements the orchestrator's Persister.
type Saver struct {
	index  *Index
	logger zerolog.Logger
}

// NewSaver wraps an index. A nil index disables the catalogue but still
// writes sidecars.
func NewSaver(index *Index) *Saver {
	return &Saver{
		index:  index,
		logger: log.WithComponent("store"),
	}
}

// SaveRecording writes the sidecar next to the capture file and appends
// the recording to the index. Called once per recording, after it
// reaches Completed or Stopped.
func (s *Saver) SaveRecording(info recorder.Info) error {
	var stop *time.Time
	if !info.Stop.IsZero() {
		t := info.Stop
		stop = &t
	}

	meta := SidecarMeta{
		Channel:     info.ChannelID,
		Title:       info.Title,
		Description: info.Description,
		Start:       info.Start,
		Stop:        stop,
	}
	if err := WriteSidecar(info.FilePath, meta); err != nil {
		return fmt.Errorf("sidecar for %s: %w", info.ID, err)
	}

	if s.index != nil {
		rec := SavedRecording{
			ID:          info.ID,
			Channel:     info.ChannelID,
			Title:       info.Title,
			Description: info.Description,
			Start:       info.Start,
			Stop:        stop,
			FilePath:    info.FilePath,
			Outcome:     string(info.State),
			SavedAt:     time.Now(),
		}
		if err := s.index.Append(context.Background(), rec); err != nil {
			return fmt.Errorf("index for %s: %w", info.ID, err)
		}
	}

	s.logger.Info().
		Str(log.FieldRecordingID, info.ID).
		Str(log.FieldPath, info.FilePath).
		Msg("recording saved")
	return nil
}
