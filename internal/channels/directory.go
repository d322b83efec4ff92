// SPDX-License-Identifier: MIT

// Package channels maps channel references to canonical channel ids and
// stream addresses, backed by a channels.json directory file.
package channels

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/pvrd/pvrd/internal/log"
)

// ErrNotFound is returned when neither id nor number match a known channel.
var ErrNotFound = errors.New("channel not found")

// Channel is one entry of the externally maintained directory.
type Channel struct {
	ID     string `json:"id"`
	Number int    `json:"number,omitempty"`
	Name   string `json:"name,omitempty"`
	Stream string `json:"stream"`
}

// Directory is the read-only channel lookup used by the recorder. The
// backing file may be reloaded (see Watcher), so lookups always read the
// current snapshot under a read lock.
type Directory struct {
	mu       sync.RWMutex
	path     string
	byID     map[string]Channel
	byNumber map[int]Channel
}

// NewDirectory creates a directory backed by the channels file at path.
func NewDirectory(path string) *Directory {
	return &Directory{
		path:     path,
		byID:     make(map[string]Channel),
		byNumber: make(map[int]Channel),
	}
}

// Load reads and replaces the directory contents from disk.
func (d *Directory) Load() error {
	data, err := os.ReadFile(d.path) // #nosec G304 -- operator-supplied path
	if err != nil {
		return fmt.Errorf("read channels file: %w", err)
	}

	var list []Channel
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("parse channels file: %w", err)
	}

	logger := log.WithComponent("channels")
	byID := make(map[string]Channel, len(list))
	byNumber := make(map[int]Channel, len(list))
	for _, ch := range list {
		if ch.ID == "" || ch.Stream == "" {
			logger.Warn().
				Str("id", ch.ID).Str("name", ch.Name).
				Msg("skipping channel entry without id or stream")
			continue
		}
		byID[ch.ID] = ch
		if ch.Number > 0 {
			byNumber[ch.Number] = ch
		}
	}

	d.mu.Lock()
	d.byID = byID
	d.byNumber = byNumber
	d.mu.Unlock()

	logger.Info().
		Int("channels", len(byID)).
		Str(log.FieldPath, d.path).
		Msg("loaded channel directory")
	return nil
}

// Resolve looks up a channel by id or number. Number takes priority when
// both are supplied. Returns ErrNotFound on a miss.
func (d *Directory) Resolve(id string, number int) (Channel, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if number > 0 {
		if ch, ok := d.byNumber[number]; ok {
			return ch, nil
		}
	}
	if id != "" {
		if ch, ok := d.byID[id]; ok {
			return ch, nil
		}
	}
	return Channel{}, ErrNotFound
}

// Len reports the number of channels currently loaded.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byID)
}
