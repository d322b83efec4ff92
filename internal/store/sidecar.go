// SPDX-License-Identifier: MIT

// Package store persists finished recordings: a JSON sidecar next to
// each capture file and a SQLite index of everything saved.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/renameio/v2"
)

// SidecarMeta is the metadata written next to a capture file, at
// "<capture path>.json".
type SidecarMeta struct {
	Channel     string     `json:"channel"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Start       time.Time  `json:"start"`
	Stop        *time.Time `json:"stop"`
}

// SidecarPath returns the sidecar location for a capture file.
func SidecarPath(capturePath string) string {
	return capturePath + ".json"
}

// WriteSidecar atomically writes the sidecar for a capture file. A crash
// mid-write leaves either the old sidecar or none, never a torn one.
func WriteSidecar(capturePath string, meta SidecarMeta) error {
	pending, err := renameio.NewPendingFile(SidecarPath(capturePath))
	if err != nil {
		return fmt.Errorf("create pending sidecar: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	enc := json.NewEncoder(pending)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("encode sidecar: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("commit sidecar: %w", err)
	}
	return nil
}
