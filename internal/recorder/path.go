// SPDX-License-Identifier: MIT

package recorder

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"
)

// unsafeChars matches everything disallowed in generated file names.
var unsafeChars = regexp.MustCompile(`[^\w\-. ]`)

// RecordingID derives the deterministic id for a capture on channelID
// starting at the given instant. Two requests for the same channel and
// computed start collide into the same id.
func RecordingID(channelID string, start time.Time) string {
	return fmt.Sprintf("%s_%d", channelID, start.Unix())
}

// SafeFilename replaces filesystem-hostile characters with underscores.
func SafeFilename(s string) string {
	return unsafeChars.ReplaceAllString(s, "_")
}

// OutputPath computes the capture output file path. Generated once at
// record creation and never regenerated, so it stays stable even if the
// title or channel entry changes later.
func OutputPath(dir, channelID, title string, start time.Time) string {
	name := fmt.Sprintf("%s_%s_%s.mp4",
		start.Format(time.RFC3339),
		SafeFilename(channelID),
		SafeFilename(title),
	)
	return filepath.Join(dir, name)
}
