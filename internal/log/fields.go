// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"

	FieldRecordingID = "recording_id"
	FieldChannelID   = "channel_id"

	FieldOldState = "old_state"
	FieldNewState = "new_state"

	FieldPath = "path"
)
