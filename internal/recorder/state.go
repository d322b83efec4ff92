// SPDX-License-Identifier: MIT

package recorder

// transition is one allowed edge of the recording state machine.
type transition struct {
	From State
	To   State
}

// transitionsTable lists every legal edge. Transitions are monotonic:
// nothing re-enters Scheduled and nothing leaves a terminal state.
var transitionsTable = []transition{
	// Promotion path
	{From: StateScheduled, To: StateRunning},
	// Launch failure during scheduled promotion
	{From: StateScheduled, To: StateFailed},
	// Cancel request on a future trigger
	{From: StateScheduled, To: StateCanceled},

	// Stop path (manual request or stop-time trigger)
	{From: StateRunning, To: StateStopping},
	{From: StateStopping, To: StateStopped},
	{From: StateStopping, To: StateCompleted},

	// Unexpected process exit while still running
	{From: StateRunning, To: StateFailed},
}

// canTransition reports whether from -> to is a legal edge.
func canTransition(from, to State) bool {
	for _, tr := range transitionsTable {
		if tr.From == from && tr.To == to {
			return true
		}
	}
	return false
}
