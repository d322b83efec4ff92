// SPDX-License-Identifier: MIT

package recorder

import (
	"time"
)

// Accepted input layouts. Absolute instants carry an offset or are
// interpreted in the reference timezone; bare times of day resolve
// against the current (or start) date.
var (
	absoluteLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
	}
	timeOfDayLayouts = []string{
		"15:04:05",
		"15:04",
	}
)

type parsedKind int

const (
	kindAbsolute parsedKind = iota
	kindTimeOfDay
)

// parseTimeValue parses value as an absolute instant or a bare time of
// day. Naive instants and times of day are interpreted in loc.
func parseTimeValue(value string, loc *time.Location) (time.Time, parsedKind, bool) {
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, kindAbsolute, true
		}
	}
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, kindTimeOfDay, true
		}
	}
	return time.Time{}, 0, false
}

// onDate places the clock reading of tod onto the date of day, in loc.
func onDate(day, tod time.Time, loc *time.Location) time.Time {
	y, m, d := day.In(loc).Date()
	return time.Date(y, m, d, tod.Hour(), tod.Minute(), tod.Second(), 0, loc)
}

// resolveStart computes the effective start instant. An empty or past
// value means start now; a future value means schedule. A bare time of
// day that has already elapsed today rolls forward to tomorrow.
func resolveStart(value string, now time.Time, loc *time.Location) (start time.Time, immediate bool, err error) {
	if value == "" {
		return now, true, nil
	}

	t, kind, ok := parseTimeValue(value, loc)
	if !ok {
		return time.Time{}, false, ErrInvalidTimeFormat{Field: "start", Value: value}
	}

	if kind == kindTimeOfDay {
		tod := t
		t = onDate(now, tod, loc)
		if !t.After(now) {
			// Recompute on tomorrow's date rather than adding 24h, so the
			// wall-clock hour survives DST transitions.
			t = onDate(now.AddDate(0, 0, 1), tod, loc)
		}
		return t, false, nil
	}

	if t.After(now) {
		return t, false, nil
	}
	return now, true, nil
}

// resolveStop computes the stop instant relative to an already resolved
// start. Empty means record until explicitly stopped. A bare time of day
// resolves on the start's date, rolling past midnight when needed.
func resolveStop(value string, start time.Time, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	t, kind, ok := parseTimeValue(value, loc)
	if !ok {
		return time.Time{}, ErrInvalidTimeFormat{Field: "stop", Value: value}
	}

	if kind == kindTimeOfDay {
		tod := t
		t = onDate(start, tod, loc)
		if !t.After(start) {
			t = onDate(start.AddDate(0, 0, 1), tod, loc)
		}
		return t, nil
	}

	if !t.After(start) {
		return time.Time{}, ErrInvalidTimeRange{Start: start, Stop: t}
	}
	return t, nil
}
