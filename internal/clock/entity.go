// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package clock implements the timer, alarm, and stopwatch subsystem.
package clock

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// REPEAT POLICY
// =============================================================================

// RepeatPolicy controls how an alarm reschedules itself after firing.
type RepeatPolicy string

const (
	// RepeatNone fires once; the alarm is deleted after firing.
	RepeatNone RepeatPolicy = "none"

	// RepeatDaily fires every day at the same time.
	RepeatDaily RepeatPolicy = "daily"

	// RepeatWeekdays fires Monday through Friday, skipping weekends.
	RepeatWeekdays RepeatPolicy = "weekdays"

	// RepeatWeekly fires every seven days.
	RepeatWeekly RepeatPolicy = "weekly"
)

// String returns the string representation of the policy.
func (r RepeatPolicy) String() string {
	return string(r)
}

// Valid reports whether the policy is one of the known values.
func (r RepeatPolicy) Valid() bool {
	switch r {
	case RepeatNone, RepeatDaily, RepeatWeekdays, RepeatWeekly:
		return true
	}
	return false
}

// ParseRepeat normalizes a repeat string, defaulting to RepeatNone for
// unknown or empty input.
func ParseRepeat(s string) RepeatPolicy {
	r := RepeatPolicy(s)
	if !r.Valid() {
		return RepeatNone
	}
	return r
}

// =============================================================================
// TIMER
// =============================================================================

// Timer is a countdown entity. The remaining time is never stored: it is
// recomputed from StartedAt, Duration, and the accumulated paused time, so a
// reloaded or long-suspended foreground can never trust a stale countdown.
type Timer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Duration  int       `json:"duration"` // total duration in seconds
	StartedAt time.Time `json:"started_at"`

	Paused    bool          `json:"paused"`
	PausedAt  time.Time     `json:"paused_at,omitempty"`
	PausedFor time.Duration `json:"paused_for_ns,omitempty"`
}

// NewTimer creates a timer starting now.
func NewTimer(name string, duration time.Duration, now time.Time) *Timer {
	return &Timer{
		ID:        NewID(),
		Name:      name,
		Duration:  int(duration / time.Second),
		StartedAt: now,
	}
}

// Remaining computes the time left on the countdown at the given instant,
// clamped to zero and adjusted for accumulated paused time.
func (t *Timer) Remaining(now time.Time) time.Duration {
	ref := now
	if t.Paused {
		ref = t.PausedAt
	}
	elapsed := ref.Sub(t.StartedAt) - t.PausedFor
	remaining := time.Duration(t.Duration)*time.Second - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports whether the countdown has reached zero.
func (t *Timer) Expired(now time.Time) bool {
	return t.Remaining(now) <= 0
}

// Pause freezes the countdown at the given instant. Pausing an already
// paused timer is a no-op.
func (t *Timer) Pause(now time.Time) {
	if t.Paused {
		return
	}
	t.Paused = true
	t.PausedAt = now
}

// Resume unfreezes the countdown, folding the pause into the accumulated
// paused duration. Resuming a running timer is a no-op.
func (t *Timer) Resume(now time.Time) {
	if !t.Paused {
		return
	}
	t.PausedFor += now.Sub(t.PausedAt)
	t.Paused = false
	t.PausedAt = time.Time{}
}

// =============================================================================
// ALARM
// =============================================================================

// Alarm is a point-in-time entity with an absolute wall-clock trigger.
type Alarm struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Time   time.Time    `json:"time"`
	Repeat RepeatPolicy `json:"repeat"`
	Active bool         `json:"active"`
}

// NewAlarm creates an active alarm for the given trigger time. The caller is
// expected to have applied RollForwardDay already.
func NewAlarm(name string, trigger time.Time, repeat RepeatPolicy) *Alarm {
	return &Alarm{
		ID:     NewID(),
		Name:   name,
		Time:   trigger,
		Repeat: repeat,
		Active: true,
	}
}

// =============================================================================
// STOPWATCH
// =============================================================================

// Stopwatch is an elapsed-time accumulator with ordered lap marks.
type Stopwatch struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartedAt time.Time `json:"started_at"`

	Paused    bool          `json:"paused"`
	PausedAt  time.Time     `json:"paused_at,omitempty"`
	PausedFor time.Duration `json:"paused_for_ns,omitempty"`

	// Laps is append-only; insertion order is significant.
	Laps []time.Duration `json:"laps_ns"`
}

// NewStopwatch creates a stopwatch running from now.
func NewStopwatch(name string, now time.Time) *Stopwatch {
	return &Stopwatch{
		ID:        NewID(),
		Name:      name,
		StartedAt: now,
	}
}

// Elapsed computes the accumulated running time at the given instant. The
// value is frozen while paused.
func (s *Stopwatch) Elapsed(now time.Time) time.Duration {
	ref := now
	if s.Paused {
		ref = s.PausedAt
	}
	elapsed := ref.Sub(s.StartedAt) - s.PausedFor
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Pause freezes the stopwatch at the given instant.
func (s *Stopwatch) Pause(now time.Time) {
	if s.Paused {
		return
	}
	s.Paused = true
	s.PausedAt = now
}

// Resume unfreezes the stopwatch, folding the pause into the accumulated
// paused duration.
func (s *Stopwatch) Resume(now time.Time) {
	if !s.Paused {
		return
	}
	s.PausedFor += now.Sub(s.PausedAt)
	s.Paused = false
	s.PausedAt = time.Time{}
}

// Lap appends the current elapsed time to the lap sequence and returns it.
func (s *Stopwatch) Lap(now time.Time) time.Duration {
	lap := s.Elapsed(now)
	s.Laps = append(s.Laps, lap)
	return lap
}

// =============================================================================
// SHARED SCHEDULING RULES
// =============================================================================
//
// Both the foreground controller and the background scheduler import these
// functions. Either side may receive a stale trigger time, so each enforces
// the rules independently; sharing the implementation keeps them in
// agreement without shared memory.

// RollForwardDay returns the effective trigger time for an alarm: if the
// trigger has already passed and there is no repeat policy, it rolls forward
// exactly one day. Repeating alarms are left alone; their catch-up goes
// through NextAfter.
func RollForwardDay(trigger time.Time, repeat RepeatPolicy, now time.Time) time.Time {
	if !trigger.After(now) && repeat == RepeatNone {
		return trigger.AddDate(0, 0, 1)
	}
	return trigger
}

// NextOccurrence returns the trigger time of the successor alarm after one
// fires at t. Weekday repeats skip the weekend: a Friday firing reschedules
// to Monday (+3 days) and a Saturday firing to Monday (+2 days). For
// RepeatNone the input is returned unchanged; callers delete the alarm
// instead of rescheduling.
func NextOccurrence(t time.Time, repeat RepeatPolicy) time.Time {
	switch repeat {
	case RepeatDaily:
		return t.AddDate(0, 0, 1)
	case RepeatWeekly:
		return t.AddDate(0, 0, 7)
	case RepeatWeekdays:
		switch t.Weekday() {
		case time.Friday:
			return t.AddDate(0, 0, 3)
		case time.Saturday:
			return t.AddDate(0, 0, 2)
		default:
			return t.AddDate(0, 0, 1)
		}
	}
	return t
}

// NextAfter advances a repeating trigger through its policy until it lies in
// the future. A stored trigger can be arbitrarily stale after a restart;
// without the catch-up loop every missed occurrence would fire back to back.
// RepeatNone triggers are returned unchanged.
func NextAfter(trigger time.Time, repeat RepeatPolicy, now time.Time) time.Time {
	if repeat == RepeatNone {
		return trigger
	}
	for !trigger.After(now) {
		trigger = NextOccurrence(trigger, repeat)
	}
	return trigger
}

// TriggerTimeForClock builds today's trigger time for an HH:MM wall-clock
// input, in now's location with seconds zeroed.
func TriggerTimeForClock(now time.Time, hour, minute int) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

// NewID creates an opaque unique identifier for a clock entity.
func NewID() string {
	return uuid.New().String()
}
