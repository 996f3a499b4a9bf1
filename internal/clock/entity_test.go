// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package clock

import (
	"testing"
	"time"
)

// =============================================================================
// TIMER TESTS
// =============================================================================

func TestTimerRemaining(t *testing.T) {
	t0 := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	tm := NewTimer("tea", 60*time.Second, t0)

	if got := tm.Remaining(t0); got != 60*time.Second {
		t.Errorf("Remaining at start = %v, want 60s", got)
	}
	if got := tm.Remaining(t0.Add(10 * time.Second)); got != 50*time.Second {
		t.Errorf("Remaining at +10s = %v, want 50s", got)
	}
	if got := tm.Remaining(t0.Add(2 * time.Minute)); got != 0 {
		t.Errorf("Remaining past expiry = %v, want 0", got)
	}
}

func TestTimerPauseResume(t *testing.T) {
	t0 := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	tm := NewTimer("", 60*time.Second, t0)

	// Run 10s, pause for 30s, run 5s more: 45s should remain.
	tm.Pause(t0.Add(10 * time.Second))
	if got := tm.Remaining(t0.Add(25 * time.Second)); got != 50*time.Second {
		t.Errorf("Remaining while paused = %v, want 50s", got)
	}

	tm.Resume(t0.Add(40 * time.Second))
	if got := tm.Remaining(t0.Add(45 * time.Second)); got != 45*time.Second {
		t.Errorf("Remaining after resume = %v, want 45s", got)
	}
}

func TestTimerPauseIdempotent(t *testing.T) {
	t0 := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	tm := NewTimer("", 60*time.Second, t0)

	tm.Pause(t0.Add(5 * time.Second))
	tm.Pause(t0.Add(20 * time.Second)) // must not move the pause point
	if got := tm.Remaining(t0.Add(30 * time.Second)); got != 55*time.Second {
		t.Errorf("Remaining = %v, want 55s", got)
	}

	tm.Resume(t0.Add(30 * time.Second))
	tm.Resume(t0.Add(40 * time.Second)) // no-op
	if tm.PausedFor != 25*time.Second {
		t.Errorf("PausedFor = %v, want 25s", tm.PausedFor)
	}
}

func TestTimerExpired(t *testing.T) {
	t0 := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	tm := NewTimer("", 30*time.Second, t0)

	if tm.Expired(t0.Add(29 * time.Second)) {
		t.Error("expired before duration elapsed")
	}
	if !tm.Expired(t0.Add(30 * time.Second)) {
		t.Error("not expired at duration")
	}
}

// =============================================================================
// STOPWATCH TESTS
// =============================================================================

func TestStopwatchElapsed(t *testing.T) {
	t0 := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	sw := NewStopwatch("run", t0)

	if got := sw.Elapsed(t0.Add(7 * time.Second)); got != 7*time.Second {
		t.Errorf("Elapsed = %v, want 7s", got)
	}
}

func TestStopwatchPauseExcludesGap(t *testing.T) {
	t0 := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	sw := NewStopwatch("", t0)

	// Run 5s, pause for 5s, check at +10s: elapsed must still be 5s,
	// not 10s and not 7s.
	sw.Pause(t0.Add(5 * time.Second))
	if got := sw.Elapsed(t0.Add(10 * time.Second)); got != 5*time.Second {
		t.Errorf("Elapsed while paused = %v, want 5s", got)
	}

	sw.Resume(t0.Add(10 * time.Second))
	if got := sw.Elapsed(t0.Add(12 * time.Second)); got != 7*time.Second {
		t.Errorf("Elapsed after resume = %v, want 7s", got)
	}
}

func TestStopwatchLapsAppendOnly(t *testing.T) {
	t0 := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	sw := NewStopwatch("", t0)

	sw.Lap(t0.Add(3 * time.Second))
	sw.Lap(t0.Add(8 * time.Second))
	sw.Pause(t0.Add(10 * time.Second))
	sw.Resume(t0.Add(20 * time.Second))
	sw.Lap(t0.Add(22 * time.Second))

	want := []time.Duration{3 * time.Second, 8 * time.Second, 12 * time.Second}
	if len(sw.Laps) != len(want) {
		t.Fatalf("len(Laps) = %d, want %d", len(sw.Laps), len(want))
	}
	for i := range want {
		if sw.Laps[i] != want[i] {
			t.Errorf("Laps[%d] = %v, want %v", i, sw.Laps[i], want[i])
		}
	}
}

// =============================================================================
// REPEAT POLICY TESTS
// =============================================================================

func TestParseRepeat(t *testing.T) {
	tests := []struct {
		in   string
		want RepeatPolicy
	}{
		{"none", RepeatNone},
		{"daily", RepeatDaily},
		{"weekdays", RepeatWeekdays},
		{"weekly", RepeatWeekly},
		{"", RepeatNone},
		{"fortnightly", RepeatNone},
	}

	for _, tt := range tests {
		if got := ParseRepeat(tt.in); got != tt.want {
			t.Errorf("ParseRepeat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// =============================================================================
// SCHEDULING RULE TESTS
// =============================================================================

func TestRollForwardDay(t *testing.T) {
	now := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)

	// Passed one-shot alarm rolls forward exactly one day.
	passed := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	got := RollForwardDay(passed, RepeatNone, now)
	want := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("RollForwardDay = %v, want %v", got, want)
	}

	// Future trigger is untouched.
	future := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	if got := RollForwardDay(future, RepeatNone, now); !got.Equal(future) {
		t.Errorf("future trigger moved: %v", got)
	}

	// Repeating alarms are untouched even when passed.
	if got := RollForwardDay(passed, RepeatDaily, now); !got.Equal(passed) {
		t.Errorf("repeating trigger moved: %v", got)
	}
}

func TestNextOccurrence(t *testing.T) {
	// 2025-06-06 is a Friday.
	friday := time.Date(2025, 6, 6, 7, 30, 0, 0, time.UTC)
	saturday := friday.AddDate(0, 0, 1)
	monday := time.Date(2025, 6, 9, 7, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		t      time.Time
		repeat RepeatPolicy
		want   time.Time
	}{
		{"daily", friday, RepeatDaily, saturday},
		{"weekly", friday, RepeatWeekly, friday.AddDate(0, 0, 7)},
		{"weekdays from friday", friday, RepeatWeekdays, monday},
		{"weekdays from saturday", saturday, RepeatWeekdays, monday},
		{"weekdays from monday", monday, RepeatWeekdays, monday.AddDate(0, 0, 1)},
		{"none unchanged", friday, RepeatNone, friday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextOccurrence(tt.t, tt.repeat); !got.Equal(tt.want) {
				t.Errorf("NextOccurrence = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextAfter(t *testing.T) {
	// 2025-06-09 is a Monday.
	now := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)
	stale := time.Date(2025, 6, 6, 8, 0, 0, 0, time.UTC)

	// A daily trigger three days stale lands on the next future slot, not
	// on each missed day in turn.
	got := NextAfter(stale, RepeatDaily, now)
	want := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NextAfter daily = %v, want %v", got, want)
	}

	// Weekday catch-up still skips the weekend.
	got = NextAfter(stale, RepeatWeekdays, now)
	want = time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NextAfter weekdays = %v, want %v", got, want)
	}

	// Future triggers and one-shots are untouched.
	future := time.Date(2025, 6, 9, 18, 0, 0, 0, time.UTC)
	if got := NextAfter(future, RepeatDaily, now); !got.Equal(future) {
		t.Errorf("future trigger moved: %v", got)
	}
	if got := NextAfter(stale, RepeatNone, now); !got.Equal(stale) {
		t.Errorf("one-shot trigger moved: %v", got)
	}
}

func TestTriggerTimeForClock(t *testing.T) {
	now := time.Date(2025, 6, 2, 15, 42, 17, 0, time.UTC)
	got := TriggerTimeForClock(now, 7, 30)
	want := time.Date(2025, 6, 2, 7, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("TriggerTimeForClock = %v, want %v", got, want)
	}
}
