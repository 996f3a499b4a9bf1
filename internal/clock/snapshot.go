// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package clock

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// SNAPSHOT TYPES
// =============================================================================

// Snapshot is the persisted state of the clock subsystem. The foreground
// Controller is its single writer; the background scheduler never touches it.
//
// On disk each collection is a list of [id, record] pairs.
type Snapshot struct {
	Timers      []TimerEntry     `json:"timers"`
	Alarms      []AlarmEntry     `json:"alarms"`
	Stopwatches []StopwatchEntry `json:"stopwatches"`
}

// TimerEntry is one [id, timer] pair.
type TimerEntry struct {
	ID    string
	Timer *Timer
}

// AlarmEntry is one [id, alarm] pair.
type AlarmEntry struct {
	ID    string
	Alarm *Alarm
}

// StopwatchEntry is one [id, stopwatch] pair.
type StopwatchEntry struct {
	ID        string
	Stopwatch *Stopwatch
}

// =============================================================================
// PAIR ENCODING
// =============================================================================

// MarshalJSON encodes the entry as a two-element [id, record] array.
func (e TimerEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.ID, e.Timer})
}

// UnmarshalJSON decodes a two-element [id, record] array.
func (e *TimerEntry) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("timer entry is not a pair: %w", err)
	}
	if err := json.Unmarshal(pair[0], &e.ID); err != nil {
		return fmt.Errorf("timer entry id: %w", err)
	}
	e.Timer = &Timer{}
	if err := json.Unmarshal(pair[1], e.Timer); err != nil {
		return fmt.Errorf("timer entry record: %w", err)
	}
	return nil
}

// MarshalJSON encodes the entry as a two-element [id, record] array.
func (e AlarmEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.ID, e.Alarm})
}

// UnmarshalJSON decodes a two-element [id, record] array.
func (e *AlarmEntry) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("alarm entry is not a pair: %w", err)
	}
	if err := json.Unmarshal(pair[0], &e.ID); err != nil {
		return fmt.Errorf("alarm entry id: %w", err)
	}
	e.Alarm = &Alarm{}
	if err := json.Unmarshal(pair[1], e.Alarm); err != nil {
		return fmt.Errorf("alarm entry record: %w", err)
	}
	return nil
}

// MarshalJSON encodes the entry as a two-element [id, record] array.
func (e StopwatchEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.ID, e.Stopwatch})
}

// UnmarshalJSON decodes a two-element [id, record] array.
func (e *StopwatchEntry) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("stopwatch entry is not a pair: %w", err)
	}
	if err := json.Unmarshal(pair[0], &e.ID); err != nil {
		return fmt.Errorf("stopwatch entry id: %w", err)
	}
	e.Stopwatch = &Stopwatch{}
	if err := json.Unmarshal(pair[1], e.Stopwatch); err != nil {
		return fmt.Errorf("stopwatch entry record: %w", err)
	}
	return nil
}
