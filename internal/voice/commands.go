// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/zobo-ai/zobo-tui/internal/clock"
	"github.com/zobo-ai/zobo-tui/internal/util"
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// ClockControl is the subset of the foreground clock controller that voice
// commands drive.
type ClockControl interface {
	StartTimer(hours, minutes, seconds int, name string) (*clock.Timer, error)
	PauseTimer(id string) (*clock.Timer, error)
	StopTimer(id string)
	Timers() []*clock.Timer

	SetAlarm(hour, minute int, name string, repeat clock.RepeatPolicy) (*clock.Alarm, error)
	DeleteAlarm(id string)
	Alarms() []*clock.Alarm

	StartStopwatch(name string) *clock.Stopwatch
	PauseStopwatch(id string) (*clock.Stopwatch, error)
	ResetStopwatch(id string)
	Stopwatches() []*clock.Stopwatch
}

// SettingsControl applies settings commands.
type SettingsControl interface {
	// SetFont selects a font family, returning the canonical name.
	SetFont(name string) (string, error)
	// AdjustFontSize steps the font size up (+1) or down (-1),
	// returning the resulting size.
	AdjustFontSize(step int) (string, error)
	// SetCompact toggles compact mode.
	SetCompact(on bool) error
}

// =============================================================================
// DISPATCHER
// =============================================================================

// Result is the outcome of dispatching one transcript.
type Result struct {
	// Handled is false when no command matched; the transcript should then
	// go to the assistant backend as a chat message.
	Handled bool
	// Reply is the spoken/printed confirmation for a handled command.
	Reply string
}

// Dispatcher routes transcripts to clock and settings handlers.
//
// Matching is ordered substring containment over the lowercased transcript,
// first phrase wins.
type Dispatcher struct {
	clock    ClockControl
	settings SettingsControl
	commands []command

	// now is swappable for tests.
	now func() time.Time
}

type command struct {
	phrase  string
	handler func(transcript string) string
}

// NewDispatcher creates a dispatcher over the given collaborators.
// settings may be nil, disabling settings commands.
func NewDispatcher(cc ClockControl, settings SettingsControl) *Dispatcher {
	d := &Dispatcher{
		clock:    cc,
		settings: settings,
		now:      time.Now,
	}
	d.commands = []command{
		// Timer commands
		{"set timer", d.handleStartTimer},
		{"start timer", d.handleStartTimer},
		{"create timer", d.handleStartTimer},
		{"stop timer", d.handleStopTimers},
		{"pause timer", d.handlePauseTimer},
		{"cancel timer", d.handleStopTimers},

		// Alarm commands
		{"set alarm", d.handleSetAlarm},
		{"create alarm", d.handleSetAlarm},
		{"wake me up", d.handleSetAlarm},
		{"delete alarm", d.handleDeleteAlarms},
		{"cancel alarm", d.handleDeleteAlarms},

		// Stopwatch commands
		{"start stopwatch", d.handleStartStopwatch},
		{"stop stopwatch", d.handleResetStopwatches},
		{"reset stopwatch", d.handleResetStopwatches},
		{"pause stopwatch", d.handlePauseStopwatch},
	}
	return d
}

// Dispatch matches the transcript against the command registry.
// Settings commands are tried after clock commands; an unmatched transcript
// returns Handled false.
func (d *Dispatcher) Dispatch(transcript string) Result {
	lower := strings.ToLower(transcript)

	for _, cmd := range d.commands {
		if strings.Contains(lower, cmd.phrase) {
			reply := cmd.handler(lower)
			if reply == "" {
				reply = cmd.phrase + " executed"
			}
			return Result{Handled: true, Reply: reply}
		}
	}

	if d.settings != nil {
		if reply, ok := d.dispatchSettings(lower); ok {
			return Result{Handled: true, Reply: reply}
		}
	}

	return Result{}
}

// =============================================================================
// TIMER COMMANDS
// =============================================================================

var timerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:for\s+)?(\d+)\s*(?:hours?|hrs?|h)\s*(?:and\s+)?(\d+)?\s*(?:minutes?|mins?|m)?`),
	regexp.MustCompile(`(?i)(?:for\s+)?(\d+)\s*(?:minutes?|mins?|m)\s*(?:and\s+)?(\d+)?\s*(?:seconds?|secs?|s)?`),
	regexp.MustCompile(`(?i)(?:for\s+)?(\d+)\s*(?:seconds?|secs?|s)`),
	regexp.MustCompile(`(?i)(?:for\s+)?(\d+):(\d+):(\d+)`),
	regexp.MustCompile(`(?i)(?:for\s+)?(\d+):(\d+)`),
}

var timerNamePattern = regexp.MustCompile(`(?i)timer\s+(?:for\s+|named\s+|called\s+)([^0-9]+?)(?:\s+for\s+|\s+\d|$)`)

// parseTimerSpec extracts hours/minutes/seconds and an optional name from a
// timer transcript. ok is false when no duration was found.
func parseTimerSpec(transcript string) (hours, minutes, seconds int, name string, ok bool) {
	name = "Voice Timer"

	for i, pattern := range timerPatterns {
		m := pattern.FindStringSubmatch(transcript)
		if m == nil {
			continue
		}
		switch i {
		case 0: // N hours [and M minutes]
			hours = atoi(m[1])
			minutes = atoi(m[2])
		case 1: // N minutes [and M seconds]
			minutes = atoi(m[1])
			seconds = atoi(m[2])
		case 2: // N seconds
			seconds = atoi(m[1])
		case 3: // HH:MM:SS
			hours = atoi(m[1])
			minutes = atoi(m[2])
			seconds = atoi(m[3])
		case 4: // MM:SS
			minutes = atoi(m[1])
			seconds = atoi(m[2])
		}
		ok = hours+minutes+seconds > 0
		break
	}

	if m := timerNamePattern.FindStringSubmatch(transcript); m != nil {
		if n := strings.TrimSpace(m[1]); n != "" {
			name = n
		}
	}
	return hours, minutes, seconds, name, ok
}

func (d *Dispatcher) handleStartTimer(transcript string) string {
	hours, minutes, seconds, name, ok := parseTimerSpec(transcript)
	if !ok {
		return "Please specify a valid time for the timer"
	}
	if _, err := d.clock.StartTimer(hours, minutes, seconds, name); err != nil {
		return "Please specify a valid time for the timer"
	}
	total := hours*3600 + minutes*60 + seconds
	return fmt.Sprintf("Timer set for %s with name %q", util.FormatClock(total), name)
}

func (d *Dispatcher) handleStopTimers(string) string {
	timers := d.clock.Timers()
	for _, t := range timers {
		d.clock.StopTimer(t.ID)
	}
	return fmt.Sprintf("Stopped %d timer(s)", len(timers))
}

func (d *Dispatcher) handlePauseTimer(string) string {
	t, err := d.clock.PauseTimer("")
	if err != nil {
		return "No timer running"
	}
	if t.Paused {
		return "Timer paused"
	}
	return "Timer resumed"
}

// =============================================================================
// ALARM COMMANDS
// =============================================================================

var alarmPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:at\s+)?(\d{1,2}):(\d{2})\s*(am|pm)?`),
	regexp.MustCompile(`(?i)(?:at\s+)?(\d{1,2})\s*(am|pm)`),
	regexp.MustCompile(`(?i)(?:in\s+)?(\d+)\s*(?:minutes?|mins?)`),
	regexp.MustCompile(`(?i)(?:in\s+)?(\d+)\s*(?:hours?|hrs?)`),
}

var alarmNamePattern = regexp.MustCompile(`(?i)alarm\s+(?:named\s+|called\s+)([^0-9]+?)(?:\s+at\s+|\s+in\s+|\s+\d|$)`)

// parseAlarmSpec extracts an alarm clock time, name, and repeat policy.
// Relative offsets ("in 20 minutes") resolve against now.
func parseAlarmSpec(transcript string, now time.Time) (hour, minute int, name string, repeat clock.RepeatPolicy, ok bool) {
	name = "Voice Alarm"
	repeat = clock.RepeatNone

	switch {
	case strings.Contains(transcript, "daily") || strings.Contains(transcript, "every day"):
		repeat = clock.RepeatDaily
	case strings.Contains(transcript, "weekdays") || strings.Contains(transcript, "work days"):
		repeat = clock.RepeatWeekdays
	case strings.Contains(transcript, "weekly") || strings.Contains(transcript, "every week"):
		repeat = clock.RepeatWeekly
	}

	for i, pattern := range alarmPatterns {
		m := pattern.FindStringSubmatch(transcript)
		if m == nil {
			continue
		}
		switch i {
		case 0: // "7:30 am"
			hour = to24Hour(atoi(m[1]), m[3])
			minute = atoi(m[2])
		case 1: // "7 pm"
			hour = to24Hour(atoi(m[1]), m[2])
			minute = 0
		case 2: // "in 20 minutes"
			at := now.Add(time.Duration(atoi(m[1])) * time.Minute)
			hour, minute = at.Hour(), at.Minute()
		case 3: // "in 2 hours"
			at := now.Add(time.Duration(atoi(m[1])) * time.Hour)
			hour, minute = at.Hour(), at.Minute()
		}
		ok = true
		break
	}

	if m := alarmNamePattern.FindStringSubmatch(transcript); m != nil {
		if n := strings.TrimSpace(m[1]); n != "" {
			name = n
		}
	}
	return hour, minute, name, repeat, ok
}

// to24Hour converts a spoken hour with optional am/pm marker.
func to24Hour(hour int, ampm string) int {
	switch strings.ToLower(ampm) {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour
}

func (d *Dispatcher) handleSetAlarm(transcript string) string {
	hour, minute, name, repeat, ok := parseAlarmSpec(transcript, d.now())
	if !ok {
		return "Please specify a valid time for the alarm"
	}
	a, err := d.clock.SetAlarm(hour, minute, name, repeat)
	if err != nil {
		return "Please specify a valid time for the alarm"
	}
	return fmt.Sprintf("Alarm set for %s with name %q", a.Time.Format("3:04 PM"), name)
}

func (d *Dispatcher) handleDeleteAlarms(string) string {
	alarms := d.clock.Alarms()
	for _, a := range alarms {
		d.clock.DeleteAlarm(a.ID)
	}
	return fmt.Sprintf("Deleted %d alarm(s)", len(alarms))
}

// =============================================================================
// STOPWATCH COMMANDS
// =============================================================================

func (d *Dispatcher) handleStartStopwatch(string) string {
	d.clock.StartStopwatch("")
	return "Stopwatch started"
}

func (d *Dispatcher) handleResetStopwatches(string) string {
	watches := d.clock.Stopwatches()
	for _, sw := range watches {
		d.clock.ResetStopwatch(sw.ID)
	}
	return "Stopwatch reset"
}

func (d *Dispatcher) handlePauseStopwatch(string) string {
	sw, err := d.clock.PauseStopwatch("")
	if err != nil {
		return "No stopwatch running"
	}
	if sw.Paused {
		return "Stopwatch paused"
	}
	return "Stopwatch resumed"
}

// =============================================================================
// SETTINGS COMMANDS
// =============================================================================

// fontPhrases mirrors the spoken forms users actually say; ordered so the
// first match wins.
var fontPhrases = []struct {
	phrase string
	font   string
}{
	{"set font to inter", "Inter"},
	{"change font to roboto", "Roboto"},
	{"use courier new font", "Courier New"},
	{"switch to arial", "Arial"},
	{"use times new roman", "Times New Roman"},
	{"set font to georgia", "Georgia"},
	{"change to jack armstrong", "Creepster"},
}

func (d *Dispatcher) dispatchSettings(lower string) (string, bool) {
	for _, fc := range fontPhrases {
		if strings.Contains(lower, fc.phrase) {
			name, err := d.settings.SetFont(fc.font)
			if err != nil {
				return "Could not change font", true
			}
			return "Font changed to " + name, true
		}
	}

	if strings.Contains(lower, "make text larger") || strings.Contains(lower, "increase font size") {
		size, err := d.settings.AdjustFontSize(1)
		if err != nil {
			return "Could not change font size", true
		}
		return "Font size increased to " + size, true
	}
	if strings.Contains(lower, "make text smaller") || strings.Contains(lower, "decrease font size") {
		size, err := d.settings.AdjustFontSize(-1)
		if err != nil {
			return "Could not change font size", true
		}
		return "Font size decreased to " + size, true
	}

	if strings.Contains(lower, "enable compact mode") || strings.Contains(lower, "turn on compact mode") {
		if err := d.settings.SetCompact(true); err != nil {
			return "Could not change compact mode", true
		}
		return "Compact mode enabled", true
	}
	if strings.Contains(lower, "disable compact mode") || strings.Contains(lower, "turn off compact mode") {
		if err := d.settings.SetCompact(false); err != nil {
			return "Could not change compact mode", true
		}
		return "Compact mode disabled", true
	}

	return "", false
}

// =============================================================================
// HELPERS
// =============================================================================

// atoi parses a submatch that may be empty (optional capture group).
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
