// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package clock

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/zobo-ai/zobo-tui/internal/bus"
	"github.com/zobo-ai/zobo-tui/internal/notify"
	"github.com/zobo-ai/zobo-tui/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidDuration is returned when a timer would run zero seconds.
	ErrInvalidDuration = errors.New("timer duration must be positive")

	// ErrInvalidTime is returned for an out-of-range alarm clock time.
	ErrInvalidTime = errors.New("alarm time must be a valid HH:MM")

	// ErrNotFound is returned when an operation targets a missing entity.
	ErrNotFound = errors.New("clock entity not found")
)

// =============================================================================
// CONTROLLER
// =============================================================================

// Store persists and restores the clock snapshot.
type Store interface {
	Save(snap *Snapshot) error
	Load() (*Snapshot, error)
}

// Sender delivers fire-and-forget commands to the background scheduler.
type Sender interface {
	Send(msg bus.Message)
}

// Controller is the foreground owner of all clock entities. Every mutation
// is persisted to the snapshot before the corresponding command is sent to
// the background; persistence failures are logged, never fatal.
//
// Countdown and elapsed updates arriving from the background are display
// hints only. The controller always recomputes authoritative values from
// entity timestamps.
type Controller struct {
	mu sync.Mutex

	// Insertion order is preserved so "the first timer" is well defined for
	// voice commands that omit an ID.
	timers      []*Timer
	alarms      []*Alarm
	stopwatches []*Stopwatch

	store  Store
	sender Sender

	// now is swappable for tests.
	now func() time.Time

	// Display hints from background updates, keyed by entity ID.
	hintRemaining map[string]int
	hintElapsed   map[string]int64

	// OnAlarmSound is invoked when the background requests the alert chime.
	// May be nil.
	OnAlarmSound func()

	// Notifier receives the "started" confirmations posted when a timer or
	// alarm is armed. Completion alerts stay with the background scheduler;
	// only the start confirmations originate here. May be nil.
	Notifier notify.Notifier
}

// NewController creates a controller with empty registries.
func NewController(store Store, sender Sender) *Controller {
	return &Controller{
		store:         store,
		sender:        sender,
		now:           time.Now,
		hintRemaining: make(map[string]int),
		hintElapsed:   make(map[string]int64),
	}
}

// =============================================================================
// TIMERS
// =============================================================================

// StartTimer creates and arms a countdown from hours/minutes/seconds input.
func (c *Controller) StartTimer(hours, minutes, seconds int, name string) (*Timer, error) {
	total := hours*3600 + minutes*60 + seconds
	if total <= 0 {
		return nil, ErrInvalidDuration
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	t := NewTimer(name, time.Duration(total)*time.Second, c.now())
	c.timers = append(c.timers, t)
	c.persistLocked()

	c.sender.Send(bus.MustMessage(bus.TypeStartTimer, bus.StartTimer{
		ID:       t.ID,
		Duration: t.Duration,
		Name:     t.Name,
	}))

	body := "Counting down " + util.FormatClock(total)
	if name != "" {
		body = name + ": counting down " + util.FormatClock(total)
	}
	c.postStarted(notify.Notification{
		Title:  "Timer Started",
		Body:   body,
		Tag:    notify.TimerTag(t.ID),
		Silent: true,
	})

	return t, nil
}

// PauseTimer toggles pause on a timer. An empty ID targets the first timer.
func (c *Controller) PauseTimer(id string) (*Timer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.findTimerLocked(id)
	if t == nil {
		return nil, ErrNotFound
	}

	now := c.now()
	if t.Paused {
		t.Resume(now)
		// Re-arm the background with the remaining seconds.
		c.sender.Send(bus.MustMessage(bus.TypeStartTimer, bus.StartTimer{
			ID:       t.ID,
			Duration: int(t.Remaining(now) / time.Second),
			Name:     t.Name,
		}))
	} else {
		t.Pause(now)
		c.sender.Send(bus.MustMessage(bus.TypeStopTimer, bus.StopTimer{ID: t.ID}))
	}

	c.persistLocked()
	return t, nil
}

// StopTimer cancels and removes a timer. An empty ID targets the first
// timer. Stopping an unknown or already-stopped timer is a no-op.
func (c *Controller) StopTimer(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.findTimerLocked(id)
	if t == nil {
		return
	}

	c.removeTimerLocked(t.ID)
	delete(c.hintRemaining, t.ID)
	c.persistLocked()

	c.sender.Send(bus.MustMessage(bus.TypeStopTimer, bus.StopTimer{ID: t.ID}))
}

// Timers returns the timers in insertion order.
func (c *Controller) Timers() []*Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*Timer, len(c.timers))
	for i, t := range c.timers {
		cp := *t
		out[i] = &cp
	}
	return out
}

func (c *Controller) findTimerLocked(id string) *Timer {
	if id == "" {
		if len(c.timers) == 0 {
			return nil
		}
		return c.timers[0]
	}
	for _, t := range c.timers {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (c *Controller) removeTimerLocked(id string) {
	for i, t := range c.timers {
		if t.ID == id {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return
		}
	}
}

// =============================================================================
// ALARMS
// =============================================================================

// SetAlarm creates and arms an alarm for the given wall-clock time. A time
// already passed today rolls forward to tomorrow for one-shot alarms.
func (c *Controller) SetAlarm(hour, minute int, name string, repeat RepeatPolicy) (*Alarm, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, ErrInvalidTime
	}
	if !repeat.Valid() {
		repeat = RepeatNone
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	trigger := RollForwardDay(TriggerTimeForClock(now, hour, minute), repeat, now)

	a := NewAlarm(name, trigger, repeat)
	c.alarms = append(c.alarms, a)
	c.persistLocked()

	c.sendStartAlarmLocked(a)

	body := "Set for " + a.Time.Format("3:04 PM")
	if a.Repeat != RepeatNone {
		body += " (" + a.Repeat.String() + ")"
	}
	if name != "" {
		body = name + ": " + body
	}
	c.postStarted(notify.Notification{
		Title:  "Alarm Set",
		Body:   body,
		Tag:    notify.AlarmTag(a.ID),
		Silent: true,
	})

	return a, nil
}

// DeleteAlarm cancels and removes an alarm. Unknown IDs are a no-op.
func (c *Controller) DeleteAlarm(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, a := range c.alarms {
		if a.ID == id {
			c.alarms = append(c.alarms[:i], c.alarms[i+1:]...)
			c.persistLocked()
			c.sender.Send(bus.MustMessage(bus.TypeStopAlarm, bus.StopAlarm{ID: id}))
			return
		}
	}
}

// Alarms returns the alarms in insertion order.
func (c *Controller) Alarms() []*Alarm {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*Alarm, len(c.alarms))
	for i, a := range c.alarms {
		cp := *a
		out[i] = &cp
	}
	return out
}

func (c *Controller) sendStartAlarmLocked(a *Alarm) {
	c.sender.Send(bus.MustMessage(bus.TypeStartAlarm, bus.StartAlarm{
		ID:     a.ID,
		Time:   a.Time.Format(time.RFC3339),
		Name:   a.Name,
		Repeat: a.Repeat.String(),
	}))
}

// =============================================================================
// STOPWATCHES
// =============================================================================

// StartStopwatch creates and starts a stopwatch.
func (c *Controller) StartStopwatch(name string) *Stopwatch {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := NewStopwatch(name, c.now())
	c.stopwatches = append(c.stopwatches, s)
	c.persistLocked()

	c.sender.Send(bus.MustMessage(bus.TypeStartStopwatch, bus.StartStopwatch{
		ID:   s.ID,
		Name: s.Name,
	}))
	return s
}

// PauseStopwatch toggles pause. An empty ID targets the first stopwatch.
func (c *Controller) PauseStopwatch(id string) (*Stopwatch, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.findStopwatchLocked(id)
	if s == nil {
		return nil, ErrNotFound
	}

	now := c.now()
	if s.Paused {
		s.Resume(now)
		c.sender.Send(bus.MustMessage(bus.TypeStartStopwatch, bus.StartStopwatch{
			ID:   s.ID,
			Name: s.Name,
		}))
	} else {
		s.Pause(now)
		c.sender.Send(bus.MustMessage(bus.TypeStopStopwatch, bus.StopStopwatch{ID: s.ID}))
	}

	c.persistLocked()
	return s, nil
}

// AddLap records the current elapsed time as a lap. An empty ID targets the
// first stopwatch.
func (c *Controller) AddLap(id string) (time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.findStopwatchLocked(id)
	if s == nil {
		return 0, ErrNotFound
	}

	lap := s.Lap(c.now())
	c.persistLocked()
	return lap, nil
}

// ResetStopwatch removes a stopwatch entirely. An empty ID targets the
// first stopwatch; unknown IDs are a no-op.
func (c *Controller) ResetStopwatch(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.findStopwatchLocked(id)
	if s == nil {
		return
	}

	for i, sw := range c.stopwatches {
		if sw.ID == s.ID {
			c.stopwatches = append(c.stopwatches[:i], c.stopwatches[i+1:]...)
			break
		}
	}
	delete(c.hintElapsed, s.ID)
	c.persistLocked()

	c.sender.Send(bus.MustMessage(bus.TypeStopStopwatch, bus.StopStopwatch{ID: s.ID}))
}

// Stopwatches returns the stopwatches in insertion order.
func (c *Controller) Stopwatches() []*Stopwatch {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*Stopwatch, len(c.stopwatches))
	for i, s := range c.stopwatches {
		cp := *s
		cp.Laps = append([]time.Duration(nil), s.Laps...)
		out[i] = &cp
	}
	return out
}

func (c *Controller) findStopwatchLocked(id string) *Stopwatch {
	if id == "" {
		if len(c.stopwatches) == 0 {
			return nil
		}
		return c.stopwatches[0]
	}
	for _, s := range c.stopwatches {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// =============================================================================
// RESTORE AND RE-ARM
// =============================================================================

// Restore loads the snapshot and rebuilds the registries. Timers that
// expired while the app was closed are dropped silently; firing them late
// would be worse than missing them. One-shot alarms whose time passed are
// rolled forward a day; stale repeating alarms advance to their next
// future occurrence.
func (c *Controller) Restore() error {
	snap, err := c.store.Load()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	c.timers = c.timers[:0]
	for _, e := range snap.Timers {
		if e.Timer == nil || e.Timer.Expired(now) {
			continue
		}
		c.timers = append(c.timers, e.Timer)
	}

	c.alarms = c.alarms[:0]
	for _, e := range snap.Alarms {
		if e.Alarm == nil {
			continue
		}
		e.Alarm.Time = RollForwardDay(e.Alarm.Time, e.Alarm.Repeat, now)
		e.Alarm.Time = NextAfter(e.Alarm.Time, e.Alarm.Repeat, now)
		c.alarms = append(c.alarms, e.Alarm)
	}

	c.stopwatches = c.stopwatches[:0]
	for _, e := range snap.Stopwatches {
		if e.Stopwatch == nil {
			continue
		}
		c.stopwatches = append(c.stopwatches, e.Stopwatch)
	}

	c.persistLocked()
	return nil
}

// Rearm replays a START command for every live entity. Called when the
// background scheduler announces itself, since its registry is memory-only
// and empty after a restart.
func (c *Controller) Rearm() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	for _, t := range c.timers {
		if t.Paused {
			continue
		}
		c.sender.Send(bus.MustMessage(bus.TypeStartTimer, bus.StartTimer{
			ID:       t.ID,
			Duration: int(t.Remaining(now) / time.Second),
			Name:     t.Name,
		}))
	}

	for _, a := range c.alarms {
		c.sendStartAlarmLocked(a)
	}

	for _, s := range c.stopwatches {
		if s.Paused {
			continue
		}
		c.sender.Send(bus.MustMessage(bus.TypeStartStopwatch, bus.StartStopwatch{
			ID:   s.ID,
			Name: s.Name,
		}))
	}
}

// =============================================================================
// BACKGROUND MESSAGES
// =============================================================================

// HandleMessage processes one update from the background scheduler.
func (c *Controller) HandleMessage(msg bus.Message) {
	switch msg.Type {
	case bus.TypeTimerUpdate:
		var p bus.TimerUpdate
		if err := msg.Decode(&p); err != nil {
			log.Printf("WARNING: bad TIMER_UPDATE: %v", err)
			return
		}
		c.mu.Lock()
		c.hintRemaining[p.ID] = p.Remaining
		// A countdown that hit zero in the background is finished; the
		// scheduler already posted the notification.
		if p.Remaining <= 0 {
			c.removeTimerLocked(p.ID)
			delete(c.hintRemaining, p.ID)
			c.persistLocked()
		}
		c.mu.Unlock()

	case bus.TypeStopwatchUpdate:
		var p bus.StopwatchUpdate
		if err := msg.Decode(&p); err != nil {
			log.Printf("WARNING: bad STOPWATCH_UPDATE: %v", err)
			return
		}
		c.mu.Lock()
		c.hintElapsed[p.ID] = p.Elapsed
		c.mu.Unlock()

	case bus.TypePlayAlarmSound:
		if c.OnAlarmSound != nil {
			c.OnAlarmSound()
		}

	case bus.TypeSchedulerReady:
		c.Rearm()
	}
}

// RemainingHint returns the last broadcast countdown reading for a timer.
func (c *Controller) RemainingHint(id string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.hintRemaining[id]
	return v, ok
}

// ElapsedHint returns the last broadcast elapsed reading for a stopwatch.
func (c *Controller) ElapsedHint(id string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.hintElapsed[id]
	return v, ok
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// postStarted posts a start confirmation. It carries no actions and never
// requires interaction, so it expires like any transient toast.
func (c *Controller) postStarted(n notify.Notification) {
	if c.Notifier == nil {
		return
	}
	if err := c.Notifier.Notify(n); err != nil {
		log.Printf("WARNING: failed to post notification [%s]: %v", n.Tag, err)
	}
}

// persistLocked writes the snapshot. Must be called with the lock held.
// Failure is logged and swallowed; losing persistence must not take down
// the running clocks.
func (c *Controller) persistLocked() {
	snap := &Snapshot{
		Timers:      make([]TimerEntry, 0, len(c.timers)),
		Alarms:      make([]AlarmEntry, 0, len(c.alarms)),
		Stopwatches: make([]StopwatchEntry, 0, len(c.stopwatches)),
	}
	for _, t := range c.timers {
		snap.Timers = append(snap.Timers, TimerEntry{ID: t.ID, Timer: t})
	}
	for _, a := range c.alarms {
		snap.Alarms = append(snap.Alarms, AlarmEntry{ID: a.ID, Alarm: a})
	}
	for _, s := range c.stopwatches {
		snap.Stopwatches = append(snap.Stopwatches, StopwatchEntry{ID: s.ID, Stopwatch: s})
	}

	if err := c.store.Save(snap); err != nil {
		log.Printf("WARNING: failed to persist clock snapshot: %v", err)
	}
}
