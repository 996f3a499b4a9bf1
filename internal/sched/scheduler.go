// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sched

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/zobo-ai/zobo-tui/internal/bus"
	"github.com/zobo-ai/zobo-tui/internal/clock"
	"github.com/zobo-ai/zobo-tui/internal/notify"
)

// =============================================================================
// SCHEDULER
// =============================================================================

// Recorder logs firings for the history command. Optional.
type Recorder interface {
	RecordFiring(kind, entityID, name string, at time.Time) error
}

// Default cadences and snooze window.
const (
	DefaultTimerTick     = time.Second
	DefaultStopwatchTick = 100 * time.Millisecond
	DefaultSnooze        = 5 * time.Minute
)

// Scheduler is the background authority for clock firings. Its registry
// lives only in memory; see the package doc for the re-arm handshake.
type Scheduler struct {
	broker   *bus.Broker
	notifier notify.Notifier

	// TimerTick, StopwatchTick, and Snooze may be adjusted before Run.
	TimerTick     time.Duration
	StopwatchTick time.Duration
	Snooze        time.Duration

	recorder Recorder

	mu          sync.Mutex
	timers      map[string]*timerEntry
	alarms      map[string]*alarmEntry
	stopwatches map[string]*stopwatchEntry
}

type timerEntry struct {
	id       string
	name     string
	deadline time.Time
	cancel   chan struct{}
}

type alarmEntry struct {
	id     string
	name   string
	at     time.Time
	repeat clock.RepeatPolicy
	timer  *time.Timer
}

type stopwatchEntry struct {
	id     string
	name   string
	start  time.Time
	cancel chan struct{}
}

// NewScheduler creates a scheduler with default cadences.
func NewScheduler(broker *bus.Broker, notifier notify.Notifier) *Scheduler {
	return &Scheduler{
		broker:        broker,
		notifier:      notifier,
		TimerTick:     DefaultTimerTick,
		StopwatchTick: DefaultStopwatchTick,
		Snooze:        DefaultSnooze,
		timers:        make(map[string]*timerEntry),
		alarms:        make(map[string]*alarmEntry),
		stopwatches:   make(map[string]*stopwatchEntry),
	}
}

// SetRecorder attaches a firing history recorder.
func (s *Scheduler) SetRecorder(r Recorder) {
	s.recorder = r
}

// =============================================================================
// RUN LOOP
// =============================================================================

// Run announces readiness, then consumes commands until the context is
// canceled. On exit every armed entry is disarmed.
func (s *Scheduler) Run(ctx context.Context) {
	s.broker.Broadcast(bus.MustMessage(bus.TypeSchedulerReady, nil))

	for {
		select {
		case <-ctx.Done():
			s.disarmAll()
			return
		case msg := <-s.broker.Background():
			s.handle(msg)
		}
	}
}

// handle dispatches one command message.
func (s *Scheduler) handle(msg bus.Message) {
	switch msg.Type {
	case bus.TypeStartTimer:
		var p bus.StartTimer
		if err := msg.Decode(&p); err != nil {
			log.Printf("WARNING: bad START_TIMER: %v", err)
			return
		}
		s.armTimer(p.ID, p.Name, time.Duration(p.Duration)*time.Second)

	case bus.TypeStopTimer:
		var p bus.StopTimer
		if err := msg.Decode(&p); err != nil {
			log.Printf("WARNING: bad STOP_TIMER: %v", err)
			return
		}
		s.disarmTimer(p.ID)

	case bus.TypeStartAlarm:
		var p bus.StartAlarm
		if err := msg.Decode(&p); err != nil {
			log.Printf("WARNING: bad START_ALARM: %v", err)
			return
		}
		at, err := time.Parse(time.RFC3339, p.Time)
		if err != nil {
			log.Printf("WARNING: START_ALARM with bad time %q: %v", p.Time, err)
			return
		}
		s.armAlarm(p.ID, p.Name, at, clock.ParseRepeat(p.Repeat))

	case bus.TypeStopAlarm:
		var p bus.StopAlarm
		if err := msg.Decode(&p); err != nil {
			log.Printf("WARNING: bad STOP_ALARM: %v", err)
			return
		}
		s.disarmAlarm(p.ID)

	case bus.TypeStartStopwatch:
		var p bus.StartStopwatch
		if err := msg.Decode(&p); err != nil {
			log.Printf("WARNING: bad START_STOPWATCH: %v", err)
			return
		}
		s.armStopwatch(p.ID, p.Name)

	case bus.TypeStopStopwatch:
		var p bus.StopStopwatch
		if err := msg.Decode(&p); err != nil {
			log.Printf("WARNING: bad STOP_STOPWATCH: %v", err)
			return
		}
		s.disarmStopwatch(p.ID)
	}
}

// disarmAll cancels every armed entry.
func (s *Scheduler) disarmAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.timers {
		close(e.cancel)
		delete(s.timers, id)
	}
	for id, e := range s.alarms {
		e.timer.Stop()
		delete(s.alarms, id)
	}
	for id, e := range s.stopwatches {
		close(e.cancel)
		delete(s.stopwatches, id)
	}
}

// =============================================================================
// TIMERS
// =============================================================================

// armTimer registers a countdown and starts its tick goroutine. Re-arming an
// existing ID replaces the previous schedule.
func (s *Scheduler) armTimer(id, name string, duration time.Duration) {
	s.mu.Lock()
	if old, ok := s.timers[id]; ok {
		close(old.cancel)
	}
	e := &timerEntry{
		id:       id,
		name:     name,
		deadline: time.Now().Add(duration),
		cancel:   make(chan struct{}),
	}
	s.timers[id] = e
	s.mu.Unlock()

	go s.runTimer(e)
}

// disarmTimer cancels a countdown. Cancel-then-remove: the entry leaves the
// registry before its goroutine observes the close, and the fire path
// re-checks membership, so a racing tick cannot notify.
func (s *Scheduler) disarmTimer(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.timers[id]; ok {
		delete(s.timers, id)
		close(e.cancel)
	}
}

func (s *Scheduler) runTimer(e *timerEntry) {
	ticker := time.NewTicker(s.TimerTick)
	defer ticker.Stop()

	for {
		select {
		case <-e.cancel:
			return
		case now := <-ticker.C:
			remaining := e.deadline.Sub(now)
			if remaining > 0 {
				s.broker.Broadcast(bus.MustMessage(bus.TypeTimerUpdate, bus.TimerUpdate{
					ID:        e.id,
					Remaining: int((remaining + s.TimerTick/2) / time.Second),
				}))
				continue
			}
			s.fireTimer(e)
			return
		}
	}
}

// fireTimer completes a countdown. The registry re-check under the lock is
// what makes a late tick after disarm harmless.
func (s *Scheduler) fireTimer(e *timerEntry) {
	s.mu.Lock()
	if s.timers[e.id] != e {
		s.mu.Unlock()
		return
	}
	delete(s.timers, e.id)
	s.mu.Unlock()

	s.broker.Broadcast(bus.MustMessage(bus.TypeTimerUpdate, bus.TimerUpdate{
		ID:        e.id,
		Remaining: 0,
	}))

	body := "Your timer is done!"
	if e.name != "" {
		body = e.name
	}
	s.post(notify.Notification{
		Title:              "Timer Complete!",
		Body:               body,
		Tag:                notify.TimerTag(e.id),
		Actions:            []notify.Action{notify.ActionDismiss, notify.ActionSnooze},
		RequireInteraction: true,
		Silent:             true,
	})
	s.broker.Broadcast(bus.MustMessage(bus.TypePlayAlarmSound, bus.PlayAlarmSound{}))
	s.record("timer", e.id, e.name)
}

// =============================================================================
// ALARMS
// =============================================================================

// armAlarm registers an absolute-time trigger. The roll-forward rule is
// applied here as well as in the foreground: either side may hold a stale
// trigger time, so both enforce it.
func (s *Scheduler) armAlarm(id, name string, at time.Time, repeat clock.RepeatPolicy) {
	now := time.Now()
	at = clock.RollForwardDay(at, repeat, now)
	at = clock.NextAfter(at, repeat, now)

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.alarms[id]; ok {
		old.timer.Stop()
	}

	e := &alarmEntry{id: id, name: name, at: at, repeat: repeat}
	e.timer = time.AfterFunc(at.Sub(now), func() { s.fireAlarm(id) })
	s.alarms[id] = e
}

// disarmAlarm cancels an alarm. Unknown IDs are ignored.
func (s *Scheduler) disarmAlarm(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.alarms[id]; ok {
		e.timer.Stop()
		delete(s.alarms, id)
	}
}

// fireAlarm triggers an alarm, rescheduling repeating ones.
func (s *Scheduler) fireAlarm(id string) {
	s.mu.Lock()
	e, ok := s.alarms[id]
	if !ok {
		s.mu.Unlock()
		return
	}

	name := e.name
	if e.repeat == clock.RepeatNone {
		delete(s.alarms, id)
	} else {
		// NextAfter rather than a single NextOccurrence step: a stored
		// trigger can be days stale, and each negative Reset would fire
		// again immediately.
		e.at = clock.NextAfter(e.at, e.repeat, time.Now())
		e.timer.Reset(time.Until(e.at))
	}
	s.mu.Unlock()

	body := "Your alarm is going off!"
	if name != "" {
		body = name
	}
	s.post(notify.Notification{
		Title:              "Alarm!",
		Body:               body,
		Tag:                notify.AlarmTag(id),
		Actions:            []notify.Action{notify.ActionDismiss, notify.ActionSnooze},
		RequireInteraction: true,
		Silent:             true,
	})
	s.broker.Broadcast(bus.MustMessage(bus.TypePlayAlarmSound, bus.PlayAlarmSound{}))
	s.record("alarm", id, name)
}

// =============================================================================
// STOPWATCHES
// =============================================================================

// armStopwatch starts broadcasting elapsed updates for a stopwatch. The
// readings are cosmetic; the foreground owns the authoritative elapsed time.
func (s *Scheduler) armStopwatch(id, name string) {
	s.mu.Lock()
	if old, ok := s.stopwatches[id]; ok {
		close(old.cancel)
	}
	e := &stopwatchEntry{
		id:     id,
		name:   name,
		start:  time.Now(),
		cancel: make(chan struct{}),
	}
	s.stopwatches[id] = e
	s.mu.Unlock()

	go s.runStopwatch(e)
}

// disarmStopwatch stops elapsed broadcasting. Unknown IDs are ignored.
func (s *Scheduler) disarmStopwatch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.stopwatches[id]; ok {
		delete(s.stopwatches, id)
		close(e.cancel)
	}
}

func (s *Scheduler) runStopwatch(e *stopwatchEntry) {
	ticker := time.NewTicker(s.StopwatchTick)
	defer ticker.Stop()

	for {
		select {
		case <-e.cancel:
			return
		case now := <-ticker.C:
			s.broker.Broadcast(bus.MustMessage(bus.TypeStopwatchUpdate, bus.StopwatchUpdate{
				ID:      e.id,
				Elapsed: now.Sub(e.start).Milliseconds(),
			}))
		}
	}
}

// =============================================================================
// NOTIFICATION ACTIONS
// =============================================================================

// HandleAction routes a user response on a notification back into the
// scheduler. Snooze spawns a fresh five-minute entity tagged "-snooze" so it
// cannot collide with a re-armed original; dismiss and plain clicks just
// close the alert.
func (s *Scheduler) HandleAction(tag string, action notify.Action) {
	kind, id, ok := notify.ParseTag(tag)
	if !ok {
		return
	}
	if action != notify.ActionSnooze {
		return
	}

	switch kind {
	case "timer":
		s.armTimer(id+"-snooze", "Snoozed timer", s.Snooze)
	case "alarm":
		s.armAlarm(id+"-snooze", "Snoozed alarm", time.Now().Add(s.Snooze), clock.RepeatNone)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Scheduler) post(n notify.Notification) {
	if err := s.notifier.Notify(n); err != nil {
		log.Printf("WARNING: failed to post notification [%s]: %v", n.Tag, err)
	}
}

func (s *Scheduler) record(kind, id, name string) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordFiring(kind, id, name, time.Now()); err != nil {
		log.Printf("WARNING: failed to record %s firing: %v", kind, err)
	}
}

// ArmedCounts reports how many entries of each kind are armed. Used by the
// status command and tests.
func (s *Scheduler) ArmedCounts() (timers, alarms, stopwatches int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers), len(s.alarms), len(s.stopwatches)
}
