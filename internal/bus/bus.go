// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bus

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// Type identifies the kind of a bus message.
type Type string

// Foreground -> background commands.
const (
	TypeStartTimer     Type = "START_TIMER"
	TypeStopTimer      Type = "STOP_TIMER"
	TypeStartAlarm     Type = "START_ALARM"
	TypeStopAlarm      Type = "STOP_ALARM"
	TypeStartStopwatch Type = "START_STOPWATCH"
	TypeStopStopwatch  Type = "STOP_STOPWATCH"
)

// Background -> foreground updates.
const (
	TypeTimerUpdate     Type = "TIMER_UPDATE"
	TypeStopwatchUpdate Type = "STOPWATCH_UPDATE"
	TypePlayAlarmSound  Type = "PLAY_ALARM_SOUND"

	// TypeSchedulerReady is broadcast once when the background scheduler
	// starts. The foreground replies by replaying START_* commands for every
	// entity in its snapshot, re-arming schedules lost on restart.
	TypeSchedulerReady Type = "SCHEDULER_READY"
)

// Message is the unit of exchange between the two contexts. Payload is a raw
// JSON document whose shape depends on Type.
type Message struct {
	Type    Type            `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// =============================================================================
// PAYLOADS
// =============================================================================

// StartTimer arms a countdown in the background scheduler.
type StartTimer struct {
	ID       string `json:"id"`
	Duration int    `json:"duration"` // seconds
	Name     string `json:"name,omitempty"`
}

// StopTimer disarms a countdown. Unknown IDs are ignored.
type StopTimer struct {
	ID string `json:"id"`
}

// StartAlarm arms an absolute-time trigger. Time is RFC 3339.
type StartAlarm struct {
	ID     string `json:"id"`
	Time   string `json:"time"`
	Name   string `json:"name,omitempty"`
	Repeat string `json:"repeat,omitempty"`
}

// StopAlarm disarms an alarm. Unknown IDs are ignored.
type StopAlarm struct {
	ID string `json:"id"`
}

// StartStopwatch starts background elapsed-time broadcasting.
type StartStopwatch struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// StopStopwatch stops background elapsed-time broadcasting.
type StopStopwatch struct {
	ID string `json:"id"`
}

// TimerUpdate carries a cosmetic countdown reading. Remaining is whole
// seconds; the foreground treats it as a display hint, never as state.
type TimerUpdate struct {
	ID        string `json:"id"`
	Remaining int    `json:"remaining"`
}

// StopwatchUpdate carries a cosmetic elapsed reading in milliseconds.
type StopwatchUpdate struct {
	ID      string `json:"id"`
	Elapsed int64  `json:"elapsed"`
}

// PlayAlarmSound asks any live foreground to play the alert chime. It has no
// payload; the notification itself carries the entity details.
type PlayAlarmSound struct{}

// =============================================================================
// MESSAGE CONSTRUCTION
// =============================================================================

// NewMessage builds a message with a JSON-encoded payload.
func NewMessage(t Type, payload any) (Message, error) {
	if payload == nil {
		return Message{Type: t}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to encode %s payload: %w", t, err)
	}
	return Message{Type: t, Payload: data}, nil
}

// MustMessage is NewMessage for payload types that cannot fail to encode.
func MustMessage(t Type, payload any) Message {
	msg, err := NewMessage(t, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

// Decode unmarshals the payload into dst.
func (m Message) Decode(dst any) error {
	if len(m.Payload) == 0 {
		return fmt.Errorf("message %s has no payload", m.Type)
	}
	if err := json.Unmarshal(m.Payload, dst); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", m.Type, err)
	}
	return nil
}

// =============================================================================
// BROKER
// =============================================================================

const (
	backgroundBuffer = 64
	subscriberBuffer = 16
)

// Broker routes messages between the foreground and the background. One
// channel feeds the background scheduler; any number of subscriber channels
// receive broadcasts (each TUI view or REPL acts like an independent page).
type Broker struct {
	background chan Message

	mu   sync.RWMutex
	subs map[chan Message]struct{}
}

// NewBroker creates a broker with buffered channels.
func NewBroker() *Broker {
	return &Broker{
		background: make(chan Message, backgroundBuffer),
		subs:       make(map[chan Message]struct{}),
	}
}

// Send delivers a command to the background scheduler. The send never
// blocks: if the scheduler is not keeping up the message is dropped.
func (b *Broker) Send(msg Message) {
	select {
	case b.background <- msg:
	default:
		log.Printf("WARNING: background channel full, dropped %s", msg.Type)
	}
}

// Background returns the channel the scheduler consumes.
func (b *Broker) Background() <-chan Message {
	return b.background
}

// Subscribe registers a new foreground listener and returns its channel.
func (b *Broker) Subscribe() chan Message {
	ch := make(chan Message, subscriberBuffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	return ch
}

// Unsubscribe removes a listener. The channel is not closed; a listener that
// races with Broadcast may still drain buffered messages.
func (b *Broker) Unsubscribe(ch chan Message) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// Broadcast delivers an update to every subscriber. Slow subscribers lose
// messages rather than stalling the scheduler.
func (b *Broker) Broadcast(msg Message) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs {
		select {
		case ch <- msg:
		default:
			log.Printf("WARNING: subscriber channel full, dropped %s", msg.Type)
		}
	}
}

// SubscriberCount returns the number of registered listeners.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
