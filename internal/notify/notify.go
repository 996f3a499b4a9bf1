// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify defines the notification surface used by the background
// scheduler.
//
// The scheduler is the only component that posts completion notifications;
// the foreground controller posts only start confirmations. Notifications
// carry a tag that identifies the owning entity, so user actions (snooze,
// dismiss) can be routed back to the scheduler without any shared state.
package notify

import (
	"log"
	"strings"
)

// =============================================================================
// ACTIONS AND TAGS
// =============================================================================

// Action is a user response to a posted notification.
type Action string

const (
	ActionDismiss Action = "dismiss"
	ActionSnooze  Action = "snooze"

	// ActionClick is a plain activation with no button, treated as dismiss.
	ActionClick Action = "click"
)

// Tag prefixes identify which entity kind a notification belongs to.
const (
	timerTagPrefix = "timer-"
	alarmTagPrefix = "alarm-"
	splitTagPrefix = "split-"
)

// TimerTag builds the notification tag for a timer entity.
func TimerTag(id string) string { return timerTagPrefix + id }

// AlarmTag builds the notification tag for an alarm entity.
func AlarmTag(id string) string { return alarmTagPrefix + id }

// SplitTag builds the notification tag for a stopwatch lap announcement.
func SplitTag(id string) string { return splitTagPrefix + id }

// ParseTag splits a tag into its entity kind ("timer", "alarm", "split") and
// ID. ok is false for unrecognized tags.
func ParseTag(tag string) (kind, id string, ok bool) {
	switch {
	case strings.HasPrefix(tag, timerTagPrefix):
		return "timer", strings.TrimPrefix(tag, timerTagPrefix), true
	case strings.HasPrefix(tag, alarmTagPrefix):
		return "alarm", strings.TrimPrefix(tag, alarmTagPrefix), true
	case strings.HasPrefix(tag, splitTagPrefix):
		return "split", strings.TrimPrefix(tag, splitTagPrefix), true
	}
	return "", "", false
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

// Notification is a single alert posted by the scheduler.
type Notification struct {
	Title string
	Body  string

	// Tag identifies the owning entity. Posting a second notification with
	// the same tag replaces the first.
	Tag string

	// Actions lists the buttons offered to the user.
	Actions []Action

	// RequireInteraction keeps the alert visible until acted on.
	RequireInteraction bool

	// Silent suppresses the notifier's own sound; the foreground plays the
	// alarm chime instead when it is alive.
	Silent bool
}

// Notifier posts notifications to the user.
type Notifier interface {
	Notify(n Notification) error
}

// =============================================================================
// IMPLEMENTATIONS
// =============================================================================

// LogNotifier writes notifications to the process log. It is the fallback
// when no interactive surface is attached (e.g. `zobo status` scripting).
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(n Notification) error {
	log.Printf("NOTIFY [%s] %s: %s", n.Tag, n.Title, n.Body)
	return nil
}

// ChannelNotifier forwards notifications to a channel for an interactive
// consumer (the TUI renders them as toasts). Posting never blocks; when the
// consumer is behind the oldest pending notification is dropped.
type ChannelNotifier struct {
	ch chan Notification
}

// NewChannelNotifier creates a notifier with the given buffer size.
func NewChannelNotifier(buffer int) *ChannelNotifier {
	if buffer <= 0 {
		buffer = 8
	}
	return &ChannelNotifier{ch: make(chan Notification, buffer)}
}

// Notify implements Notifier.
func (c *ChannelNotifier) Notify(n Notification) error {
	for {
		select {
		case c.ch <- n:
			return nil
		default:
			// Drop the oldest so the newest alert always lands.
			select {
			case <-c.ch:
			default:
			}
		}
	}
}

// C returns the channel the consumer reads from.
func (c *ChannelNotifier) C() <-chan Notification {
	return c.ch
}
