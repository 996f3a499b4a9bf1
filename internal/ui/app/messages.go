// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zobo-ai/zobo-tui/internal/assistant"
	"github.com/zobo-ai/zobo-tui/internal/bus"
	"github.com/zobo-ai/zobo-tui/internal/notify"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// BusMsg wraps a message received from the background scheduler.
type BusMsg struct {
	Message bus.Message
}

// NotificationMsg carries a notification posted by the background scheduler.
type NotificationMsg struct {
	Notification notify.Notification
}

// AssistantReplyMsg is the outcome of one backend request.
type AssistantReplyMsg struct {
	Reply   string
	Offline bool
}

// ToastExpiredMsg auto-dismisses a non-interactive toast.
type ToastExpiredMsg struct {
	// Seq guards against an old expiry dismissing a newer toast.
	Seq int
}

// ClockTickMsg drives the once-a-second clock panel refresh.
type ClockTickMsg struct {
	Time time.Time
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// listenBus waits for one scheduler message. The handler re-issues it after
// each receipt, so the subscription is consumed for the life of the program.
func listenBus(sub chan bus.Message) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-sub
		if !ok {
			return nil
		}
		return BusMsg{Message: msg}
	}
}

// listenNotifications waits for one notification from the background.
func listenNotifications(ch <-chan notify.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return NotificationMsg{Notification: n}
	}
}

// sendToAssistant posts a chat message to the backend.
func sendToAssistant(client *assistant.Client, text string, voice bool) tea.Cmd {
	return func() tea.Msg {
		reply, err := client.Send(context.Background(), text, voice)
		if err != nil {
			return AssistantReplyMsg{Reply: assistant.FallbackReply, Offline: true}
		}
		return AssistantReplyMsg{Reply: reply}
	}
}

// ringBell sends the terminal bell, standing in for the alarm chime.
func ringBell() tea.Msg {
	return tea.Printf("\a")()
}

// clockTickCmd schedules the next clock panel refresh.
func clockTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return ClockTickMsg{Time: t}
	})
}

// toastExpiryCmd schedules auto-dismissal of the current toast.
func toastExpiryCmd(seq int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return ToastExpiredMsg{Seq: seq}
	})
}
