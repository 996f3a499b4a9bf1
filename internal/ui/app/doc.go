// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app provides the main Bubble Tea model for the zobo TUI.
//
// The layout is a chat panel (viewport of message bubbles over a text
// input) with a clock panel alongside it on wide terminals, showing armed
// timers, alarms, and a running stopwatch. A status bar pins the bottom.
//
// # Message flow
//
// Typed input goes through the voice command dispatcher first; matched
// commands act on the clock controller and reply inline, everything else
// is posted to the assistant backend. Countdown and elapsed updates from
// the background scheduler arrive over the bus subscription and are fed
// to the controller as display hints; notifications arrive over the
// channel notifier and render as toasts. Toasts from alarms stay until
// dismissed or snoozed, timer toasts expire on their own.
//
// # Persistence
//
// The draft autosaves a second after typing stops and is restored at
// startup (if less than a day old). The conversation autosaves every five
// seconds while dirty and is flushed on quit.
package app
