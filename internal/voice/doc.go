// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package voice turns spoken-word transcripts into actions.
//
// Speech-to-text itself happens outside this package; what arrives here is
// plain text. The same path serves typed input in the talk REPL, so every
// command works identically spoken or typed.
//
// # Pipeline
//
// A transcript flows through three stages:
//
//  1. Wakeword detection (Detector): is this addressed to the assistant?
//  2. Command matching (Dispatcher): ordered substring phrases mapped to
//     timer, alarm, stopwatch, and settings handlers.
//  3. Fallthrough: anything unmatched is not a command and should be sent
//     to the assistant backend as a chat message.
//
// # Grammar
//
// Durations parse from natural phrases ("for 10 minutes", "1 hour and 30
// minutes", "5 minutes and 30 seconds") and clock notation ("1:30:00",
// "5:30"). Alarm times parse from clock times ("at 7:30 am", "at 7 pm")
// and relative offsets ("in 20 minutes", "in 2 hours"), with repeat words
// (daily, weekdays, weekly) recognized anywhere in the transcript.
package voice
