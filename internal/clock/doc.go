// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package clock implements the timer, alarm, and stopwatch subsystem.
//
// The subsystem is split across two execution contexts that share no memory:
// the foreground Controller (owned by the TUI, single writer of the persisted
// snapshot) and the background scheduler in package sched (sole authority for
// firing notifications). This package holds the entity records, the pure
// scheduling rules both contexts must agree on, and the foreground Controller.
//
// # Key Types
//
//   - Timer: countdown entity; remaining time is always recomputed from the
//     start timestamp, never trusted from a stored integer
//   - Alarm: point-in-time entity with a repeat policy
//   - Stopwatch: elapsed-time accumulator with append-only lap marks
//   - Controller: foreground owner of all entities; persists every mutation
//     and sends fire-and-forget commands to the background scheduler
//
// # Shared Rules
//
// RollForwardDay and NextOccurrence are the single source of truth for
// trigger semantics. The background scheduler imports the same functions, so
// the two contexts cannot drift on when an alarm is due.
package clock
