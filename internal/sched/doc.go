// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sched implements the background scheduler for timers, alarms, and
// stopwatches.
//
// The scheduler runs in its own goroutine, owns a memory-only registry of
// armed entries, and is the sole authority for posting completion
// notifications. It never reads or writes the persisted snapshot; after a
// restart it announces itself with SCHEDULER_READY and the foreground
// controller replays START commands for everything that should be armed.
//
// Armed timers tick once a second and stopwatches ten times a second, each
// broadcasting cosmetic progress updates to any listening foreground. Firing
// is guarded by a registry membership re-check under the lock, so a tick
// racing a stop command can never notify for a canceled entity.
package sched
