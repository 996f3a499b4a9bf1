// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides on-disk persistence for zobo-tui.
//
// # Stores
//
//   - ConversationStore: one JSON file per conversation under
//     ~/.zobo/conversations/
//   - DraftStore: the unsent input draft at ~/.zobo/draft.json, discarded
//     after 24 hours
//   - SnapshotStore: the clock subsystem snapshot at ~/.zobo/clock.json,
//     written only by the foreground controller
//   - HistoryStore: a SQLite append-only log of timer/alarm firings at
//     ~/.zobo/history.db
//
// All JSON writes go through util.AtomicWriteFile so a crash mid-write never
// leaves a torn file. Loads tolerate missing or corrupt files by starting
// clean; persistence failure must never take down the app.
package storage
