// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared utilities for zobo-tui.
//
// # Key Functions
//
//   - AtomicWriteFile: crash-safe file writes (temp file + fsync + rename)
//   - TruncateRunes: rune-aware string truncation with ellipsis
//   - PadRight: width-aware padding for tabular output
//   - FormatClock: HH:MM:SS / M:SS formatting for countdown displays
package util
