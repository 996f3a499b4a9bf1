// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-interactive command surface of zobo.
//
// Running the binary with no arguments launches the TUI; everything else
// lands here:
//
//	zobo talk                         transcript REPL (no alternate screen)
//	zobo status                       clock snapshot and firing history
//	zobo config [get|set|path]        inspect and edit configuration
//	zobo sessions [list|show|export|clear]
//	zobo history                      recent timer/alarm firings
//	zobo version
//	zobo help
//
// Output respects NO_COLOR and degrades to plain text when stdout is not
// a terminal.
package cli
