// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared utilities for zobo-tui.
package util

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// UNICODE: Rune-aware truncation preserves multi-byte characters.

// TruncateRunes truncates a string to a maximum number of runes (characters).
// If the string is truncated, "..." is appended.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// PadRight pads a string with spaces to the given display width.
// Accounts for double-width characters (CJK) that take 2 columns.
func PadRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// FormatClock formats a number of whole seconds as a countdown display:
// "H:MM:SS" when hours are present, otherwise "M:SS".
func FormatClock(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60

	if hours > 0 {
		return strconv.Itoa(hours) + ":" + pad2(minutes) + ":" + pad2(secs)
	}
	return strconv.Itoa(minutes) + ":" + pad2(secs)
}

// FormatElapsed formats elapsed milliseconds as "HH:MM:SS.cc" with
// centisecond precision, matching a stopwatch readout.
func FormatElapsed(totalMillis int64) string {
	if totalMillis < 0 {
		totalMillis = 0
	}
	seconds := totalMillis / 1000
	minutes := seconds / 60
	hours := minutes / 60

	cs := (totalMillis % 1000) / 10
	s := seconds % 60
	m := minutes % 60

	return pad2(int(hours)) + ":" + pad2(int(m)) + ":" + pad2(int(s)) + "." + pad2(int(cs))
}

// IntToStr converts an int to its decimal string form.
func IntToStr(n int) string {
	return strconv.Itoa(n)
}

// pad2 zero-pads an integer to two digits.
func pad2(n int) string {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
