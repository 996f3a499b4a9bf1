// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import "strings"

// =============================================================================
// WAKEWORD DETECTION
// =============================================================================

// Detector recognizes when a transcript addresses the assistant.
type Detector struct {
	wakewords []string
}

// NewDetector creates a detector for the given wakewords.
// Wakewords are matched case-insensitively anywhere in the transcript.
func NewDetector(wakewords []string) *Detector {
	lowered := make([]string, 0, len(wakewords))
	for _, w := range wakewords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			lowered = append(lowered, w)
		}
	}
	return &Detector{wakewords: lowered}
}

// Detect reports whether the transcript contains a wakeword.
func (d *Detector) Detect(transcript string) bool {
	lower := strings.ToLower(transcript)
	for _, w := range d.wakewords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// Strip removes the first wakeword occurrence and surrounding filler so the
// remainder can be parsed as a command ("hey zobo, set a timer" becomes
// "set a timer").
func (d *Detector) Strip(transcript string) string {
	lower := strings.ToLower(transcript)
	for _, w := range d.wakewords {
		idx := strings.Index(lower, w)
		if idx < 0 {
			continue
		}
		rest := transcript[:idx] + transcript[idx+len(w):]
		return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(rest), ",.!?"))
	}
	return transcript
}
