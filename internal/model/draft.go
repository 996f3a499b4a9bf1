// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// DraftMaxAge is how long a saved draft stays restorable. Older drafts are
// discarded on load rather than resurfacing week-old half-typed input.
const DraftMaxAge = 24 * time.Hour

// Draft is unsent input text captured so a crash or restart loses nothing.
type Draft struct {
	// ConversationID ties the draft to the chat it was typed in.
	ConversationID string `json:"conversation_id,omitempty"`

	Text    string    `json:"text"`
	SavedAt time.Time `json:"saved_at"`
}

// Stale reports whether the draft is too old to restore.
func (d *Draft) Stale(now time.Time) bool {
	return now.Sub(d.SavedAt) > DraftMaxAge
}

// Empty reports whether there is anything worth restoring.
func (d *Draft) Empty() bool {
	return d == nil || d.Text == ""
}
