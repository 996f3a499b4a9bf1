// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessageIDs(t *testing.T) {
	a := NewUserMessage("hello")
	b := NewUserMessage("hello")

	if a.ID == "" || b.ID == "" {
		t.Fatal("message ID not generated")
	}
	if a.ID == b.ID {
		t.Error("message IDs collide")
	}
	if !strings.HasPrefix(a.ID, "msg_") {
		t.Errorf("ID = %q, want msg_ prefix", a.ID)
	}
}

func TestVoiceMessage(t *testing.T) {
	m := NewVoiceMessage("set a timer")
	if !m.Voice {
		t.Error("Voice flag not set")
	}
	if m.Role != RoleUser {
		t.Errorf("role = %s, want user", m.Role)
	}
}

func TestMessagePreview(t *testing.T) {
	m := NewUserMessage("héllo wörld, this is a long message")
	got := m.Preview(10)
	if len([]rune(got)) > 10 {
		t.Errorf("preview too long: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("preview not truncated: %q", got)
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversationAddAndTitle(t *testing.T) {
	c := NewConversation()
	if !c.IsEmpty() {
		t.Error("new conversation not empty")
	}

	c.AddUserMessage("what's the weather like?")
	c.AddAssistantMessage("I can't see outside, but I can set a timer!")

	if len(c.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(c.Messages))
	}
	if c.Title != "what's the weather like?" {
		t.Errorf("title = %q", c.Title)
	}
	if c.LastMessage().Role != RoleAssistant {
		t.Error("last message should be assistant")
	}
	if c.LastAssistantMessage() == nil {
		t.Error("LastAssistantMessage returned nil")
	}
}

func TestConversationTitleTruncation(t *testing.T) {
	c := NewConversation()
	c.AddUserMessage(strings.Repeat("a", 100) + "\nmore")

	if len([]rune(c.Title)) > 50 {
		t.Errorf("title too long: %d runes", len([]rune(c.Title)))
	}
	if strings.Contains(c.Title, "\n") {
		t.Error("title contains newline")
	}
}

func TestConversationPrune(t *testing.T) {
	c := NewConversation()
	for i := 0; i < MaxMessages+10; i++ {
		c.Messages = append(c.Messages, NewUserMessage("x"))
	}
	c.AddUserMessage("last")

	if len(c.Messages) != MaxMessages {
		t.Errorf("len(Messages) = %d, want %d", len(c.Messages), MaxMessages)
	}
	if c.LastMessage().Content != "last" {
		t.Error("newest message pruned instead of oldest")
	}
}

func TestConversationClone(t *testing.T) {
	c := NewConversation()
	c.AddUserMessage("original")

	clone := c.Clone()
	clone.Messages[0].Content = "mutated"

	if c.Messages[0].Content != "original" {
		t.Error("Clone shares message memory with original")
	}
}

func TestConversationMeta(t *testing.T) {
	c := NewConversation()
	c.AddUserMessage("hi")
	c.AddAssistantMessage("hello!")

	meta := c.Meta()
	if meta.ID != c.ID || meta.MessageCount != 2 {
		t.Errorf("meta = %+v", meta)
	}
}

func TestExportMarkdown(t *testing.T) {
	c := NewConversation()
	c.AddVoiceMessage("set a timer for 5 minutes")
	c.AddAssistantMessage("Timer set!")

	md := c.ExportMarkdown()
	if !strings.Contains(md, "**You** (voice)") {
		t.Error("voice marker missing from export")
	}
	if !strings.Contains(md, "**Zobo**") {
		t.Error("assistant label missing from export")
	}
}

// =============================================================================
// DRAFT TESTS
// =============================================================================

func TestDraftStale(t *testing.T) {
	now := time.Now()
	fresh := &Draft{Text: "unsent", SavedAt: now.Add(-1 * time.Hour)}
	old := &Draft{Text: "unsent", SavedAt: now.Add(-25 * time.Hour)}

	if fresh.Stale(now) {
		t.Error("fresh draft reported stale")
	}
	if !old.Stale(now) {
		t.Error("day-old draft not reported stale")
	}
}

func TestDraftEmpty(t *testing.T) {
	var nilDraft *Draft
	if !nilDraft.Empty() {
		t.Error("nil draft should be empty")
	}
	if !(&Draft{}).Empty() {
		t.Error("zero draft should be empty")
	}
	if (&Draft{Text: "x"}).Empty() {
		t.Error("non-empty draft reported empty")
	}
}
