// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"testing"
	"time"
)

func newFastManager() *Manager {
	return NewManager(Config{
		DraftDelay:           20 * time.Millisecond,
		ConversationInterval: 30 * time.Millisecond,
	})
}

// =============================================================================
// DRAFT DEBOUNCE
// =============================================================================

func TestDraftSavesAfterDebounce(t *testing.T) {
	m := newFastManager()

	var saved []string
	m.SetDraftSaveCallback(func(text string) error {
		saved = append(saved, text)
		return nil
	})

	m.RecordDraft("hello")
	if m.ShouldSaveDraft() {
		t.Error("draft due before debounce elapsed")
	}
	if m.Check() {
		t.Error("Check saved before debounce elapsed")
	}

	time.Sleep(30 * time.Millisecond)
	if !m.ShouldSaveDraft() {
		t.Fatal("draft not due after debounce")
	}
	if !m.Check() {
		t.Fatal("Check did not save due draft")
	}
	if len(saved) != 1 || saved[0] != "hello" {
		t.Errorf("saved = %v, want [hello]", saved)
	}

	// Clean after save; nothing further to do.
	if m.Check() {
		t.Error("Check saved again with nothing dirty")
	}
}

func TestEditRestartsDebounce(t *testing.T) {
	m := newFastManager()

	m.RecordDraft("hel")
	time.Sleep(15 * time.Millisecond)
	m.RecordDraft("hello")

	if m.ShouldSaveDraft() {
		t.Error("debounce not restarted by new edit")
	}
}

func TestDraftErrorKeepsDirty(t *testing.T) {
	m := newFastManager()
	m.SetDraftSaveCallback(func(string) error {
		return errors.New("disk full")
	})

	m.RecordDraft("hello")
	time.Sleep(30 * time.Millisecond)

	m.Check()
	if !m.IsDirty() {
		t.Error("failed save cleared dirty flag")
	}
}

func TestClearDraft(t *testing.T) {
	m := newFastManager()
	m.RecordDraft("hello")
	m.ClearDraft()

	if m.IsDirty() {
		t.Error("dirty after ClearDraft")
	}
	if m.DraftText() != "" {
		t.Error("text survived ClearDraft")
	}
}

// =============================================================================
// CONVERSATION INTERVAL
// =============================================================================

func TestConversationSavesOnInterval(t *testing.T) {
	m := newFastManager()

	saves := 0
	m.SetConversationSaveCallback(func() error {
		saves++
		return nil
	})

	m.MarkConversationDirty()
	if m.Check() {
		t.Error("conversation saved before interval")
	}

	time.Sleep(40 * time.Millisecond)
	if !m.Check() {
		t.Fatal("conversation not saved after interval")
	}
	if saves != 1 {
		t.Errorf("saves = %d, want 1", saves)
	}
	if m.IsDirty() {
		t.Error("still dirty after save")
	}
}

func TestCleanConversationNeverSaves(t *testing.T) {
	m := newFastManager()

	m.SetConversationSaveCallback(func() error {
		t.Error("save callback fired with clean conversation")
		return nil
	})

	time.Sleep(40 * time.Millisecond)
	m.Check()
}

// =============================================================================
// FLUSH
// =============================================================================

func TestFlushSavesImmediately(t *testing.T) {
	m := NewManager(Config{
		DraftDelay:           time.Hour,
		ConversationInterval: time.Hour,
	})

	var draftSaved string
	convSaved := false
	m.SetDraftSaveCallback(func(text string) error {
		draftSaved = text
		return nil
	})
	m.SetConversationSaveCallback(func() error {
		convSaved = true
		return nil
	})

	m.RecordDraft("unsent")
	m.MarkConversationDirty()

	if err := m.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if draftSaved != "unsent" {
		t.Errorf("draft = %q, want unsent", draftSaved)
	}
	if !convSaved {
		t.Error("conversation not flushed")
	}
	if m.IsDirty() {
		t.Error("dirty after flush")
	}
}

// =============================================================================
// STATUS
// =============================================================================

func TestGetStatus(t *testing.T) {
	m := newFastManager()
	m.RecordDraft("x")

	st := m.GetStatus()
	if st.SessionID == "" {
		t.Error("empty session ID")
	}
	if !st.IsDirty {
		t.Error("status should report dirty")
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{2 * time.Minute, "2m"},
		{90 * time.Second, "1m 30s"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.d); got != c.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", c.d, got, c.want)
		}
	}
}
