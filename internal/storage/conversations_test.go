// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"testing"

	"github.com/zobo-ai/zobo-tui/internal/model"
)

func newTestStore(t *testing.T) *ConversationStore {
	t.Helper()
	store, err := NewConversationStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewConversationStoreWithDir failed: %v", err)
	}
	return store
}

// =============================================================================
// SAVE / LOAD TESTS
// =============================================================================

func TestSaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	conv := model.NewConversation()
	conv.AddUserMessage("set a timer for ten minutes")
	conv.AddAssistantMessage("Timer set for 10 minutes!")

	id, err := store.Save(conv)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if id == "" {
		t.Fatal("Save returned empty ID")
	}

	loaded, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Messages) != 2 {
		t.Errorf("len(Messages) = %d, want 2", len(loaded.Messages))
	}
	if loaded.Title != "set a timer for ten minutes" {
		t.Errorf("title = %q", loaded.Title)
	}
}

func TestLoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load("conv_nope")
	if !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("err = %v, want ErrConversationNotFound", err)
	}
}

func TestLoadLatest(t *testing.T) {
	store := newTestStore(t)

	older := model.NewConversation()
	older.AddUserMessage("first")
	if _, err := store.Save(older); err != nil {
		t.Fatal(err)
	}

	newer := model.NewConversation()
	newer.AddUserMessage("second")
	if _, err := store.Save(newer); err != nil {
		t.Fatal(err)
	}

	latest, err := store.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest failed: %v", err)
	}
	if latest == nil {
		t.Fatal("LoadLatest returned nil")
	}
}

func TestLoadLatestEmpty(t *testing.T) {
	store := newTestStore(t)

	latest, err := store.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest failed: %v", err)
	}
	if latest != nil {
		t.Error("LoadLatest on empty store should return nil")
	}
}

// =============================================================================
// LIST / SEARCH TESTS
// =============================================================================

func TestListAndSearch(t *testing.T) {
	store := newTestStore(t)

	a := model.NewConversation()
	a.AddUserMessage("remind me about the dentist")
	if _, err := store.Save(a); err != nil {
		t.Fatal(err)
	}

	b := model.NewConversation()
	b.AddUserMessage("what's a good pasta recipe")
	if _, err := store.Save(b); err != nil {
		t.Fatal(err)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("len(List) = %d, want 2", len(metas))
	}

	results, err := store.SearchMessages("dentist")
	if err != nil {
		t.Fatalf("SearchMessages failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != a.ID {
		t.Errorf("search results = %+v", results)
	}

	// Case-insensitive.
	results, err = store.SearchMessages("PASTA")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != b.ID {
		t.Errorf("case-insensitive search results = %+v", results)
	}
}

func TestDeleteAndClear(t *testing.T) {
	store := newTestStore(t)

	conv := model.NewConversation()
	conv.AddUserMessage("temp")
	id, err := store.Save(conv)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Delete(id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !errors.Is(store.Delete(id), ErrConversationNotFound) {
		t.Error("second Delete should report not found")
	}

	if _, err := store.Save(model.NewConversation()); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	metas, _ := store.List()
	if len(metas) != 0 {
		t.Errorf("len(List) after Clear = %d, want 0", len(metas))
	}
}

func TestEnforceLimit(t *testing.T) {
	store := newTestStore(t)
	store.MaxConversations = 3

	for i := 0; i < 5; i++ {
		conv := model.NewConversation()
		conv.AddUserMessage("msg")
		if _, err := store.Save(conv); err != nil {
			t.Fatal(err)
		}
	}

	metas, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) > 3 {
		t.Errorf("len(List) = %d, want <= 3", len(metas))
	}
}
