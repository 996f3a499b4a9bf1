// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides on-disk persistence for zobo-tui.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zobo-ai/zobo-tui/internal/model"
	"github.com/zobo-ai/zobo-tui/internal/util"
)

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// ConversationStore persists conversations as one JSON file per conversation.
type ConversationStore struct {
	// BaseDir is the directory for storing conversations.
	// Default: ~/.zobo/conversations/
	BaseDir string

	// MaxConversations limits stored conversations (0 = unlimited).
	MaxConversations int
}

// NewConversationStore creates a store under the user's home directory.
func NewConversationStore() (*ConversationStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewConversationStoreWithDir(filepath.Join(homeDir, ".zobo", "conversations"))
}

// NewConversationStoreWithDir creates a store with a custom directory.
func NewConversationStoreWithDir(baseDir string) (*ConversationStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &ConversationStore{
		BaseDir:          baseDir,
		MaxConversations: 100,
	}, nil
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save persists a conversation and returns its ID.
func (s *ConversationStore) Save(conv *model.Conversation) (string, error) {
	if conv.ID == "" {
		conv.ID = model.NewConversationID()
	}
	if conv.Title == "" {
		conv.Title = conv.AutoTitle()
	}

	conv.UpdatedAt = time.Now()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = conv.UpdatedAt
	}

	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return "", err
	}

	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	if err := util.AtomicWriteFile(s.filePath(conv.ID), data, 0644); err != nil {
		return "", err
	}

	if s.MaxConversations > 0 {
		s.enforceLimit()
	}

	return conv.ID, nil
}

// enforceLimit removes oldest conversations if over limit.
func (s *ConversationStore) enforceLimit() {
	metas, err := s.List()
	if err != nil || len(metas) <= s.MaxConversations {
		return
	}

	// Oldest first
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.Before(metas[j].UpdatedAt)
	})

	excess := len(metas) - s.MaxConversations
	for i := 0; i < excess; i++ {
		s.Delete(metas[i].ID)
	}
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// Load retrieves a conversation by ID.
func (s *ConversationStore) Load(id string) (*model.Conversation, error) {
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	var conv model.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, err
	}

	return &conv, nil
}

// LoadByIndex loads a conversation by its index in the list (0 = most recent).
func (s *ConversationStore) LoadByIndex(index int) (*model.Conversation, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(metas) {
		return nil, ErrConversationNotFound
	}

	return s.Load(metas[index].ID)
}

// LoadLatest loads the most recently updated conversation, or nil when the
// store is empty. Startup uses this to restore the previous chat.
func (s *ConversationStore) LoadLatest() (*model.Conversation, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(metas) == 0 {
		return nil, nil
	}
	return s.Load(metas[0].ID)
}

// =============================================================================
// LIST OPERATIONS
// =============================================================================

// List returns metadata for all saved conversations (most recent first).
func (s *ConversationStore) List() ([]model.ConversationMeta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.ConversationMeta{}, nil
		}
		return nil, err
	}

	var metas []model.ConversationMeta

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")

		conv, err := s.Load(id)
		if err != nil {
			continue // Skip corrupted files
		}

		metas = append(metas, conv.Meta())
	}

	// Most recent first
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})

	return metas, nil
}

// SearchMessages returns conversations where any message contains the query
// string (case-insensitive). An empty query lists everything.
func (s *ConversationStore) SearchMessages(query string) ([]model.ConversationMeta, error) {
	if query == "" {
		return s.List()
	}

	query = strings.ToLower(query)
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	var results []model.ConversationMeta

	for _, meta := range all {
		conv, err := s.Load(meta.ID)
		if err != nil {
			continue
		}

		for _, msg := range conv.Messages {
			if strings.Contains(strings.ToLower(msg.Content), query) {
				results = append(results, meta)
				break
			}
		}
	}

	return results, nil
}

// =============================================================================
// DELETE OPERATIONS
// =============================================================================

// Delete removes a conversation by ID.
func (s *ConversationStore) Delete(id string) error {
	if err := os.Remove(s.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrConversationNotFound
		}
		return err
	}
	return nil
}

// Clear removes all saved conversations.
func (s *ConversationStore) Clear() error {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			os.Remove(filepath.Join(s.BaseDir, entry.Name()))
		}
	}

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// filePath returns the file path for a conversation ID.
func (s *ConversationStore) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrConversationNotFound is returned when a conversation doesn't exist.
// Use errors.Is(err, ErrConversationNotFound) to check for this error.
var ErrConversationNotFound = &StoreError{Message: "conversation not found"}

// StoreError represents a storage-related error.
// It implements the error interface and can be compared using errors.Is.
type StoreError struct {
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing store errors.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// SESSION LIST FORMATTING
// =============================================================================

// FormatSessionList formats conversation metadata as a display table.
func FormatSessionList(sessions []model.ConversationMeta) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}

	var sb strings.Builder
	sb.WriteString("Sessions:\n")
	sb.WriteString("-----------------------------------------------------\n")
	sb.WriteString(util.PadRight("ID", 12) + " " + util.PadRight("Updated", 20) + " " + util.PadRight("Messages", 8) + " Title\n")
	sb.WriteString("-----------------------------------------------------\n")

	for _, s := range sessions {
		idStr := s.ID
		if len(idStr) > 12 {
			idStr = idStr[:12]
		}
		sb.WriteString(util.PadRight(idStr, 12) + " " +
			util.PadRight(s.UpdatedAt.Format("2006-01-02 15:04"), 20) + " " +
			util.PadRight(util.IntToStr(s.MessageCount), 8) + " " +
			util.TruncateRunes(s.Title, 30) + "\n")
	}
	return sb.String()
}
