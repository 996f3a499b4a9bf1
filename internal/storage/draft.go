// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/zobo-ai/zobo-tui/internal/model"
	"github.com/zobo-ai/zobo-tui/internal/util"
)

// =============================================================================
// DRAFT STORE
// =============================================================================

// DraftStore persists the unsent input draft as a single JSON file.
type DraftStore struct {
	// Path is the draft file location. Default: ~/.zobo/draft.json
	Path string
}

// NewDraftStore creates a store under the user's home directory.
func NewDraftStore() (*DraftStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &DraftStore{Path: filepath.Join(homeDir, ".zobo", "draft.json")}, nil
}

// NewDraftStoreWithPath creates a store with a custom file path.
func NewDraftStoreWithPath(path string) *DraftStore {
	return &DraftStore{Path: path}
}

// Save persists the draft, stamping SavedAt. An empty draft clears the file
// instead, so sent input never resurfaces.
func (s *DraftStore) Save(d *model.Draft) error {
	if d.Empty() {
		return s.Clear()
	}

	d.SavedAt = time.Now()
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(s.Path, data, 0644)
}

// Load returns the saved draft, or nil when there is nothing to restore.
// Stale drafts are discarded and their file removed.
func (s *DraftStore) Load() (*model.Draft, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var d model.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		// Corrupt draft: drop it.
		s.Clear()
		return nil, nil
	}

	if d.Empty() || d.Stale(time.Now()) {
		s.Clear()
		return nil, nil
	}
	return &d, nil
}

// Clear removes the draft file.
func (s *DraftStore) Clear() error {
	err := os.Remove(s.Path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
