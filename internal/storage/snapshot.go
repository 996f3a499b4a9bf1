// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zobo-ai/zobo-tui/internal/clock"
	"github.com/zobo-ai/zobo-tui/internal/util"
)

// =============================================================================
// SNAPSHOT STORE
// =============================================================================

// SnapshotStore persists the clock snapshot as a single JSON file.
type SnapshotStore struct {
	// Path is the snapshot file location. Default: ~/.zobo/clock.json
	Path string
}

// NewSnapshotStore creates a store under the user's home directory.
func NewSnapshotStore() (*SnapshotStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &SnapshotStore{Path: filepath.Join(homeDir, ".zobo", "clock.json")}, nil
}

// NewSnapshotStoreWithPath creates a store with a custom file path.
func NewSnapshotStoreWithPath(path string) *SnapshotStore {
	return &SnapshotStore{Path: path}
}

// Save writes the snapshot atomically.
func (s *SnapshotStore) Save(snap *clock.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	if err := util.AtomicWriteFile(s.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot. A missing or corrupt file yields an empty
// snapshot and no error: the clock subsystem must start clean rather than
// refuse to start.
func (s *SnapshotStore) Load() (*clock.Snapshot, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return &clock.Snapshot{}, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap clock.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// Corrupt snapshot: start clean.
		return &clock.Snapshot{}, nil
	}
	return &snap, nil
}
