// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// =============================================================================
// FIRING HISTORY STORE
// =============================================================================

// historySchemaVersion is the latest schema version of the history database.
const historySchemaVersion = 1

// Firing is one recorded completion: a timer expiring, an alarm triggering,
// or a stopwatch lap announcement.
type Firing struct {
	ID       int64
	Kind     string // "timer", "alarm", "split"
	EntityID string
	Name     string
	At       time.Time
}

// HistoryStore keeps an append-only log of clock firings in SQLite. The
// `zobo history` command reads it; the background scheduler writes it.
type HistoryStore struct {
	db *sql.DB
}

// OpenHistory opens (and migrates) the history database at the given path.
func OpenHistory(path string) (*HistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("open history: create dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	if err := migrateHistory(db); err != nil {
		db.Close()
		return nil, err
	}

	return &HistoryStore{db: db}, nil
}

// Close releases the database handle.
func (h *HistoryStore) Close() error {
	if h == nil || h.db == nil {
		return nil
	}
	return h.db.Close()
}

// migrateHistory ensures the schema exists and is current.
func migrateHistory(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY);`)
	if err != nil {
		return fmt.Errorf("migrate history: create schema_migrations: %w", err)
	}

	var current int
	err = db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations;`).Scan(&current)
	if err != nil {
		return fmt.Errorf("migrate history: read current version: %w", err)
	}

	if current >= historySchemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migrate history: begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS firings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			at TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate history: create firings table: %w", err)
	}

	_, err = tx.Exec(`CREATE INDEX IF NOT EXISTS idx_firings_at ON firings(at);`)
	if err != nil {
		return fmt.Errorf("migrate history: create idx_firings_at: %w", err)
	}

	_, err = tx.Exec(`INSERT INTO schema_migrations(version) VALUES (?);`, historySchemaVersion)
	if err != nil {
		return fmt.Errorf("migrate history: record schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate history: commit transaction: %w", err)
	}
	return nil
}

// =============================================================================
// WRITE OPERATIONS
// =============================================================================

// RecordFiring appends one firing row.
func (h *HistoryStore) RecordFiring(kind, entityID, name string, at time.Time) error {
	if h == nil || h.db == nil {
		return fmt.Errorf("record firing: store is nil")
	}
	if kind == "" {
		return fmt.Errorf("record firing: kind is empty")
	}
	if entityID == "" {
		return fmt.Errorf("record firing: entity ID is empty")
	}

	_, err := h.db.Exec(
		`INSERT INTO firings (kind, entity_id, name, at) VALUES (?, ?, ?, ?)`,
		kind, entityID, name, at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record firing: insert: %w", err)
	}
	return nil
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// Recent returns the newest n firings, most recent first.
func (h *HistoryStore) Recent(n int) ([]Firing, error) {
	if h == nil || h.db == nil {
		return nil, fmt.Errorf("recent firings: store is nil")
	}
	if n <= 0 {
		return nil, fmt.Errorf("recent firings: limit must be > 0")
	}

	rows, err := h.db.Query(
		`SELECT id, kind, entity_id, name, at FROM firings ORDER BY at DESC, id DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("recent firings: query: %w", err)
	}
	defer rows.Close()

	firings := make([]Firing, 0, n)
	for rows.Next() {
		var f Firing
		var atStr string
		if err := rows.Scan(&f.ID, &f.Kind, &f.EntityID, &f.Name, &atStr); err != nil {
			return nil, fmt.Errorf("recent firings: scan: %w", err)
		}
		f.At, err = time.Parse(time.RFC3339Nano, atStr)
		if err != nil {
			return nil, fmt.Errorf("recent firings: parse at: %w", err)
		}
		firings = append(firings, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent firings: rows: %w", err)
	}
	return firings, nil
}

// CountByKind returns the number of recorded firings for each kind.
func (h *HistoryStore) CountByKind() (map[string]int, error) {
	if h == nil || h.db == nil {
		return nil, fmt.Errorf("count firings: store is nil")
	}

	rows, err := h.db.Query(`SELECT kind, COUNT(*) FROM firings GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("count firings: query: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("count firings: scan: %w", err)
		}
		counts[kind] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count firings: rows: %w", err)
	}
	return counts, nil
}
