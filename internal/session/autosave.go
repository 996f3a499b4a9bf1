// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides autosave scheduling for drafts and conversations.
package session

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zobo-ai/zobo-tui/internal/util"
)

// =============================================================================
// AUTOSAVE MANAGER
// =============================================================================

// Manager tracks unsaved state and decides when to persist it.
//
// Two cadences apply:
//   - Drafts save on a short debounce after the last keystroke, so a crash
//     mid-sentence loses at most a second of typing.
//   - Conversations save on a fixed interval while dirty, since they only
//     change when a message lands.
type Manager struct {
	mu sync.Mutex

	// Session tracking
	sessionID    string
	startTime    time.Time
	lastActivity time.Time

	// Draft state
	draftText    string
	draftDirty   bool
	lastEdit     time.Time
	draftDelay   time.Duration // Default: 1 second after last edit

	// Conversation state
	convDirty    bool
	lastConvSave time.Time
	convInterval time.Duration // Default: 5 seconds

	// Callbacks
	onSaveDraft        func(text string) error
	onSaveConversation func() error
}

// Config holds configuration for the autosave manager.
type Config struct {
	// DraftDelay is the debounce after the last edit before the draft
	// persists (default: 1 second).
	DraftDelay time.Duration

	// ConversationInterval is how often a dirty conversation persists
	// (default: 5 seconds).
	ConversationInterval time.Duration
}

// DefaultConfig returns the default autosave configuration.
func DefaultConfig() Config {
	return Config{
		DraftDelay:           time.Second,
		ConversationInterval: 5 * time.Second,
	}
}

// NewManager creates a new autosave manager.
func NewManager(cfg Config) *Manager {
	if cfg.DraftDelay <= 0 {
		cfg.DraftDelay = time.Second
	}
	if cfg.ConversationInterval <= 0 {
		cfg.ConversationInterval = 5 * time.Second
	}
	now := time.Now()
	return &Manager{
		sessionID:    generateSessionID(),
		startTime:    now,
		lastActivity: now,
		draftDelay:   cfg.DraftDelay,
		convInterval: cfg.ConversationInterval,
		lastConvSave: now,
	}
}

// =============================================================================
// SESSION STATE
// =============================================================================

// SessionID returns the current session ID.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// StartTime returns when the session started.
func (m *Manager) StartTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startTime
}

// Duration returns how long the session has been active.
func (m *Manager) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.startTime)
}

// IdleTime returns how long since last activity.
func (m *Manager) IdleTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.lastActivity)
}

// =============================================================================
// DIRTY TRACKING
// =============================================================================

// RecordDraft notes the current input text and restarts the save debounce.
// Called on every keystroke in the input field.
func (m *Manager) RecordDraft(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	m.lastActivity = now
	if text == m.draftText && m.draftDirty {
		return
	}
	m.draftText = text
	m.draftDirty = true
	m.lastEdit = now
}

// DraftText returns the last recorded draft text.
func (m *Manager) DraftText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draftText
}

// ClearDraft resets draft state after the draft is persisted or consumed
// (the message was sent).
func (m *Manager) ClearDraft() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draftText = ""
	m.draftDirty = false
}

// MarkConversationDirty indicates the conversation has unsaved messages.
func (m *Manager) MarkConversationDirty() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.convDirty = true
	m.lastActivity = time.Now()
}

// MarkConversationClean indicates the conversation has been saved.
func (m *Manager) MarkConversationClean() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.convDirty = false
	m.lastConvSave = time.Now()
}

// IsDirty returns whether anything is waiting to be saved.
func (m *Manager) IsDirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draftDirty || m.convDirty
}

// =============================================================================
// CALLBACKS
// =============================================================================

// SetDraftSaveCallback sets the function called to persist the draft.
func (m *Manager) SetDraftSaveCallback(fn func(text string) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSaveDraft = fn
}

// SetConversationSaveCallback sets the function called to persist the
// conversation.
func (m *Manager) SetConversationSaveCallback(fn func() error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSaveConversation = fn
}

// =============================================================================
// SAVE CHECKING
// =============================================================================

// ShouldSaveDraft returns true if the draft debounce has elapsed.
func (m *Manager) ShouldSaveDraft() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draftDirty && time.Since(m.lastEdit) >= m.draftDelay
}

// ShouldSaveConversation returns true if the conversation save is due.
func (m *Manager) ShouldSaveConversation() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.convDirty && time.Since(m.lastConvSave) >= m.convInterval
}

// Check evaluates autosave state and triggers due callbacks.
// Returns true if anything was saved.
func (m *Manager) Check() bool {
	m.mu.Lock()
	saveDraft := m.draftDirty && time.Since(m.lastEdit) >= m.draftDelay
	saveConv := m.convDirty && time.Since(m.lastConvSave) >= m.convInterval
	draftText := m.draftText
	onSaveDraft := m.onSaveDraft
	onSaveConversation := m.onSaveConversation
	m.mu.Unlock()

	saved := false

	// Execute callbacks outside lock.
	if saveDraft && onSaveDraft != nil {
		if err := onSaveDraft(draftText); err == nil {
			m.mu.Lock()
			// Only clear if the text has not changed since the snapshot.
			if m.draftText == draftText {
				m.draftDirty = false
			}
			m.mu.Unlock()
			saved = true
		}
	}

	if saveConv && onSaveConversation != nil {
		if err := onSaveConversation(); err == nil {
			m.MarkConversationClean()
			saved = true
		}
	}

	return saved
}

// Flush saves everything dirty immediately, ignoring debounce and interval.
// Called on quit so nothing is lost.
func (m *Manager) Flush() error {
	m.mu.Lock()
	saveDraft := m.draftDirty
	saveConv := m.convDirty
	draftText := m.draftText
	onSaveDraft := m.onSaveDraft
	onSaveConversation := m.onSaveConversation
	m.mu.Unlock()

	var firstErr error
	if saveDraft && onSaveDraft != nil {
		if err := onSaveDraft(draftText); err != nil {
			firstErr = err
		} else {
			m.mu.Lock()
			m.draftDirty = false
			m.mu.Unlock()
		}
	}
	if saveConv && onSaveConversation != nil {
		if err := onSaveConversation(); err != nil && firstErr == nil {
			firstErr = err
		} else if err == nil {
			m.MarkConversationClean()
		}
	}
	return firstErr
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg is sent periodically to check autosave state.
type TickMsg struct {
	Time time.Time
}

// SavedMsg reports the result of an autosave pass.
type SavedMsg struct {
	Saved bool
}

// TickCmd returns a command that ticks periodically.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// HandleTick runs due saves and schedules the next tick.
func (m *Manager) HandleTick() tea.Cmd {
	saved := m.Check()

	return tea.Batch(
		func() tea.Msg { return SavedMsg{Saved: saved} },
		TickCmd(),
	)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateSessionID creates a unique session ID.
func generateSessionID() string {
	return "sess_" + time.Now().Format("20060102_150405")
}

// =============================================================================
// SESSION STATUS
// =============================================================================

// Status represents the current session status.
type Status struct {
	SessionID string
	StartTime time.Time
	Duration  time.Duration
	IdleTime  time.Duration
	IsDirty   bool
}

// GetStatus returns the current session status.
func (m *Manager) GetStatus() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	return Status{
		SessionID: m.sessionID,
		StartTime: m.startTime,
		Duration:  now.Sub(m.startTime),
		IdleTime:  now.Sub(m.lastActivity),
		IsDirty:   m.draftDirty || m.convDirty,
	}
}

// FormatDuration returns a human-readable duration string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		secs := int(d.Seconds())
		return util.IntToStr(secs) + "s"
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return util.IntToStr(mins) + "m"
	}
	return util.IntToStr(mins) + "m " + util.IntToStr(secs) + "s"
}
