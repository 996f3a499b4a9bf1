// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"log"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/zobo-ai/zobo-tui/internal/assistant"
	"github.com/zobo-ai/zobo-tui/internal/bus"
	"github.com/zobo-ai/zobo-tui/internal/clock"
	"github.com/zobo-ai/zobo-tui/internal/config"
	"github.com/zobo-ai/zobo-tui/internal/model"
	"github.com/zobo-ai/zobo-tui/internal/notify"
	"github.com/zobo-ai/zobo-tui/internal/session"
	"github.com/zobo-ai/zobo-tui/internal/storage"
	"github.com/zobo-ai/zobo-tui/internal/ui/styles"
	"github.com/zobo-ai/zobo-tui/internal/voice"
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// ActionHandler receives notification action button presses.
// The background scheduler implements it.
type ActionHandler interface {
	HandleAction(tag string, action notify.Action)
}

// Deps are the collaborators the model is wired to at startup.
type Deps struct {
	Config     *config.Config
	Controller *clock.Controller
	Broker     *bus.Broker
	Notifier   *notify.ChannelNotifier
	Actions    ActionHandler
	Assistant  *assistant.Client
	Dispatcher *voice.Dispatcher
	Detector   *voice.Detector

	Conversations *storage.ConversationStore
	Drafts        *storage.DraftStore

	// Conversation to resume; nil starts fresh.
	Conversation *model.Conversation
}

// =============================================================================
// APP MODEL
// =============================================================================

// Model is the root Bubble Tea model.
type Model struct {
	deps  Deps
	theme *styles.Theme

	width  int
	height int

	conversation *model.Conversation
	autosave     *session.Manager

	// Bus subscription consumed by listenBus commands.
	sub chan bus.Message

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	keyMap   KeyMap

	// Markdown rendering for assistant replies; nil falls back to plain text.
	markdown *glamour.TermRenderer

	// Waiting on the assistant backend.
	waiting bool

	// Offline is set after a fallback reply and cleared on the next success.
	offline bool

	// Current toast, if any.
	toast    *notify.Notification
	toastSeq int

	showHelp  bool
	statusMsg string
}

// New creates the root model and restores the saved draft.
func New(deps Deps) Model {
	theme := styles.NewTheme(deps.Config.UI.Theme, deps.Config.UI.CompactMode)

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Message Zobo..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: styles.LineSpinner.Frames,
		FPS:    styles.LineSpinner.Duration(),
	}
	sp.Style = theme.Spinner

	conv := deps.Conversation
	if conv == nil {
		conv = model.NewConversation()
	}

	m := Model{
		deps:         deps,
		theme:        theme,
		conversation: conv,
		viewport:     vp,
		input:        ti,
		spinner:      sp,
		keyMap:       DefaultKeyMap(),
		autosave:     session.NewManager(session.DefaultConfig()),
	}

	if deps.Broker != nil {
		m.sub = deps.Broker.Subscribe()
	}

	m.restoreDraft()
	m.wireAutosave()
	m.initMarkdown(80)
	m.refreshViewport()

	return m
}

// restoreDraft puts yesterday-or-newer unsent text back into the input.
func (m *Model) restoreDraft() {
	if m.deps.Drafts == nil {
		return
	}
	draft, err := m.deps.Drafts.Load()
	if err != nil {
		log.Printf("WARNING: failed to load draft: %v", err)
		return
	}
	if !draft.Empty() {
		m.input.SetValue(draft.Text)
		m.input.CursorEnd()
	}
}

// wireAutosave connects the autosave manager to the stores.
func (m *Model) wireAutosave() {
	drafts := m.deps.Drafts
	convs := m.deps.Conversations
	conv := m.conversation

	if drafts != nil {
		m.autosave.SetDraftSaveCallback(func(text string) error {
			return drafts.Save(&model.Draft{
				ConversationID: conv.ID,
				Text:           text,
			})
		})
	}
	if convs != nil {
		m.autosave.SetConversationSaveCallback(func() error {
			_, err := convs.Save(conv)
			return err
		})
	}
}

// initMarkdown builds the glamour renderer for the given wrap width.
func (m *Model) initMarkdown(width int) {
	style := glamour.WithStandardStyle("dark")
	if !m.theme.IsDark {
		style = glamour.WithStandardStyle("light")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		log.Printf("WARNING: markdown renderer unavailable: %v", err)
		m.markdown = nil
		return
	}
	m.markdown = r
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the listeners and tickers.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		session.TickCmd(),
		clockTickCmd(),
	}
	if m.sub != nil {
		cmds = append(cmds, listenBus(m.sub))
	}
	if m.deps.Notifier != nil {
		cmds = append(cmds, listenNotifications(m.deps.Notifier.C()))
	}
	return tea.Batch(cmds...)
}

// Conversation returns the active conversation.
func (m Model) Conversation() *model.Conversation {
	return m.conversation
}

// flushAndQuit persists everything dirty and exits.
func (m Model) flushAndQuit() (tea.Model, tea.Cmd) {
	m.autosave.RecordDraft(m.input.Value())
	if err := m.autosave.Flush(); err != nil {
		log.Printf("WARNING: flush on quit failed: %v", err)
	}
	return m, tea.Quit
}

// now is a convenience for clock panel rendering.
func (m Model) now() time.Time {
	return time.Now()
}
