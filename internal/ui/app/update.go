// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zobo-ai/zobo-tui/internal/bus"
	"github.com/zobo-ai/zobo-tui/internal/model"
	"github.com/zobo-ai/zobo-tui/internal/notify"
	"github.com/zobo-ai/zobo-tui/internal/session"
	"github.com/zobo-ai/zobo-tui/internal/ui/styles"
)

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case BusMsg:
		return m.handleBus(msg)

	case NotificationMsg:
		return m.handleNotification(msg)

	case AssistantReplyMsg:
		return m.handleAssistantReply(msg)

	case ToastExpiredMsg:
		if m.toast != nil && msg.Seq == m.toastSeq && !m.toast.RequireInteraction {
			m.toast = nil
		}
		return m, nil

	case ClockTickMsg:
		// The clock panel recomputes remaining/elapsed from timestamps each
		// render; the tick only forces the re-render.
		m.refreshViewport()
		return m, clockTickCmd()

	case session.TickMsg:
		return m, m.autosave.HandleTick()

	case session.SavedMsg:
		return m, nil

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m.updateInput(msg)
}

// updateInput forwards everything else to the text input.
func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// RESIZE
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	chatWidth := m.chatWidth()
	m.viewport.Width = chatWidth
	m.viewport.Height = msg.Height - chromeHeight
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}
	m.input.Width = chatWidth - 4
	m.initMarkdown(chatWidth - 4)
	m.refreshViewport()

	return m, nil
}

// =============================================================================
// KEYBOARD
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m.flushAndQuit()

	case key.Matches(msg, m.keyMap.Submit):
		return m.handleSubmit()

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keyMap.NewConv):
		m.conversation = model.NewConversation()
		m.wireAutosave()
		m.refreshViewport()
		m.statusMsg = "New conversation"
		return m, nil

	case key.Matches(msg, m.keyMap.Clear):
		m.conversation.Messages = m.conversation.Messages[:0]
		m.autosave.MarkConversationDirty()
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.Dismiss):
		return m.dismissToast(notify.ActionDismiss)

	case key.Matches(msg, m.keyMap.Snooze):
		return m.dismissToast(notify.ActionSnooze)

	case key.Matches(msg, m.keyMap.Lap):
		if m.deps.Controller != nil {
			if _, err := m.deps.Controller.AddLap(""); err == nil {
				m.refreshViewport()
			}
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Up):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.autosave.RecordDraft(m.input.Value())
	return m, cmd
}

// dismissToast clears the current toast, forwarding the action to the
// background scheduler when the notification carries one.
func (m Model) dismissToast(action notify.Action) (tea.Model, tea.Cmd) {
	if m.toast == nil {
		return m, nil
	}
	if m.deps.Actions != nil {
		for _, a := range m.toast.Actions {
			if a == action {
				m.deps.Actions.HandleAction(m.toast.Tag, action)
				break
			}
		}
	}
	m.toast = nil
	return m, nil
}

// =============================================================================
// SUBMIT
// =============================================================================

func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.waiting {
		return m, nil
	}

	m.input.Reset()
	m.autosave.ClearDraft()

	// Wakeword-prefixed input is treated as spoken.
	isVoice := false
	if m.deps.Detector != nil && m.deps.Detector.Detect(text) {
		isVoice = true
		text = m.deps.Detector.Strip(text)
		if text == "" {
			return m, nil
		}
	}

	if isVoice {
		m.conversation.AddVoiceMessage(text)
	} else {
		m.conversation.AddUserMessage(text)
	}
	m.autosave.MarkConversationDirty()

	// Commands are handled locally; everything else goes to the backend.
	if m.deps.Dispatcher != nil {
		if res := m.deps.Dispatcher.Dispatch(text); res.Handled {
			m.conversation.AddAssistantMessage(res.Reply)
			m.refreshViewport()
			return m, nil
		}
	}

	m.refreshViewport()

	if m.deps.Assistant == nil {
		m.conversation.AddAssistantMessage("No assistant backend configured.")
		m.refreshViewport()
		return m, nil
	}

	m.waiting = true
	return m, tea.Batch(
		sendToAssistant(m.deps.Assistant, text, isVoice),
		m.spinner.Tick,
	)
}

// =============================================================================
// BACKGROUND EVENTS
// =============================================================================

func (m Model) handleBus(msg BusMsg) (tea.Model, tea.Cmd) {
	if m.deps.Controller != nil {
		m.deps.Controller.HandleMessage(msg.Message)
	}

	m.refreshViewport()

	if msg.Message.Type == bus.TypePlayAlarmSound {
		// Terminal bell stands in for the alarm chime.
		return m, tea.Batch(listenBus(m.sub), ringBell)
	}
	return m, listenBus(m.sub)
}

func (m Model) handleNotification(msg NotificationMsg) (tea.Model, tea.Cmd) {
	n := msg.Notification
	m.toast = &n
	m.toastSeq++

	cmds := []tea.Cmd{listenNotifications(m.deps.Notifier.C())}
	if !n.RequireInteraction {
		cmds = append(cmds, toastExpiryCmd(m.toastSeq, styles.ToastDuration))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleAssistantReply(msg AssistantReplyMsg) (tea.Model, tea.Cmd) {
	m.waiting = false
	m.offline = msg.Offline
	m.conversation.AddAssistantMessage(msg.Reply)
	m.autosave.MarkConversationDirty()
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, nil
}
