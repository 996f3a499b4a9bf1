// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zobo-ai/zobo-tui/internal/model"
	"github.com/zobo-ai/zobo-tui/internal/ui/styles"
	"github.com/zobo-ai/zobo-tui/internal/util"
)

// Vertical rows taken by header, input box, and status bar.
const chromeHeight = 8

// Width reserved for the clock panel on wide terminals.
const clockPanelWidth = 36

// =============================================================================
// LAYOUT
// =============================================================================

// chatWidth returns the width available to the chat column.
func (m Model) chatWidth() int {
	w := m.width
	if w <= 0 {
		w = 80
	}
	if m.theme.GetLayoutMode() == styles.LayoutWide {
		return w - clockPanelWidth
	}
	return w
}

// View renders the full screen.
func (m Model) View() string {
	if m.showHelp {
		return m.renderHelp()
	}

	chat := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderInput(),
	)

	var body string
	if m.theme.GetLayoutMode() == styles.LayoutWide && m.deps.Controller != nil {
		body = lipgloss.JoinHorizontal(lipgloss.Top, chat, m.renderClockPanel())
	} else {
		body = chat
	}

	sections := []string{body}
	if m.toast != nil {
		sections = append(sections, m.renderToast())
	}
	sections = append(sections, m.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// =============================================================================
// CHAT COLUMN
// =============================================================================

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("Zobo")
	subtitle := m.theme.HeaderSubtitle.Render(m.conversation.AutoTitle())
	return m.theme.Header.Width(m.chatWidth()).Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", subtitle))
}

// refreshViewport re-renders the message list into the viewport, keeping the
// view pinned to the bottom when it already was.
func (m *Model) refreshViewport() {
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderMessages())
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m Model) renderMessages() string {
	if m.conversation.IsEmpty() {
		return m.theme.Timestamp.Render("Say hi, or try \"set a timer for 5 minutes\".")
	}

	bubbleWidth := m.chatWidth() * 3 / 4
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	var b strings.Builder
	for i, msg := range m.conversation.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg, bubbleWidth))
		b.WriteString("\n")
	}
	if m.waiting {
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(m.theme.ThinkingText.Render(" Zobo is thinking..."))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderMessage(msg *model.Message, width int) string {
	var bubble lipgloss.Style
	switch msg.Role {
	case model.RoleUser:
		bubble = m.theme.UserBubble
	case model.RoleAssistant:
		bubble = m.theme.ZoboBubble
	default:
		bubble = m.theme.SystemBubble
	}

	content := msg.Content
	if msg.Role == model.RoleAssistant && m.markdown != nil {
		if rendered, err := m.markdown.Render(content); err == nil {
			content = strings.TrimRight(rendered, "\n")
		}
	}

	var lines []string
	label := msg.Role.DisplayName()
	if msg.Voice {
		label += " " + m.theme.VoiceLabel.Render(styles.StatusIndicators.Voice)
	}
	lines = append(lines, m.theme.EntityName.Render(label))
	lines = append(lines, bubble.MaxWidth(width).Render(content))
	if m.deps.Config.UI.ShowTimestamps {
		lines = append(lines, m.theme.Timestamp.Render(msg.Timestamp.Format("3:04 PM")))
	}

	block := lipgloss.JoinVertical(lipgloss.Left, lines...)
	if msg.Role == model.RoleUser {
		return lipgloss.PlaceHorizontal(m.chatWidth(), lipgloss.Right, block)
	}
	return block
}

func (m Model) renderInput() string {
	line := m.input.View()
	if m.autosave.IsDirty() {
		line += " " + m.theme.DraftIndicator.Render("[draft]")
	}
	return m.theme.InputContainer.Width(m.chatWidth() - 2).Render(line)
}

// =============================================================================
// CLOCK PANEL
// =============================================================================

// renderClockPanel lists armed timers, alarms, and stopwatches. Countdown and
// elapsed readings prefer the scheduler's broadcast hints and fall back to
// recomputing from timestamps, so the panel stays correct even when the
// background is gone.
func (m Model) renderClockPanel() string {
	now := m.now()
	ctl := m.deps.Controller

	var sections []string

	timers := ctl.Timers()
	if len(timers) > 0 {
		rows := []string{m.theme.ClockTitle.Render("Timers")}
		for _, t := range timers {
			remaining := int(t.Remaining(now).Seconds())
			if hint, ok := ctl.RemainingHint(t.ID); ok && !t.Paused {
				remaining = hint
			}
			row := m.theme.TimerRow
			if t.Paused {
				row = m.theme.TimerPausedRow
			}
			pct := 0.0
			if t.Duration > 0 {
				pct = 1 - float64(remaining)/float64(t.Duration)
			}
			rows = append(rows, row.Render(fmt.Sprintf("%s %s\n%s",
				m.theme.EntityName.Render(t.Name),
				m.theme.TimerCountdown.Render(util.FormatClock(remaining)),
				styles.RenderProgressBar(clockPanelWidth-8, pct))))
		}
		sections = append(sections, strings.Join(rows, "\n"))
	}

	alarms := ctl.Alarms()
	if len(alarms) > 0 {
		rows := []string{m.theme.ClockTitle.Render("Alarms")}
		for _, a := range alarms {
			label := a.Time.Format("3:04 PM")
			if a.Repeat != "" {
				label += " (" + a.Repeat.String() + ")"
			}
			rows = append(rows, m.theme.AlarmRow.Render(
				m.theme.EntityName.Render(a.Name)+" "+m.theme.AlarmTime.Render(label)))
		}
		sections = append(sections, strings.Join(rows, "\n"))
	}

	watches := ctl.Stopwatches()
	if len(watches) > 0 {
		rows := []string{m.theme.ClockTitle.Render("Stopwatch")}
		for _, s := range watches {
			elapsed := s.Elapsed(now).Milliseconds()
			if hint, ok := ctl.ElapsedHint(s.ID); ok && !s.Paused {
				elapsed = hint
			}
			readout := m.theme.StopwatchReadout.Render(util.FormatElapsed(elapsed))
			if s.Paused {
				readout += " " + m.theme.Timestamp.Render(styles.StatusIndicators.Paused)
			}
			rows = append(rows, m.theme.EntityName.Render(s.Name)+" "+readout)
			for i, lap := range s.Laps {
				rows = append(rows, m.theme.LapRow.Render(fmt.Sprintf("Lap %d  %s",
					i+1, util.FormatElapsed(lap.Milliseconds()))))
			}
		}
		sections = append(sections, strings.Join(rows, "\n"))
	}

	if len(sections) == 0 {
		sections = append(sections, m.theme.Timestamp.Render("No active clocks"))
	}

	height := m.height - chromeHeight
	if height < 3 {
		height = 3
	}
	return m.theme.ClockPanel.
		Width(clockPanelWidth - 4).
		Height(height).
		Render(strings.Join(sections, "\n\n"))
}

// =============================================================================
// TOAST AND STATUS BAR
// =============================================================================

func (m Model) renderToast() string {
	t := m.toast
	parts := []string{m.theme.ToastTitle.Render(t.Title)}
	if t.Body != "" {
		parts = append(parts, m.theme.ToastBody.Render(t.Body))
	}
	if len(t.Actions) > 0 {
		var acts []string
		for _, a := range t.Actions {
			switch a {
			case "dismiss":
				acts = append(acts, m.theme.ToastAction.Render("[Esc] dismiss"))
			case "snooze":
				acts = append(acts, m.theme.ToastAction.Render("[C-z] snooze"))
			}
		}
		parts = append(parts, strings.Join(acts, "  "))
	}
	return m.theme.ToastBox.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) renderStatusBar() string {
	var left []string
	if m.deps.Detector != nil {
		left = append(left, m.theme.VoiceOn.Render(styles.StatusIndicators.Voice+" voice"))
	} else {
		left = append(left, m.theme.VoiceOff.Render("voice off"))
	}
	if m.offline {
		left = append(left, m.theme.Offline.Render(styles.StatusIndicators.Warning+" offline"))
	}
	if m.statusMsg != "" {
		left = append(left, m.statusMsg)
	}

	var right []string
	for _, b := range m.keyMap.ShortHelp() {
		right = append(right,
			m.theme.ShortcutKey.Render(b.Help().Key)+" "+
				m.theme.ShortcutDesc.Render(b.Help().Desc))
	}

	w := m.width
	if w <= 0 {
		w = 80
	}
	l := strings.Join(left, "  ")
	r := strings.Join(right, "  ")
	gap := w - lipgloss.Width(l) - lipgloss.Width(r) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(w).Render(l + strings.Repeat(" ", gap) + r)
}

// =============================================================================
// HELP
// =============================================================================

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("Keyboard shortcuts"))
	b.WriteString("\n\n")
	for _, group := range m.keyMap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %s  %s\n",
				m.theme.ShortcutKey.Render(util.PadRight(h.Key, 8)),
				m.theme.ShortcutDesc.Render(h.Desc)))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.theme.Timestamp.Render("Press C-g to return"))
	return m.theme.App.Render(b.String())
}
