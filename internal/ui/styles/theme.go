// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Compact mode drops padding so more fits on screen.
	Compact bool

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble   lipgloss.Style
	ZoboBubble   lipgloss.Style
	SystemBubble lipgloss.Style
	VoiceLabel   lipgloss.Style
	Timestamp    lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style
	DraftIndicator   lipgloss.Style

	// ==========================================================================
	// CLOCK PANEL STYLES
	// ==========================================================================

	ClockPanel       lipgloss.Style
	ClockTitle       lipgloss.Style
	TimerRow         lipgloss.Style
	TimerPausedRow   lipgloss.Style
	TimerCountdown   lipgloss.Style
	AlarmRow         lipgloss.Style
	AlarmTime        lipgloss.Style
	StopwatchReadout lipgloss.Style
	LapRow           lipgloss.Style
	EntityName       lipgloss.Style

	// ==========================================================================
	// NOTIFICATION TOAST STYLES
	// ==========================================================================

	ToastBox    lipgloss.Style
	ToastTitle  lipgloss.Style
	ToastBody   lipgloss.Style
	ToastAction lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	VoiceOn      lipgloss.Style
	VoiceOff     lipgloss.Style
	Offline      lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// SESSION LIST STYLES
	// ==========================================================================

	SessionList         lipgloss.Style
	SessionItem         lipgloss.Style
	SessionItemSelected lipgloss.Style
	SessionMeta         lipgloss.Style

	// ==========================================================================
	// SPINNER AND LOADING STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style

	// ==========================================================================
	// ERROR BOX STYLES
	// ==========================================================================

	ErrorBox     lipgloss.Style
	ErrorTitle   lipgloss.Style
	ErrorMessage lipgloss.Style
}

// NewTheme creates a theme for the configured mode ("dark", "light", or ""
// for terminal autodetection). The forced mode pins which side of every
// AdaptiveColor pair renders.
func NewTheme(mode string, compact bool) *Theme {
	colorProfile := termenv.ColorProfile()

	isDark := termenv.HasDarkBackground()
	switch mode {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
		Compact:      compact,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	pad := 2
	if t.Compact {
		pad = 1
	}

	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Violet).
		Background(SurfaceDim).
		Padding(0, pad)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Violet)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, pad).
		MarginLeft(4)

	t.ZoboBubble = lipgloss.NewStyle().
		Foreground(ZoboBubbleFg).
		Background(ZoboBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ZoboBubbleBorder).
		Padding(0, pad).
		MarginRight(4)

	t.SystemBubble = lipgloss.NewStyle().
		Foreground(SystemBubbleFg).
		Background(SystemBubbleBg).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(SystemBubbleBorder).
		Padding(0, pad).
		Align(lipgloss.Center)

	t.VoiceLabel = lipgloss.NewStyle().
		Foreground(Cyan).
		Italic(true)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.DraftIndicator = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Clock panel
	t.ClockPanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.ClockTitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	t.TimerRow = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.TimerPausedRow = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.TimerCountdown = lipgloss.NewStyle().
		Foreground(TimerColor).
		Bold(true)

	t.AlarmRow = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.AlarmTime = lipgloss.NewStyle().
		Foreground(AlarmColor).
		Bold(true)

	t.StopwatchReadout = lipgloss.NewStyle().
		Foreground(StopwatchColor).
		Bold(true)

	t.LapRow = lipgloss.NewStyle().
		Foreground(TextMuted).
		PaddingLeft(2)

	t.EntityName = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Notification toasts
	t.ToastBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(FiringColor).
		Background(Surface).
		Padding(0, pad)

	t.ToastTitle = lipgloss.NewStyle().
		Foreground(FiringColor).
		Bold(true)

	t.ToastBody = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ToastAction = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.VoiceOn = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.VoiceOff = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Offline = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Session list
	t.SessionList = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Violet).
		Padding(1, 2)

	t.SessionItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.SessionItemSelected = lipgloss.NewStyle().
		Background(Violet).
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 1)

	t.SessionMeta = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Spinner and loading
	t.Spinner = lipgloss.NewStyle().
		Foreground(Violet)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Error boxes
	t.ErrorBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Rose).
		Background(RoseDeep).
		Padding(1, 2)

	t.ErrorTitle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ErrorMessage = lipgloss.NewStyle().
		Foreground(TextPrimary)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
// The clock panel only renders side-by-side with chat in wide mode.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
