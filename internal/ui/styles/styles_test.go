// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

// =============================================================================
// THEME
// =============================================================================

func TestNewThemeForcesMode(t *testing.T) {
	dark := NewTheme("dark", false)
	if !dark.IsDark {
		t.Error("dark mode not forced")
	}

	light := NewTheme("light", false)
	if light.IsDark {
		t.Error("light mode not forced")
	}
}

func TestCompactReducesPadding(t *testing.T) {
	normal := NewTheme("dark", false)
	compact := NewTheme("dark", true)

	if !compact.Compact {
		t.Fatal("compact flag not set")
	}
	// Right padding shrinks from 2 to 1 in compact mode.
	if compact.UserBubble.GetPaddingRight() >= normal.UserBubble.GetPaddingRight() {
		t.Error("compact mode did not reduce bubble padding")
	}
}

func TestLayoutModes(t *testing.T) {
	th := NewTheme("dark", false)

	cases := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}
	for _, c := range cases {
		th.SetSize(c.width, 40)
		if got := th.GetLayoutMode(); got != c.want {
			t.Errorf("GetLayoutMode(width=%d) = %v, want %v", c.width, got, c.want)
		}
	}
}

// =============================================================================
// PROGRESS BAR
// =============================================================================

func TestRenderProgressBar(t *testing.T) {
	bar := RenderProgressBar(10, 50)
	if len(bar) != 10 {
		t.Errorf("bar length = %d, want 10: %q", len(bar), bar)
	}
	if !strings.HasPrefix(bar, "#####") {
		t.Errorf("bar = %q, want half full", bar)
	}

	if got := RenderProgressBar(10, 0); strings.Contains(got, "#") {
		t.Errorf("empty bar = %q", got)
	}
	if got := RenderProgressBar(10, 100); strings.Contains(got, "-") {
		t.Errorf("full bar = %q", got)
	}
}

func TestRenderProgressBarClampsInput(t *testing.T) {
	if got := RenderProgressBar(10, 150); len(got) != 10 {
		t.Errorf("overfull bar = %q", got)
	}
	if got := RenderProgressBar(10, -5); len(got) != 10 {
		t.Errorf("negative bar = %q", got)
	}
	if got := RenderProgressBar(0, 50); got != "" {
		t.Errorf("zero width bar = %q", got)
	}
}

// =============================================================================
// STATUS HELPERS
// =============================================================================

func TestRenderStatusIncludesIndicator(t *testing.T) {
	if !strings.Contains(RenderSuccess("saved"), "[OK]") {
		t.Error("success indicator missing")
	}
	if !strings.Contains(RenderError("failed"), "[X]") {
		t.Error("error indicator missing")
	}
	if !strings.Contains(RenderStatus(false, "oops"), "[X]") {
		t.Error("status indicator missing")
	}
}

func TestSpinnerDuration(t *testing.T) {
	if LineSpinner.Duration() <= 0 {
		t.Error("non-positive frame duration")
	}
}
