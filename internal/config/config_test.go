// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// DEFAULTS AND VALIDATION
// =============================================================================

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Clock.SnoozeMinutes != 5 {
		t.Errorf("snooze = %d, want 5", cfg.Clock.SnoozeMinutes)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("theme = %q, want dark", cfg.UI.Theme)
	}
	if len(cfg.Voice.Wakewords) == 0 {
		t.Error("no default wakewords")
	}
}

func TestValidateClampsTicks(t *testing.T) {
	cfg := Default()
	cfg.Clock.TimerTickMillis = 1
	cfg.Clock.StopwatchTickMillis = 100000
	cfg.Clock.SnoozeMinutes = 500

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.Clock.TimerTickMillis != 100 {
		t.Errorf("timer tick = %d, want clamped to 100", cfg.Clock.TimerTickMillis)
	}
	if cfg.Clock.StopwatchTickMillis != 1000 {
		t.Errorf("stopwatch tick = %d, want clamped to 1000", cfg.Clock.StopwatchTickMillis)
	}
	if cfg.Clock.SnoozeMinutes != 120 {
		t.Errorf("snooze = %d, want clamped to 120", cfg.Clock.SnoozeMinutes)
	}
}

func TestValidateFallsBackOnUnknownFont(t *testing.T) {
	cfg := Default()
	cfg.UI.FontFamily = "Comic Sans MS"
	cfg.UI.FontSize = "enormous"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.UI.FontFamily != "Inter" {
		t.Errorf("font = %q, want fallback Inter", cfg.UI.FontFamily)
	}
	if cfg.UI.FontSize != "medium" {
		t.Errorf("size = %q, want fallback medium", cfg.UI.FontSize)
	}
}

func TestValidateRejectsBadTheme(t *testing.T) {
	cfg := Default()
	cfg.UI.Theme = "solarized"

	if err := cfg.Validate(); err == nil {
		t.Error("unknown theme accepted")
	}
}

// =============================================================================
// FILE LOADING
// =============================================================================

func TestLoadFromPathTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
version = "1.0"

[clock]
snooze_minutes = 10

[ui]
theme = "light"

[voice]
enabled = false
wakewords = ["computer"]
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Clock.SnoozeMinutes != 10 {
		t.Errorf("snooze = %d, want 10", cfg.Clock.SnoozeMinutes)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q, want light", cfg.UI.Theme)
	}
	if cfg.Voice.Enabled {
		t.Error("voice should be disabled")
	}
	if len(cfg.Voice.Wakewords) != 1 || cfg.Voice.Wakewords[0] != "computer" {
		t.Errorf("wakewords = %v", cfg.Voice.Wakewords)
	}
	// Unset fields fall back to defaults.
	if cfg.Assistant.URL == "" {
		t.Error("assistant URL default not filled")
	}
}

func TestLoadFromPathJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"ui": {"theme": "light"}, "assistant": {"timeout_secs": 5}}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q", cfg.UI.Theme)
	}
	if cfg.Assistant.TimeoutSecs != 5 {
		t.Errorf("timeout = %d, want 5", cfg.Assistant.TimeoutSecs)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Clock.SnoozeMinutes = 7
	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	// Files with secrets-adjacent settings are written 0600.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("perm = %o, want 0600", perm)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Clock.SnoozeMinutes != 7 {
		t.Errorf("snooze after reload = %d, want 7", loaded.Clock.SnoozeMinutes)
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("ZOBO_THEME", "light")
	t.Setenv("ZOBO_SNOOZE_MINUTES", "15")
	t.Setenv("ZOBO_VOICE_ENABLED", "false")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q, want light", cfg.UI.Theme)
	}
	if cfg.Clock.SnoozeMinutes != 15 {
		t.Errorf("snooze = %d, want 15", cfg.Clock.SnoozeMinutes)
	}
	if cfg.Voice.Enabled {
		t.Error("voice override not applied")
	}
}

func TestEnvOverrideIgnoresGarbage(t *testing.T) {
	t.Setenv("ZOBO_SNOOZE_MINUTES", "not-a-number")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Clock.SnoozeMinutes != 5 {
		t.Errorf("snooze = %d, want default 5", cfg.Clock.SnoozeMinutes)
	}
}
