// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/zobo-ai/zobo-tui/internal/config"
)

// =============================================================================
// CONFIG-BACKED SETTINGS
// =============================================================================

// ConfigSettings implements SettingsControl over the live configuration,
// mirroring every change to disk.
type ConfigSettings struct {
	mu  sync.Mutex
	cfg *config.Config

	// save persists the config after a change; nil disables persistence.
	save func(*config.Config) error

	// onChange receives the updated config so the UI can re-style live.
	onChange func(*config.Config)
}

// NewConfigSettings wraps cfg. save is typically config.Save.
func NewConfigSettings(cfg *config.Config, save func(*config.Config) error) *ConfigSettings {
	return &ConfigSettings{cfg: cfg, save: save}
}

// SetOnChange registers a callback invoked after each applied change.
func (s *ConfigSettings) SetOnChange(fn func(*config.Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// SetFont selects a font family, returning the canonical name.
func (s *ConfigSettings) SetFont(name string) (string, error) {
	canonical := ""
	for _, f := range config.KnownFonts {
		if strings.EqualFold(f, name) {
			canonical = f
			break
		}
	}
	if canonical == "" {
		return "", fmt.Errorf("unknown font %q", name)
	}

	s.mu.Lock()
	s.cfg.UI.FontFamily = canonical
	s.mu.Unlock()
	s.persist()
	return canonical, nil
}

// AdjustFontSize steps the size up or down, clamped to the valid range.
func (s *ConfigSettings) AdjustFontSize(step int) (string, error) {
	s.mu.Lock()
	idx := 0
	for i, v := range config.FontSizes {
		if v == s.cfg.UI.FontSize {
			idx = i
			break
		}
	}
	idx += step
	if idx < 0 {
		idx = 0
	}
	if idx >= len(config.FontSizes) {
		idx = len(config.FontSizes) - 1
	}
	size := config.FontSizes[idx]
	s.cfg.UI.FontSize = size
	s.mu.Unlock()
	s.persist()
	return size, nil
}

// SetCompact toggles compact mode.
func (s *ConfigSettings) SetCompact(on bool) error {
	s.mu.Lock()
	s.cfg.UI.CompactMode = on
	s.mu.Unlock()
	s.persist()
	return nil
}

// Config returns the wrapped configuration.
func (s *ConfigSettings) Config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// persist mirrors the change to disk and notifies listeners. A failed write
// keeps the in-memory change; the user asked for it and the UI shows it.
func (s *ConfigSettings) persist() {
	s.mu.Lock()
	cfg := s.cfg
	save := s.save
	onChange := s.onChange
	s.mu.Unlock()

	if save != nil {
		if err := save(cfg); err != nil {
			log.Printf("WARNING: failed to save settings: %v", err)
		}
	}
	if onChange != nil {
		onChange(cfg)
	}
}
