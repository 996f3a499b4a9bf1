// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// zobo-tui.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.zobo/config.toml
//   - ~/.zobo/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete zobo-tui configuration.
type Config struct {
	// General settings
	Version string `toml:"version" json:"version"`

	// DataDir overrides the default ~/.zobo data directory.
	DataDir string `toml:"data_dir" json:"data_dir"`

	// Clock configuration
	Clock ClockConfig `toml:"clock" json:"clock"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Voice configuration
	Voice VoiceConfig `toml:"voice" json:"voice"`

	// Assistant backend configuration
	Assistant AssistantConfig `toml:"assistant" json:"assistant"`
}

// ClockConfig controls the timer/alarm/stopwatch subsystem.
type ClockConfig struct {
	// SnoozeMinutes is the snooze window for timer and alarm notifications.
	SnoozeMinutes int `toml:"snooze_minutes" json:"snooze_minutes"`
	// TimerTickMillis is the countdown broadcast cadence.
	TimerTickMillis int `toml:"timer_tick_millis" json:"timer_tick_millis"`
	// StopwatchTickMillis is the elapsed broadcast cadence.
	StopwatchTickMillis int `toml:"stopwatch_tick_millis" json:"stopwatch_tick_millis"`
}

// UIConfig contains display configuration.
type UIConfig struct {
	// Theme selects the color theme: "dark" or "light".
	Theme string `toml:"theme" json:"theme"`
	// FontFamily names the terminal font the UI recommends. Purely advisory
	// in a terminal, but mirrored to the config file so companion frontends
	// can honor it.
	FontFamily string `toml:"font_family" json:"font_family"`
	// FontSize is one of "small", "medium", "large", "xl".
	FontSize string `toml:"font_size" json:"font_size"`
	// CompactMode reduces padding in the chat view.
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
	// ShowTimestamps renders message times in the chat view.
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`
}

// FontSizes lists the valid font sizes in increasing order.
var FontSizes = []string{"small", "medium", "large", "xl"}

// KnownFonts lists the font families settings may select.
var KnownFonts = []string{
	"Inter", "Arial", "Roboto", "Open Sans", "Lato", "Poppins", "Montserrat",
	"Nunito", "Source Sans Pro", "Raleway", "Ubuntu", "Playfair Display",
	"Merriweather", "Crimson Text", "Georgia", "Times New Roman",
	"JetBrains Mono", "Fira Code", "Courier New", "Monaco", "Creepster",
}

// ValidFontSize reports whether s is a recognized font size.
func ValidFontSize(s string) bool {
	for _, v := range FontSizes {
		if v == s {
			return true
		}
	}
	return false
}

// ValidFont reports whether name is a recognized font family
// (case-insensitive).
func ValidFont(name string) bool {
	for _, v := range KnownFonts {
		if strings.EqualFold(v, name) {
			return true
		}
	}
	return false
}

// VoiceConfig controls wake-word detection on typed input.
type VoiceConfig struct {
	// Enabled turns voice command parsing on.
	Enabled bool `toml:"enabled" json:"enabled"`
	// Wakewords are the prefixes that address the assistant.
	Wakewords []string `toml:"wakewords" json:"wakewords"`
}

// AssistantConfig contains the chat backend endpoint.
type AssistantConfig struct {
	// URL is the assistant HTTP endpoint.
	URL string `toml:"url" json:"url"`
	// TimeoutSecs bounds each request.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// MaxRetries is the number of retry attempts on transient failure.
	MaxRetries int `toml:"max_retries" json:"max_retries"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version: "1.0",

		Clock: ClockConfig{
			SnoozeMinutes:       5,
			TimerTickMillis:     1000,
			StopwatchTickMillis: 100,
		},

		UI: UIConfig{
			Theme:          "dark",
			FontFamily:     "Inter",
			FontSize:       "medium",
			CompactMode:    false,
			ShowTimestamps: true,
		},

		Voice: VoiceConfig{
			Enabled:   true,
			Wakewords: []string{"hey zobo", "zobo"},
		},

		Assistant: AssistantConfig{
			URL:         "http://localhost:8787/chat",
			TimeoutSecs: 30,
			MaxRetries:  2,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the zobo configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".zobo"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				return nil, fmt.Errorf("failed to load TOML config: %w", err)
			}
			return finishLoad(cfg)
		}
	}

	if jsonPath, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				return nil, fmt.Errorf("failed to load JSON config: %w", err)
			}
			return finishLoad(cfg)
		}
	}

	return finishLoad(cfg)
}

// LoadFromPath loads configuration from a specific file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finishLoad(cfg)
}

// finishLoad applies env overrides, defaults, and validation.
func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// fillDefaults fills in any missing values with defaults.
func (c *Config) fillDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Clock.SnoozeMinutes == 0 {
		c.Clock.SnoozeMinutes = defaults.Clock.SnoozeMinutes
	}
	if c.Clock.TimerTickMillis == 0 {
		c.Clock.TimerTickMillis = defaults.Clock.TimerTickMillis
	}
	if c.Clock.StopwatchTickMillis == 0 {
		c.Clock.StopwatchTickMillis = defaults.Clock.StopwatchTickMillis
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.FontFamily == "" {
		c.UI.FontFamily = defaults.UI.FontFamily
	}
	if c.UI.FontSize == "" {
		c.UI.FontSize = defaults.UI.FontSize
	}
	if len(c.Voice.Wakewords) == 0 {
		c.Voice.Wakewords = defaults.Voice.Wakewords
	}
	if c.Assistant.URL == "" {
		c.Assistant.URL = defaults.Assistant.URL
	}
	if c.Assistant.TimeoutSecs == 0 {
		c.Assistant.TimeoutSecs = defaults.Assistant.TimeoutSecs
	}
	if c.Assistant.MaxRetries == 0 {
		c.Assistant.MaxRetries = defaults.Assistant.MaxRetries
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies ZOBO_* environment variables over the loaded
// configuration.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("ZOBO_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("ZOBO_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("ZOBO_ASSISTANT_URL"); v != "" {
		c.Assistant.URL = v
	}
	if v := os.Getenv("ZOBO_SNOOZE_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Clock.SnoozeMinutes = n
		}
	}
	if v := os.Getenv("ZOBO_VOICE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Voice.Enabled = b
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks configuration values, clamping where a bad value has an
// obvious safe substitute and erroring where it does not.
func (c *Config) Validate() error {
	// Clamp tick cadences to sane bounds rather than erroring: a wild value
	// would either spin the CPU or freeze the display.
	if c.Clock.TimerTickMillis < 100 {
		c.Clock.TimerTickMillis = 100
	}
	if c.Clock.TimerTickMillis > 10000 {
		c.Clock.TimerTickMillis = 10000
	}
	if c.Clock.StopwatchTickMillis < 10 {
		c.Clock.StopwatchTickMillis = 10
	}
	if c.Clock.StopwatchTickMillis > 1000 {
		c.Clock.StopwatchTickMillis = 1000
	}
	if c.Clock.SnoozeMinutes < 1 {
		c.Clock.SnoozeMinutes = 1
	}
	if c.Clock.SnoozeMinutes > 120 {
		c.Clock.SnoozeMinutes = 120
	}

	if c.UI.Theme != "dark" && c.UI.Theme != "light" {
		return fmt.Errorf("ui.theme must be \"dark\" or \"light\", got %q", c.UI.Theme)
	}
	// Unknown fonts and sizes fall back to defaults rather than erroring:
	// they were user-editable free text in the settings form.
	if !ValidFont(c.UI.FontFamily) {
		c.UI.FontFamily = "Inter"
	}
	if !ValidFontSize(c.UI.FontSize) {
		c.UI.FontSize = "medium"
	}

	if _, err := url.Parse(c.Assistant.URL); err != nil {
		return fmt.Errorf("assistant.url is not a valid URL: %w", err)
	}
	if c.Assistant.TimeoutSecs < 1 {
		c.Assistant.TimeoutSecs = 1
	}
	if c.Assistant.MaxRetries < 0 {
		c.Assistant.MaxRetries = 0
	}

	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode TOML: %w", err)
	}
	return nil
}

// =============================================================================
// DERIVED PATHS
// =============================================================================

// ResolveDataDir returns the effective data directory.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	return ConfigDir()
}
