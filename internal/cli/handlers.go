// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/zobo-ai/zobo-tui/internal/config"
	"github.com/zobo-ai/zobo-tui/internal/model"
	"github.com/zobo-ai/zobo-tui/internal/storage"
	"github.com/zobo-ai/zobo-tui/internal/util"
)

// =============================================================================
// STATUS
// =============================================================================

// runStatus prints the persisted clock state and firing totals. It reads
// the snapshot directly, so it works whether or not a TUI is running.
func (a *App) runStatus() error {
	snaps, err := a.openSnapshots()
	if err != nil {
		return err
	}
	snap, err := snaps.Load()
	if err != nil {
		return fmt.Errorf("load clock snapshot: %w", err)
	}

	now := time.Now()
	fmt.Fprintln(a.Stdout, titleStyle.Render("Clocks"))

	if len(snap.Timers)+len(snap.Alarms)+len(snap.Stopwatches) == 0 {
		fmt.Fprintln(a.Stdout, dimStyle.Render("  nothing active"))
	}

	for _, e := range snap.Timers {
		if e.Timer == nil {
			continue
		}
		state := util.FormatClock(int(e.Timer.Remaining(now).Seconds())) + " remaining"
		if e.Timer.Paused {
			state += " (paused)"
		}
		if e.Timer.Expired(now) {
			state = "expired"
		}
		fmt.Fprintf(a.Stdout, "  timer      %-20s %s\n", e.Timer.Name, state)
	}
	for _, e := range snap.Alarms {
		if e.Alarm == nil {
			continue
		}
		label := e.Alarm.Time.Format("Mon 3:04 PM")
		if e.Alarm.Repeat != "" {
			label += " (" + e.Alarm.Repeat.String() + ")"
		}
		fmt.Fprintf(a.Stdout, "  alarm      %-20s %s\n", e.Alarm.Name, label)
	}
	for _, e := range snap.Stopwatches {
		if e.Stopwatch == nil {
			continue
		}
		state := util.FormatElapsed(e.Stopwatch.Elapsed(now).Milliseconds())
		if e.Stopwatch.Paused {
			state += " (paused)"
		}
		if n := len(e.Stopwatch.Laps); n > 0 {
			state += fmt.Sprintf(", %d laps", n)
		}
		fmt.Fprintf(a.Stdout, "  stopwatch  %-20s %s\n", e.Stopwatch.Name, state)
	}

	path, err := a.historyPath()
	if err != nil {
		return err
	}
	hist, err := storage.OpenHistory(path)
	if err != nil {
		// Status stays useful without history.
		fmt.Fprintln(a.Stderr, warnStyle.Render("[!]")+" firing history unavailable: "+err.Error())
		return nil
	}
	defer hist.Close()

	counts, err := hist.CountByKind()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Stdout)
	fmt.Fprintln(a.Stdout, titleStyle.Render("Firings"))
	if len(counts) == 0 {
		fmt.Fprintln(a.Stdout, dimStyle.Render("  none recorded"))
		return nil
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(a.Stdout, "  %-10s %d\n", k, counts[k])
	}
	return nil
}

// =============================================================================
// CONFIG
// =============================================================================

// configKeys maps dotted key names to getters and setters. Setting writes
// the whole config back to disk.
var configKeys = []string{
	"ui.theme", "ui.font_family", "ui.font_size", "ui.compact_mode",
	"ui.show_timestamps", "voice.enabled", "assistant.url",
	"clock.snooze_minutes",
}

func (a *App) runConfig(parser *ArgParser) error {
	switch parser.Positional(1) {
	case "", "show":
		return a.configShow()
	case "get":
		return a.configGet(parser.Positional(2))
	case "set":
		return a.configSet(parser.Positional(2), parser.Positional(3))
	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		fmt.Fprintln(a.Stdout, path)
		return nil
	default:
		return fmt.Errorf("unknown config subcommand %q", parser.Positional(1))
	}
}

func (a *App) configShow() error {
	for _, key := range configKeys {
		val, _ := a.configValue(key)
		fmt.Fprintf(a.Stdout, "%-20s %s\n", key, val)
	}
	return nil
}

func (a *App) configGet(key string) error {
	if key == "" {
		return fmt.Errorf("usage: zobo config get KEY")
	}
	val, err := a.configValue(key)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Stdout, val)
	return nil
}

func (a *App) configValue(key string) (string, error) {
	c := a.Config
	switch key {
	case "ui.theme":
		return c.UI.Theme, nil
	case "ui.font_family":
		return c.UI.FontFamily, nil
	case "ui.font_size":
		return c.UI.FontSize, nil
	case "ui.compact_mode":
		return strconv.FormatBool(c.UI.CompactMode), nil
	case "ui.show_timestamps":
		return strconv.FormatBool(c.UI.ShowTimestamps), nil
	case "voice.enabled":
		return strconv.FormatBool(c.Voice.Enabled), nil
	case "assistant.url":
		return c.Assistant.URL, nil
	case "clock.snooze_minutes":
		return strconv.Itoa(c.Clock.SnoozeMinutes), nil
	}
	return "", fmt.Errorf("unknown config key %q (known: %s)",
		key, strings.Join(configKeys, ", "))
}

func (a *App) configSet(key, value string) error {
	if key == "" || value == "" {
		return fmt.Errorf("usage: zobo config set KEY VALUE")
	}

	c := a.Config
	switch key {
	case "ui.theme":
		if value != "dark" && value != "light" {
			return fmt.Errorf("theme must be dark or light")
		}
		c.UI.Theme = value
	case "ui.font_family":
		if !config.ValidFont(value) {
			return fmt.Errorf("unknown font %q", value)
		}
		c.UI.FontFamily = value
	case "ui.font_size":
		if !config.ValidFontSize(value) {
			return fmt.Errorf("font size must be one of %s",
				strings.Join(config.FontSizes, ", "))
		}
		c.UI.FontSize = value
	case "ui.compact_mode", "ui.show_timestamps", "voice.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false", key)
		}
		switch key {
		case "ui.compact_mode":
			c.UI.CompactMode = b
		case "ui.show_timestamps":
			c.UI.ShowTimestamps = b
		case "voice.enabled":
			c.Voice.Enabled = b
		}
	case "assistant.url":
		c.Assistant.URL = value
	case "clock.snooze_minutes":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("snooze_minutes must be a positive integer")
		}
		c.Clock.SnoozeMinutes = n
	default:
		return fmt.Errorf("unknown config key %q (known: %s)",
			key, strings.Join(configKeys, ", "))
	}

	if err := config.Save(c); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Fprintf(a.Stdout, "%s = %s\n", key, value)
	return nil
}

// =============================================================================
// SESSIONS
// =============================================================================

func (a *App) runSessions(parser *ArgParser) error {
	store, err := a.openConversations()
	if err != nil {
		return err
	}

	switch parser.Positional(1) {
	case "", "list":
		sessions, err := store.List()
		if err != nil {
			return err
		}
		fmt.Fprint(a.Stdout, storage.FormatSessionList(sessions))
		return nil

	case "show":
		conv, err := a.loadSessionArg(store, parser.Positional(2))
		if err != nil {
			return err
		}
		width := GetTerminalWidth()
		for _, msg := range conv.Messages {
			label := msg.Role.DisplayName()
			if msg.Voice {
				label += " (voice)"
			}
			fmt.Fprintf(a.Stdout, "%s %s\n%s\n\n",
				titleStyle.Render(label),
				dimStyle.Render(msg.Timestamp.Format("2006-01-02 15:04")),
				WrapText(msg.Content, width))
		}
		return nil

	case "export":
		conv, err := a.loadSessionArg(store, parser.Positional(2))
		if err != nil {
			return err
		}
		if parser.BoolFlag("json") {
			out, err := conv.ExportJSON()
			if err != nil {
				return err
			}
			fmt.Fprint(a.Stdout, out)
			return nil
		}
		fmt.Fprint(a.Stdout, conv.ExportMarkdown())
		return nil

	case "clear":
		if !parser.BoolFlag("confirm") {
			fmt.Fprintln(a.Stderr, warnStyle.Render("[!]")+
				" this deletes every saved conversation; re-run with --confirm")
			return nil
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(a.Stdout, "Sessions cleared.")
		return nil

	default:
		return fmt.Errorf("unknown sessions subcommand %q", parser.Positional(1))
	}
}

// loadSessionArg resolves a session by list index (1-based) or full ID.
func (a *App) loadSessionArg(store *storage.ConversationStore, arg string) (*model.Conversation, error) {
	if arg == "" {
		return nil, fmt.Errorf("usage: zobo sessions show N")
	}
	if n, err := strconv.Atoi(arg); err == nil {
		return store.LoadByIndex(n - 1)
	}
	return store.Load(arg)
}

// =============================================================================
// HISTORY
// =============================================================================

func (a *App) runHistory(parser *ArgParser) error {
	path, err := a.historyPath()
	if err != nil {
		return err
	}
	hist, err := storage.OpenHistory(path)
	if err != nil {
		return fmt.Errorf("open firing history: %w", err)
	}
	defer hist.Close()

	lines := parser.FlagIntOrDefault("lines", 20)
	firings, err := hist.Recent(lines)
	if err != nil {
		return err
	}
	if len(firings) == 0 {
		fmt.Fprintln(a.Stdout, "No firings recorded.")
		return nil
	}
	for _, f := range firings {
		fmt.Fprintf(a.Stdout, "%s  %-6s %s\n",
			f.At.Format("2006-01-02 15:04:05"), f.Kind, f.Name)
	}
	return nil
}
