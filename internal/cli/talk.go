// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/zobo-ai/zobo-tui/internal/assistant"
	"github.com/zobo-ai/zobo-tui/internal/bus"
	"github.com/zobo-ai/zobo-tui/internal/clock"
	"github.com/zobo-ai/zobo-tui/internal/config"
	"github.com/zobo-ai/zobo-tui/internal/notify"
	"github.com/zobo-ai/zobo-tui/internal/sched"
	"github.com/zobo-ai/zobo-tui/internal/storage"
	"github.com/zobo-ai/zobo-tui/internal/voice"
)

// =============================================================================
// TALK REPL
// =============================================================================

// talkInput wraps liner with persistent history, matching the readline
// behavior of the TUI-less surface.
type talkInput struct {
	line        *liner.State
	historyFile string
}

func newTalkInput() *talkInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	t := &talkInput{
		line:        line,
		historyFile: filepath.Join(configDir, "talk_history"),
	}
	if f, err := os.Open(t.historyFile); err == nil {
		t.line.ReadHistory(f)
		f.Close()
	}
	return t
}

func (t *talkInput) read(prompt string) (string, error) {
	input, err := t.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		t.line.AppendHistory(input)
	}
	return input, nil
}

func (t *talkInput) close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(t.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			t.line.WriteHistory(f)
			f.Close()
		}
	}
	t.line.Close()
}

// runTalk starts the same command pipeline as the TUI, minus the alternate
// screen: a line goes through wakeword stripping and the voice command
// dispatcher, and falls through to the assistant backend. The background
// scheduler runs in-process so timers and alarms actually fire.
func (a *App) runTalk() error {
	if !IsTTY() {
		return fmt.Errorf("stdin is not a terminal; talk needs interactive input")
	}

	cfg := a.Config

	snaps, err := a.openSnapshots()
	if err != nil {
		return err
	}

	broker := bus.NewBroker()
	controller := clock.NewController(snaps, broker)
	controller.OnAlarmSound = func() {
		fmt.Fprint(a.Stdout, "\a")
	}
	controller.Notifier = terminalNotifier{a}
	if err := controller.Restore(); err != nil {
		fmt.Fprintln(a.Stderr, warnStyle.Render("[!]")+" clock restore failed: "+err.Error())
	}

	scheduler := sched.NewScheduler(broker, terminalNotifier{a})
	if cfg.Clock.TimerTickMillis > 0 {
		scheduler.TimerTick = time.Duration(cfg.Clock.TimerTickMillis) * time.Millisecond
	}
	if cfg.Clock.StopwatchTickMillis > 0 {
		scheduler.StopwatchTick = time.Duration(cfg.Clock.StopwatchTickMillis) * time.Millisecond
	}
	if cfg.Clock.SnoozeMinutes > 0 {
		scheduler.Snooze = time.Duration(cfg.Clock.SnoozeMinutes) * time.Minute
	}
	if path, err := a.historyPath(); err == nil {
		if hist, err := storage.OpenHistory(path); err == nil {
			scheduler.SetRecorder(hist)
			defer hist.Close()
		}
	}

	// Pump scheduler broadcasts back into the controller so countdown
	// hints and the re-arm handshake work exactly as in the TUI. The
	// subscription must exist before Run, or the one-shot SCHEDULER_READY
	// announcement is lost and restored entities never re-arm.
	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)
	go func() {
		for msg := range sub {
			controller.HandleMessage(msg)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scheduler.Run(ctx)

	detector := voice.NewDetector(cfg.Voice.Wakewords)
	settings := voice.NewConfigSettings(cfg, config.Save)
	dispatcher := voice.NewDispatcher(controller, settings)
	client := assistant.FromConfig(cfg)

	input := newTalkInput()
	defer input.close()

	fmt.Fprintln(a.Stdout, titleStyle.Render("zobo talk")+
		dimStyle.Render("  type a message, or try \"set a timer for 5 minutes\"; exit to quit"))

	for {
		text, err := input.read(promptText.Render("zobo> "))
		if err != nil {
			// Ctrl+C or EOF ends the session.
			if err == liner.ErrPromptAborted {
				fmt.Fprintln(a.Stdout)
			}
			return nil
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if strings.EqualFold(text, "exit") || strings.EqualFold(text, "quit") {
			return nil
		}

		isVoice := false
		if detector.Detect(text) {
			isVoice = true
			text = detector.Strip(text)
			if text == "" {
				continue
			}
		}

		if res := dispatcher.Dispatch(text); res.Handled {
			fmt.Fprintln(a.Stdout, WrapText(res.Reply, GetTerminalWidth()))
			continue
		}

		reply := client.SendOrFallback(context.Background(), text, isVoice)
		fmt.Fprintln(a.Stdout, WrapText(reply, GetTerminalWidth()))
	}
}

// terminalNotifier prints scheduler notifications onto the REPL stream.
type terminalNotifier struct {
	app *App
}

func (t terminalNotifier) Notify(n notify.Notification) error {
	line := "\n" + titleStyle.Render("["+n.Title+"]")
	if n.Body != "" {
		line += " " + n.Body
	}
	fmt.Fprintln(t.app.Stdout, line)
	return nil
}
