// zobo - a conversational assistant with timers, alarms, and stopwatches.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zobo-ai/zobo-tui/internal/assistant"
	"github.com/zobo-ai/zobo-tui/internal/bus"
	"github.com/zobo-ai/zobo-tui/internal/cli"
	"github.com/zobo-ai/zobo-tui/internal/clock"
	"github.com/zobo-ai/zobo-tui/internal/config"
	"github.com/zobo-ai/zobo-tui/internal/notify"
	"github.com/zobo-ai/zobo-tui/internal/sched"
	"github.com/zobo-ai/zobo-tui/internal/storage"
	"github.com/zobo-ai/zobo-tui/internal/ui/app"
	"github.com/zobo-ai/zobo-tui/internal/voice"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	args := os.Args[1:]
	if len(args) == 0 || args[0] == "tui" {
		if err := runTUI(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := cli.NewApp(cfg, Version).Run(args); err != nil {
		os.Exit(1)
	}
}

// runTUI wires the foreground controller, the in-process background
// scheduler, and the Bubble Tea program together.
func runTUI(cfg *config.Config) error {
	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return err
	}

	snapshots := storage.NewSnapshotStoreWithPath(filepath.Join(dataDir, "clock.json"))
	conversations, err := storage.NewConversationStoreWithDir(filepath.Join(dataDir, "conversations"))
	if err != nil {
		return fmt.Errorf("open conversation store: %w", err)
	}
	drafts := storage.NewDraftStoreWithPath(filepath.Join(dataDir, "draft.json"))

	// The two execution contexts share nothing but the broker and the
	// notification channel.
	broker := bus.NewBroker()
	notifier := notify.NewChannelNotifier(16)

	scheduler := sched.NewScheduler(broker, notifier)
	if cfg.Clock.TimerTickMillis > 0 {
		scheduler.TimerTick = time.Duration(cfg.Clock.TimerTickMillis) * time.Millisecond
	}
	if cfg.Clock.StopwatchTickMillis > 0 {
		scheduler.StopwatchTick = time.Duration(cfg.Clock.StopwatchTickMillis) * time.Millisecond
	}
	if cfg.Clock.SnoozeMinutes > 0 {
		scheduler.Snooze = time.Duration(cfg.Clock.SnoozeMinutes) * time.Minute
	}

	history, err := storage.OpenHistory(filepath.Join(dataDir, "history.db"))
	if err != nil {
		log.Printf("WARNING: firing history unavailable: %v", err)
	} else {
		scheduler.SetRecorder(history)
		defer history.Close()
	}

	controller := clock.NewController(snapshots, broker)
	controller.Notifier = notifier
	if err := controller.Restore(); err != nil {
		log.Printf("WARNING: clock restore failed: %v", err)
	}

	var detector *voice.Detector
	var dispatcher *voice.Dispatcher
	if cfg.Voice.Enabled {
		detector = voice.NewDetector(cfg.Voice.Wakewords)
		settings := voice.NewConfigSettings(cfg, config.Save)
		dispatcher = voice.NewDispatcher(controller, settings)
	}
	client := assistant.FromConfig(cfg)

	// Resume the newest conversation; a missing one just starts fresh.
	conversation, err := conversations.LoadLatest()
	if err != nil {
		conversation = nil
	}

	m := app.New(app.Deps{
		Config:        cfg,
		Controller:    controller,
		Broker:        broker,
		Notifier:      notifier,
		Actions:       scheduler,
		Assistant:     client,
		Dispatcher:    dispatcher,
		Detector:      detector,
		Conversations: conversations,
		Drafts:        drafts,
		Conversation:  conversation,
	})

	// The model subscribed to the broker inside app.New, so the scheduler's
	// SCHEDULER_READY announcement lands in its buffer and the re-arm
	// handshake replays the restored entities. Starting the scheduler any
	// earlier loses the announcement.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scheduler.Run(ctx)

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Pick up external config edits (companion frontends write the same
	// file) while the TUI runs.
	watcher, err := config.NewWatcher(func(updated *config.Config) {
		*cfg = *updated
	})
	if err == nil {
		go func() {
			if err := watcher.Watch(); err != nil {
				log.Printf("WARNING: config watcher stopped: %v", err)
			}
		}()
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run zobo: %w", err)
	}
	return nil
}
