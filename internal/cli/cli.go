// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/zobo-ai/zobo-tui/internal/config"
	"github.com/zobo-ai/zobo-tui/internal/storage"
)

// =============================================================================
// OUTPUT STYLES
// =============================================================================

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	promptText = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
)

// =============================================================================
// APP
// =============================================================================

// App holds the shared state of all subcommands. Store fields are opened
// lazily from the configured data directory; tests inject their own.
type App struct {
	Config  *config.Config
	Version string

	Stdout io.Writer
	Stderr io.Writer

	Snapshots     *storage.SnapshotStore
	Conversations *storage.ConversationStore
	Drafts        *storage.DraftStore

	// HistoryPath locates the sqlite firing history.
	HistoryPath string
}

// NewApp creates an App writing to the standard streams.
func NewApp(cfg *config.Config, version string) *App {
	return &App{
		Config:  cfg,
		Version: version,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Run dispatches a subcommand. An empty argument list prints usage; the
// caller is expected to have routed that case to the TUI already.
func (a *App) Run(args []string) error {
	parser := NewArgParser(args)

	switch parser.Subcommand() {
	case "talk":
		return a.runTalk()
	case "status":
		return a.runStatus()
	case "config":
		return a.runConfig(parser)
	case "sessions":
		return a.runSessions(parser)
	case "history":
		return a.runHistory(parser)
	case "version":
		fmt.Fprintf(a.Stdout, "zobo %s\n", a.Version)
		return nil
	case "help", "":
		a.printUsage()
		return nil
	default:
		fmt.Fprintf(a.Stderr, "%s unknown command %q\n",
			errStyle.Render("[Error]"), parser.Subcommand())
		a.printUsage()
		return fmt.Errorf("unknown command %q", parser.Subcommand())
	}
}

func (a *App) printUsage() {
	fmt.Fprint(a.Stdout, `zobo - conversational assistant with timers, alarms, and stopwatches

Usage:
  zobo                 launch the TUI
  zobo talk            transcript REPL without the alternate screen
  zobo status          active clocks and firing history
  zobo config          show configuration
  zobo config get KEY
  zobo config set KEY VALUE
  zobo config path
  zobo sessions        list saved conversations
  zobo sessions show N
  zobo sessions export N
  zobo sessions clear --confirm
  zobo history         recent timer and alarm firings (--lines N)
  zobo version
  zobo help
`)
}

// =============================================================================
// LAZY STORE OPENING
// =============================================================================

func (a *App) openSnapshots() (*storage.SnapshotStore, error) {
	if a.Snapshots != nil {
		return a.Snapshots, nil
	}
	dir, err := a.Config.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	a.Snapshots = storage.NewSnapshotStoreWithPath(filepath.Join(dir, "clock.json"))
	return a.Snapshots, nil
}

func (a *App) openConversations() (*storage.ConversationStore, error) {
	if a.Conversations != nil {
		return a.Conversations, nil
	}
	dir, err := a.Config.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	store, err := storage.NewConversationStoreWithDir(filepath.Join(dir, "conversations"))
	if err != nil {
		return nil, err
	}
	a.Conversations = store
	return store, nil
}

func (a *App) historyPath() (string, error) {
	if a.HistoryPath != "" {
		return a.HistoryPath, nil
	}
	dir, err := a.Config.ResolveDataDir()
	if err != nil {
		return "", err
	}
	a.HistoryPath = filepath.Join(dir, "history.db")
	return a.HistoryPath, nil
}
