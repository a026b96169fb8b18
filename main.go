// qachat - terminal chat client for a question-answering service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/megaschool/qachat/internal/cli"
	"github.com/megaschool/qachat/internal/session"
	"github.com/megaschool/qachat/internal/ui/chat"
	"github.com/megaschool/qachat/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdBench:
		cli.HandleBench(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		cli.HandleHelp()
		os.Exit(cli.ExitUsageError)
	}
}

// runTUI starts the full-screen chat. Request failures become transcript
// entries; only startup errors end the program.
func runTUI(args cli.Args) {
	rt, err := cli.NewRuntime(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
	defer rt.Close()

	mode, err := styles.ParseMode(rt.Config.UI.Theme)
	if err != nil {
		mode = styles.ModeAuto
	}

	sess := session.New()
	rt.Logger.Info("tui session started",
		zap.String("session_id", sess.ID()),
		zap.String("endpoint", rt.Client.Endpoint()),
	)

	model := chat.New(chat.Config{
		Session:        sess,
		Dispatcher:     session.NewDispatcher(rt.Client, rt.Logger),
		Theme:          styles.NewTheme(mode),
		Logger:         rt.Logger,
		Endpoint:       rt.Client.Endpoint(),
		ShowTimestamps: rt.Config.UI.ShowTimestamps,
		ExportDir:      rt.Config.UI.ExportDir,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		rt.Logger.Error("tui exited with error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		rt.Close()
		os.Exit(1)
	}

	rt.Logger.Info("tui session ended",
		zap.String("session_id", sess.ID()),
		zap.Int("entries", sess.Conversation().Len()),
	)
}
