// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-TUI commands of qachat.
//
// # Key Types
//
//   - Command: enumeration of the available commands
//   - Args: parsed global flags plus the command's raw arguments
//   - ArgParser: flag and positional parsing shared by subcommands
//   - Runtime: config, logger and service client built from Args
//
// # Usage
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdAsk:
//	    cli.HandleAsk(args)
//	case cli.CmdChat:
//	    cli.HandleChat(args)
//	}
//
// # Commands
//
//   - (none), tui: full-screen chat (started by main)
//   - ask: one query, printed as transcript lines
//   - chat: line-mode chat with history
//   - bench: run the answer benchmark or list recorded runs
//   - config: show, inspect and edit the configuration
//   - version, help
//
// Handlers print "Error: ..." to stderr and exit non-zero on failure.
package cli
