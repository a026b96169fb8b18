// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command dispatch and global flag parsing.

package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information, synced from main.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// COMMANDS
// =============================================================================

// Command identifies the command selected on the command line.
type Command int

const (
	// CmdTUI starts the full-screen chat (default)
	CmdTUI Command = iota
	// CmdAsk sends one query and prints the reply
	CmdAsk
	// CmdChat starts the line-mode chat
	CmdChat
	// CmdBench runs or lists answer benchmarks
	CmdBench
	// CmdConfig manages configuration
	CmdConfig
	// CmdVersion prints version information
	CmdVersion
	// CmdHelp prints usage
	CmdHelp
)

var commandNames = map[string]Command{
	"tui":       CmdTUI,
	"ask":       CmdAsk,
	"chat":      CmdChat,
	"bench":     CmdBench,
	"benchmark": CmdBench,
	"config":    CmdConfig,
	"version":   CmdVersion,
	"help":      CmdHelp,
}

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdAsk:
		return "ask"
	case CmdChat:
		return "chat"
	case CmdBench:
		return "bench"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// =============================================================================
// ARGS
// =============================================================================

// Args holds the parsed command line.
type Args struct {
	// Global flags
	URL        string // --url overrides api.base_url
	ConfigPath string // --config
	Quiet      bool
	Verbose    bool
	JSON       bool

	// ask
	Query string
	ID    int

	// Err holds a flag error found while parsing, reported when the
	// command runs.
	Err error

	// Subcommand and remaining arguments for bench/config
	Subcommand string
	Raw        []string
}

const usageText = `qachat - terminal client for a question-answering service

Usage:
  qachat [flags]                      Start the full-screen chat
  qachat ask [--id N] "question"      Send one query and print the reply
  qachat chat                         Line-mode chat with history
  qachat bench [run] [flags]          Run the answer benchmark
  qachat bench history [--limit N]    List recorded benchmark runs
  qachat bench show <run-id>          Show one recorded run
  qachat config [show|path|keys|get|set|init]
  qachat version

Global flags:
  --url URL        Service base URL (overrides config and QACHAT_API_URL)
  --config PATH    Config file (default ~/.qachat/config.toml)
  -q, --quiet      Less output
  -v, --verbose    Debug logging
  --json           Machine-readable output

Bench flags:
  --cases PATH     TOML file of [[case]] tables (default: built-in set)
  --repeat N       Runs per case (default 5)
  --workers N      Concurrent requests (default 10)
  --rps N          Request rate limit, 0 for none
  --timeout D      Per-request timeout, e.g. 60s
  --record         Store the run in the history database

TUI keys:
  Enter send   Up/Down/PgUp/PgDn scroll   Ctrl+L redraw   Esc/Ctrl+C quit
  /export [md|json] [path]   /help   /quit
`

// globalBoolFlags never take a value.
var globalBoolFlags = []string{"q", "quiet", "v", "verbose", "json", "record", "h", "help"}

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses argv (without the program name). Global flags may appear
// anywhere; the first positional selects the command. Unknown words are
// treated as an ask query so `qachat "what is X"` works.
func ParseArgs(argv []string) (Command, Args) {
	var args Args
	var rest []string

	for i := 0; i < len(argv); i++ {
		a := argv[i]
		name, value, hasValue := strings.Cut(strings.TrimLeft(a, "-"), "=")
		if !strings.HasPrefix(a, "-") {
			rest = append(rest, a)
			continue
		}

		switch name {
		case "url", "config":
			if !hasValue {
				if i+1 >= len(argv) {
					rest = append(rest, a)
					continue
				}
				value = argv[i+1]
				i++
			}
			if name == "url" {
				args.URL = value
			} else {
				args.ConfigPath = value
			}
		case "q", "quiet":
			args.Quiet = true
		case "v", "verbose":
			args.Verbose = true
		case "json":
			args.JSON = true
		case "h", "help":
			return CmdHelp, args
		case "version":
			return CmdVersion, args
		default:
			rest = append(rest, a)
		}
	}

	if len(rest) == 0 {
		return CmdTUI, args
	}

	cmd, ok := commandNames[rest[0]]
	if !ok {
		cmd = CmdAsk
	} else {
		rest = rest[1:]
	}
	args.Raw = rest

	parser := NewArgParser(rest, globalBoolFlags...)
	switch cmd {
	case CmdAsk:
		id, err := parser.FlagInt("id", FirstAskID)
		if err != nil {
			args.Err = err
			id = FirstAskID
		}
		args.ID = id
		args.Query = parser.PositionalFrom(0)
	case CmdBench, CmdConfig:
		args.Subcommand = parser.Subcommand()
	}

	return cmd, args
}

// FirstAskID is the request id `ask` uses without --id.
const FirstAskID = 1

// =============================================================================
// HELP AND VERSION
// =============================================================================

// HandleHelp prints usage.
func HandleHelp() {
	printUsage(os.Stdout)
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// HandleVersion prints version information.
func HandleVersion(args Args) {
	data := VersionData{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if args.JSON {
		_ = NewJSONResponse("version", data).Print()
		return
	}

	fmt.Printf("%s %s\n", TitleStyle.Render("qachat"), data.Version)
	if !args.Quiet {
		fmt.Printf("%s%s\n", RenderLabel("Commit:"), data.GitCommit)
		fmt.Printf("%s%s\n", RenderLabel("Built:"), data.BuildDate)
		fmt.Printf("%s%s %s\n", RenderLabel("Go:"), data.GoVersion, data.Platform)
	}
}
