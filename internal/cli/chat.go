// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-mode chat with input history.
//
// Usage:
//
//	qachat chat
//
// Each query blocks until its reply arrives; replies print as transcript
// lines. Commands: /help, /export [md|json] [path], /stats, /quit.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/megaschool/qachat/internal/config"
	"github.com/megaschool/qachat/internal/export"
	"github.com/megaschool/qachat/internal/session"
)

// chatPrompt is shown before every input line.
const chatPrompt = "you> "

// =============================================================================
// LINE EDITOR WITH HISTORY
// =============================================================================

// lineReader reads one line of input. io.EOF or liner.ErrPromptAborted ends
// the chat.
type lineReader interface {
	ReadInput(prompt string) (string, error)
}

// ChatCLI wraps liner with a history file in the config directory.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a line editor and loads saved history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	c.LoadHistory()
	return c
}

// LoadHistory reads the history file if it exists.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput prompts for one line and records non-blank input in history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory writes history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// HandleChat runs `qachat chat`.
func HandleChat(args Args) {
	rt, err := NewRuntime(args)
	exitOnError(err, false)

	editor := NewChatCLI()
	loop := &chatLoop{
		session:    session.New(),
		dispatcher: session.NewDispatcher(rt.Client, rt.Logger),
		endpoint:   rt.Client.Endpoint(),
		exportDir:  rt.Config.UI.ExportDir,
		logger:     rt.Logger,
		out:        os.Stdout,
		quiet:      args.Quiet,
	}
	err = loop.run(context.Background(), editor)

	editor.Close()
	rt.Close()
	exitOnError(err, false)
}

// chatLoop drives one Session from a line reader.
type chatLoop struct {
	session    *session.Session
	dispatcher *session.Dispatcher
	endpoint   string
	exportDir  string
	logger     *zap.Logger
	out        io.Writer
	quiet      bool
}

// run reads lines until EOF, abort or /quit.
func (l *chatLoop) run(ctx context.Context, in lineReader) error {
	if !l.quiet {
		fmt.Fprintf(l.out, "%s %s\n", TitleStyle.Render("qachat"), DimStyle.Render(l.endpoint))
		fmt.Fprintln(l.out, DimStyle.Render("Type /help for commands, /quit to leave."))
	}

	for {
		line, err := in.ReadInput(chatPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(l.out)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if fields, ok := chatCommand(line); ok {
			if quit := l.command(fields); quit {
				return nil
			}
			continue
		}
		if trimmed := strings.TrimSpace(line); strings.HasPrefix(trimmed, "//") {
			line = trimmed[1:]
		}

		l.session.SetInput(line)
		req, ok := l.session.Submit()
		if !ok {
			continue
		}

		outcome := l.dispatcher.Dispatch(ctx, req)
		for _, e := range l.session.Resolve(outcome.Request, outcome.Reply, outcome.Err) {
			fmt.Fprintln(l.out, renderEntry(e))
		}
	}
}

// chatCommands lists the slash command names. Other "/" input is a query.
var chatCommands = map[string]bool{
	"quit": true, "q": true, "exit": true,
	"help": true, "?": true,
	"stats":  true,
	"export": true, "e": true,
}

// chatCommand splits line when it names a registered slash command.
func chatCommand(line string) ([]string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "/") || strings.HasPrefix(trimmed, "//") {
		return nil, false
	}
	fields := strings.Fields(trimmed[1:])
	if len(fields) == 0 || !chatCommands[strings.ToLower(fields[0])] {
		return nil, false
	}
	return fields, true
}

// command runs a registered slash command and reports whether the chat
// should end.
func (l *chatLoop) command(fields []string) bool {
	switch strings.ToLower(fields[0]) {
	case "quit", "q", "exit":
		return true
	case "help", "?":
		fmt.Fprintln(l.out, DimStyle.Render("Commands: /export [md|json] [path], /stats, /help, /quit (start with // to send a literal /)"))
	case "stats":
		fmt.Fprint(l.out, l.dispatcher.Stats().Snapshot().Report())
	case "export", "e":
		l.export(fields[1:])
	}
	return false
}

func (l *chatLoop) export(args []string) {
	format := export.FormatMarkdown
	path := ""
	if len(args) > 0 {
		format = args[0]
	}
	if len(args) > 1 {
		path = args[1]
	}

	exporter, err := export.ForFormat(format, nil)
	if err != nil {
		fmt.Fprintln(l.out, ErrorStyle.Render("Export failed: "+err.Error()))
		return
	}

	t := export.NewTranscript(l.session.ID(), l.endpoint, l.session.StartTime(), l.session.Entries())
	var written string
	if path != "" {
		written, err = export.ExportToPath(t, exporter, path)
	} else {
		written, err = export.ExportToFile(t, exporter, l.exportDir)
	}
	if err != nil {
		l.logger.Warn("export failed", zap.Error(err))
		fmt.Fprintln(l.out, ErrorStyle.Render("Export failed: "+err.Error()))
		return
	}
	fmt.Fprintln(l.out, SuccessStyle.Render("Exported to "+written))
}
