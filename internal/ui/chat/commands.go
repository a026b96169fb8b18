// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/megaschool/qachat/internal/export"
)

// CommandHandler handles one slash command.
type CommandHandler func(m Model, args []string) (tea.Model, tea.Cmd)

var commandHandlers map[string]CommandHandler

func init() {
	commandHandlers = map[string]CommandHandler{
		"help":   handleHelpCommand,
		"?":      handleHelpCommand,
		"export": handleExportCommand,
		"e":      handleExportCommand,
		"stats":  handleStatsCommand,
		"quit":   handleQuitCommand,
		"q":      handleQuitCommand,
		"exit":   handleQuitCommand,
	}
}

// lookupCommand returns the handler for input when it names a registered
// slash command. Anything else, including unknown "/x" text, is a query.
func lookupCommand(input string) (CommandHandler, []string, bool) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") || strings.HasPrefix(trimmed, "//") {
		return nil, nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(trimmed, "/"))
	if len(fields) == 0 {
		return nil, nil, false
	}
	handler, ok := commandHandlers[strings.ToLower(fields[0])]
	if !ok {
		return nil, nil, false
	}
	return handler, fields[1:], true
}

// unescapeQuery turns a leading "//" into a literal "/".
func unescapeQuery(input string) string {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "//") {
		return trimmed[1:]
	}
	return input
}

func handleHelpCommand(m Model, _ []string) (tea.Model, tea.Cmd) {
	m.showHelp = !m.showHelp
	m.refreshViewport(true)
	return m, nil
}

func handleStatsCommand(m Model, _ []string) (tea.Model, tea.Cmd) {
	m.status = "Requests: " + m.dispatcher.Stats().Snapshot().String()
	return m, nil
}

func handleQuitCommand(m Model, _ []string) (tea.Model, tea.Cmd) {
	return m, tea.Quit
}

// handleExportCommand parses "/export [md|json] [path]".
func handleExportCommand(m Model, args []string) (tea.Model, tea.Cmd) {
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
		m.status = err.Error()
		return m, nil
	}

	t := export.NewTranscript(m.session.ID(), m.endpoint, m.session.StartTime(), m.session.Entries())
	m.status = "Exporting..."
	return m, exportCmd(t, exporter, path, m.exportDir)
}
