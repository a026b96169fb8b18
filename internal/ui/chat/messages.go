// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/megaschool/qachat/internal/export"
	"github.com/megaschool/qachat/internal/model"
	"github.com/megaschool/qachat/internal/session"
)

// =============================================================================
// MESSAGES
// =============================================================================

// ReplyMsg delivers the outcome of one dispatched request.
type ReplyMsg struct {
	Outcome session.Outcome
}

// ExportDoneMsg reports the result of a /export command.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// =============================================================================
// COMMANDS
// =============================================================================

// dispatchCmd runs one request in the background. The request is never
// cancelled; the HTTP client's timeout bounds it when one is configured.
func dispatchCmd(d *session.Dispatcher, req model.PendingRequest) tea.Cmd {
	return func() tea.Msg {
		return ReplyMsg{Outcome: d.Dispatch(context.Background(), req)}
	}
}

// exportCmd writes the transcript off the UI goroutine.
func exportCmd(t *export.Transcript, exporter export.Exporter, path, dir string) tea.Cmd {
	return func() tea.Msg {
		var (
			written string
			err     error
		)
		if path != "" {
			written, err = export.ExportToPath(t, exporter, path)
		} else {
			written, err = export.ExportToFile(t, exporter, dir)
		}
		return ExportDoneMsg{Path: written, Err: err}
	}
}
