// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case ReplyMsg:
		return m.handleReply(msg)

	case ExportDoneMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("Export failed: %v", msg.Err)
			m.logger.Warn("export failed", zap.Error(msg.Err))
		} else {
			m.status = "Exported to " + msg.Path
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	vpHeight := msg.Height - chromeHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
	}
	m.input.Width = msg.Width - 4

	m.refreshViewport(true)
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Redraw):
		m.refreshViewport(false)
		return m, tea.ClearScreen

	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.Up):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.SetInput(m.input.Value())
	return m, cmd
}

// submit runs a registered slash command, or sends the input as a request.
func (m Model) submit() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	m.session.SetInput(value)

	if handler, args, ok := lookupCommand(value); ok {
		m.input.Reset()
		m.session.SetInput("")
		return handler(m, args)
	}
	m.session.SetInput(unescapeQuery(value))

	req, ok := m.session.Submit()
	if !ok {
		return m, nil
	}

	m.input.Reset()
	m.pending++
	m.status = ""
	m.refreshViewport(true)

	m.logger.Debug("submitted", zap.Int("request_id", req.ID), zap.Int("pending", m.pending))
	return m, dispatchCmd(m.dispatcher, req)
}

func (m Model) handleReply(msg ReplyMsg) (tea.Model, tea.Cmd) {
	out := msg.Outcome
	if m.pending > 0 {
		m.pending--
	}

	atBottom := m.viewport.AtBottom()
	m.session.Resolve(out.Request, out.Reply, out.Err)
	m.refreshViewport(atBottom)
	return m, nil
}

// refreshViewport re-renders the transcript into the viewport.
func (m *Model) refreshViewport(gotoBottom bool) {
	if !m.ready {
		return
	}
	content := m.renderTranscript()
	if m.showHelp {
		content = strings.TrimRight(content, "\n") + "\n\n" + m.renderHelp()
	}
	m.viewport.SetContent(content)
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}
