// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/megaschool/qachat/internal/model"
	"github.com/megaschool/qachat/internal/util"
)

const emptyStateText = "No messages yet. Type a question and press Enter."

// View renders the chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderInput(),
		m.renderStatus(),
	)
}

func (m Model) renderHeader() string {
	left := m.theme.HeaderTitle.Render("qachat") + " " + m.theme.HeaderSubtitle.Render(m.endpoint)

	right := ""
	if m.pending > 0 {
		right = m.spinner.View() + m.theme.Pending.Render(fmt.Sprintf(" %d pending", m.pending))
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderTranscript renders every entry as wrapped "sender: text" lines.
func (m Model) renderTranscript() string {
	entries := m.session.Entries()
	if len(entries) == 0 {
		return m.theme.Notice.Render(emptyStateText)
	}

	width := m.viewport.Width
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(m.renderEntry(e, width))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (m Model) renderEntry(e model.Entry, width int) string {
	prefix := ""
	if m.showTimestamps && !e.Timestamp.IsZero() {
		prefix = m.theme.Timestamp.Render(e.Timestamp.Format("15:04:05")) + " "
		width -= 9
	}

	text := util.Wrap(e.Line(), width)

	style := m.theme.BotLine
	switch {
	case e.IsUser():
		style = m.theme.UserLine
	case e.IsError():
		style = m.theme.ErrorLine
	}
	return prefix + style.Render(text)
}

func (m Model) renderHelp() string {
	var sb strings.Builder
	sb.WriteString(m.theme.HeaderTitle.Render("Help"))
	sb.WriteByte('\n')
	for _, group := range m.keyMap.FullHelp() {
		for _, b := range group {
			h := b.Help()
			fmt.Fprintf(&sb, "  %s %s\n", m.theme.ShortcutKey.Render(fmt.Sprintf("%-8s", h.Key)), m.theme.ShortcutDesc.Render(h.Desc))
		}
	}
	sb.WriteString(m.theme.Notice.Render("  /export [md|json] [path]   save the transcript"))
	sb.WriteByte('\n')
	sb.WriteString(m.theme.Notice.Render("  /stats                     request count and latency"))
	sb.WriteByte('\n')
	sb.WriteString(m.theme.Notice.Render("  /help                      toggle this panel"))
	sb.WriteByte('\n')
	sb.WriteString(m.theme.Notice.Render("  /quit                      exit"))
	return sb.String()
}

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width).Render(m.input.View())
}

func (m Model) renderStatus() string {
	if m.status != "" {
		return m.theme.StatusBar.Render(m.status)
	}
	parts := make([]string, 0, 4)
	for _, b := range m.keyMap.ShortHelp() {
		h := b.Help()
		parts = append(parts, m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}
	return m.theme.StatusBar.Render(strings.Join(parts, "  "))
}
