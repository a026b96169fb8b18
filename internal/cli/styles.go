// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared lipgloss styles for line-mode output.

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/megaschool/qachat/internal/model"
	"github.com/megaschool/qachat/internal/ui/styles"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

var (
	// TitleStyle is used for command headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Purple)

	// LabelStyle is used for left-aligned field labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(20)

	ValueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	// DimStyle is used for hints and secondary information
	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	userStyle = lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	botStyle  = lipgloss.NewStyle().Foreground(styles.Purple)
)

// RenderLabel renders a fixed-width label.
func RenderLabel(label string) string {
	return LabelStyle.Render(label)
}

// renderEntry styles one transcript line for line-mode output.
func renderEntry(e model.Entry) string {
	switch {
	case e.IsUser():
		return userStyle.Render(e.Line())
	case e.IsError():
		return ErrorStyle.Render(e.Line())
	default:
		return botStyle.Render(e.Line())
	}
}
