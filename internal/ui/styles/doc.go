// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the qachat TUI.
//
// Colors are Lip Gloss AdaptiveColor values so the same palette works on
// light and dark terminals. Theme bundles the styles the chat screen uses
// and records the detected terminal capabilities.
//
// Usage:
//
//	theme := styles.NewTheme(styles.ModeAuto)
//	fmt.Println(theme.UserLine.Render("user: hello"))
package styles
