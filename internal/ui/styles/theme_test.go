// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"", ModeAuto},
		{"auto", ModeAuto},
		{"Dark", ModeDark},
		{" light ", ModeLight},
	}
	for _, tc := range tests {
		got, err := ParseMode(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}

	_, err := ParseMode("neon")
	assert.Error(t, err)
}

func TestNewTheme_ModeOverridesBackground(t *testing.T) {
	assert.True(t, NewTheme(ModeDark).IsDark)
	assert.False(t, NewTheme(ModeLight).IsDark)
}

func TestNewTheme_StylesRenderText(t *testing.T) {
	theme := NewTheme(ModeAuto)

	for name, style := range map[string]interface{ Render(...string) string }{
		"UserLine":  theme.UserLine,
		"BotLine":   theme.BotLine,
		"ErrorLine": theme.ErrorLine,
		"Header":    theme.Header,
		"StatusBar": theme.StatusBar,
	} {
		assert.Contains(t, style.Render("user: hi"), "user: hi", name)
	}
}
