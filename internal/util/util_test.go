// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "deep", "out.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("hello"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestAtomicWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("initial"), 0644))
	require.NoError(t, AtomicWriteFile(path, []byte("updated"), 0600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "updated", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 3, "hel"},
		{"hello", 0, ""},
		{"привет мир", 7, "прив..."},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, TruncateRunes(tc.in, tc.max), tc.in)
	}
}

func TestWrap_ShortLinesUntouched(t *testing.T) {
	assert.Equal(t, "user: hi\nbot: answer: 1", Wrap("user: hi\nbot: answer: 1", 40))
	assert.Equal(t, "anything", Wrap("anything", 0))
}

func TestWrap_BreaksOnWords(t *testing.T) {
	got := Wrap("reasoning: the answer is two because", 15)

	for _, line := range strings.Split(got, "\n") {
		assert.LessOrEqual(t, runewidth.StringWidth(line), 15, line)
	}
	assert.Equal(t, "reasoning: the answer is two because", strings.Join(strings.Split(got, "\n"), " "))
}

func TestWrap_SplitsLongWords(t *testing.T) {
	got := Wrap("https://itmo.ru/ru/page/very/long/path", 10)

	lines := strings.Split(got, "\n")
	assert.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, runewidth.StringWidth(line), 10)
	}
	assert.Equal(t, "https://itmo.ru/ru/page/very/long/path", strings.Join(lines, ""))
}

func TestWrap_WideRunes(t *testing.T) {
	got := Wrap("日本語のテキスト", 6)
	for _, line := range strings.Split(got, "\n") {
		assert.LessOrEqual(t, runewidth.StringWidth(line), 6)
	}
}
