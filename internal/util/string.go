// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// TruncateRunes truncates a string to a maximum number of runes (characters).
// If the string is truncated, "..." is appended.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// Wrap breaks text into lines no wider than width terminal columns. Existing
// newlines are kept. Wide characters (CJK, emoji) count as two columns. Words
// are kept whole when they fit; longer words are split.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	if runewidth.StringWidth(line) <= width {
		return []string{line}
	}

	var (
		result  []string
		current strings.Builder
		curW    int
	)
	flush := func() {
		result = append(result, current.String())
		current.Reset()
		curW = 0
	}

	for _, word := range strings.Fields(line) {
		wordW := runewidth.StringWidth(word)

		if curW > 0 && curW+1+wordW <= width {
			current.WriteByte(' ')
			current.WriteString(word)
			curW += 1 + wordW
			continue
		}
		if curW > 0 {
			flush()
		}
		if wordW <= width {
			current.WriteString(word)
			curW = wordW
			continue
		}

		// Split a word wider than the line
		for _, r := range word {
			rw := runewidth.RuneWidth(r)
			if curW+rw > width && curW > 0 {
				flush()
			}
			current.WriteRune(r)
			curW += rw
		}
	}
	if curW > 0 {
		flush()
	}
	return result
}
