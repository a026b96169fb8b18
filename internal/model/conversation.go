// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Conversation is the ordered transcript of one session. It only grows:
// there is no removal or editing, and a fresh Conversation is the only way
// to reset it.
type Conversation struct {
	entries []Entry
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{entries: make([]Entry, 0, 16)}
}

// Append adds entries to the end of the conversation in the given order.
func (c *Conversation) Append(entries ...Entry) {
	c.entries = append(c.entries, entries...)
}

// Entries returns a copy of the transcript so callers cannot reorder it.
func (c *Conversation) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries.
func (c *Conversation) Len() int {
	return len(c.entries)
}
