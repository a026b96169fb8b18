// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who produced a transcript entry.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// Valid reports whether s is one of the known senders.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderBot
}

// =============================================================================
// ENTRY TYPE
// =============================================================================

// Entry is a single transcript line. Entries are values and are never
// mutated after creation.
type Entry struct {
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`

	// RequestID links the entry to the PendingRequest that produced it.
	// Zero means the entry is not tied to a request (local notices).
	RequestID int `json:"request_id,omitempty"`
}

// NewEntry creates an entry stamped with the current time.
func NewEntry(sender Sender, text string, requestID int) Entry {
	return Entry{
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
		RequestID: requestID,
	}
}

// NewUserEntry creates the optimistic user entry for a submitted query.
func NewUserEntry(text string, requestID int) Entry {
	return NewEntry(SenderUser, text, requestID)
}

// NewBotEntry creates a bot entry.
func NewBotEntry(text string, requestID int) Entry {
	return NewEntry(SenderBot, text, requestID)
}

// IsUser returns true if the entry was typed by the user.
func (e Entry) IsUser() bool {
	return e.Sender == SenderUser
}

// Line renders the entry the way the transcript shows it: "sender: text".
func (e Entry) Line() string {
	return e.Sender.String() + ": " + e.Text
}
