// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// =============================================================================
// REQUEST / REPLY TYPES
// =============================================================================

// PendingRequest is the body of one outbound call. It lives only for the
// duration of that call.
type PendingRequest struct {
	Query string `json:"query"`
	ID    int    `json:"id"`
}

// BotReply is the expected shape of a successful response body. Fields are
// only checked for presence; absent values render as placeholders.
type BotReply struct {
	// ID echoes the request id when the service includes it.
	ID *int `json:"id,omitempty"`

	// Answer is kept raw because services send a string, a number, or null.
	Answer json.RawMessage `json:"answer"`

	Reasoning *string  `json:"reasoning"`
	Sources   []string `json:"sources"`

	// Raw is the response body as received.
	Raw json.RawMessage `json:"-"`
}

// NullText is the literal rendered for a null or missing field.
const NullText = "null"

// NoLinksPlaceholder is rendered when a reply carries no sources.
const NoLinksPlaceholder = "(no links)"

// AnswerText returns the answer as display text. A JSON string renders its
// contents, null or a missing field renders "null", and any other JSON value
// renders its literal text.
func (r *BotReply) AnswerText() string {
	raw := bytes.TrimSpace(r.Answer)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return NullText
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

// AnswerInt returns the answer as an integer when it is a JSON number or a
// numeric string. The service answers multiple-choice questions
// with the chosen option number.
func (r *BotReply) AnswerInt() (int, bool) {
	text := r.AnswerText()
	if text == NullText {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, false
	}
	return n, true
}

// ReasoningText returns the reasoning or "null" if it was missing.
func (r *BotReply) ReasoningText() string {
	if r.Reasoning == nil {
		return NullText
	}
	return *r.Reasoning
}

// SourcesText returns the comma-separated sources or the no-links placeholder.
func (r *BotReply) SourcesText() string {
	if len(r.Sources) == 0 {
		return NoLinksPlaceholder
	}
	return strings.Join(r.Sources, ", ")
}

// =============================================================================
// RENDERING
// =============================================================================

// ReplyEntries renders a successful reply as exactly three bot entries in
// fixed order: answer, reasoning, sources.
func ReplyEntries(reply *BotReply, requestID int) []Entry {
	if reply == nil {
		reply = &BotReply{}
	}
	return []Entry{
		NewBotEntry("answer: "+reply.AnswerText(), requestID),
		NewBotEntry("reasoning: "+reply.ReasoningText(), requestID),
		NewBotEntry("sources: "+reply.SourcesText(), requestID),
	}
}

// ErrorPrefix starts the text of every error entry.
const ErrorPrefix = "Error: "

// IsError reports whether e is an error entry.
func (e Entry) IsError() bool {
	return e.Sender == SenderBot && strings.HasPrefix(e.Text, ErrorPrefix)
}

// ErrorEntry renders a failed request as a single bot entry.
func ErrorEntry(err error, requestID int) Entry {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return NewBotEntry(ErrorPrefix+msg, requestID)
}
