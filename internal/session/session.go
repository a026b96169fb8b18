// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/megaschool/qachat/internal/model"
)

// FirstRequestID is the id given to the first submission of a session.
const FirstRequestID = 1

// =============================================================================
// SESSION
// =============================================================================

// Session is the state behind one chat screen. It is not safe for
// concurrent use.
type Session struct {
	id        string
	startTime time.Time

	conversation *model.Conversation
	input        string
	nextID       int
}

// New creates an empty session with a fresh id.
func New() *Session {
	return &Session{
		id:           uuid.New().String(),
		startTime:    time.Now(),
		conversation: model.NewConversation(),
		nextID:       FirstRequestID,
	}
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// StartTime returns when the session was created.
func (s *Session) StartTime() time.Time {
	return s.startTime
}

// SetInput replaces the input buffer.
func (s *Session) SetInput(text string) {
	s.input = text
}

// Input returns the input buffer.
func (s *Session) Input() string {
	return s.input
}

// NextID returns the id the next submission will use.
func (s *Session) NextID() int {
	return s.nextID
}

// Append adds entries to the conversation.
func (s *Session) Append(entries ...model.Entry) {
	s.conversation.Append(entries...)
}

// Conversation returns the session transcript.
func (s *Session) Conversation() *model.Conversation {
	return s.conversation
}

// Entries returns a copy of the transcript entries.
func (s *Session) Entries() []model.Entry {
	return s.conversation.Entries()
}

// =============================================================================
// SUBMIT / RESOLVE
// =============================================================================

// Submit turns the input buffer into a request. Whitespace-only input is
// ignored and leaves the buffer and counter untouched. Otherwise the user
// entry is appended, the counter is consumed and the buffer is cleared.
func (s *Session) Submit() (model.PendingRequest, bool) {
	query := strings.TrimSpace(s.input)
	if query == "" {
		return model.PendingRequest{}, false
	}

	req := model.PendingRequest{Query: query, ID: s.nextID}
	s.nextID++

	s.conversation.Append(model.NewUserEntry(query, req.ID))
	s.input = ""
	return req, true
}

// Resolve appends the entries for a finished request and returns them.
// A non-nil err produces a single error entry; otherwise the reply is
// rendered as answer, reasoning and sources.
func (s *Session) Resolve(req model.PendingRequest, reply *model.BotReply, err error) []model.Entry {
	var entries []model.Entry
	if err != nil {
		entries = []model.Entry{model.ErrorEntry(err, req.ID)}
	} else {
		entries = model.ReplyEntries(reply, req.ID)
	}
	s.conversation.Append(entries...)
	return entries
}
