// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript and the
// request/reply shapes exchanged with the question-answering service.
//
// # Key Types
//
//   - Entry: One immutable transcript line tagged with its Sender
//   - Conversation: Append-only, insertion-ordered sequence of entries
//   - PendingRequest: The outbound query plus its sequence identifier
//   - BotReply: The parsed body of a successful service response
//
// # Rendering
//
// A successful reply always renders as exactly three bot entries
// (answer, reasoning, sources). A failure renders as exactly one:
//
//	entries := model.ReplyEntries(reply, req.ID)
//	conv.Append(entries...)
//
//	conv.Append(model.ErrorEntry(err, req.ID))
package model
