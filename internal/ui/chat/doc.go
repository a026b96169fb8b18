// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea chat screen.
//
// The screen has three parts:
//
//   - Header: service endpoint and the number of requests in flight
//   - Transcript: a scrollable viewport of "sender: text" lines
//   - Input: a single-line text input; Enter sends
//
// Each submission runs as its own tea.Cmd, so several requests may be in
// flight at once. Replies are appended in the order they complete.
//
// Lines starting with "/" are handled locally:
//
//	/export [md|json] [path]   write the transcript to a file
//	/help                      toggle the help panel
//	/quit                      leave the program
package chat
