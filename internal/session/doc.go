// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the chat view state and dispatches requests.
//
// A Session owns the conversation, the input buffer and the request id
// counter. It is confined to the goroutine that drives the UI. The
// Dispatcher performs one remote call per submission and reports an
// Outcome that the owner folds back into the Session with Resolve.
//
// Typical flow:
//
//	req, ok := sess.Submit()
//	if ok {
//		out := dispatcher.Dispatch(ctx, req)
//		sess.Resolve(out.Request, out.Reply, out.Err)
//	}
package session
