// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the question-answering service.
//
// The service exposes a single endpoint:
//
//	POST {base}/api/request
//	Content-Type: application/json
//	{"query": "...", "id": 1}
//
// and answers with {"answer": ..., "reasoning": "...", "sources": [...]}.
//
// # Errors
//
// Every failure is a *ClientError with one of two types:
//
//   - ErrTypeHTTPStatus: a response arrived with a status outside 2xx
//   - ErrTypeTransport: the call could not complete or the body did not decode
//
// Callers that only render the failure can use err.Error() directly; the
// helpers IsHTTPStatus, IsTransport and StatusCode are there for the rest.
//
// # Usage
//
//	client := api.NewClient("http://localhost:8080")
//	reply, err := client.Ask(ctx, model.PendingRequest{Query: "hi", ID: 1})
package api
