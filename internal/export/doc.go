// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes chat transcripts to files.
//
// Supported formats:
//
//   - Markdown (.md): one line per entry, grouped under the request that
//     produced it, with optional metadata header.
//   - JSON (.json): the complete transcript, suitable for tooling.
//
// Usage:
//
//	t := export.NewTranscript(sess.ID(), client.Endpoint(), sess.StartTime(), sess.Entries())
//	path, err := export.ExportToFile(t, export.NewMarkdownExporter(nil), "./exports")
package export
