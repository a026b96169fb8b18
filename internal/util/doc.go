// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across qachat.
//
//   - AtomicWriteFile: crash-safe file writes (config, exports)
//   - TruncateRunes: UTF-8 safe truncation for log fields and previews
//   - Wrap: display-width aware line wrapping for the transcript
package util
