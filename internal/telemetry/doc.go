// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry tracks request statistics for a chat session.
//
// # Usage
//
//	stats := telemetry.NewRequestStats()
//	stats.Record(query, duration, err)
//	snap := stats.Snapshot()
//	fmt.Println(snap)
//
// RequestStats is safe for concurrent use; the TUI records outcomes from
// the goroutines that run its requests.
package telemetry
