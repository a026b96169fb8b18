// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists benchmark history in SQLite.
//
// Each recorded run stores its summary and per-case pass counts in
// ~/.qachat/bench.db (configurable). The database uses the pure Go
// modernc.org/sqlite driver so no cgo toolchain is required.
package storage
