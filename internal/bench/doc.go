// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bench measures answer accuracy of a question-answering service.
//
// A run sends every test case Repeat times through a bounded worker pool,
// compares each reply's answer with the expected option number, and prints
// one line per completed request:
//
//	Test 3 ✅: Correct answer 1
//	Test 4 ❌: Expected 3, got 2
//
// followed by a summary:
//
//	Results: 97/100 passed (97%)
//	Total execution time: 12.34 seconds
//
// Cases come from a TOML file or the built-in set.
package bench
