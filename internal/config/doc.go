// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for qachat.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env and environment variable overrides, and validation.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (QACHAT_*), including values from ./.env
//   - ~/.qachat/config.toml (or the file given with --config)
//   - ~/.qachat/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := api.NewClientWithConfig(&api.ClientConfig{
//	    BaseURL: cfg.API.BaseURL,
//	    Timeout: cfg.API.Timeout(),
//	})
package config
