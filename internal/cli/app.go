// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Shared runtime (config, logger, client) for commands.

package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/megaschool/qachat/internal/api"
	"github.com/megaschool/qachat/internal/config"
	"github.com/megaschool/qachat/internal/logging"
)

// Runtime bundles what every command needs.
type Runtime struct {
	Config *config.Config
	Logger *zap.Logger
	Client *api.Client
}

// NewRuntime loads configuration, applies command-line overrides and builds
// the logger and service client.
func NewRuntime(args Args) (*Runtime, error) {
	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		return nil, err
	}
	return NewRuntimeWithConfig(cfg, args)
}

// NewRuntimeWithConfig builds a Runtime from an already loaded config.
func NewRuntimeWithConfig(cfg *config.Config, args Args) (*Runtime, error) {
	if args.URL != "" {
		cfg.API.BaseURL = args.URL
	}
	if args.Verbose {
		cfg.Log.Level = "debug"
	}

	logger, err := logging.New(logging.Options{
		Level: cfg.Log.Level,
		File:  cfg.LogFile(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	client, err := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout(),
		UserAgent: "qachat/" + Version,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, NewValidationErrorWithExample("--url", args.URL, err.Error(), "--url http://localhost:8080")
	}

	logger.Debug("runtime ready",
		zap.String("endpoint", client.Endpoint()),
		zap.Duration("timeout", cfg.API.Timeout()),
	)

	return &Runtime{Config: cfg, Logger: logger, Client: client}, nil
}

// Close flushes the logger.
func (r *Runtime) Close() {
	if r == nil || r.Logger == nil {
		return
	}
	_ = r.Logger.Sync()
}
