// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Configuration management command.
//
// Usage:
//
//	qachat config [show]          Effective configuration as TOML
//	qachat config path            Config file location
//	qachat config keys            All settable keys
//	qachat config get <key>       One value
//	qachat config set <key> <v>   Update the config file
//	qachat config init [--force]  Write a default config file

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/megaschool/qachat/internal/config"
)

// HandleConfig runs `qachat config`.
func HandleConfig(args Args) {
	exitOnError(runConfig(args, os.Stdout), args.JSON)
}

func runConfig(args Args, out io.Writer) error {
	parser := NewArgParser(args.Raw, append([]string{"force"}, globalBoolFlags...)...)

	switch args.Subcommand {
	case "", "show":
		return configShow(args, out)
	case "path":
		path, err := configFilePath(args)
		if err != nil {
			return err
		}
		if args.JSON {
			return NewJSONResponse("config path", map[string]string{"path": path}).Fprint(out)
		}
		fmt.Fprintln(out, path)
		return nil
	case "keys":
		for _, k := range config.GetAllKeys() {
			fmt.Fprintln(out, k)
		}
		return nil
	case "get":
		return configGet(args, parser, out)
	case "set":
		return configSet(args, parser, out)
	case "init":
		return configInit(args, parser, out)
	default:
		return NewValidationErrorWithExample("config subcommand", args.Subcommand,
			"expected show, path, keys, get, set or init", "qachat config set api.base_url http://localhost:8080")
	}
}

// configFilePath returns --config or the default TOML location.
func configFilePath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	path, err := config.ConfigPathTOML()
	if err != nil {
		return "", NewCommandError("config", "path", "could not resolve config directory", err)
	}
	return path, nil
}

func configShow(args Args, out io.Writer) error {
	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		return err
	}
	if args.URL != "" {
		cfg.API.BaseURL = args.URL
	}
	path, err := configFilePath(args)
	if err != nil {
		return err
	}

	if args.JSON {
		values := make(map[string]interface{})
		for _, k := range config.GetAllKeys() {
			if v, err := cfg.Get(k); err == nil {
				values[k] = v
			}
		}
		return NewJSONResponse("config show", ConfigData{Path: path, Values: values}).Fprint(out)
	}

	if !args.Quiet {
		fmt.Fprintln(out, DimStyle.Render("# "+path))
	}
	fmt.Fprint(out, cfg.String())
	return nil
}

func configGet(args Args, parser *ArgParser, out io.Writer) error {
	key := parser.Positional(1)
	if key == "" {
		return ErrMissingArgument("key", "qachat config get api.base_url")
	}
	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		return err
	}
	v, err := cfg.Get(key)
	if err != nil {
		return NewValidationError("key", key, err.Error())
	}
	if args.JSON {
		return NewJSONResponse("config get", map[string]interface{}{key: v}).Fprint(out)
	}
	fmt.Fprintln(out, v)
	return nil
}

// configSet edits the file itself, so environment overrides are not
// written back.
func configSet(args Args, parser *ArgParser, out io.Writer) error {
	key := parser.Positional(1)
	if key == "" || parser.PositionalCount() < 3 {
		return ErrMissingArgument("key and value", "qachat config set api.base_url http://localhost:8080")
	}
	value := parser.PositionalFrom(2)

	path, err := configFilePath(args)
	if err != nil {
		return err
	}
	if strings.HasSuffix(path, ".json") {
		return NewValidationError("--config", path, "config set only writes TOML files")
	}

	cfg := config.Default()
	if _, statErr := os.Stat(path); statErr == nil {
		if err := config.LoadTOML(cfg, path); err != nil {
			return NewCommandError("config", "set", "could not read "+path, err)
		}
	}
	cfg.SetDefaults()

	if err := cfg.Set(key, value); err != nil {
		return NewValidationError("key", key, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.EnsureConfigDir(); err != nil {
		return NewCommandError("config", "set", "could not create config directory", err)
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return NewCommandError("config", "set", "could not write "+path, err)
	}

	if !args.Quiet {
		fmt.Fprintf(out, "%s %s = %s\n", SuccessStyle.Render("Set"), key, value)
	}
	return nil
}

func configInit(args Args, parser *ArgParser, out io.Writer) error {
	path, err := configFilePath(args)
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(path); statErr == nil && !parser.BoolFlag("force") {
		return NewCommandError("config", "init", path+" already exists (use --force to overwrite)", nil)
	}
	if err := config.EnsureConfigDir(); err != nil {
		return NewCommandError("config", "init", "could not create config directory", err)
	}
	if err := config.SaveTOML(config.Default(), path); err != nil {
		return NewCommandError("config", "init", "could not write "+path, err)
	}
	fmt.Fprintf(out, "%s %s\n", SuccessStyle.Render("Wrote"), path)
	return nil
}
