// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// args.go - Argument parsing shared by the qachat subcommands.

package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// ARG PARSER
// =============================================================================

// ArgParser splits subcommand arguments into flags and positionals.
//
// Supported forms:
//
//	--flag value     long flag with a separate value
//	--flag=value     long flag with equals sign
//	-f value         short flag
//	--flag           boolean flag
//	--               everything after is positional
//
// Names passed as boolFlags never consume the following argument, so
// `--json "question"` keeps the question positional.
type ArgParser struct {
	subcommand string
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
}

// NewArgParser parses raw. boolNames lists flags that take no value.
func NewArgParser(raw []string, boolNames ...string) *ArgParser {
	known := make(map[string]bool, len(boolNames))
	for _, n := range boolNames {
		known[strings.TrimLeft(n, "-")] = true
	}

	p := &ArgParser{
		flags:      make(map[string]string),
		boolFlags:  make(map[string]bool),
		positional: make([]string, 0),
	}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]

		if arg == "--" {
			p.positional = append(p.positional, raw[i+1:]...)
			break
		}

		// A lone "-" and negative numbers are values, not flags.
		if !strings.HasPrefix(arg, "-") || arg == "-" || isNumber(arg) {
			p.positional = append(p.positional, arg)
			continue
		}

		name := strings.TrimLeft(arg, "-")
		if k, v, ok := strings.Cut(name, "="); ok {
			if known[k] || v == "true" || v == "false" {
				p.boolFlags[k] = v == "true"
			} else {
				p.flags[k] = v
			}
			continue
		}

		if !known[name] && i+1 < len(raw) && (!strings.HasPrefix(raw[i+1], "-") || isNumber(raw[i+1])) {
			p.flags[name] = raw[i+1]
			i++
			continue
		}
		p.boolFlags[name] = true
	}

	if len(p.positional) > 0 {
		p.subcommand = p.positional[0]
	}
	return p
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// Subcommand returns the first positional argument.
func (p *ArgParser) Subcommand() string {
	return p.subcommand
}

// Flag returns the value of a string flag, or "".
func (p *ArgParser) Flag(name string) string {
	return p.flags[strings.TrimLeft(name, "-")]
}

// HasFlag reports whether a string flag was given.
func (p *ArgParser) HasFlag(name string) bool {
	_, ok := p.flags[strings.TrimLeft(name, "-")]
	return ok
}

// FlagInt parses the flag as an integer. Absent flags return defaultValue;
// malformed values are an error.
func (p *ArgParser) FlagInt(name string, defaultValue int) (int, error) {
	if !p.HasFlag(name) {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(p.Flag(name))
	if err != nil {
		return 0, NewValidationErrorWithExample("--"+name, p.Flag(name), "must be an integer", "--"+name+" 5")
	}
	return v, nil
}

// FlagFloat parses the flag as a float.
func (p *ArgParser) FlagFloat(name string, defaultValue float64) (float64, error) {
	if !p.HasFlag(name) {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(p.Flag(name), 64)
	if err != nil {
		return 0, NewValidationErrorWithExample("--"+name, p.Flag(name), "must be a number", "--"+name+" 2.5")
	}
	return v, nil
}

// FlagDuration accepts a Go duration ("90s", "2m") or a bare number of
// seconds.
func (p *ArgParser) FlagDuration(name string, defaultValue time.Duration) (time.Duration, error) {
	if !p.HasFlag(name) {
		return defaultValue, nil
	}
	raw := p.Flag(name)
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, NewValidationErrorWithExample("--"+name, raw, "must be a duration", "--"+name+" 60s")
	}
	return d, nil
}

// BoolFlag reports whether a boolean flag was set.
func (p *ArgParser) BoolFlag(name string) bool {
	return p.boolFlags[strings.TrimLeft(name, "-")]
}

// Positional returns the positional at index (0 is the subcommand).
func (p *ArgParser) Positional(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return p.positional[index]
}

// PositionalFrom joins positionals from index on with spaces.
func (p *ArgParser) PositionalFrom(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return strings.Join(p.positional[index:], " ")
}

// PositionalCount returns the number of positionals.
func (p *ArgParser) PositionalCount() int {
	return len(p.positional)
}

// String is for debugging.
func (p *ArgParser) String() string {
	return fmt.Sprintf("ArgParser{sub=%q flags=%v bools=%v pos=%v}",
		p.subcommand, p.flags, p.boolFlags, p.positional)
}
