// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bench

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed defaults.toml
var defaultCasesTOML string

// Case is one accuracy test: a multiple-choice query and the number of the
// correct option.
type Case struct {
	ID             int    `toml:"id" json:"id"`
	Query          string `toml:"query" json:"query"`
	ExpectedAnswer int    `toml:"expected_answer" json:"expected_answer"`
}

type caseFile struct {
	Cases []Case `toml:"case"`
}

// DefaultCases returns the built-in case set.
func DefaultCases() []Case {
	cases, err := ParseCases(defaultCasesTOML)
	if err != nil {
		panic(fmt.Sprintf("bench: built-in cases are invalid: %v", err))
	}
	return cases
}

// LoadCases reads cases from a TOML file of [[case]] tables.
func LoadCases(path string) ([]Case, error) {
	var f caseFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("failed to parse cases file %s: %w", path, err)
	}
	if err := validateCases(f.Cases); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f.Cases, nil
}

// ParseCases decodes cases from TOML text.
func ParseCases(data string) ([]Case, error) {
	var f caseFile
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse cases: %w", err)
	}
	if err := validateCases(f.Cases); err != nil {
		return nil, err
	}
	return f.Cases, nil
}

func validateCases(cases []Case) error {
	if len(cases) == 0 {
		return fmt.Errorf("no test cases defined")
	}
	seen := make(map[int]bool, len(cases))
	for i, c := range cases {
		if strings.TrimSpace(c.Query) == "" {
			return fmt.Errorf("case %d (id %d): query is empty", i+1, c.ID)
		}
		if seen[c.ID] {
			return fmt.Errorf("case %d: duplicate id %d", i+1, c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}
