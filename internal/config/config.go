// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/megaschool/qachat/internal/util"
)

// CurrentVersion is the config file format version.
const CurrentVersion = "1"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete qachat configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Service endpoint
	API APIConfig `toml:"api" json:"api"`

	// Terminal UI
	UI UIConfig `toml:"ui" json:"ui"`

	// Log file
	Log LogConfig `toml:"log" json:"log"`

	// Benchmark runner
	Bench BenchConfig `toml:"bench" json:"bench"`
}

// APIConfig describes the question-answering service.
type APIConfig struct {
	// BaseURL is the service base URL; queries go to BaseURL + /api/request
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs bounds each request; 0 means no timeout
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// Timeout returns the request timeout as a duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

// UIConfig contains terminal UI preferences.
type UIConfig struct {
	// Theme is "auto", "dark" or "light"
	Theme string `toml:"theme" json:"theme"`
	// ShowTimestamps prefixes transcript lines with the entry time
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`
	// ExportDir is where /export writes transcripts (default: current directory)
	ExportDir string `toml:"export_dir" json:"export_dir"`
}

// LogConfig controls the JSON log file.
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `toml:"level" json:"level"`
	// File is the log path; "off" disables logging
	File string `toml:"file" json:"file"`
}

// BenchConfig holds defaults for `qachat bench`.
type BenchConfig struct {
	Workers        int     `toml:"workers" json:"workers"`
	Repeat         int     `toml:"repeat" json:"repeat"`
	TimeoutSecs    int     `toml:"timeout_secs" json:"timeout_secs"`
	RequestsPerSec float64 `toml:"requests_per_sec" json:"requests_per_sec"`
	DatabasePath   string  `toml:"database_path" json:"database_path"`
}

// Timeout returns the per-request benchmark timeout.
func (b BenchConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSecs) * time.Second
}

// LogOff disables the log file when used as Log.File.
const LogOff = "off"

// Default returns the built-in configuration.
func Default() *Config {
	dir, err := ConfigDir()
	if err != nil {
		dir = filepath.Join(os.TempDir(), ".qachat")
	}

	return &Config{
		Version: CurrentVersion,
		API: APIConfig{
			BaseURL:     "http://localhost:8080",
			TimeoutSecs: 0,
		},
		UI: UIConfig{
			Theme: "auto",
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dir, "qachat.log"),
		},
		Bench: BenchConfig{
			Workers:      10,
			Repeat:       5,
			TimeoutSecs:  60,
			DatabasePath: filepath.Join(dir, "bench.db"),
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the qachat directory. QACHAT_HOME overrides ~/.qachat.
func ConfigDir() (string, error) {
	if dir := os.Getenv("QACHAT_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".qachat"), nil
}

// ConfigPathTOML returns the default TOML config path.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the default JSON config path.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// DotEnvFile is the .env file consulted before environment overrides.
var DotEnvFile = ".env"

// Load loads configuration. An explicit path wins; otherwise TOML then JSON
// in the config directory are tried, falling back to defaults. The .env file
// and environment overrides are applied last.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFromPath(path)
	}

	cfg := Default()

	tomlPath, err := ConfigPathTOML()
	if err == nil && fileExists(tomlPath) {
		if err := LoadTOML(cfg, tomlPath); err != nil {
			return nil, fmt.Errorf("failed to load TOML config: %w", err)
		}
		return finish(cfg)
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil && fileExists(jsonPath) {
		if err := LoadJSON(cfg, jsonPath); err != nil {
			return nil, fmt.Errorf("failed to load JSON config: %w", err)
		}
		return finish(cfg)
	}

	return finish(cfg)
}

// LoadFromPath loads a specific file. Files ending in .json are decoded as
// JSON, anything else as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finish(cfg)
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

func finish(cfg *Config) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadDotEnv reads DotEnvFile into the environment without overriding
// variables that are already set. A missing file is not an error.
func loadDotEnv() error {
	if DotEnvFile == "" || !fileExists(DotEnvFile) {
		return nil
	}
	if err := godotenv.Load(DotEnvFile); err != nil {
		return fmt.Errorf("failed to load %s: %w", DotEnvFile, err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg to the default TOML path.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg as TOML with a short header.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# qachat configuration file\n")
	buf.WriteString("# Environment variables QACHAT_API_URL, QACHAT_TIMEOUT, QACHAT_LOG_LEVEL,\n")
	buf.WriteString("# QACHAT_LOG_FILE and QACHAT_THEME override these values.\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.API.BaseURL == "" {
		errs = append(errs, ValidationError{Field: "api.base_url", Message: "must not be empty"})
	} else if u, err := url.Parse(c.API.BaseURL); err != nil {
		errs = append(errs, ValidationError{Field: "api.base_url", Message: err.Error()})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("scheme must be http or https, got '%s'", u.Scheme),
		})
	} else if u.Host == "" {
		errs = append(errs, ValidationError{Field: "api.base_url", Message: "missing host"})
	}

	if c.API.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{Field: "api.timeout_secs", Message: "must be >= 0"})
	}

	validThemes := map[string]bool{"auto": true, "dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if c.Bench.Workers < 1 {
		errs = append(errs, ValidationError{Field: "bench.workers", Message: "must be >= 1"})
	}
	if c.Bench.Repeat < 1 {
		errs = append(errs, ValidationError{Field: "bench.repeat", Message: "must be >= 1"})
	}
	if c.Bench.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{Field: "bench.timeout_secs", Message: "must be >= 0"})
	}
	if c.Bench.RequestsPerSec < 0 {
		errs = append(errs, ValidationError{Field: "bench.requests_per_sec", Message: "must be >= 0"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills zero values that have no meaning of their own.
func (c *Config) SetDefaults() {
	def := Default()

	if c.Version == "" {
		c.Version = def.Version
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.File == "" {
		c.Log.File = def.Log.File
	}
	if c.Bench.Workers == 0 {
		c.Bench.Workers = def.Bench.Workers
	}
	if c.Bench.Repeat == 0 {
		c.Bench.Repeat = def.Bench.Repeat
	}
	if c.Bench.DatabasePath == "" {
		c.Bench.DatabasePath = def.Bench.DatabasePath
	}
}

// LogFile returns the log path, or "" when logging is disabled.
func (c *Config) LogFile() string {
	if strings.EqualFold(c.Log.File, LogOff) {
		return ""
	}
	return c.Log.File
}

// ApplyEnvOverrides applies QACHAT_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	// QACHAT_API_URL
	if v := os.Getenv("QACHAT_API_URL"); v != "" {
		c.API.BaseURL = v
	}

	// QACHAT_TIMEOUT (seconds)
	if v := os.Getenv("QACHAT_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.API.TimeoutSecs = secs
		}
	}

	// QACHAT_LOG_LEVEL
	if v := os.Getenv("QACHAT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	// QACHAT_LOG_FILE
	if v := os.Getenv("QACHAT_LOG_FILE"); v != "" {
		c.Log.File = v
	}

	// QACHAT_THEME
	if v := os.Getenv("QACHAT_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "api.base_url").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			return field, nil
		}

		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}

	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field
// equivalent. "base_url" becomes "BaseUrl", which matches BaseURL under
// EqualFold.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(part[:1]))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(lower == "1" || lower == "true" || lower == "yes")
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"api.base_url",
		"api.timeout_secs",
		"ui.theme",
		"ui.show_timestamps",
		"ui.export_dir",
		"log.level",
		"log.file",
		"bench.workers",
		"bench.repeat",
		"bench.timeout_secs",
		"bench.requests_per_sec",
		"bench.database_path",
	}
}

// String renders the configuration as TOML for display.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}
