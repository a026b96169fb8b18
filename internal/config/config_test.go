// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config directory and .env lookup at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("QACHAT_HOME", dir)
	for _, key := range []string{"QACHAT_API_URL", "QACHAT_TIMEOUT", "QACHAT_LOG_LEVEL", "QACHAT_LOG_FILE", "QACHAT_THEME"} {
		t.Setenv(key, "")
	}

	prev := DotEnvFile
	DotEnvFile = filepath.Join(dir, ".env")
	t.Cleanup(func() { DotEnvFile = prev })
	return dir
}

func TestLoad_DefaultsWithoutFiles(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout())
	assert.Equal(t, "auto", cfg.UI.Theme)
	assert.Equal(t, 10, cfg.Bench.Workers)
	assert.Equal(t, 5, cfg.Bench.Repeat)
	assert.Equal(t, 60*time.Second, cfg.Bench.Timeout())
	assert.Equal(t, filepath.Join(dir, "qachat.log"), cfg.LogFile())
}

func TestLoad_TOMLFile(t *testing.T) {
	dir := isolate(t)
	content := `
[api]
base_url = "http://51.250.74.4:8080/"
timeout_secs = 15

[ui]
theme = "dark"
show_timestamps = true

[bench]
workers = 4
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://51.250.74.4:8080", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout())
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.True(t, cfg.UI.ShowTimestamps)
	assert.Equal(t, 4, cfg.Bench.Workers)
	assert.Equal(t, 5, cfg.Bench.Repeat, "unset keys keep defaults")
}

func TestLoad_JSONFallback(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"api":{"base_url":"https://qa.example.com"}}`), 0600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://qa.example.com", cfg.API.BaseURL)
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api]\nbase_url = \"http://custom:9000\"\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://custom:9000", cfg.API.BaseURL)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("QACHAT_API_URL", "http://env-host:1234")
	t.Setenv("QACHAT_TIMEOUT", "30")
	t.Setenv("QACHAT_LOG_LEVEL", "debug")
	t.Setenv("QACHAT_LOG_FILE", "off")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://env-host:1234", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "", cfg.LogFile())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.Unsetenv("QACHAT_API_URL"))
	t.Cleanup(func() { os.Unsetenv("QACHAT_API_URL") })
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("QACHAT_API_URL=http://dotenv:8081\n"), 0600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv:8081", cfg.API.BaseURL)
}

func TestLoad_InvalidConfig(t *testing.T) {
	isolate(t)
	t.Setenv("QACHAT_API_URL", "ftp://nope")

	_, err := Load("")
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "api.base_url", verrs[0].Field)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.UI.Theme = "neon"
	cfg.Bench.Workers = 0
	cfg.API.TimeoutSecs = -1

	err := cfg.Validate()
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 3)
	assert.Contains(t, err.Error(), "ui.theme")
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("api.base_url", "http://set:1"))
	require.NoError(t, cfg.Set("api.timeout_secs", "12"))
	require.NoError(t, cfg.Set("ui.show_timestamps", "true"))
	require.NoError(t, cfg.Set("bench.requests_per_sec", "2.5"))

	v, err := cfg.Get("api.base_url")
	require.NoError(t, err)
	assert.Equal(t, "http://set:1", v)
	assert.Equal(t, 12, cfg.API.TimeoutSecs)
	assert.True(t, cfg.UI.ShowTimestamps)
	assert.Equal(t, 2.5, cfg.Bench.RequestsPerSec)

	assert.Error(t, cfg.Set("api.nope", "x"))
	assert.Error(t, cfg.Set("api.base_url.deeper", "x"))
	assert.Error(t, cfg.Set("api.timeout_secs", "soon"))
	_, err = cfg.Get("")
	assert.Error(t, err)
}

func TestGetAllKeys_Resolve(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		_, err := cfg.Get(key)
		assert.NoError(t, err, key)
	}
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	dir := isolate(t)
	cfg := Default()
	cfg.API.BaseURL = "http://saved:7000"
	cfg.Bench.Workers = 3

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://saved:7000", loaded.API.BaseURL)
	assert.Equal(t, 3, loaded.Bench.Workers)
}
