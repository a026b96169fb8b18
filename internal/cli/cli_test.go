// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megaschool/qachat/internal/config"
	"github.com/megaschool/qachat/internal/model"
	"github.com/megaschool/qachat/internal/session"
)

// =============================================================================
// HELPERS
// =============================================================================

// newQAServer answers every query with option 2; the query "fail" gets a 500.
func newQAServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/api/request" {
			http.NotFound(w, r)
			return
		}
		var req model.PendingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Query == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":%d,"answer":2,"reasoning":"because","sources":["https://a","https://b"]}`, req.ID)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

// newTestRuntime isolates the config directory and points the client at url.
func newTestRuntime(t *testing.T, url string) *Runtime {
	t.Helper()
	t.Setenv("QACHAT_HOME", t.TempDir())
	cfg := config.Default()
	cfg.Log.File = config.LogOff
	rt, err := NewRuntimeWithConfig(cfg, Args{URL: url})
	require.NoError(t, err)
	return rt
}

type scriptedReader struct {
	lines []string
}

func (r *scriptedReader) ReadInput(string) (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

// =============================================================================
// PARSING
// =============================================================================

func TestParseArgs_DefaultIsTUI(t *testing.T) {
	cmd, args := ParseArgs(nil)
	assert.Equal(t, CmdTUI, cmd)
	assert.Empty(t, args.URL)
}

func TestParseArgs_GlobalFlagsAnywhere(t *testing.T) {
	cmd, args := ParseArgs([]string{"--url", "http://qa:9000", "chat", "-v", "--config=/tmp/c.toml"})
	assert.Equal(t, CmdChat, cmd)
	assert.Equal(t, "http://qa:9000", args.URL)
	assert.Equal(t, "/tmp/c.toml", args.ConfigPath)
	assert.True(t, args.Verbose)
}

func TestParseArgs_Ask(t *testing.T) {
	cmd, args := ParseArgs([]string{"ask", "--json", "--id", "7", "what", "is", "ITMO?"})
	assert.Equal(t, CmdAsk, cmd)
	assert.True(t, args.JSON)
	assert.Equal(t, 7, args.ID)
	assert.Equal(t, "what is ITMO?", args.Query)
}

func TestParseArgs_AskDefaultID(t *testing.T) {
	_, args := ParseArgs([]string{"ask", "hello"})
	assert.Equal(t, FirstAskID, args.ID)
}

func TestParseArgs_BareQueryIsAsk(t *testing.T) {
	cmd, args := ParseArgs([]string{"how", "are", "you"})
	assert.Equal(t, CmdAsk, cmd)
	assert.Equal(t, "how are you", args.Query)
}

func TestParseArgs_Subcommands(t *testing.T) {
	tests := []struct {
		argv    []string
		wantCmd Command
		wantSub string
	}{
		{[]string{"bench"}, CmdBench, ""},
		{[]string{"bench", "history", "--limit", "5"}, CmdBench, "history"},
		{[]string{"benchmark", "run", "--record"}, CmdBench, "run"},
		{[]string{"config", "set", "api.base_url", "http://x"}, CmdConfig, "set"},
		{[]string{"version"}, CmdVersion, ""},
		{[]string{"--help"}, CmdHelp, ""},
		{[]string{"tui"}, CmdTUI, ""},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.argv, " "), func(t *testing.T) {
			cmd, args := ParseArgs(tt.argv)
			assert.Equal(t, tt.wantCmd, cmd)
			assert.Equal(t, tt.wantSub, args.Subcommand)
		})
	}
}

func TestArgParser_Forms(t *testing.T) {
	p := NewArgParser([]string{"run", "--repeat", "3", "--timeout=90s", "--record", "--cases", "c.toml", "--", "--literal"}, "record")
	assert.Equal(t, "run", p.Subcommand())
	assert.Equal(t, "3", p.Flag("repeat"))
	assert.Equal(t, "90s", p.Flag("timeout"))
	assert.Equal(t, "c.toml", p.Flag("--cases"))
	assert.True(t, p.BoolFlag("record"))
	assert.Equal(t, "--literal", p.Positional(1))
	assert.Equal(t, 2, p.PositionalCount())
}

func TestArgParser_KnownBoolDoesNotConsume(t *testing.T) {
	p := NewArgParser([]string{"--json", "question"}, "json")
	assert.True(t, p.BoolFlag("json"))
	assert.Equal(t, "question", p.Positional(0))
}

func TestArgParser_NegativeNumberIsValue(t *testing.T) {
	p := NewArgParser([]string{"--rps", "-1"})
	v, err := p.FlagFloat("rps", 0)
	require.NoError(t, err)
	assert.Equal(t, -1.0, v)
}

func TestArgParser_TypedFlags(t *testing.T) {
	p := NewArgParser([]string{"--workers", "four", "--timeout", "45", "--limit", "3"})

	_, err := p.FlagInt("workers", 1)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	d, err := p.FlagDuration("timeout", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, d)

	n, err := p.FlagInt("limit", 20)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = p.FlagInt("missing", 20)
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}

// =============================================================================
// ERRORS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitUsageError, GetExitCode(NewValidationError("x", "", "bad")))
	assert.Equal(t, ExitNotFoundError, GetExitCode(NewNotFoundError("run", "9")))
	assert.Equal(t, ExitGeneralError, GetExitCode(errors.New("boom")))
	assert.Equal(t, ExitGeneralError, GetExitCode(&reportedError{err: errors.New("Request error: 500")}))
	assert.Equal(t, ExitConfigError, GetExitCode(fmt.Errorf("invalid config: %w",
		config.ValidateErrors{{Field: "api.base_url", Message: "bad"}})))
}

func TestDisplayError_SkipsReported(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, &reportedError{err: errors.New("shown already")}, false)
	assert.Empty(t, buf.String())

	DisplayError(&buf, errors.New("boom"), false)
	assert.Contains(t, buf.String(), "Error:")
	assert.Contains(t, buf.String(), "boom")
}

func TestDisplayError_JSON(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, NewValidationError("--repeat", "0", "must be >= 1"), true)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, false, got["success"])
	assert.Equal(t, "validation_error", got["error_type"])
	assert.Equal(t, "--repeat", got["field"])
}

// =============================================================================
// ASK
// =============================================================================

func TestRunAsk_PrintsThreeLines(t *testing.T) {
	srv, _ := newQAServer(t)
	rt := newTestRuntime(t, srv.URL)

	var out bytes.Buffer
	err := runAsk(context.Background(), rt, Args{Query: "capital?", ID: 4}, &out, false)
	require.NoError(t, err)

	assert.Equal(t, "answer: 2\nreasoning: because\nsources: https://a, https://b\n", out.String())
}

func TestRunAsk_FailurePrintsErrorLine(t *testing.T) {
	srv, _ := newQAServer(t)
	rt := newTestRuntime(t, srv.URL)

	var out bytes.Buffer
	err := runAsk(context.Background(), rt, Args{Query: "fail", ID: 1}, &out, false)
	require.Error(t, err)
	assert.Equal(t, ExitGeneralError, GetExitCode(err))
	assert.Contains(t, out.String(), "bot: Error: Request error: 500")
}

func TestRunAsk_JSON(t *testing.T) {
	srv, _ := newQAServer(t)
	rt := newTestRuntime(t, srv.URL)

	var out bytes.Buffer
	err := runAsk(context.Background(), rt, Args{Query: "q", ID: 9, JSON: true}, &out, false)
	require.NoError(t, err)

	var reply model.BotReply
	require.NoError(t, json.Unmarshal(out.Bytes(), &reply))
	require.NotNil(t, reply.ID)
	assert.Equal(t, 9, *reply.ID)
	assert.Equal(t, []string{"https://a", "https://b"}, reply.Sources)
}

func TestRunAsk_JSONKeepsBodyAsSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"answer":"4","reasoning":"2+2"}`))
	}))
	t.Cleanup(srv.Close)
	rt := newTestRuntime(t, srv.URL)

	var out bytes.Buffer
	err := runAsk(context.Background(), rt, Args{Query: "q", ID: 1, JSON: true}, &out, false)
	require.NoError(t, err)

	assert.NotContains(t, out.String(), "sources")
	assert.NotContains(t, out.String(), `"id"`)
	assert.JSONEq(t, `{"answer":"4","reasoning":"2+2"}`, out.String())
}

func TestRunAsk_BadIDIsUsageError(t *testing.T) {
	srv, calls := newQAServer(t)
	rt := newTestRuntime(t, srv.URL)

	cmd, args := ParseArgs([]string{"ask", "--id", "seven", "hello"})
	require.Equal(t, CmdAsk, cmd)
	require.Error(t, args.Err)
	assert.Equal(t, FirstAskID, args.ID)

	err := runAsk(context.Background(), rt, args, io.Discard, false)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestRunAsk_MissingQuery(t *testing.T) {
	srv, calls := newQAServer(t)
	rt := newTestRuntime(t, srv.URL)

	err := runAsk(context.Background(), rt, Args{Query: "   "}, io.Discard, false)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestRunAsk_Unreachable(t *testing.T) {
	srv, _ := newQAServer(t)
	url := srv.URL
	srv.Close()
	rt := newTestRuntime(t, url)

	var out bytes.Buffer
	err := runAsk(context.Background(), rt, Args{Query: "hello", ID: 1}, &out, false)
	require.Error(t, err)
	assert.Contains(t, out.String(), "bot: Error: ")
}

// =============================================================================
// CHAT
// =============================================================================

func newTestChatLoop(rt *Runtime, out io.Writer) *chatLoop {
	return &chatLoop{
		session:    session.New(),
		dispatcher: session.NewDispatcher(rt.Client, rt.Logger),
		endpoint:   rt.Client.Endpoint(),
		exportDir:  filepath.Join(os.Getenv("QACHAT_HOME"), "exports"),
		logger:     rt.Logger,
		out:        out,
		quiet:      true,
	}
}

func TestChatLoop_Conversation(t *testing.T) {
	srv, calls := newQAServer(t)
	rt := newTestRuntime(t, srv.URL)

	var out bytes.Buffer
	loop := newTestChatLoop(rt, &out)
	reader := &scriptedReader{lines: []string{"first", "   ", "fail", "second", "/stats"}}
	require.NoError(t, loop.run(context.Background(), reader))

	assert.EqualValues(t, 3, atomic.LoadInt32(calls))

	entries := loop.session.Entries()
	// 3 user entries + 3 + 1 + 3 bot entries
	require.Len(t, entries, 10)
	assert.Equal(t, "first", entries[0].Text)
	assert.Equal(t, 1, entries[0].RequestID)
	assert.True(t, entries[5].IsError())
	assert.Equal(t, 3, entries[6].RequestID)
	assert.Equal(t, 4, loop.session.NextID())

	assert.Contains(t, out.String(), "bot: answer: 2")
	assert.Contains(t, out.String(), "bot: Error: Request error: 500")
	assert.Contains(t, out.String(), "Requests: 3 (2 ok, 1 failed)")
}

func TestChatLoop_Commands(t *testing.T) {
	srv, calls := newQAServer(t)
	rt := newTestRuntime(t, srv.URL)

	var out bytes.Buffer
	loop := newTestChatLoop(rt, &out)
	reader := &scriptedReader{lines: []string{"/help", "/quit", "never sent"}}
	require.NoError(t, loop.run(context.Background(), reader))

	assert.Zero(t, atomic.LoadInt32(calls))
	assert.Zero(t, loop.session.Conversation().Len())
	assert.Contains(t, out.String(), "/export")
	assert.Equal(t, []string{"never sent"}, reader.lines)
}

func TestChatLoop_SlashTextIsQuery(t *testing.T) {
	srv, calls := newQAServer(t)
	rt := newTestRuntime(t, srv.URL)

	var out bytes.Buffer
	loop := newTestChatLoop(rt, &out)
	reader := &scriptedReader{lines: []string{"/usr/bin is what directory?", "//quit"}}
	require.NoError(t, loop.run(context.Background(), reader))

	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
	assert.Equal(t, 3, loop.session.NextID())

	entries := loop.session.Entries()
	require.Len(t, entries, 8)
	assert.Equal(t, "/usr/bin is what directory?", entries[0].Text)
	assert.Equal(t, "/quit", entries[4].Text)
	assert.NotContains(t, out.String(), "Unknown command")
}

func TestChatLoop_Export(t *testing.T) {
	srv, _ := newQAServer(t)
	rt := newTestRuntime(t, srv.URL)

	path := filepath.Join(t.TempDir(), "chat.json")
	var out bytes.Buffer
	loop := newTestChatLoop(rt, &out)
	reader := &scriptedReader{lines: []string{"hello", "/export json " + path}}
	require.NoError(t, loop.run(context.Background(), reader))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"hello"`)
	assert.Contains(t, out.String(), "Exported to "+path)
}

// =============================================================================
// BENCH
// =============================================================================

const benchCasesTOML = `
[[case]]
id = 1
query = "pick two"
expected_answer = 2

[[case]]
id = 2
query = "pick three"
expected_answer = 3
`

func writeCases(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cases.toml")
	require.NoError(t, os.WriteFile(path, []byte(benchCasesTOML), 0644))
	return path
}

func TestRunBench_RunAndRecord(t *testing.T) {
	srv, calls := newQAServer(t)
	rt := newTestRuntime(t, srv.URL)

	_, args := ParseArgs([]string{"bench", "run", "--cases", writeCases(t), "--repeat", "2", "--workers", "2", "--record"})

	var out bytes.Buffer
	require.NoError(t, runBench(context.Background(), rt, args, &out))

	assert.EqualValues(t, 4, atomic.LoadInt32(calls))
	assert.Contains(t, out.String(), "Starting tests for API at")
	assert.Contains(t, out.String(), "Test 1 ✅: Correct answer 2")
	assert.Contains(t, out.String(), "Test 2 ❌: Expected 3, got 2")
	assert.Contains(t, out.String(), "Results: 2/4 passed (50%)")
	assert.Contains(t, out.String(), "Recorded as run 1")

	out.Reset()
	_, args = ParseArgs([]string{"bench", "history"})
	require.NoError(t, runBench(context.Background(), rt, args, &out))
	assert.Contains(t, out.String(), "2/4")

	out.Reset()
	_, args = ParseArgs([]string{"bench", "show", "1"})
	require.NoError(t, runBench(context.Background(), rt, args, &out))
	assert.Contains(t, out.String(), "Run 1")
	assert.Contains(t, out.String(), "2 workers, 2 repeats")
}

func TestRunBench_JSON(t *testing.T) {
	srv, _ := newQAServer(t)
	rt := newTestRuntime(t, srv.URL)

	_, args := ParseArgs([]string{"bench", "--json", "--cases", writeCases(t), "--repeat", "1"})

	var out bytes.Buffer
	require.NoError(t, runBench(context.Background(), rt, args, &out))

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Total  int `json:"total"`
			Passed int `json:"passed"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Passed)
}

func TestRunBench_ShowMissingRun(t *testing.T) {
	srv, _ := newQAServer(t)
	rt := newTestRuntime(t, srv.URL)

	_, args := ParseArgs([]string{"bench", "show", "42"})
	err := runBench(context.Background(), rt, args, io.Discard)
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))
}

func TestRunBench_BadFlags(t *testing.T) {
	srv, calls := newQAServer(t)
	rt := newTestRuntime(t, srv.URL)

	for _, argv := range [][]string{
		{"bench", "--repeat", "0"},
		{"bench", "--workers", "many"},
		{"bench", "--timeout", "soon"},
		{"bench", "explode"},
	} {
		_, args := ParseArgs(argv)
		err := runBench(context.Background(), rt, args, io.Discard)
		assert.Equal(t, ExitUsageError, GetExitCode(err), strings.Join(argv, " "))
	}
	assert.Zero(t, atomic.LoadInt32(calls))
}

// =============================================================================
// CONFIG
// =============================================================================

func TestRunConfig_InitSetGet(t *testing.T) {
	t.Setenv("QACHAT_HOME", t.TempDir())
	t.Setenv("QACHAT_API_URL", "")
	path := filepath.Join(t.TempDir(), "config.toml")

	run := func(argv ...string) string {
		t.Helper()
		_, args := ParseArgs(append([]string{"--config", path}, argv...))
		var out bytes.Buffer
		require.NoError(t, runConfig(args, &out))
		return out.String()
	}

	assert.Contains(t, run("config", "init"), path)
	run("config", "set", "api.base_url", "http://qa.example:9000")
	run("config", "set", "bench.workers", "3")

	assert.Equal(t, "http://qa.example:9000\n", run("config", "get", "api.base_url"))
	assert.Equal(t, "3\n", run("config", "get", "bench.workers"))
	assert.Equal(t, path+"\n", run("config", "path"))
	assert.Contains(t, run("config", "show"), "qa.example:9000")
}

func TestRunConfig_Errors(t *testing.T) {
	t.Setenv("QACHAT_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")

	run := func(argv ...string) error {
		_, args := ParseArgs(append([]string{"--config", path}, argv...))
		return runConfig(args, io.Discard)
	}

	require.NoError(t, run("config", "init"))
	assert.Error(t, run("config", "init"))
	assert.NoError(t, run("config", "init", "--force"))

	assert.Equal(t, ExitUsageError, GetExitCode(run("config", "set", "api.base_url")))
	assert.Equal(t, ExitUsageError, GetExitCode(run("config", "set", "no.such.key", "1")))
	assert.Equal(t, ExitConfigError, GetExitCode(run("config", "set", "api.base_url", "ftp://nope")))
	assert.Equal(t, ExitUsageError, GetExitCode(run("config", "frobnicate")))
}
