// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot query command.
//
// Usage:
//
//	qachat ask "question"
//	qachat ask --id 7 "question"
//	qachat ask --json "question"
//
// Prints the three reply lines (answer, reasoning, sources) or a single
// error line, and exits 1 when the request fails.

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/megaschool/qachat/internal/model"
	"github.com/megaschool/qachat/internal/session"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

var (
	markdownRenderer     *glamour.TermRenderer
	markdownRendererOnce sync.Once
)

// renderMarkdown renders content for the terminal, returning it unchanged
// when the renderer is unavailable.
func renderMarkdown(content string) string {
	markdownRendererOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(GetTerminalWidth()-4),
		)
		if err == nil {
			markdownRenderer = r
		}
	})
	if markdownRenderer == nil {
		return content
	}

	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// =============================================================================
// ASK COMMAND
// =============================================================================

// HandleAsk runs `qachat ask` and exits on failure.
func HandleAsk(args Args) {
	rt, err := NewRuntime(args)
	exitOnError(err, args.JSON)

	err = runAsk(context.Background(), rt, args, os.Stdout, IsStdoutTTY())
	rt.Close()
	exitOnError(err, args.JSON)
}

// runAsk sends one query through the dispatcher and writes the result to
// out. Markdown rendering of the reasoning is applied only when pretty is
// set.
func runAsk(ctx context.Context, rt *Runtime, args Args, out io.Writer, pretty bool) error {
	if args.Err != nil {
		return args.Err
	}

	query := strings.TrimSpace(args.Query)
	if query == "" {
		return ErrMissingArgument("query", `qachat ask "What is the capital of France?"`)
	}
	id := args.ID
	if id == 0 {
		id = FirstAskID
	}

	d := session.NewDispatcher(rt.Client, rt.Logger)
	outcome := d.Dispatch(ctx, model.PendingRequest{Query: query, ID: id})

	if args.JSON {
		return writeAskJSON(out, outcome)
	}

	if !outcome.OK() {
		fmt.Fprintln(out, renderEntry(model.ErrorEntry(outcome.Err, id)))
		return &reportedError{err: outcome.Err}
	}

	writeReply(out, outcome.Reply, id, pretty)
	return nil
}

// writeAskJSON prints the raw reply body, or an error envelope.
func writeAskJSON(out io.Writer, outcome session.Outcome) error {
	if !outcome.OK() {
		_ = NewJSONErrorResponse("ask", outcome.Err).Fprint(out)
		return &reportedError{err: outcome.Err}
	}

	raw := outcome.Reply.Raw
	if len(raw) == 0 {
		var err error
		if raw, err = json.Marshal(outcome.Reply); err != nil {
			return fmt.Errorf("failed to encode reply: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		buf.Reset()
		buf.Write(raw)
	}
	buf.WriteByte('\n')
	_, err := out.Write(buf.Bytes())
	return err
}

// writeReply prints the answer, reasoning and sources lines.
func writeReply(out io.Writer, reply *model.BotReply, id int, pretty bool) {
	entries := model.ReplyEntries(reply, id)
	if !pretty {
		for _, e := range entries {
			fmt.Fprintln(out, e.Text)
		}
		return
	}

	fmt.Fprintln(out, botStyle.Render(entries[0].Text))
	if reply != nil && reply.Reasoning != nil {
		fmt.Fprintln(out, botStyle.Render("reasoning:"))
		fmt.Fprint(out, renderMarkdown(*reply.Reasoning))
	} else {
		fmt.Fprintln(out, botStyle.Render(entries[1].Text))
	}
	fmt.Fprintln(out, botStyle.Render(entries[2].Text))
}
