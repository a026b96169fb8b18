// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// bench_cmd.go - Answer benchmark commands.
//
// Usage:
//
//	qachat bench [run] [--cases FILE] [--repeat N] [--workers N]
//	                   [--rps N] [--timeout D] [--record]
//	qachat bench history [--limit N]
//	qachat bench show <run-id>

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"github.com/megaschool/qachat/internal/bench"
	"github.com/megaschool/qachat/internal/storage"
)

// defaultHistoryLimit is how many runs `bench history` lists.
const defaultHistoryLimit = 20

// HandleBench runs `qachat bench`.
func HandleBench(args Args) {
	rt, err := NewRuntime(args)
	exitOnError(err, args.JSON)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = runBench(ctx, rt, args, os.Stdout)
	stop()

	rt.Close()
	exitOnError(err, args.JSON)
}

func runBench(ctx context.Context, rt *Runtime, args Args, out io.Writer) error {
	parser := NewArgParser(args.Raw, globalBoolFlags...)

	switch args.Subcommand {
	case "", "run":
		return benchRun(ctx, rt, parser, args, out)
	case "history", "list", "ls":
		return benchHistory(ctx, rt, parser, args, out)
	case "show":
		return benchShow(ctx, rt, parser, args, out)
	default:
		return NewValidationErrorWithExample("bench subcommand", args.Subcommand,
			"expected run, history or show", "qachat bench run --repeat 3")
	}
}

// =============================================================================
// RUN
// =============================================================================

// benchOptions merges config defaults with command-line flags.
func benchOptions(rt *Runtime, parser *ArgParser) (bench.Options, error) {
	b := rt.Config.Bench
	opts := bench.Options{
		Repeat:         b.Repeat,
		Workers:        b.Workers,
		RequestsPerSec: b.RequestsPerSec,
		Timeout:        b.Timeout(),
	}

	var err error
	if opts.Repeat, err = parser.FlagInt("repeat", opts.Repeat); err != nil {
		return opts, err
	}
	if opts.Workers, err = parser.FlagInt("workers", opts.Workers); err != nil {
		return opts, err
	}
	if opts.RequestsPerSec, err = parser.FlagFloat("rps", opts.RequestsPerSec); err != nil {
		return opts, err
	}
	if opts.Timeout, err = parser.FlagDuration("timeout", opts.Timeout); err != nil {
		return opts, err
	}

	if opts.Repeat < 1 {
		return opts, NewValidationError("--repeat", strconv.Itoa(opts.Repeat), "must be >= 1")
	}
	if opts.Workers < 1 {
		return opts, NewValidationError("--workers", strconv.Itoa(opts.Workers), "must be >= 1")
	}
	if opts.RequestsPerSec < 0 {
		return opts, NewValidationError("--rps", parser.Flag("rps"), "must be >= 0")
	}
	return opts, nil
}

func benchRun(ctx context.Context, rt *Runtime, parser *ArgParser, args Args, out io.Writer) error {
	opts, err := benchOptions(rt, parser)
	if err != nil {
		return err
	}

	cases := bench.DefaultCases()
	if path := parser.Flag("cases"); path != "" {
		cases, err = bench.LoadCases(path)
		if err != nil {
			return NewCommandError("bench", "load", "could not read test cases", err)
		}
	}

	progress := out
	if args.JSON || args.Quiet {
		progress = io.Discard
	}

	runner := bench.NewRunner(rt.Client, rt.Client.BaseURL(), opts, progress, rt.Logger)
	rt.Logger.Info("bench run starting",
		zap.Int("cases", len(cases)),
		zap.Int("repeat", opts.Repeat),
		zap.Int("workers", opts.Workers),
	)

	result, runErr := runner.Run(ctx, cases)
	if result == nil {
		return runErr
	}

	var runID int64
	if parser.BoolFlag("record") {
		runID, err = recordRun(ctx, rt, result)
		if err != nil {
			return err
		}
	}

	if args.JSON {
		if runErr != nil {
			_ = NewJSONErrorResponse("bench", runErr).Fprint(out)
			return &reportedError{err: runErr}
		}
		return NewJSONResponse("bench", result).Fprint(out)
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, result.Summary())
	if runID > 0 {
		fmt.Fprintln(out, DimStyle.Render(fmt.Sprintf("Recorded as run %d", runID)))
	}
	return runErr
}

// recordRun stores the run summary in the history database.
func recordRun(ctx context.Context, rt *Runtime, result *bench.Result) (int64, error) {
	store, err := storage.OpenBenchStore(rt.Config.Bench.DatabasePath)
	if err != nil {
		return 0, NewCommandError("bench", "record", "could not open history database", err)
	}
	defer store.Close()

	// The run may have been interrupted; record it regardless.
	id, err := store.SaveRun(context.WithoutCancel(ctx), recordFromResult(result))
	if err != nil {
		return 0, NewCommandError("bench", "record", "could not save run", err)
	}
	rt.Logger.Info("bench run recorded", zap.Int64("run_id", id))
	return id, nil
}

// recordFromResult converts a run result into its stored form.
func recordFromResult(r *bench.Result) *storage.RunRecord {
	rec := &storage.RunRecord{
		StartedAt:  r.StartTime,
		BaseURL:    r.BaseURL,
		Total:      r.Total,
		Passed:     r.Passed,
		Errors:     r.Errors,
		Duration:   r.Duration,
		AvgLatency: r.AvgLatency,
		Workers:    r.Workers,
		Repeat:     r.Repeat,
	}
	for _, c := range r.ByCase() {
		rec.Cases = append(rec.Cases, storage.CaseRecord{CaseID: c.CaseID, Passed: c.Passed, Total: c.Total})
	}
	return rec
}

// =============================================================================
// HISTORY
// =============================================================================

func benchHistory(ctx context.Context, rt *Runtime, parser *ArgParser, args Args, out io.Writer) error {
	limit, err := parser.FlagInt("limit", defaultHistoryLimit)
	if err != nil {
		return err
	}

	store, err := storage.OpenBenchStore(rt.Config.Bench.DatabasePath)
	if err != nil {
		return NewCommandError("bench", "history", "could not open history database", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return NewCommandError("bench", "history", "could not list runs", err)
	}

	if args.JSON {
		return NewJSONResponse("bench history", runs).Fprint(out)
	}
	fmt.Fprintln(out, TitleStyle.Render("Benchmark history"))
	fmt.Fprint(out, storage.FormatRunList(runs))
	if len(runs) == 0 {
		fmt.Fprintln(out)
	}
	return nil
}

func benchShow(ctx context.Context, rt *Runtime, parser *ArgParser, args Args, out io.Writer) error {
	raw := parser.Positional(1)
	if raw == "" {
		return ErrMissingArgument("run-id", "qachat bench show 3")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return NewValidationError("run-id", raw, "must be an integer")
	}

	store, err := storage.OpenBenchStore(rt.Config.Bench.DatabasePath)
	if err != nil {
		return NewCommandError("bench", "show", "could not open history database", err)
	}
	defer store.Close()

	run, err := store.GetRun(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrRunNotFound) {
			return NewNotFoundError("run", raw)
		}
		return NewCommandError("bench", "show", "could not load run", err)
	}

	if args.JSON {
		return NewJSONResponse("bench show", run).Fprint(out)
	}

	fmt.Fprintln(out, TitleStyle.Render(fmt.Sprintf("Run %d", run.ID)))
	fmt.Fprintf(out, "%s%s\n", RenderLabel("Started:"), run.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "%s%s\n", RenderLabel("Endpoint:"), run.BaseURL)
	fmt.Fprintf(out, "%s%d/%d (%.0f%%)\n", RenderLabel("Passed:"), run.Passed, run.Total, run.PassRate()*100)
	fmt.Fprintf(out, "%s%d\n", RenderLabel("Errors:"), run.Errors)
	fmt.Fprintf(out, "%s%s\n", RenderLabel("Duration:"), bench.FormatDuration(run.Duration))
	fmt.Fprintf(out, "%s%s\n", RenderLabel("Avg latency:"), bench.FormatDuration(run.AvgLatency))
	fmt.Fprintf(out, "%s%d workers, %d repeats\n", RenderLabel("Settings:"), run.Workers, run.Repeat)

	if len(run.Cases) > 0 {
		fmt.Fprintln(out)
		for _, c := range run.Cases {
			style := SuccessStyle
			if c.Passed < c.Total {
				style = ErrorStyle
			}
			fmt.Fprintf(out, "  Test %-4d %s\n", c.CaseID, style.Render(fmt.Sprintf("%d/%d", c.Passed, c.Total)))
		}
	}
	return nil
}
