// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/megaschool/qachat/internal/api"
	"github.com/megaschool/qachat/internal/model"
	"github.com/megaschool/qachat/internal/session"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options controls a benchmark run.
type Options struct {
	// Repeat is how many times every case is sent.
	Repeat int

	// Workers bounds the number of requests in flight.
	Workers int

	// RequestsPerSec limits the dispatch rate. Zero means unlimited.
	RequestsPerSec float64

	// Timeout bounds each request. Zero means no per-request timeout.
	Timeout time.Duration
}

// DefaultOptions returns 5 repeats, 10 workers and a 60s timeout.
func DefaultOptions() Options {
	return Options{
		Repeat:  5,
		Workers: 10,
		Timeout: 60 * time.Second,
	}
}

func (o *Options) normalize() {
	if o.Repeat < 1 {
		o.Repeat = 1
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.RequestsPerSec < 0 {
		o.RequestsPerSec = 0
	}
}

// =============================================================================
// BENCHMARK RUNNER
// =============================================================================

// Runner executes accuracy runs against one service.
type Runner struct {
	asker   session.Asker
	baseURL string
	opts    Options
	out     io.Writer
	logger  *zap.Logger
}

// NewRunner creates a runner. Progress lines go to out; a nil out discards
// them.
func NewRunner(asker session.Asker, baseURL string, opts Options, out io.Writer, logger *zap.Logger) *Runner {
	opts.normalize()
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		asker:   asker,
		baseURL: baseURL,
		opts:    opts,
		out:     out,
		logger:  logger,
	}
}

// Options returns the effective run options.
func (r *Runner) Options() Options {
	return r.opts
}

// Run sends every case Repeat times and collects the outcomes. Individual
// request failures count as failed cases; Run itself only fails when ctx is
// cancelled before all requests finish.
func (r *Runner) Run(ctx context.Context, cases []Case) (*Result, error) {
	if len(cases) == 0 {
		return nil, fmt.Errorf("no test cases to run")
	}

	queue := make([]Case, 0, len(cases)*r.opts.Repeat)
	for i := 0; i < r.opts.Repeat; i++ {
		queue = append(queue, cases...)
	}

	result := &Result{
		BaseURL:   r.baseURL,
		StartTime: time.Now(),
		Workers:   r.opts.Workers,
		Repeat:    r.opts.Repeat,
		Results:   make([]CaseResult, 0, len(queue)),
	}

	fmt.Fprintf(r.out, "Starting tests for API at %s...\n\n", r.baseURL)

	var limiter *rate.Limiter
	if r.opts.RequestsPerSec > 0 {
		burst := int(r.opts.RequestsPerSec)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(r.opts.RequestsPerSec), burst)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)

	for i, c := range queue {
		seq := i + 1
		c := c
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(gctx); err != nil {
					return err
				}
			}
			if err := gctx.Err(); err != nil {
				return err
			}

			cr := r.runCase(gctx, c, seq)

			mu.Lock()
			result.Results = append(result.Results, cr)
			fmt.Fprintln(r.out, cr.Line())
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	result.Total = len(queue)
	result.computeAggregates()

	if err != nil {
		return result, fmt.Errorf("benchmark interrupted: %w", err)
	}
	return result, nil
}

// runCase sends one case and classifies the reply.
func (r *Runner) runCase(ctx context.Context, c Case, seq int) CaseResult {
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := r.asker.Ask(ctx, model.PendingRequest{Query: c.Query, ID: c.ID})
	cr := CaseResult{
		CaseID:   c.ID,
		Seq:      seq,
		Expected: c.ExpectedAnswer,
		Duration: time.Since(start),
	}

	if err != nil {
		cr.Detail = describeError(err)
		cr.Err = err.Error()
		r.logger.Debug("case failed", zap.Int("case", c.ID), zap.Int("seq", seq), zap.Error(err))
		return cr
	}

	return evaluate(cr, reply)
}

// evaluate compares the reply's answer with the expected option.
func evaluate(cr CaseResult, reply *model.BotReply) CaseResult {
	if reply == nil {
		reply = &model.BotReply{}
	}
	got, ok := reply.AnswerInt()
	if ok {
		cr.Got = &got
	}

	if ok && got == cr.Expected {
		cr.Passed = true
		cr.Detail = fmt.Sprintf("Correct answer %d", got)
	} else {
		cr.Detail = fmt.Sprintf("Expected %d, got %s", cr.Expected, reply.AnswerText())
	}
	return cr
}

func describeError(err error) string {
	if api.IsHTTPStatus(err) {
		return fmt.Sprintf("HTTP Error %d", api.StatusCode(err))
	}
	if isTimeout(err) {
		return "Request timeout"
	}
	return "Error - " + err.Error()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
