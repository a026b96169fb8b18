// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/megaschool/qachat/internal/model"
	"github.com/megaschool/qachat/internal/telemetry"
	"github.com/megaschool/qachat/internal/util"
)

// Asker performs one question/answer call. *api.Client satisfies it.
type Asker interface {
	Ask(ctx context.Context, req model.PendingRequest) (*model.BotReply, error)
}

// Outcome is the result of one dispatched request.
type Outcome struct {
	Request  model.PendingRequest
	Reply    *model.BotReply
	Err      error
	Duration time.Duration
}

// OK reports whether the request produced a reply.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Dispatcher sends requests through an Asker. It holds no per-request
// state, so one Dispatcher may serve many goroutines.
type Dispatcher struct {
	asker  Asker
	logger *zap.Logger
	stats  *telemetry.RequestStats
}

// NewDispatcher creates a dispatcher. A nil logger disables logging.
func NewDispatcher(asker Asker, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{asker: asker, logger: logger, stats: telemetry.NewRequestStats()}
}

// Stats returns the statistics of every request this dispatcher ran.
func (d *Dispatcher) Stats() *telemetry.RequestStats {
	return d.stats
}

// Dispatch runs one request to completion. Errors are reported in the
// Outcome, never retried.
func (d *Dispatcher) Dispatch(ctx context.Context, req model.PendingRequest) Outcome {
	log := d.logger.With(zap.Int("request_id", req.ID))
	log.Debug("request dispatched", zap.String("query", util.TruncateRunes(req.Query, 80)))

	start := time.Now()
	reply, err := d.asker.Ask(ctx, req)
	out := Outcome{
		Request:  req,
		Reply:    reply,
		Err:      err,
		Duration: time.Since(start),
	}
	d.stats.Record(req.Query, out.Duration, err)

	if err != nil {
		log.Debug("request failed", zap.Error(err), zap.Duration("duration", out.Duration))
	} else {
		log.Debug("request completed", zap.Duration("duration", out.Duration))
	}
	return out
}
