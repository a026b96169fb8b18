// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/megaschool/qachat/internal/util"
)

// slowestKept bounds the slowest-query list.
const slowestKept = 5

// =============================================================================
// REQUEST STATS
// =============================================================================

// QueryTiming records one completed request.
type QueryTiming struct {
	Timestamp time.Time     `json:"timestamp"`
	Query     string        `json:"query"` // first 60 runes
	Duration  time.Duration `json:"duration_ns"`
	Failed    bool          `json:"failed"`
}

// RequestStats accumulates request outcomes.
type RequestStats struct {
	mu sync.Mutex

	startTime    time.Time
	requests     int
	failures     int
	totalLatency time.Duration
	minLatency   time.Duration
	maxLatency   time.Duration
	slowest      []QueryTiming
}

// NewRequestStats creates an empty tracker.
func NewRequestStats() *RequestStats {
	return &RequestStats{startTime: time.Now()}
}

// Record adds one finished request. err marks it as failed.
func (s *RequestStats) Record(query string, d time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests++
	if err != nil {
		s.failures++
	}
	s.totalLatency += d
	if s.requests == 1 || d < s.minLatency {
		s.minLatency = d
	}
	if d > s.maxLatency {
		s.maxLatency = d
	}

	s.slowest = append(s.slowest, QueryTiming{
		Timestamp: time.Now(),
		Query:     util.TruncateRunes(query, 60),
		Duration:  d,
		Failed:    err != nil,
	})
	sort.SliceStable(s.slowest, func(i, j int) bool {
		return s.slowest[i].Duration > s.slowest[j].Duration
	})
	if len(s.slowest) > slowestKept {
		s.slowest = s.slowest[:slowestKept]
	}
}

// Snapshot returns a consistent copy of the current figures.
func (s *RequestStats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Since:      s.startTime,
		Requests:   s.requests,
		Failures:   s.failures,
		MinLatency: s.minLatency,
		MaxLatency: s.maxLatency,
		Slowest:    append([]QueryTiming(nil), s.slowest...),
	}
	if s.requests > 0 {
		snap.AvgLatency = s.totalLatency / time.Duration(s.requests)
	}
	return snap
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is a point-in-time view of RequestStats.
type Snapshot struct {
	Since      time.Time     `json:"since"`
	Requests   int           `json:"requests"`
	Failures   int           `json:"failures"`
	AvgLatency time.Duration `json:"avg_latency_ns"`
	MinLatency time.Duration `json:"min_latency_ns"`
	MaxLatency time.Duration `json:"max_latency_ns"`
	Slowest    []QueryTiming `json:"slowest"`
}

// Succeeded returns the number of requests that produced a reply.
func (s Snapshot) Succeeded() int {
	return s.Requests - s.Failures
}

// String is the one-line summary shown in the status bar.
func (s Snapshot) String() string {
	if s.Requests == 0 {
		return "no requests yet"
	}
	return fmt.Sprintf("%d sent, %d failed, avg %s, max %s",
		s.Requests, s.Failures, formatLatency(s.AvgLatency), formatLatency(s.MaxLatency))
}

// Report is the multi-line form used by /stats.
func (s Snapshot) Report() string {
	out := fmt.Sprintf("Requests: %d (%d ok, %d failed)\n", s.Requests, s.Succeeded(), s.Failures)
	if s.Requests == 0 {
		return out
	}
	out += fmt.Sprintf("Latency: min %s, avg %s, max %s\n",
		formatLatency(s.MinLatency), formatLatency(s.AvgLatency), formatLatency(s.MaxLatency))
	for i, q := range s.Slowest {
		mark := ""
		if q.Failed {
			mark = " (failed)"
		}
		out += fmt.Sprintf("  %d. %s  %s%s\n", i+1, formatLatency(q.Duration), q.Query, mark)
	}
	return out
}

func formatLatency(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
