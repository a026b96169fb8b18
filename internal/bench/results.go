// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bench

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// =============================================================================
// RESULT TYPES
// =============================================================================

// CaseResult is the outcome of one request in a run.
type CaseResult struct {
	CaseID   int           `json:"case_id"`
	Seq      int           `json:"seq"`
	Passed   bool          `json:"passed"`
	Expected int           `json:"expected"`
	Got      *int          `json:"got,omitempty"`
	Detail   string        `json:"detail"`
	Err      string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Line formats the result the way the run log prints it.
func (c CaseResult) Line() string {
	mark := "❌"
	if c.Passed {
		mark = "✅"
	}
	return fmt.Sprintf("Test %d %s: %s", c.CaseID, mark, c.Detail)
}

// Result holds a complete run.
type Result struct {
	BaseURL   string        `json:"base_url"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration_ns"`
	Workers   int           `json:"workers"`
	Repeat    int           `json:"repeat"`

	// Total is the number of requests the run planned. Requests skipped by an
	// interrupted run count as failures.
	Total      int           `json:"total"`
	Passed     int           `json:"passed"`
	Errors     int           `json:"errors"`
	AvgLatency time.Duration `json:"avg_latency_ns"`

	Results []CaseResult `json:"results"`
}

// CaseSummary aggregates the repeats of one case.
type CaseSummary struct {
	CaseID int `json:"case_id"`
	Passed int `json:"passed"`
	Total  int `json:"total"`
}

func (r *Result) computeAggregates() {
	r.Passed = 0
	r.Errors = 0
	var latency time.Duration
	for _, c := range r.Results {
		if c.Passed {
			r.Passed++
		}
		if c.Err != "" {
			r.Errors++
		}
		latency += c.Duration
	}
	if len(r.Results) > 0 {
		r.AvgLatency = latency / time.Duration(len(r.Results))
	}
}

// PassRate returns the passed share of Total in [0, 1].
func (r *Result) PassRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Passed) / float64(r.Total)
}

// ByCase returns per-case pass counts ordered by case id.
func (r *Result) ByCase() []CaseSummary {
	index := make(map[int]*CaseSummary)
	for _, c := range r.Results {
		s, ok := index[c.CaseID]
		if !ok {
			s = &CaseSummary{CaseID: c.CaseID}
			index[c.CaseID] = s
		}
		s.Total++
		if c.Passed {
			s.Passed++
		}
	}

	out := make([]CaseSummary, 0, len(index))
	for _, s := range index {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CaseID < out[j].CaseID })
	return out
}

// Summary returns the closing report lines.
func (r *Result) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Results: %d/%d passed (%.0f%%)\n", r.Passed, r.Total, r.PassRate()*100)
	fmt.Fprintf(&sb, "Total execution time: %.2f seconds\n", r.Duration.Seconds())
	return sb.String()
}

// FormatDuration formats a duration for tables.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
