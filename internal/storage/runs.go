// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var (
	ErrRunNotFound   = errors.New("run not found")
	ErrDatabaseError = errors.New("database error")
)

// =============================================================================
// RECORD TYPES
// =============================================================================

// RunRecord is the stored summary of one benchmark run.
type RunRecord struct {
	ID         int64         `json:"id"`
	StartedAt  time.Time     `json:"started_at"`
	BaseURL    string        `json:"base_url"`
	Total      int           `json:"total"`
	Passed     int           `json:"passed"`
	Errors     int           `json:"errors"`
	Duration   time.Duration `json:"duration_ns"`
	AvgLatency time.Duration `json:"avg_latency_ns"`
	Workers    int           `json:"workers"`
	Repeat     int           `json:"repeat"`

	Cases []CaseRecord `json:"cases,omitempty"`
}

// CaseRecord holds per-case pass counts for a run.
type CaseRecord struct {
	CaseID int `json:"case_id"`
	Passed int `json:"passed"`
	Total  int `json:"total"`
}

// PassRate returns the passed share in [0, 1].
func (r RunRecord) PassRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Passed) / float64(r.Total)
}

// =============================================================================
// BENCH STORE
// =============================================================================

// BenchStore records benchmark runs.
type BenchStore struct {
	db   *sql.DB
	path string
}

// OpenBenchStore opens (creating if needed) the history database at path.
func OpenBenchStore(path string) (*BenchStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %s: %v", ErrDatabaseError, p, err)
		}
	}

	s := &BenchStore{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *BenchStore) migrate() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("%w: create schema: %v", ErrDatabaseError, err)
	}
	_, err := s.db.Exec(
		`INSERT INTO metadata(key, value) VALUES('schema_version', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		strconv.Itoa(SchemaVersion),
	)
	if err != nil {
		return fmt.Errorf("%w: write schema version: %v", ErrDatabaseError, err)
	}
	return nil
}

// Path returns the database file path.
func (s *BenchStore) Path() string {
	return s.path
}

// Close closes the database.
func (s *BenchStore) Close() error {
	return s.db.Close()
}

// SaveRun inserts a run with its case records and returns the new run id.
func (s *BenchStore) SaveRun(ctx context.Context, run *RunRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs(started_at, base_url, total, passed, errors, duration_ms, avg_latency_ms, workers, repeat)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UnixMilli(), run.BaseURL, run.Total, run.Passed, run.Errors,
		run.Duration.Milliseconds(), run.AvgLatency.Milliseconds(), run.Workers, run.Repeat,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: insert run: %v", ErrDatabaseError, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: run id: %v", ErrDatabaseError, err)
	}

	for _, c := range run.Cases {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO case_results(run_id, case_id, passed, total) VALUES(?, ?, ?, ?)`,
			id, c.CaseID, c.Passed, c.Total,
		); err != nil {
			return 0, fmt.Errorf("%w: insert case %d: %v", ErrDatabaseError, c.CaseID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %v", ErrDatabaseError, err)
	}
	run.ID = id
	return id, nil
}

// ListRuns returns the most recent runs, newest first. Case records are not
// loaded.
func (s *BenchStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, base_url, total, passed, errors, duration_ms, avg_latency_ms, workers, repeat
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list runs: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list runs: %v", ErrDatabaseError, err)
	}
	return runs, nil
}

// GetRun loads one run with its case records.
func (s *BenchStore) GetRun(ctx context.Context, id int64) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, base_url, total, passed, errors, duration_ms, avg_latency_ms, workers, repeat
		 FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT case_id, passed, total FROM case_results WHERE run_id = ? ORDER BY case_id`, id)
	if err != nil {
		return nil, fmt.Errorf("%w: load cases: %v", ErrDatabaseError, err)
	}
	defer rows.Close()
	for rows.Next() {
		var c CaseRecord
		if err := rows.Scan(&c.CaseID, &c.Passed, &c.Total); err != nil {
			return nil, fmt.Errorf("%w: scan case: %v", ErrDatabaseError, err)
		}
		r.Cases = append(r.Cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: load cases: %v", ErrDatabaseError, err)
	}
	return &r, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (RunRecord, error) {
	var (
		r                       RunRecord
		startedMs, durMs, avgMs int64
	)
	err := sc.Scan(&r.ID, &startedMs, &r.BaseURL, &r.Total, &r.Passed, &r.Errors,
		&durMs, &avgMs, &r.Workers, &r.Repeat)
	if errors.Is(err, sql.ErrNoRows) {
		return r, err
	}
	if err != nil {
		return r, fmt.Errorf("%w: scan run: %v", ErrDatabaseError, err)
	}
	r.StartedAt = time.UnixMilli(startedMs)
	r.Duration = time.Duration(durMs) * time.Millisecond
	r.AvgLatency = time.Duration(avgMs) * time.Millisecond
	return r, nil
}

// =============================================================================
// FORMATTING
// =============================================================================

// FormatRunList formats runs as a table for the terminal.
func FormatRunList(runs []RunRecord) string {
	if len(runs) == 0 {
		return "No recorded runs."
	}

	var sb strings.Builder
	sb.WriteString(formatPadded("ID", 6) + " " + formatPadded("Started", 17) + " " +
		formatPadded("Passed", 12) + " " + formatPadded("Rate", 6) + " " +
		formatPadded("Time", 9) + " Endpoint\n")
	sb.WriteString(strings.Repeat("-", 72) + "\n")

	for _, r := range runs {
		sb.WriteString(formatPadded(strconv.FormatInt(r.ID, 10), 6) + " " +
			formatPadded(r.StartedAt.Format("2006-01-02 15:04"), 17) + " " +
			formatPadded(fmt.Sprintf("%d/%d", r.Passed, r.Total), 12) + " " +
			formatPadded(fmt.Sprintf("%.0f%%", r.PassRate()*100), 6) + " " +
			formatPadded(fmt.Sprintf("%.2fs", r.Duration.Seconds()), 9) + " " +
			r.BaseURL + "\n")
	}
	return sb.String()
}

// formatPadded pads a string to the specified width with spaces.
func formatPadded(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
