// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/megaschool/qachat/internal/model"
	"github.com/megaschool/qachat/internal/util"
)

// ErrEmptyTranscript is returned when there is nothing to export.
var ErrEmptyTranscript = errors.New("transcript has no entries")

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is the exportable view of one chat session.
type Transcript struct {
	SessionID string        `json:"session_id"`
	Endpoint  string        `json:"endpoint"`
	CreatedAt time.Time     `json:"created_at"`
	Entries   []model.Entry `json:"entries"`
}

// NewTranscript builds a transcript from session data.
func NewTranscript(sessionID, endpoint string, createdAt time.Time, entries []model.Entry) *Transcript {
	return &Transcript{
		SessionID: sessionID,
		Endpoint:  endpoint,
		CreatedAt: createdAt,
		Entries:   entries,
	}
}

func (t *Transcript) validate() error {
	if t == nil {
		return fmt.Errorf("transcript is nil")
	}
	if len(t.Entries) == 0 {
		return ErrEmptyTranscript
	}
	return nil
}

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for transcript exporters.
type Exporter interface {
	// Export converts a transcript to the target format.
	Export(t *Transcript) ([]byte, error)

	// FileExtension returns the file extension including the dot.
	FileExtension() string
}

// Options configures export behavior.
type Options struct {
	// IncludeMetadata adds a header with session id, endpoint and dates.
	IncludeMetadata bool

	// IncludeTimestamps prefixes entries with their time.
	IncludeTimestamps bool
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		IncludeMetadata:   true,
		IncludeTimestamps: false,
	}
}

// Format names accepted by ForFormat.
const (
	FormatMarkdown = "md"
	FormatJSON     = "json"
)

// ForFormat returns the exporter for a format name ("md", "markdown", "json").
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatMarkdown, "markdown":
		return NewMarkdownExporter(opts), nil
	case FormatJSON:
		return NewJSONExporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (use md or json)", format)
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile exports a transcript into dir with a generated file name and
// returns the written path.
func ExportToFile(t *Transcript, exporter Exporter, dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	stamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("qachat_%s%s", stamp, exporter.FileExtension())
	return ExportToPath(t, exporter, filepath.Join(dir, filename))
}

// ExportToPath exports a transcript to an explicit path.
func ExportToPath(t *Transcript, exporter Exporter, path string) (string, error) {
	content, err := exporter.Export(t)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}
	if err := util.AtomicWriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
