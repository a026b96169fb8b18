// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/megaschool/qachat/internal/model"
)

// MarkdownExporter exports transcripts to Markdown.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a transcript to Markdown. User entries become headings;
// bot entries are listed beneath in the order they arrived.
func (e *MarkdownExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		fmt.Fprintf(&sb, "session: %s\n", t.SessionID)
		fmt.Fprintf(&sb, "endpoint: %s\n", t.Endpoint)
		if !t.CreatedAt.IsZero() {
			fmt.Fprintf(&sb, "date: %s\n", t.CreatedAt.Format(time.RFC3339))
		}
		fmt.Fprintf(&sb, "entries: %d\n", len(t.Entries))
		sb.WriteString("generator: qachat\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString("# Chat transcript\n")

	for _, entry := range t.Entries {
		switch entry.Sender {
		case model.SenderUser:
			sb.WriteString("\n## ")
			e.writeTimestamp(&sb, entry)
			sb.WriteString(escapeMarkdown(entry.Text))
			sb.WriteString("\n\n")
		default:
			sb.WriteString("- ")
			e.writeTimestamp(&sb, entry)
			if entry.RequestID > 0 {
				fmt.Fprintf(&sb, "`#%d` ", entry.RequestID)
			}
			sb.WriteString(escapeMarkdown(entry.Text))
			sb.WriteString("\n")
		}
	}

	return []byte(sb.String()), nil
}

func (e *MarkdownExporter) writeTimestamp(sb *strings.Builder, entry model.Entry) {
	if e.options.IncludeTimestamps && !entry.Timestamp.IsZero() {
		fmt.Fprintf(sb, "[%s] ", formatTimestamp(entry.Timestamp))
	}
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"#", `\#`,
)

// escapeMarkdown escapes characters that would change inline formatting.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
