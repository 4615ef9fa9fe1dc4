package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diogo/chatty/internal/models"
)

// ExportFormat represents the format for exporting a transcript
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ParseExportFormat maps the export-format setting to a format; empty means markdown
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case ExportFormatMarkdown, "md", "":
		return ExportFormatMarkdown, nil
	case ExportFormatJSON:
		return ExportFormatJSON, nil
	}
	return "", fmt.Errorf("unsupported export format %q (available: markdown, json)", s)
}

// ExportOptions configures how a transcript is exported. Entries still
// waiting for a response are never exported.
type ExportOptions struct {
	Format ExportFormat
	Title  string
}

// DefaultExportOptions returns sensible defaults for export
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Format: ExportFormatMarkdown,
		Title:  "Chatty transcript",
	}
}

// exportedMessage is the JSON shape of one entry
type exportedMessage struct {
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Provider  string    `json:"provider"`
	Failed    bool      `json:"failed,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ExportMarkdown renders msgs as a markdown document
func ExportMarkdown(msgs []models.Message, opts ExportOptions) string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(opts.Title)
	sb.WriteString("\n\n")

	msgs = answered(msgs)
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n\n---\n\n", len(msgs)))

	for i, msg := range msgs {
		sb.WriteString("## You")
		if !msg.CreatedAt.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(msg.CreatedAt.Format("15:04:05"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")
		sb.WriteString(msg.Query)
		sb.WriteString("\n\n## ")
		sb.WriteString(msg.Provider.DisplayName())
		sb.WriteString("\n\n")
		sb.WriteString(msg.Response)
		sb.WriteString("\n")

		if i < len(msgs)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

// ExportJSON renders msgs as an indented JSON array
func ExportJSON(msgs []models.Message, opts ExportOptions) ([]byte, error) {
	msgs = answered(msgs)
	out := make([]exportedMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, exportedMessage{
			Query:     m.Query,
			Response:  m.Response,
			Provider:  string(m.Provider),
			Failed:    m.Failed,
			Timestamp: m.CreatedAt,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transcript: %w", err)
	}
	return data, nil
}

// maxExportSuffix bounds the numbered names tried for exports in the same second
const maxExportSuffix = 100

// WriteExport writes msgs into dir and returns the created file path. An
// existing export is never overwritten; later ones get a numbered suffix.
func WriteExport(dir string, msgs []models.Message, opts ExportOptions, now time.Time) (string, error) {
	var (
		data []byte
		ext  string
	)

	switch opts.Format {
	case ExportFormatJSON:
		b, err := ExportJSON(msgs, opts)
		if err != nil {
			return "", err
		}
		data, ext = b, ".json"
	case ExportFormatMarkdown, "":
		data, ext = []byte(ExportMarkdown(msgs, opts)), ".md"
	default:
		return "", fmt.Errorf("unsupported export format %q", opts.Format)
	}

	base := "transcript-" + now.Format("20060102-150405")
	for n := 1; n <= maxExportSuffix; n++ {
		name := base + ext
		if n > 1 {
			name = fmt.Sprintf("%s-%d%s", base, n, ext)
		}
		path := filepath.Join(dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to write export: %w", err)
		}
		_, werr := f.Write(data)
		if err := errors.Join(werr, f.Close()); err != nil {
			return "", fmt.Errorf("failed to write export: %w", err)
		}
		return path, nil
	}
	return "", fmt.Errorf("failed to write export: too many exports named %s", base)
}

func answered(msgs []models.Message) []models.Message {
	out := make([]models.Message, 0, len(msgs))
	for _, m := range msgs {
		if !m.Pending {
			out = append(out, m)
		}
	}
	return out
}
