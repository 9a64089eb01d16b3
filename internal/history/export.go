// Package history exports a chat transcript on request. Nothing is written
// unless the user asks for it.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diogo/browseagent/internal/models"
)

// ExportFormat represents the format for exporting transcripts
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ExportOptions configures how transcripts are exported
type ExportOptions struct {
	Format         ExportFormat
	IncludeWelcome bool // Keep the greeting message
	IncludeSources bool // List citations under each answer
}

// DefaultExportOptions returns sensible defaults for export
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Format:         ExportFormatMarkdown,
		IncludeWelcome: false,
		IncludeSources: true,
	}
}

// Transcript is a chat session prepared for export
type Transcript struct {
	Title      string
	Model      string
	ExportedAt time.Time
	Messages   []models.ChatMessage
}

// welcomeID matches the fixed id of the greeting message
const welcomeID = "init"

func (t Transcript) messages(opts ExportOptions) []models.ChatMessage {
	if opts.IncludeWelcome {
		return t.Messages
	}
	out := make([]models.ChatMessage, 0, len(t.Messages))
	for _, m := range t.Messages {
		if m.ID == welcomeID {
			continue
		}
		out = append(out, m)
	}
	return out
}

func roleHeading(role models.Role) string {
	switch role {
	case models.RoleUser:
		return "User"
	case models.RoleSystem:
		return "System"
	default:
		return "Agent"
	}
}

// ExportMarkdown renders the transcript as Markdown
func ExportMarkdown(t Transcript, opts ExportOptions) string {
	msgs := t.messages(opts)

	var sb strings.Builder

	title := t.Title
	if title == "" {
		title = "Browse agent session"
	}
	sb.WriteString("# ")
	sb.WriteString(title)
	sb.WriteString("\n\n")

	if t.Model != "" {
		sb.WriteString("**Model:** ")
		sb.WriteString(t.Model)
		sb.WriteString("\n")
	}
	if !t.ExportedAt.IsZero() {
		sb.WriteString("**Exported:** ")
		sb.WriteString(t.ExportedAt.Format("2006-01-02 15:04:05"))
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n\n---\n\n", len(msgs)))

	for i, msg := range msgs {
		sb.WriteString("## ")
		sb.WriteString(roleHeading(msg.Role))
		sb.WriteString("\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if opts.IncludeSources && len(msg.Sources) > 0 {
			sb.WriteString("\n**Sources:**\n\n")
			for n, src := range msg.Sources {
				sb.WriteString(fmt.Sprintf("%d. [%s](%s)\n", n+1, escapeLinkText(src.Title), src.URI))
			}
		}

		if i < len(msgs)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

func escapeLinkText(s string) string {
	r := strings.NewReplacer("[", `\[`, "]", `\]`, "\n", " ")
	return r.Replace(s)
}

type exportMessage struct {
	ID      string          `json:"id"`
	Role    models.Role     `json:"role"`
	Content string          `json:"content"`
	Sources []models.Source `json:"sources,omitempty"`
}

type exportTranscript struct {
	Title      string          `json:"title,omitempty"`
	Model      string          `json:"model,omitempty"`
	ExportedAt *time.Time      `json:"exported_at,omitempty"`
	Messages   []exportMessage `json:"messages"`
}

// ExportJSON renders the transcript as indented JSON
func ExportJSON(t Transcript, opts ExportOptions) ([]byte, error) {
	msgs := t.messages(opts)

	export := exportTranscript{
		Title:    t.Title,
		Model:    t.Model,
		Messages: make([]exportMessage, len(msgs)),
	}
	if !t.ExportedAt.IsZero() {
		at := t.ExportedAt
		export.ExportedAt = &at
	}
	for i, msg := range msgs {
		export.Messages[i] = exportMessage{
			ID:      msg.ID,
			Role:    msg.Role,
			Content: msg.Content,
		}
		if opts.IncludeSources {
			export.Messages[i].Sources = msg.Sources
		}
	}

	return json.MarshalIndent(export, "", "  ")
}

// FormatFromPath picks JSON for a .json extension and Markdown otherwise
func FormatFromPath(path string) ExportFormat {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ExportFormatJSON
	}
	return ExportFormatMarkdown
}

// DefaultExportPath returns a timestamped Markdown file name inside dir
func DefaultExportPath(dir string, now time.Time) string {
	return filepath.Join(dir, "browseagent-"+now.Format("20060102-150405")+".md")
}

// WriteFile exports the transcript to path, choosing the format from the
// file extension. The file is created with 0o600 permissions.
func WriteFile(path string, t Transcript, opts ExportOptions) error {
	opts.Format = FormatFromPath(path)

	var data []byte
	switch opts.Format {
	case ExportFormatJSON:
		b, err := ExportJSON(t, opts)
		if err != nil {
			return fmt.Errorf("failed to encode transcript: %w", err)
		}
		data = b
	default:
		data = []byte(ExportMarkdown(t, opts))
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
