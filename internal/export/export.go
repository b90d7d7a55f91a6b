// Package export renders a session transcript as Markdown, JSON or YAML.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/parthgoyal01/aurora/internal/chat"
)

// Format is an output format.
type Format string

// Supported formats.
const (
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatMarkdown, FormatJSON, FormatYAML}
}

// ParseFormat accepts a format name or a common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want md, json or yaml)", s)
	}
}

// Transcript is one exported session.
type Transcript struct {
	Session    chat.Session   `json:"session" yaml:"session"`
	Messages   []chat.Message `json:"messages" yaml:"messages"`
	ExportedAt time.Time      `json:"exported_at" yaml:"exported_at"`
	Source     string         `json:"source" yaml:"source"`
}

// Write renders t to w in the given format.
func Write(w io.Writer, format Format, t Transcript) error {
	if t.Messages == nil {
		t.Messages = []chat.Message{}
	}

	switch format {
	case FormatMarkdown:
		return writeMarkdown(w, t)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeMarkdown(w io.Writer, t Transcript) error {
	title := t.Session.Title
	if title == "" {
		title = t.Session.ID
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "_Exported %s from %s._\n", t.ExportedAt.Format(time.RFC1123), t.Source)

	for _, m := range t.Messages {
		speaker := "Assistant"
		if m.Origin == chat.OriginUser {
			speaker = "You"
		}
		fmt.Fprintf(&sb, "\n## %s\n\n%s\n", speaker, strings.TrimRight(m.Content, "\n"))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
