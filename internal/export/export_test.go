package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/parthgoyal01/aurora/internal/chat"
)

func sample() Transcript {
	return Transcript{
		Session: chat.Session{ID: "a", Title: "Trip"},
		Messages: []chat.Message{
			chat.NewUserMessage("hi"),
			chat.NewAssistantMessage("hello\n"),
		},
		ExportedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Source:     "archive",
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "md", want: FormatMarkdown},
		{in: "Markdown", want: FormatMarkdown},
		{in: "json", want: FormatJSON},
		{in: " yml ", want: FormatYAML},
		{in: "yaml", want: FormatYAML},
		{in: "pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatMarkdown, sample()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Trip\n"))
	assert.Contains(t, out, "## You\n\nhi\n")
	assert.Contains(t, out, "## Assistant\n\nhello\n")
	assert.Less(t, strings.Index(out, "## You"), strings.Index(out, "## Assistant"))
}

func TestWriteMarkdownUntitled(t *testing.T) {
	tr := sample()
	tr.Session.Title = ""

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatMarkdown, tr))
	assert.True(t, strings.HasPrefix(buf.String(), "# a\n"))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sample()))

	var got Transcript
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Trip", got.Session.Title)
	assert.Len(t, got.Messages, 2)
	assert.Contains(t, buf.String(), `"origin": "assistant"`)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, sample()))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "archive", got["source"])
	assert.Contains(t, buf.String(), "origin: user")
}

func TestWriteEmptyTranscript(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, Transcript{Session: chat.Session{ID: "x"}}))
	assert.Contains(t, buf.String(), `"messages": []`)
}

func TestWriteUnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, Format("pdf"), sample()))
}
