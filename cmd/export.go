package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/parthgoyal01/aurora/internal/archive"
	"github.com/parthgoyal01/aurora/internal/chat"
	"github.com/parthgoyal01/aurora/internal/config"
	"github.com/parthgoyal01/aurora/internal/db"
	"github.com/parthgoyal01/aurora/internal/export"
	"github.com/parthgoyal01/aurora/internal/history"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <chat-id>",
		Short: "Export a chat transcript",
		Long: `Export a chat as Markdown, JSON or YAML.

The transcript comes from the local archive, which records every chat the
client has opened. Use --remote to fetch it from the server instead.

Examples:
  aurora export 65f1c0ffee --format md
  aurora export 65f1c0ffee --format json --output chat.json
  aurora export 65f1c0ffee --remote`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	cmd.Flags().StringP("format", "f", "md", "Output format: md, json or yaml")
	cmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().Bool("remote", false, "Fetch the transcript from the server")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	remote, _ := cmd.Flags().GetBool("remote")

	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	defer enableDebug(cmd, cfg)()

	id := strings.TrimSpace(args[0])
	var transcript export.Transcript
	if remote {
		transcript, err = remoteTranscript(cmd.Context(), cfg, id)
	} else {
		transcript, err = archivedTranscript(cmd.Context(), cfg, id)
	}
	if err != nil {
		return err
	}
	transcript.ExportedAt = time.Now().UTC()

	var w io.Writer = os.Stdout
	if output != "" {
		//nolint:gosec // G304: output path is chosen by the user.
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close() //nolint:errcheck // closed after a successful write below
		w = f
	}

	if err := export.Write(w, format, transcript); err != nil {
		return fmt.Errorf("writing transcript: %w", err)
	}
	if output != "" {
		fmt.Fprintf(os.Stderr, "Exported %d messages to %s\n", len(transcript.Messages), output)
	}
	return nil
}

func archivedTranscript(ctx context.Context, cfg *config.Config, id string) (export.Transcript, error) {
	database, err := db.Open(ctx, cfg.ArchivePath())
	if err != nil {
		return export.Transcript{}, fmt.Errorf("opening archive: %w", err)
	}
	defer database.Close() //nolint:errcheck // read-only use

	a := archive.New(database)
	sess, err := a.Session(ctx, id)
	if errors.Is(err, chat.ErrNotFound) {
		return export.Transcript{}, fmt.Errorf("chat %s is not in the local archive; try --remote", id)
	}
	if err != nil {
		return export.Transcript{}, err
	}
	msgs, err := a.Messages(ctx, id)
	if err != nil {
		return export.Transcript{}, err
	}
	return export.Transcript{Session: sess, Messages: msgs, Source: "archive"}, nil
}

func remoteTranscript(ctx context.Context, cfg *config.Config, id string) (export.Transcript, error) {
	if !cfg.HasToken() {
		return export.Transcript{}, errors.New("not logged in; run 'aurora login --token <token>'")
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	client, err := history.New(cfg.APIURL, config.NewCredential(cfg.Token))
	if err != nil {
		return export.Transcript{}, err
	}

	list, err := client.ListSessions(ctx)
	if err != nil {
		return export.Transcript{}, fmt.Errorf("listing chats: %w", err)
	}
	sess := chat.Session{ID: id}
	found := false
	for _, s := range list {
		if s.ID == id {
			sess, found = s, true
			break
		}
	}
	if !found {
		return export.Transcript{}, fmt.Errorf("chat %s: %w", id, chat.ErrNotFound)
	}

	msgs, err := client.FetchHistory(ctx, id)
	if err != nil {
		return export.Transcript{}, fmt.Errorf("fetching history: %w", err)
	}
	return export.Transcript{Session: sess, Messages: msgs, Source: "server"}, nil
}
