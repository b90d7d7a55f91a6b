package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/parthgoyal01/aurora/internal/archive"
	"github.com/parthgoyal01/aurora/internal/chat"
	"github.com/parthgoyal01/aurora/internal/config"
	"github.com/parthgoyal01/aurora/internal/db"
	"github.com/parthgoyal01/aurora/internal/pubsub"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show login state, endpoints and the local archive",
		Long: `Display the current aurora status including:
  - Configured API and socket endpoints
  - Whether the stored token is accepted by the server
  - Number of chats on the server and in the local archive`,
		RunE: runStatus,
	}

	cmd.Flags().BoolP("verbose", "v", false, "Also show paths and event broker metrics")

	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("getting verbose flag: %w", err)
	}

	if config.IsFirstRun() {
		fmt.Println("Status: Not logged in")
		fmt.Println("")
		fmt.Println("Run 'aurora' or 'aurora login --token <token>' to log in.")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	defer enableDebug(cmd, cfg)()

	fmt.Println("Aurora Status")
	fmt.Println(strings.Repeat("─", 40))
	fmt.Println()

	fmt.Printf("API:    %s\n", cfg.APIURL)
	fmt.Printf("Socket: %s\n", cfg.SocketURL)
	fmt.Println()

	fmt.Printf("Login: %s\n", loginStatus(cmd.Context(), cfg))

	archived, archiveErr := archivedCount(cmd.Context(), cfg.ArchivePath())
	if archiveErr != nil {
		fmt.Println("Archive: unavailable")
	} else {
		fmt.Printf("Archive: %d chats\n", archived)
	}
	fmt.Println()

	fmt.Printf("Config File: %s\n", config.GlobalConfigPath())

	if verbose {
		fmt.Printf("Data Directory: %s\n", cfg.DataDir())
		fmt.Printf("Archive File: %s\n", cfg.ArchivePath())
		if archiveErr != nil {
			fmt.Printf("Archive Error: %v\n", archiveErr)
		}
		fmt.Println()
		printBrokers()
	}

	return nil
}

func loginStatus(ctx context.Context, cfg *config.Config) string {
	if !cfg.HasToken() {
		return "Not logged in (run 'aurora login --token <token>')"
	}

	count, err := countSessions(ctx, cfg.APIURL, cfg.Token)
	switch {
	case err == nil:
		return fmt.Sprintf("Logged in (%d chats on the server)", count)
	case errors.Is(err, chat.ErrAuth):
		return "Token rejected; log in again"
	case errors.Is(err, chat.ErrNetwork):
		return "Token stored; server unreachable"
	default:
		return fmt.Sprintf("Unknown (%v)", err)
	}
}

func archivedCount(ctx context.Context, path string) (int, error) {
	database, err := db.Open(ctx, path)
	if err != nil {
		return 0, err
	}
	defer database.Close() //nolint:errcheck // read-only use

	list, err := archive.New(database).Sessions(ctx)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

// printBrokers lists the event brokers the interactive client wires up.
func printBrokers() {
	hub := pubsub.NewHub()
	defer hub.Shutdown()

	fmt.Println("Event Brokers:")
	fmt.Print(hub.DebugString())
}
