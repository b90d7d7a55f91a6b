// Package cmd provides the CLI commands for aurora.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/parthgoyal01/aurora/internal/config"
	"github.com/parthgoyal01/aurora/internal/debug"
	"github.com/parthgoyal01/aurora/internal/tui"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aurora",
		Short: "Chat from your terminal",
		Long: `Aurora is a terminal client for the Aurora chat service.

Your chats live on the server and stay in the sidebar, so you can pick up
where you left off. Replies stream in over a live connection.

Log in on the web, then run 'aurora login --token <token>' or paste the
token on the welcome screen.`,
		RunE:         runTUI,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging to the data directory")
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// enableDebug turns on debug logging when --debug is set or the config
// asks for it. The returned func undoes it.
func enableDebug(cmd *cobra.Command, cfg *config.Config) func() {
	debugMode, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return func() {}
	}
	if !debugMode && (cfg == nil || cfg.Options == nil || !cfg.Options.Debug) {
		return func() {}
	}

	logPath := filepath.Join(xdg.DataHome, "aurora", "debug.log")
	if cfg != nil {
		logPath = filepath.Join(cfg.DataDir(), "debug.log")
	}
	if err := debug.Enable(logPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to enable debug logging: %v\n", err)
		return func() {}
	}
	fmt.Fprintf(os.Stderr, "Debug: %s\n", logPath)
	return debug.Disable
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config: %v\n", err)
		cfg = config.NewConfig()
		if err := cfg.ApplyDefaults(); err != nil {
			return fmt.Errorf("applying config defaults: %w", err)
		}
	}
	defer enableDebug(cmd, cfg)()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	a.authenticate(ctx)
	return tui.Run(cfg, a.coord, a.hub)
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
