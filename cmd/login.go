package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/parthgoyal01/aurora/internal/chat"
	"github.com/parthgoyal01/aurora/internal/config"
	"github.com/parthgoyal01/aurora/internal/history"
)

const checkTimeout = 15 * time.Second

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a session token",
		Long: `Verify a session token against the server and store it in the config file.

Log in on the web first and copy the token cookie.`,
		RunE: runLogin,
	}

	cmd.Flags().String("token", "", "Session token (required)")
	cmd.Flags().String("api-url", "", "Server API URL to use from now on")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}

func runLogin(cmd *cobra.Command, _ []string) error {
	token, err := cmd.Flags().GetString("token")
	if err != nil {
		return fmt.Errorf("getting token flag: %w", err)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token must not be empty")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	defer enableDebug(cmd, cfg)()

	apiURL, _ := cmd.Flags().GetString("api-url")
	if apiURL = strings.TrimSpace(apiURL); apiURL != "" {
		cfg.APIURL = apiURL
		cfg.SocketURL = ""
		if err := cfg.ApplyDefaults(); err != nil {
			return err
		}
	}

	count, err := countSessions(cmd.Context(), cfg.APIURL, token)
	switch {
	case errors.Is(err, chat.ErrAuth):
		return errors.New("the server rejected this token")
	case err != nil:
		return fmt.Errorf("verifying token: %w", err)
	}

	if apiURL != "" {
		if err := config.Save(cfg); err != nil {
			return err
		}
	}
	if err := cfg.SaveToken(token); err != nil {
		return err
	}

	fmt.Printf("Logged in. %d chats.\n", count)
	fmt.Printf("Token saved to %s\n", cfg.Path())
	return nil
}

// countSessions lists the sessions visible to token.
func countSessions(ctx context.Context, apiURL, token string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	client, err := history.New(apiURL, config.NewCredential(token))
	if err != nil {
		return 0, err
	}
	list, err := client.ListSessions(ctx)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}
