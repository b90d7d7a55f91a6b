package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parthgoyal01/aurora/internal/config"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		RunE:  runLogout,
	}
}

func runLogout(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if _, ok := cfg.ConfigField("token"); !ok {
		fmt.Println("Not logged in.")
		return nil
	}
	if err := cfg.ClearToken(); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}
