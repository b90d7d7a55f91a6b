package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveConfig contains only the fields we want to save to disk.
// The token is written separately through SaveToken so that env-supplied
// credentials never land in the file.
type SaveConfig struct {
	APIURL    string   `json:"api_url,omitempty"`
	SocketURL string   `json:"socket_url,omitempty"`
	Options   *Options `json:"options,omitempty"`
}

// Save writes the configuration to the file it was loaded from, keeping any
// persisted token.
func Save(cfg *Config) error {
	return SaveToFile(cfg, cfg.Path())
}

// SaveToFile writes the configuration to a specific file path.
func SaveToFile(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	saveCfg := &SaveConfig{
		APIURL:    cfg.APIURL,
		SocketURL: cfg.SocketURL,
		Options:   cfg.Options,
	}

	data, err := json.MarshalIndent(saveCfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	out := &Config{path: path}
	token, hadToken := out.ConfigField("token")

	if err := os.WriteFile(path, data, 0o600); err != nil { //nolint:gosec // Restrictive permissions for security.
		return fmt.Errorf("writing config file: %w", err)
	}

	if hadToken {
		return out.SetConfigField("token", token)
	}
	return nil
}
