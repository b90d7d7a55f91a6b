// Package config provides configuration management for the Aurora client.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const appName = "aurora"

// Default backend endpoints.
const (
	DefaultAPIURL = "http://localhost:3000/api"
	socketPath    = "/ws"
)

// Config is the top-level configuration structure.
//
//nolint:govet // Field order is intentional for JSON readability.
type Config struct {
	APIURL    string   `json:"api_url,omitempty"`
	SocketURL string   `json:"socket_url,omitempty"`
	Token     string   `json:"token,omitempty"`
	Options   *Options `json:"options,omitempty"`

	path string
}

// Options holds optional configuration settings.
//
//nolint:govet // Field order is intentional for JSON readability.
type Options struct {
	DataDir string `json:"data_directory,omitempty"`
	Debug   bool   `json:"debug,omitempty"`
	Theme   string `json:"theme,omitempty"`
}

// NewConfig creates a new Config bound to the global config file.
func NewConfig() *Config {
	return &Config{
		Options: &Options{},
		path:    GlobalConfigPath(),
	}
}

// Path returns the file this config persists to.
func (c *Config) Path() string {
	if c.path == "" {
		return GlobalConfigPath()
	}
	return c.path
}

// DataDir returns the data directory path from configuration.
func (c *Config) DataDir() string {
	if c.Options != nil && c.Options.DataDir != "" {
		return c.Options.DataDir
	}
	return filepath.Join(xdg.DataHome, appName)
}

// ArchivePath returns the location of the local transcript database.
func (c *Config) ArchivePath() string {
	return filepath.Join(c.DataDir(), appName+".db")
}

// HasToken reports whether a credential is configured.
func (c *Config) HasToken() bool {
	return strings.TrimSpace(c.Token) != ""
}

// SetConfigField updates a single field in the config file using JSON path notation.
// This uses sjson for surgical updates - only the specified field is modified.
func (c *Config) SetConfigField(key string, value any) error {
	return updateFile(c.Path(), func(data string) (string, error) {
		return sjson.Set(data, key, value)
	})
}

// DeleteConfigField removes a single field from the config file.
func (c *Config) DeleteConfigField(key string) error {
	return updateFile(c.Path(), func(data string) (string, error) {
		return sjson.Delete(data, key)
	})
}

// ConfigField reads a single raw field from the config file.
func (c *Config) ConfigField(key string) (string, bool) {
	//nolint:gosec // G304: path is from trusted config locations, not user input.
	data, err := os.ReadFile(c.Path())
	if err != nil {
		return "", false
	}
	res := gjson.GetBytes(data, key)
	if !res.Exists() {
		return "", false
	}
	return res.String(), true
}

// SaveToken persists the credential and updates the in-memory config.
func (c *Config) SaveToken(token string) error {
	if err := c.SetConfigField("token", token); err != nil {
		return fmt.Errorf("persisting token: %w", err)
	}
	c.Token = token
	return nil
}

// ClearToken removes the persisted credential.
func (c *Config) ClearToken() error {
	if err := c.DeleteConfigField("token"); err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}
	c.Token = ""
	return nil
}

func updateFile(path string, edit func(string) (string, error)) error {
	//nolint:gosec // G304: path is from trusted config locations, not user input.
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("reading config file: %w", err)
		}
		data = []byte("{}")
	}

	newData, err := edit(string(data))
	if err != nil {
		return fmt.Errorf("editing config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	//nolint:gosec // 0o600 is intentionally restrictive for security.
	if err := os.WriteFile(path, []byte(newData), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// socketURLFor derives the socket endpoint from the API base: same host,
// ws/wss scheme, fixed path.
func socketURLFor(apiURL string) (string, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return "", fmt.Errorf("parsing api url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http", "":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("unsupported api url scheme %q", u.Scheme)
	}
	u.Path = socketPath
	u.RawQuery = ""
	return u.String(), nil
}
