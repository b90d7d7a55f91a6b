package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const configFileName = "aurora.json"

// Environment overrides.
const (
	EnvAPIURL    = "AURORA_API_URL"
	EnvSocketURL = "AURORA_SOCKET_URL"
	EnvToken     = "AURORA_TOKEN"
	EnvDataDir   = "AURORA_DATA_DIR"
)

// Load finds and loads configuration from standard locations.
// It merges global config with project config (project takes precedence),
// then applies .env and environment overrides.
func Load() (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	cfg := NewConfig()
	if err := loadFile(cfg.path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	if projectPath := findProjectConfig(); projectPath != "" {
		projectCfg := &Config{}
		if err := loadFile(projectPath, projectCfg); err != nil {
			return nil, fmt.Errorf("loading project config: %w", err)
		}
		mergeConfig(cfg, projectCfg)
	}

	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific file path. Writes made
// through the returned config go back to the same file.
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{Options: &Options{}, path: path}
	if err := loadFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func finish(cfg *Config) error {
	applyEnv(cfg)

	token, err := NewResolver().Resolve(cfg.Token)
	if err != nil {
		return fmt.Errorf("resolving token: %w", err)
	}
	cfg.Token = token

	return applyDefaults(cfg)
}

func loadFile(path string, cfg *Config) error {
	//nolint:gosec // G304: Path is from trusted config locations, not user input.
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		path := filepath.Join(dir, configFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		hiddenPath := filepath.Join(dir, "."+configFileName)
		if _, err := os.Stat(hiddenPath); err == nil {
			return hiddenPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func mergeConfig(dst, src *Config) {
	if src.APIURL != "" {
		dst.APIURL = src.APIURL
	}
	if src.SocketURL != "" {
		dst.SocketURL = src.SocketURL
	}
	if src.Token != "" {
		dst.Token = src.Token
	}

	if src.Options != nil {
		if dst.Options == nil {
			dst.Options = &Options{}
		}
		if src.Options.DataDir != "" {
			dst.Options.DataDir = src.Options.DataDir
		}
		if src.Options.Theme != "" {
			dst.Options.Theme = src.Options.Theme
		}
		if src.Options.Debug {
			dst.Options.Debug = true
		}
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvSocketURL); v != "" {
		cfg.SocketURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		if cfg.Options == nil {
			cfg.Options = &Options{}
		}
		cfg.Options.DataDir = v
	}
}

// ApplyDefaults fills in the data directory and endpoints left unset.
func (c *Config) ApplyDefaults() error {
	return applyDefaults(c)
}

func applyDefaults(cfg *Config) error {
	if cfg.Options == nil {
		cfg.Options = &Options{}
	}
	if cfg.Options.DataDir == "" {
		cfg.Options.DataDir = filepath.Join(xdg.DataHome, appName)
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.SocketURL == "" {
		socketURL, err := socketURLFor(cfg.APIURL)
		if err != nil {
			return err
		}
		cfg.SocketURL = socketURL
	}
	return nil
}

// GlobalConfigPath returns the path to the global configuration file.
func GlobalConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, configFileName)
}
