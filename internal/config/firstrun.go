package config

import (
	"os"
)

// IsFirstRun checks if this is the first time running Aurora.
// Returns true if no config file exists or no credential is configured.
func IsFirstRun() bool {
	if _, err := os.Stat(GlobalConfigPath()); os.IsNotExist(err) {
		return os.Getenv(EnvToken) == ""
	}

	cfg, err := Load()
	if err != nil {
		return true
	}
	return !cfg.HasToken()
}
