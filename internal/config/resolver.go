package config

import (
	"fmt"
	"os"
	"strings"
)

// Resolver expands "$NAME" references in configuration values so secrets
// can live in the environment instead of the config file.
type Resolver struct {
	lookup func(string) (string, bool)
}

// NewResolver creates a resolver backed by the process environment.
func NewResolver() *Resolver {
	return &Resolver{lookup: os.LookupEnv}
}

// Resolve returns value unchanged unless it is a single "$NAME" or "${NAME}"
// reference, in which case the variable must be set.
func (r *Resolver) Resolve(value string) (string, error) {
	if !strings.HasPrefix(value, "$") {
		return value, nil
	}
	name := strings.TrimPrefix(value, "$")
	name = strings.TrimSuffix(strings.TrimPrefix(name, "{"), "}")
	if name == "" {
		return value, nil
	}
	v, ok := r.lookup(name)
	if !ok {
		return "", fmt.Errorf("environment variable %s is not set", name)
	}
	return v, nil
}
