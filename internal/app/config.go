package app

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime wiring options for building the app. Values come
// from an optional YAML file in the vault home, overridden by CLI flags.
type Config struct {
	Home          string        `yaml:"home"`          // vault directory, e.g. $HOME/.keychain
	IssuerTimeout time.Duration `yaml:"issuerTimeout"` // per-request timeout for the issuer collaborator
	LogLevel      string        `yaml:"logLevel"`      // debug, info, warn, error
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		IssuerTimeout: 15 * time.Second,
		LogLevel:      "info",
	}
}

// LoadConfig reads <home>/config.yml over the defaults. A missing file is
// not an error; a present but unparsable one is.
func LoadConfig(home string) (Config, error) {
	cfg := DefaultConfig()
	cfg.Home = home

	data, err := os.ReadFile(filepath.Join(home, "config.yml"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Home == "" {
		cfg.Home = home
	}
	return cfg, nil
}
