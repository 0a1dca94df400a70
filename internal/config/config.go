// Package config loads shell configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"gemini-shell/internal/loader"
)

// Config holds everything the shell needs to build one surface.
type Config struct {
	// Addr is the loopback address the surface listens on.
	Addr string `env:"GEMINI_SHELL_ADDR" envDefault:"127.0.0.1:8397"`

	// Mode selects the content origin: remote, bundled, or dev.
	Mode string `env:"GEMINI_SHELL_MODE" envDefault:"remote"`
	// RemoteURL is the production web app location.
	RemoteURL string `env:"GEMINI_SHELL_REMOTE_URL"`
	// DevURL is the local development server location.
	DevURL string `env:"GEMINI_SHELL_DEV_URL" envDefault:"http://127.0.0.1:4200"`
	// AssetsDir is the packaged asset tree for bundled mode.
	AssetsDir string `env:"GEMINI_SHELL_ASSETS_DIR" envDefault:"www"`
	// MissingRootPolicy is "error-screen" or "fallback".
	MissingRootPolicy string `env:"GEMINI_SHELL_MISSING_ROOT_POLICY" envDefault:"error-screen"`

	GoogleClientID     string `env:"GEMINI_SHELL_GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GEMINI_SHELL_GOOGLE_CLIENT_SECRET"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks mode-dependent requirements.
func (c Config) Validate() error {
	mode, err := loader.ParseMode(c.Mode)
	if err != nil {
		return err
	}

	policy, err := loader.ParseMissingRootPolicy(c.MissingRootPolicy)
	if err != nil {
		return err
	}

	needsRemote := mode == loader.ModeRemote ||
		(mode == loader.ModeBundled && policy == loader.PolicyFallback)
	if needsRemote && c.RemoteURL == "" {
		return fmt.Errorf("remote URL is required for mode %q with policy %q", c.Mode, c.MissingRootPolicy)
	}

	if mode == loader.ModeDev && c.DevURL == "" {
		return fmt.Errorf("dev URL is required for mode %q", c.Mode)
	}

	return nil
}

// LoaderConfig resolves the load decision for the content loader. Call
// Validate first.
func (c Config) LoaderConfig() loader.Config {
	return loader.Config{
		Mode:      loader.Mode(c.Mode),
		RemoteURL: c.RemoteURL,
		DevURL:    c.DevURL,
		AssetsDir: c.AssetsDir,
		Policy:    loader.MissingRootPolicy(c.MissingRootPolicy),
	}
}
