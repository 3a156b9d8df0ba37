package main

import (
	"log/slog"
	"os"

	"github.com/chazu/kerf/pkg/config"
)

// configEnv names the environment variable holding an optional config path.
const configEnv = "KERF_CONFIG"

// setup loads the configuration and installs the default slog handler.
// path overrides KERF_CONFIG when non-empty.
func setup(path string) (config.Config, error) {
	if path == "" {
		path = os.Getenv(configEnv)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return cfg, err
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))
	return cfg, nil
}
