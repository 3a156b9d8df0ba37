// Package config loads kerf settings from a TOML file. Every field has a
// default, so a missing file or a partial file is fine; unknown keys are
// rejected.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/chazu/kerf/pkg/slicer"
	"github.com/chazu/kerf/pkg/weld"
	"github.com/pelletier/go-toml/v2"
)

// Config is the full settings tree.
type Config struct {
	Slicing      Slicing      `toml:"slicing"`
	Weld         Weld         `toml:"weld"`
	Tessellation Tessellation `toml:"tessellation"`
	Engine       Engine       `toml:"engine"`
	Log          Log          `toml:"log"`
}

// Slicing sets the default sweep.
type Slicing struct {
	Step float64 `toml:"step"`
	Mode string  `toml:"mode"` // "mesh" or "box"
}

// Weld sets vertex welding.
type Weld struct {
	Threshold  float64 `toml:"threshold"`   // squared distance
	BucketSize float64 `toml:"bucket_size"` // 0 = derive from bounds
}

// Tessellation sets the marching-cubes resolution for scene solids.
type Tessellation struct {
	Cells int `toml:"cells"`
}

// Engine sets scene script evaluation.
type Engine struct {
	TimeoutSeconds float64 `toml:"timeout_seconds"`
}

// Log sets the log level: debug, info, warn or error.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Slicing:      Slicing{Step: 0.05, Mode: "mesh"},
		Weld:         Weld{Threshold: weld.DefaultThreshold},
		Tessellation: Tessellation{Cells: 64},
		Engine:       Engine{TimeoutSeconds: 5},
		Log:          Log{Level: "info"},
	}
}

// Parse decodes TOML data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("config: %s", strings.TrimSpace(strict.String()))
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the file at path. An empty path returns Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%w (in %s)", err, path)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Slicing.Step <= 0:
		return fmt.Errorf("config: slicing.step must be positive, got %g", c.Slicing.Step)
	case c.Weld.Threshold < 0:
		return fmt.Errorf("config: weld.threshold must not be negative, got %g", c.Weld.Threshold)
	case c.Weld.BucketSize < 0:
		return fmt.Errorf("config: weld.bucket_size must not be negative, got %g", c.Weld.BucketSize)
	case c.Tessellation.Cells <= 0:
		return fmt.Errorf("config: tessellation.cells must be positive, got %d", c.Tessellation.Cells)
	case c.Engine.TimeoutSeconds <= 0:
		return fmt.Errorf("config: engine.timeout_seconds must be positive, got %g", c.Engine.TimeoutSeconds)
	}
	if _, err := slicer.ParseMode(c.Slicing.Mode); err != nil {
		return fmt.Errorf("config: slicing.mode: %w", err)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// Mode returns the parsed slicing mode.
func (c Config) Mode() slicer.Mode {
	m, _ := slicer.ParseMode(c.Slicing.Mode)
	return m
}

// WeldOptions returns the welder settings.
func (c Config) WeldOptions() weld.Options {
	return weld.Options{Threshold: c.Weld.Threshold, BucketSize: c.Weld.BucketSize}
}

// Timeout returns the evaluation time limit.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Engine.TimeoutSeconds * float64(time.Second))
}

// LogLevel parses the log level.
func (c Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: log.level: %w", err)
	}
	return l, nil
}
