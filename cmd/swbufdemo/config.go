package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

// Config holds demo settings. It is read from a TOML file and then
// overridden by explicitly set flags.
type Config struct {
	// Backend is one of auto, memory, term, ebitengine or fbdev.
	Backend string `toml:"backend"`

	Width  int `toml:"width"`
	Height int `toml:"height"`

	// Frames is the number of frames to render; 0 runs until interrupted
	// on interactive backends.
	Frames int `toml:"frames"`
	FPS    int `toml:"fps"`

	// Output is the PNG written by the memory backend.
	Output string `toml:"output"`

	// Scale multiplies the ebitengine window size.
	Scale int `toml:"scale"`

	// Device is the framebuffer device; empty means /dev/fb0.
	Device string `toml:"device"`

	LogLevel string `toml:"log_level"`
}

var backends = []string{"auto", "memory", "term", "ebitengine", "fbdev"}

func defaultConfig() Config {
	return Config{
		Backend:  "auto",
		Width:    160,
		Height:   96,
		Frames:   120,
		FPS:      30,
		Output:   "swbufdemo.png",
		Scale:    4,
		LogLevel: "info",
	}
}

// loadConfig reads path over the defaults. Unknown keys are an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	return cfg, decodeConfig(data, &cfg)
}

func decodeConfig(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Validate checks ranges and names.
func (c Config) Validate() error {
	if !slices.Contains(backends, c.Backend) {
		return fmt.Errorf("config: unknown backend %q (want one of %v)", c.Backend, backends)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: size %dx%d must be positive", c.Width, c.Height)
	}
	if c.Frames < 0 {
		return fmt.Errorf("config: frames %d is negative", c.Frames)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("config: fps %d must be positive", c.FPS)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

func (c Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return l, nil
}

// resolveBackend picks a concrete backend for auto: the terminal when
// stdout is one, memory otherwise.
func (c Config) resolveBackend(interactive bool) string {
	if c.Backend != "auto" {
		return c.Backend
	}
	if interactive {
		return "term"
	}
	return "memory"
}
