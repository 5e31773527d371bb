// Package config loads viewer settings from defaults, an optional TOML file
// and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"

	"liteviewer/internal/logger"
)

// Config holds the application configuration.
type Config struct {
	Window  WindowConfig  `toml:"window"`
	Zoom    ZoomConfig    `toml:"zoom"`
	Render  RenderConfig  `toml:"render"`
	Display DisplayConfig `toml:"display"`
	Image   ImageConfig   `toml:"image"`
	Log     LogConfig     `toml:"log"`
}

type WindowConfig struct {
	Title  string  `toml:"title"`
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`
}

// ZoomConfig bounds the zoom factor and sets the multiplicative step.
type ZoomConfig struct {
	Min  float64 `toml:"min"`
	Max  float64 `toml:"max"`
	Step float64 `toml:"step"`
}

type RenderConfig struct {
	Backend string `toml:"backend"` // "imaging" or "opencv"
	Filter  string `toml:"filter"`  // "linear", "catmullrom", "lanczos", "box"
}

type DisplayConfig struct {
	Background string `toml:"background"` // hex colour, e.g. "#f0f0f0"
	Border     string `toml:"border"`
}

type ImageConfig struct {
	AutoOrient bool `toml:"auto_orient"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "LiteViewer",
			Width:  800,
			Height: 600,
		},
		Zoom: ZoomConfig{
			Min:  0.5,
			Max:  5.0,
			Step: 1.2,
		},
		Render: RenderConfig{
			Backend: "imaging",
			Filter:  "linear",
		},
		Display: DisplayConfig{
			Background: "#f0f0f0",
			Border:     "#000000",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/liteviewer/config.toml, falling
// back to ~/.config.
func DefaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "liteviewer", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "liteviewer", "config.toml")
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom starts with defaults, overlays the file at path if it exists, then
// applies environment overrides and validates the result.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides honours LITEVIEWER_* variables plus the LOG_LEVEL and
// DEBUG=1 conventions.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if os.Getenv("DEBUG") == "1" {
		cfg.Log.Level = "debug"
	}
	if v := os.Getenv("LITEVIEWER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LITEVIEWER_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("LITEVIEWER_RENDER_BACKEND"); v != "" {
		cfg.Render.Backend = v
	}
	if v := os.Getenv("LITEVIEWER_RENDER_FILTER"); v != "" {
		cfg.Render.Filter = v
	}
	if v := os.Getenv("LITEVIEWER_AUTO_ORIENT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LITEVIEWER_AUTO_ORIENT: %w", err)
		}
		cfg.Image.AutoOrient = b
	}
	return nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %.0fx%.0f", c.Window.Width, c.Window.Height)
	}
	if c.Zoom.Min <= 0 {
		return fmt.Errorf("zoom.min must be positive, got %g", c.Zoom.Min)
	}
	if c.Zoom.Min > 1 || c.Zoom.Max < 1 {
		return fmt.Errorf("zoom range [%g, %g] must contain 1.0", c.Zoom.Min, c.Zoom.Max)
	}
	if c.Zoom.Step <= 1 {
		return fmt.Errorf("zoom.step must be greater than 1, got %g", c.Zoom.Step)
	}

	switch strings.ToLower(c.Render.Backend) {
	case "imaging", "opencv":
	default:
		return fmt.Errorf("unknown render backend %q", c.Render.Backend)
	}
	switch strings.ToLower(c.Render.Filter) {
	case "linear", "catmullrom", "lanczos", "box":
	default:
		return fmt.Errorf("unknown render filter %q", c.Render.Filter)
	}

	if _, err := colorful.Hex(c.Display.Background); err != nil {
		return fmt.Errorf("display.background: %w", err)
	}
	if _, err := colorful.Hex(c.Display.Border); err != nil {
		return fmt.Errorf("display.border: %w", err)
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// LogLevel returns the parsed log level; Validate guarantees it parses.
func (c *Config) LogLevel() logger.LogLevel {
	level, _ := logger.ParseLevel(c.Log.Level)
	return level
}

// NewLogger builds the logger described by the [log] section.
func (c *Config) NewLogger() logger.Logger {
	if c.Log.Format == "json" {
		return logger.NewJSONLogger(c.LogLevel())
	}
	return logger.NewConsoleLogger(c.LogLevel())
}

// BackgroundColor returns the display background; Validate guarantees it parses.
func (d DisplayConfig) BackgroundColor() color.Color {
	c, _ := colorful.Hex(d.Background)
	return c.Clamped()
}

func (d DisplayConfig) BorderColor() color.Color {
	c, _ := colorful.Hex(d.Border)
	return c.Clamped()
}
