package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liteviewer/internal/logger"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LOG_LEVEL", "DEBUG",
		"LITEVIEWER_LOG_LEVEL", "LITEVIEWER_LOG_FORMAT",
		"LITEVIEWER_RENDER_BACKEND", "LITEVIEWER_RENDER_FILTER",
		"LITEVIEWER_AUTO_ORIENT",
	} {
		t.Setenv(key, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "LiteViewer", cfg.Window.Title)
	assert.Equal(t, float32(800), cfg.Window.Width)
	assert.Equal(t, float32(600), cfg.Window.Height)
	assert.Equal(t, 0.5, cfg.Zoom.Min)
	assert.Equal(t, 5.0, cfg.Zoom.Max)
	assert.Equal(t, 1.2, cfg.Zoom.Step)
	assert.Equal(t, "imaging", cfg.Render.Backend)
	assert.False(t, cfg.Image.AutoOrient)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFrom_ValidFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	content := `
[window]
width = 1024
height = 768

[zoom]
max = 8.0

[render]
filter = "lanczos"

[display]
background = "#202020"

[image]
auto_orient = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, float32(1024), cfg.Window.Width)
	assert.Equal(t, float32(768), cfg.Window.Height)
	assert.Equal(t, "LiteViewer", cfg.Window.Title)
	assert.Equal(t, 0.5, cfg.Zoom.Min)
	assert.Equal(t, 8.0, cfg.Zoom.Max)
	assert.Equal(t, "lanczos", cfg.Render.Filter)
	assert.Equal(t, "#202020", cfg.Display.Background)
	assert.True(t, cfg.Image.AutoOrient)
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[zoom\nmin = "), 0o644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LITEVIEWER_LOG_LEVEL", "warn")
	t.Setenv("LITEVIEWER_RENDER_FILTER", "box")
	t.Setenv("LITEVIEWER_AUTO_ORIENT", "true")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, logger.WarnLevel, cfg.LogLevel())
	assert.Equal(t, "box", cfg.Render.Filter)
	assert.True(t, cfg.Image.AutoOrient)
}

func TestLoadFrom_DebugEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEBUG", "1")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, logger.DebugLevel, cfg.LogLevel())
}

func TestLoadFrom_BadBoolEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LITEVIEWER_AUTO_ORIENT", "sometimes")

	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative min zoom", func(c *Config) { c.Zoom.Min = -1 }},
		{"min above one", func(c *Config) { c.Zoom.Min = 1.5 }},
		{"max below one", func(c *Config) { c.Zoom.Max = 0.8 }},
		{"flat step", func(c *Config) { c.Zoom.Step = 1 }},
		{"unknown backend", func(c *Config) { c.Render.Backend = "vulkan" }},
		{"unknown filter", func(c *Config) { c.Render.Filter = "nearest" }},
		{"bad background", func(c *Config) { c.Display.Background = "grey" }},
		{"bad border", func(c *Config) { c.Display.Border = "#12" }},
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDefaultConfigPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "liteviewer", "config.toml"), DefaultConfigPath())
}

func TestDisplayColors(t *testing.T) {
	d := DisplayConfig{Background: "#ff0000", Border: "#000"}

	r, g, b, a := d.BackgroundColor().RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Zero(t, g)
	assert.Zero(t, b)
	assert.Equal(t, uint32(0xffff), a)

	r, g, b, _ = d.BorderColor().RGBA()
	assert.Zero(t, r+g+b)
}
