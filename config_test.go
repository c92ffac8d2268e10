package nebula

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeConfig_Defaults(t *testing.T) {
	cfg, err := DecodeConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestDecodeConfig_Overrides(t *testing.T) {
	cfg, err := DecodeConfig(strings.NewReader(`
[window]
width = 1024
title = "stars"

[hud]
enabled = true
font_size = 12.5

[log]
debug = true
`))
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, DefaultWindowHeight, cfg.Window.Height)
	assert.Equal(t, "stars", cfg.Window.Title)
	assert.True(t, cfg.Hud.Enabled)
	assert.Equal(t, 12.5, cfg.Hud.FontSize)
	assert.True(t, cfg.Log.Debug)
	assert.Equal(t, "nebula", cfg.Log.Prefix)

	assert.Equal(t, WindowModule{Width: 1024, Height: DefaultWindowHeight, Title: "stars"}, cfg.WindowModule())
	assert.Equal(t, HudModule{Enabled: true, FontSize: 12.5}, cfg.HudModule())
	assert.Equal(t, LoggingModule{Prefix: "nebula", Debug: true}, cfg.LoggingModule())
}

func TestDecodeConfig_RejectsUnknownKeys(t *testing.T) {
	_, err := DecodeConfig(strings.NewReader("[particles]\ncount = 5\n"))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nebula.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\nheight = 480\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 480, cfg.Window.Height)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
