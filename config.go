package nebula

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the presentation settings that may come from a TOML file.
// Simulation constants are fixed and have no entry here.
type Config struct {
	Window WindowConfig `toml:"window"`
	Hud    HudConfig    `toml:"hud"`
	Log    LogConfig    `toml:"log"`
}

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

type HudConfig struct {
	Enabled  bool    `toml:"enabled"`
	Font     string  `toml:"font"`
	FontSize float64 `toml:"font_size"`
}

type LogConfig struct {
	Prefix string `toml:"prefix"`
	Debug  bool   `toml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Width:  DefaultWindowWidth,
			Height: DefaultWindowHeight,
			Title:  DefaultWindowTitle,
		},
		Hud: HudConfig{FontSize: 16},
		Log: LogConfig{Prefix: "nebula"},
	}
}

// DecodeConfig reads TOML on top of the defaults. Unknown keys are errors.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return DecodeConfig(f)
}

func (c Config) LoggingModule() LoggingModule {
	return LoggingModule{Prefix: c.Log.Prefix, Debug: c.Log.Debug}
}

func (c Config) WindowModule() WindowModule {
	return NewWindowModule(c.Window.Width, c.Window.Height, c.Window.Title)
}

func (c Config) HudModule() HudModule {
	return HudModule{Enabled: c.Hud.Enabled, FontPath: c.Hud.Font, FontSize: c.Hud.FontSize}
}
