package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/gekko3d/nebula"
	"github.com/spf13/pflag"
)

func init() {
	// glfw and the WebGPU surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := pflag.String("config", "", "TOML file with window, hud and log settings")
	width := pflag.Int("width", nebula.DefaultWindowWidth, "window width")
	height := pflag.Int("height", nebula.DefaultWindowHeight, "window height")
	debug := pflag.Bool("debug", false, "show the HUD and enable debug logging")
	font := pflag.String("font", "", "TrueType/OpenType font for the HUD")
	fontSize := pflag.Float64("font-size", 16, "HUD font size in points")
	headless := pflag.Bool("headless", false, "run the simulation without a window or GPU")
	frames := pflag.Uint64("frames", 0, "stop after this many frames, 0 runs until the window closes")
	seed := pflag.Int64("seed", 0, "particle layout seed, 0 seeds from the clock")
	pflag.Parse()

	if *headless && *frames == 0 {
		fmt.Fprintln(os.Stderr, "nebula: --headless needs --frames")
		os.Exit(2)
	}

	cfg := nebula.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = nebula.LoadConfig(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "nebula: %v\n", err)
			os.Exit(2)
		}
	}

	// flags given on the command line win over the file
	flags := pflag.CommandLine
	if flags.Changed("width") {
		cfg.Window.Width = *width
	}
	if flags.Changed("height") {
		cfg.Window.Height = *height
	}
	if flags.Changed("font") {
		cfg.Hud.Font = *font
	}
	if flags.Changed("font-size") {
		cfg.Hud.FontSize = *fontSize
	}
	if *debug {
		cfg.Hud.Enabled = true
		cfg.Log.Debug = true
	}

	particles := nebula.NewParticlesModule()
	particles.Seed = *seed

	builder := nebula.NewFrameDriver().
		UseModule(
			cfg.LoggingModule(),
			nebula.TimeModule{},
		)

	if *headless {
		builder.UseModule(nebula.HeadlessModule{Width: cfg.Window.Width, Height: cfg.Window.Height})
	} else {
		builder.UseModule(cfg.WindowModule())
	}

	builder.UseModule(
		particles,
		nebula.SceneModule{},
		nebula.ColorModule{},
		nebula.CameraModule{},
	)

	if *headless {
		builder.UseModule(nebula.RendererModule{
			Name:    nebula.RendererHeadless,
			Surface: nebula.NewHeadlessSurface(cfg.Window.Width, cfg.Window.Height),
		})
	} else {
		builder.UseModule(nebula.GpuModule{})
	}

	builder.UseModule(cfg.HudModule())
	if *frames > 0 {
		builder.UseModule(nebula.FrameLimitModule{Frames: *frames})
	}

	app := builder.Build()
	if err := app.Run(); err != nil {
		app.Logger().Errorf("%v", err)
		os.Exit(1)
	}
}
