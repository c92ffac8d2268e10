package nebula

import (
	"fmt"
	"time"

	"github.com/gekko3d/nebula/render/core"
)

const hudMargin = 10

// Hud is the text overlay in the top-left corner.
type Hud struct {
	Enabled bool
	Atlas   *core.TextRenderer
	Scale   float32
	Color   [4]float32

	FPS          float64
	fpsFrames    int
	fpsElapsed   time.Duration
	fpsThreshold time.Duration
}

func NewHud(atlas *core.TextRenderer) *Hud {
	return &Hud{
		Enabled:      true,
		Atlas:        atlas,
		Scale:        1,
		Color:        [4]float32{1, 1, 1, 0.9},
		fpsThreshold: time.Second,
	}
}

// Tick accumulates frame time and refreshes FPS about once per second.
func (h *Hud) Tick(dt time.Duration) {
	h.fpsFrames++
	h.fpsElapsed += dt
	if h.fpsElapsed >= h.fpsThreshold && h.fpsElapsed > 0 {
		h.FPS = float64(h.fpsFrames) / h.fpsElapsed.Seconds()
		h.fpsFrames = 0
		h.fpsElapsed = 0
	}
}

func (h *Hud) Text(cycle *ColorCycle, rig *CameraRig, buf *ParticleBuffer) string {
	pos := rig.Camera.Position
	return fmt.Sprintf("%.1f fps\n%d particles\nhue %.3f\ncamera %.1f %.1f %.1f",
		h.FPS, buf.Count(), cycle.Hue(), pos.X(), pos.Y(), pos.Z())
}

// HudModule installs the overlay. It draws into the Display, so a renderer
// must be installed first.
type HudModule struct {
	Enabled  bool
	FontPath string
	FontSize float64
}

func (mod HudModule) Install(app *App, cmd *Commands) {
	atlas := core.NewDefaultTextRenderer()
	if mod.FontPath != "" {
		size := mod.FontSize
		if size <= 0 {
			size = 16
		}
		tr, err := core.NewTextRendererFromFile(mod.FontPath, size)
		if err != nil {
			cmd.Logger().Warnf("hud: %v, using built-in font", err)
		} else {
			atlas = tr
		}
	}

	hud := NewHud(atlas)
	hud.Enabled = mod.Enabled
	cmd.AddResources(hud)

	app.UseSystem(
		System(hudSystem).
			InStage(PreRender).
			InState(OnExecute(FrameRunning)),
	)
}

func hudSystem(hud *Hud, t *Time, cycle *ColorCycle, rig *CameraRig, buf *ParticleBuffer, display *Display) {
	hud.Tick(t.Dt)

	display.Text = display.Text[:0]
	display.TextAtlas = nil
	if !hud.Enabled {
		return
	}
	display.TextAtlas = hud.Atlas
	display.Text = append(display.Text, core.TextItem{
		Text:     hud.Text(cycle, rig, buf),
		Position: [2]float32{hudMargin, hudMargin},
		Scale:    hud.Scale,
		Color:    hud.Color,
	})
}
