package nebula

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorCycle drives the particle tint. The phase moves by a fixed amount
// per frame, so the cycle speed follows the frame rate.
type ColorCycle struct {
	Phase     float64
	Increment float64
}

func NewColorCycle() *ColorCycle {
	return &ColorCycle{Increment: HueIncrement}
}

func (c *ColorCycle) Advance() {
	c.Phase += c.Increment
}

// Hue maps the phase into [0, 1].
func (c *ColorCycle) Hue() float64 {
	return HueAt(c.Phase)
}

func HueAt(phase float64) float64 {
	return (math.Sin(phase) + 1) / 2
}

// Color is the current hue at full saturation and half lightness.
func (c *ColorCycle) Color() [3]float32 {
	return hslToRGB(c.Hue(), 1, 0.5)
}

func hslToRGB(h, s, l float64) [3]float32 {
	col := colorful.Hsl(h*360, s, l).Clamped()
	return [3]float32{float32(col.R), float32(col.G), float32(col.B)}
}

// HexColor converts a 0xRRGGBB literal into linear 0..1 components
// without any colour-space conversion.
func HexColor(hex uint32) [3]float32 {
	return [3]float32{
		float32((hex>>16)&0xFF) / 255,
		float32((hex>>8)&0xFF) / 255,
		float32(hex&0xFF) / 255,
	}
}

type ColorModule struct{}

func (ColorModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewColorCycle())
	app.UseSystem(
		System(colorCycleSystem).
			InStage(Simulate).
			InState(OnExecute(FrameRunning)),
	)
}

func colorCycleSystem(cycle *ColorCycle, scene *Scene) {
	cycle.Advance()
	if mat := scene.ParticleMaterial(); mat != nil {
		mat.SetColor(cycle.Color())
	}
}
