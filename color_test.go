package nebula

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHueAt_Periodic(t *testing.T) {
	for _, p := range []float64{0, 0.3, 1, math.Pi / 2, 4.2, 100} {
		assert.InDelta(t, HueAt(p), HueAt(p+2*math.Pi), 1e-9, "phase %v", p)
	}
}

func TestHueAt_Range(t *testing.T) {
	assert.InDelta(t, 0.5, HueAt(0), 1e-12)
	assert.InDelta(t, 1.0, HueAt(math.Pi/2), 1e-12)
	assert.InDelta(t, 0.0, HueAt(3*math.Pi/2), 1e-12)
	for p := 0.0; p < 10; p += 0.01 {
		h := HueAt(p)
		assert.True(t, h >= 0 && h <= 1, "hue %v at phase %v", h, p)
	}
}

func TestColorCycle_Advance(t *testing.T) {
	c := NewColorCycle()
	for i := 0; i < 1000; i++ {
		c.Advance()
	}
	assert.InDelta(t, 1000*HueIncrement, c.Phase, 1e-9)
	assert.InDelta(t, HueAt(0.5), c.Hue(), 1e-9)
}

func TestColorCycle_Color(t *testing.T) {
	c := &ColorCycle{Phase: 3 * math.Pi / 2} // hue 0, red
	col := c.Color()
	assert.InDelta(t, 1, col[0], 1e-6)
	assert.InDelta(t, 0, col[1], 1e-6)
	assert.InDelta(t, 0, col[2], 1e-6)

	c.Phase = math.Asin(2.0/3.0 - 1) // hue 1/3, green
	col = c.Color()
	assert.InDelta(t, 0, col[0], 1e-6)
	assert.InDelta(t, 1, col[1], 1e-6)
	assert.InDelta(t, 0, col[2], 1e-6)
}

func TestHexColor(t *testing.T) {
	col := HexColor(ParticleColor)
	assert.InDelta(t, 0x07/255.0, col[0], 1e-7)
	assert.InDelta(t, 0xC0/255.0, col[1], 1e-7)
	assert.InDelta(t, 0xFE/255.0, col[2], 1e-7)
	assert.Equal(t, [3]float32{1, 1, 1}, HexColor(0xFFFFFF))
}

func TestColorModule_TintsParticles(t *testing.T) {
	app := NewFrameDriver().
		UseModule(ParticlesModule{Count: 4, Seed: 1}, SceneModule{}, ColorModule{}).
		Build()

	app.Step()

	cycle, _ := Resource[ColorCycle](app)
	scene, _ := Resource[Scene](app)
	assert.InDelta(t, HueIncrement, cycle.Phase, 1e-12)
	assert.Equal(t, cycle.Color(), scene.ParticleMaterial().Color)
}
