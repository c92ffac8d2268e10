package nebula

import (
	"errors"
	"testing"

	"github.com/gekko3d/nebula/render/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHeadlessApp(t *testing.T, width, height int, extra ...Module) (*App, *HeadlessSurface) {
	t.Helper()
	surface := NewHeadlessSurface(width, height)
	app := NewFrameDriver().
		UseModule(
			TimeModule{},
			HeadlessModule{Width: width, Height: height},
			ParticlesModule{Count: 16, Seed: 1},
			SceneModule{},
			ColorModule{},
			CameraModule{},
			RendererModule{Name: RendererHeadless, Surface: surface},
			HudModule{Enabled: true},
		).
		UseModule(extra...).
		Build()
	require.NoError(t, app.Err())
	return app, surface
}

func TestFrameDriver_States(t *testing.T) {
	app, surface := newHeadlessApp(t, 800, 600)
	assert.Equal(t, FrameIdle, app.State())

	app.Step()

	assert.Equal(t, FrameRunning, app.State())
	assert.Equal(t, uint64(1), surface.Frames, "the first step already draws")
	assert.False(t, app.Stopped())
}

func TestFrameDriver_RunUntilLimit(t *testing.T) {
	app, surface := newHeadlessApp(t, 800, 600, FrameLimitModule{Frames: 3})

	require.NoError(t, app.Run())

	assert.Equal(t, FrameStopped, app.State())
	assert.True(t, app.Stopped())
	assert.Equal(t, uint64(3), surface.Frames)
	assert.True(t, surface.Released)
}

func TestFrameDriver_FrameOrdering(t *testing.T) {
	app, surface := newHeadlessApp(t, 800, 600)
	buf, _ := Resource[ParticleBuffer](app)
	cycle, _ := Resource[ColorCycle](app)
	rig, _ := Resource[CameraRig](app)

	app.PointerMoved(500, 200)
	start := append([]float32(nil), buf.Positions...)
	app.Step()

	// step ran before the draw
	require.Len(t, surface.LastBatches, 1)
	drawn := surface.LastBatches[0]
	assert.NotEqual(t, start, drawn.Positions)
	assert.True(t, drawn.Upload)
	assert.False(t, buf.NeedsUpdate, "cleared after a successful draw")

	// colour advanced before the draw
	assert.Equal(t, cycle.Color(), drawn.Color)

	// pointer override and orbit update ran before the draw
	assert.InDelta(t, -100, rig.Camera.Position.X(), 1e-2)
	assert.InDelta(t, -100, rig.Camera.Position.Y(), 1e-2)
	assert.Equal(t, core.WebGPUViewProj(rig.Camera.ProjectionMatrix(), rig.Camera.ViewMatrix()), surface.LastViewProj)

	app.Step()
	assert.Equal(t, uint64(2), surface.Uploads, "positions upload every frame")
}

func TestFrameDriver_DrawErrorSkipsFrame(t *testing.T) {
	app, surface := newHeadlessApp(t, 800, 600)
	display, _ := Resource[Display](app)
	buf, _ := Resource[ParticleBuffer](app)
	surface.Err = errors.New("surface lost")

	start := append([]float32(nil), buf.Positions...)
	app.Step()

	assert.Equal(t, uint64(1), display.Skipped)
	assert.Zero(t, display.Drawn)
	assert.True(t, buf.NeedsUpdate, "positions stay dirty for the next draw")
	assert.NotEqual(t, start, buf.Positions, "simulation keeps running")

	surface.Err = nil
	app.Step()
	assert.Equal(t, uint64(1), display.Drawn)
}

func TestApp_Resize(t *testing.T) {
	app, surface := newHeadlessApp(t, 800, 600)
	rig, _ := Resource[CameraRig](app)
	vp, _ := Resource[Viewport](app)

	app.Resize(1000, 500)

	w, h := surface.Size()
	assert.Equal(t, 1000, w)
	assert.Equal(t, 500, h)
	assert.Equal(t, Viewport{Width: 1000, Height: 500}, *vp)
	assert.InDelta(t, 2.0, rig.Camera.Aspect, 1e-6)
	assert.Equal(t,
		mgl32.Perspective(mgl32.DegToRad(rig.Camera.Fov), 2, rig.Camera.Near, rig.Camera.Far),
		rig.Camera.ProjectionMatrix())

	app.Resize(0, 300)
	w, h = surface.Size()
	assert.Equal(t, 1000, w)
	assert.Equal(t, 500, h)
	assert.InDelta(t, 2.0, rig.Camera.Aspect, 1e-6)
}

func TestApp_ResizeChangesPointerMapping(t *testing.T) {
	app, _ := newHeadlessApp(t, 800, 600)
	pointer, _ := Resource[Pointer](app)

	app.Resize(400, 400)
	app.PointerMoved(200, 200)

	assert.Equal(t, float32(0), pointer.X)
	assert.Equal(t, float32(0), pointer.Y)
}

func TestApp_OrbitEvents(t *testing.T) {
	app, _ := newHeadlessApp(t, 800, 600)
	rig, _ := Resource[CameraRig](app)

	app.PointerMoved(400, 300)
	app.MouseButton(MouseButtonLeft, true)
	assert.True(t, rig.Input.Dragging())

	app.PointerMoved(460, 300)
	assert.False(t, rig.Controls.Settled())

	app.MouseButton(MouseButtonLeft, false)
	assert.False(t, rig.Input.Dragging())

	app.Scrolled(1)
	assert.InDelta(t, 0.95, rig.Controls.scale, 1e-6)
}

func TestEnsureSingleRenderer(t *testing.T) {
	app, _ := newHeadlessApp(t, 800, 600)

	assert.NotPanics(t, func() {
		ensureSingleRenderer(app, RendererHeadless)
	})
	assert.Panics(t, func() {
		ensureSingleRenderer(app, RendererWGPU)
	})
}

func TestRendererModule_NilSurfaceFails(t *testing.T) {
	app := NewFrameDriver().UseModule(RendererModule{Name: RendererWGPU}).Build()
	assert.Error(t, app.Run())
}

func TestFrameStateString(t *testing.T) {
	assert.Equal(t, "idle", FrameIdle.String())
	assert.Equal(t, "running", FrameRunning.String())
	assert.Equal(t, "stopped", FrameStopped.String())
	assert.Equal(t, "unknown", State(42).String())
}
