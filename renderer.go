package nebula

import (
	"errors"
	"fmt"

	"github.com/gekko3d/nebula/render/core"
)

// RendererName identifies a concrete Surface implementation.
type RendererName string

const (
	RendererWGPU     RendererName = "wgpu"
	RendererHeadless RendererName = "headless"
)

// Surface is something frames can be drawn into.
type Surface interface {
	// Resize is called with the new viewport size in screen coordinates.
	Resize(width, height int)
	Size() (width, height int)
	Draw(frame *core.Frame) error
	Release()
}

// Display is the render target resource. Text and TextAtlas are filled by
// the HUD before the render stage.
type Display struct {
	Surface   Surface
	Text      []core.TextItem
	TextAtlas *core.TextRenderer

	Drawn   uint64
	Skipped uint64

	frame core.Frame
}

// BuildFrame packs the scene as seen through cam. The returned frame is
// reused by the next call.
func (d *Display) BuildFrame(scene *Scene, cam *PerspectiveCamera) *core.Frame {
	f := &d.frame
	f.Reset()

	f.ViewProj = core.WebGPUViewProj(cam.ProjectionMatrix(), cam.ViewMatrix())
	f.CameraPos = cam.Position

	for _, l := range scene.Lights() {
		rad := l.Radiance()
		switch l.Type {
		case LightTypeAmbient:
			f.Ambient[0] += rad[0]
			f.Ambient[1] += rad[1]
			f.Ambient[2] += rad[2]
		case LightTypePoint:
			f.Lights = append(f.Lights, core.PointLight{
				Position: [4]float32{l.Position.X(), l.Position.Y(), l.Position.Z(), 1},
				Radiance: [4]float32{rad[0], rad[1], rad[2], 0},
			})
		}
	}

	for _, p := range scene.Points() {
		m := p.Material
		f.Batches = append(f.Batches, core.PointBatch{
			Id:              string(p.Id),
			Positions:       p.Buffer.Positions,
			Upload:          p.Buffer.NeedsUpdate,
			Color:           m.Color,
			Opacity:         m.Opacity,
			Size:            m.Size,
			Transparent:     m.Transparent,
			SizeAttenuation: m.SizeAttenuation,
			Lit:             m.Lit,
		})
	}

	f.Text = append(f.Text, d.Text...)
	f.TextAtlas = d.TextAtlas
	return f
}

// RendererTag marks that a renderer has been installed into the App.
type RendererTag struct {
	Name RendererName
}

// ensureSingleRenderer panics if a renderer with a different name is
// already installed.
func ensureSingleRenderer(app *App, name RendererName) {
	if tag, ok := Resource[RendererTag](app); ok {
		if tag.Name != name {
			app.Logger().Errorf("multiple renderers installed: %s and %s", tag.Name, name)
			panic(fmt.Sprintf("multiple renderers installed: %s and %s", tag.Name, name))
		}
		return
	}
	app.addResources(&RendererTag{Name: name})
}

// RendererModule installs the Display around Surface and the systems that
// draw into it.
type RendererModule struct {
	Name    RendererName
	Surface Surface
}

func (mod RendererModule) Install(app *App, cmd *Commands) {
	if mod.Surface == nil {
		app.Fail(errors.New("renderer: no surface"))
		return
	}
	ensureSingleRenderer(app, mod.Name)
	if vp, ok := Resource[Viewport](app); ok {
		mod.Surface.Resize(vp.Width, vp.Height)
	}
	cmd.AddResources(&Display{Surface: mod.Surface})
	cmd.Logger().Infof("renderer selected: %s", mod.Name)

	app.UseSystem(
		System(renderSystem).
			InStage(Render).
			InState(OnExecute(FrameRunning)),
	)
	app.UseSystem(
		System(releaseDisplaySystem).
			InStage(Finale).
			InState(OnExit(FrameRunning)),
	)
}

// renderSystem draws one frame. A failed draw skips the frame; the
// simulation keeps running.
func renderSystem(display *Display, scene *Scene, rig *CameraRig, cmd *Commands) {
	frame := display.BuildFrame(scene, rig.Camera)
	if err := display.Surface.Draw(frame); err != nil {
		display.Skipped++
		cmd.Logger().Warnf("frame skipped: %v", err)
		return
	}
	display.Drawn++
	for _, p := range scene.Points() {
		p.Buffer.NeedsUpdate = false
	}
}

func releaseDisplaySystem(display *Display, cmd *Commands) {
	display.Surface.Release()
	cmd.Logger().Debugf("display released after %d frames (%d skipped)", display.Drawn, display.Skipped)
}
