package nebula

import (
	"errors"
	"fmt"

	"github.com/gekko3d/nebula/render/gpu"
)

// GpuModule creates the WebGPU renderer for the window and installs it as
// the display. WindowModule must be installed first.
type GpuModule struct{}

func (GpuModule) Install(app *App, cmd *Commands) {
	if app.Err() != nil {
		return
	}
	ws, ok := Resource[WindowState](app)
	if !ok {
		app.Fail(errors.New("gpu: no window, install WindowModule first"))
		return
	}

	r, err := gpu.NewRenderer(ws.Glfw(), cmd.Logger())
	if err != nil {
		app.Fail(fmt.Errorf("gpu renderer: %w", err))
		return
	}
	RendererModule{Name: RendererWGPU, Surface: r}.Install(app, cmd)
}
