package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/nebula/render/core"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var ErrNoAdapter = errors.New("no compatible GPU adapter")

// Logger is the subset of the application logger the renderer uses.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

var clearColor = wgpu.Color{R: 0, G: 0, B: 0, A: 1}

// Renderer draws frames into a glfw window through WebGPU.
type Renderer struct {
	window   *glfw.Window
	logger   Logger
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface
	config   *wgpu.SurfaceConfiguration

	points *PointsRenderPass
	text   *TextRenderPass

	width, height int // window size in screen coordinates
}

func NewRenderer(window *glfw.Window, logger Logger) (*Renderer, error) {
	r := &Renderer{window: window, logger: logger}
	r.width, r.height = window.GetSize()
	ok := false
	defer func() {
		if !ok {
			r.Release()
		}
	}()

	var err error

	r.instance = wgpu.CreateInstance(nil)
	r.surface = r.instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	r.adapter, err = r.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: r.surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoAdapter, err)
	}
	if r.adapter == nil {
		return nil, ErrNoAdapter
	}

	r.device, err = r.adapter.RequestDevice(nil)
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}
	r.queue = r.device.GetQueue()

	caps := r.surface.GetCapabilities(r.adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return nil, fmt.Errorf("%w: surface reports no formats", ErrNoAdapter)
	}
	fbW, fbH := window.GetFramebufferSize()
	r.config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(fbW, 1)),
		Height:      uint32(max(fbH, 1)),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	r.surface.Configure(r.adapter, r.device, r.config)

	r.points, err = NewPointsRenderPass(r.device, r.config.Format)
	if err != nil {
		return nil, fmt.Errorf("points pipeline: %w", err)
	}

	logger.Debugf("wgpu surface %dx%d format %v", r.config.Width, r.config.Height, r.config.Format)
	ok = true
	return r, nil
}

// Resize reconfigures the swap chain for the window's current framebuffer.
// width and height are the window size; the framebuffer may be larger on
// high-DPI displays.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width, r.height = width, height
	r.configure()
}

func (r *Renderer) configure() bool {
	fbW, fbH := r.window.GetFramebufferSize()
	if fbW <= 0 || fbH <= 0 {
		return false
	}
	if r.config.Width == uint32(fbW) && r.config.Height == uint32(fbH) {
		return true
	}
	r.config.Width, r.config.Height = uint32(fbW), uint32(fbH)
	r.surface.Configure(r.adapter, r.device, r.config)
	r.logger.Debugf("surface reconfigured to %dx%d", fbW, fbH)
	return true
}

func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Draw renders one frame and presents it.
func (r *Renderer) Draw(frame *core.Frame) error {
	if !r.configure() {
		// minimised, nothing to draw into
		return nil
	}

	if err := r.points.Update(r.queue, frame, r.config.Width, r.config.Height); err != nil {
		return fmt.Errorf("upload points: %w", err)
	}
	if err := r.updateText(frame); err != nil {
		return fmt.Errorf("upload text: %w", err)
	}

	next, err := r.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	defer next.Release()

	view, err := next.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create view: %w", err)
	}
	defer view.Release()

	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: clearColor,
		}},
	})
	r.points.Draw(pass)
	if r.text != nil {
		r.text.Draw(pass)
	}
	if err := pass.End(); err != nil {
		return fmt.Errorf("end render pass: %w", err)
	}
	pass.Release()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	defer cmd.Release()

	r.queue.Submit(cmd)
	r.surface.Present()
	return nil
}

func (r *Renderer) updateText(frame *core.Frame) error {
	if frame.TextAtlas == nil {
		if r.text != nil {
			return r.text.Update(r.queue, nil, r.config.Width, r.config.Height)
		}
		return nil
	}
	if r.text == nil || r.text.Atlas != frame.TextAtlas {
		if r.text != nil {
			r.text.Release()
			r.text = nil
		}
		text, err := NewTextRenderPass(r.device, r.queue, r.config.Format, frame.TextAtlas)
		if err != nil {
			return err
		}
		r.text = text
	}
	return r.text.Update(r.queue, frame.Text, r.config.Width, r.config.Height)
}

func (r *Renderer) Release() {
	if r.text != nil {
		r.text.Release()
		r.text = nil
	}
	if r.points != nil {
		r.points.Release()
		r.points = nil
	}
	if r.queue != nil {
		r.queue.Release()
		r.queue = nil
	}
	if r.device != nil {
		r.device.Release()
		r.device = nil
	}
	if r.adapter != nil {
		r.adapter.Release()
		r.adapter = nil
	}
	if r.surface != nil {
		r.surface.Release()
		r.surface = nil
	}
	if r.instance != nil {
		r.instance.Release()
		r.instance = nil
	}
}
