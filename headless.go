package nebula

import (
	"github.com/gekko3d/nebula/render/core"
	"github.com/go-gl/mathgl/mgl32"
)

// HeadlessSurface accepts frames without drawing them. It stands in for
// the GPU when there is no display.
type HeadlessSurface struct {
	Width, Height int

	Frames   uint64
	Uploads  uint64
	Released bool

	// LastViewProj and LastBatches describe the most recent frame.
	LastViewProj mgl32.Mat4
	LastBatches  []core.PointBatch

	// Err, when set, is returned from Draw.
	Err error
}

func NewHeadlessSurface(width, height int) *HeadlessSurface {
	return &HeadlessSurface{Width: width, Height: height}
}

func (s *HeadlessSurface) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.Width, s.Height = width, height
}

func (s *HeadlessSurface) Size() (int, int) {
	return s.Width, s.Height
}

func (s *HeadlessSurface) Draw(frame *core.Frame) error {
	if s.Err != nil {
		return s.Err
	}
	s.Frames++
	s.LastViewProj = frame.ViewProj
	s.LastBatches = append(s.LastBatches[:0], frame.Batches...)
	for _, b := range frame.Batches {
		if b.Upload {
			s.Uploads++
		}
	}
	return nil
}

func (s *HeadlessSurface) Release() {
	s.Released = true
}

// FrameLimit stops the driver after Max frames. Zero means no limit.
type FrameLimit struct {
	Max   uint64
	Count uint64
}

type FrameLimitModule struct {
	Frames uint64
}

func (mod FrameLimitModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&FrameLimit{Max: mod.Frames})
	app.UseSystem(
		System(frameLimitSystem).
			InStage(Finale).
			InState(OnExecute(FrameRunning)),
	)
}

func frameLimitSystem(limit *FrameLimit, cmd *Commands) {
	limit.Count++
	if limit.Max > 0 && limit.Count >= limit.Max {
		cmd.Stop()
	}
}

// HeadlessModule stands in for WindowModule: a fixed viewport and a
// pointer that never moves.
type HeadlessModule struct {
	Width  int
	Height int
}

func (mod HeadlessModule) Install(app *App, cmd *Commands) {
	width, height := mod.Width, mod.Height
	if width <= 0 {
		width = DefaultWindowWidth
	}
	if height <= 0 {
		height = DefaultWindowHeight
	}
	cmd.AddResources(&Viewport{Width: width, Height: height}, &Pointer{})
}
