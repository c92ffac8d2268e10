package nebula

// Viewport is the current logical window size in screen coordinates.
type Viewport struct {
	Width  int
	Height int
}

// Pointer is the last pointer position in a viewport-centred, y-up
// coordinate system. Only the latest position matters; moves between two
// frames overwrite each other.
type Pointer struct {
	X, Y float32

	// raw event position, kept for drag deltas
	eventX, eventY float64
}

// PointerFromEvent maps window coordinates (origin top-left, y down) into
// the centred y-up system.
func PointerFromEvent(ex, ey float64, width, height int) (x, y float32) {
	x = float32(ex - float64(width)/2)
	y = float32(-ey + float64(height)/2)
	return x, y
}

func (p *Pointer) Move(ex, ey float64, vp *Viewport) {
	p.X, p.Y = PointerFromEvent(ex, ey, vp.Width, vp.Height)
	p.eventX, p.eventY = ex, ey
}

// CameraXY is where the pointer puts the camera: mirrored on both axes.
func (p *Pointer) CameraXY() (x, y float32) {
	return -p.X, -p.Y
}

type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

type orbitMode int

const (
	orbitNone orbitMode = iota
	orbitRotate
	orbitPan
)

// OrbitInput turns button and drag events into orbit control calls.
type OrbitInput struct {
	mode         orbitMode
	lastX, lastY float64
}

func (in *OrbitInput) Button(btn MouseButton, pressed bool, p *Pointer) {
	if !pressed {
		in.mode = orbitNone
		return
	}
	switch btn {
	case MouseButtonLeft:
		in.mode = orbitRotate
	case MouseButtonRight, MouseButtonMiddle:
		in.mode = orbitPan
	}
	in.lastX, in.lastY = p.eventX, p.eventY
}

func (in *OrbitInput) Drag(ex, ey float64, vp *Viewport, controls *OrbitControls) {
	dx := float32(ex - in.lastX)
	dy := float32(ey - in.lastY)
	in.lastX, in.lastY = ex, ey

	switch in.mode {
	case orbitRotate:
		controls.Rotate(dx, dy, vp.Height)
	case orbitPan:
		controls.Pan(dx, dy, vp.Height)
	}
}

func (in *OrbitInput) Dragging() bool {
	return in.mode != orbitNone
}
