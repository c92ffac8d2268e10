package nebula

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	polarEpsilon = 1e-6
	// movements shorter than this are rounding noise from the spherical round trip
	moveEpsilon = 1e-3
)

// spherical coordinates around the y axis: Theta is the azimuth measured
// from +Z towards +X, Phi the polar angle from +Y.
type spherical struct {
	Radius float32
	Theta  float32
	Phi    float32
}

func sphericalFrom(v mgl32.Vec3) spherical {
	r := v.Len()
	if r == 0 {
		return spherical{}
	}
	return spherical{
		Radius: r,
		Theta:  math32.Atan2(v.X(), v.Z()),
		Phi:    math32.Acos(mgl32.Clamp(v.Y()/r, -1, 1)),
	}
}

func (s spherical) vec3() mgl32.Vec3 {
	sinPhi := math32.Sin(s.Phi)
	return mgl32.Vec3{
		s.Radius * sinPhi * math32.Sin(s.Theta),
		s.Radius * math32.Cos(s.Phi),
		s.Radius * sinPhi * math32.Cos(s.Theta),
	}
}

// OrbitControls orbits, pans and dollies a camera around its target.
// Input accumulates into deltas that Update applies a fraction of each
// frame, so motion eases out after input stops.
type OrbitControls struct {
	Camera *PerspectiveCamera

	EnableDamping bool
	DampingFactor float32
	RotateSpeed   float32
	ZoomSpeed     float32
	PanSpeed      float32
	MinDistance   float32
	MaxDistance   float32

	sphericalDelta spherical
	panOffset      mgl32.Vec3
	scale          float32
}

func NewOrbitControls(cam *PerspectiveCamera) *OrbitControls {
	return &OrbitControls{
		Camera:        cam,
		EnableDamping: true,
		DampingFactor: OrbitDamping,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		PanSpeed:      1,
		MinDistance:   0,
		MaxDistance:   math32.Inf(1),
		scale:         1,
	}
}

func (oc *OrbitControls) RotateLeft(angle float32) {
	oc.sphericalDelta.Theta -= angle
}

func (oc *OrbitControls) RotateUp(angle float32) {
	oc.sphericalDelta.Phi -= angle
}

// Rotate applies a pointer drag of (dx, dy) pixels in a viewport of the
// given height. A drag across the full height turns a full circle.
func (oc *OrbitControls) Rotate(dx, dy float32, viewportHeight int) {
	if viewportHeight <= 0 {
		return
	}
	h := float32(viewportHeight)
	oc.RotateLeft(2 * math32.Pi * dx * oc.RotateSpeed / h)
	oc.RotateUp(2 * math32.Pi * dy * oc.RotateSpeed / h)
}

// Pan moves the target in the screen plane so that the point under the
// pointer follows a drag of (dx, dy) pixels.
func (oc *OrbitControls) Pan(dx, dy float32, viewportHeight int) {
	if viewportHeight <= 0 {
		return
	}
	cam := oc.Camera
	offset := cam.Position.Sub(cam.Target)
	targetDistance := offset.Len() * math32.Tan(mgl32.DegToRad(cam.Fov/2))

	h := float32(viewportHeight)
	right, up := cam.Basis()
	left := right.Mul(-2 * dx * oc.PanSpeed * targetDistance / h)
	upward := up.Mul(2 * dy * oc.PanSpeed * targetDistance / h)
	oc.panOffset = oc.panOffset.Add(left).Add(upward)
}

func (oc *OrbitControls) zoomScale() float32 {
	return math32.Pow(0.95, oc.ZoomSpeed)
}

func (oc *OrbitControls) DollyIn() {
	oc.scale *= oc.zoomScale()
}

func (oc *OrbitControls) DollyOut() {
	oc.scale /= oc.zoomScale()
}

// Scroll dollies in for positive (wheel up) offsets and out for negative ones.
func (oc *OrbitControls) Scroll(yoff float64) {
	switch {
	case yoff > 0:
		oc.DollyIn()
	case yoff < 0:
		oc.DollyOut()
	}
}

// Update applies pending motion to the camera and re-aims it at the target.
// It reads the camera position as it is now, so anything that moved the
// camera since the last frame is kept. Returns true if the camera moved.
func (oc *OrbitControls) Update() bool {
	cam := oc.Camera
	before := cam.Position

	s := sphericalFrom(cam.Position.Sub(cam.Target))

	if oc.EnableDamping {
		s.Theta += oc.sphericalDelta.Theta * oc.DampingFactor
		s.Phi += oc.sphericalDelta.Phi * oc.DampingFactor
		cam.Target = cam.Target.Add(oc.panOffset.Mul(oc.DampingFactor))
	} else {
		s.Theta += oc.sphericalDelta.Theta
		s.Phi += oc.sphericalDelta.Phi
		cam.Target = cam.Target.Add(oc.panOffset)
	}

	s.Phi = mgl32.Clamp(s.Phi, polarEpsilon, math32.Pi-polarEpsilon)
	s.Radius = mgl32.Clamp(s.Radius*oc.scale, oc.MinDistance, oc.MaxDistance)
	if s.Radius < polarEpsilon {
		s.Radius = polarEpsilon
	}

	cam.Position = cam.Target.Add(s.vec3())

	if oc.EnableDamping {
		decay := 1 - oc.DampingFactor
		oc.sphericalDelta.Theta *= decay
		oc.sphericalDelta.Phi *= decay
		oc.panOffset = oc.panOffset.Mul(decay)
	} else {
		oc.sphericalDelta = spherical{}
		oc.panOffset = mgl32.Vec3{}
	}
	oc.scale = 1

	return cam.Position.Sub(before).Len() > moveEpsilon
}

// Settled reports whether all pending motion has decayed away.
func (oc *OrbitControls) Settled() bool {
	const eps = 1e-6
	return math32.Abs(oc.sphericalDelta.Theta) < eps &&
		math32.Abs(oc.sphericalDelta.Phi) < eps &&
		oc.panOffset.Len() < eps &&
		oc.scale == 1
}
