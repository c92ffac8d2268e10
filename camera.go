package nebula

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// PerspectiveCamera is a y-up camera looking at Target.
type PerspectiveCamera struct {
	Fov    float32 // vertical, degrees
	Aspect float32
	Near   float32
	Far    float32

	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	projection mgl32.Mat4
}

// CameraDistance is the distance at which the frustum height equals the
// viewport height in pixels.
func CameraDistance(fovDeg float32, height int) float32 {
	return (float32(height) / 2) / math32.Tan(mgl32.DegToRad(fovDeg/2))
}

// NewPerspectiveCamera sizes the frustum from the viewport: the far plane
// sits at twice the pixel-matching distance and the camera starts
// CameraPullIn units closer to the origin than that distance.
func NewPerspectiveCamera(fovDeg float32, width, height int) *PerspectiveCamera {
	dist := CameraDistance(fovDeg, height)
	cam := &PerspectiveCamera{
		Fov:      fovDeg,
		Aspect:   aspectOf(width, height),
		Near:     NearClip,
		Far:      dist * 2,
		Position: mgl32.Vec3{0, 0, dist - CameraPullIn},
		Target:   mgl32.Vec3{0, 0, 0},
		Up:       mgl32.Vec3{0, 1, 0},
	}
	cam.UpdateProjectionMatrix()
	return cam
}

func aspectOf(width, height int) float32 {
	if height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}

// SetAspect changes the aspect ratio. UpdateProjectionMatrix must be called
// afterwards for the projection to pick it up.
func (c *PerspectiveCamera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = aspectOf(width, height)
}

func (c *PerspectiveCamera) UpdateProjectionMatrix() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.Aspect, c.Near, c.Far)
}

func (c *PerspectiveCamera) ProjectionMatrix() mgl32.Mat4 {
	return c.projection
}

func (c *PerspectiveCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *PerspectiveCamera) ViewProjection() mgl32.Mat4 {
	return c.projection.Mul4(c.ViewMatrix())
}

func (c *PerspectiveCamera) Forward() mgl32.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// Basis returns the camera's right and up axes in world space.
func (c *PerspectiveCamera) Basis() (right, up mgl32.Vec3) {
	forward := c.Forward()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward).Normalize()
	return right, up
}

// Distance is how far the camera is from its target.
func (c *PerspectiveCamera) Distance() float32 {
	return c.Position.Sub(c.Target).Len()
}
