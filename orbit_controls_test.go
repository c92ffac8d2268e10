package nebula

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orbitFixture() (*PerspectiveCamera, *OrbitControls) {
	cam := NewPerspectiveCamera(FieldOfView, 800, 600)
	cam.Position = mgl32.Vec3{0, 0, 100}
	return cam, NewOrbitControls(cam)
}

func TestOrbitControls_IdleUpdateKeepsCamera(t *testing.T) {
	cam, oc := orbitFixture()

	moved := oc.Update()

	assert.False(t, moved)
	assert.InDelta(t, 0, cam.Position.Sub(mgl32.Vec3{0, 0, 100}).Len(), 1e-3)
	assert.True(t, oc.Settled())
}

func TestOrbitControls_DampingDecay(t *testing.T) {
	cam, oc := orbitFixture()
	oc.RotateLeft(0.1)

	oc.Update()
	first := math32.Atan2(cam.Position.X(), cam.Position.Z())
	assert.InDelta(t, -0.1*OrbitDamping, first, 1e-5)
	assert.InDelta(t, 0.1*(1-OrbitDamping), -oc.sphericalDelta.Theta, 1e-6)

	oc.Update()
	second := math32.Atan2(cam.Position.X(), cam.Position.Z())
	assert.InDelta(t, -0.1*OrbitDamping*(1-OrbitDamping), second-first, 1e-5)

	for i := 0; i < 1000; i++ {
		oc.Update()
	}
	assert.True(t, oc.Settled())
	assert.InDelta(t, -0.1, math32.Atan2(cam.Position.X(), cam.Position.Z()), 1e-4)
	assert.InDelta(t, 100, cam.Distance(), 1e-3)
}

func TestOrbitControls_WithoutDamping(t *testing.T) {
	cam, oc := orbitFixture()
	oc.EnableDamping = false
	oc.RotateLeft(0.2)

	require.True(t, oc.Update())
	assert.InDelta(t, -0.2, math32.Atan2(cam.Position.X(), cam.Position.Z()), 1e-5)
	assert.True(t, oc.Settled())
}

func TestOrbitControls_Scroll(t *testing.T) {
	cam, oc := orbitFixture()

	oc.Scroll(1)
	oc.Update()
	assert.InDelta(t, 95, cam.Distance(), 1e-3)

	oc.Scroll(-1)
	oc.Update()
	assert.InDelta(t, 100, cam.Distance(), 1e-3)

	oc.Scroll(0)
	assert.True(t, oc.Settled())
}

func TestOrbitControls_PolarClamp(t *testing.T) {
	cam, oc := orbitFixture()
	oc.EnableDamping = false

	oc.RotateUp(10)
	oc.Update()

	assert.Greater(t, cam.Position.Y(), float32(99))
	assert.InDelta(t, 100, cam.Distance(), 1e-3)
}

func TestOrbitControls_PanMovesTarget(t *testing.T) {
	cam, oc := orbitFixture()
	oc.EnableDamping = false

	oc.Pan(60, 0, 600)
	oc.Update()

	assert.Less(t, cam.Target.X(), float32(0), "dragging right moves the scene right")
	assert.InDelta(t, cam.Target.X(), cam.Position.X(), 1e-4)
	assert.InDelta(t, 100, cam.Distance(), 1e-3)
}

func TestOrbitControls_ZeroViewportIgnored(t *testing.T) {
	_, oc := orbitFixture()
	oc.Rotate(10, 10, 0)
	oc.Pan(10, 10, 0)
	assert.True(t, oc.Settled())
}
