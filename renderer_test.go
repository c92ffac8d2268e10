package nebula

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplay_BuildFrame(t *testing.T) {
	buf := NewParticleBuffer(4, SpatialRange)
	scene := NewParticleScene(buf)
	cam := NewPerspectiveCamera(FieldOfView, 800, 600)
	display := &Display{Surface: NewHeadlessSurface(800, 600)}

	frame := display.BuildFrame(scene, cam)

	assert.Equal(t, cam.Position, frame.CameraPos)

	ambient := NewAmbientLight(AmbientLightColor, AmbientLightStrength).Radiance()
	assert.Equal(t, ambient, frame.Ambient)

	require.Len(t, frame.Lights, 1)
	point := NewPointLight(PointLightColor, PointLightIntensity, mgl32.Vec3{}).Radiance()
	assert.Equal(t, [4]float32{0, 0, 0, 1}, frame.Lights[0].Position)
	assert.Equal(t, [4]float32{point[0], point[1], point[2], 0}, frame.Lights[0].Radiance)

	require.Len(t, frame.Batches, 1)
	b := frame.Batches[0]
	mat := scene.ParticleMaterial()
	assert.Equal(t, string(scene.Points()[0].Id), b.Id)
	assert.Equal(t, uint32(4), b.Count())
	assert.Equal(t, mat.Color, b.Color)
	assert.Equal(t, mat.Opacity, b.Opacity)
	assert.Equal(t, mat.Size, b.Size)
	assert.True(t, b.Transparent)
	assert.True(t, b.SizeAttenuation)
	assert.False(t, b.Lit)
	assert.Empty(t, frame.Text)
	assert.Nil(t, frame.TextAtlas)
}

func TestDisplay_BuildFrameReuses(t *testing.T) {
	scene := NewParticleScene(NewParticleBuffer(4, SpatialRange))
	cam := NewPerspectiveCamera(FieldOfView, 800, 600)
	display := &Display{}

	display.BuildFrame(scene, cam)
	frame := display.BuildFrame(scene, cam)

	assert.Len(t, frame.Batches, 1)
	assert.Len(t, frame.Lights, 1)
	assert.Equal(t, NewAmbientLight(AmbientLightColor, AmbientLightStrength).Radiance(), frame.Ambient)
}

func TestHeadlessSurface_Resize(t *testing.T) {
	s := NewHeadlessSurface(10, 20)
	s.Resize(-1, 5)
	w, h := s.Size()
	assert.Equal(t, 10, w)
	assert.Equal(t, 20, h)

	s.Resize(30, 40)
	w, h = s.Size()
	assert.Equal(t, 30, w)
	assert.Equal(t, 40, h)
}
