package nebula

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParticleScene(t *testing.T) {
	buf := NewParticleBuffer(10, SpatialRange)
	scene := NewParticleScene(buf)

	lights := scene.Lights()
	require.Len(t, lights, 2)

	point := lights[0]
	assert.Equal(t, LightTypePoint, point.Type)
	assert.Equal(t, HexColor(0x07F9FE), point.Color)
	assert.Equal(t, float32(10), point.Intensity)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, point.Position)

	ambient := lights[1]
	assert.Equal(t, LightTypeAmbient, ambient.Type)
	assert.Equal(t, HexColor(0x07F9FE), ambient.Color)
	assert.Equal(t, float32(1), ambient.Intensity)

	points := scene.Points()
	require.Len(t, points, 1)
	assert.Same(t, buf, points[0].Buffer)

	mat := scene.ParticleMaterial()
	require.NotNil(t, mat)
	assert.Same(t, points[0].Material, mat)
	assert.Equal(t, HexColor(0x07C0FE), mat.Color)
	assert.Equal(t, float32(1), mat.Size)
	assert.Equal(t, float32(0.8), mat.Opacity)
	assert.True(t, mat.Transparent)
	assert.True(t, mat.SizeAttenuation)
	assert.False(t, mat.Lit)
}

func TestScene_Object(t *testing.T) {
	scene := NewScene()
	assert.Nil(t, scene.ParticleMaterial())

	lightID := scene.AddLight(NewAmbientLight(0xFFFFFF, 0.5))
	first := scene.AddPoints(NewParticleBuffer(1, 1), NewParticleMaterial())
	second := scene.AddPoints(NewParticleBuffer(1, 1), &PointsMaterial{Size: 3})

	assert.NotEqual(t, first.Id, second.Id)
	assert.Same(t, first.Material, scene.ParticleMaterial())

	obj, ok := scene.Object(lightID)
	require.True(t, ok)
	assert.IsType(t, &Light{}, obj)

	obj, ok = scene.Object(second.Id)
	require.True(t, ok)
	assert.Same(t, second, obj)

	_, ok = scene.Object("missing")
	assert.False(t, ok)
}

func TestLight_Radiance(t *testing.T) {
	l := NewPointLight(0xFF8000, 2, mgl32.Vec3{1, 2, 3})
	r := l.Radiance()
	assert.InDelta(t, 2, r[0], 1e-6)
	assert.InDelta(t, 2*128.0/255.0, r[1], 1e-6)
	assert.InDelta(t, 0, r[2], 1e-6)
}

func TestSceneModule_RequiresParticles(t *testing.T) {
	assert.Panics(t, func() {
		NewFrameDriver().UseModule(SceneModule{}).Build()
	})
}
