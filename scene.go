package nebula

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type ObjectId string

func newObjectId() ObjectId {
	return ObjectId(uuid.NewString())
}

// PointsMaterial is shared by every point of a Points object.
type PointsMaterial struct {
	Color           [3]float32
	Size            float32
	Opacity         float32
	Transparent     bool
	SizeAttenuation bool
	// Lit materials are shaded by the scene lights. Point sprites are
	// unlit by default.
	Lit bool
}

func (m *PointsMaterial) SetColor(c [3]float32) {
	m.Color = c
}

// Points renders every particle of Buffer as one screen-facing sprite.
type Points struct {
	Id       ObjectId
	Buffer   *ParticleBuffer
	Material *PointsMaterial
}

// Scene owns the lights and renderables. It has no update logic.
type Scene struct {
	order   []ObjectId
	lights  map[ObjectId]*Light
	points  map[ObjectId]*Points
	primary ObjectId
}

func NewScene() *Scene {
	return &Scene{
		lights: make(map[ObjectId]*Light),
		points: make(map[ObjectId]*Points),
	}
}

func (s *Scene) AddLight(l *Light) ObjectId {
	id := newObjectId()
	s.lights[id] = l
	s.order = append(s.order, id)
	return id
}

// AddPoints adds a renderable point cloud. The first one added becomes the
// particle object returned by ParticleMaterial.
func (s *Scene) AddPoints(buf *ParticleBuffer, mat *PointsMaterial) *Points {
	p := &Points{
		Id:       newObjectId(),
		Buffer:   buf,
		Material: mat,
	}
	s.points[p.Id] = p
	s.order = append(s.order, p.Id)
	if s.primary == "" {
		s.primary = p.Id
	}
	return p
}

// Object returns the light or points object with the given id.
func (s *Scene) Object(id ObjectId) (any, bool) {
	if l, ok := s.lights[id]; ok {
		return l, true
	}
	if p, ok := s.points[id]; ok {
		return p, true
	}
	return nil, false
}

func (s *Scene) Lights() []*Light {
	res := make([]*Light, 0, len(s.lights))
	for _, id := range s.order {
		if l, ok := s.lights[id]; ok {
			res = append(res, l)
		}
	}
	return res
}

func (s *Scene) Points() []*Points {
	res := make([]*Points, 0, len(s.points))
	for _, id := range s.order {
		if p, ok := s.points[id]; ok {
			res = append(res, p)
		}
	}
	return res
}

func (s *Scene) ParticleMaterial() *PointsMaterial {
	if p, ok := s.points[s.primary]; ok {
		return p.Material
	}
	return nil
}

func NewParticleMaterial() *PointsMaterial {
	return &PointsMaterial{
		Color:           HexColor(ParticleColor),
		Size:            ParticleSize,
		Opacity:         ParticleOpacity,
		Transparent:     true,
		SizeAttenuation: true,
	}
}

// NewParticleScene builds the reference scene around buf: a point light
// at the origin, an ambient fill and the particle cloud.
func NewParticleScene(buf *ParticleBuffer) *Scene {
	scene := NewScene()
	scene.AddLight(NewPointLight(PointLightColor, PointLightIntensity, mgl32.Vec3{0, 0, 0}))
	scene.AddLight(NewAmbientLight(AmbientLightColor, AmbientLightStrength))
	scene.AddPoints(buf, NewParticleMaterial())
	return scene
}

// SceneModule builds the particle scene. ParticlesModule must be installed first.
type SceneModule struct{}

func (SceneModule) Install(app *App, cmd *Commands) {
	buf, ok := Resource[ParticleBuffer](app)
	if !ok {
		panic(fmt.Sprintf("SceneModule requires %T; install ParticlesModule first", buf))
	}
	scene := NewParticleScene(buf)
	cmd.AddResources(scene)
	cmd.Logger().Debugf("scene: %d lights, %d point objects", len(scene.Lights()), len(scene.Points()))
}
