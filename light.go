package nebula

import "github.com/go-gl/mathgl/mgl32"

type LightType uint32

const (
	LightTypePoint   LightType = 0
	LightTypeAmbient LightType = 3
)

// Light is a scene light. Ambient lights ignore Position.
type Light struct {
	Type      LightType
	Position  mgl32.Vec3
	Color     [3]float32 // RGB
	Intensity float32
}

func NewPointLight(hex uint32, intensity float32, pos mgl32.Vec3) *Light {
	return &Light{
		Type:      LightTypePoint,
		Position:  pos,
		Color:     HexColor(hex),
		Intensity: intensity,
	}
}

func NewAmbientLight(hex uint32, intensity float32) *Light {
	return &Light{
		Type:      LightTypeAmbient,
		Color:     HexColor(hex),
		Intensity: intensity,
	}
}

// Radiance is the light colour scaled by its intensity.
func (l *Light) Radiance() [3]float32 {
	return [3]float32{l.Color[0] * l.Intensity, l.Color[1] * l.Intensity, l.Color[2] * l.Intensity}
}
