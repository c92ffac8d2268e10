package nebula

// Values that must match the reference scene exactly.
const (
	ParticleCount  = 10000
	SpatialRange   = float32(100)
	VelocitySpread = float32(0.05) // (rand - 0.5) * spread, i.e. +-0.025 per axis

	FieldOfView  = float32(60) // degrees, vertical
	NearClip     = float32(1)
	CameraPullIn = float32(600)

	PointLightColor      = 0x07F9FE
	PointLightIntensity  = float32(10)
	AmbientLightColor    = 0x07F9FE
	AmbientLightStrength = float32(1)

	ParticleColor   = 0x07C0FE
	ParticleSize    = float32(1)
	ParticleOpacity = float32(0.8)

	HueIncrement = 0.0005 // per frame, not per second

	OrbitDamping = float32(0.05)
)

const (
	DefaultWindowWidth  = 1280
	DefaultWindowHeight = 720
	DefaultWindowTitle  = "nebula"
)
