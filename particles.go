package nebula

import (
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// ParticleBuffer is a fixed-size SoA pool of positions and velocities.
// Both slices are packed xyz triples so positions can be uploaded to the
// GPU as-is.
type ParticleBuffer struct {
	Positions  []float32
	Velocities []float32

	// NeedsUpdate tells the renderer to re-upload Positions. Step always
	// sets it; there is no finer dirty tracking.
	NeedsUpdate bool

	count        int
	spatialRange float32
}

func NewParticleBuffer(count int, spatialRange float32) *ParticleBuffer {
	if count < 0 {
		count = 0
	}
	return &ParticleBuffer{
		Positions:    make([]float32, count*3),
		Velocities:   make([]float32, count*3),
		count:        count,
		spatialRange: spatialRange,
	}
}

func (b *ParticleBuffer) Count() int { return b.count }

func (b *ParticleBuffer) Range() float32 { return b.spatialRange }

// Initialize scatters particles uniformly in the cube and gives each axis a
// small random velocity. A nil rng is seeded from the clock.
func (b *ParticleBuffer) Initialize(rng *rand.Rand) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	r := b.spatialRange
	for i := range b.Positions {
		b.Positions[i] = rng.Float32()*2*r - r
		b.Velocities[i] = (rng.Float32() - 0.5) * VelocitySpread
	}
	b.NeedsUpdate = true
}

// Step advances every particle by its velocity and reflects velocity on
// any axis that ended up outside [-range, range]. Positions are not
// clamped, so a particle can overshoot by at most one step.
func (b *ParticleBuffer) Step() {
	r := b.spatialRange
	pos := b.Positions
	vel := b.Velocities
	for i := range pos {
		pos[i] += vel[i]
		if pos[i] > r || pos[i] < -r {
			vel[i] = -vel[i]
		}
	}
	b.NeedsUpdate = true
}

func (b *ParticleBuffer) Position(i int) mgl32.Vec3 {
	return mgl32.Vec3{b.Positions[i*3], b.Positions[i*3+1], b.Positions[i*3+2]}
}

func (b *ParticleBuffer) Velocity(i int) mgl32.Vec3 {
	return mgl32.Vec3{b.Velocities[i*3], b.Velocities[i*3+1], b.Velocities[i*3+2]}
}

func (b *ParticleBuffer) SetParticle(i int, pos, vel mgl32.Vec3) {
	copy(b.Positions[i*3:i*3+3], pos[:])
	copy(b.Velocities[i*3:i*3+3], vel[:])
	b.NeedsUpdate = true
}

// ParticlesModule installs the particle buffer and the per-frame step.
type ParticlesModule struct {
	Count int
	Range float32
	// Seed fixes the initial layout; zero means seed from the clock.
	Seed int64
}

func NewParticlesModule() ParticlesModule {
	return ParticlesModule{
		Count: ParticleCount,
		Range: SpatialRange,
	}
}

func (mod ParticlesModule) Install(app *App, cmd *Commands) {
	count, spatialRange := mod.Count, mod.Range
	if count <= 0 {
		count = ParticleCount
	}
	if spatialRange <= 0 {
		spatialRange = SpatialRange
	}

	var rng *rand.Rand
	if mod.Seed != 0 {
		rng = rand.New(rand.NewSource(mod.Seed))
	}

	buf := NewParticleBuffer(count, spatialRange)
	buf.Initialize(rng)
	cmd.AddResources(buf)
	cmd.Logger().Infof("particles: %d in +-%.0f", count, spatialRange)

	app.UseSystem(
		System(particleStepSystem).
			InStage(Simulate).
			InState(OnExecute(FrameRunning)),
	)
}

func particleStepSystem(buf *ParticleBuffer) {
	buf.Step()
}
