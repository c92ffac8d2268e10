package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MaxPointLights is the size of the light array in the points shader.
const MaxPointLights = 4

const (
	flagSizeAttenuation = 1
	flagLit             = 2
)

// PointBatch is one point cloud as the renderer sees it.
type PointBatch struct {
	Id        string
	Positions []float32 // packed xyz
	// Upload is set when Positions changed since the last draw.
	Upload bool

	Color           [3]float32
	Opacity         float32
	Size            float32
	Transparent     bool
	SizeAttenuation bool
	Lit             bool
}

func (b *PointBatch) Count() uint32 {
	return uint32(len(b.Positions) / 3)
}

// PointLight is the GPU representation of a point light.
type PointLight struct {
	Position [4]float32 // xyz, unused
	Radiance [4]float32 // rgb * intensity, unused
}

// Frame is everything the renderer needs to draw one frame.
type Frame struct {
	ViewProj  mgl32.Mat4 // already remapped to WebGPU clip depth
	CameraPos mgl32.Vec3

	Ambient [3]float32
	Lights  []PointLight

	Batches []PointBatch

	Text      []TextItem
	TextAtlas *TextRenderer
}

// Reset clears the frame for reuse without dropping its backing arrays.
func (f *Frame) Reset() {
	f.Ambient = [3]float32{}
	f.Lights = f.Lights[:0]
	f.Batches = f.Batches[:0]
	f.Text = f.Text[:0]
}

// glToWebGPU maps OpenGL clip depth [-w, w] onto WebGPU's [0, w].
var glToWebGPU = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// WebGPUViewProj combines an OpenGL-style projection with a view matrix
// for WebGPU's clip space.
func WebGPUViewProj(proj, view mgl32.Mat4) mgl32.Mat4 {
	return glToWebGPU.Mul4(proj).Mul4(view)
}

// PointsUniformFloats is the float count of the WGSL PointsUniforms struct.
const PointsUniformFloats = 16 + 4 + 4 + 4 + MaxPointLights*8

// PackPointsUniforms lays out the uniform block for one batch:
//
//	view_proj  mat4x4
//	color      rgb, opacity
//	params     size, framebuffer width, framebuffer height, flags
//	ambient    rgb, light count
//	lights     MaxPointLights x (position, radiance)
func PackPointsUniforms(f *Frame, b *PointBatch, fbWidth, fbHeight uint32) []float32 {
	u := make([]float32, PointsUniformFloats)
	copy(u[0:16], f.ViewProj[:])

	opacity := b.Opacity
	if !b.Transparent {
		opacity = 1
	}
	u[16], u[17], u[18], u[19] = b.Color[0], b.Color[1], b.Color[2], opacity

	var flags uint32
	if b.SizeAttenuation {
		flags |= flagSizeAttenuation
	}
	if b.Lit {
		flags |= flagLit
	}
	u[20], u[21], u[22], u[23] = b.Size, float32(fbWidth), float32(fbHeight), float32(flags)

	n := min(len(f.Lights), MaxPointLights)
	u[24], u[25], u[26], u[27] = f.Ambient[0], f.Ambient[1], f.Ambient[2], float32(n)

	for i := 0; i < n; i++ {
		off := 28 + i*8
		copy(u[off:off+4], f.Lights[i].Position[:])
		copy(u[off+4:off+8], f.Lights[i].Radiance[:])
	}
	return u
}
