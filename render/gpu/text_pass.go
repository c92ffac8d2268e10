package gpu

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/nebula/render/core"
	"github.com/gekko3d/nebula/render/shaders"
)

// TextRenderPass draws HUD text from a glyph atlas on top of the scene.
type TextRenderPass struct {
	Device    *wgpu.Device
	Pipeline  *wgpu.RenderPipeline
	Atlas     *core.TextRenderer
	atlasTex  *wgpu.Texture
	atlasView *wgpu.TextureView
	sampler   *wgpu.Sampler
	bindGroup *wgpu.BindGroup

	vertexBuffer *wgpu.Buffer
	vertexCount  uint32
}

func NewTextRenderPass(device *wgpu.Device, queue *wgpu.Queue, format wgpu.TextureFormat, atlas *core.TextRenderer) (*TextRenderPass, error) {
	p := &TextRenderPass{Device: device, Atlas: atlas}
	if err := p.uploadAtlas(queue); err != nil {
		p.Release()
		return nil, err
	}
	if err := p.createPipeline(format); err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

func (p *TextRenderPass) uploadAtlas(queue *wgpu.Queue) error {
	img := p.Atlas.AtlasImage
	w, h := uint32(img.Bounds().Dx()), uint32(img.Bounds().Dy())
	extent := wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	var err error
	p.atlasTex, err = p.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "TextAtlas",
		Size:          extent,
		Format:        wgpu.TextureFormatR8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}
	queue.WriteTexture(p.atlasTex.AsImageCopy(), img.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(img.Stride),
		RowsPerImage: h,
	}, &extent)

	p.atlasView, err = p.atlasTex.CreateView(nil)
	if err != nil {
		return err
	}

	p.sampler, err = p.Device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   1,
		MaxAnisotropy: 1,
	})
	return err
}

func (p *TextRenderPass) createPipeline(format wgpu.TextureFormat) error {
	module, err := p.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "TextShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.TextWGSL},
	})
	if err != nil {
		return err
	}
	defer module.Release()

	p.Pipeline, err = p.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "TextPipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(unsafe.Sizeof(core.TextVertex{})),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: format,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOne,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return err
	}

	p.bindGroup, err = p.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "TextAtlasBG",
		Layout: p.Pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: p.atlasView},
			{Binding: 1, Sampler: p.sampler},
		},
	})
	return err
}

// Update lays out items for the current framebuffer and uploads the
// vertices, growing the buffer when needed.
func (p *TextRenderPass) Update(queue *wgpu.Queue, items []core.TextItem, fbWidth, fbHeight uint32) error {
	p.vertexCount = 0
	if len(items) == 0 {
		return nil
	}
	vertices := p.Atlas.BuildVertices(items, int(fbWidth), int(fbHeight))
	if len(vertices) == 0 {
		return nil
	}

	size := uint64(len(vertices)) * uint64(unsafe.Sizeof(core.TextVertex{}))
	if p.vertexBuffer == nil || p.vertexBuffer.GetSize() < size {
		if p.vertexBuffer != nil {
			p.vertexBuffer.Release()
		}
		var err error
		p.vertexBuffer, err = p.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "TextVertices",
			Size:  size,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			p.vertexBuffer = nil
			return err
		}
	}
	if err := queue.WriteBuffer(p.vertexBuffer, 0, wgpu.ToBytes(vertices)); err != nil {
		return err
	}
	p.vertexCount = uint32(len(vertices))
	return nil
}

func (p *TextRenderPass) Draw(pass *wgpu.RenderPassEncoder) {
	if p.vertexCount == 0 || p.Pipeline == nil {
		return
	}
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.bindGroup, nil)
	pass.SetVertexBuffer(0, p.vertexBuffer, 0, p.vertexBuffer.GetSize())
	pass.Draw(p.vertexCount, 1, 0, 0)
}

func (p *TextRenderPass) Release() {
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
		p.Pipeline = nil
	}
	if p.sampler != nil {
		p.sampler.Release()
		p.sampler = nil
	}
	if p.atlasView != nil {
		p.atlasView.Release()
		p.atlasView = nil
	}
	if p.atlasTex != nil {
		p.atlasTex.Release()
		p.atlasTex = nil
	}
}
