package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/nebula/render/core"
	"github.com/gekko3d/nebula/render/shaders"
)

const (
	pointStride       = 12 // vec3<f32>
	pointsUniformSize = core.PointsUniformFloats * 4
	verticesPerSprite = 6
)

// pointsBatch owns the GPU side of one point cloud.
type pointsBatch struct {
	instances *wgpu.Buffer
	capacity  uint32 // points
	count     uint32
	uniforms  *wgpu.Buffer
	bindGroup *wgpu.BindGroup
	seen      bool
}

func (b *pointsBatch) release() {
	if b.bindGroup != nil {
		b.bindGroup.Release()
	}
	if b.uniforms != nil {
		b.uniforms.Release()
	}
	if b.instances != nil {
		b.instances.Release()
	}
}

// PointsRenderPass draws point clouds as camera-facing quads, one
// instance per point.
type PointsRenderPass struct {
	Device   *wgpu.Device
	Pipeline *wgpu.RenderPipeline
	layout   *wgpu.BindGroupLayout
	batches  map[string]*pointsBatch
	order    []string
}

func NewPointsRenderPass(device *wgpu.Device, format wgpu.TextureFormat) (*PointsRenderPass, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "PointsShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.PointsWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer module.Release()

	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "PointsUniformsBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: pointsUniformSize,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "PointsPipelineLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		bgl.Release()
		return nil, err
	}
	defer layout.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "PointsPipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: pointStride,
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes: []wgpu.VertexAttribute{
						{
							Format:         wgpu.VertexFormatFloat32x3,
							Offset:         0,
							ShaderLocation: 0,
						},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		// Transparent points blend in submission order; no depth attachment.
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		bgl.Release()
		return nil, err
	}

	return &PointsRenderPass{
		Device:   device,
		Pipeline: pipeline,
		layout:   bgl,
		batches:  make(map[string]*pointsBatch),
	}, nil
}

func (p *PointsRenderPass) batch(id string) (*pointsBatch, error) {
	if b, ok := p.batches[id]; ok {
		return b, nil
	}
	uniforms, err := p.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "PointsUniforms " + id,
		Size:  pointsUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	bg, err := p.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "PointsUniformsBG " + id,
		Layout: p.layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  uniforms,
				Size:    pointsUniformSize,
			},
		},
	})
	if err != nil {
		uniforms.Release()
		return nil, err
	}
	b := &pointsBatch{uniforms: uniforms, bindGroup: bg}
	p.batches[id] = b
	return b, nil
}

// Update uploads positions and uniforms for every batch in the frame and
// frees batches that are no longer present.
func (p *PointsRenderPass) Update(queue *wgpu.Queue, frame *core.Frame, fbWidth, fbHeight uint32) error {
	for _, b := range p.batches {
		b.seen = false
	}
	p.order = p.order[:0]

	for i := range frame.Batches {
		fb := &frame.Batches[i]
		b, err := p.batch(fb.Id)
		if err != nil {
			return err
		}
		b.seen = true
		p.order = append(p.order, fb.Id)

		count := fb.Count()
		if b.instances == nil || b.capacity < count {
			if b.instances != nil {
				b.instances.Release()
			}
			b.capacity = max(count, 1)
			b.instances, err = p.Device.CreateBuffer(&wgpu.BufferDescriptor{
				Label: "PointsInstances " + fb.Id,
				Size:  uint64(b.capacity) * pointStride,
				Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
			})
			if err != nil {
				b.instances = nil
				return err
			}
			// a new buffer has no contents yet
			fb.Upload = true
		}
		if fb.Upload && count > 0 {
			if err := queue.WriteBuffer(b.instances, 0, wgpu.ToBytes(fb.Positions[:count*3])); err != nil {
				return err
			}
		}
		b.count = count

		uniforms := core.PackPointsUniforms(frame, fb, fbWidth, fbHeight)
		if err := queue.WriteBuffer(b.uniforms, 0, wgpu.ToBytes(uniforms)); err != nil {
			return err
		}
	}

	for id, b := range p.batches {
		if !b.seen {
			b.release()
			delete(p.batches, id)
		}
	}
	return nil
}

func (p *PointsRenderPass) Draw(pass *wgpu.RenderPassEncoder) {
	pass.SetPipeline(p.Pipeline)
	for _, id := range p.order {
		b := p.batches[id]
		if b == nil || b.count == 0 {
			continue
		}
		pass.SetBindGroup(0, b.bindGroup, nil)
		pass.SetVertexBuffer(0, b.instances, 0, uint64(b.count)*pointStride)
		pass.Draw(verticesPerSprite, b.count, 0, 0)
	}
}

func (p *PointsRenderPass) Release() {
	for id, b := range p.batches {
		b.release()
		delete(p.batches, id)
	}
	if p.layout != nil {
		p.layout.Release()
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
	}
}
