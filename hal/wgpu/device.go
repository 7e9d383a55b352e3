//go:build !(js && wasm)

package wgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gputypes"
	gpu "github.com/gogpu/wgpu"
)

type device struct {
	mu        sync.Mutex
	device    *gpu.Device
	label     string
	queue     *queue
	destroyed bool

	packedCopies bool
}

func (d *device) Label() string    { return d.label }
func (d *device) Queue() hal.Queue { return d.queue }

func (d *device) alive() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.destroyed {
		return ErrDeviceLost
	}
	return nil
}

func (d *device) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.destroyed {
		return
	}
	d.destroyed = true
	d.device.Release()
}

func (d *device) CreateBuffer(desc hal.Object) (hal.Buffer, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	var bd hal.BufferDescriptor
	if err := hal.Decode(desc, &bd); err != nil {
		return nil, err
	}
	b, err := d.device.CreateBuffer(&gpu.BufferDescriptor{
		Label:            bd.Label,
		Size:             bd.Size,
		Usage:            bd.Usage,
		MappedAtCreation: bd.MappedAtCreation,
	})
	if err != nil {
		return nil, err
	}
	return &buffer{device: d, buffer: b}, nil
}

func (d *device) CreateShaderModule(desc hal.Object) (hal.ShaderModule, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	var sd hal.ShaderModuleDescriptor
	if err := hal.Decode(desc, &sd); err != nil {
		return nil, err
	}
	m, err := d.device.CreateShaderModule(&gpu.ShaderModuleDescriptor{Label: sd.Label, WGSL: sd.Code})
	if err != nil {
		return nil, err
	}
	return &shaderModule{label: sd.Label, module: m}, nil
}

func (d *device) CreateBindGroupLayout(desc hal.Object) (hal.BindGroupLayout, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	var bd hal.BindGroupLayoutDescriptor
	if err := hal.Decode(desc, &bd); err != nil {
		return nil, err
	}
	entries := make([]gputypes.BindGroupLayoutEntry, len(bd.Entries))
	for i, e := range bd.Entries {
		entries[i] = gputypes.BindGroupLayoutEntry{Binding: e.Binding, Visibility: e.Visibility}
		if e.Buffer != nil {
			t, err := hal.ParseBufferBindingType(e.Buffer.Type)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
			}
			entries[i].Buffer = &gputypes.BufferBindingLayout{
				Type:             t,
				HasDynamicOffset: e.Buffer.HasDynamicOffset,
				MinBindingSize:   e.Buffer.MinBindingSize,
			}
		}
	}
	l, err := d.device.CreateBindGroupLayout(&gpu.BindGroupLayoutDescriptor{Label: bd.Label, Entries: entries})
	if err != nil {
		return nil, err
	}
	return &bindGroupLayout{label: bd.Label, layout: l}, nil
}

func (d *device) CreatePipelineLayout(desc hal.Object) (hal.PipelineLayout, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	var pd hal.PipelineLayoutDescriptor
	if err := hal.Decode(desc, &pd); err != nil {
		return nil, err
	}
	layouts := make([]*gpu.BindGroupLayout, len(pd.BindGroupLayouts))
	for i, l := range pd.BindGroupLayouts {
		bgl, ok := l.(*bindGroupLayout)
		if !ok {
			return nil, fmt.Errorf("%w: bind group layout %d", hal.ErrForeignHandle, i)
		}
		layouts[i] = bgl.layout
	}
	l, err := d.device.CreatePipelineLayout(&gpu.PipelineLayoutDescriptor{Label: pd.Label, BindGroupLayouts: layouts})
	if err != nil {
		return nil, err
	}
	return &pipelineLayout{label: pd.Label, layout: l}, nil
}

func (d *device) CreateRenderPipeline(desc hal.Object) (hal.RenderPipeline, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	var rd hal.RenderPipelineDescriptor
	if err := hal.Decode(desc, &rd); err != nil {
		return nil, err
	}
	native, err := d.renderPipelineDescriptor(&rd)
	if err != nil {
		return nil, err
	}
	p, err := d.device.CreateRenderPipeline(native)
	if err != nil {
		return nil, err
	}
	return &renderPipeline{label: rd.Label, pipeline: p}, nil
}

// renderPipelineDescriptor converts a decoded pipeline descriptor. The "auto"
// layout becomes an empty pipeline layout, which covers shaders without
// resource bindings.
func (d *device) renderPipelineDescriptor(rd *hal.RenderPipelineDescriptor) (*gpu.RenderPipelineDescriptor, error) {
	layout, err := rd.PipelineLayout()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	native := &gpu.RenderPipelineDescriptor{
		Label:       rd.Label,
		Primitive:   gputypes.PrimitiveState{Topology: gputypes.PrimitiveTopologyTriangleList},
		Multisample: gputypes.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	}
	switch l := layout.(type) {
	case nil:
		native.Layout, err = d.device.CreatePipelineLayout(&gpu.PipelineLayoutDescriptor{Label: rd.Label})
		if err != nil {
			return nil, err
		}
	case *pipelineLayout:
		native.Layout = l.layout
	default:
		return nil, fmt.Errorf("%w: pipeline layout", hal.ErrForeignHandle)
	}

	vs, ok := rd.Vertex.Module.(*shaderModule)
	if !ok {
		return nil, fmt.Errorf("%w: vertex module", hal.ErrForeignHandle)
	}
	native.Vertex = gpu.VertexState{Module: vs.module, EntryPoint: rd.Vertex.EntryPoint}
	for i, b := range rd.Vertex.Buffers {
		step, err := hal.ParseStepMode(b.StepMode)
		if err != nil {
			return nil, fmt.Errorf("%w: vertex buffer %d: %w", ErrInvalidDescriptor, i, err)
		}
		vbl := gputypes.VertexBufferLayout{ArrayStride: b.ArrayStride, StepMode: step}
		for _, a := range b.Attributes {
			f, err := hal.ParseVertexFormat(a.Format)
			if err != nil {
				return nil, fmt.Errorf("%w: vertex buffer %d: %w", ErrInvalidDescriptor, i, err)
			}
			vbl.Attributes = append(vbl.Attributes, gputypes.VertexAttribute{
				Format:         f,
				Offset:         a.Offset,
				ShaderLocation: a.ShaderLocation,
			})
		}
		native.Vertex.Buffers = append(native.Vertex.Buffers, vbl)
	}

	if rd.Fragment != nil {
		fs, ok := rd.Fragment.Module.(*shaderModule)
		if !ok {
			return nil, fmt.Errorf("%w: fragment module", hal.ErrForeignHandle)
		}
		native.Fragment = &gpu.FragmentState{Module: fs.module, EntryPoint: rd.Fragment.EntryPoint}
		for i, t := range rd.Fragment.Targets {
			f, err := hal.ParseTextureFormat(t.Format)
			if err != nil {
				return nil, fmt.Errorf("%w: target %d: %w", ErrInvalidDescriptor, i, err)
			}
			native.Fragment.Targets = append(native.Fragment.Targets, gputypes.ColorTargetState{
				Format:    f,
				WriteMask: gputypes.ColorWriteMaskAll,
			})
		}
	}
	return native, nil
}

func (d *device) CreateCommandEncoder(desc hal.Object) (hal.CommandEncoder, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	var ld hal.LabelDescriptor
	if err := hal.Decode(desc, &ld); err != nil {
		return nil, err
	}
	enc, err := d.device.CreateCommandEncoder(&gpu.CommandEncoderDescriptor{Label: ld.Label})
	if err != nil {
		return nil, err
	}
	return &commandEncoder{device: d, encoder: enc}, nil
}

func (d *device) CreateRenderBundleEncoder(desc hal.Object) (hal.RenderBundleEncoder, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	var bd hal.RenderBundleEncoderDescriptor
	if err := hal.Decode(desc, &bd); err != nil {
		return nil, err
	}
	for _, name := range bd.ColorFormats {
		if _, err := hal.ParseTextureFormat(name); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
		}
	}
	return &renderBundleEncoder{label: bd.Label}, nil
}

type shaderModule struct {
	label  string
	module *gpu.ShaderModule
}

func (m *shaderModule) Label() string { return m.label }

type bindGroupLayout struct {
	label  string
	layout *gpu.BindGroupLayout
}

func (l *bindGroupLayout) Label() string { return l.label }

type pipelineLayout struct {
	label  string
	layout *gpu.PipelineLayout
}

func (l *pipelineLayout) Label() string { return l.label }

type renderPipeline struct {
	label    string
	pipeline *gpu.RenderPipeline
}

func (p *renderPipeline) Label() string { return p.label }
