package gpubind

import (
	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gputypes"
)

// VertexAttribute describes one attribute inside a vertex buffer element.
type VertexAttribute = gputypes.VertexAttribute

// VertexBufferLayout describes how one vertex buffer slot is read. A zero
// StepMode leaves the native default (per vertex).
type VertexBufferLayout = gputypes.VertexBufferLayout

// vertexBufferLayoutObject serializes a layout as
// {arrayStride, attributes:[{format, offset, shaderLocation}], stepMode?}.
func vertexBufferLayoutObject(l VertexBufferLayout) map[string]any {
	attrs := make([]any, 0, len(l.Attributes))
	for _, a := range l.Attributes {
		o, err := hal.Encode(hal.VertexAttribute{
			Format:         hal.VertexFormatName(a.Format),
			Offset:         a.Offset,
			ShaderLocation: a.ShaderLocation,
		})
		if err != nil {
			panic(err)
		}
		attrs = append(attrs, map[string]any(o))
	}
	out := map[string]any{
		"arrayStride": l.ArrayStride,
		"attributes":  attrs,
	}
	if name := hal.StepModeName(l.StepMode); name != "" {
		out["stepMode"] = name
	}
	return out
}

// VertexProperties is the vertex stage of a render pipeline.
type VertexProperties struct {
	module     *ShaderModule
	entryPoint string
	buffers    []VertexBufferLayout
	hasBuffers bool
}

// NewVertexProperties starts a vertex stage from a module and entry point.
func NewVertexProperties(module *ShaderModule, entryPoint string) VertexProperties {
	return VertexProperties{module: module, entryPoint: entryPoint}
}

// WithBuffers sets the vertex buffer layouts, one per slot.
func (v VertexProperties) WithBuffers(layouts ...VertexBufferLayout) VertexProperties {
	v.buffers = append([]VertexBufferLayout(nil), layouts...)
	v.hasBuffers = true
	return v
}

// Object returns {module, entryPoint, buffers?}.
func (v VertexProperties) Object() hal.Object {
	o := hal.Object{
		"module":     v.module.native(),
		"entryPoint": v.entryPoint,
	}
	if v.hasBuffers {
		buffers := make([]any, 0, len(v.buffers))
		for _, l := range v.buffers {
			buffers = append(buffers, vertexBufferLayoutObject(l))
		}
		o["buffers"] = buffers
	}
	return o
}

// FragmentProperties is the fragment stage of a render pipeline.
type FragmentProperties struct {
	module     *ShaderModule
	entryPoint string
	targets    []gputypes.TextureFormat
}

// NewFragmentProperties starts a fragment stage. Each target format adds one
// color output, in location order.
func NewFragmentProperties(module *ShaderModule, entryPoint string, targets ...gputypes.TextureFormat) FragmentProperties {
	return FragmentProperties{
		module:     module,
		entryPoint: entryPoint,
		targets:    append([]gputypes.TextureFormat(nil), targets...),
	}
}

// Targets returns the color target formats.
func (f FragmentProperties) Targets() []gputypes.TextureFormat {
	return append([]gputypes.TextureFormat(nil), f.targets...)
}

// Object returns {module, entryPoint, targets:[{format}]}.
func (f FragmentProperties) Object() hal.Object {
	targets := make([]any, 0, len(f.targets))
	for _, t := range f.targets {
		o, err := hal.Encode(hal.ColorTargetState{Format: hal.TextureFormatName(t)})
		if err != nil {
			panic(err)
		}
		targets = append(targets, map[string]any(o))
	}
	return hal.Object{
		"module":     f.module.native(),
		"entryPoint": f.entryPoint,
		"targets":    targets,
	}
}

// RenderPipelineDescriptor describes a render pipeline.
type RenderPipelineDescriptor struct {
	layout      *PipelineLayout
	vertex      VertexProperties
	fragment    FragmentProperties
	hasFragment bool
	label       string
}

// NewRenderPipelineDescriptor starts a pipeline from its layout and vertex
// stage. A nil layout asks the native layer to derive one ("auto").
func NewRenderPipelineDescriptor(layout *PipelineLayout, vertex VertexProperties) RenderPipelineDescriptor {
	return RenderPipelineDescriptor{layout: layout, vertex: vertex}
}

// WithFragment adds the fragment stage.
func (d RenderPipelineDescriptor) WithFragment(fragment FragmentProperties) RenderPipelineDescriptor {
	d.fragment = fragment
	d.hasFragment = true
	return d
}

// WithLabel sets the debug label.
func (d RenderPipelineDescriptor) WithLabel(label string) RenderPipelineDescriptor {
	d.label = label
	return d
}

// Object returns {layout, vertex, fragment?, label?}.
func (d RenderPipelineDescriptor) Object() hal.Object {
	var layout any = "auto"
	if d.layout != nil {
		layout = d.layout.native()
	}
	o := hal.Object{
		"layout": layout,
		"vertex": map[string]any(d.vertex.Object()),
	}
	if d.hasFragment {
		o["fragment"] = map[string]any(d.fragment.Object())
	}
	if d.label != "" {
		o["label"] = d.label
	}
	return o
}

// colorTargets returns the fragment target formats, nil without a fragment stage.
func (d RenderPipelineDescriptor) colorTargets() []gputypes.TextureFormat {
	if !d.hasFragment {
		return nil
	}
	return d.fragment.Targets()
}
