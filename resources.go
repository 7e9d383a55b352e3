package gpubind

import (
	"slices"

	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gputypes"
)

// ShaderModule is a compiled shader. It is immutable and shared by reference
// between pipelines.
type ShaderModule struct {
	raw   hal.ShaderModule
	label string
}

func (m *ShaderModule) native() hal.ShaderModule {
	if m == nil {
		return nil
	}
	return m.raw
}

// Label returns the debug label.
func (m *ShaderModule) Label() string { return m.label }

// BindGroupLayout describes the bindings of one bind group.
type BindGroupLayout struct {
	raw   hal.BindGroupLayout
	label string
}

func (l *BindGroupLayout) native() hal.BindGroupLayout {
	if l == nil {
		return nil
	}
	return l.raw
}

// Label returns the debug label.
func (l *BindGroupLayout) Label() string { return l.label }

// PipelineLayout is an immutable, ordered list of bind group layouts.
type PipelineLayout struct {
	raw    hal.PipelineLayout
	label  string
	groups int
}

func (l *PipelineLayout) native() hal.PipelineLayout {
	if l == nil {
		return nil
	}
	return l.raw
}

// Label returns the debug label.
func (l *PipelineLayout) Label() string { return l.label }

// BindGroupCount returns the number of bind group layouts.
func (l *PipelineLayout) BindGroupCount() int { return l.groups }

// RenderPipeline is an immutable render state object.
type RenderPipeline struct {
	raw     hal.RenderPipeline
	label   string
	targets []gputypes.TextureFormat
}

func (p *RenderPipeline) native() hal.RenderPipeline {
	if p == nil {
		return nil
	}
	return p.raw
}

// Label returns the debug label.
func (p *RenderPipeline) Label() string { return p.label }

// ColorTargets returns the fragment output formats, empty for a
// vertex-only pipeline.
func (p *RenderPipeline) ColorTargets() []gputypes.TextureFormat {
	return slices.Clone(p.targets)
}
