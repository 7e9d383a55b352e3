package gpubind

import (
	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gputypes"
)

// Descriptors are plain values. Every With method returns a modified copy and
// leaves the receiver unchanged, so a partially built descriptor can be shared
// as a template. Object returns the argument object handed to the native
// layer; it contains exactly the fields that were set.

// BufferDescriptor describes a buffer to create.
type BufferDescriptor struct {
	size             uint64
	usage            BufferUsage
	label            string
	mappedAtCreation bool
	mappedSet        bool
}

// NewBufferDescriptor starts a buffer descriptor from its required fields.
func NewBufferDescriptor(size uint64, usage BufferUsage) BufferDescriptor {
	return BufferDescriptor{size: size, usage: usage}
}

// WithLabel sets the debug label.
func (d BufferDescriptor) WithLabel(label string) BufferDescriptor {
	d.label = label
	return d
}

// WithMappedAtCreation creates the buffer already mapped for writing over its
// full size.
func (d BufferDescriptor) WithMappedAtCreation(mapped bool) BufferDescriptor {
	d.mappedAtCreation = mapped
	d.mappedSet = true
	return d
}

// Object returns {size, usage, label?, mappedAtCreation?}.
func (d BufferDescriptor) Object() hal.Object {
	o := hal.Object{
		"size":  d.size,
		"usage": uint64(d.usage),
	}
	if d.label != "" {
		o["label"] = d.label
	}
	if d.mappedSet {
		o["mappedAtCreation"] = d.mappedAtCreation
	}
	return o
}

// ShaderModuleDescriptor carries shader source text. The source is opaque to
// gpubind; the native layer compiles it.
type ShaderModuleDescriptor struct {
	code  string
	label string
}

// NewShaderModuleDescriptor starts a shader module descriptor from WGSL source.
func NewShaderModuleDescriptor(code string) ShaderModuleDescriptor {
	return ShaderModuleDescriptor{code: code}
}

// WithLabel sets the debug label.
func (d ShaderModuleDescriptor) WithLabel(label string) ShaderModuleDescriptor {
	d.label = label
	return d
}

// Object returns {code, label?}.
func (d ShaderModuleDescriptor) Object() hal.Object {
	o := hal.Object{"code": d.code}
	if d.label != "" {
		o["label"] = d.label
	}
	return o
}

// BufferBindingLayout describes a buffer slot of a bind group layout.
type BufferBindingLayout struct {
	Type             gputypes.BufferBindingType
	HasDynamicOffset bool
	MinBindingSize   uint64
}

// BindGroupLayoutEntry is one buffer binding of a bind group layout.
type BindGroupLayoutEntry struct {
	Binding    uint32
	Visibility gputypes.ShaderStages
	Buffer     BufferBindingLayout
}

// BindGroupLayoutDescriptor describes a bind group layout.
type BindGroupLayoutDescriptor struct {
	entries []BindGroupLayoutEntry
	label   string
}

// NewBindGroupLayoutDescriptor starts a bind group layout descriptor.
func NewBindGroupLayoutDescriptor(entries ...BindGroupLayoutEntry) BindGroupLayoutDescriptor {
	return BindGroupLayoutDescriptor{entries: append([]BindGroupLayoutEntry(nil), entries...)}
}

// WithLabel sets the debug label.
func (d BindGroupLayoutDescriptor) WithLabel(label string) BindGroupLayoutDescriptor {
	d.label = label
	return d
}

// Object returns {entries, label?}.
func (d BindGroupLayoutDescriptor) Object() hal.Object {
	entries := make([]any, 0, len(d.entries))
	for _, e := range d.entries {
		buffer, err := hal.Encode(hal.BufferBindingLayout{
			Type:             hal.BufferBindingTypeName(e.Buffer.Type),
			HasDynamicOffset: e.Buffer.HasDynamicOffset,
			MinBindingSize:   e.Buffer.MinBindingSize,
		})
		if err != nil {
			// The record type is fixed, so Encode cannot fail here.
			panic(err)
		}
		entries = append(entries, map[string]any{
			"binding":    e.Binding,
			"visibility": uint32(e.Visibility),
			"buffer":     map[string]any(buffer),
		})
	}
	o := hal.Object{"entries": entries}
	if d.label != "" {
		o["label"] = d.label
	}
	return o
}

// PipelineLayoutDescriptor lists bind group layouts in binding order. An
// empty list is valid.
type PipelineLayoutDescriptor struct {
	layouts []*BindGroupLayout
	label   string
}

// NewPipelineLayoutDescriptor starts a pipeline layout descriptor.
func NewPipelineLayoutDescriptor(layouts ...*BindGroupLayout) PipelineLayoutDescriptor {
	return PipelineLayoutDescriptor{layouts: append([]*BindGroupLayout(nil), layouts...)}
}

// WithLabel sets the debug label.
func (d PipelineLayoutDescriptor) WithLabel(label string) PipelineLayoutDescriptor {
	d.label = label
	return d
}

// Object returns {bindGroupLayouts, label?}.
func (d PipelineLayoutDescriptor) Object() hal.Object {
	layouts := make([]any, 0, len(d.layouts))
	for _, l := range d.layouts {
		layouts = append(layouts, l.native())
	}
	o := hal.Object{"bindGroupLayouts": layouts}
	if d.label != "" {
		o["label"] = d.label
	}
	return o
}

// LabelDescriptor is the descriptor of objects whose only option is a label:
// command encoders, command buffers and render bundles.
type LabelDescriptor struct {
	label string
}

// CommandEncoderDescriptor describes a command encoder.
type CommandEncoderDescriptor = LabelDescriptor

// CommandBufferDescriptor describes the command buffer produced by Finish.
type CommandBufferDescriptor = LabelDescriptor

// RenderBundleDescriptor describes the bundle produced by a bundle encoder.
type RenderBundleDescriptor = LabelDescriptor

// NewLabelDescriptor returns an empty label-only descriptor.
func NewLabelDescriptor() LabelDescriptor { return LabelDescriptor{} }

// WithLabel sets the debug label.
func (d LabelDescriptor) WithLabel(label string) LabelDescriptor {
	d.label = label
	return d
}

// Object returns {label?}.
func (d LabelDescriptor) Object() hal.Object {
	o := hal.Object{}
	if d.label != "" {
		o["label"] = d.label
	}
	return o
}

// TextureViewDescriptor describes a texture view. The zero value views the
// whole texture in its own format.
type TextureViewDescriptor struct {
	label  string
	format gputypes.TextureFormat
}

// NewTextureViewDescriptor returns an empty texture view descriptor.
func NewTextureViewDescriptor() TextureViewDescriptor { return TextureViewDescriptor{} }

// WithLabel sets the debug label.
func (d TextureViewDescriptor) WithLabel(label string) TextureViewDescriptor {
	d.label = label
	return d
}

// WithFormat reinterprets the texture in another compatible format.
func (d TextureViewDescriptor) WithFormat(format gputypes.TextureFormat) TextureViewDescriptor {
	d.format = format
	return d
}

// Object returns {label?, format?}.
func (d TextureViewDescriptor) Object() hal.Object {
	o := hal.Object{}
	if d.label != "" {
		o["label"] = d.label
	}
	if d.format != gputypes.TextureFormatUndefined {
		o["format"] = hal.TextureFormatName(d.format)
	}
	return o
}

// AlphaMode controls how a canvas composites its alpha channel.
type AlphaMode string

// Canvas alpha modes.
const (
	AlphaModeOpaque        AlphaMode = "opaque"
	AlphaModePremultiplied AlphaMode = "premultiplied"
)

// CanvasConfiguration binds a canvas context to a device and a format.
type CanvasConfiguration struct {
	device    *Device
	format    gputypes.TextureFormat
	alphaMode AlphaMode
}

// NewCanvasConfiguration starts a canvas configuration from its required fields.
func NewCanvasConfiguration(device *Device, format gputypes.TextureFormat) CanvasConfiguration {
	return CanvasConfiguration{device: device, format: format}
}

// WithFormat replaces the swap-chain format.
func (c CanvasConfiguration) WithFormat(format gputypes.TextureFormat) CanvasConfiguration {
	c.format = format
	return c
}

// WithAlphaMode sets the alpha compositing mode.
func (c CanvasConfiguration) WithAlphaMode(mode AlphaMode) CanvasConfiguration {
	c.alphaMode = mode
	return c
}

// Format returns the configured swap-chain format.
func (c CanvasConfiguration) Format() gputypes.TextureFormat { return c.format }

// Object returns {device, format, alphaMode?}.
func (c CanvasConfiguration) Object() hal.Object {
	o := hal.Object{
		"device": c.device.native(),
		"format": hal.TextureFormatName(c.format),
	}
	if c.alphaMode != "" {
		o["alphaMode"] = string(c.alphaMode)
	}
	return o
}
