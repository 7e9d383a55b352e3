package hal

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/mitchellh/mapstructure"
)

// Typed forms of the argument objects. Platforms that cannot pass objects
// through verbatim decode them with Decode.

// AdapterOptions is the requestAdapter argument.
type AdapterOptions struct {
	PowerPreference      string `mapstructure:"powerPreference"`
	ForceFallbackAdapter bool   `mapstructure:"forceFallbackAdapter"`
}

// DeviceDescriptor is the requestDevice argument.
type DeviceDescriptor struct {
	Label            string   `mapstructure:"label"`
	RequiredFeatures []string `mapstructure:"requiredFeatures"`
}

// BufferDescriptor is the createBuffer argument.
type BufferDescriptor struct {
	Label            string               `mapstructure:"label"`
	Size             uint64               `mapstructure:"size"`
	Usage            gputypes.BufferUsage `mapstructure:"usage"`
	MappedAtCreation bool                 `mapstructure:"mappedAtCreation"`
}

// ShaderModuleDescriptor is the createShaderModule argument.
type ShaderModuleDescriptor struct {
	Label string `mapstructure:"label"`
	Code  string `mapstructure:"code"`
}

// BufferBindingLayout describes a buffer binding slot.
type BufferBindingLayout struct {
	Type             string `mapstructure:"type,omitempty"`
	HasDynamicOffset bool   `mapstructure:"hasDynamicOffset,omitempty"`
	MinBindingSize   uint64 `mapstructure:"minBindingSize,omitempty"`
}

// BindGroupLayoutEntry is one binding of a bind group layout.
type BindGroupLayoutEntry struct {
	Binding    uint32                `mapstructure:"binding"`
	Visibility gputypes.ShaderStages `mapstructure:"visibility"`
	Buffer     *BufferBindingLayout  `mapstructure:"buffer"`
}

// BindGroupLayoutDescriptor is the createBindGroupLayout argument.
type BindGroupLayoutDescriptor struct {
	Label   string                 `mapstructure:"label"`
	Entries []BindGroupLayoutEntry `mapstructure:"entries"`
}

// PipelineLayoutDescriptor is the createPipelineLayout argument.
type PipelineLayoutDescriptor struct {
	Label            string            `mapstructure:"label"`
	BindGroupLayouts []BindGroupLayout `mapstructure:"bindGroupLayouts"`
}

// VertexAttribute is one attribute of a vertex buffer layout.
type VertexAttribute struct {
	Format         string `mapstructure:"format"`
	Offset         uint64 `mapstructure:"offset"`
	ShaderLocation uint32 `mapstructure:"shaderLocation"`
}

// VertexBufferLayout describes one vertex buffer slot.
type VertexBufferLayout struct {
	ArrayStride uint64            `mapstructure:"arrayStride"`
	StepMode    string            `mapstructure:"stepMode,omitempty"`
	Attributes  []VertexAttribute `mapstructure:"attributes"`
}

// VertexState is the vertex stage of a render pipeline.
type VertexState struct {
	Module     ShaderModule         `mapstructure:"module"`
	EntryPoint string               `mapstructure:"entryPoint"`
	Buffers    []VertexBufferLayout `mapstructure:"buffers"`
}

// ColorTargetState is one fragment output target.
type ColorTargetState struct {
	Format string `mapstructure:"format"`
}

// FragmentState is the fragment stage of a render pipeline.
type FragmentState struct {
	Module     ShaderModule       `mapstructure:"module"`
	EntryPoint string             `mapstructure:"entryPoint"`
	Targets    []ColorTargetState `mapstructure:"targets"`
}

// RenderPipelineDescriptor is the createRenderPipeline argument. Layout is a
// PipelineLayout or the string "auto".
type RenderPipelineDescriptor struct {
	Label    string         `mapstructure:"label"`
	Layout   any            `mapstructure:"layout"`
	Vertex   VertexState    `mapstructure:"vertex"`
	Fragment *FragmentState `mapstructure:"fragment"`
}

// PipelineLayout returns the explicit layout, or nil for "auto".
func (d *RenderPipelineDescriptor) PipelineLayout() (PipelineLayout, error) {
	switch l := d.Layout.(type) {
	case PipelineLayout:
		return l, nil
	case string:
		if l == "auto" {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("hal: invalid pipeline layout %v", d.Layout)
}

// RenderPassColorAttachment is one color attachment of a render pass.
type RenderPassColorAttachment struct {
	View          TextureView `mapstructure:"view"`
	ResolveTarget TextureView `mapstructure:"resolveTarget"`
	LoadOp        string      `mapstructure:"loadOp"`
	StoreOp       string      `mapstructure:"storeOp"`
	ClearValue    any         `mapstructure:"clearValue"`
}

// Clear returns the clear color. Both the [r, g, b, a] list form and the
// {r, g, b, a} object form are accepted; a missing value is transparent black.
func (a *RenderPassColorAttachment) Clear() (gputypes.Color, error) {
	switch v := a.ClearValue.(type) {
	case nil:
		return gputypes.Color{}, nil
	case gputypes.Color:
		return v, nil
	case []float64:
		if len(v) != 4 {
			return gputypes.Color{}, fmt.Errorf("hal: clear value has %d components, want 4", len(v))
		}
		return gputypes.Color{R: v[0], G: v[1], B: v[2], A: v[3]}, nil
	case []any:
		if len(v) != 4 {
			return gputypes.Color{}, fmt.Errorf("hal: clear value has %d components, want 4", len(v))
		}
		var c [4]float64
		for i, x := range v {
			f, ok := toFloat(x)
			if !ok {
				return gputypes.Color{}, fmt.Errorf("hal: clear value component %d is %T", i, x)
			}
			c[i] = f
		}
		return gputypes.Color{R: c[0], G: c[1], B: c[2], A: c[3]}, nil
	case map[string]any:
		return decodeColor(v)
	case Object:
		return decodeColor(v)
	default:
		return gputypes.Color{}, fmt.Errorf("hal: unsupported clear value %T", a.ClearValue)
	}
}

// ClearColor is the object form of a clear value.
type ClearColor struct {
	R float64 `mapstructure:"r"`
	G float64 `mapstructure:"g"`
	B float64 `mapstructure:"b"`
	A float64 `mapstructure:"a"`
}

func decodeColor(m map[string]any) (gputypes.Color, error) {
	var c ClearColor
	if err := decodeInto(m, &c); err != nil {
		return gputypes.Color{}, err
	}
	return gputypes.Color{R: c.R, G: c.G, B: c.B, A: c.A}, nil
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}

// RenderPassDescriptor is the beginRenderPass argument.
type RenderPassDescriptor struct {
	Label            string                      `mapstructure:"label"`
	ColorAttachments []RenderPassColorAttachment `mapstructure:"colorAttachments"`
}

// RenderBundleEncoderDescriptor is the createRenderBundleEncoder argument.
type RenderBundleEncoderDescriptor struct {
	Label        string   `mapstructure:"label"`
	ColorFormats []string `mapstructure:"colorFormats"`
}

// LabelDescriptor covers the descriptors that only carry a label: command
// encoder, command buffer and render bundle.
type LabelDescriptor struct {
	Label string `mapstructure:"label"`
}

// TextureViewDescriptor is the createView argument.
type TextureViewDescriptor struct {
	Label  string `mapstructure:"label"`
	Format string `mapstructure:"format"`
}

// CanvasConfiguration is the configure argument of a canvas context.
type CanvasConfiguration struct {
	Device    Device `mapstructure:"device"`
	Format    string `mapstructure:"format"`
	AlphaMode string `mapstructure:"alphaMode"`
}

// Decode fills out, a pointer to one of the descriptor types above, from obj.
// Unknown fields are an error. A nil obj leaves out untouched.
func Decode(obj Object, out any) error {
	if obj == nil {
		return nil
	}
	if err := decodeInto(map[string]any(obj), out); err != nil {
		return fmt.Errorf("hal: decode %T: %w", out, err)
	}
	return nil
}

func decodeInto(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

// Encode converts one of the flat record types above (VertexAttribute,
// ColorTargetState, BufferBindingLayout, ClearColor) into an argument object
// keyed by its WebGPU field names. Fields tagged omitempty are left out when
// zero.
func Encode(v any) (Object, error) {
	var m map[string]any
	if err := mapstructure.Decode(v, &m); err != nil {
		return nil, fmt.Errorf("hal: encode %T: %w", v, err)
	}
	return Object(m), nil
}
