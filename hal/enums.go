package hal

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

var textureFormatNames = map[gputypes.TextureFormat]string{
	gputypes.TextureFormatR8Unorm:              "r8unorm",
	gputypes.TextureFormatR8Snorm:              "r8snorm",
	gputypes.TextureFormatR8Uint:               "r8uint",
	gputypes.TextureFormatR8Sint:               "r8sint",
	gputypes.TextureFormatR16Uint:              "r16uint",
	gputypes.TextureFormatR16Sint:              "r16sint",
	gputypes.TextureFormatR16Float:             "r16float",
	gputypes.TextureFormatRG8Unorm:             "rg8unorm",
	gputypes.TextureFormatRG8Snorm:             "rg8snorm",
	gputypes.TextureFormatRG8Uint:              "rg8uint",
	gputypes.TextureFormatRG8Sint:              "rg8sint",
	gputypes.TextureFormatR32Float:             "r32float",
	gputypes.TextureFormatR32Uint:              "r32uint",
	gputypes.TextureFormatR32Sint:              "r32sint",
	gputypes.TextureFormatRG16Uint:             "rg16uint",
	gputypes.TextureFormatRG16Sint:             "rg16sint",
	gputypes.TextureFormatRG16Float:            "rg16float",
	gputypes.TextureFormatRGBA8Unorm:           "rgba8unorm",
	gputypes.TextureFormatRGBA8UnormSrgb:       "rgba8unorm-srgb",
	gputypes.TextureFormatRGBA8Snorm:           "rgba8snorm",
	gputypes.TextureFormatRGBA8Uint:            "rgba8uint",
	gputypes.TextureFormatRGBA8Sint:            "rgba8sint",
	gputypes.TextureFormatBGRA8Unorm:           "bgra8unorm",
	gputypes.TextureFormatBGRA8UnormSrgb:       "bgra8unorm-srgb",
	gputypes.TextureFormatRGB10A2Uint:          "rgb10a2uint",
	gputypes.TextureFormatRGB10A2Unorm:         "rgb10a2unorm",
	gputypes.TextureFormatRG11B10Ufloat:        "rg11b10ufloat",
	gputypes.TextureFormatRGB9E5Ufloat:         "rgb9e5ufloat",
	gputypes.TextureFormatRG32Float:            "rg32float",
	gputypes.TextureFormatRG32Uint:             "rg32uint",
	gputypes.TextureFormatRG32Sint:             "rg32sint",
	gputypes.TextureFormatRGBA16Uint:           "rgba16uint",
	gputypes.TextureFormatRGBA16Sint:           "rgba16sint",
	gputypes.TextureFormatRGBA16Float:          "rgba16float",
	gputypes.TextureFormatRGBA32Float:          "rgba32float",
	gputypes.TextureFormatRGBA32Uint:           "rgba32uint",
	gputypes.TextureFormatRGBA32Sint:           "rgba32sint",
	gputypes.TextureFormatStencil8:             "stencil8",
	gputypes.TextureFormatDepth16Unorm:         "depth16unorm",
	gputypes.TextureFormatDepth24Plus:          "depth24plus",
	gputypes.TextureFormatDepth24PlusStencil8:  "depth24plus-stencil8",
	gputypes.TextureFormatDepth32Float:         "depth32float",
	gputypes.TextureFormatDepth32FloatStencil8: "depth32float-stencil8",
}

var vertexFormatNames = map[gputypes.VertexFormat]string{
	gputypes.VertexFormatUint8x2:      "uint8x2",
	gputypes.VertexFormatUint8x4:      "uint8x4",
	gputypes.VertexFormatSint8x2:      "sint8x2",
	gputypes.VertexFormatSint8x4:      "sint8x4",
	gputypes.VertexFormatUnorm8x2:     "unorm8x2",
	gputypes.VertexFormatUnorm8x4:     "unorm8x4",
	gputypes.VertexFormatSnorm8x2:     "snorm8x2",
	gputypes.VertexFormatSnorm8x4:     "snorm8x4",
	gputypes.VertexFormatUint16x2:     "uint16x2",
	gputypes.VertexFormatUint16x4:     "uint16x4",
	gputypes.VertexFormatSint16x2:     "sint16x2",
	gputypes.VertexFormatSint16x4:     "sint16x4",
	gputypes.VertexFormatUnorm16x2:    "unorm16x2",
	gputypes.VertexFormatUnorm16x4:    "unorm16x4",
	gputypes.VertexFormatSnorm16x2:    "snorm16x2",
	gputypes.VertexFormatSnorm16x4:    "snorm16x4",
	gputypes.VertexFormatFloat16x2:    "float16x2",
	gputypes.VertexFormatFloat16x4:    "float16x4",
	gputypes.VertexFormatFloat32:      "float32",
	gputypes.VertexFormatFloat32x2:    "float32x2",
	gputypes.VertexFormatFloat32x3:    "float32x3",
	gputypes.VertexFormatFloat32x4:    "float32x4",
	gputypes.VertexFormatUint32:       "uint32",
	gputypes.VertexFormatUint32x2:     "uint32x2",
	gputypes.VertexFormatUint32x3:     "uint32x3",
	gputypes.VertexFormatUint32x4:     "uint32x4",
	gputypes.VertexFormatSint32:       "sint32",
	gputypes.VertexFormatSint32x2:     "sint32x2",
	gputypes.VertexFormatSint32x3:     "sint32x3",
	gputypes.VertexFormatSint32x4:     "sint32x4",
	gputypes.VertexFormatUnorm1010102: "unorm10-10-10-2",
}

var (
	textureFormatValues = invert(textureFormatNames)
	vertexFormatValues  = invert(vertexFormatNames)
)

func invert[K comparable](m map[K]string) map[string]K {
	out := make(map[string]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// TextureFormatName returns the WebGPU name of f, or "" if f has none.
func TextureFormatName(f gputypes.TextureFormat) string {
	return textureFormatNames[f]
}

// ParseTextureFormat converts a WebGPU texture format name.
func ParseTextureFormat(s string) (gputypes.TextureFormat, error) {
	f, ok := textureFormatValues[s]
	if !ok {
		return gputypes.TextureFormatUndefined, fmt.Errorf("hal: unknown texture format %q", s)
	}
	return f, nil
}

// VertexFormatName returns the WebGPU name of f, or "" if f has none.
func VertexFormatName(f gputypes.VertexFormat) string {
	return vertexFormatNames[f]
}

// ParseVertexFormat converts a WebGPU vertex format name.
func ParseVertexFormat(s string) (gputypes.VertexFormat, error) {
	f, ok := vertexFormatValues[s]
	if !ok {
		return gputypes.VertexFormatUndefined, fmt.Errorf("hal: unknown vertex format %q", s)
	}
	return f, nil
}

// LoadOpName returns "load" or "clear".
func LoadOpName(op gputypes.LoadOp) string {
	switch op {
	case gputypes.LoadOpLoad:
		return "load"
	case gputypes.LoadOpClear:
		return "clear"
	default:
		return ""
	}
}

// ParseLoadOp converts a WebGPU load op name.
func ParseLoadOp(s string) (gputypes.LoadOp, error) {
	switch s {
	case "load":
		return gputypes.LoadOpLoad, nil
	case "clear":
		return gputypes.LoadOpClear, nil
	default:
		return gputypes.LoadOpUndefined, fmt.Errorf("hal: unknown load op %q", s)
	}
}

// StoreOpName returns "store" or "discard".
func StoreOpName(op gputypes.StoreOp) string {
	switch op {
	case gputypes.StoreOpStore:
		return "store"
	case gputypes.StoreOpDiscard:
		return "discard"
	default:
		return ""
	}
}

// ParseStoreOp converts a WebGPU store op name.
func ParseStoreOp(s string) (gputypes.StoreOp, error) {
	switch s {
	case "store":
		return gputypes.StoreOpStore, nil
	case "discard":
		return gputypes.StoreOpDiscard, nil
	default:
		return gputypes.StoreOpUndefined, fmt.Errorf("hal: unknown store op %q", s)
	}
}

// StepModeName returns "vertex" or "instance".
func StepModeName(m gputypes.VertexStepMode) string {
	switch m {
	case gputypes.VertexStepModeVertex:
		return "vertex"
	case gputypes.VertexStepModeInstance:
		return "instance"
	default:
		return ""
	}
}

// ParseStepMode converts a WebGPU vertex step mode name. The empty string
// selects the WebGPU default, "vertex".
func ParseStepMode(s string) (gputypes.VertexStepMode, error) {
	switch s {
	case "", "vertex":
		return gputypes.VertexStepModeVertex, nil
	case "instance":
		return gputypes.VertexStepModeInstance, nil
	default:
		return gputypes.VertexStepModeUndefined, fmt.Errorf("hal: unknown step mode %q", s)
	}
}

// BufferBindingTypeName returns "uniform", "storage" or "read-only-storage".
func BufferBindingTypeName(t gputypes.BufferBindingType) string {
	switch t {
	case gputypes.BufferBindingTypeUniform:
		return "uniform"
	case gputypes.BufferBindingTypeStorage:
		return "storage"
	case gputypes.BufferBindingTypeReadOnlyStorage:
		return "read-only-storage"
	default:
		return ""
	}
}

// ParseBufferBindingType converts a WebGPU buffer binding type name. The
// empty string selects the WebGPU default, "uniform".
func ParseBufferBindingType(s string) (gputypes.BufferBindingType, error) {
	switch s {
	case "", "uniform":
		return gputypes.BufferBindingTypeUniform, nil
	case "storage":
		return gputypes.BufferBindingTypeStorage, nil
	case "read-only-storage":
		return gputypes.BufferBindingTypeReadOnlyStorage, nil
	default:
		return gputypes.BufferBindingTypeUndefined, fmt.Errorf("hal: unknown buffer binding type %q", s)
	}
}
