package hal

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestTextureFormatRoundTrip(t *testing.T) {
	tests := []struct {
		format gputypes.TextureFormat
		name   string
	}{
		{gputypes.TextureFormatBGRA8Unorm, "bgra8unorm"},
		{gputypes.TextureFormatRGBA8Unorm, "rgba8unorm"},
		{gputypes.TextureFormatRGBA8UnormSrgb, "rgba8unorm-srgb"},
		{gputypes.TextureFormatDepth24PlusStencil8, "depth24plus-stencil8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TextureFormatName(tt.format); got != tt.name {
				t.Errorf("TextureFormatName() = %q, want %q", got, tt.name)
			}
			got, err := ParseTextureFormat(tt.name)
			if err != nil {
				t.Fatalf("ParseTextureFormat() error = %v", err)
			}
			if got != tt.format {
				t.Errorf("ParseTextureFormat() = %v, want %v", got, tt.format)
			}
		})
	}
}

func TestParseTextureFormatUnknown(t *testing.T) {
	if _, err := ParseTextureFormat("BGRA8Unorm"); err == nil {
		t.Error("ParseTextureFormat() accepted a Go-style name")
	}
}

func TestVertexFormatNames(t *testing.T) {
	tests := []struct {
		format gputypes.VertexFormat
		name   string
	}{
		{gputypes.VertexFormatFloat32x2, "float32x2"},
		{gputypes.VertexFormatFloat32x4, "float32x4"},
		{gputypes.VertexFormatUnorm8x4, "unorm8x4"},
		{gputypes.VertexFormatUnorm1010102, "unorm10-10-10-2"},
	}
	for _, tt := range tests {
		if got := VertexFormatName(tt.format); got != tt.name {
			t.Errorf("VertexFormatName(%v) = %q, want %q", tt.format, got, tt.name)
		}
		if got, err := ParseVertexFormat(tt.name); err != nil || got != tt.format {
			t.Errorf("ParseVertexFormat(%q) = %v, %v, want %v", tt.name, got, err, tt.format)
		}
	}
}

func TestOpNames(t *testing.T) {
	if got := LoadOpName(gputypes.LoadOpClear); got != "clear" {
		t.Errorf("LoadOpName(Clear) = %q, want %q", got, "clear")
	}
	if got := LoadOpName(gputypes.LoadOpLoad); got != "load" {
		t.Errorf("LoadOpName(Load) = %q, want %q", got, "load")
	}
	if got := StoreOpName(gputypes.StoreOpDiscard); got != "discard" {
		t.Errorf("StoreOpName(Discard) = %q, want %q", got, "discard")
	}
	if _, err := ParseLoadOp("keep"); err == nil {
		t.Error("ParseLoadOp(keep) should fail")
	}
	if _, err := ParseStoreOp(""); err == nil {
		t.Error("ParseStoreOp(\"\") should fail")
	}
}

func TestDefaultsForOptionalEnums(t *testing.T) {
	if m, err := ParseStepMode(""); err != nil || m != gputypes.VertexStepModeVertex {
		t.Errorf("ParseStepMode(\"\") = %v, %v, want Vertex", m, err)
	}
	if b, err := ParseBufferBindingType(""); err != nil || b != gputypes.BufferBindingTypeUniform {
		t.Errorf("ParseBufferBindingType(\"\") = %v, %v, want Uniform", b, err)
	}
}
