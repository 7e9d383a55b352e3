package hal

import (
	"testing"

	"github.com/gogpu/gputypes"
)

type stubView struct{ label string }

func (v stubView) Label() string { return v.label }

type stubModule struct{}

func (stubModule) Label() string { return "module" }

func TestDecodeBuffer(t *testing.T) {
	obj := Object{
		"size":             uint64(128),
		"usage":            uint64(gputypes.BufferUsageMapWrite | gputypes.BufferUsageCopySrc),
		"mappedAtCreation": true,
	}
	var d BufferDescriptor
	if err := Decode(obj, &d); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if d.Size != 128 {
		t.Errorf("Size = %d, want 128", d.Size)
	}
	if !d.Usage.Contains(gputypes.BufferUsageMapWrite) {
		t.Errorf("Usage = %v, want MapWrite set", d.Usage)
	}
	if !d.MappedAtCreation {
		t.Error("MappedAtCreation = false, want true")
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	obj := Object{"size": uint64(4), "usage": uint64(0), "mapped_at_creation": true}
	var d BufferDescriptor
	if err := Decode(obj, &d); err == nil {
		t.Error("Decode() accepted snake_case field name")
	}
}

func TestDecodeRenderPipeline(t *testing.T) {
	mod := stubModule{}
	obj := Object{
		"layout": "auto",
		"vertex": map[string]any{
			"module":     mod,
			"entryPoint": "vsh",
			"buffers": []any{
				map[string]any{
					"arrayStride": uint64(8),
					"attributes": []any{
						map[string]any{"format": "float32x2", "offset": uint64(0), "shaderLocation": uint32(0)},
					},
				},
			},
		},
		"fragment": map[string]any{
			"module":     mod,
			"entryPoint": "fsh",
			"targets":    []any{map[string]any{"format": "bgra8unorm"}},
		},
	}
	var d RenderPipelineDescriptor
	if err := Decode(obj, &d); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if d.Vertex.EntryPoint != "vsh" {
		t.Errorf("Vertex.EntryPoint = %q, want %q", d.Vertex.EntryPoint, "vsh")
	}
	if len(d.Vertex.Buffers) != 1 || d.Vertex.Buffers[0].ArrayStride != 8 {
		t.Fatalf("Vertex.Buffers = %+v, want one layout with stride 8", d.Vertex.Buffers)
	}
	if got := d.Vertex.Buffers[0].Attributes[0].Format; got != "float32x2" {
		t.Errorf("attribute format = %q, want %q", got, "float32x2")
	}
	if d.Fragment == nil || d.Fragment.Targets[0].Format != "bgra8unorm" {
		t.Errorf("Fragment = %+v, want one bgra8unorm target", d.Fragment)
	}
	layout, err := d.PipelineLayout()
	if err != nil || layout != nil {
		t.Errorf("PipelineLayout() = %v, %v, want nil, nil for auto", layout, err)
	}
}

func TestDecodeFragmentOptional(t *testing.T) {
	obj := Object{
		"layout": "auto",
		"vertex": map[string]any{"module": stubModule{}, "entryPoint": "vsh"},
	}
	var d RenderPipelineDescriptor
	if err := Decode(obj, &d); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if d.Fragment != nil {
		t.Errorf("Fragment = %+v, want nil", d.Fragment)
	}
}

func TestColorAttachmentClear(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  gputypes.Color
	}{
		{"missing", nil, gputypes.Color{}},
		{"array", []any{0.0, 0.0, 0.0, 1.0}, gputypes.Color{A: 1}},
		{"float slice", []float64{0.25, 0.5, 0.75, 1}, gputypes.Color{R: 0.25, G: 0.5, B: 0.75, A: 1}},
		{"object", map[string]any{"r": 1.0, "g": 0.0, "b": 0.0, "a": 1.0}, gputypes.Color{R: 1, A: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := RenderPassColorAttachment{View: stubView{}, ClearValue: tt.value}
			got, err := a.Clear()
			if err != nil {
				t.Fatalf("Clear() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Clear() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestColorAttachmentClearWrongArity(t *testing.T) {
	a := RenderPassColorAttachment{ClearValue: []any{0.0, 1.0}}
	if _, err := a.Clear(); err == nil {
		t.Error("Clear() accepted a 2-component clear value")
	}
}

func TestObjectHelpers(t *testing.T) {
	o := Object{"size": 4, "label": "x"}
	keys := o.Keys()
	if len(keys) != 2 || keys[0] != "label" || keys[1] != "size" {
		t.Errorf("Keys() = %v, want [label size]", keys)
	}
	c := o.Clone()
	c["usage"] = 1
	if o.Has("usage") {
		t.Error("Clone() shares the top-level map")
	}
}

func TestEncodeRecords(t *testing.T) {
	attr, err := Encode(VertexAttribute{Format: "float32x2", Offset: 0, ShaderLocation: 0})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := []string{"format", "offset", "shaderLocation"}
	got := attr.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	layout, err := Encode(BufferBindingLayout{})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(layout) != 0 {
		t.Errorf("Encode(BufferBindingLayout{}) = %v, want empty object", layout)
	}
}
