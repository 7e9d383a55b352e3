package gpubind

import (
	"reflect"
	"testing"

	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gputypes"
)

// stubModule is a hal.ShaderModule that only carries a label.
type stubModule struct{ label string }

func (m *stubModule) Label() string { return m.label }

type stubView struct{}

func (stubView) Label() string { return "" }

func TestBufferDescriptor_Object(t *testing.T) {
	tests := []struct {
		name string
		desc BufferDescriptor
		keys []string
	}{
		{"required only", NewBufferDescriptor(128, BufferUsageVertex|BufferUsageCopyDst), []string{"size", "usage"}},
		{"labeled", NewBufferDescriptor(4, BufferUsageUniform).WithLabel("u"), []string{"label", "size", "usage"}},
		{"mapped", NewBufferDescriptor(4, BufferUsageMapWrite).WithMappedAtCreation(true), []string{"mappedAtCreation", "size", "usage"}},
		{"mapped false is still sent", NewBufferDescriptor(4, BufferUsageMapWrite).WithMappedAtCreation(false), []string{"mappedAtCreation", "size", "usage"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.desc.Object().Keys(); !reflect.DeepEqual(got, tt.keys) {
				t.Errorf("Keys() = %v, want %v", got, tt.keys)
			}
		})
	}

	o := NewBufferDescriptor(128, BufferUsageVertex|BufferUsageCopyDst).Object()
	if o["size"] != uint64(128) || o["usage"] != uint64(0x28) {
		t.Errorf("Object() = %v, want size 128 usage 0x28", o)
	}
}

func TestBufferDescriptor_Immutable(t *testing.T) {
	base := NewBufferDescriptor(16, BufferUsageVertex)
	_ = base.WithLabel("changed").WithMappedAtCreation(true)

	if base.Object().Has("label") || base.Object().Has("mappedAtCreation") {
		t.Error("With methods modified the receiver")
	}
}

func TestShaderModuleDescriptor_Object(t *testing.T) {
	o := NewShaderModuleDescriptor("@vertex fn main() {}").Object()
	if got := o.Keys(); !reflect.DeepEqual(got, []string{"code"}) {
		t.Errorf("Keys() = %v, want [code]", got)
	}
	if o["code"] != "@vertex fn main() {}" {
		t.Errorf("code = %v", o["code"])
	}
}

func TestPipelineLayoutDescriptor_Object(t *testing.T) {
	o := NewPipelineLayoutDescriptor().Object()
	layouts, ok := o["bindGroupLayouts"].([]any)
	if !ok || len(layouts) != 0 {
		t.Errorf("bindGroupLayouts = %#v, want empty list", o["bindGroupLayouts"])
	}

	bgl := &BindGroupLayout{label: "g0"}
	o = NewPipelineLayoutDescriptor(bgl).WithLabel("layout").Object()
	if got := o["bindGroupLayouts"].([]any); len(got) != 1 {
		t.Errorf("bindGroupLayouts = %v, want 1 entry", got)
	}
	if o["label"] != "layout" {
		t.Errorf("label = %v", o["label"])
	}
}

func TestBindGroupLayoutDescriptor_Object(t *testing.T) {
	o := NewBindGroupLayoutDescriptor(BindGroupLayoutEntry{
		Binding:    0,
		Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
		Buffer:     BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
	}).Object()

	var d hal.BindGroupLayoutDescriptor
	if err := hal.Decode(o, &d); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(d.Entries) != 1 || d.Entries[0].Visibility != 3 || d.Entries[0].Buffer == nil {
		t.Fatalf("entries = %+v", d.Entries)
	}
	if d.Entries[0].Buffer.Type != "uniform" {
		t.Errorf("buffer type = %q, want uniform", d.Entries[0].Buffer.Type)
	}
}

func TestVertexProperties_Object(t *testing.T) {
	module := &ShaderModule{raw: &stubModule{"triangle"}}
	o := NewVertexProperties(module, "vsh").WithBuffers(VertexBufferLayout{
		ArrayStride: 8,
		Attributes: []VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
		},
	}).Object()

	if got := o.Keys(); !reflect.DeepEqual(got, []string{"buffers", "entryPoint", "module"}) {
		t.Errorf("Keys() = %v", got)
	}
	buffers := o["buffers"].([]any)
	layout := buffers[0].(map[string]any)
	if layout["arrayStride"] != uint64(8) {
		t.Errorf("arrayStride = %v, want 8", layout["arrayStride"])
	}
	if _, ok := layout["stepMode"]; ok {
		t.Error("stepMode sent although unset")
	}
	attr := layout["attributes"].([]any)[0].(map[string]any)
	want := map[string]any{"format": "float32x2", "offset": uint64(0), "shaderLocation": uint32(0)}
	if !reflect.DeepEqual(attr, want) {
		t.Errorf("attribute = %#v, want %#v", attr, want)
	}

	noBuffers := NewVertexProperties(module, "vsh").Object()
	if noBuffers.Has("buffers") {
		t.Error("buffers sent although unset")
	}

	instanced := NewVertexProperties(module, "vsh").WithBuffers(VertexBufferLayout{
		ArrayStride: 16,
		StepMode:    gputypes.VertexStepModeInstance,
	}).Object()
	if got := instanced["buffers"].([]any)[0].(map[string]any)["stepMode"]; got != "instance" {
		t.Errorf("stepMode = %v, want instance", got)
	}
}

func TestRenderPipelineDescriptor_Object(t *testing.T) {
	module := &ShaderModule{raw: &stubModule{"triangle"}}
	vertex := NewVertexProperties(module, "vsh")

	auto := NewRenderPipelineDescriptor(nil, vertex).Object()
	if auto["layout"] != "auto" {
		t.Errorf("layout = %v, want auto", auto["layout"])
	}
	if auto.Has("fragment") {
		t.Error("fragment sent although unset")
	}

	full := NewRenderPipelineDescriptor(&PipelineLayout{}, vertex).
		WithFragment(NewFragmentProperties(module, "fsh", gputypes.TextureFormatBGRA8Unorm)).
		WithLabel("p")
	o := full.Object()
	if got := o.Keys(); !reflect.DeepEqual(got, []string{"fragment", "label", "layout", "vertex"}) {
		t.Errorf("Keys() = %v", got)
	}
	targets := o["fragment"].(map[string]any)["targets"].([]any)
	if got := targets[0].(map[string]any)["format"]; got != "bgra8unorm" {
		t.Errorf("target format = %v, want bgra8unorm", got)
	}
	if got := full.colorTargets(); len(got) != 1 || got[0] != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("colorTargets() = %v", got)
	}

	var d hal.RenderPipelineDescriptor
	if err := hal.Decode(o, &d); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if d.Vertex.EntryPoint != "vsh" || d.Fragment == nil || d.Fragment.EntryPoint != "fsh" {
		t.Errorf("decoded = %+v", d)
	}
}

func TestRenderPassColorAttachment_Object(t *testing.T) {
	view := &TextureView{raw: stubView{}}

	tests := []struct {
		name       string
		attachment RenderPassColorAttachment
		keys       []string
		loadOp     string
		storeOp    string
	}{
		{"default", NewRenderPassColorAttachment(view), []string{"loadOp", "storeOp", "view"}, "load", "store"},
		{"clear array", NewRenderPassColorAttachment(view).ClearByArray([4]float64{0, 0, 0, 1}), []string{"clearValue", "loadOp", "storeOp", "view"}, "clear", "store"},
		{"clear color", NewRenderPassColorAttachment(view).ClearByColor(gputypes.Color{R: 1, A: 1}), []string{"clearValue", "loadOp", "storeOp", "view"}, "clear", "store"},
		{"resolve", NewRenderPassColorAttachment(view).ResolveTo(view), []string{"loadOp", "resolveTarget", "storeOp", "view"}, "load", "store"},
		{"discard", NewRenderPassColorAttachment(view).WithStoreOp(gputypes.StoreOpDiscard), []string{"loadOp", "storeOp", "view"}, "load", "discard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := tt.attachment.Object()
			if got := o.Keys(); !reflect.DeepEqual(got, tt.keys) {
				t.Errorf("Keys() = %v, want %v", got, tt.keys)
			}
			if o["loadOp"] != tt.loadOp || o["storeOp"] != tt.storeOp {
				t.Errorf("ops = %v/%v, want %s/%s", o["loadOp"], o["storeOp"], tt.loadOp, tt.storeOp)
			}

			var a hal.RenderPassColorAttachment
			if err := hal.Decode(o, &a); err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if _, err := a.Clear(); err != nil {
				t.Errorf("Clear() error = %v", err)
			}
		})
	}
}

func TestRenderPassColorAttachment_ClearForms(t *testing.T) {
	view := &TextureView{raw: stubView{}}
	want := gputypes.Color{R: 0.25, G: 0.5, B: 0.75, A: 1}

	for name, a := range map[string]RenderPassColorAttachment{
		"array": NewRenderPassColorAttachment(view).ClearByArray([4]float64{0.25, 0.5, 0.75, 1}),
		"color": NewRenderPassColorAttachment(view).ClearByColor(want),
	} {
		var d hal.RenderPassColorAttachment
		if err := hal.Decode(a.Object(), &d); err != nil {
			t.Fatalf("%s: Decode() error = %v", name, err)
		}
		got, err := d.Clear()
		if err != nil || got != want {
			t.Errorf("%s: Clear() = %v, %v, want %v", name, got, err, want)
		}
	}
}

func TestRenderPassDescriptor_Object(t *testing.T) {
	view := &TextureView{raw: stubView{}}
	o := NewRenderPassDescriptor(NewRenderPassColorAttachment(view), NewRenderPassColorAttachment(view)).Object()
	if got := o.Keys(); !reflect.DeepEqual(got, []string{"colorAttachments"}) {
		t.Errorf("Keys() = %v", got)
	}
	if got := o["colorAttachments"].([]any); len(got) != 2 {
		t.Errorf("colorAttachments = %d, want 2", len(got))
	}
}

func TestRenderBundleEncoderDescriptor_Object(t *testing.T) {
	o := NewRenderBundleEncoderDescriptor(gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatRGBA8Unorm).Object()
	want := []any{"bgra8unorm", "rgba8unorm"}
	if !reflect.DeepEqual(o["colorFormats"], want) {
		t.Errorf("colorFormats = %v, want %v", o["colorFormats"], want)
	}
}

func TestLabelAndViewDescriptors(t *testing.T) {
	if got := NewLabelDescriptor().Object().Keys(); len(got) != 0 {
		t.Errorf("empty label descriptor keys = %v", got)
	}
	if got := NewLabelDescriptor().WithLabel("frame").Object()["label"]; got != "frame" {
		t.Errorf("label = %v", got)
	}

	o := NewTextureViewDescriptor().WithFormat(gputypes.TextureFormatRGBA8UnormSrgb).Object()
	if o["format"] != "rgba8unorm-srgb" {
		t.Errorf("format = %v", o["format"])
	}
}

func TestCanvasConfiguration_Object(t *testing.T) {
	cfg := NewCanvasConfiguration(nil, gputypes.TextureFormatBGRA8Unorm)
	if got := cfg.Object().Keys(); !reflect.DeepEqual(got, []string{"device", "format"}) {
		t.Errorf("Keys() = %v", got)
	}
	cfg = cfg.WithFormat(gputypes.TextureFormatRGBA8Unorm).WithAlphaMode(AlphaModePremultiplied)
	o := cfg.Object()
	if o["format"] != "rgba8unorm" || o["alphaMode"] != "premultiplied" {
		t.Errorf("Object() = %v", o)
	}
	if cfg.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format() = %v", cfg.Format())
	}
}
