package gpubind

import (
	"errors"
	"testing"

	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gpubind/hal/software"
	"github.com/gogpu/gputypes"
)

type plainCanvas struct{}

func (plainCanvas) Context(string) (hal.CanvasContext, error) { return nil, nil }

func TestNewCanvasContext(t *testing.T) {
	if _, err := NewCanvasContext(nil); !errors.Is(err, ErrUnavailable) {
		t.Errorf("NewCanvasContext(nil) error = %v, want ErrUnavailable", err)
	}
	if _, err := NewCanvasContext(plainCanvas{}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("NewCanvasContext(2d only) error = %v, want ErrUnavailable", err)
	}
	if _, err := NewCanvasContext(software.NewCanvas(2, 2)); err != nil {
		t.Errorf("NewCanvasContext() error = %v", err)
	}
}

func TestCanvasContext_Configure(t *testing.T) {
	_, d := newTestDevice(t)
	ctx, err := NewCanvasContext(software.NewCanvas(2, 2))
	if err != nil {
		t.Fatalf("NewCanvasContext() error = %v", err)
	}

	if _, err := ctx.CurrentTexture(); !errors.Is(err, software.ErrCanvasNotConfigured) {
		t.Errorf("CurrentTexture() before Configure error = %v, want ErrCanvasNotConfigured", err)
	}
	if err := ctx.Configure(NewCanvasConfiguration(nil, gputypes.TextureFormatBGRA8Unorm)); !errors.Is(err, ErrNilHandle) {
		t.Errorf("Configure(nil device) error = %v, want ErrNilHandle", err)
	}
	err = ctx.Configure(NewCanvasConfiguration(d, gputypes.TextureFormatRGBA16Float))
	var native *NativeError
	if !errors.As(err, &native) || native.Op != "configure" {
		t.Errorf("Configure(rgba16float) error = %v, want native configure error", err)
	}
	if ctx.Configured() {
		t.Error("Configured() = true after failed Configure")
	}

	cfg := NewCanvasConfiguration(d, gputypes.TextureFormatRGBA8Unorm).WithAlphaMode(AlphaModeOpaque)
	if err := ctx.Configure(cfg); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if !ctx.Configured() {
		t.Error("Configured() = false")
	}

	tex, err := ctx.CurrentTexture()
	if err != nil {
		t.Fatalf("CurrentTexture() error = %v", err)
	}
	if tex.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format() = %v, want RGBA8Unorm", tex.Format())
	}
	if w, h := tex.Size(); w != 2 || h != 2 {
		t.Errorf("Size() = %dx%d, want 2x2", w, h)
	}

	if _, err := tex.CreateViewWithDescriptor(NewTextureViewDescriptor().WithLabel("v")); err != nil {
		t.Errorf("CreateViewWithDescriptor() error = %v", err)
	}
	tex.Destroy()
	if _, err := tex.CreateView(); !errors.Is(err, software.ErrTextureDestroyed) {
		t.Errorf("CreateView() after Destroy error = %v, want ErrTextureDestroyed", err)
	}
}

func TestCanvasContext_ClearPass(t *testing.T) {
	_, d := newTestDevice(t)
	canvas := software.NewCanvas(2, 2)
	view := frameTarget(t, d, canvas)

	enc, _ := d.CreateCommandEncoder(NewLabelDescriptor())
	pass, err := enc.BeginRenderPass(NewRenderPassDescriptor(
		NewRenderPassColorAttachment(view).ClearByColor(gputypes.Color{R: 1, G: 0, B: 0, A: 1}),
	))
	if err != nil {
		t.Fatalf("BeginRenderPass() error = %v", err)
	}
	if err := pass.End(); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	cb, _ := enc.Finish()
	if err := d.Queue().Submit(cb); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if got := canvas.Pixel(1, 1); got != [4]byte{255, 0, 0, 255} {
		t.Errorf("Pixel(1, 1) = %v, want opaque red", got)
	}
}
