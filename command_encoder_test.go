package gpubind

import (
	"errors"
	"testing"

	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gpubind/hal/software"
)

func TestCommandEncoderState_String(t *testing.T) {
	tests := []struct {
		state CommandEncoderState
		want  string
	}{
		{CommandEncoderStateRecording, "Recording"},
		{CommandEncoderStateLocked, "Locked"},
		{CommandEncoderStateFinished, "Finished"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestCommandEncoder_Lifecycle(t *testing.T) {
	_, d := newTestDevice(t)
	view := frameTarget(t, d, software.NewCanvas(4, 4))
	src := mustBuffer(t, d, NewBufferDescriptor(16, BufferUsageCopySrc))
	dst := mustBuffer(t, d, NewBufferDescriptor(16, BufferUsageCopyDst))

	enc, err := d.CreateCommandEncoder(NewLabelDescriptor().WithLabel("frame"))
	if err != nil {
		t.Fatalf("CreateCommandEncoder() error = %v", err)
	}
	if enc.Label() != "frame" || enc.State() != CommandEncoderStateRecording {
		t.Fatalf("encoder = %q %v", enc.Label(), enc.State())
	}

	pass, err := enc.BeginRenderPass(NewRenderPassDescriptor(NewRenderPassColorAttachment(view)))
	if err != nil {
		t.Fatalf("BeginRenderPass() error = %v", err)
	}
	if enc.State() != CommandEncoderStateLocked {
		t.Errorf("State() = %v, want Locked", enc.State())
	}

	if err := enc.CopyBufferToBuffer(src, 0, dst, 0, 16); !errors.Is(err, ErrEncoderLocked) {
		t.Errorf("CopyBufferToBuffer() while locked error = %v, want ErrEncoderLocked", err)
	}
	if _, err := enc.BeginRenderPass(NewRenderPassDescriptor(NewRenderPassColorAttachment(view))); !errors.Is(err, ErrEncoderLocked) {
		t.Errorf("BeginRenderPass() while locked error = %v, want ErrEncoderLocked", err)
	}
	if _, err := enc.Finish(); !errors.Is(err, ErrEncoderLocked) {
		t.Errorf("Finish() while locked error = %v, want ErrEncoderLocked", err)
	}

	if err := pass.End(); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if enc.State() != CommandEncoderStateRecording {
		t.Errorf("State() after End = %v, want Recording", enc.State())
	}
	if err := enc.CopyBufferToBuffer(src, 0, dst, 0, 16); err != nil {
		t.Errorf("CopyBufferToBuffer() after End error = %v", err)
	}

	cb, err := enc.FinishWithDescriptor(NewLabelDescriptor().WithLabel("frame commands"))
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if cb.Label() != "frame commands" || cb.Submitted() {
		t.Errorf("command buffer = %q submitted=%v", cb.Label(), cb.Submitted())
	}
	if enc.State() != CommandEncoderStateFinished {
		t.Errorf("State() = %v, want Finished", enc.State())
	}

	for name, err := range map[string]error{
		"copy":   enc.CopyBufferToBuffer(src, 0, dst, 0, 16),
		"finish": func() error { _, err := enc.Finish(); return err }(),
		"pass": func() error {
			_, err := enc.BeginRenderPass(NewRenderPassDescriptor(NewRenderPassColorAttachment(view)))
			return err
		}(),
	} {
		if !errors.Is(err, ErrEncoderFinished) || !errors.Is(err, ErrStateMisuse) {
			t.Errorf("%s after Finish error = %v, want ErrEncoderFinished", name, err)
		}
	}
}

// rejectingFinish is a native encoder whose Finish always fails.
type rejectingFinish struct{ hal.CommandEncoder }

func (rejectingFinish) Finish(hal.Object) (hal.CommandBuffer, error) {
	return nil, errors.New("encoder is invalid")
}

func TestCommandEncoder_FailedFinishConsumes(t *testing.T) {
	_, d := newTestDevice(t)
	src := mustBuffer(t, d, NewBufferDescriptor(16, BufferUsageCopySrc))
	dst := mustBuffer(t, d, NewBufferDescriptor(16, BufferUsageCopyDst))
	enc, err := d.CreateCommandEncoder(NewLabelDescriptor())
	if err != nil {
		t.Fatalf("CreateCommandEncoder() error = %v", err)
	}
	enc.raw = rejectingFinish{enc.raw}

	_, err = enc.Finish()
	var native *NativeError
	if !errors.As(err, &native) {
		t.Fatalf("Finish() error = %v, want *NativeError", err)
	}
	if enc.State() != CommandEncoderStateFinished {
		t.Errorf("State() after failed Finish = %v, want Finished", enc.State())
	}
	if err := enc.CopyBufferToBuffer(src, 0, dst, 0, 16); !errors.Is(err, ErrEncoderFinished) {
		t.Errorf("CopyBufferToBuffer() after failed Finish error = %v, want ErrEncoderFinished", err)
	}
	if _, err := enc.Finish(); !errors.Is(err, ErrEncoderFinished) {
		t.Errorf("second Finish() error = %v, want ErrEncoderFinished", err)
	}
}

func TestCommandEncoder_CopyErrors(t *testing.T) {
	_, d := newTestDevice(t)
	src := mustBuffer(t, d, NewBufferDescriptor(16, BufferUsageCopySrc))
	dst := mustBuffer(t, d, NewBufferDescriptor(16, BufferUsageCopyDst))
	enc, _ := d.CreateCommandEncoder(NewLabelDescriptor())

	tests := []struct {
		name    string
		src     *Buffer
		dst     *Buffer
		dstOff  uint64
		size    uint64
		wantErr error
	}{
		{"nil source", nil, dst, 0, 4, ErrNilHandle},
		{"nil destination", src, nil, 0, 4, ErrNilHandle},
		{"out of bounds", src, dst, 8, 16, software.ErrCopyRangeOutOfBounds},
		{"unaligned size", src, dst, 0, 3, software.ErrCopySizeNotAligned},
		{"wrong usage", dst, src, 0, 4, software.ErrUsageMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := enc.CopyBufferToBuffer(tt.src, 0, tt.dst, tt.dstOff, tt.size)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CopyBufferToBuffer() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if enc.State() != CommandEncoderStateRecording {
		t.Errorf("State() = %v, want Recording after rejected copies", enc.State())
	}
}

// =============================================================================
// Render Pass Tests
// =============================================================================

func TestRenderPassEncoder_Draw(t *testing.T) {
	platform, d := newTestDevice(t)
	view := frameTarget(t, d, software.NewCanvas(4, 4))
	pipeline := testPipeline(t, d)
	vertices := mustBuffer(t, d, NewBufferDescriptor(24, BufferUsageVertex))

	enc, _ := d.CreateCommandEncoder(NewLabelDescriptor())
	pass, err := enc.BeginRenderPass(NewRenderPassDescriptor(
		NewRenderPassColorAttachment(view).ClearByArray([4]float64{0, 0, 0, 1}),
	).WithLabel("main"))
	if err != nil {
		t.Fatalf("BeginRenderPass() error = %v", err)
	}
	if pass.Label() != "main" {
		t.Errorf("Label() = %q, want main", pass.Label())
	}

	if err := pass.Draw(3, 1, 0, 0); !errors.Is(err, software.ErrNoPipeline) {
		t.Errorf("Draw() without pipeline error = %v, want ErrNoPipeline", err)
	}
	if err := pass.SetPipeline(pipeline); err != nil {
		t.Fatalf("SetPipeline() error = %v", err)
	}
	if err := pass.Draw(3, 1, 0, 0); !errors.Is(err, software.ErrVertexBufferMissing) {
		t.Errorf("Draw() without vertex buffer error = %v, want ErrVertexBufferMissing", err)
	}
	if err := pass.SetVertexBuffer(0, vertices, 0, WholeSize); err != nil {
		t.Fatalf("SetVertexBuffer() error = %v", err)
	}
	if err := pass.SetViewport(0, 0, 4, 4, 0, 1); err != nil {
		t.Errorf("SetViewport() error = %v", err)
	}
	if err := pass.SetScissorRect(0, 0, 4, 4); err != nil {
		t.Errorf("SetScissorRect() error = %v", err)
	}
	if err := pass.Draw(4, 1, 0, 0); !errors.Is(err, software.ErrVertexRangeOutOfBounds) {
		t.Errorf("Draw(4) error = %v, want ErrVertexRangeOutOfBounds", err)
	}
	if err := pass.Draw(3, 1, 0, 0); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if err := pass.End(); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	cb, err := enc.Finish()
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if err := d.Queue().Submit(cb); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	stats := platform.Stats()
	if stats.RenderPasses != 1 || stats.Draws != 1 || stats.Vertices != 3 {
		t.Errorf("Stats() = %+v, want 1 pass, 1 draw, 3 vertices", stats)
	}
}

func TestRenderPassEncoder_AfterEnd(t *testing.T) {
	_, d := newTestDevice(t)
	view := frameTarget(t, d, software.NewCanvas(4, 4))
	pipeline := testPipeline(t, d)
	vertices := mustBuffer(t, d, NewBufferDescriptor(24, BufferUsageVertex))

	enc, _ := d.CreateCommandEncoder(NewLabelDescriptor())
	pass, _ := enc.BeginRenderPass(NewRenderPassDescriptor(NewRenderPassColorAttachment(view)))
	if err := pass.End(); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if !pass.Ended() {
		t.Error("Ended() = false after End")
	}

	calls := map[string]func() error{
		"End":             pass.End,
		"SetPipeline":     func() error { return pass.SetPipeline(pipeline) },
		"SetVertexBuffer": func() error { return pass.SetVertexBuffer(0, vertices, 0, WholeSize) },
		"SetViewport":     func() error { return pass.SetViewport(0, 0, 1, 1, 0, 1) },
		"SetScissorRect":  func() error { return pass.SetScissorRect(0, 0, 1, 1) },
		"Draw":            func() error { return pass.Draw(3, 1, 0, 0) },
		"ExecuteBundles":  func() error { return pass.ExecuteBundles() },
		"nil pipeline":    func() error { return pass.SetPipeline(nil) },
	}
	for name, call := range calls {
		if err := call(); !errors.Is(err, ErrPassEnded) {
			t.Errorf("%s after End error = %v, want ErrPassEnded", name, err)
		}
	}
	if enc.State() != CommandEncoderStateRecording {
		t.Errorf("State() = %v, want Recording", enc.State())
	}
}

func TestRenderPassEncoder_NilHandles(t *testing.T) {
	_, d := newTestDevice(t)
	view := frameTarget(t, d, software.NewCanvas(4, 4))
	enc, _ := d.CreateCommandEncoder(NewLabelDescriptor())
	pass, _ := enc.BeginRenderPass(NewRenderPassDescriptor(NewRenderPassColorAttachment(view)))

	if err := pass.SetPipeline(nil); !errors.Is(err, ErrNilHandle) {
		t.Errorf("SetPipeline(nil) error = %v, want ErrNilHandle", err)
	}
	if err := pass.SetVertexBuffer(0, nil, 0, WholeSize); !errors.Is(err, ErrNilHandle) {
		t.Errorf("SetVertexBuffer(nil) error = %v, want ErrNilHandle", err)
	}
	if err := pass.ExecuteBundles(nil); !errors.Is(err, ErrNilHandle) {
		t.Errorf("ExecuteBundles(nil) error = %v, want ErrNilHandle", err)
	}
}

// =============================================================================
// Render Bundle Tests
// =============================================================================

func TestRenderBundleEncoder(t *testing.T) {
	platform, d := newTestDevice(t)
	view := frameTarget(t, d, software.NewCanvas(4, 4))
	pipeline := testPipeline(t, d)
	vertices := mustBuffer(t, d, NewBufferDescriptor(24, BufferUsageVertex))

	be, err := d.CreateRenderBundleEncoder(NewRenderBundleEncoderDescriptor(pipeline.ColorTargets()...).WithLabel("tri"))
	if err != nil {
		t.Fatalf("CreateRenderBundleEncoder() error = %v", err)
	}
	if be.Label() != "tri" {
		t.Errorf("Label() = %q, want tri", be.Label())
	}
	if err := be.SetPipeline(pipeline); err != nil {
		t.Fatalf("SetPipeline() error = %v", err)
	}
	if err := be.SetVertexBuffer(0, vertices, 0, 24); err != nil {
		t.Fatalf("SetVertexBuffer() error = %v", err)
	}
	if err := be.Draw(3, 1, 0, 0); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	bundle, err := be.FinishWithDescriptor(NewLabelDescriptor().WithLabel("tri bundle"))
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if bundle.Label() != "tri bundle" {
		t.Errorf("bundle Label() = %q", bundle.Label())
	}

	if err := be.Draw(3, 1, 0, 0); !errors.Is(err, ErrBundleFinished) {
		t.Errorf("Draw() after Finish error = %v, want ErrBundleFinished", err)
	}
	if _, err := be.Finish(); !errors.Is(err, ErrBundleFinished) {
		t.Errorf("Finish() twice error = %v, want ErrBundleFinished", err)
	}

	// A bundle can be executed by any number of passes.
	enc, _ := d.CreateCommandEncoder(NewLabelDescriptor())
	for range 2 {
		pass, err := enc.BeginRenderPass(NewRenderPassDescriptor(NewRenderPassColorAttachment(view)))
		if err != nil {
			t.Fatalf("BeginRenderPass() error = %v", err)
		}
		if err := pass.ExecuteBundles(bundle, bundle); err != nil {
			t.Fatalf("ExecuteBundles() error = %v", err)
		}
		if err := pass.End(); err != nil {
			t.Fatalf("End() error = %v", err)
		}
	}
	cb, _ := enc.Finish()
	if err := d.Queue().Submit(cb); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if got := platform.Stats(); got.Draws != 4 || got.Vertices != 12 {
		t.Errorf("Stats() = %+v, want 4 draws and 12 vertices", got)
	}
}
