package session

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/gpubind"
	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gpubind/hal/software"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// noWebGPU is a canvas without a webgpu context.
type noWebGPU struct{}

func (noWebGPU) Context(string) (hal.CanvasContext, error) { return nil, nil }

func TestRun_Triangle(t *testing.T) {
	platform := software.New()
	canvas := software.NewCanvas(8, 8)

	s, err := Run(context.Background(), platform, canvas)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	defer s.Close()

	if s.State() != StateSubmitted {
		t.Errorf("State() = %v, want %v", s.State(), StateSubmitted)
	}
	if s.Submitted() != 2 {
		t.Errorf("Submitted() = %d, want 2 (upload + frame)", s.Submitted())
	}

	want := software.Stats{
		Submits:        2,
		CommandBuffers: 2,
		Copies:         1,
		CopiedBytes:    24,
		RenderPasses:   1,
		Draws:          1,
		Vertices:       3,
	}
	if got := platform.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}

	if got := canvas.Pixel(4, 4); got != [4]byte{0, 0, 0, 255} {
		t.Errorf("Pixel(4, 4) = %v, want opaque black", got)
	}

	if got := s.Pipeline().ColorTargets(); len(got) != 1 || got[0] != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("ColorTargets() = %v, want [BGRA8Unorm]", got)
	}
	if got := s.VertexBuffer().Size(); got != 128 {
		t.Errorf("VertexBuffer().Size() = %d, want 128", got)
	}
}

func TestRun_LogLines(t *testing.T) {
	var buf bytes.Buffer
	gpubind.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { gpubind.SetLogger(nil) })

	platform := software.New(software.WithFeatures("timestamp-query", "depth-clip-control"))
	if _, err := Run(context.Background(), platform, software.NewCanvas(2, 2)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out := buf.String()
	for _, line := range []string{
		"hello from gpubind",
		"webgpu is available on this platform",
		"name=depth-clip-control",
		"name=timestamp-query",
		"canvas was configured with format bgra8unorm",
	} {
		if !strings.Contains(out, line) {
			t.Errorf("log output missing %q\n%s", line, out)
		}
	}
	// Features are logged sorted.
	if strings.Index(out, "depth-clip-control") > strings.Index(out, "timestamp-query") {
		t.Error("features not logged in sorted order")
	}
}

func TestRun_Failures(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name     string
		ctx      context.Context
		platform hal.Platform
		canvas   hal.Canvas
		opts     []Option
		reached  State
		step     string
		wantErr  error
	}{
		{
			name:     "nil platform",
			ctx:      context.Background(),
			platform: nil,
			canvas:   software.NewCanvas(1, 1),
			reached:  StateStart,
			step:     "open platform",
			wantErr:  gpubind.ErrUnavailable,
		},
		{
			name:     "no adapter",
			ctx:      context.Background(),
			platform: software.New(software.WithoutAdapter()),
			canvas:   software.NewCanvas(1, 1),
			reached:  StateStart,
			step:     "request adapter",
			wantErr:  gpubind.ErrUnavailable,
		},
		{
			name:     "canceled",
			ctx:      canceled,
			platform: software.New(),
			canvas:   software.NewCanvas(1, 1),
			reached:  StateStart,
			step:     "request adapter",
			wantErr:  context.Canceled,
		},
		{
			name:     "canvas without webgpu",
			ctx:      context.Background(),
			platform: software.New(),
			canvas:   noWebGPU{},
			reached:  StateAdapterRequested,
			step:     "get canvas context",
			wantErr:  gpubind.ErrUnavailable,
		},
		{
			name:     "missing feature",
			ctx:      context.Background(),
			platform: software.New(),
			canvas:   software.NewCanvas(1, 1),
			opts:     []Option{WithDeviceOptions(gpubind.WithRequiredFeatures("shader-f16"))},
			reached:  StateAdapterRequested,
			step:     "request device",
			wantErr:  software.ErrMissingFeature,
		},
		{
			name:     "unsupported canvas format",
			ctx:      context.Background(),
			platform: software.New(software.WithPreferredFormat(gputypes.TextureFormatRGBA16Float)),
			canvas:   software.NewCanvas(1, 1),
			reached:  StateDeviceRequested,
			step:     "configure canvas",
			wantErr:  software.ErrInvalidDescriptor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Run(tt.ctx, tt.platform, tt.canvas, tt.opts...)
			if s != nil {
				t.Errorf("Run() session = %v, want nil", s)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}
			var se *Error
			if !errors.As(err, &se) {
				t.Fatalf("Run() error %T is not *Error", err)
			}
			if se.Reached != tt.reached || se.Step != tt.step {
				t.Errorf("Error = {%v %q}, want {%v %q}", se.Reached, se.Step, tt.reached, tt.step)
			}
		})
	}
}

func TestRun_NativeErrorsAreTyped(t *testing.T) {
	_, err := Run(context.Background(), software.New(), software.NewCanvas(1, 1),
		WithDeviceOptions(gpubind.WithRequiredFeatures("shader-f16")))

	var ne *gpubind.NativeError
	if !errors.As(err, &ne) {
		t.Fatalf("Run() error = %v, want *gpubind.NativeError inside", err)
	}
	if ne.Op != "requestDevice" {
		t.Errorf("NativeError.Op = %q, want requestDevice", ne.Op)
	}
}

func TestSession_RenderFrame(t *testing.T) {
	platform := software.New()
	canvas := software.NewCanvas(4, 4)

	s, err := Run(context.Background(), platform, canvas, WithClearColor([4]float64{1, 0, 0, 1}))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := canvas.Pixel(0, 0); got != [4]byte{255, 0, 0, 255} {
		t.Errorf("Pixel(0, 0) = %v, want red", got)
	}

	for range 3 {
		if err := s.RenderFrame(); err != nil {
			t.Fatalf("RenderFrame() error = %v", err)
		}
	}
	if s.Submitted() != 5 {
		t.Errorf("Submitted() = %d, want 5", s.Submitted())
	}
	if st := platform.Stats(); st.Draws != 4 || st.RenderPasses != 4 {
		t.Errorf("Stats() = %+v", st)
	}

	s.Close()
	err = s.RenderFrame()
	var se *Error
	if !errors.As(err, &se) || se.Reached != StateSubmitted {
		t.Errorf("RenderFrame() after Close error = %v", err)
	}
}

func TestSession_DeviceProvider(t *testing.T) {
	s, err := Run(context.Background(), software.New(), software.NewCanvas(1, 1))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	defer s.Close()

	var p gpucontext.DeviceProvider = s
	if p.SurfaceFormat() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("SurfaceFormat() = %v", p.SurfaceFormat())
	}
	if info := p.AdapterInfo(); info.Type != gpucontext.AdapterTypeSoftware {
		t.Errorf("AdapterInfo() = %+v", info)
	}
	if _, ok := p.Device().(*gpubind.Device); !ok {
		t.Errorf("Device() = %T, want *gpubind.Device", p.Device())
	}
	if _, ok := p.Queue().(*gpubind.Queue); !ok {
		t.Errorf("Queue() = %T, want *gpubind.Queue", p.Queue())
	}
	if _, ok := p.Adapter().(*gpubind.Adapter); !ok {
		t.Errorf("Adapter() = %T, want *gpubind.Adapter", p.Adapter())
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateStart, "Start"},
		{StateAdapterRequested, "AdapterRequested"},
		{StateDeviceRequested, "DeviceRequested"},
		{StateCanvasConfigured, "CanvasConfigured"},
		{StateResourcesCreated, "ResourcesCreated"},
		{StateCommandsRecorded, "CommandsRecorded"},
		{StateSubmitted, "Submitted"},
		{State(42), "Unknown(42)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.state), got, tt.want)
		}
	}
}
