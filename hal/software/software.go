package software

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Name is the registry name of the software platform.
const Name = "software"

// AdapterName is reported by Adapter.Info.
const AdapterName = "gpubind software"

func init() {
	hal.Register(Name, func() hal.Platform { return New() })
}

// Platform is the in-memory WebGPU platform.
type Platform struct {
	features  []string
	format    gputypes.TextureFormat
	noAdapter bool

	submits        atomic.Uint64
	commandBuffers atomic.Uint64
	copies         atomic.Uint64
	copiedBytes    atomic.Uint64
	passes         atomic.Uint64
	draws          atomic.Uint64
	vertices       atomic.Uint64
}

// Option configures a Platform.
type Option func(*Platform)

// WithFeatures sets the feature names the adapter reports.
func WithFeatures(names ...string) Option {
	return func(p *Platform) {
		p.features = slices.Clone(names)
	}
}

// WithPreferredFormat sets the canvas format reported by PreferredCanvasFormat.
func WithPreferredFormat(format gputypes.TextureFormat) Option {
	return func(p *Platform) {
		p.format = format
	}
}

// WithoutAdapter makes RequestAdapter find nothing, like a browser with
// WebGPU exposed but no usable GPU.
func WithoutAdapter() Option {
	return func(p *Platform) {
		p.noAdapter = true
	}
}

// New creates a software platform. Without options it prefers bgra8unorm and
// reports the float32-filterable feature.
func New(opts ...Option) *Platform {
	p := &Platform{
		features: []string{"float32-filterable"},
		format:   gputypes.TextureFormatBGRA8Unorm,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements hal.Platform.
func (p *Platform) Name() string { return Name }

// PreferredCanvasFormat implements hal.Platform.
func (p *Platform) PreferredCanvasFormat() string {
	return hal.TextureFormatName(p.format)
}

// RequestAdapter implements hal.Platform.
func (p *Platform) RequestAdapter(ctx context.Context, opts hal.Object) (hal.Adapter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var o hal.AdapterOptions
	if err := hal.Decode(opts, &o); err != nil {
		return nil, err
	}
	switch o.PowerPreference {
	case "", "low-power", "high-performance":
	default:
		return nil, fmt.Errorf("%w: power preference %q", ErrInvalidDescriptor, o.PowerPreference)
	}
	if p.noAdapter {
		return nil, nil
	}
	hal.Logger().Debug("software: adapter selected", "powerPreference", o.PowerPreference)
	return &adapter{platform: p}, nil
}

// NewCanvas implements hal.CanvasFactory.
func (p *Platform) NewCanvas(width, height uint32) hal.Canvas {
	return NewCanvas(width, height)
}

// Stats is a snapshot of the work a platform has executed.
type Stats struct {
	Submits        uint64
	CommandBuffers uint64
	Copies         uint64
	CopiedBytes    uint64
	RenderPasses   uint64
	Draws          uint64
	Vertices       uint64
}

// Stats returns the work executed so far by every device of the platform.
func (p *Platform) Stats() Stats {
	return Stats{
		Submits:        p.submits.Load(),
		CommandBuffers: p.commandBuffers.Load(),
		Copies:         p.copies.Load(),
		CopiedBytes:    p.copiedBytes.Load(),
		RenderPasses:   p.passes.Load(),
		Draws:          p.draws.Load(),
		Vertices:       p.vertices.Load(),
	}
}

type adapter struct {
	platform *Platform
}

func (a *adapter) Features() []string {
	return slices.Clone(a.platform.features)
}

func (a *adapter) Info() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: AdapterName, Type: gpucontext.AdapterTypeSoftware}
}

func (a *adapter) RequestDevice(ctx context.Context, desc hal.Object) (hal.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var d hal.DeviceDescriptor
	if err := hal.Decode(desc, &d); err != nil {
		return nil, err
	}
	for _, f := range d.RequiredFeatures {
		if !slices.Contains(a.platform.features, f) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFeature, f)
		}
	}
	dev := &device{platform: a.platform, label: d.Label}
	dev.queue = &queue{device: dev}
	return dev, nil
}
