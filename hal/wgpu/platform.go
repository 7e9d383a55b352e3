//go:build !(js && wasm)

package wgpu

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	gpu "github.com/gogpu/wgpu"

	// Registers the HAL backends, the software rasterizer included.
	_ "github.com/gogpu/wgpu/hal/allbackends"
)

// Name is the registry name of the native platform.
const Name = "wgpu"

func init() {
	hal.Register(Name, func() hal.Platform { return New() })
}

// Platform wraps a gogpu/wgpu instance. The instance is created on the first
// RequestAdapter.
type Platform struct {
	backends gputypes.Backends
	format   gputypes.TextureFormat

	once     sync.Once
	instance *gpu.Instance
	err      error
}

// Option configures a Platform.
type Option func(*Platform)

// WithBackends restricts adapter enumeration to the given backends.
func WithBackends(b gputypes.Backends) Option {
	return func(p *Platform) {
		p.backends = b
	}
}

// WithPreferredFormat sets the canvas format reported by PreferredCanvasFormat.
func WithPreferredFormat(format gputypes.TextureFormat) Option {
	return func(p *Platform) {
		p.format = format
	}
}

// New creates a native platform using every registered backend.
func New(opts ...Option) *Platform {
	p := &Platform{
		backends: gpu.BackendsAll,
		format:   gputypes.TextureFormatRGBA8Unorm,
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

// NewCanvas implements hal.CanvasFactory.
func (p *Platform) NewCanvas(width, height uint32) hal.Canvas {
	return NewCanvas(width, height)
}

func (p *Platform) init() error {
	p.once.Do(func() {
		gpu.SetLogger(hal.Logger())
		p.instance, p.err = gpu.CreateInstance(&gpu.InstanceDescriptor{Backends: p.backends})
	})
	return p.err
}

// Release releases the underlying instance. Adapters and devices obtained
// earlier must be destroyed first.
func (p *Platform) Release() {
	if p.instance != nil {
		p.instance.Release()
	}
}

// RequestAdapter implements hal.Platform. Enumeration failures are reported
// as "no adapter".
func (p *Platform) RequestAdapter(ctx context.Context, opts hal.Object) (hal.Adapter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var o hal.AdapterOptions
	if err := hal.Decode(opts, &o); err != nil {
		return nil, err
	}
	pref, err := parsePowerPreference(o.PowerPreference)
	if err != nil {
		return nil, err
	}
	if err := p.init(); err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}
	a, err := p.instance.RequestAdapter(&gpu.RequestAdapterOptions{
		PowerPreference:      pref,
		ForceFallbackAdapter: o.ForceFallbackAdapter,
	})
	if errors.Is(err, gpu.ErrReleased) {
		return nil, err
	}
	if err != nil {
		hal.Logger().Debug("wgpu: no adapter", "error", err)
		return nil, nil
	}
	return &adapter{adapter: a}, nil
}

func parsePowerPreference(s string) (gputypes.PowerPreference, error) {
	switch s {
	case "":
		return gputypes.PowerPreferenceNone, nil
	case "low-power":
		return gputypes.PowerPreferenceLowPower, nil
	case "high-performance":
		return gputypes.PowerPreferenceHighPerformance, nil
	default:
		return 0, fmt.Errorf("%w: power preference %q", ErrInvalidDescriptor, s)
	}
}

type adapter struct {
	adapter *gpu.Adapter
}

func (a *adapter) Features() []string {
	return FeatureNames(a.adapter.Features())
}

func (a *adapter) Info() gpucontext.AdapterInfo {
	info := a.adapter.Info()
	return gpucontext.AdapterInfo{Name: info.Name, Type: adapterType(info.DeviceType)}
}

// packedTextureCopies reports whether the adapter is gogpu's CPU renderer,
// whose texture-to-buffer copies ignore BytesPerRow and pack rows tightly.
func packedTextureCopies(info gpu.AdapterInfo) bool {
	return info.Backend == gputypes.BackendEmpty && info.DeviceType == gputypes.DeviceTypeCPU
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}

func (a *adapter) RequestDevice(ctx context.Context, desc hal.Object) (hal.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var d hal.DeviceDescriptor
	if err := hal.Decode(desc, &d); err != nil {
		return nil, err
	}
	required, err := ParseFeatures(d.RequiredFeatures)
	if err != nil {
		return nil, err
	}
	if have := a.adapter.Features(); !have.ContainsAll(required) {
		missing := FeatureNames(required &^ have)
		return nil, fmt.Errorf("%w: %v", ErrMissingFeature, missing)
	}
	dev, err := a.adapter.RequestDevice(&gpu.DeviceDescriptor{
		Label:            d.Label,
		RequiredFeatures: required,
	})
	if err != nil {
		return nil, err
	}
	hal.Logger().Debug("wgpu: device created", "label", d.Label, "adapter", a.adapter.Info().Name)
	result := &device{device: dev, label: d.Label, packedCopies: packedTextureCopies(a.adapter.Info())}
	result.queue = &queue{device: result}
	return result, nil
}
