package gpubind

import (
	"context"
	"fmt"
	"slices"

	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gpucontext"
)

// Adapter is a selected GPU. It is only needed to obtain a Device.
type Adapter struct {
	raw      hal.Adapter
	features []string
	info     gpucontext.AdapterInfo
}

func newAdapter(raw hal.Adapter) *Adapter {
	features := slices.Clone(raw.Features())
	slices.Sort(features)
	return &Adapter{
		raw:      raw,
		features: features,
		info:     raw.Info(),
	}
}

// Features returns the supported feature names in sorted order. The slice
// is a copy.
func (a *Adapter) Features() []string {
	return slices.Clone(a.features)
}

// HasFeature reports whether the adapter supports the named feature.
func (a *Adapter) HasFeature(name string) bool {
	_, found := slices.BinarySearch(a.features, name)
	return found
}

// Info returns the adapter name and type.
func (a *Adapter) Info() gpucontext.AdapterInfo {
	return a.info
}

// RequestDevice acquires the logical device. Like RequestAdapter it blocks
// until the platform answers or ctx is done. A refused request yields
// ErrUnavailable.
func (a *Adapter) RequestDevice(ctx context.Context, opts ...DeviceOption) (*Device, error) {
	var o deviceOptions
	for _, opt := range opts {
		opt(&o)
	}

	raw, err := a.raw.RequestDevice(ctx, o.object())
	if err != nil {
		return nil, acquisitionErr(ctx, "requestDevice", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: adapter returned no device", ErrUnavailable)
	}

	d := newDevice(raw, o.label)
	Logger().Info("gpubind: device acquired", "adapter", a.info.Name, "label", o.label)
	return d, nil
}
