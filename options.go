package gpubind

import (
	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gputypes"
)

// AdapterOption configures GPU.RequestAdapter.
//
// Example:
//
//	adapter, err := gpu.RequestAdapter(ctx,
//	    gpubind.WithPowerPreference(gputypes.PowerPreferenceHighPerformance))
type AdapterOption func(*adapterOptions)

// adapterOptions holds optional configuration for adapter selection.
type adapterOptions struct {
	powerPreference gputypes.PowerPreference
	forceFallback   bool
}

// object returns the requestAdapter argument, omitting defaults.
func (o adapterOptions) object() hal.Object {
	obj := hal.Object{}
	switch o.powerPreference {
	case gputypes.PowerPreferenceLowPower:
		obj["powerPreference"] = "low-power"
	case gputypes.PowerPreferenceHighPerformance:
		obj["powerPreference"] = "high-performance"
	}
	if o.forceFallback {
		obj["forceFallbackAdapter"] = true
	}
	return obj
}

// WithPowerPreference asks for a low-power or high-performance adapter.
// PowerPreferenceNone leaves the choice to the platform.
func WithPowerPreference(p gputypes.PowerPreference) AdapterOption {
	return func(o *adapterOptions) {
		o.powerPreference = p
	}
}

// WithForceFallbackAdapter asks for a software fallback adapter.
func WithForceFallbackAdapter(force bool) AdapterOption {
	return func(o *adapterOptions) {
		o.forceFallback = force
	}
}

// DeviceOption configures Adapter.RequestDevice.
type DeviceOption func(*deviceOptions)

// deviceOptions holds optional configuration for device creation.
type deviceOptions struct {
	label    string
	features []string
}

// object returns the requestDevice argument, omitting defaults.
func (o deviceOptions) object() hal.Object {
	obj := hal.Object{}
	if o.label != "" {
		obj["label"] = o.label
	}
	if len(o.features) > 0 {
		features := make([]any, len(o.features))
		for i, f := range o.features {
			features[i] = f
		}
		obj["requiredFeatures"] = features
	}
	return obj
}

// WithDeviceLabel sets the device debug label.
func WithDeviceLabel(label string) DeviceOption {
	return func(o *deviceOptions) {
		o.label = label
	}
}

// WithRequiredFeatures requests adapter features by WebGPU name.
// Device creation fails natively if the adapter lacks one of them.
func WithRequiredFeatures(names ...string) DeviceOption {
	return func(o *deviceOptions) {
		o.features = append(o.features, names...)
	}
}
