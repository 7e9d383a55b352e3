package session

import "github.com/gogpu/gpubind"

type options struct {
	clear          [4]float64
	adapterOptions []gpubind.AdapterOption
	deviceOptions  []gpubind.DeviceOption
}

func defaultOptions() options {
	return options{clear: [4]float64{0, 0, 0, 1}}
}

// Option configures a session.
type Option func(*options)

// WithClearColor sets the [r, g, b, a] color each frame is cleared to.
// The default is opaque black.
func WithClearColor(rgba [4]float64) Option {
	return func(o *options) {
		o.clear = rgba
	}
}

// WithAdapterOptions passes options to GPU.RequestAdapter.
func WithAdapterOptions(opts ...gpubind.AdapterOption) Option {
	return func(o *options) {
		o.adapterOptions = append(o.adapterOptions, opts...)
	}
}

// WithDeviceOptions passes options to Adapter.RequestDevice.
func WithDeviceOptions(opts ...gpubind.DeviceOption) Option {
	return func(o *options) {
		o.deviceOptions = append(o.deviceOptions, opts...)
	}
}
