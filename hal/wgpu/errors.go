//go:build !(js && wasm)

package wgpu

import "errors"

var (
	// ErrDeviceLost is returned by calls on a destroyed device.
	ErrDeviceLost = errors.New("wgpu: device lost")

	// ErrMissingFeature is returned when a device requests a feature the
	// adapter lacks.
	ErrMissingFeature = errors.New("wgpu: feature not supported by adapter")

	// ErrUnknownFeature is returned for feature names this platform cannot map.
	ErrUnknownFeature = errors.New("wgpu: unknown feature")

	// ErrInvalidDescriptor is returned for malformed descriptor values.
	ErrInvalidDescriptor = errors.New("wgpu: invalid descriptor")

	// ErrVertexRangeOutOfBounds is returned when a vertex binding exceeds its buffer.
	ErrVertexRangeOutOfBounds = errors.New("wgpu: vertex buffer range out of bounds")

	// ErrBundleFinished is returned when recording into a finished bundle.
	ErrBundleFinished = errors.New("wgpu: render bundle already finished")

	// ErrCanvasNotConfigured is returned by CurrentTexture before Configure.
	ErrCanvasNotConfigured = errors.New("wgpu: canvas context not configured")

	// ErrUnsupportedCanvasFormat is returned for formats a canvas cannot present.
	ErrUnsupportedCanvasFormat = errors.New("wgpu: unsupported canvas format")
)
