// Package gpubind is a typed WebGPU command-recording and resource-lifecycle
// layer.
//
// # Overview
//
// gpubind wraps a native WebGPU surface (a browser's navigator.gpu, the
// gogpu/wgpu Pure Go implementation, or the in-memory software platform)
// behind distinct Go handle types, so a texture view can never be passed
// where a buffer is expected and a finished encoder cannot record again.
// The native layer is reached through the hal package; gpubind never talks
// to a GPU directly.
//
// # Quick Start
//
//	platform, _ := hal.Lookup("software")
//	gpu, _ := gpubind.NewGPU(platform)
//	adapter, _ := gpu.RequestAdapter(ctx)
//	device, _ := adapter.RequestDevice(ctx)
//
//	buf, _ := device.CreateBuffer(
//		gpubind.NewBufferDescriptor(128, gpubind.BufferUsageVertex|gpubind.BufferUsageCopyDst).
//			WithLabel("vertices"))
//
// # Descriptors
//
// Every creation call takes a descriptor built from its required fields and
// refined with With* methods. Descriptors are plain values; Object renders
// them as the camelCase argument object the native API expects
// (mappedAtCreation, shaderLocation, arrayStride, colorAttachments, ...).
// Optional fields that were never set are left out.
//
// # Recording
//
// CommandEncoder, RenderPassEncoder and RenderBundleEncoder are small state
// machines. An encoder is locked while one of its passes is open, a pass
// rejects calls after End, and Finish consumes the encoder. Misuse returns an
// error matching ErrStateMisuse instead of reaching the native layer.
//
// # Errors
//
// Three kinds of error are returned:
//
//   - ErrUnavailable: no platform, adapter or device
//   - *NativeError: the native layer rejected a call; the payload is opaque
//   - ErrStateMisuse: an operation outside its valid window
//
// Context cancellation during adapter, device or map acquisition is returned
// unchanged.
//
// # Logging
//
// gpubind is silent by default. Pass a *slog.Logger to SetLogger to see
// acquisition and submission events; the logger is shared with hal platforms.
package gpubind
