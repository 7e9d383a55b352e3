//go:build !(js && wasm)

// Package wgpu is the native WebGPU platform, backed by the pure Go
// github.com/gogpu/wgpu implementation.
//
// Adapters come from every HAL backend compiled into the binary. The
// software rasterizer is always registered, so a platform can render
// headless on machines without a GPU. Canvases are offscreen textures
// that can be read back with Snapshot.
//
// The platform registers itself as "wgpu":
//
//	import _ "github.com/gogpu/gpubind/hal/wgpu"
//
//	platform, err := hal.Lookup("wgpu")
//
// Render bundles have no native counterpart in gogpu/wgpu. Bundle encoders
// record their commands and ExecuteBundles replays them into the pass.
package wgpu
