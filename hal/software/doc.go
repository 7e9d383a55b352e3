// Package software is an in-memory WebGPU platform.
//
// It keeps real bytes for buffers and canvas textures, validates mapping,
// copies and draws the way a native implementation does, and compiles WGSL
// with gogpu/naga to check entry points. Copies and render-pass load/clear/
// store operations run at Queue.Submit; draws are validated and counted but
// not rasterized.
//
// The platform registers itself as "software":
//
//	import _ "github.com/gogpu/gpubind/hal/software"
//
//	platform, err := hal.Lookup("software")
//
// Tests usually construct one directly with New so they can read Stats and
// canvas pixels afterwards.
package software
