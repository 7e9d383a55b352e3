// Package hal defines the native layer that the gpubind façade drives.
//
// A native layer is the equivalent of the browser's navigator.gpu object: it
// acquires adapters and devices, creates resources from plain argument objects
// and records commands. Argument objects use the WebGPU JavaScript field names
// (mappedAtCreation, shaderLocation, colorAttachments, ...) so a browser
// implementation can hand them to the JavaScript API unchanged.
//
// Implementations:
//   - hal/software: in-memory platform for tests and headless runs
//   - hal/wgpu: native GPU through github.com/gogpu/wgpu
//   - hal/browser: navigator.gpu through syscall/js (js/wasm only)
//
// Platforms register themselves by name from init functions:
//
//	import _ "github.com/gogpu/gpubind/hal/software"
//
//	p, err := hal.Lookup("software")
package hal
