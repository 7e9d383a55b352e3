//go:build js && wasm

// Package browser is the WebGPU platform of a js/wasm build. It forwards
// every call to navigator.gpu through syscall/js.
//
// Argument objects are converted to JavaScript objects with native handles
// swapped for their JavaScript values. Promises are awaited on the calling
// goroutine, so callers must not invoke the platform from inside a
// JavaScript callback.
//
// Mapped ranges are copies: GetMappedRange copies the mapped ArrayBuffer into
// Go memory and Unmap copies write mappings back before unmapping.
//
// Validation errors that WebGPU reports asynchronously through the device's
// uncapturederror event are logged, not returned.
package browser
