//go:build !(js && wasm)

package main

import (
	_ "github.com/gogpu/gpubind/hal/software"
	_ "github.com/gogpu/gpubind/hal/wgpu"
)
