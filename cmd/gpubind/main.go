// Command gpubind drives the gpubind WebGPU bindings from the command line.
//
// It renders the triangle demo headless on a registered platform, lists
// platforms and adapter features, and validates WGSL sources.
//
// Usage:
//
//	gpubind run --platform software --out triangle.png
//	gpubind backends
//	gpubind features --platform wgpu
//	gpubind validate shader.wgsl
//
// Every flag can also be set in a config file (--config) or through a
// GPUBIND_* environment variable, for example GPUBIND_LOG_LEVEL=debug.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
