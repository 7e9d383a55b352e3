package gpubind

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gputypes"
)

// GPU is the entry point of the façade, the counterpart of navigator.gpu.
// It wraps an injected platform instead of reading a process-wide global.
type GPU struct {
	platform hal.Platform
}

// NewGPU wraps a platform. A nil platform means the host has no GPU
// capability and yields ErrUnavailable.
func NewGPU(platform hal.Platform) (*GPU, error) {
	if platform == nil {
		return nil, fmt.Errorf("%w: no platform", ErrUnavailable)
	}
	return &GPU{platform: platform}, nil
}

// Platform returns the wrapped platform.
func (g *GPU) Platform() hal.Platform { return g.platform }

// PreferredCanvasFormat returns the swap-chain format canvases should use,
// or TextureFormatUndefined if the platform reports an unknown name.
func (g *GPU) PreferredCanvasFormat() gputypes.TextureFormat {
	f, err := hal.ParseTextureFormat(g.platform.PreferredCanvasFormat())
	if err != nil {
		return gputypes.TextureFormatUndefined
	}
	return f
}

// RequestAdapter acquires an adapter. It blocks until the platform answers
// or ctx is done; a done context abandons the wait but cannot abort the
// platform's own request. No adapter yields ErrUnavailable.
func (g *GPU) RequestAdapter(ctx context.Context, opts ...AdapterOption) (*Adapter, error) {
	var o adapterOptions
	for _, opt := range opts {
		opt(&o)
	}

	raw, err := g.platform.RequestAdapter(ctx, o.object())
	if err != nil {
		return nil, acquisitionErr(ctx, "requestAdapter", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: no adapter found", ErrUnavailable)
	}

	a := newAdapter(raw)
	Logger().Info("gpubind: adapter acquired",
		"platform", g.platform.Name(),
		"adapter", a.info.Name,
		"features", len(a.features))
	return a, nil
}

// acquisitionErr classifies an error from an asynchronous acquisition.
// Context errors and unavailability pass through; anything else is native.
func acquisitionErr(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return err
	}
	if errors.Is(err, ErrUnavailable) {
		return err
	}
	return nativeErr(op, err)
}
