package gpubind

import (
	"fmt"

	"github.com/gogpu/gpubind/hal"
)

// CanvasContext is the "webgpu" context of a canvas surface.
type CanvasContext struct {
	raw    hal.CanvasContext
	config *CanvasConfiguration
}

// NewCanvasContext obtains the WebGPU context of canvas. A canvas without
// WebGPU support yields ErrUnavailable.
func NewCanvasContext(canvas hal.Canvas) (*CanvasContext, error) {
	if canvas == nil {
		return nil, fmt.Errorf("%w: no canvas", ErrUnavailable)
	}
	raw, err := canvas.Context("webgpu")
	if err != nil {
		return nil, nativeErr("getContext", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: canvas has no webgpu context", ErrUnavailable)
	}
	return &CanvasContext{raw: raw}, nil
}

// Configure binds the canvas to a device and output format.
func (c *CanvasContext) Configure(cfg CanvasConfiguration) error {
	if cfg.device == nil {
		return fmt.Errorf("%w: configure", ErrNilHandle)
	}
	if err := c.raw.Configure(cfg.Object()); err != nil {
		return nativeErr("configure", err)
	}
	c.config = &cfg
	return nil
}

// Configured reports whether Configure has succeeded.
func (c *CanvasContext) Configured() bool { return c.config != nil }

// CurrentTexture returns the texture to render the next frame into.
func (c *CanvasContext) CurrentTexture() (*Texture, error) {
	raw, err := c.raw.CurrentTexture()
	if err != nil {
		return nil, nativeErr("getCurrentTexture", err)
	}
	return newTexture(raw), nil
}
