package gpubind

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpubind/hal"
)

// RenderPassEncoder records draw commands into an open render pass.
//
// The pass is Recording until End, after which every call returns
// ErrPassEnded. End releases the parent encoder's lock.
type RenderPassEncoder struct {
	mu      sync.Mutex
	raw     hal.RenderPassEncoder
	encoder *CommandEncoder
	label   string
	ended   bool
}

// Label returns the debug label.
func (p *RenderPassEncoder) Label() string { return p.label }

// Ended reports whether End has been called.
func (p *RenderPassEncoder) Ended() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ended
}

// record runs fn while the pass is open and wraps its error under op.
func (p *RenderPassEncoder) record(op string, fn func() error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ended {
		return ErrPassEnded
	}
	return nativeErr(op, fn())
}

// SetPipeline binds the render pipeline used by subsequent draws.
func (p *RenderPassEncoder) SetPipeline(pipeline *RenderPipeline) error {
	if pipeline == nil {
		return p.nilHandle("setPipeline")
	}
	return p.record("setPipeline", func() error {
		return p.raw.SetPipeline(pipeline.raw)
	})
}

// SetViewport sets the viewport transform.
func (p *RenderPassEncoder) SetViewport(x, y, width, height, minDepth, maxDepth float32) error {
	return p.record("setViewport", func() error {
		return p.raw.SetViewport(x, y, width, height, minDepth, maxDepth)
	})
}

// SetScissorRect sets the scissor rectangle.
func (p *RenderPassEncoder) SetScissorRect(x, y, width, height uint32) error {
	return p.record("setScissorRect", func() error {
		return p.raw.SetScissorRect(x, y, width, height)
	})
}

// SetVertexBuffer binds buffer to slot. A size of WholeSize binds the rest of
// the buffer after offset.
func (p *RenderPassEncoder) SetVertexBuffer(slot uint32, buffer *Buffer, offset, size uint64) error {
	if buffer == nil {
		return p.nilHandle("setVertexBuffer")
	}
	return p.record("setVertexBuffer", func() error {
		return p.raw.SetVertexBuffer(slot, buffer.raw, offset, buffer.resolveSize(offset, size))
	})
}

// Draw issues a non-indexed draw.
func (p *RenderPassEncoder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error {
	return p.record("draw", func() error {
		return p.raw.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
	})
}

// ExecuteBundles replays pre-recorded bundles in order.
func (p *RenderPassEncoder) ExecuteBundles(bundles ...*RenderBundle) error {
	raw := make([]hal.RenderBundle, len(bundles))
	for i, b := range bundles {
		if b == nil {
			return p.nilHandle("executeBundles")
		}
		raw[i] = b.raw
	}
	return p.record("executeBundles", func() error {
		return p.raw.ExecuteBundles(raw)
	})
}

// End closes the pass. A second End returns ErrPassEnded.
func (p *RenderPassEncoder) End() error {
	p.mu.Lock()
	if p.ended {
		p.mu.Unlock()
		return ErrPassEnded
	}
	p.ended = true
	err := p.raw.End()
	p.mu.Unlock()

	p.encoder.endRenderPass(p)
	return nativeErr("end", err)
}

func (p *RenderPassEncoder) nilHandle(op string) error {
	if p.Ended() {
		return ErrPassEnded
	}
	return fmt.Errorf("%w: %s", ErrNilHandle, op)
}
