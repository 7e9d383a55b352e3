package gpubind

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpubind/hal"
)

// RenderBundleEncoder records a reusable sequence of draw commands.
// After Finish every call returns ErrBundleFinished.
type RenderBundleEncoder struct {
	mu       sync.Mutex
	raw      hal.RenderBundleEncoder
	label    string
	finished bool
}

// Label returns the debug label.
func (b *RenderBundleEncoder) Label() string { return b.label }

func (b *RenderBundleEncoder) record(op string, fn func() error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.finished {
		return ErrBundleFinished
	}
	return nativeErr(op, fn())
}

// SetPipeline binds the render pipeline used by subsequent draws.
func (b *RenderBundleEncoder) SetPipeline(pipeline *RenderPipeline) error {
	if pipeline == nil {
		return fmt.Errorf("%w: setPipeline", ErrNilHandle)
	}
	return b.record("setPipeline", func() error {
		return b.raw.SetPipeline(pipeline.raw)
	})
}

// SetVertexBuffer binds buffer to slot.
func (b *RenderBundleEncoder) SetVertexBuffer(slot uint32, buffer *Buffer, offset, size uint64) error {
	if buffer == nil {
		return fmt.Errorf("%w: setVertexBuffer", ErrNilHandle)
	}
	return b.record("setVertexBuffer", func() error {
		return b.raw.SetVertexBuffer(slot, buffer.raw, offset, buffer.resolveSize(offset, size))
	})
}

// Draw records a non-indexed draw.
func (b *RenderBundleEncoder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error {
	return b.record("draw", func() error {
		return b.raw.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
	})
}

// Finish returns the recorded bundle.
func (b *RenderBundleEncoder) Finish() (*RenderBundle, error) {
	return b.FinishWithDescriptor(NewLabelDescriptor())
}

// FinishWithDescriptor returns the recorded bundle carrying desc's label.
func (b *RenderBundleEncoder) FinishWithDescriptor(desc RenderBundleDescriptor) (*RenderBundle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.finished {
		return nil, ErrBundleFinished
	}
	b.finished = true
	raw, err := b.raw.Finish(desc.Object())
	if err != nil {
		return nil, nativeErr("finish", err)
	}
	return &RenderBundle{raw: raw, label: desc.label}, nil
}

// RenderBundle is an immutable recording that may be executed by any number
// of render passes.
type RenderBundle struct {
	raw   hal.RenderBundle
	label string
}

// Label returns the debug label.
func (b *RenderBundle) Label() string { return b.label }
