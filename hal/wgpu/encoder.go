//go:build !(js && wasm)

package wgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gputypes"
	gpu "github.com/gogpu/wgpu"
)

// commandEncoder forwards to the native encoder. Native copy and draw calls
// do not return errors; validation failures surface at Finish or End.
type commandEncoder struct {
	device  *device
	encoder *gpu.CommandEncoder
}

func (e *commandEncoder) CopyBufferToBuffer(src hal.Buffer, srcOffset uint64, dst hal.Buffer, dstOffset, size uint64) error {
	s, err := unwrapBuffer(src)
	if err != nil {
		return err
	}
	d, err := unwrapBuffer(dst)
	if err != nil {
		return err
	}
	e.encoder.CopyBufferToBuffer(s.buffer, srcOffset, d.buffer, dstOffset, size)
	return nil
}

func (e *commandEncoder) BeginRenderPass(desc hal.Object) (hal.RenderPassEncoder, error) {
	var pd hal.RenderPassDescriptor
	if err := hal.Decode(desc, &pd); err != nil {
		return nil, err
	}
	native := &gpu.RenderPassDescriptor{Label: pd.Label}
	for i := range pd.ColorAttachments {
		a, err := colorAttachment(&pd.ColorAttachments[i])
		if err != nil {
			return nil, fmt.Errorf("color attachment %d: %w", i, err)
		}
		native.ColorAttachments = append(native.ColorAttachments, a)
	}
	p, err := e.encoder.BeginRenderPass(native)
	if err != nil {
		return nil, err
	}
	return &renderPass{pass: p}, nil
}

func colorAttachment(a *hal.RenderPassColorAttachment) (gpu.RenderPassColorAttachment, error) {
	var out gpu.RenderPassColorAttachment
	view, ok := a.View.(*textureView)
	if !ok {
		return out, fmt.Errorf("%w: view", hal.ErrForeignHandle)
	}
	out.View = view.view
	if a.ResolveTarget != nil {
		rt, ok := a.ResolveTarget.(*textureView)
		if !ok {
			return out, fmt.Errorf("%w: resolve target", hal.ErrForeignHandle)
		}
		out.ResolveTarget = rt.view
	}
	var err error
	if out.LoadOp, err = hal.ParseLoadOp(a.LoadOp); err != nil {
		return out, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	if out.StoreOp, err = hal.ParseStoreOp(a.StoreOp); err != nil {
		return out, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	if out.ClearValue, err = a.Clear(); err != nil {
		return out, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	return out, nil
}

func (e *commandEncoder) Finish(desc hal.Object) (hal.CommandBuffer, error) {
	var ld hal.LabelDescriptor
	if err := hal.Decode(desc, &ld); err != nil {
		return nil, err
	}
	cb, err := e.encoder.Finish()
	if err != nil {
		return nil, err
	}
	return &commandBuffer{label: ld.Label, buffer: cb}, nil
}

type commandBuffer struct {
	label  string
	buffer *gpu.CommandBuffer
}

func (c *commandBuffer) Label() string { return c.label }

type renderPass struct {
	pass *gpu.RenderPassEncoder
}

func (p *renderPass) SetPipeline(rp hal.RenderPipeline) error {
	pipeline, ok := rp.(*renderPipeline)
	if !ok {
		return fmt.Errorf("%w: render pipeline", hal.ErrForeignHandle)
	}
	p.pass.SetPipeline(pipeline.pipeline)
	return nil
}

func (p *renderPass) SetViewport(x, y, width, height, minDepth, maxDepth float32) error {
	p.pass.SetViewport(x, y, width, height, minDepth, maxDepth)
	return nil
}

func (p *renderPass) SetScissorRect(x, y, width, height uint32) error {
	p.pass.SetScissorRect(x, y, width, height)
	return nil
}

func (p *renderPass) SetVertexBuffer(slot uint32, b hal.Buffer, offset, size uint64) error {
	cmd, err := setVertexBuffer(slot, b, offset, size)
	if err != nil {
		return err
	}
	cmd(p.pass)
	return nil
}

func (p *renderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error {
	p.pass.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
	return nil
}

// ExecuteBundles replays each bundle's commands into the pass.
func (p *renderPass) ExecuteBundles(bundles []hal.RenderBundle) error {
	resolved := make([]*renderBundle, len(bundles))
	for i, b := range bundles {
		rb, ok := b.(*renderBundle)
		if !ok {
			return fmt.Errorf("%w: render bundle %d", hal.ErrForeignHandle, i)
		}
		resolved[i] = rb
	}
	for _, rb := range resolved {
		for _, cmd := range rb.commands {
			cmd(p.pass)
		}
	}
	return nil
}

func (p *renderPass) End() error {
	return p.pass.End()
}

// passCommand is one recorded bundle command.
type passCommand func(*gpu.RenderPassEncoder)

// setVertexBuffer validates a vertex binding. The native pass takes no size,
// so the range check happens here.
func setVertexBuffer(slot uint32, b hal.Buffer, offset, size uint64) (passCommand, error) {
	buf, err := unwrapBuffer(b)
	if err != nil {
		return nil, err
	}
	total := buf.Size()
	if offset > total || size > total-offset {
		return nil, fmt.Errorf("%w: [%d, +%d) in %d-byte buffer", ErrVertexRangeOutOfBounds, offset, size, total)
	}
	if !buf.Usage().Contains(gputypes.BufferUsageVertex) {
		return nil, fmt.Errorf("%w: buffer %q lacks vertex usage", ErrInvalidDescriptor, buf.Label())
	}
	native := buf.buffer
	return func(p *gpu.RenderPassEncoder) {
		p.SetVertexBuffer(slot, native, offset)
	}, nil
}

type renderBundleEncoder struct {
	mu       sync.Mutex
	label    string
	commands []passCommand
	finished bool
}

func (e *renderBundleEncoder) record(cmd passCommand) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.finished {
		return ErrBundleFinished
	}
	e.commands = append(e.commands, cmd)
	return nil
}

func (e *renderBundleEncoder) SetPipeline(rp hal.RenderPipeline) error {
	pipeline, ok := rp.(*renderPipeline)
	if !ok {
		return fmt.Errorf("%w: render pipeline", hal.ErrForeignHandle)
	}
	native := pipeline.pipeline
	return e.record(func(p *gpu.RenderPassEncoder) {
		p.SetPipeline(native)
	})
}

func (e *renderBundleEncoder) SetVertexBuffer(slot uint32, b hal.Buffer, offset, size uint64) error {
	cmd, err := setVertexBuffer(slot, b, offset, size)
	if err != nil {
		return err
	}
	return e.record(cmd)
}

func (e *renderBundleEncoder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error {
	return e.record(func(p *gpu.RenderPassEncoder) {
		p.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
	})
}

func (e *renderBundleEncoder) Finish(desc hal.Object) (hal.RenderBundle, error) {
	var ld hal.LabelDescriptor
	if err := hal.Decode(desc, &ld); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.finished {
		return nil, ErrBundleFinished
	}
	e.finished = true
	return &renderBundle{label: ld.Label, commands: e.commands}, nil
}

type renderBundle struct {
	label    string
	commands []passCommand
}

func (b *renderBundle) Label() string { return b.label }

type queue struct {
	device *device
}

func (q *queue) Submit(buffers []hal.CommandBuffer) error {
	if err := q.device.alive(); err != nil {
		return err
	}
	native := make([]*gpu.CommandBuffer, len(buffers))
	for i, b := range buffers {
		cb, ok := b.(*commandBuffer)
		if !ok {
			return fmt.Errorf("%w: command buffer %d", hal.ErrForeignHandle, i)
		}
		native[i] = cb.buffer
	}
	_, err := q.device.device.Queue().Submit(native...)
	return err
}
