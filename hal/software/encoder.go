package software

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gputypes"
)

var (
	errPassOpen  = errors.New("software: a render pass is still open")
	errFinished  = errors.New("software: encoder already finished")
	errPassEnded = errors.New("software: render pass already ended")
)

// command is one recorded operation. validate runs for every command of a
// submission before any executes.
type command interface {
	validate() error
	execute(p *Platform)
}

type commandEncoder struct {
	mu       sync.Mutex
	device   *device
	label    string
	commands []command
	open     bool
	finished bool
}

func (e *commandEncoder) checkRecording() error {
	if e.finished {
		return errFinished
	}
	if e.open {
		return errPassOpen
	}
	return nil
}

func (e *commandEncoder) CopyBufferToBuffer(src hal.Buffer, srcOffset uint64, dst hal.Buffer, dstOffset, size uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkRecording(); err != nil {
		return err
	}
	s, ok := src.(*buffer)
	if !ok {
		return fmt.Errorf("%w: source %T", hal.ErrForeignHandle, src)
	}
	d, ok := dst.(*buffer)
	if !ok {
		return fmt.Errorf("%w: destination %T", hal.ErrForeignHandle, dst)
	}
	if s == d {
		return ErrCopySameBuffer
	}
	if !s.usage.Contains(gputypes.BufferUsageCopySrc) {
		return fmt.Errorf("%w: source %q does not have CopySrc usage", ErrUsageMismatch, s.label)
	}
	if !d.usage.Contains(gputypes.BufferUsageCopyDst) {
		return fmt.Errorf("%w: destination %q does not have CopyDst usage", ErrUsageMismatch, d.label)
	}
	if srcOffset%4 != 0 || dstOffset%4 != 0 {
		return fmt.Errorf("%w: source %d, destination %d", ErrCopyOffsetNotAligned, srcOffset, dstOffset)
	}
	if size%4 != 0 {
		return fmt.Errorf("%w: size %d", ErrCopySizeNotAligned, size)
	}
	if n := s.Size(); srcOffset > n || size > n-srcOffset {
		return fmt.Errorf("%w: source offset %d + size %d > buffer size %d", ErrCopyRangeOutOfBounds, srcOffset, size, n)
	}
	if n := d.Size(); dstOffset > n || size > n-dstOffset {
		return fmt.Errorf("%w: destination offset %d + size %d > buffer size %d", ErrCopyRangeOutOfBounds, dstOffset, size, n)
	}

	e.commands = append(e.commands, &copyCommand{src: s, dst: d, srcOffset: srcOffset, dstOffset: dstOffset, size: size})
	return nil
}

func (e *commandEncoder) BeginRenderPass(desc hal.Object) (hal.RenderPassEncoder, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkRecording(); err != nil {
		return nil, err
	}
	var pd hal.RenderPassDescriptor
	if err := hal.Decode(desc, &pd); err != nil {
		return nil, err
	}
	if len(pd.ColorAttachments) == 0 {
		return nil, fmt.Errorf("%w: render pass has no color attachments", ErrInvalidDescriptor)
	}

	pass := &renderPass{encoder: e, label: pd.Label}
	for i := range pd.ColorAttachments {
		a, err := decodeAttachment(&pd.ColorAttachments[i])
		if err != nil {
			return nil, fmt.Errorf("color attachment %d: %w", i, err)
		}
		pass.attachments = append(pass.attachments, a)
		pass.state.formats = append(pass.state.formats, a.view.format)
	}
	e.open = true
	return pass, nil
}

func (e *commandEncoder) Finish(desc hal.Object) (hal.CommandBuffer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkRecording(); err != nil {
		return nil, err
	}
	var ld hal.LabelDescriptor
	if err := hal.Decode(desc, &ld); err != nil {
		return nil, err
	}
	e.finished = true
	return &commandBuffer{label: ld.Label, commands: e.commands}, nil
}

func (e *commandEncoder) endPass(cmd *passCommand) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commands = append(e.commands, cmd)
	e.open = false
}

type attachment struct {
	view  *textureView
	load  gputypes.LoadOp
	store gputypes.StoreOp
	clear gputypes.Color
}

func decodeAttachment(a *hal.RenderPassColorAttachment) (attachment, error) {
	view, ok := a.View.(*textureView)
	if !ok {
		return attachment{}, fmt.Errorf("%w: view %T", hal.ErrForeignHandle, a.View)
	}
	if a.ResolveTarget != nil {
		return attachment{}, fmt.Errorf("%w: resolveTarget needs a multisampled view", ErrInvalidDescriptor)
	}
	load, err := hal.ParseLoadOp(a.LoadOp)
	if err != nil {
		return attachment{}, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	store, err := hal.ParseStoreOp(a.StoreOp)
	if err != nil {
		return attachment{}, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	clear, err := a.Clear()
	if err != nil {
		return attachment{}, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	return attachment{view: view, load: load, store: store, clear: clear}, nil
}

type renderPass struct {
	mu          sync.Mutex
	encoder     *commandEncoder
	label       string
	attachments []attachment
	state       drawState
	ended       bool
}

func (p *renderPass) run(fn func() error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ended {
		return errPassEnded
	}
	return fn()
}

func (p *renderPass) SetPipeline(pipeline hal.RenderPipeline) error {
	return p.run(func() error { return p.state.setPipeline(pipeline) })
}

func (p *renderPass) SetViewport(x, y, width, height, minDepth, maxDepth float32) error {
	return p.run(func() error {
		if width < 0 || height < 0 {
			return fmt.Errorf("%w: viewport size %gx%g", ErrInvalidDescriptor, width, height)
		}
		if minDepth < 0 || maxDepth > 1 || minDepth > maxDepth {
			return fmt.Errorf("%w: viewport depth [%g, %g]", ErrInvalidDescriptor, minDepth, maxDepth)
		}
		return nil
	})
}

func (p *renderPass) SetScissorRect(x, y, width, height uint32) error {
	return p.run(func() error {
		w, h := p.attachments[0].view.tex.width, p.attachments[0].view.tex.height
		if uint64(x)+uint64(width) > uint64(w) || uint64(y)+uint64(height) > uint64(h) {
			return fmt.Errorf("%w: scissor %d,%d %dx%d outside %dx%d attachment",
				ErrInvalidDescriptor, x, y, width, height, w, h)
		}
		return nil
	})
}

func (p *renderPass) SetVertexBuffer(slot uint32, b hal.Buffer, offset, size uint64) error {
	return p.run(func() error { return p.state.setVertexBuffer(slot, b, offset, size) })
}

func (p *renderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error {
	return p.run(func() error {
		return p.state.draw(vertexCount, instanceCount, firstVertex, firstInstance)
	})
}

func (p *renderPass) ExecuteBundles(bundles []hal.RenderBundle) error {
	return p.run(func() error {
		for i, b := range bundles {
			rb, ok := b.(*renderBundle)
			if !ok {
				return fmt.Errorf("%w: bundle %d is %T", hal.ErrForeignHandle, i, b)
			}
			if !slices.Equal(rb.formats, p.state.formats) {
				return fmt.Errorf("%w: bundle %q formats %v, pass has %v",
					ErrIncompatibleTargets, rb.label, rb.formats, p.state.formats)
			}
		}
		for _, b := range bundles {
			rb := b.(*renderBundle)
			p.state.draws += rb.draws
			p.state.vertices += rb.vertices
			p.state.buffers = append(p.state.buffers, rb.buffers...)
		}
		p.state.reset()
		return nil
	})
}

func (p *renderPass) End() error {
	p.mu.Lock()
	if p.ended {
		p.mu.Unlock()
		return errPassEnded
	}
	p.ended = true
	cmd := &passCommand{
		attachments: p.attachments,
		draws:       p.state.draws,
		vertices:    p.state.vertices,
		buffers:     p.state.buffers,
	}
	p.mu.Unlock()

	p.encoder.endPass(cmd)
	return nil
}

type commandBuffer struct {
	label     string
	commands  []command
	submitted bool
}

func (c *commandBuffer) Label() string { return c.label }

type copyCommand struct {
	src, dst             *buffer
	srcOffset, dstOffset uint64
	size                 uint64
}

func (c *copyCommand) validate() error {
	if err := c.src.usable(); err != nil {
		return err
	}
	return c.dst.usable()
}

func (c *copyCommand) execute(p *Platform) {
	c.src.mu.Lock()
	c.dst.mu.Lock()
	copy(c.dst.data[c.dstOffset:c.dstOffset+c.size], c.src.data[c.srcOffset:c.srcOffset+c.size])
	c.dst.mu.Unlock()
	c.src.mu.Unlock()

	p.copies.Add(1)
	p.copiedBytes.Add(c.size)
}

type passCommand struct {
	attachments []attachment
	draws       uint64
	vertices    uint64
	buffers     []*buffer
}

func (c *passCommand) validate() error {
	for _, b := range c.buffers {
		if err := b.usable(); err != nil {
			return err
		}
	}
	for _, a := range c.attachments {
		if a.view.tex.isDestroyed() {
			return fmt.Errorf("%w: %q", ErrTextureDestroyed, a.view.tex.label)
		}
	}
	return nil
}

func (c *passCommand) execute(p *Platform) {
	for _, a := range c.attachments {
		a.view.tex.runPass(a.load, a.store, a.clear)
	}
	p.passes.Add(1)
	p.draws.Add(c.draws)
	p.vertices.Add(c.vertices)
}
