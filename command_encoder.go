package gpubind

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpubind/hal"
)

// CommandEncoderState is the recording state of a CommandEncoder.
type CommandEncoderState int

const (
	// CommandEncoderStateRecording accepts commands.
	CommandEncoderStateRecording CommandEncoderState = iota
	// CommandEncoderStateLocked means a render pass is open.
	CommandEncoderStateLocked
	// CommandEncoderStateFinished means Finish has produced a command buffer.
	CommandEncoderStateFinished
)

// String returns the string representation of CommandEncoderState.
func (s CommandEncoderState) String() string {
	switch s {
	case CommandEncoderStateRecording:
		return "Recording"
	case CommandEncoderStateLocked:
		return "Locked"
	case CommandEncoderStateFinished:
		return "Finished"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// CommandEncoder records GPU commands for later submission to a queue.
//
// State machine:
//
//	Recording -> BeginRenderPass -> Locked
//	Locked    -> pass.End        -> Recording
//	Recording -> Finish          -> Finished
//
// Every call outside its state returns a StateMisuse error
// (ErrEncoderLocked or ErrEncoderFinished) without reaching the platform.
//
// CommandEncoder is NOT safe for concurrent use.
type CommandEncoder struct {
	mu    sync.Mutex
	raw   hal.CommandEncoder
	label string
	state CommandEncoderState
	pass  *RenderPassEncoder
}

// Label returns the debug label.
func (e *CommandEncoder) Label() string { return e.label }

// State returns the current recording state.
func (e *CommandEncoder) State() CommandEncoderState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// checkRecording must be called with e.mu held.
func (e *CommandEncoder) checkRecording() error {
	switch e.state {
	case CommandEncoderStateRecording:
		return nil
	case CommandEncoderStateLocked:
		return ErrEncoderLocked
	default:
		return ErrEncoderFinished
	}
}

// CopyBufferToBuffer records a copy of size bytes from src at srcOffset to dst
// at dstOffset. Range and alignment are validated by the platform.
func (e *CommandEncoder) CopyBufferToBuffer(src *Buffer, srcOffset uint64, dst *Buffer, dstOffset, size uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkRecording(); err != nil {
		return err
	}
	if src == nil || dst == nil {
		return fmt.Errorf("%w: copyBufferToBuffer", ErrNilHandle)
	}
	if err := e.raw.CopyBufferToBuffer(src.raw, srcOffset, dst.raw, dstOffset, size); err != nil {
		return nativeErr("copyBufferToBuffer", err)
	}
	return nil
}

// BeginRenderPass opens a render pass and locks the encoder until the pass
// ends.
func (e *CommandEncoder) BeginRenderPass(desc RenderPassDescriptor) (*RenderPassEncoder, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkRecording(); err != nil {
		return nil, err
	}
	raw, err := e.raw.BeginRenderPass(desc.Object())
	if err != nil {
		return nil, nativeErr("beginRenderPass", err)
	}
	pass := &RenderPassEncoder{raw: raw, encoder: e, label: desc.label}
	e.pass = pass
	e.state = CommandEncoderStateLocked
	return pass, nil
}

// endRenderPass is called by RenderPassEncoder.End.
func (e *CommandEncoder) endRenderPass(pass *RenderPassEncoder) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pass == pass {
		e.pass = nil
		e.state = CommandEncoderStateRecording
	}
}

// Finish ends recording and returns the command buffer.
func (e *CommandEncoder) Finish() (*CommandBuffer, error) {
	return e.FinishWithDescriptor(NewLabelDescriptor())
}

// FinishWithDescriptor ends recording and returns a command buffer carrying
// desc's label. The encoder cannot be used afterwards.
func (e *CommandEncoder) FinishWithDescriptor(desc CommandBufferDescriptor) (*CommandBuffer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkRecording(); err != nil {
		return nil, err
	}
	// A failed finish still consumes the encoder.
	e.state = CommandEncoderStateFinished
	raw, err := e.raw.Finish(desc.Object())
	if err != nil {
		return nil, nativeErr("finish", err)
	}
	return &CommandBuffer{seq: commandBufferSeq.Add(1), raw: raw, label: desc.label}, nil
}

// CommandBuffer is a finished, immutable recording. It can be submitted once.
type CommandBuffer struct {
	mu        sync.Mutex
	seq       uint64 // lock order for Queue.Submit
	raw       hal.CommandBuffer
	label     string
	submitted bool
}

var commandBufferSeq atomic.Uint64

// Label returns the debug label.
func (c *CommandBuffer) Label() string { return c.label }

// Submitted reports whether the buffer has been handed to a queue.
func (c *CommandBuffer) Submitted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitted
}
