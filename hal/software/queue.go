package software

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpubind/hal"
)

type queue struct {
	mu     sync.Mutex
	device *device
}

// Submit validates every command of every buffer before executing any.
func (q *queue) Submit(buffers []hal.CommandBuffer) error {
	if err := q.device.alive(); err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	cbs := make([]*commandBuffer, len(buffers))
	for i, b := range buffers {
		cb, ok := b.(*commandBuffer)
		if !ok {
			return fmt.Errorf("%w: command buffer %T", hal.ErrForeignHandle, b)
		}
		if cb.submitted {
			return fmt.Errorf("%w: %q", ErrCommandBufferReused, cb.label)
		}
		for _, prev := range cbs[:i] {
			if prev == cb {
				return fmt.Errorf("%w: %q", ErrCommandBufferReused, cb.label)
			}
		}
		cbs[i] = cb
	}
	for _, cb := range cbs {
		for _, cmd := range cb.commands {
			if err := cmd.validate(); err != nil {
				return err
			}
		}
	}

	p := q.device.platform
	for _, cb := range cbs {
		cb.submitted = true
		for _, cmd := range cb.commands {
			cmd.execute(p)
		}
	}
	p.submits.Add(1)
	p.commandBuffers.Add(uint64(len(cbs)))
	hal.Logger().Debug("software: submitted", "commandBuffers", len(cbs))
	return nil
}
