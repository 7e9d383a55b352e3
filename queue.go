package gpubind

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/gogpu/gpubind/hal"
)

// Queue submits command buffers to the device.
type Queue struct {
	raw    hal.Queue
	device *Device
}

// Submit hands buffers to the GPU in order. An empty call does nothing.
// Each command buffer may be submitted once; if any buffer in the call was
// already submitted (or repeats within the call) nothing is submitted and
// ErrCommandBufferSubmitted is returned. Submit does not wait for the GPU.
func (q *Queue) Submit(buffers ...*CommandBuffer) error {
	if len(buffers) == 0 {
		return nil
	}
	if err := q.device.checkAlive(); err != nil {
		return err
	}

	for _, b := range buffers {
		if b == nil {
			return fmt.Errorf("%w: submit", ErrNilHandle)
		}
	}

	seen := make(map[*CommandBuffer]struct{}, len(buffers))
	for _, b := range buffers {
		if _, dup := seen[b]; dup {
			return ErrCommandBufferSubmitted
		}
		seen[b] = struct{}{}
	}

	// Lock in creation order so concurrent overlapping submits cannot deadlock.
	locked := slices.Clone(buffers)
	slices.SortFunc(locked, func(a, b *CommandBuffer) int { return cmp.Compare(a.seq, b.seq) })
	for i, b := range locked {
		b.mu.Lock()
		if b.submitted {
			for _, l := range locked[:i+1] {
				l.mu.Unlock()
			}
			return ErrCommandBufferSubmitted
		}
	}
	defer func() {
		for _, b := range locked {
			b.mu.Unlock()
		}
	}()

	raw := make([]hal.CommandBuffer, len(buffers))
	for i, b := range buffers {
		raw[i] = b.raw
	}

	if err := q.raw.Submit(raw); err != nil {
		return nativeErr("submit", err)
	}
	for _, b := range locked {
		b.submitted = true
	}
	Logger().Debug("gpubind: submitted", "commandBuffers", len(raw))
	return nil
}
