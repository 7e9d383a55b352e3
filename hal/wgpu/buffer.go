//go:build !(js && wasm)

package wgpu

import (
	"context"
	"fmt"
	"sync"

	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gputypes"
	gpu "github.com/gogpu/wgpu"
)

// buffer wraps a native buffer. The native layer rejects overlapping
// mapped ranges, so the whole mapped window is fetched once and every
// GetMappedRange slices into it.
type buffer struct {
	mu     sync.Mutex
	device *device
	buffer *gpu.Buffer

	window    []byte
	mapOffset uint64
	mapSize   uint64
	mapped    bool
	destroyed bool
}

func (b *buffer) Label() string               { return b.buffer.Label() }
func (b *buffer) Size() uint64                { return b.buffer.Size() }
func (b *buffer) Usage() gputypes.BufferUsage { return b.buffer.Usage() }

func (b *buffer) MapAsync(ctx context.Context, mode gputypes.MapMode, offset, size uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.buffer.Map(ctx, gpu.MapMode(mode), offset, size); err != nil {
		return err
	}
	b.mu.Lock()
	b.mapped = true
	b.mapOffset, b.mapSize = offset, size
	b.window = nil
	b.mu.Unlock()
	return nil
}

func (b *buffer) GetMappedRange(offset, size uint64) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.mapped {
		if b.buffer.MapState() != gpu.MapStateMapped {
			return nil, fmt.Errorf("wgpu: buffer %q is not mapped", b.buffer.Label())
		}
		// mappedAtCreation covers the whole buffer.
		b.mapped = true
		b.mapOffset, b.mapSize = 0, b.buffer.Size()
	}
	if offset < b.mapOffset || offset-b.mapOffset > b.mapSize || size > b.mapSize-(offset-b.mapOffset) {
		return nil, fmt.Errorf("%w: window [%d, +%d) outside mapped [%d, +%d)",
			gpu.ErrMapRangeOverflow, offset, size, b.mapOffset, b.mapSize)
	}
	if b.window == nil {
		r, err := b.buffer.MappedRange(b.mapOffset, b.mapSize)
		if err != nil {
			return nil, err
		}
		b.window = r.Bytes()
	}
	start := offset - b.mapOffset
	return b.window[start : start+size : start+size], nil
}

func (b *buffer) Unmap() error {
	b.mu.Lock()
	b.mapped = false
	b.window = nil
	b.mapOffset, b.mapSize = 0, 0
	b.mu.Unlock()
	return b.buffer.Unmap()
}

func (b *buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.window = nil
	b.buffer.Release()
}

func unwrapBuffer(b hal.Buffer) (*buffer, error) {
	nb, ok := b.(*buffer)
	if !ok {
		return nil, fmt.Errorf("%w: buffer", hal.ErrForeignHandle)
	}
	return nb, nil
}
