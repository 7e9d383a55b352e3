package gpubind

import (
	"context"
	"errors"
	"sync"

	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gputypes"
)

// BufferMapState is the mapping state of a buffer.
type BufferMapState = gputypes.BufferMapState

// Buffer map states.
const (
	BufferMapStateUnmapped = gputypes.BufferMapStateUnmapped
	BufferMapStatePending  = gputypes.BufferMapStatePending
	BufferMapStateMapped   = gputypes.BufferMapStateMapped
)

// Buffer is a fixed-size byte region with a usage mask fixed at creation.
//
// Lifecycle:
//  1. Create via Device.CreateBuffer, optionally mapped at creation
//  2. MapAsync / MapRangeAsync to gain CPU access
//  3. GetMappedRange to read or write bytes
//  4. Unmap before any GPU use
//  5. Destroy when no longer needed
//
// Mapping rules (usage flags, ranges, double maps) are enforced by the
// platform and reported as *NativeError. MapState is a local mirror of the
// last transition that succeeded.
type Buffer struct {
	mu       sync.Mutex
	raw      hal.Buffer
	label    string
	size     uint64
	usage    BufferUsage
	mapState BufferMapState
}

func (b *Buffer) native() hal.Buffer {
	if b == nil {
		return nil
	}
	return b.raw
}

// Label returns the debug label.
func (b *Buffer) Label() string { return b.label }

// Size returns the size in bytes declared at creation.
func (b *Buffer) Size() uint64 { return b.size }

// Usage returns the usage mask declared at creation.
func (b *Buffer) Usage() BufferUsage { return b.usage }

// MapState returns the current mapping state.
func (b *Buffer) MapState() BufferMapState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mapState
}

// MapAsync maps the whole buffer and blocks until the mapping resolves or
// ctx is done.
func (b *Buffer) MapAsync(ctx context.Context, mode MapMode) error {
	return b.MapRangeAsync(ctx, mode, 0, WholeSize)
}

// MapRangeAsync maps [offset, offset+size). A size of WholeSize maps to the
// end of the buffer.
func (b *Buffer) MapRangeAsync(ctx context.Context, mode MapMode, offset, size uint64) error {
	b.mu.Lock()
	prev := b.mapState
	if prev == BufferMapStateUnmapped {
		b.mapState = BufferMapStatePending
	}
	b.mu.Unlock()

	err := b.raw.MapAsync(ctx, mode, offset, b.resolveSize(offset, size))

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.mapState = prev
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return err
		}
		return nativeErr("mapAsync", err)
	}
	b.mapState = BufferMapStateMapped
	return nil
}

// GetMappedRange returns the bytes of [offset, offset+size) of a mapped
// buffer. Writes to the slice reach the buffer no later than Unmap.
func (b *Buffer) GetMappedRange(offset, size uint64) ([]byte, error) {
	data, err := b.raw.GetMappedRange(offset, b.resolveSize(offset, size))
	if err != nil {
		return nil, nativeErr("getMappedRange", err)
	}
	return data, nil
}

// MappedRange returns the whole mapped buffer.
func (b *Buffer) MappedRange() ([]byte, error) {
	return b.GetMappedRange(0, WholeSize)
}

// MappedRangeFrom returns the mapped bytes from offset to the end.
func (b *Buffer) MappedRangeFrom(offset uint64) ([]byte, error) {
	return b.GetMappedRange(offset, WholeSize)
}

// Unmap ends CPU access. Slices returned by GetMappedRange must not be used
// afterwards.
func (b *Buffer) Unmap() error {
	if err := b.raw.Unmap(); err != nil {
		return nativeErr("unmap", err)
	}
	b.mu.Lock()
	b.mapState = BufferMapStateUnmapped
	b.mu.Unlock()
	return nil
}

// Destroy releases the native buffer.
func (b *Buffer) Destroy() {
	b.raw.Destroy()
	b.mu.Lock()
	b.mapState = BufferMapStateUnmapped
	b.mu.Unlock()
}

// resolveSize turns WholeSize into the remaining length after offset. An
// offset past the end is left for the platform to reject.
func (b *Buffer) resolveSize(offset, size uint64) uint64 {
	if size != WholeSize {
		return size
	}
	if offset > b.size {
		return 0
	}
	return b.size - offset
}
