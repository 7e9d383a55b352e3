package software

import (
	"context"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
)

// buffer holds real bytes. Writes through a mapped range land directly in
// data.
type buffer struct {
	mu        sync.Mutex
	device    *device
	label     string
	usage     gputypes.BufferUsage
	data      []byte
	state     gputypes.BufferMapState
	mapMode   gputypes.MapMode
	mapOffset uint64
	mapSize   uint64
	destroyed bool
}

func (b *buffer) Label() string               { return b.label }
func (b *buffer) Usage() gputypes.BufferUsage { return b.usage }

// Size is zero after Destroy.
func (b *buffer) Size() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return uint64(len(b.data))
}

// MapAsync resolves immediately; ctx is only checked on entry.
func (b *buffer) MapAsync(ctx context.Context, mode gputypes.MapMode, offset, size uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return ErrBufferDestroyed
	}
	if b.state != gputypes.BufferMapStateUnmapped {
		return ErrBufferAlreadyMapped
	}

	switch mode {
	case gputypes.MapModeRead:
		if !b.usage.Contains(gputypes.BufferUsageMapRead) {
			return fmt.Errorf("%w: buffer does not have MapRead usage", ErrMapUsageMismatch)
		}
	case gputypes.MapModeWrite:
		if !b.usage.Contains(gputypes.BufferUsageMapWrite) {
			return fmt.Errorf("%w: buffer does not have MapWrite usage", ErrMapUsageMismatch)
		}
	default:
		return fmt.Errorf("%w: %d", ErrInvalidMapMode, mode)
	}

	if offset%8 != 0 {
		return fmt.Errorf("%w: offset %d is not 8-byte aligned", ErrInvalidMapRange, offset)
	}
	if size%4 != 0 {
		return fmt.Errorf("%w: size %d is not 4-byte aligned", ErrInvalidMapRange, size)
	}
	if err := b.checkRange(offset, size); err != nil {
		return err
	}

	b.state = gputypes.BufferMapStateMapped
	b.mapMode = mode
	b.mapOffset = offset
	b.mapSize = size
	return nil
}

func (b *buffer) GetMappedRange(offset, size uint64) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return nil, ErrBufferDestroyed
	}
	if b.state != gputypes.BufferMapStateMapped {
		return nil, ErrBufferNotMapped
	}
	if offset%8 != 0 {
		return nil, fmt.Errorf("%w: offset %d is not 8-byte aligned", ErrInvalidMapRange, offset)
	}
	if size%4 != 0 {
		return nil, fmt.Errorf("%w: size %d is not 4-byte aligned", ErrInvalidMapRange, size)
	}
	if offset < b.mapOffset || offset-b.mapOffset > b.mapSize || size > b.mapSize-(offset-b.mapOffset) {
		return nil, fmt.Errorf("%w: window [%d, +%d) outside mapped [%d, +%d)",
			ErrInvalidMapRange, offset, size, b.mapOffset, b.mapSize)
	}
	return b.data[offset : offset+size : offset+size], nil
}

// Unmap is a no-op on an unmapped buffer.
func (b *buffer) Unmap() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.destroyed {
		return ErrBufferDestroyed
	}
	b.state = gputypes.BufferMapStateUnmapped
	b.mapOffset, b.mapSize = 0, 0
	return nil
}

func (b *buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.destroyed = true
	b.state = gputypes.BufferMapStateUnmapped
	b.data = nil
}

// checkRange must be called with b.mu held.
func (b *buffer) checkRange(offset, size uint64) error {
	n := uint64(len(b.data))
	if offset > n || size > n-offset {
		return fmt.Errorf("%w: offset %d + size %d > buffer size %d", ErrInvalidMapRange, offset, size, n)
	}
	return nil
}

// usable reports whether the GPU may touch the buffer now.
func (b *buffer) usable() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.destroyed {
		return fmt.Errorf("%w: %q", ErrBufferDestroyed, b.label)
	}
	if b.state != gputypes.BufferMapStateUnmapped {
		return fmt.Errorf("%w: %q", ErrBufferMapped, b.label)
	}
	return nil
}

// Snapshot returns a copy of the bytes of a software buffer, regardless of
// map state. It returns nil for buffers of other platforms.
func Snapshot(b any) []byte {
	sb, ok := b.(*buffer)
	if !ok {
		return nil
	}
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return append([]byte(nil), sb.data...)
}
