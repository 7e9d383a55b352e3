package gpubind

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/gogpu/gpubind/hal/software"
)

func TestBuffer_MappedAtCreation(t *testing.T) {
	_, d := newTestDevice(t)
	b := mustBuffer(t, d, NewBufferDescriptor(16, BufferUsageCopySrc).WithMappedAtCreation(true).WithLabel("staging"))

	if b.Label() != "staging" || b.Size() != 16 || b.Usage() != BufferUsageCopySrc {
		t.Errorf("buffer = %q %d %v", b.Label(), b.Size(), b.Usage())
	}
	if b.MapState() != BufferMapStateMapped {
		t.Fatalf("MapState() = %v, want Mapped", b.MapState())
	}

	data, err := b.MappedRange()
	if err != nil {
		t.Fatalf("MappedRange() error = %v", err)
	}
	if len(data) != 16 {
		t.Fatalf("len(MappedRange()) = %d, want 16", len(data))
	}
	tail, err := b.MappedRangeFrom(8)
	if err != nil || len(tail) != 8 {
		t.Fatalf("MappedRangeFrom(8) = %d bytes, %v", len(tail), err)
	}

	if err := b.Unmap(); err != nil {
		t.Fatalf("Unmap() error = %v", err)
	}
	if b.MapState() != BufferMapStateUnmapped {
		t.Errorf("MapState() = %v, want Unmapped", b.MapState())
	}
	if _, err := b.MappedRange(); !errors.Is(err, software.ErrBufferNotMapped) {
		t.Errorf("MappedRange() after Unmap error = %v, want ErrBufferNotMapped", err)
	}
}

func TestBuffer_CopyRoundTrip(t *testing.T) {
	_, d := newTestDevice(t)
	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	src := mustBuffer(t, d, NewBufferDescriptor(16, BufferUsageCopySrc|BufferUsageMapWrite).WithMappedAtCreation(true))
	data, err := src.MappedRange()
	if err != nil {
		t.Fatalf("MappedRange() error = %v", err)
	}
	copy(data, payload)
	if err := src.Unmap(); err != nil {
		t.Fatalf("Unmap() error = %v", err)
	}

	dst := mustBuffer(t, d, NewBufferDescriptor(16, BufferUsageCopyDst|BufferUsageMapRead))

	enc, err := d.CreateCommandEncoder(NewLabelDescriptor().WithLabel("upload"))
	if err != nil {
		t.Fatalf("CreateCommandEncoder() error = %v", err)
	}
	if err := enc.CopyBufferToBuffer(src, 0, dst, 4, 12); err != nil {
		t.Fatalf("CopyBufferToBuffer() error = %v", err)
	}
	cb, err := enc.Finish()
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if err := d.Queue().Submit(cb); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if err := dst.MapAsync(context.Background(), MapModeRead); err != nil {
		t.Fatalf("MapAsync() error = %v", err)
	}
	if dst.MapState() != BufferMapStateMapped {
		t.Errorf("MapState() = %v, want Mapped", dst.MapState())
	}
	got, err := dst.GetMappedRange(0, 16)
	if err != nil {
		t.Fatalf("GetMappedRange() error = %v", err)
	}
	want := append([]byte{0, 0, 0, 0}, payload...)
	if !bytes.Equal(got, want) {
		t.Errorf("GetMappedRange() = %v, want %v", got, want)
	}
}

func TestBuffer_MapRangeAsync(t *testing.T) {
	_, d := newTestDevice(t)
	b := mustBuffer(t, d, NewBufferDescriptor(32, BufferUsageMapWrite))

	if err := b.MapRangeAsync(context.Background(), MapModeWrite, 8, WholeSize); err != nil {
		t.Fatalf("MapRangeAsync() error = %v", err)
	}
	data, err := b.MappedRangeFrom(8)
	if err != nil {
		t.Fatalf("MappedRangeFrom(8) error = %v", err)
	}
	if len(data) != 24 {
		t.Errorf("len(MappedRangeFrom(8)) = %d, want 24", len(data))
	}
	if _, err := b.GetMappedRange(0, 8); !errors.Is(err, software.ErrInvalidMapRange) {
		t.Errorf("GetMappedRange() outside window error = %v, want ErrInvalidMapRange", err)
	}
}

func TestBuffer_MapAsync_Errors(t *testing.T) {
	_, d := newTestDevice(t)

	t.Run("usage mismatch", func(t *testing.T) {
		b := mustBuffer(t, d, NewBufferDescriptor(16, BufferUsageMapRead))
		err := b.MapAsync(context.Background(), MapModeWrite)

		var native *NativeError
		if !errors.As(err, &native) || native.Op != "mapAsync" {
			t.Fatalf("MapAsync() error = %v, want native mapAsync error", err)
		}
		if !errors.Is(err, software.ErrMapUsageMismatch) {
			t.Errorf("MapAsync() error = %v, want ErrMapUsageMismatch", err)
		}
		if b.MapState() != BufferMapStateUnmapped {
			t.Errorf("MapState() = %v, want Unmapped after failure", b.MapState())
		}
	})

	t.Run("canceled", func(t *testing.T) {
		b := mustBuffer(t, d, NewBufferDescriptor(16, BufferUsageMapRead))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := b.MapAsync(ctx, MapModeRead)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("MapAsync() error = %v, want context.Canceled", err)
		}
		var native *NativeError
		if errors.As(err, &native) {
			t.Errorf("MapAsync() error = %v, should not be native", err)
		}
		if b.MapState() != BufferMapStateUnmapped {
			t.Errorf("MapState() = %v, want Unmapped", b.MapState())
		}
	})

	t.Run("already mapped", func(t *testing.T) {
		b := mustBuffer(t, d, NewBufferDescriptor(16, BufferUsageMapWrite).WithMappedAtCreation(true))
		if err := b.MapAsync(context.Background(), MapModeWrite); !errors.Is(err, software.ErrBufferAlreadyMapped) {
			t.Errorf("MapAsync() error = %v, want ErrBufferAlreadyMapped", err)
		}
		if b.MapState() != BufferMapStateMapped {
			t.Errorf("MapState() = %v, want Mapped", b.MapState())
		}
	})
}

func TestBuffer_Destroy(t *testing.T) {
	_, d := newTestDevice(t)
	b := mustBuffer(t, d, NewBufferDescriptor(16, BufferUsageMapWrite).WithMappedAtCreation(true))

	b.Destroy()
	if b.MapState() != BufferMapStateUnmapped {
		t.Errorf("MapState() = %v, want Unmapped", b.MapState())
	}
	if err := b.MapAsync(context.Background(), MapModeWrite); !errors.Is(err, software.ErrBufferDestroyed) {
		t.Errorf("MapAsync() after Destroy error = %v, want ErrBufferDestroyed", err)
	}
}
