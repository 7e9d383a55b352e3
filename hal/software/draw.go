package software

import (
	"fmt"
	"slices"

	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gputypes"
)

type vertexBinding struct {
	buf    *buffer
	offset uint64
	size   uint64
}

// drawState is the pipeline and vertex-buffer state shared by render passes
// and render bundle encoders.
type drawState struct {
	formats  []gputypes.TextureFormat
	pipeline *renderPipeline
	vertex   map[uint32]vertexBinding
	draws    uint64
	vertices uint64
	buffers  []*buffer
}

func (s *drawState) setPipeline(p hal.RenderPipeline) error {
	rp, ok := p.(*renderPipeline)
	if !ok {
		return fmt.Errorf("%w: pipeline %T", hal.ErrForeignHandle, p)
	}
	if !slices.Equal(rp.targets, s.formats) {
		return fmt.Errorf("%w: pipeline %q targets %v, pass has %v",
			ErrIncompatibleTargets, rp.label, rp.targets, s.formats)
	}
	s.pipeline = rp
	return nil
}

func (s *drawState) setVertexBuffer(slot uint32, b hal.Buffer, offset, size uint64) error {
	sb, ok := b.(*buffer)
	if !ok {
		return fmt.Errorf("%w: buffer %T", hal.ErrForeignHandle, b)
	}
	if !sb.usage.Contains(gputypes.BufferUsageVertex) {
		return fmt.Errorf("%w: buffer %q does not have Vertex usage", ErrUsageMismatch, sb.label)
	}
	if offset%4 != 0 {
		return fmt.Errorf("%w: vertex buffer offset %d", ErrCopyOffsetNotAligned, offset)
	}
	n := sb.Size()
	if size == hal.WholeSize && offset <= n {
		size = n - offset
	}
	if offset > n || size > n-offset {
		return fmt.Errorf("%w: vertex range offset %d + size %d > buffer size %d",
			ErrVertexRangeOutOfBounds, offset, size, n)
	}
	if s.vertex == nil {
		s.vertex = make(map[uint32]vertexBinding)
	}
	s.vertex[slot] = vertexBinding{buf: sb, offset: offset, size: size}
	s.buffers = append(s.buffers, sb)
	return nil
}

func (s *drawState) draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error {
	if s.pipeline == nil {
		return ErrNoPipeline
	}
	for i, slot := range s.pipeline.slots {
		binding, ok := s.vertex[uint32(i)]
		if !ok {
			return fmt.Errorf("%w: slot %d", ErrVertexBufferMissing, i)
		}
		first, count := uint64(firstVertex), uint64(vertexCount)
		if slot.stepMode == gputypes.VertexStepModeInstance {
			first, count = uint64(firstInstance), uint64(instanceCount)
		}
		if count == 0 || slot.extent == 0 {
			continue
		}
		need := (first+count-1)*slot.stride + slot.extent
		if need > binding.size {
			return fmt.Errorf("%w: slot %d needs %d bytes, %d bound",
				ErrVertexRangeOutOfBounds, i, need, binding.size)
		}
	}
	s.draws++
	s.vertices += uint64(vertexCount) * uint64(instanceCount)
	return nil
}

// reset clears bindings after bundles execute.
func (s *drawState) reset() {
	s.pipeline = nil
	s.vertex = nil
}
