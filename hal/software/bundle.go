package software

import (
	"errors"
	"sync"

	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gputypes"
)

var errBundleFinished = errors.New("software: render bundle encoder already finished")

type renderBundleEncoder struct {
	mu       sync.Mutex
	label    string
	state    drawState
	finished bool
}

func (e *renderBundleEncoder) run(fn func() error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.finished {
		return errBundleFinished
	}
	return fn()
}

func (e *renderBundleEncoder) SetPipeline(p hal.RenderPipeline) error {
	return e.run(func() error { return e.state.setPipeline(p) })
}

func (e *renderBundleEncoder) SetVertexBuffer(slot uint32, b hal.Buffer, offset, size uint64) error {
	return e.run(func() error { return e.state.setVertexBuffer(slot, b, offset, size) })
}

func (e *renderBundleEncoder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error {
	return e.run(func() error {
		return e.state.draw(vertexCount, instanceCount, firstVertex, firstInstance)
	})
}

func (e *renderBundleEncoder) Finish(desc hal.Object) (hal.RenderBundle, error) {
	var ld hal.LabelDescriptor
	if err := hal.Decode(desc, &ld); err != nil {
		return nil, err
	}
	var b *renderBundle
	err := e.run(func() error {
		e.finished = true
		b = &renderBundle{
			label:    ld.Label,
			formats:  e.state.formats,
			draws:    e.state.draws,
			vertices: e.state.vertices,
			buffers:  e.state.buffers,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// renderBundle is replayed by value: executing it adds its draws and buffer
// references to the pass.
type renderBundle struct {
	label    string
	formats  []gputypes.TextureFormat
	draws    uint64
	vertices uint64
	buffers  []*buffer
}

func (b *renderBundle) Label() string { return b.label }
