//go:build js && wasm

package browser

import (
	"context"
	"fmt"
	"sync"
	"syscall/js"

	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gputypes"
)

type device struct {
	v       js.Value
	queue   *queue
	onError js.Func
	once    sync.Once
}

func (d *device) jsValue() js.Value { return d.v }
func (d *device) Label() string     { return label(d.v) }
func (d *device) Queue() hal.Queue  { return d.queue }

func (d *device) Destroy() {
	d.once.Do(func() {
		d.v.Call("removeEventListener", "uncapturederror", d.onError)
		d.onError.Release()
		d.v.Call("destroy")
	})
}

// create calls a device factory method with a converted descriptor.
func (d *device) create(method string, desc hal.Object) (js.Value, error) {
	arg, err := descriptor(desc)
	if err != nil {
		return js.Undefined(), err
	}
	v, err := call(d.v, method, arg)
	if err != nil {
		return js.Undefined(), fmt.Errorf("%s: %w", method, err)
	}
	return v, nil
}

func (d *device) CreateBuffer(desc hal.Object) (hal.Buffer, error) {
	v, err := d.create("createBuffer", desc)
	if err != nil {
		return nil, err
	}
	b := &buffer{v: v}
	if m, _ := desc["mappedAtCreation"].(bool); m {
		b.mode = gputypes.MapModeWrite
		b.mapSize = b.Size()
		b.mapped = true
	}
	return b, nil
}

func (d *device) CreateShaderModule(desc hal.Object) (hal.ShaderModule, error) {
	v, err := d.create("createShaderModule", desc)
	if err != nil {
		return nil, err
	}
	return handle{v}, nil
}

func (d *device) CreateBindGroupLayout(desc hal.Object) (hal.BindGroupLayout, error) {
	v, err := d.create("createBindGroupLayout", desc)
	if err != nil {
		return nil, err
	}
	return handle{v}, nil
}

func (d *device) CreatePipelineLayout(desc hal.Object) (hal.PipelineLayout, error) {
	v, err := d.create("createPipelineLayout", desc)
	if err != nil {
		return nil, err
	}
	return handle{v}, nil
}

func (d *device) CreateRenderPipeline(desc hal.Object) (hal.RenderPipeline, error) {
	v, err := d.create("createRenderPipeline", desc)
	if err != nil {
		return nil, err
	}
	return handle{v}, nil
}

func (d *device) CreateCommandEncoder(desc hal.Object) (hal.CommandEncoder, error) {
	v, err := d.create("createCommandEncoder", desc)
	if err != nil {
		return nil, err
	}
	return &commandEncoder{v: v}, nil
}

func (d *device) CreateRenderBundleEncoder(desc hal.Object) (hal.RenderBundleEncoder, error) {
	v, err := d.create("createRenderBundleEncoder", desc)
	if err != nil {
		return nil, err
	}
	return &renderBundleEncoder{drawRecorder{v}}, nil
}

// handle is a WebGPU object with nothing but a label on the Go side.
type handle struct {
	v js.Value
}

func (h handle) jsValue() js.Value { return h.v }
func (h handle) Label() string     { return label(h.v) }

type queue struct {
	v js.Value
}

func (q *queue) Submit(buffers []hal.CommandBuffer) error {
	list := make([]any, len(buffers))
	for i, b := range buffers {
		h, ok := b.(jsValuer)
		if !ok {
			return fmt.Errorf("%w: command buffer %d", hal.ErrForeignHandle, i)
		}
		list[i] = h.jsValue()
	}
	_, err := call(q.v, "submit", list)
	return wrapErr("submit", err)
}

// buffer mirrors mapped windows in Go memory.
type buffer struct {
	mu      sync.Mutex
	v       js.Value
	mode    gputypes.MapMode
	mapped  bool
	mapOff  uint64
	mapSize uint64
	window  []byte
	jsRange js.Value
}

func (b *buffer) jsValue() js.Value { return b.v }
func (b *buffer) Label() string     { return label(b.v) }
func (b *buffer) Size() uint64      { return uint64(b.v.Get("size").Float()) }

func (b *buffer) Usage() gputypes.BufferUsage {
	return gputypes.BufferUsage(b.v.Get("usage").Int())
}

func (b *buffer) MapAsync(ctx context.Context, mode gputypes.MapMode, offset, size uint64) error {
	promise, err := call(b.v, "mapAsync", uint32(mode), float64(offset), float64(size))
	if err != nil {
		return wrapErr("mapAsync", err)
	}
	if _, err := await(ctx, promise); err != nil {
		return err
	}
	b.mu.Lock()
	b.mode, b.mapped = mode, true
	b.mapOff, b.mapSize = offset, size
	b.window = nil
	b.mu.Unlock()
	return nil
}

func (b *buffer) GetMappedRange(offset, size uint64) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.mapped {
		return nil, fmt.Errorf("browser: buffer %q is not mapped", label(b.v))
	}
	if offset < b.mapOff || offset-b.mapOff > b.mapSize || size > b.mapSize-(offset-b.mapOff) {
		return nil, fmt.Errorf("browser: window [%d, +%d) outside mapped [%d, +%d)", offset, size, b.mapOff, b.mapSize)
	}
	if b.window == nil {
		ab, err := call(b.v, "getMappedRange", float64(b.mapOff), float64(b.mapSize))
		if err != nil {
			return nil, wrapErr("getMappedRange", err)
		}
		b.jsRange = js.Global().Get("Uint8Array").New(ab)
		b.window = make([]byte, b.mapSize)
		js.CopyBytesToGo(b.window, b.jsRange)
	}
	start := offset - b.mapOff
	return b.window[start : start+size : start+size], nil
}

func (b *buffer) Unmap() error {
	b.mu.Lock()
	if b.window != nil && b.mode == gputypes.MapModeWrite {
		js.CopyBytesToJS(b.jsRange, b.window)
	}
	b.window, b.jsRange = nil, js.Undefined()
	b.mapped = false
	b.mu.Unlock()
	_, err := call(b.v, "unmap")
	return wrapErr("unmap", err)
}

func (b *buffer) Destroy() {
	b.mu.Lock()
	b.window, b.mapped = nil, false
	b.mu.Unlock()
	_, _ = call(b.v, "destroy")
}
