//go:build js && wasm

package browser

import (
	"fmt"
	"syscall/js"

	"github.com/gogpu/gpubind/hal"
)

func unwrap(v any, what string) (js.Value, error) {
	h, ok := v.(jsValuer)
	if !ok {
		return js.Undefined(), fmt.Errorf("%w: %s", hal.ErrForeignHandle, what)
	}
	return h.jsValue(), nil
}

type commandEncoder struct {
	v js.Value
}

func (e *commandEncoder) CopyBufferToBuffer(src hal.Buffer, srcOffset uint64, dst hal.Buffer, dstOffset, size uint64) error {
	s, err := unwrap(src, "source buffer")
	if err != nil {
		return err
	}
	d, err := unwrap(dst, "destination buffer")
	if err != nil {
		return err
	}
	_, err = call(e.v, "copyBufferToBuffer", s, float64(srcOffset), d, float64(dstOffset), float64(size))
	return wrapErr("copyBufferToBuffer", err)
}

func (e *commandEncoder) BeginRenderPass(desc hal.Object) (hal.RenderPassEncoder, error) {
	arg, err := descriptor(desc)
	if err != nil {
		return nil, err
	}
	v, err := call(e.v, "beginRenderPass", arg)
	if err != nil {
		return nil, wrapErr("beginRenderPass", err)
	}
	return &renderPass{drawRecorder{v}}, nil
}

func (e *commandEncoder) Finish(desc hal.Object) (hal.CommandBuffer, error) {
	arg, err := descriptor(desc)
	if err != nil {
		return nil, err
	}
	v, err := call(e.v, "finish", arg)
	if err != nil {
		return nil, wrapErr("finish", err)
	}
	return handle{v}, nil
}

// drawRecorder is the command surface shared by passes and bundle encoders.
type drawRecorder struct {
	v js.Value
}

func (r drawRecorder) SetPipeline(p hal.RenderPipeline) error {
	pv, err := unwrap(p, "render pipeline")
	if err != nil {
		return err
	}
	_, err = call(r.v, "setPipeline", pv)
	return wrapErr("setPipeline", err)
}

func (r drawRecorder) SetVertexBuffer(slot uint32, b hal.Buffer, offset, size uint64) error {
	bv, err := unwrap(b, "vertex buffer")
	if err != nil {
		return err
	}
	_, err = call(r.v, "setVertexBuffer", slot, bv, float64(offset), float64(size))
	return wrapErr("setVertexBuffer", err)
}

func (r drawRecorder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error {
	_, err := call(r.v, "draw", vertexCount, instanceCount, firstVertex, firstInstance)
	return wrapErr("draw", err)
}

type renderPass struct {
	drawRecorder
}

func (p *renderPass) SetViewport(x, y, width, height, minDepth, maxDepth float32) error {
	_, err := call(p.v, "setViewport", x, y, width, height, minDepth, maxDepth)
	return wrapErr("setViewport", err)
}

func (p *renderPass) SetScissorRect(x, y, width, height uint32) error {
	_, err := call(p.v, "setScissorRect", x, y, width, height)
	return wrapErr("setScissorRect", err)
}

func (p *renderPass) ExecuteBundles(bundles []hal.RenderBundle) error {
	list := make([]any, len(bundles))
	for i, b := range bundles {
		v, err := unwrap(b, fmt.Sprintf("render bundle %d", i))
		if err != nil {
			return err
		}
		list[i] = v
	}
	_, err := call(p.v, "executeBundles", list)
	return wrapErr("executeBundles", err)
}

func (p *renderPass) End() error {
	_, err := call(p.v, "end")
	return wrapErr("end", err)
}

type renderBundleEncoder struct {
	drawRecorder
}

func (e *renderBundleEncoder) Finish(desc hal.Object) (hal.RenderBundle, error) {
	arg, err := descriptor(desc)
	if err != nil {
		return nil, err
	}
	v, err := call(e.v, "finish", arg)
	if err != nil {
		return nil, wrapErr("finish", err)
	}
	return handle{v}, nil
}
