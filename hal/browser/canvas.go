//go:build js && wasm

package browser

import (
	"fmt"
	"syscall/js"

	"github.com/gogpu/gpubind/hal"
)

// Canvas wraps an HTML canvas element.
type Canvas struct {
	el js.Value
}

// NewCanvas wraps a canvas element.
func NewCanvas(el js.Value) *Canvas {
	return &Canvas{el: el}
}

// CanvasByID looks up a canvas element by id.
func CanvasByID(id string) (*Canvas, error) {
	el := js.Global().Get("document").Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return nil, fmt.Errorf("browser: no element with id %q", id)
	}
	if tag := el.Get("tagName").String(); tag != "CANVAS" {
		return nil, fmt.Errorf("browser: element %q is a %s, not a canvas", id, tag)
	}
	return NewCanvas(el), nil
}

// Element returns the wrapped element.
func (c *Canvas) Element() js.Value { return c.el }

// Context implements hal.Canvas.
func (c *Canvas) Context(kind string) (hal.CanvasContext, error) {
	v, err := call(c.el, "getContext", kind)
	if err != nil {
		return nil, wrapErr("getContext", err)
	}
	if v.IsNull() || v.IsUndefined() {
		return nil, nil
	}
	return &canvasContext{v: v}, nil
}

type canvasContext struct {
	v js.Value
}

func (c *canvasContext) Configure(cfg hal.Object) error {
	arg, err := descriptor(cfg)
	if err != nil {
		return err
	}
	_, err = call(c.v, "configure", arg)
	return wrapErr("configure", err)
}

func (c *canvasContext) CurrentTexture() (hal.Texture, error) {
	v, err := call(c.v, "getCurrentTexture")
	if err != nil {
		return nil, wrapErr("getCurrentTexture", err)
	}
	return &texture{v: v}, nil
}

type texture struct {
	v js.Value
}

func (t *texture) jsValue() js.Value { return t.v }
func (t *texture) Label() string     { return label(t.v) }
func (t *texture) Format() string    { return t.v.Get("format").String() }
func (t *texture) Width() uint32     { return uint32(t.v.Get("width").Int()) }
func (t *texture) Height() uint32    { return uint32(t.v.Get("height").Int()) }

func (t *texture) CreateView(desc hal.Object) (hal.TextureView, error) {
	arg, err := descriptor(desc)
	if err != nil {
		return nil, err
	}
	v, err := call(t.v, "createView", arg)
	if err != nil {
		return nil, wrapErr("createView", err)
	}
	return handle{v}, nil
}

func (t *texture) Destroy() {
	_, _ = call(t.v, "destroy")
}
