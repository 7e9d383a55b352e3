//go:build js && wasm

package browser

import (
	"context"
	"fmt"
	"sort"
	"syscall/js"

	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gpucontext"
)

// Name is the registry name of the browser platform.
const Name = "browser"

func init() {
	hal.Register(Name, func() hal.Platform { return New() })
}

// Platform wraps navigator.gpu.
type Platform struct {
	gpu js.Value
}

// New looks up navigator.gpu. A platform without it reports ErrUnavailable
// from RequestAdapter.
func New() *Platform {
	nav := js.Global().Get("navigator")
	if nav.IsUndefined() || nav.IsNull() {
		return &Platform{gpu: js.Undefined()}
	}
	return &Platform{gpu: nav.Get("gpu")}
}

// Name implements hal.Platform.
func (p *Platform) Name() string { return Name }

// Available reports whether the browser exposes WebGPU.
func (p *Platform) Available() bool {
	return !p.gpu.IsUndefined() && !p.gpu.IsNull()
}

// PreferredCanvasFormat implements hal.Platform.
func (p *Platform) PreferredCanvasFormat() string {
	if !p.Available() {
		return "bgra8unorm"
	}
	return p.gpu.Call("getPreferredCanvasFormat").String()
}

// RequestAdapter implements hal.Platform.
func (p *Platform) RequestAdapter(ctx context.Context, opts hal.Object) (hal.Adapter, error) {
	if !p.Available() {
		return nil, hal.ErrUnavailable
	}
	desc, err := descriptor(opts)
	if err != nil {
		return nil, err
	}
	promise, err := call(p.gpu, "requestAdapter", desc)
	if err != nil {
		return nil, err
	}
	a, err := await(ctx, promise)
	if err != nil {
		return nil, err
	}
	if a.IsNull() || a.IsUndefined() {
		return nil, nil
	}
	return &adapter{v: a}, nil
}

type adapter struct {
	v js.Value
}

func (a *adapter) Features() []string {
	list := js.Global().Get("Array").Call("from", a.v.Get("features"))
	names := make([]string, list.Length())
	for i := range names {
		names[i] = list.Index(i).String()
	}
	sort.Strings(names)
	return names
}

func (a *adapter) Info() gpucontext.AdapterInfo {
	info := gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
	if a.v.Get("isFallbackAdapter").Truthy() {
		info.Type = gpucontext.AdapterTypeSoftware
	}
	i := a.v.Get("info")
	if i.Type() != js.TypeObject {
		return info
	}
	for _, key := range []string{"description", "device", "vendor"} {
		if s := i.Get(key); s.Type() == js.TypeString && s.String() != "" {
			info.Name = s.String()
			break
		}
	}
	return info
}

func (a *adapter) RequestDevice(ctx context.Context, desc hal.Object) (hal.Device, error) {
	d, err := descriptor(desc)
	if err != nil {
		return nil, err
	}
	promise, err := call(a.v, "requestDevice", d)
	if err != nil {
		return nil, err
	}
	v, err := await(ctx, promise)
	if err != nil {
		return nil, err
	}
	if v.IsNull() || v.IsUndefined() {
		return nil, nil
	}
	dev := &device{v: v}
	dev.queue = &queue{v: v.Get("queue")}
	dev.onError = js.FuncOf(func(this js.Value, args []js.Value) any {
		e := arg0(args).Get("error")
		hal.Logger().Warn("browser: uncaptured gpu error", "device", label(v), "message", e.Get("message").String())
		return nil
	})
	v.Call("addEventListener", "uncapturederror", dev.onError)
	return dev, nil
}

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
