//go:build js && wasm

package browser

import (
	"context"
	"errors"
	"syscall/js"
	"testing"

	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gputypes"
)

type foreignView struct{}

func (foreignView) Label() string { return "foreign" }

func TestToJS(t *testing.T) {
	obj := hal.Object{
		"size":   uint64(64),
		"usage":  gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		"label":  "vertices",
		"colors": []any{map[string]any{"r": 1.0}},
		"names":  []string{"a", "b"},
	}
	got, err := toJS(obj)
	if err != nil {
		t.Fatalf("toJS() error = %v", err)
	}
	v := js.ValueOf(got)
	if v.Get("size").Int() != 64 {
		t.Errorf("size = %v, want 64", v.Get("size"))
	}
	if v.Get("usage").Int() != 0x28 {
		t.Errorf("usage = %v, want 0x28", v.Get("usage"))
	}
	if v.Get("colors").Index(0).Get("r").Float() != 1 {
		t.Errorf("colors[0].r = %v, want 1", v.Get("colors").Index(0).Get("r"))
	}
	if v.Get("names").Length() != 2 {
		t.Errorf("names length = %d, want 2", v.Get("names").Length())
	}
}

func TestToJS_ForeignHandle(t *testing.T) {
	_, err := toJS(hal.Object{"view": foreignView{}})
	if !errors.Is(err, hal.ErrForeignHandle) {
		t.Errorf("toJS() error = %v, want ErrForeignHandle", err)
	}
}

func TestCall_Exception(t *testing.T) {
	thrower := js.Global().Get("Function").New("throw new TypeError('bad descriptor')")
	obj := js.Global().Get("Object").New()
	obj.Set("boom", thrower)

	_, err := call(obj, "boom")
	var jerr *JSError
	if !errors.As(err, &jerr) {
		t.Fatalf("call() error = %v, want *JSError", err)
	}
	if jerr.Name != "TypeError" || jerr.Message != "bad descriptor" {
		t.Errorf("JSError = %+v, want TypeError: bad descriptor", jerr)
	}
}

func TestAwait_NotAPromise(t *testing.T) {
	v, err := await(context.Background(), js.ValueOf(7))
	if err != nil || v.Int() != 7 {
		t.Errorf("await(7) = %v, %v, want 7, nil", v, err)
	}
}

func TestAwait_Canceled(t *testing.T) {
	pending := js.Global().Get("Promise").New(js.FuncOf(func(this js.Value, args []js.Value) any { return nil }))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := await(ctx, pending); !errors.Is(err, context.Canceled) {
		t.Errorf("await() error = %v, want context.Canceled", err)
	}
}
