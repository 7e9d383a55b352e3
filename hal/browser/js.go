//go:build js && wasm

package browser

import (
	"context"
	"fmt"
	"reflect"
	"syscall/js"

	"github.com/gogpu/gpubind/hal"
)

// jsValuer is implemented by every handle this platform creates.
type jsValuer interface {
	jsValue() js.Value
}

// JSError is a JavaScript exception or promise rejection.
type JSError struct {
	Name    string
	Message string
}

func (e *JSError) Error() string {
	return fmt.Sprintf("browser: %s: %s", e.Name, e.Message)
}

func jsError(v js.Value) error {
	if v.Type() != js.TypeObject {
		return &JSError{Name: "Error", Message: v.String()}
	}
	return &JSError{Name: v.Get("name").String(), Message: v.Get("message").String()}
}

// call invokes a method and converts a thrown exception into an error.
func call(v js.Value, method string, args ...any) (result js.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if jerr, ok := r.(js.Error); ok {
				err = jsError(jerr.Value)
				return
			}
			panic(r)
		}
	}()
	return v.Call(method, args...), nil
}

// await blocks until the promise settles or ctx is done.
func await(ctx context.Context, promise js.Value) (js.Value, error) {
	if promise.Type() != js.TypeObject || promise.Get("then").Type() != js.TypeFunction {
		return promise, nil
	}
	type settled struct {
		value js.Value
		err   error
	}
	done := make(chan settled, 1)

	onResolve := js.FuncOf(func(this js.Value, args []js.Value) any {
		done <- settled{value: arg0(args)}
		return nil
	})
	defer onResolve.Release()
	onReject := js.FuncOf(func(this js.Value, args []js.Value) any {
		done <- settled{err: jsError(arg0(args))}
		return nil
	})
	defer onReject.Release()

	promise.Call("then", onResolve, onReject)
	select {
	case s := <-done:
		return s.value, s.err
	case <-ctx.Done():
		return js.Undefined(), ctx.Err()
	}
}

func arg0(args []js.Value) js.Value {
	if len(args) == 0 {
		return js.Undefined()
	}
	return args[0]
}

// toJS converts an argument object value into something js.ValueOf accepts.
// Named numeric types such as gputypes.BufferUsage become float64.
func toJS(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return js.Undefined(), nil
	case js.Value:
		return x, nil
	case jsValuer:
		return x.jsValue(), nil
	case hal.Object:
		return toJSMap(x)
	case map[string]any:
		return toJSMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			c, err := toJS(e)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, nil
	case string, bool:
		return x, nil
	case hal.Resource:
		return nil, fmt.Errorf("%w: %T", hal.ErrForeignHandle, v)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Slice:
		out := make([]any, rv.Len())
		for i := range out {
			c, err := toJS(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	default:
		return nil, fmt.Errorf("browser: cannot pass %T to javascript", v)
	}
}

func toJSMap(m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		c, err := toJS(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = c
	}
	return out, nil
}

// descriptor converts an argument object; nil becomes undefined.
func descriptor(obj hal.Object) (any, error) {
	if obj == nil {
		return js.Undefined(), nil
	}
	return toJSMap(obj)
}

// label reads the label property of a WebGPU object.
func label(v js.Value) string {
	l := v.Get("label")
	if l.Type() != js.TypeString {
		return ""
	}
	return l.String()
}
