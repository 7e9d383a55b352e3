//go:build js && wasm

// Command triangle is the browser build of the triangle demo.
//
// It exports a global start(canvas) function that runs the demo on the given
// canvas element and returns a Promise. The Promise resolves with the number
// of submitted command buffers or rejects with the failure:
//
//	const go = new Go();
//	const { instance } = await WebAssembly.instantiateStreaming(fetch("triangle.wasm"), go.importObject);
//	go.run(instance);
//	await start(document.getElementById("render-target"));
//
// Build with GOOS=js GOARCH=wasm go build -o triangle.wasm ./cmd/triangle.
package main

import (
	"context"
	"log/slog"
	"os"
	"syscall/js"

	"github.com/gogpu/gpubind"
	"github.com/gogpu/gpubind/hal/browser"
	"github.com/gogpu/gpubind/session"
)

func main() {
	gpubind.SetLogger(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))

	start := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return reject("start: missing canvas element")
		}
		return promise(func() (any, error) {
			s, err := session.Run(context.Background(), browser.New(), browser.NewCanvas(args[0]))
			if err != nil {
				return nil, err
			}
			return s.Submitted(), nil
		})
	})
	js.Global().Set("start", start)

	select {}
}

// promise runs fn on a new goroutine and settles a JavaScript Promise with
// its result. fn must not run on the callback goroutine because it awaits
// other promises.
func promise(fn func() (any, error)) js.Value {
	executor := js.FuncOf(func(this js.Value, args []js.Value) any {
		resolve, rejectFn := args[0], args[1]
		go func() {
			v, err := fn()
			if err != nil {
				rejectFn.Invoke(js.Global().Get("Error").New(err.Error()))
				return
			}
			resolve.Invoke(v)
		}()
		return nil
	})
	defer executor.Release()
	return js.Global().Get("Promise").New(executor)
}

func reject(msg string) js.Value {
	return js.Global().Get("Promise").Call("reject", js.Global().Get("Error").New(msg))
}
