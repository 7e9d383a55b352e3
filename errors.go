package gpubind

import (
	"errors"

	"github.com/gogpu/gpubind/hal"
)

// ErrUnavailable is returned when the platform has no GPU capability, no
// adapter or no device to offer. It is fatal for a session.
var ErrUnavailable = hal.ErrUnavailable

// ErrStateMisuse matches every error caused by calling an operation outside
// its valid window: recording after Finish, pass calls after End,
// resubmitting a command buffer.
//
//	if errors.Is(err, gpubind.ErrStateMisuse) { ... }
var ErrStateMisuse = errors.New("gpubind: operation outside its valid state")

// stateError is a state misuse error. Each value is its own sentinel and
// also matches ErrStateMisuse.
type stateError struct{ msg string }

func (e *stateError) Error() string { return "gpubind: " + e.msg }

func (e *stateError) Is(target error) bool { return target == ErrStateMisuse }

// State misuse errors.
var (
	// ErrEncoderFinished is returned by any call on a finished command encoder.
	ErrEncoderFinished error = &stateError{"command encoder already finished"}

	// ErrEncoderLocked is returned when the encoder is used while one of its
	// render passes is still open.
	ErrEncoderLocked error = &stateError{"command encoder locked by an open render pass"}

	// ErrPassEnded is returned by any call on an ended render pass.
	ErrPassEnded error = &stateError{"render pass already ended"}

	// ErrBundleFinished is returned by any call on a finished render bundle encoder.
	ErrBundleFinished error = &stateError{"render bundle encoder already finished"}

	// ErrCommandBufferSubmitted is returned when a command buffer is submitted again.
	ErrCommandBufferSubmitted error = &stateError{"command buffer already submitted"}

	// ErrDeviceDestroyed is returned by creation calls on a destroyed device.
	ErrDeviceDestroyed error = &stateError{"device destroyed"}
)

// ErrNilHandle is returned when a nil handle is passed where one is required.
var ErrNilHandle = errors.New("gpubind: nil handle")

// NativeError carries an error reported by the native layer. The façade
// never interprets the payload; callers inspect Err with errors.Is/As.
type NativeError struct {
	// Op is the façade operation that failed, e.g. "createBuffer".
	Op string
	// Err is the diagnostic supplied by the platform.
	Err error
}

func (e *NativeError) Error() string {
	return "gpubind: " + e.Op + ": " + e.Err.Error()
}

func (e *NativeError) Unwrap() error { return e.Err }

// nativeErr wraps err as a *NativeError, passing nil through.
func nativeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &NativeError{Op: op, Err: err}
}
