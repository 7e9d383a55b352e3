package hal

import "errors"

// ErrUnavailable is returned when no GPU capability or adapter exists.
var ErrUnavailable = errors.New("gpubind: webgpu is not available")

// ErrPlatformNotRegistered is returned by Lookup for unknown platform names.
var ErrPlatformNotRegistered = errors.New("hal: platform not registered")

// ErrForeignHandle is returned when an argument object carries a handle that
// belongs to another platform.
var ErrForeignHandle = errors.New("hal: handle belongs to another platform")
