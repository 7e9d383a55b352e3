package session

import "fmt"

// State is a step of the session walk. Each state is reached once the step
// it names has succeeded.
type State int

const (
	// StateStart is the initial state.
	StateStart State = iota
	// StateAdapterRequested means an adapter was found.
	StateAdapterRequested
	// StateDeviceRequested means a device was created.
	StateDeviceRequested
	// StateCanvasConfigured means the canvas context is bound to the device.
	StateCanvasConfigured
	// StateResourcesCreated means buffers, pipeline and bundle exist and the
	// vertex upload was submitted.
	StateResourcesCreated
	// StateCommandsRecorded means a frame's command buffer is finished.
	StateCommandsRecorded
	// StateSubmitted means the frame was submitted.
	StateSubmitted
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case StateStart:
		return "Start"
	case StateAdapterRequested:
		return "AdapterRequested"
	case StateDeviceRequested:
		return "DeviceRequested"
	case StateCanvasConfigured:
		return "CanvasConfigured"
	case StateResourcesCreated:
		return "ResourcesCreated"
	case StateCommandsRecorded:
		return "CommandsRecorded"
	case StateSubmitted:
		return "Submitted"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Error reports the step that failed and the last state reached before it.
type Error struct {
	// Reached is the last state the session got to.
	Reached State
	// Step names the call that failed, e.g. "create render pipeline".
	Step string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("session: %s (after %s): %v", e.Step, e.Reached, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
