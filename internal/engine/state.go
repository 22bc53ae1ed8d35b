package engine

// State is the locomotive power state.
type State int

const (
	StateOff State = iota
	StateIdle
	StateRunning
	StateBraking
	// StateError is reserved for future fault injection. No operation
	// currently transitions into it.
	StateError
)

// String returns the display label for the state.
func (s State) String() string {
	switch s {
	case StateOff:
		return "Off"
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StateBraking:
		return "Braking"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}
