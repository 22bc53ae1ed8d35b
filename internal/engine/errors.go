package engine

import "fmt"

// Kind identifies which operation precondition was violated.
type Kind int

const (
	AlreadyRaised Kind = iota
	InvalidStateForPantographLower
	NoPowerToStart
	AlreadyStarted
	InvalidStateForThrottle
	ThrottleAtMaximum
)

// OpError reports a rejected operation. All kinds are precondition
// violations, local and recoverable; none is fatal to the process.
type OpError struct {
	Kind  Kind
	State State // engine state at the time of rejection
	Value int   // offending numeric value where relevant
}

func (e *OpError) Error() string {
	switch e.Kind {
	case AlreadyRaised:
		return "pantograph already raised"
	case InvalidStateForPantographLower:
		return fmt.Sprintf("cannot lower pantograph while engine is %s", e.State)
	case NoPowerToStart:
		return "cannot start engine: pantograph not raised"
	case AlreadyStarted:
		return fmt.Sprintf("engine already started: %s", e.State)
	case InvalidStateForThrottle:
		return fmt.Sprintf("cannot increase throttle in state: %s", e.State)
	case ThrottleAtMaximum:
		return fmt.Sprintf("throttle already at maximum (%d)", e.Value)
	default:
		return fmt.Sprintf("operation rejected in state %s", e.State)
	}
}
