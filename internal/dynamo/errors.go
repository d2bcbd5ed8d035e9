package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidLayout indicates missing rings, zero pockets or inconsistent geometry.
	ErrInvalidLayout = errors.New("dynamo: invalid wheel layout")

	// ErrInvalidConfig indicates a tunable outside its valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid physics config")

	// ErrUnstable indicates the simulation became numerically unstable.
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")

	// ErrStepCap indicates a spin hit the sub-step safety cap and was force-stopped.
	ErrStepCap = errors.New("dynamo: sub-step cap reached")

	// ErrTickLimit indicates a run reached its tick budget before the ball was captured.
	ErrTickLimit = errors.New("dynamo: tick limit reached before capture")

	// ErrUnknownParam indicates a named tuning parameter does not exist.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")
)

// SimError wraps an error with simulation context.
type SimError struct {
	Tick    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}
