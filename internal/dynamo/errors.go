package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for parameter handling.
var (
	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrInvalidResolution indicates a non-positive cell size in pixels.
	ErrInvalidResolution = errors.New("dynamo: resolution must be a positive integer")

	// ErrInvalidTimeStep indicates a zero, negative or non-finite time step.
	ErrInvalidTimeStep = errors.New("dynamo: time step must be positive and finite")

	// ErrUnknownMode indicates a render mode name that is not recognised.
	ErrUnknownMode = errors.New("dynamo: unknown render mode")

	// ErrUnknownPreset indicates a preset name that is not registered.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")

	// ErrInvalidColor indicates a color string that could not be parsed.
	ErrInvalidColor = errors.New("dynamo: invalid color")
)

// ParamError wraps an error with the offending parameter.
type ParamError struct {
	Name    string
	Value   float64
	Wrapped error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s=%g: %v", e.Name, e.Value, e.Wrapped)
}

func (e *ParamError) Unwrap() error {
	return e.Wrapped
}
