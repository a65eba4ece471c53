package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a non-finite value in a particle buffer.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a configuration rejected before stepping.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrDimensionMismatch indicates particle buffers of different lengths.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between particle buffers")
)

// ConfigError wraps ErrInvalidConfig with the offending field.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s=%v: %s", ErrInvalidConfig, e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// InvariantError reports the first non-finite value found after a phase of
// a step.
type InvariantError struct {
	Step     int
	Time     float64
	Particle int
	Buffer   Buffer
	Phase    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): non-finite %s of particle %d after %s",
		e.Step, e.Time, e.Buffer, e.Particle, e.Phase)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvalidState
}
