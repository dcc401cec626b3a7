package mdc

import (
	"errors"
	"fmt"
)

// ErrEmptySurface is returned when no grid cell straddles the surface.
var ErrEmptySurface = errors.New("mdc: field has no surface inside its bounding box")

// ErrGridTooLarge is returned when the bounding box needs more cells per
// axis than Options.MaxCells allows.
var ErrGridTooLarge = errors.New("mdc: grid too large")

// ErrUnbounded is returned for functions whose bounding box is not finite.
var ErrUnbounded = errors.New("mdc: bounding box is not finite")

// ConfigError reports an invalid option at construction time.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("mdc: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// InvariantError is raised (as a panic value) when the engine reaches a
// state its tables say cannot happen.
type InvariantError struct {
	Mask    uint8
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("mdc: invariant violated (corner mask %08b): %s", e.Mask, e.Message)
}
