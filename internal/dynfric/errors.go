package dynfric

import (
	"errors"
	"fmt"
)

// Domain errors for hardening-rate evaluation.
var (
	// ErrInvalidConfiguration indicates a mechanism configuration defect,
	// such as an unrecognized object-mass policy.
	ErrInvalidConfiguration = errors.New("dynfric: invalid configuration")

	// ErrShapeMismatch indicates input arrays that cannot be broadcast together.
	ErrShapeMismatch = errors.New("dynfric: input shape mismatch")
)

// ShapeError reports the first input whose length disagrees with the others.
type ShapeError struct {
	Field string
	Len   int
	Want  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s has length %d, want 1 or %d", ErrShapeMismatch, e.Field, e.Len, e.Want)
}

func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}
