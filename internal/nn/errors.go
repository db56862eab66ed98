package nn

import (
	"errors"
	"fmt"

	"github.com/born-ml/backprop/internal/tensor"
)

// Common errors.
var (
	ErrShapeMismatch      = errors.New("shape mismatch")
	ErrUninitializedState = errors.New("backward called before forward")
)

// ShapeError provides detailed information about incompatible dimensions.
type ShapeError struct {
	Op   string       // Operation that failed (e.g., "Linear.Forward")
	Want tensor.Shape // Expected shape
	Got  tensor.Shape // Actual shape
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %v: expected %v, got %v", e.Op, ErrShapeMismatch, e.Want, e.Got)
}

// Is reports whether target is ErrShapeMismatch.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShapeMismatch
}

func checkLen(op string, want, got int) error {
	if want != got {
		return &ShapeError{Op: op, Want: tensor.Vector(want), Got: tensor.Vector(got)}
	}
	return nil
}

func uninitialized(op string) error {
	return fmt.Errorf("%s: %w", op, ErrUninitializedState)
}
