// Package tensor holds the shape bookkeeping shared by parameters and
// modules. Values themselves live in gonum vectors and matrices.
package tensor

import (
	"fmt"
	"strconv"
	"strings"
)

// Shape represents the dimensions of a parameter or activation.
type Shape []int

// Vector returns the shape of an n-element vector.
func Vector(n int) Shape {
	return Shape{n}
}

// Matrix returns the shape of a rows×cols matrix.
func Matrix(rows, cols int) Shape {
	return Shape{rows, cols}
}

// NumElements returns the total number of elements.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// Rows returns the leading dimension, or 1 for scalars.
func (s Shape) Rows() int {
	if len(s) == 0 {
		return 1
	}
	return s[0]
}

// Cols returns the product of the trailing dimensions.
func (s Shape) Cols() int {
	if len(s) < 2 {
		return 1
	}
	return Shape(s[1:]).NumElements()
}

// String formats the shape as (d0×d1×...).
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, dim := range s {
		parts[i] = strconv.Itoa(dim)
	}
	return "(" + strings.Join(parts, "×") + ")"
}
