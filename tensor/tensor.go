// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/backprop/internal/tensor"

// Shape represents tensor dimensions.
type Shape = tensor.Shape

// Vector returns the shape of a length-n vector.
func Vector(n int) Shape {
	return tensor.Vector(n)
}

// Matrix returns the shape of a rows×cols matrix.
func Matrix(rows, cols int) Shape {
	return tensor.Matrix(rows, cols)
}
