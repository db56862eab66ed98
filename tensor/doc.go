// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the shape type used to describe parameters.
//
// Values are stored in gonum vectors and matrices; a Shape only records
// dimensions:
//
//	s := tensor.Matrix(2, 3)
//	s.NumElements() // 6
//	s.String()      // "(2×3)"
package tensor
