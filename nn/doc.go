// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides differentiable modules and the Machine that chains them.
//
// # Overview
//
// This package contains:
//   - Modules: Linear, Bias, RBF
//   - Activations: Sigmoid, Tanh, NegExp, Softmax
//   - Losses: EuclideanLoss, CrossEntropyLoss
//   - Utilities: Machine, Module and Loss interfaces, Parameter
//   - Initialization: Uniform, FanIn, Xavier, UnitInterval, Randn
//
// Every module caches its last forward input, and Backward returns the
// gradient with respect to that input while accumulating parameter
// gradients. A Machine validates at construction that adjacent dimensions
// agree.
//
// # Basic Usage
//
//	import (
//	    "math/rand"
//
//	    "github.com/born-ml/backprop/nn"
//	)
//
//	func main() {
//	    rng := rand.New(rand.NewSource(42))
//
//	    m, err := nn.NewMachine(nn.NewEuclideanLoss(2),
//	        nn.NewLinear(3, 2, rng),
//	        nn.NewBias(2, rng),
//	        nn.NewSigmoid(2),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    loss, _ := m.Forward(x, y)
//	    m.Backward()
//	    m.Update(0.1)
//	}
//
// # Losses
//
// EuclideanLoss is ½‖x − y‖². CrossEntropyLoss expects probabilities, so it
// normally follows a Softmax; the pair backpropagates p − y.
//
// # Errors
//
// Dimension mismatches wrap ErrShapeMismatch (as a *ShapeError). Calling
// Backward before Forward wraps ErrUninitializedState.
package nn
