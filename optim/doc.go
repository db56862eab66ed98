// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training machines.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// Optimizers update parameter buffers in place from the gradients that
// Machine.Backward accumulated. Without an optimizer, Machine.Update(lr)
// performs a plain gradient step.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/backprop/nn"
//	    "github.com/born-ml/backprop/optim"
//	)
//
//	func main() {
//	    m, _ := nn.NewMachine(nn.NewCrossEntropyLoss(10),
//	        nn.NewLinear(784, 10, rng),
//	        nn.NewBias(10, rng),
//	        nn.NewSoftmax(10),
//	    )
//
//	    optimizer := optim.NewAdam(m.Parameters(), optim.AdamConfig{LR: 0.001})
//
//	    for epoch := range 10 {
//	        for _, ex := range examples {
//	            m.Forward(ex.X, ex.Y)
//	            m.Backward()
//	        }
//	        optimizer.Step()
//	        optimizer.ZeroGrad()
//	    }
//	}
//
// # Training Loop Pattern
//
//	for epoch := range numEpochs {
//	    for batch := range batches {
//	        // 1. Accumulate gradients over the batch
//	        for _, ex := range batch {
//	            m.Forward(ex.X, ex.Y)
//	            m.Backward()
//	        }
//
//	        // 2. Update parameters
//	        optimizer.Step()
//
//	        // 3. Zero gradients
//	        optimizer.ZeroGrad()
//	    }
//	}
package optim
