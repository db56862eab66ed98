// Package optim implements optimization algorithms for training machines.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Optimizers read the gradients accumulated in each nn.Parameter by
// Machine.Backward and update the parameter values in place.
//
// Example usage:
//
//	optimizer := optim.NewSGD(machine.Parameters(), optim.SGDConfig{
//	    LR:       0.1,
//	    Momentum: 0.9,
//	})
//
//	for epoch := range epochs {
//	    for _, ex := range examples {
//	        machine.Forward(ex.X, ex.Y)
//	        machine.Backward()
//	        optimizer.Step()
//	        optimizer.ZeroGrad()
//	    }
//	}
package optim

import (
	"github.com/born-ml/backprop/internal/nn"
)

// Optimizer names accepted on the command line and in BACKPROP_OPTIMIZER.
// NameSGD selects plain Machine.Update and has no optimizer state.
const (
	NameSGD      = "sgd"
	NameMomentum = "momentum"
	NameAdam     = "adam"
)

// Optimizer is the base interface for all optimization algorithms.
//
// All optimizers must implement:
//   - Step: Apply gradient updates to parameters
//   - ZeroGrad: Clear gradients before next iteration
//   - GetLR: Get current learning rate (for monitoring/scheduling)
type Optimizer interface {
	// Step applies the accumulated parameter gradients in place.
	Step()

	// ZeroGrad clears all parameter gradients.
	//
	// This should be called after each Step to prevent gradient
	// accumulation from previous iterations.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float64

	// SetLR updates the learning rate.
	SetLR(lr float64)
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float64 // Learning rate
}

func zeroGrads(params []*nn.Parameter) {
	for _, param := range params {
		param.ZeroGrad()
	}
}
