// Package nn implements the differentiable modules of a learning machine.
//
// This package provides:
//   - Module interface: forward/backward contract for every building block
//   - Parameter: owned weight buffer with a gradient accumulator
//   - Linear, Bias, RBF: parameterized modules
//   - Sigmoid, Tanh, Softmax, NegExp: element-wise or normalizing modules
//   - Loss functions: EuclideanLoss, CrossEntropyLoss
//   - Machine: ordered chain of modules plus a terminal loss
//
// All modules operate on single example vectors (*mat.VecDense).
package nn

import (
	"gonum.org/v1/gonum/mat"
)

// Module is the base interface for all differentiable components.
//
// Every module must implement:
//   - Forward: Compute output from input, caching what Backward needs
//   - Backward: Map dL/dY to dL/dX, accumulating dL/dW for owned parameters
//   - Parameters: Return all trainable parameters
//
// Backward always refers to the most recent Forward call. Calling it before
// any Forward returns ErrUninitializedState.
//
//	m, err := nn.NewMachine(nn.NewEuclideanLoss(2),
//	    nn.NewLinear(3, 2, rng),
//	    nn.NewBias(2, rng),
//	    nn.NewSigmoid(2),
//	)
type Module interface {
	// Name identifies the module kind (e.g., "Linear").
	Name() string

	// InDim is the length of vectors accepted by Forward.
	InDim() int

	// OutDim is the length of vectors returned by Forward.
	OutDim() int

	// Forward computes the output of the module for input x.
	//
	// Returns a ShapeError if len(x) != InDim().
	Forward(x *mat.VecDense) (*mat.VecDense, error)

	// Backward computes dL/dX from dL/dY.
	//
	// Parameterized modules add dL/dW to their parameter gradients.
	Backward(dy *mat.VecDense) (*mat.VecDense, error)

	// Parameters returns all trainable parameters of this module.
	//
	// Returns nil for modules without trainable parameters.
	Parameters() []*Parameter
}

// activation caches the last forward pair of a module.
type activation struct {
	x *mat.VecDense
	y *mat.VecDense
}

func (a *activation) store(x, y *mat.VecDense) {
	a.x = mat.VecDenseCopyOf(x)
	a.y = mat.VecDenseCopyOf(y)
}

func (a *activation) ready() bool {
	return a.x != nil
}

// elementwise validates a forward call on an n-to-n module.
func elementwise(op string, n int, x *mat.VecDense) error {
	return checkLen(op, n, x.Len())
}

// prepareBackward validates a backward call against the cached activation.
func (a *activation) prepareBackward(op string, out int, dy *mat.VecDense) error {
	if !a.ready() {
		return uninitialized(op)
	}
	return checkLen(op, out, dy.Len())
}
