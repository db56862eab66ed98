// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/backprop/internal/nn"
	"github.com/born-ml/backprop/tensor"
)

// Module is the interface implemented by every differentiable component.
type Module = nn.Module

// Loss is the terminal component of a Machine.
type Loss = nn.Loss

// Parameter is a trainable weight buffer with its gradient accumulator.
type Parameter = nn.Parameter

// NewParameter creates a zero-valued parameter with the given name and shape.
func NewParameter(name string, shape tensor.Shape) *Parameter {
	return nn.NewParameter(name, shape)
}

// Errors

var (
	// ErrShapeMismatch is wrapped by every dimension error.
	ErrShapeMismatch = nn.ErrShapeMismatch
	// ErrUninitializedState is returned by Backward before Forward.
	ErrUninitializedState = nn.ErrUninitializedState
)

// ShapeError describes a dimension mismatch.
type ShapeError = nn.ShapeError

// Machine

// Machine chains modules and a loss.
type Machine = nn.Machine

// Gradient is the backward result for one module of a Machine.
type Gradient = nn.Gradient

// NewMachine creates a Machine from modules followed by loss.
//
// Example:
//
//	m, err := nn.NewMachine(nn.NewCrossEntropyLoss(3),
//	    nn.NewLinear(4, 3, rng),
//	    nn.NewBias(3, rng),
//	    nn.NewSoftmax(3),
//	)
func NewMachine(loss Loss, modules ...Module) (*Machine, error) {
	return nn.NewMachine(loss, modules...)
}

// Modules

// Linear computes y = W·x.
type Linear = nn.Linear

// NewLinear creates a Linear module with weights in ±1/√in. A nil rng
// leaves the weights at zero.
func NewLinear(in, out int, rng *rand.Rand) *Linear {
	return nn.NewLinear(in, out, rng)
}

// Bias computes y = x + b.
type Bias = nn.Bias

// NewBias creates a Bias module with offsets drawn from [0, 1).
func NewBias(n int, rng *rand.Rand) *Bias {
	return nn.NewBias(n, rng)
}

// RBF computes y_j = ½‖x − t_j‖² for templates t_j.
type RBF = nn.RBF

// NewRBF creates an RBF module with normally distributed templates.
func NewRBF(in, out int, rng *rand.Rand) *RBF {
	return nn.NewRBF(in, out, rng)
}

// NewRBFFromTemplates creates an RBF module with fixed initial templates.
func NewRBFFromTemplates(templates [][]float64) (*RBF, error) {
	return nn.NewRBFFromTemplates(templates)
}

// Activations

// Sigmoid applies the logistic function element-wise.
type Sigmoid = nn.Sigmoid

// NewSigmoid creates a Sigmoid of width n.
func NewSigmoid(n int) *Sigmoid {
	return nn.NewSigmoid(n)
}

// Tanh applies the hyperbolic tangent element-wise.
type Tanh = nn.Tanh

// NewTanh creates a Tanh of width n.
func NewTanh(n int) *Tanh {
	return nn.NewTanh(n)
}

// NegExp applies exp(−x) element-wise.
type NegExp = nn.NegExp

// NewNegExp creates a NegExp of width n.
func NewNegExp(n int) *NegExp {
	return nn.NewNegExp(n)
}

// Softmax normalizes a vector into a probability distribution.
type Softmax = nn.Softmax

// NewSoftmax creates a Softmax of width n.
func NewSoftmax(n int) *Softmax {
	return nn.NewSoftmax(n)
}

// Losses

// EuclideanLoss is ½‖x − y‖².
type EuclideanLoss = nn.EuclideanLoss

// NewEuclideanLoss creates a EuclideanLoss over vectors of length n.
func NewEuclideanLoss(n int) *EuclideanLoss {
	return nn.NewEuclideanLoss(n)
}

// CrossEntropyLoss is −Σ y·log p.
type CrossEntropyLoss = nn.CrossEntropyLoss

// NewCrossEntropyLoss creates a CrossEntropyLoss over n classes.
func NewCrossEntropyLoss(n int) *CrossEntropyLoss {
	return nn.NewCrossEntropyLoss(n)
}

// Initialization

// Uniform fills p from U(−bound, bound).
func Uniform(p *Parameter, bound float64, rng *rand.Rand) {
	nn.Uniform(p, bound, rng)
}

// Xavier fills p from U(−a, a) with a = √(6/(fanIn+fanOut)).
func Xavier(p *Parameter, fanIn, fanOut int, rng *rand.Rand) {
	nn.Xavier(p, fanIn, fanOut, rng)
}

// Randn fills p from N(0, 1).
func Randn(p *Parameter, rng *rand.Rand) {
	nn.Randn(p, rng)
}
