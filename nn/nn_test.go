// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/born-ml/backprop/nn"
	"github.com/born-ml/backprop/optim"
	"github.com/born-ml/backprop/tensor"
	"gonum.org/v1/gonum/mat"
)

// TestModuleInterface verifies that concrete types implement Module interface.
func TestModuleInterface(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name   string
		module nn.Module
		in     int
		out    int
	}{
		{"Linear", nn.NewLinear(4, 3, rng), 4, 3},
		{"Bias", nn.NewBias(4, rng), 4, 4},
		{"RBF", nn.NewRBF(4, 2, rng), 4, 2},
		{"Sigmoid", nn.NewSigmoid(4), 4, 4},
		{"Tanh", nn.NewTanh(4), 4, 4},
		{"NegExp", nn.NewNegExp(4), 4, 4},
		{"Softmax", nn.NewSoftmax(4), 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.module.InDim() != tt.in || tt.module.OutDim() != tt.out {
				t.Fatalf("dims = %d→%d, want %d→%d", tt.module.InDim(), tt.module.OutDim(), tt.in, tt.out)
			}

			y, err := tt.module.Forward(mat.NewVecDense(tt.in, nil))
			if err != nil {
				t.Fatal(err)
			}
			if y.Len() != tt.out {
				t.Errorf("output length = %d, want %d", y.Len(), tt.out)
			}

			dx, err := tt.module.Backward(mat.NewVecDense(tt.out, nil))
			if err != nil {
				t.Fatal(err)
			}
			if dx.Len() != tt.in {
				t.Errorf("input gradient length = %d, want %d", dx.Len(), tt.in)
			}
		})
	}
}

func TestMachineWithOptimizer(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	m, err := nn.NewMachine(nn.NewEuclideanLoss(2),
		nn.NewLinear(3, 2, rng),
		nn.NewBias(2, rng),
		nn.NewSigmoid(2),
	)
	if err != nil {
		t.Fatal(err)
	}

	x := mat.NewVecDense(3, []float64{1, 0.5, -1})
	y := mat.NewVecDense(2, []float64{0, 1})
	optimizer := optim.NewSGD(m.Parameters(), optim.SGDConfig{LR: 0.5})

	first, err := m.Forward(x, y)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 50; i++ {
		if _, err := m.Forward(x, y); err != nil {
			t.Fatal(err)
		}
		if _, err := m.Backward(); err != nil {
			t.Fatal(err)
		}
		optimizer.Step()
		optimizer.ZeroGrad()
	}
	last, err := m.Forward(x, y)
	if err != nil {
		t.Fatal(err)
	}
	if last >= first {
		t.Errorf("loss did not decrease: %f -> %f", first, last)
	}
}

func TestErrors(t *testing.T) {
	_, err := nn.NewMachine(nn.NewEuclideanLoss(3), nn.NewSigmoid(2))
	if !errors.Is(err, nn.ErrShapeMismatch) {
		t.Errorf("NewMachine error = %v, want ErrShapeMismatch", err)
	}
	var shapeErr *nn.ShapeError
	if !errors.As(err, &shapeErr) {
		t.Errorf("NewMachine error is not a *ShapeError: %v", err)
	}

	if _, err := nn.NewSigmoid(2).Backward(mat.NewVecDense(2, nil)); !errors.Is(err, nn.ErrUninitializedState) {
		t.Errorf("Backward error = %v, want ErrUninitializedState", err)
	}

	p := nn.NewParameter("w", tensor.Matrix(2, 3))
	nn.Xavier(p, 3, 2, rand.New(rand.NewSource(3)))
	if p.Len() != 6 {
		t.Errorf("parameter length = %d, want 6", p.Len())
	}
}
