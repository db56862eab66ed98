package nn

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Softmax normalizes a score vector into a probability distribution.
//
// Forward (max-shifted for numerical stability):
//
//	y_i = exp(x_i - max(x)) / Σ_j exp(x_j - max(x))
//
// Backward uses the Jacobian-vector product without materializing the
// Jacobian:
//
//	dL/dx = y ⊙ (dL/dy - ⟨dL/dy, y⟩)
type Softmax struct {
	n     int
	cache activation
}

// NewSoftmax creates a Softmax module of width n.
func NewSoftmax(n int) *Softmax {
	return &Softmax{n: n}
}

// Name returns "Softmax".
func (s *Softmax) Name() string { return "Softmax" }

// InDim returns the module width.
func (s *Softmax) InDim() int { return s.n }

// OutDim returns the module width.
func (s *Softmax) OutDim() int { return s.n }

// Forward computes the softmax of x.
func (s *Softmax) Forward(x *mat.VecDense) (*mat.VecDense, error) {
	if err := elementwise("Softmax.Forward", s.n, x); err != nil {
		return nil, err
	}

	y := softmax(x)
	s.cache.store(x, y)
	return y, nil
}

// Backward computes y ⊙ (dy - ⟨dy, y⟩).
func (s *Softmax) Backward(dy *mat.VecDense) (*mat.VecDense, error) {
	if err := s.cache.prepareBackward("Softmax.Backward", s.n, dy); err != nil {
		return nil, err
	}

	y := s.cache.y
	dot := mat.Dot(dy, y)

	dx := mat.NewVecDense(s.n, nil)
	for i := 0; i < s.n; i++ {
		dx.SetVec(i, y.AtVec(i)*(dy.AtVec(i)-dot))
	}
	return dx, nil
}

// Parameters returns nil (Softmax has no trainable parameters).
func (s *Softmax) Parameters() []*Parameter {
	return nil
}

func softmax(x *mat.VecDense) *mat.VecDense {
	values := mat.VecDenseCopyOf(x).RawVector().Data
	maxVal := floats.Max(values)

	var sum float64
	for i, v := range values {
		values[i] = math.Exp(v - maxVal)
		sum += values[i]
	}
	floats.Scale(1/sum, values)

	return mat.NewVecDense(len(values), values)
}
