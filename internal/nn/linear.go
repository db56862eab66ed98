package nn

import (
	"math/rand"

	"github.com/born-ml/backprop/internal/tensor"
	"gonum.org/v1/gonum/mat"
)

// Linear implements a fully connected layer without bias.
//
// Performs the transformation: y = W · x
// where:
//   - x is the input vector with length in
//   - W is the weight matrix with shape [out, in]
//   - y is the output vector with length out
//
// Backward:
//
//	dL/dx  = Wᵀ · dL/dy
//	dL/dW += dL/dy · xᵀ
//
// Weights are initialized from U(-1/sqrt(in), 1/sqrt(in)). Chain a Bias
// module after Linear for an affine layer.
type Linear struct {
	in, out int
	weight  *Parameter // [out, in]
	cache   activation
}

// NewLinear creates a new Linear layer with in inputs and out outputs.
//
// Weights are drawn from rng; a nil rng leaves them at zero.
func NewLinear(in, out int, rng *rand.Rand) *Linear {
	weight := NewParameter("linear.weight", tensor.Matrix(out, in))
	if rng != nil {
		FanIn(weight, in, 1.0, rng)
	}
	return &Linear{in: in, out: out, weight: weight}
}

// Name returns "Linear".
func (l *Linear) Name() string { return "Linear" }

// InDim returns the number of input features.
func (l *Linear) InDim() int { return l.in }

// OutDim returns the number of output features.
func (l *Linear) OutDim() int { return l.out }

// Forward computes y = W · x.
func (l *Linear) Forward(x *mat.VecDense) (*mat.VecDense, error) {
	if err := checkLen("Linear.Forward", l.in, x.Len()); err != nil {
		return nil, err
	}

	y := mat.NewVecDense(l.out, nil)
	y.MulVec(l.weight.Matrix(), x)

	l.cache.store(x, y)
	return y, nil
}

// Backward computes dL/dx = Wᵀ · dy and accumulates dL/dW = dy · xᵀ.
func (l *Linear) Backward(dy *mat.VecDense) (*mat.VecDense, error) {
	if err := l.cache.prepareBackward("Linear.Backward", l.out, dy); err != nil {
		return nil, err
	}

	dx := mat.NewVecDense(l.in, nil)
	dx.MulVec(l.weight.Matrix().T(), dy)

	g := l.weight.GradMatrix()
	g.RankOne(g, 1, dy, l.cache.x)

	return dx, nil
}

// Parameters returns [weight].
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter {
	return l.weight
}
