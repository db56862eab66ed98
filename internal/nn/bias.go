package nn

import (
	"math/rand"

	"github.com/born-ml/backprop/internal/tensor"
	"gonum.org/v1/gonum/mat"
)

// Bias adds a trainable offset vector: y = x + b.
//
// Backward passes dL/dy through unchanged and accumulates dL/db = dL/dy.
// Offsets start in U(0, 1).
type Bias struct {
	n     int
	bias  *Parameter // [n]
	cache activation
}

// NewBias creates a Bias module of width n.
//
// Offsets are drawn from rng; a nil rng leaves them at zero.
func NewBias(n int, rng *rand.Rand) *Bias {
	bias := NewParameter("bias.weight", tensor.Vector(n))
	if rng != nil {
		UnitInterval(bias, rng)
	}
	return &Bias{n: n, bias: bias}
}

// Name returns "Bias".
func (b *Bias) Name() string { return "Bias" }

// InDim returns the module width.
func (b *Bias) InDim() int { return b.n }

// OutDim returns the module width.
func (b *Bias) OutDim() int { return b.n }

// Forward computes y = x + b.
func (b *Bias) Forward(x *mat.VecDense) (*mat.VecDense, error) {
	if err := elementwise("Bias.Forward", b.n, x); err != nil {
		return nil, err
	}

	y := mat.NewVecDense(b.n, nil)
	y.AddVec(x, b.bias.Vector())

	b.cache.store(x, y)
	return y, nil
}

// Backward returns dy and accumulates it into the bias gradient.
func (b *Bias) Backward(dy *mat.VecDense) (*mat.VecDense, error) {
	if err := b.cache.prepareBackward("Bias.Backward", b.n, dy); err != nil {
		return nil, err
	}

	g := b.bias.GradVector()
	g.AddVec(g, dy)

	return mat.VecDenseCopyOf(dy), nil
}

// Parameters returns [bias].
func (b *Bias) Parameters() []*Parameter {
	return []*Parameter{b.bias}
}

// Offset returns the bias parameter.
func (b *Bias) Offset() *Parameter {
	return b.bias
}
