package nn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// pointwise is an n-to-n module applying a scalar function per element.
//
// deriv receives the cached input and output so each activation can use
// whichever is cheaper.
type pointwise struct {
	name  string
	n     int
	f     func(x float64) float64
	deriv func(x, y float64) float64
	cache activation
}

func (p *pointwise) Name() string { return p.name }

func (p *pointwise) InDim() int { return p.n }

func (p *pointwise) OutDim() int { return p.n }

func (p *pointwise) Forward(x *mat.VecDense) (*mat.VecDense, error) {
	if err := elementwise(p.name+".Forward", p.n, x); err != nil {
		return nil, err
	}

	y := mat.NewVecDense(p.n, nil)
	for i := 0; i < p.n; i++ {
		y.SetVec(i, p.f(x.AtVec(i)))
	}

	p.cache.store(x, y)
	return y, nil
}

func (p *pointwise) Backward(dy *mat.VecDense) (*mat.VecDense, error) {
	if err := p.cache.prepareBackward(p.name+".Backward", p.n, dy); err != nil {
		return nil, err
	}

	dx := mat.NewVecDense(p.n, nil)
	for i := 0; i < p.n; i++ {
		dx.SetVec(i, dy.AtVec(i)*p.deriv(p.cache.x.AtVec(i), p.cache.y.AtVec(i)))
	}
	return dx, nil
}

func (p *pointwise) Parameters() []*Parameter {
	return nil
}

// Sigmoid is the logistic activation module.
//
// Applies the element-wise function: σ(x) = 1 / (1 + exp(-x))
//
// Backward: dL/dx = dL/dy ⊙ y ⊙ (1 - y). At x = 0 the local derivative is
// exactly 0.25.
type Sigmoid struct {
	pointwise
}

// NewSigmoid creates a Sigmoid module of width n.
func NewSigmoid(n int) *Sigmoid {
	return &Sigmoid{pointwise{
		name:  "Sigmoid",
		n:     n,
		f:     sigmoid,
		deriv: func(_, y float64) float64 { return y * (1 - y) },
	}}
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	// Avoid overflow of exp(-x) for large negative x.
	e := math.Exp(x)
	return e / (1 + e)
}

// Tanh is a hyperbolic tangent activation module.
//
// Applies tanh(x); backward: dL/dx = dL/dy ⊙ (1 - y²).
type Tanh struct {
	pointwise
}

// NewTanh creates a Tanh module of width n.
func NewTanh(n int) *Tanh {
	return &Tanh{pointwise{
		name:  "Tanh",
		n:     n,
		f:     math.Tanh,
		deriv: func(_, y float64) float64 { return 1 - y*y },
	}}
}

// NegExp applies y = exp(-x) element-wise.
//
// Backward: dL/dx = -dL/dy ⊙ y. Commonly placed after RBF to turn
// distances into similarity scores.
type NegExp struct {
	pointwise
}

// NewNegExp creates a NegExp module of width n.
func NewNegExp(n int) *NegExp {
	return &NegExp{pointwise{
		name:  "NegExp",
		n:     n,
		f:     func(x float64) float64 { return math.Exp(-x) },
		deriv: func(_, y float64) float64 { return -y },
	}}
}
