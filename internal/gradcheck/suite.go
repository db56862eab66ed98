package gradcheck

import (
	"errors"
	"math"
	"math/rand"

	"github.com/born-ml/backprop/internal/nn"
	"gonum.org/v1/gonum/mat"
)

// Case is a named machine with a fixed input and target.
type Case struct {
	Name    string
	Machine *nn.Machine
	X, Y    *mat.VecDense
}

// Outcome is the result of checking one Case.
type Outcome struct {
	Case    string
	Chain   string
	Reports []Report
	Err     error // nil, a *CheckError, or a forward/backward failure.
}

// Passed reports whether every gradient in the case matched.
func (o Outcome) Passed() bool {
	return o.Err == nil
}

// Suite builds one case per module and loss variant plus composed chains,
// with in dimension in and out dimension out. Weights and inputs are drawn
// from rng.
func Suite(in, out int, rng *rand.Rand) ([]Case, error) {
	type builder struct {
		name    string
		loss    nn.Loss
		target  func() *mat.VecDense
		input   func() *mat.VecDense
		modules func() []nn.Module
	}

	normal := func(n int) func() *mat.VecDense {
		return func() *mat.VecDense { return randn(rng, n) }
	}
	simplex := func(n int) func() *mat.VecDense {
		return func() *mat.VecDense { return positive(rng, n) }
	}
	classOf := func(x func() *mat.VecDense, n int) (func() *mat.VecDense, func() *mat.VecDense) {
		v := x()
		k := argmax(v)
		return func() *mat.VecDense { return v }, func() *mat.VecDense { return oneHot(n, k) }
	}

	ceIn, ceTarget := classOf(simplex(in), in)

	builders := []builder{
		{"linear", nn.NewEuclideanLoss(out), normal(out), normal(in),
			func() []nn.Module { return []nn.Module{nn.NewLinear(in, out, rng)} }},
		{"bias", nn.NewEuclideanLoss(in), normal(in), normal(in),
			func() []nn.Module { return []nn.Module{nn.NewBias(in, rng)} }},
		{"sigmoid", nn.NewEuclideanLoss(in), normal(in), normal(in),
			func() []nn.Module { return []nn.Module{nn.NewSigmoid(in)} }},
		{"tanh", nn.NewEuclideanLoss(in), normal(in), normal(in),
			func() []nn.Module { return []nn.Module{nn.NewTanh(in)} }},
		{"softmax", nn.NewEuclideanLoss(in), normal(in), normal(in),
			func() []nn.Module { return []nn.Module{nn.NewSoftmax(in)} }},
		{"rbf", nn.NewEuclideanLoss(out), normal(out), normal(in),
			func() []nn.Module { return []nn.Module{nn.NewRBF(in, out, rng)} }},
		{"negexp", nn.NewEuclideanLoss(in), normal(in), normal(in),
			func() []nn.Module { return []nn.Module{nn.NewNegExp(in)} }},
		{"euclidean", nn.NewEuclideanLoss(in), normal(in), simplex(in),
			func() []nn.Module { return []nn.Module{nn.NewBias(in, nil)} }},
		{"cross-entropy", nn.NewCrossEntropyLoss(in), ceTarget, ceIn,
			func() []nn.Module { return []nn.Module{nn.NewBias(in, nil)} }},
		{"softmax+cross-entropy", nn.NewCrossEntropyLoss(out), func() *mat.VecDense { return oneHot(out, 0) }, normal(out),
			func() []nn.Module { return []nn.Module{nn.NewSoftmax(out)} }},
		{"mlp", nn.NewCrossEntropyLoss(out), func() *mat.VecDense { return oneHot(out, out-1) }, normal(in),
			func() []nn.Module {
				return []nn.Module{
					nn.NewLinear(in, 10, rng), nn.NewBias(10, rng), nn.NewSigmoid(10),
					nn.NewLinear(10, out, rng), nn.NewBias(out, rng), nn.NewSoftmax(out),
				}
			}},
		{"rbf-head", nn.NewCrossEntropyLoss(out), func() *mat.VecDense { return oneHot(out, 0) }, normal(in),
			func() []nn.Module {
				return []nn.Module{
					nn.NewLinear(in, 4, rng), nn.NewTanh(4),
					nn.NewRBF(4, out, rng), nn.NewNegExp(out), nn.NewSoftmax(out),
				}
			}},
	}

	cases := make([]Case, 0, len(builders))
	for _, b := range builders {
		m, err := nn.NewMachine(b.loss, b.modules()...)
		if err != nil {
			return nil, err
		}
		cases = append(cases, Case{Name: b.name, Machine: m, X: b.input(), Y: b.target()})
	}
	return cases, nil
}

// Run checks every case. Failures do not stop later cases.
func Run(cases []Case, cfg Config) []Outcome {
	outcomes := make([]Outcome, len(cases))
	for i, c := range cases {
		reports, err := CheckMachine(c.Machine, c.X, c.Y, cfg)
		outcomes[i] = Outcome{Case: c.Name, Chain: c.Machine.String(), Reports: reports, Err: err}
	}
	return outcomes
}

// Failed counts outcomes whose gradients disagreed. Other errors are
// returned separately.
func Failed(outcomes []Outcome) (mismatches int, err error) {
	for _, o := range outcomes {
		if o.Err == nil {
			continue
		}
		if errors.Is(o.Err, ErrGradientCheck) {
			mismatches++
			continue
		}
		if err == nil {
			err = o.Err
		}
	}
	return mismatches, err
}

func randn(rng *rand.Rand, n int) *mat.VecDense {
	v := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		v.SetVec(i, rng.NormFloat64())
	}
	return v
}

// positive returns |z|/Σ|z| for normal z, offset away from zero.
func positive(rng *rand.Rand, n int) *mat.VecDense {
	v := mat.NewVecDense(n, nil)
	var sum float64
	for i := 0; i < n; i++ {
		a := math.Abs(rng.NormFloat64()) + 0.01
		v.SetVec(i, a)
		sum += a
	}
	v.ScaleVec(1/sum, v)
	return v
}

func oneHot(n, k int) *mat.VecDense {
	v := mat.NewVecDense(n, nil)
	v.SetVec(k, 1)
	return v
}

func argmax(v *mat.VecDense) int {
	best := 0
	for i := 1; i < v.Len(); i++ {
		if v.AtVec(i) > v.AtVec(best) {
			best = i
		}
	}
	return best
}
