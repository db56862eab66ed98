package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/backprop/internal/tensor"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// RBF is a radial basis function layer.
//
// Each output unit j owns a template t_j (row j of T, shape [out, in]) and
// reports half the squared Euclidean distance between the input and it:
//
//	y_j = ½ ‖x - t_j‖²
//
// Backward:
//
//	dL/dx    = Σ_j dL/dy_j (x - t_j)
//	dL/dt_j += -dL/dy_j (x - t_j)
type RBF struct {
	in, out   int
	templates *Parameter // [out, in]
	cache     activation
}

// NewRBF creates an RBF layer with templates drawn from N(0, 1).
//
// A nil rng leaves the templates at zero.
func NewRBF(in, out int, rng *rand.Rand) *RBF {
	templates := NewParameter("rbf.templates", tensor.Matrix(out, in))
	if rng != nil {
		Randn(templates, rng)
	}
	return &RBF{in: in, out: out, templates: templates}
}

// NewRBFFromTemplates creates an RBF layer with one output per template.
//
// All templates must have the same non-zero length.
func NewRBFFromTemplates(templates [][]float64) (*RBF, error) {
	if len(templates) == 0 || len(templates[0]) == 0 {
		return nil, fmt.Errorf("NewRBFFromTemplates: at least one non-empty template required")
	}
	in := len(templates[0])
	r := NewRBF(in, len(templates), nil)
	data := r.templates.Data()
	for j, t := range templates {
		if err := checkLen(fmt.Sprintf("NewRBFFromTemplates(template %d)", j), in, len(t)); err != nil {
			return nil, err
		}
		copy(data[j*in:(j+1)*in], t)
	}
	return r, nil
}

// Name returns "RBF".
func (r *RBF) Name() string { return "RBF" }

// InDim returns the template length.
func (r *RBF) InDim() int { return r.in }

// OutDim returns the number of templates.
func (r *RBF) OutDim() int { return r.out }

// Forward computes ½ ‖x - t_j‖² for every template.
func (r *RBF) Forward(x *mat.VecDense) (*mat.VecDense, error) {
	if err := checkLen("RBF.Forward", r.in, x.Len()); err != nil {
		return nil, err
	}

	xs := mat.VecDenseCopyOf(x).RawVector().Data
	diff := make([]float64, r.in)
	y := mat.NewVecDense(r.out, nil)
	for j := 0; j < r.out; j++ {
		floats.SubTo(diff, xs, r.template(j))
		y.SetVec(j, 0.5*floats.Dot(diff, diff))
	}

	r.cache.store(x, y)
	return y, nil
}

// Backward returns Σ_j dy_j (x - t_j) and accumulates the template gradient.
func (r *RBF) Backward(dy *mat.VecDense) (*mat.VecDense, error) {
	if err := r.cache.prepareBackward("RBF.Backward", r.out, dy); err != nil {
		return nil, err
	}

	xs := r.cache.x.RawVector().Data
	dx := make([]float64, r.in)
	diff := make([]float64, r.in)
	grad := r.templates.Grad()

	for j := 0; j < r.out; j++ {
		floats.SubTo(diff, xs, r.template(j))
		g := dy.AtVec(j)
		floats.AddScaled(dx, g, diff)
		floats.AddScaled(grad[j*r.in:(j+1)*r.in], -g, diff)
	}

	return mat.NewVecDense(r.in, dx), nil
}

// Parameters returns [templates].
func (r *RBF) Parameters() []*Parameter {
	return []*Parameter{r.templates}
}

// Templates returns the template parameter.
func (r *RBF) Templates() *Parameter {
	return r.templates
}

func (r *RBF) template(j int) []float64 {
	return r.templates.Data()[j*r.in : (j+1)*r.in]
}
