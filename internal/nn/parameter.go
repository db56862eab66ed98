package nn

import (
	"github.com/born-ml/backprop/internal/tensor"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Parameter represents a trainable weight buffer owned by a module.
//
// Values and gradients are flat row-major slices. Modules view them as gonum
// matrices without copying, so an optimizer updating Data() in place is
// immediately visible to the next Forward.
//
// Example:
//
//	weight := nn.NewParameter("linear.weight", tensor.Matrix(2, 3))
//	w := weight.Matrix()   // *mat.Dense backed by weight.Data()
//	dw := weight.Grad()    // accumulated by Backward
type Parameter struct {
	name  string       // Parameter name (e.g., "weight", "bias")
	shape tensor.Shape // Logical shape
	data  []float64    // Values
	grad  []float64    // Accumulated gradient
}

// NewParameter creates a zero-valued parameter with the given shape.
//
// Panics if the shape has a non-positive dimension.
func NewParameter(name string, shape tensor.Shape) *Parameter {
	if err := shape.Validate(); err != nil {
		panic("NewParameter: " + name + ": " + err.Error())
	}
	n := shape.NumElements()
	return &Parameter{
		name:  name,
		shape: shape.Clone(),
		data:  make([]float64, n),
		grad:  make([]float64, n),
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Shape returns the parameter shape.
func (p *Parameter) Shape() tensor.Shape {
	return p.shape
}

// Len returns the number of scalar values in the parameter.
func (p *Parameter) Len() int {
	return len(p.data)
}

// Data returns the backing value slice. Writes are visible to the module.
func (p *Parameter) Data() []float64 {
	return p.data
}

// Grad returns the accumulated gradient slice.
func (p *Parameter) Grad() []float64 {
	return p.grad
}

// Matrix returns a rows×cols view of the values.
func (p *Parameter) Matrix() *mat.Dense {
	return mat.NewDense(p.shape.Rows(), p.shape.Cols(), p.data)
}

// GradMatrix returns a rows×cols view of the gradient.
func (p *Parameter) GradMatrix() *mat.Dense {
	return mat.NewDense(p.shape.Rows(), p.shape.Cols(), p.grad)
}

// Vector returns a vector view of the values.
func (p *Parameter) Vector() *mat.VecDense {
	return mat.NewVecDense(len(p.data), p.data)
}

// GradVector returns a vector view of the gradient.
func (p *Parameter) GradVector() *mat.VecDense {
	return mat.NewVecDense(len(p.grad), p.grad)
}

// Set copies values into the parameter.
func (p *Parameter) Set(values []float64) error {
	if err := checkLen("Parameter.Set("+p.name+")", len(p.data), len(values)); err != nil {
		return err
	}
	copy(p.data, values)
	return nil
}

// Descend applies one plain gradient descent step: w -= lr * dw.
func (p *Parameter) Descend(lr float64) {
	floats.AddScaled(p.data, -lr, p.grad)
}

// ZeroGrad clears the gradient accumulator.
//
// This should be called before each training iteration to avoid
// accumulating gradients from previous iterations.
func (p *Parameter) ZeroGrad() {
	for i := range p.grad {
		p.grad[i] = 0
	}
}
