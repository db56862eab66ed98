package nn

import (
	"fmt"

	"github.com/born-ml/backprop/internal/tensor"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Machine chains modules and a terminal loss into a trainable pipeline.
//
// Each module's output becomes the next module's input; the last output is
// scored by the loss. Backward runs the same chain in reverse.
//
// Example:
//
//	m, err := nn.NewMachine(nn.NewEuclideanLoss(2),
//	    nn.NewLinear(3, 2, rng),
//	    nn.NewBias(2, rng),
//	    nn.NewSigmoid(2),
//	)
//
//	for epoch := 0; epoch < epochs; epoch++ {
//	    for _, ex := range examples {
//	        m.Forward(ex.X, ex.Y)
//	        m.Backward()
//	        m.Update(0.1)
//	    }
//	}
//
// A Machine is not safe for concurrent use.
type Machine struct {
	modules   []Module
	loss      Loss
	lastLoss  float64
	output    *mat.VecDense
	forwarded bool
}

// Gradient is the backward result for one module of a Machine.
type Gradient struct {
	Index  int           // Position in the chain
	Module Module        // The module itself
	Input  *mat.VecDense // dL/dx at the module's input
	Params []*Parameter  // Parameters whose Grad() now holds dL/dW
}

// NewMachine creates a Machine from modules followed by loss.
//
// Returns a ShapeError if adjacent dimensions do not line up.
func NewMachine(loss Loss, modules ...Module) (*Machine, error) {
	if loss == nil {
		return nil, fmt.Errorf("NewMachine: loss is required")
	}
	if len(modules) == 0 {
		return nil, fmt.Errorf("NewMachine: at least one module is required")
	}

	for i := 1; i < len(modules); i++ {
		prev, next := modules[i-1], modules[i]
		if prev.OutDim() != next.InDim() {
			return nil, &ShapeError{
				Op:   fmt.Sprintf("NewMachine(%d:%s -> %d:%s)", i-1, prev.Name(), i, next.Name()),
				Want: tensor.Vector(next.InDim()),
				Got:  tensor.Vector(prev.OutDim()),
			}
		}
	}
	last := modules[len(modules)-1]
	if last.OutDim() != loss.Dim() {
		return nil, &ShapeError{
			Op:   fmt.Sprintf("NewMachine(%s -> %s)", last.Name(), loss.Name()),
			Want: tensor.Vector(loss.Dim()),
			Got:  tensor.Vector(last.OutDim()),
		}
	}

	return &Machine{modules: modules, loss: loss}, nil
}

// InDim returns the input length expected by the first module.
func (m *Machine) InDim() int {
	return m.modules[0].InDim()
}

// OutDim returns the prediction length.
func (m *Machine) OutDim() int {
	return m.loss.Dim()
}

// Predict runs the module chain without the loss.
//
// It overwrites the module caches, so Backward needs a fresh Forward after it.
func (m *Machine) Predict(x *mat.VecDense) (*mat.VecDense, error) {
	m.forwarded = false
	out := x
	for i, module := range m.modules {
		next, err := module.Forward(out)
		if err != nil {
			return nil, fmt.Errorf("module %d: %w", i, err)
		}
		out = next
	}
	m.output = out
	return out, nil
}

// Forward runs the chain on x and scores the prediction against y.
func (m *Machine) Forward(x, y *mat.VecDense) (float64, error) {
	out, err := m.Predict(x)
	if err != nil {
		return 0, err
	}

	loss, err := m.loss.Forward(out, y)
	if err != nil {
		return 0, fmt.Errorf("loss: %w", err)
	}

	m.lastLoss = loss
	m.forwarded = true
	return loss, nil
}

// Classify returns the index of the largest prediction component.
func (m *Machine) Classify(x *mat.VecDense) (int, error) {
	out, err := m.Predict(x)
	if err != nil {
		return 0, err
	}
	return floats.MaxIdx(mat.VecDenseCopyOf(out).RawVector().Data), nil
}

// Backward propagates the loss gradient through every module in reverse.
//
// Parameter gradients accumulate until Update or ZeroGrad. The returned
// slice is ordered like the modules.
func (m *Machine) Backward() ([]Gradient, error) {
	if !m.forwarded {
		return nil, fmt.Errorf("Machine.Backward: %w", ErrUninitializedState)
	}

	d, err := m.loss.Backward()
	if err != nil {
		return nil, fmt.Errorf("loss: %w", err)
	}

	grads := make([]Gradient, len(m.modules))
	for i := len(m.modules) - 1; i >= 0; i-- {
		module := m.modules[i]
		d, err = module.Backward(d)
		if err != nil {
			return nil, fmt.Errorf("module %d: %w", i, err)
		}
		grads[i] = Gradient{
			Index:  i,
			Module: module,
			Input:  d,
			Params: module.Parameters(),
		}
	}

	return grads, nil
}

// Update applies w -= lr * dw to every parameter and clears gradients.
func (m *Machine) Update(lr float64) {
	for _, p := range m.Parameters() {
		p.Descend(lr)
		p.ZeroGrad()
	}
}

// ZeroGrad clears all parameter gradients.
func (m *Machine) ZeroGrad() {
	for _, p := range m.Parameters() {
		p.ZeroGrad()
	}
}

// Parameters returns all trainable parameters from all modules.
func (m *Machine) Parameters() []*Parameter {
	var params []*Parameter
	for _, module := range m.modules {
		params = append(params, module.Parameters()...)
	}
	return params
}

// NumParameters returns the total number of trainable scalars.
func (m *Machine) NumParameters() int {
	n := 0
	for _, p := range m.Parameters() {
		n += p.Len()
	}
	return n
}

// Len returns the number of modules in the chain.
func (m *Machine) Len() int {
	return len(m.modules)
}

// Module returns the module at the given index.
//
// Panics if index is out of bounds.
func (m *Machine) Module(index int) Module {
	if index < 0 || index >= len(m.modules) {
		panic("Machine.Module: index out of bounds")
	}
	return m.modules[index]
}

// Loss returns the terminal loss.
func (m *Machine) Loss() Loss {
	return m.loss
}

// LastLoss returns the loss value of the most recent Forward.
func (m *Machine) LastLoss() float64 {
	return m.lastLoss
}

// Argmax returns the index of the largest output of the most recent
// Predict or Forward, or -1 before the first pass.
func (m *Machine) Argmax() int {
	if m.output == nil {
		return -1
	}
	return floats.MaxIdx(mat.VecDenseCopyOf(m.output).RawVector().Data)
}

// String describes the chain, e.g. "Linear(3→2) → Bias(2) → EuclideanLoss(2)".
func (m *Machine) String() string {
	s := ""
	for _, module := range m.modules {
		if module.InDim() == module.OutDim() {
			s += fmt.Sprintf("%s(%d) → ", module.Name(), module.OutDim())
		} else {
			s += fmt.Sprintf("%s(%d→%d) → ", module.Name(), module.InDim(), module.OutDim())
		}
	}
	return s + fmt.Sprintf("%s(%d)", m.loss.Name(), m.loss.Dim())
}
