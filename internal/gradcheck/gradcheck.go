// Package gradcheck verifies backpropagated gradients against central finite
// differences.
//
// For a coordinate k of an input or parameter vector v the numerical
// estimate is
//
//	[L(v + δ·e_k) - L(v - δ·e_k)] / (2δ)
//
// and the analytic and numerical vectors are compared with the normalized L1
// distance (1/N)·‖g_bprop - g_fdiff‖₁. The tolerance is an empirical
// threshold: δ has to be small enough to approximate the derivative and
// large enough to stay above floating-point noise.
package gradcheck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/born-ml/backprop/internal/nn"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrGradientCheck is returned when analytic and numerical gradients disagree.
var ErrGradientCheck = errors.New("gradient check failed")

// Config controls a gradient check.
type Config struct {
	Delta     float64 // Finite-difference step δ
	Tolerance float64 // Maximum normalized L1 distance
}

// DefaultConfig returns δ = 1e-5 and tolerance 1e-6.
func DefaultConfig() Config {
	return Config{
		Delta:     1e-5,
		Tolerance: 1e-6,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Delta == 0 {
		c.Delta = d.Delta
	}
	if c.Tolerance == 0 {
		c.Tolerance = d.Tolerance
	}
	return c
}

// Report pairs an analytic gradient with its finite-difference estimate.
type Report struct {
	Target    string    // "input" or the parameter name
	Analytic  []float64 // Backpropagated gradient
	Numeric   []float64 // Finite-difference gradient
	Distance  float64   // (1/N)·‖Analytic - Numeric‖₁
	Tolerance float64
}

// Passed reports whether the distance is below the tolerance.
func (r Report) Passed() bool {
	return r.Distance < r.Tolerance
}

// String formats the report as a single line.
func (r Report) String() string {
	status := "ok"
	if !r.Passed() {
		status = "FAIL"
	}
	return fmt.Sprintf("%-4s %-16s n=%-4d dist=%.3e tol=%.1e", status, r.Target, len(r.Analytic), r.Distance, r.Tolerance)
}

// CheckError lists the reports that exceeded their tolerance.
type CheckError struct {
	Machine  string
	Failures []Report
}

// Error implements the error interface.
func (e *CheckError) Error() string {
	targets := make([]string, len(e.Failures))
	for i, r := range e.Failures {
		targets[i] = fmt.Sprintf("%s (dist %.3e >= %.1e)", r.Target, r.Distance, r.Tolerance)
	}
	return fmt.Sprintf("%v for %s: %s", ErrGradientCheck, e.Machine, strings.Join(targets, ", "))
}

// Unwrap returns ErrGradientCheck.
func (e *CheckError) Unwrap() error {
	return ErrGradientCheck
}

// CheckInput compares dL/dx from Backward with finite differences over x.
func CheckInput(m *nn.Machine, x, y *mat.VecDense, cfg Config) (Report, error) {
	cfg = cfg.withDefaults()

	grads, err := analytic(m, x, y)
	if err != nil {
		return Report{}, err
	}
	bprop := vecData(grads[0].Input)

	var evalErr error
	loss := func(xs []float64) float64 {
		v, err := m.Forward(mat.NewVecDense(len(xs), xs), y)
		if err != nil && evalErr == nil {
			evalErr = err
		}
		return v
	}

	numeric := fd.Gradient(nil, loss, vecData(x), &fd.Settings{
		Formula: fd.Central,
		Step:    cfg.Delta,
	})
	if evalErr != nil {
		return Report{}, evalErr
	}

	return newReport("input", bprop, numeric, cfg), nil
}

// CheckParameter compares dL/dW for p with finite differences over its
// values. p must belong to m. Values are restored before returning.
func CheckParameter(m *nn.Machine, p *nn.Parameter, x, y *mat.VecDense, cfg Config) (Report, error) {
	cfg = cfg.withDefaults()

	if _, err := analytic(m, x, y); err != nil {
		return Report{}, err
	}
	bprop := append([]float64(nil), p.Grad()...)
	original := append([]float64(nil), p.Data()...)
	defer copy(p.Data(), original)

	var evalErr error
	loss := func(ws []float64) float64 {
		copy(p.Data(), ws)
		v, err := m.Forward(x, y)
		if err != nil && evalErr == nil {
			evalErr = err
		}
		return v
	}

	numeric := fd.Gradient(nil, loss, original, &fd.Settings{
		Formula: fd.Central,
		Step:    cfg.Delta,
	})
	if evalErr != nil {
		return Report{}, evalErr
	}

	return newReport(p.Name(), bprop, numeric, cfg), nil
}

// CheckMachine checks the input gradient and every parameter gradient.
//
// All reports are returned; if any failed the error is a *CheckError
// wrapping ErrGradientCheck.
func CheckMachine(m *nn.Machine, x, y *mat.VecDense, cfg Config) ([]Report, error) {
	input, err := CheckInput(m, x, y, cfg)
	if err != nil {
		return nil, err
	}
	reports := []Report{input}

	for _, p := range m.Parameters() {
		r, err := CheckParameter(m, p, x, y, cfg)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	m.ZeroGrad()

	var failures []Report
	for _, r := range reports {
		if !r.Passed() {
			failures = append(failures, r)
		}
	}
	if len(failures) > 0 {
		return reports, &CheckError{Machine: m.String(), Failures: failures}
	}
	return reports, nil
}

// CheckModule wraps a single module and loss in a Machine and checks it.
func CheckModule(module nn.Module, loss nn.Loss, x, y *mat.VecDense, cfg Config) ([]Report, error) {
	m, err := nn.NewMachine(loss, module)
	if err != nil {
		return nil, err
	}
	return CheckMachine(m, x, y, cfg)
}

// analytic runs a clean forward/backward pass.
func analytic(m *nn.Machine, x, y *mat.VecDense) ([]nn.Gradient, error) {
	m.ZeroGrad()
	if _, err := m.Forward(x, y); err != nil {
		return nil, err
	}
	return m.Backward()
}

func newReport(target string, bprop, numeric []float64, cfg Config) Report {
	return Report{
		Target:    target,
		Analytic:  bprop,
		Numeric:   numeric,
		Distance:  floats.Distance(bprop, numeric, 1) / float64(len(bprop)),
		Tolerance: cfg.Tolerance,
	}
}

func vecData(v *mat.VecDense) []float64 {
	return mat.VecDenseCopyOf(v).RawVector().Data
}
