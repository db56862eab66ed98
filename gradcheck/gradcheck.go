// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package gradcheck verifies backpropagated gradients against central
// finite differences.
//
// # Basic Usage
//
//	reports, err := gradcheck.CheckMachine(m, x, y, gradcheck.DefaultConfig())
//	var failed *gradcheck.CheckError
//	if errors.As(err, &failed) {
//	    for _, r := range failed.Failures {
//	        fmt.Println(r)
//	    }
//	}
package gradcheck

import (
	"github.com/born-ml/backprop/internal/gradcheck"
	"github.com/born-ml/backprop/nn"
	"gonum.org/v1/gonum/mat"
)

// ErrGradientCheck is wrapped by every *CheckError.
var ErrGradientCheck = gradcheck.ErrGradientCheck

// Config holds the step δ and the tolerance.
type Config = gradcheck.Config

// Report pairs an analytic gradient with its finite-difference estimate.
type Report = gradcheck.Report

// CheckError lists the reports that exceeded their tolerance.
type CheckError = gradcheck.CheckError

// DefaultConfig returns δ = 1e-5 and tolerance 1e-6.
func DefaultConfig() Config {
	return gradcheck.DefaultConfig()
}

// CheckMachine checks the input gradient and every parameter gradient of m.
func CheckMachine(m *nn.Machine, x, y *mat.VecDense, cfg Config) ([]Report, error) {
	return gradcheck.CheckMachine(m, x, y, cfg)
}

// CheckModule wraps module and loss in a Machine and checks it.
func CheckModule(module nn.Module, loss nn.Loss, x, y *mat.VecDense, cfg Config) ([]Report, error) {
	return gradcheck.CheckModule(module, loss, x, y, cfg)
}
