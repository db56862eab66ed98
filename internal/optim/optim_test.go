package optim_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/born-ml/backprop/internal/nn"
	"github.com/born-ml/backprop/internal/optim"
	"github.com/born-ml/backprop/internal/tensor"
	"gonum.org/v1/gonum/mat"
)

// Helper to check float equality with tolerance.
func floatEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func scalarParam(t *testing.T, value float64) *nn.Parameter {
	t.Helper()
	p := nn.NewParameter("x", tensor.Vector(1))
	if err := p.Set([]float64{value}); err != nil {
		t.Fatal(err)
	}
	return p
}

// TestSGD_SimpleUpdate tests SGD without momentum.
func TestSGD_SimpleUpdate(t *testing.T) {
	param := scalarParam(t, 2.0)
	optimizer := optim.NewSGD([]*nn.Parameter{param}, optim.SGDConfig{LR: 0.1})

	param.Grad()[0] = 1.0
	optimizer.Step()

	// Expected: x_new = x_old - lr * grad = 2.0 - 0.1 * 1.0 = 1.9
	if got := param.Data()[0]; !floatEqual(got, 1.9, 1e-12) {
		t.Errorf("SGD update: got %f, want %f", got, 1.9)
	}
}

// TestSGD_WithMomentum tests SGD with momentum.
func TestSGD_WithMomentum(t *testing.T) {
	param := scalarParam(t, 1.0)
	optimizer := optim.NewSGD([]*nn.Parameter{param}, optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	// First step: velocity = 1.0, x = 1.0 - 0.1 = 0.9
	param.Grad()[0] = 1.0
	optimizer.Step()
	if got := param.Data()[0]; !floatEqual(got, 0.9, 1e-12) {
		t.Errorf("Step 1: got %f, want 0.9", got)
	}

	// Second step: velocity = 0.9 * 1.0 + 1.0 = 1.9, x = 0.9 - 0.19 = 0.71
	optimizer.Step()
	if got := param.Data()[0]; !floatEqual(got, 0.71, 1e-12) {
		t.Errorf("Step 2: got %f, want 0.71", got)
	}
}

func TestSGD_ZeroGrad(t *testing.T) {
	param := scalarParam(t, 1.0)
	optimizer := optim.NewSGD([]*nn.Parameter{param}, optim.SGDConfig{})

	param.Grad()[0] = 3.0
	optimizer.ZeroGrad()

	if param.Grad()[0] != 0 {
		t.Errorf("ZeroGrad: grad = %f, want 0", param.Grad()[0])
	}
}

func TestSGD_GetSetLR(t *testing.T) {
	optimizer := optim.NewSGD(nil, optim.SGDConfig{})
	if optimizer.GetLR() != 0.01 {
		t.Errorf("default LR = %f, want 0.01", optimizer.GetLR())
	}

	optimizer.SetLR(0.5)
	if optimizer.GetLR() != 0.5 {
		t.Errorf("LR after SetLR = %f, want 0.5", optimizer.GetLR())
	}
}

// TestSGD_MatchesMachineUpdate checks that plain SGD is Machine.Update.
func TestSGD_MatchesMachineUpdate(t *testing.T) {
	build := func() *nn.Machine {
		rng := rand.New(rand.NewSource(5))
		m, err := nn.NewMachine(nn.NewEuclideanLoss(2),
			nn.NewLinear(3, 2, rng),
			nn.NewBias(2, rng),
			nn.NewSigmoid(2),
		)
		if err != nil {
			t.Fatal(err)
		}
		return m
	}
	x := mat.NewVecDense(3, []float64{1, -1, 0.5})
	y := mat.NewVecDense(2, []float64{0, 1})

	a, b := build(), build()
	optimizer := optim.NewSGD(b.Parameters(), optim.SGDConfig{LR: 0.3})

	for i := 0; i < 5; i++ {
		for _, m := range []*nn.Machine{a, b} {
			if _, err := m.Forward(x, y); err != nil {
				t.Fatal(err)
			}
			if _, err := m.Backward(); err != nil {
				t.Fatal(err)
			}
		}
		a.Update(0.3)
		optimizer.Step()
		optimizer.ZeroGrad()
	}

	pa, pb := a.Parameters(), b.Parameters()
	for i := range pa {
		for k := range pa[i].Data() {
			if pa[i].Data()[k] != pb[i].Data()[k] {
				t.Errorf("param %s[%d]: Update %f != SGD %f", pa[i].Name(), k, pa[i].Data()[k], pb[i].Data()[k])
			}
		}
	}
}

func TestAdam_SimpleUpdate(t *testing.T) {
	param := scalarParam(t, 1.0)
	optimizer := optim.NewAdam([]*nn.Parameter{param}, optim.AdamConfig{LR: 0.1})

	// With bias correction the first step moves by lr * sign(grad).
	param.Grad()[0] = 0.5
	optimizer.Step()

	if got := param.Data()[0]; !floatEqual(got, 0.9, 1e-6) {
		t.Errorf("Adam step: got %f, want 0.9", got)
	}
	if optimizer.GetTimestep() != 1 {
		t.Errorf("Timestep = %d, want 1", optimizer.GetTimestep())
	}
}

func TestAdam_Defaults(t *testing.T) {
	optimizer := optim.NewAdam(nil, optim.AdamConfig{})
	if optimizer.GetLR() != 0.001 {
		t.Errorf("default LR = %f, want 0.001", optimizer.GetLR())
	}
	optimizer.SetLR(0.01)
	if optimizer.GetLR() != 0.01 {
		t.Errorf("LR after SetLR = %f, want 0.01", optimizer.GetLR())
	}
}

// TestConvergence_SimpleQuadratic minimizes f(x) = (x - 3)².
func TestConvergence_SimpleQuadratic(t *testing.T) {
	tests := []struct {
		name string
		tol  float64
		opt  func(p *nn.Parameter) optim.Optimizer
	}{
		{"sgd", 1e-6, func(p *nn.Parameter) optim.Optimizer {
			return optim.NewSGD([]*nn.Parameter{p}, optim.SGDConfig{LR: 0.1})
		}},
		{"momentum", 1e-6, func(p *nn.Parameter) optim.Optimizer {
			return optim.NewSGD([]*nn.Parameter{p}, optim.SGDConfig{LR: 0.05, Momentum: 0.5})
		}},
		{"adam", 5e-2, func(p *nn.Parameter) optim.Optimizer {
			return optim.NewAdam([]*nn.Parameter{p}, optim.AdamConfig{LR: 0.1})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			param := scalarParam(t, 0.0)
			optimizer := tt.opt(param)

			for i := 0; i < 2000; i++ {
				optimizer.ZeroGrad()
				param.Grad()[0] = 2 * (param.Data()[0] - 3)
				optimizer.Step()
			}

			if got := param.Data()[0]; !floatEqual(got, 3.0, tt.tol) {
				t.Errorf("converged to %f, want 3.0", got)
			}
		})
	}
}
