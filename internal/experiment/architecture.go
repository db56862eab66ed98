// Package experiment trains families of machines over repeated random
// splits of a dataset and records their parameter counts against test error.
package experiment

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/born-ml/backprop/internal/nn"
)

// OutputKind selects the classifier head of an Architecture.
type OutputKind int

const (
	// SoftmaxHead is Linear → Bias → Softmax.
	SoftmaxHead OutputKind = iota
	// RBFHead is RBF → NegExp → Softmax, one template per class.
	RBFHead
)

// String implements fmt.Stringer.
func (k OutputKind) String() string {
	switch k {
	case SoftmaxHead:
		return "softmax"
	case RBFHead:
		return "rbf"
	default:
		return fmt.Sprintf("OutputKind(%d)", int(k))
	}
}

// Architecture describes a machine independent of the data it is built for.
type Architecture struct {
	Name   string
	Hidden []int // Sizes of Linear → Bias → Sigmoid hidden layers.
	Output OutputKind
}

// Build creates a machine for the given feature and class counts, with
// parameters drawn from rng. The loss is always cross-entropy.
func (a Architecture) Build(features, classes int, rng *rand.Rand) (*nn.Machine, error) {
	if features <= 0 || classes <= 0 {
		return nil, fmt.Errorf("%s: features and classes must be positive, got %d and %d", a.Name, features, classes)
	}

	var modules []nn.Module
	prev := features
	for _, h := range a.Hidden {
		if h <= 0 {
			return nil, fmt.Errorf("%s: hidden layer size must be positive, got %d", a.Name, h)
		}
		modules = append(modules,
			nn.NewLinear(prev, h, rng),
			nn.NewBias(h, rng),
			nn.NewSigmoid(h),
		)
		prev = h
	}

	switch a.Output {
	case SoftmaxHead:
		modules = append(modules, nn.NewLinear(prev, classes, rng), nn.NewBias(classes, rng))
	case RBFHead:
		modules = append(modules, nn.NewRBF(prev, classes, rng), nn.NewNegExp(classes))
	default:
		return nil, fmt.Errorf("%s: unknown output %v", a.Name, a.Output)
	}
	modules = append(modules, nn.NewSoftmax(classes))

	m, err := nn.NewMachine(nn.NewCrossEntropyLoss(classes), modules...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Name, err)
	}
	return m, nil
}

// Catalogue returns the architectures compared by the driver: a linear
// softmax classifier and single hidden sigmoid layers of 2, 4, 8 and 16
// units. extended adds two-layer networks and RBF heads.
func Catalogue(extended bool) []Architecture {
	archs := []Architecture{
		{Name: "linear", Output: SoftmaxHead},
		{Name: "sigmoid-2", Hidden: []int{2}},
		{Name: "sigmoid-4", Hidden: []int{4}},
		{Name: "sigmoid-8", Hidden: []int{8}},
		{Name: "sigmoid-16", Hidden: []int{16}},
	}
	if extended {
		archs = append(archs,
			Architecture{Name: "sigmoid-8-8", Hidden: []int{8, 8}},
			Architecture{Name: "sigmoid-16-8", Hidden: []int{16, 8}},
			Architecture{Name: "rbf", Output: RBFHead},
			Architecture{Name: "sigmoid-8-rbf", Hidden: []int{8}, Output: RBFHead},
		)
	}
	return archs
}

// Select filters the extended catalogue by name, keeping the requested
// order. An empty list returns Catalogue(extended).
func Select(names []string, extended bool) ([]Architecture, error) {
	if len(names) == 0 {
		return Catalogue(extended), nil
	}

	byName := make(map[string]Architecture)
	for _, a := range Catalogue(true) {
		byName[a.Name] = a
	}

	out := make([]Architecture, 0, len(names))
	for _, name := range names {
		a, ok := byName[strings.TrimSpace(name)]
		if !ok {
			return nil, fmt.Errorf("unknown architecture %q", name)
		}
		out = append(out, a)
	}
	return out, nil
}
