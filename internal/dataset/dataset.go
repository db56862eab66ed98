// Package dataset holds labelled examples for training and evaluating
// machines.
//
// A Dataset is a list of (feature vector, class label) pairs. It is treated
// as immutable once built: Split, Shuffled and Standardize return new
// datasets that share no feature storage with the receiver.
package dataset

import (
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Common errors.
var (
	ErrEmpty        = errors.New("dataset is empty")
	ErrMalformedRow = errors.New("malformed row")
)

// Example is a single labelled feature vector.
type Example struct {
	X     []float64
	Label int
}

// Input returns the features as a vector view backed by X.
func (e Example) Input() *mat.VecDense {
	return mat.NewVecDense(len(e.X), e.X)
}

// Dataset is an in-memory collection of examples.
type Dataset struct {
	Examples    []Example
	NumFeatures int
	NumClasses  int
}

// New builds a Dataset, checking that every example has the same number of
// features and a non-negative label. NumClasses is max(label)+1.
func New(examples []Example) (*Dataset, error) {
	if len(examples) == 0 {
		return nil, ErrEmpty
	}

	features := len(examples[0].X)
	if features == 0 {
		return nil, fmt.Errorf("example 0: %w: no features", ErrMalformedRow)
	}

	classes := 0
	for i, ex := range examples {
		if len(ex.X) != features {
			return nil, fmt.Errorf("example %d: %w: got %d features, want %d", i, ErrMalformedRow, len(ex.X), features)
		}
		if ex.Label < 0 {
			return nil, fmt.Errorf("example %d: %w: negative label %d", i, ErrMalformedRow, ex.Label)
		}
		classes = max(classes, ex.Label+1)
	}

	return &Dataset{
		Examples:    examples,
		NumFeatures: features,
		NumClasses:  classes,
	}, nil
}

// Len returns the number of examples.
func (d *Dataset) Len() int {
	return len(d.Examples)
}

// Target returns the one-hot target vector for example i.
func (d *Dataset) Target(i int) *mat.VecDense {
	return OneHot(d.Examples[i].Label, d.NumClasses)
}

// OneHot returns a vector of length classes with a 1 at label.
//
// Panics if label is out of range.
func OneHot(label, classes int) *mat.VecDense {
	if label < 0 || label >= classes {
		panic(fmt.Sprintf("OneHot: label %d out of range [0, %d)", label, classes))
	}
	v := mat.NewVecDense(classes, nil)
	v.SetVec(label, 1)
	return v
}

// Split divides the examples into a training set with trainFraction of the
// examples and a test set with the rest, after shuffling with rng.
//
// Both halves keep the parent's NumClasses. A nil rng splits in order.
func (d *Dataset) Split(trainFraction float64, rng *rand.Rand) (train, test *Dataset, err error) {
	if trainFraction <= 0 || trainFraction >= 1 {
		return nil, nil, fmt.Errorf("train fraction must be in (0, 1), got %v", trainFraction)
	}

	src := d
	if rng != nil {
		src = d.Shuffled(rng)
	}

	cut := int(float64(src.Len()) * trainFraction)
	if cut == 0 || cut == src.Len() {
		return nil, nil, fmt.Errorf("split of %d examples at %v leaves an empty half: %w", src.Len(), trainFraction, ErrEmpty)
	}

	return src.subset(src.Examples[:cut]), src.subset(src.Examples[cut:]), nil
}

// Shuffled returns a copy of the dataset with examples in random order.
func (d *Dataset) Shuffled(rng *rand.Rand) *Dataset {
	examples := make([]Example, len(d.Examples))
	copy(examples, d.Examples)
	rng.Shuffle(len(examples), func(i, j int) {
		examples[i], examples[j] = examples[j], examples[i]
	})
	return d.subset(examples)
}

// subset copies feature storage so the result is independent of d.
func (d *Dataset) subset(examples []Example) *Dataset {
	owned := make([]Example, len(examples))
	for i, ex := range examples {
		owned[i] = Example{X: append([]float64(nil), ex.X...), Label: ex.Label}
	}
	return &Dataset{
		Examples:    owned,
		NumFeatures: d.NumFeatures,
		NumClasses:  d.NumClasses,
	}
}

// Scaler standardizes features to zero mean and unit variance.
type Scaler struct {
	Mean []float64
	Std  []float64
}

// FitScaler computes per-feature mean and standard deviation.
//
// Features with zero variance get Std = 1 so they pass through centred.
func FitScaler(d *Dataset) *Scaler {
	s := &Scaler{
		Mean: make([]float64, d.NumFeatures),
		Std:  make([]float64, d.NumFeatures),
	}

	column := make([]float64, d.Len())
	for j := 0; j < d.NumFeatures; j++ {
		for i, ex := range d.Examples {
			column[i] = ex.X[j]
		}
		mean, std := stat.MeanStdDev(column, nil)
		if d.Len() < 2 || std == 0 {
			std = 1
		}
		s.Mean[j], s.Std[j] = mean, std
	}
	return s
}

// Apply returns a standardized copy of d.
func (s *Scaler) Apply(d *Dataset) (*Dataset, error) {
	if len(s.Mean) != d.NumFeatures {
		return nil, fmt.Errorf("scaler fitted on %d features, dataset has %d", len(s.Mean), d.NumFeatures)
	}

	examples := make([]Example, d.Len())
	for i, ex := range d.Examples {
		x := make([]float64, len(ex.X))
		for j, v := range ex.X {
			x[j] = (v - s.Mean[j]) / s.Std[j]
		}
		examples[i] = Example{X: x, Label: ex.Label}
	}
	return &Dataset{Examples: examples, NumFeatures: d.NumFeatures, NumClasses: d.NumClasses}, nil
}

// Standardize fits a scaler on d and applies it.
func (d *Dataset) Standardize() (*Dataset, *Scaler) {
	s := FitScaler(d)
	out, _ := s.Apply(d) // feature counts match by construction
	return out, s
}

// ClassCounts returns the number of examples per label.
func (d *Dataset) ClassCounts() []int {
	counts := make([]int, d.NumClasses)
	for _, ex := range d.Examples {
		counts[ex.Label]++
	}
	return counts
}
