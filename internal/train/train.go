// Package train runs gradient-descent epochs over a dataset and measures
// classification error.
package train

import (
	"errors"
	"fmt"
	"log"
	"math/rand"

	"github.com/born-ml/backprop/internal/dataset"
	"github.com/born-ml/backprop/internal/nn"
	"github.com/born-ml/backprop/internal/optim"
	"gonum.org/v1/gonum/floats"
)

// Config holds training hyperparameters.
type Config struct {
	Epochs       int
	LearningRate float64
	BatchSize    int  // Examples per update; 1 is per-example SGD.
	Shuffle      bool // Reshuffle the training set every epoch.
	Seed         int64
}

// DefaultConfig returns per-example updates for 50 epochs at lr 0.1.
func DefaultConfig() Config {
	return Config{
		Epochs:       50,
		LearningRate: 0.1,
		BatchSize:    1,
		Shuffle:      true,
		Seed:         1,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive, got %d", c.Epochs)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive, got %v", c.LearningRate)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	return nil
}

// EpochStats summarizes one pass over the training set.
type EpochStats struct {
	Epoch    int
	MeanLoss float64
	Error    float64 // Fractional training error measured during the pass.
}

// Metrics is the result of Evaluate.
type Metrics struct {
	Error    float64 // Fraction of misclassified examples.
	MeanLoss float64
	Count    int
}

// Trainer fits a Machine to a dataset.
type Trainer struct {
	Machine *nn.Machine

	// Optimizer updates parameters after each batch. When nil the trainer
	// calls Machine.Update with LearningRate. Either way it sees the batch
	// mean gradient.
	Optimizer optim.Optimizer

	Config Config
	Logger *log.Logger // nil disables progress output.
}

// New creates a Trainer with plain gradient descent.
func New(m *nn.Machine, cfg Config) *Trainer {
	return &Trainer{Machine: m, Config: cfg}
}

// Fit trains for Config.Epochs epochs and returns per-epoch statistics.
func (t *Trainer) Fit(data *dataset.Dataset) ([]EpochStats, error) {
	if err := t.Config.Validate(); err != nil {
		return nil, err
	}
	if t.Machine == nil {
		return nil, errors.New("trainer has no machine")
	}
	if data == nil || data.Len() == 0 {
		return nil, dataset.ErrEmpty
	}
	if err := checkDims(t.Machine, data); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(t.Config.Seed))
	order := make([]int, data.Len())
	for i := range order {
		order[i] = i
	}

	t.Machine.ZeroGrad()
	history := make([]EpochStats, 0, t.Config.Epochs)

	for epoch := 1; epoch <= t.Config.Epochs; epoch++ {
		if t.Config.Shuffle {
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}

		var totalLoss float64
		var wrong int
		for start := 0; start < len(order); start += t.Config.BatchSize {
			end := min(start+t.Config.BatchSize, len(order))
			for _, idx := range order[start:end] {
				ex := data.Examples[idx]
				loss, err := t.Machine.Forward(ex.Input(), data.Target(idx))
				if err != nil {
					return history, fmt.Errorf("epoch %d, example %d: %w", epoch, idx, err)
				}
				if t.Machine.Argmax() != ex.Label {
					wrong++
				}
				if _, err := t.Machine.Backward(); err != nil {
					return history, fmt.Errorf("epoch %d, example %d: %w", epoch, idx, err)
				}
				totalLoss += loss
			}
			t.step(end - start)
		}

		stats := EpochStats{
			Epoch:    epoch,
			MeanLoss: totalLoss / float64(data.Len()),
			Error:    float64(wrong) / float64(data.Len()),
		}
		history = append(history, stats)

		if t.Logger != nil {
			t.Logger.Printf("epoch %3d/%d  loss %.5f  train error %.4f", epoch, t.Config.Epochs, stats.MeanLoss, stats.Error)
		}
	}

	return history, nil
}

func (t *Trainer) step(batch int) {
	if batch > 1 {
		scale := 1 / float64(batch)
		for _, p := range t.Machine.Parameters() {
			floats.Scale(scale, p.Grad())
		}
	}
	if t.Optimizer == nil {
		t.Machine.Update(t.Config.LearningRate)
		return
	}
	t.Optimizer.Step()
	t.Optimizer.ZeroGrad()
}

// Evaluate measures fractional classification error and mean loss of m on
// data. Gradients are not touched.
func Evaluate(m *nn.Machine, data *dataset.Dataset) (Metrics, error) {
	if data == nil || data.Len() == 0 {
		return Metrics{}, dataset.ErrEmpty
	}
	if err := checkDims(m, data); err != nil {
		return Metrics{}, err
	}

	var totalLoss float64
	var wrong int
	for i, ex := range data.Examples {
		loss, err := m.Forward(ex.Input(), data.Target(i))
		if err != nil {
			return Metrics{}, fmt.Errorf("example %d: %w", i, err)
		}
		if m.Argmax() != ex.Label {
			wrong++
		}
		totalLoss += loss
	}

	n := float64(data.Len())
	return Metrics{
		Error:    float64(wrong) / n,
		MeanLoss: totalLoss / n,
		Count:    data.Len(),
	}, nil
}

func checkDims(m *nn.Machine, data *dataset.Dataset) error {
	if m.InDim() != data.NumFeatures {
		return fmt.Errorf("machine input %d, dataset has %d features: %w", m.InDim(), data.NumFeatures, nn.ErrShapeMismatch)
	}
	if m.OutDim() != data.NumClasses {
		return fmt.Errorf("machine output %d, dataset has %d classes: %w", m.OutDim(), data.NumClasses, nn.ErrShapeMismatch)
	}
	return nil
}
