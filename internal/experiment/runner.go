package experiment

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/born-ml/backprop/internal/dataset"
	"github.com/born-ml/backprop/internal/nn"
	"github.com/born-ml/backprop/internal/optim"
	"github.com/born-ml/backprop/internal/parallel"
	"github.com/born-ml/backprop/internal/train"
)

// Runner trains every architecture for a number of Monte Carlo trials.
//
// Trial t of every architecture uses seed BaseSeed+t for its split, its
// initial weights and its example order, so architectures are compared on
// identical splits.
type Runner struct {
	Architectures []Architecture
	Trials        int
	BaseSeed      int64
	TrainFraction float64
	Standardize   bool
	Train         train.Config
	Optimizer     string
	Parallel      parallel.Config
	Logger        *log.Logger
}

// NewRunner returns a runner over archs with defaults for everything else.
func NewRunner(archs []Architecture) *Runner {
	return &Runner{
		Architectures: archs,
		Trials:        10,
		BaseSeed:      1,
		TrainFraction: 0.8,
		Standardize:   true,
		Train:         train.DefaultConfig(),
		Optimizer:     optim.NameSGD,
		Parallel:      parallel.DefaultConfig(),
	}
}

// Run executes all trials and adds one Result per trial to c.
//
// Every trial runs even if another fails; the first failure in
// architecture-then-trial order is returned.
func (r *Runner) Run(data *dataset.Dataset, c *Collector) error {
	if data == nil || data.Len() == 0 {
		return dataset.ErrEmpty
	}
	if r.Trials <= 0 {
		return fmt.Errorf("trials must be positive, got %d", r.Trials)
	}
	if len(r.Architectures) == 0 {
		return fmt.Errorf("no architectures to run")
	}

	jobs := len(r.Architectures) * r.Trials
	return parallel.ForErr(jobs, func(k int) error {
		index, trial := k/r.Trials, k%r.Trials
		res, err := r.trial(data, index, trial)
		if err != nil {
			return fmt.Errorf("%s trial %d: %w", r.Architectures[index].Name, trial, err)
		}
		c.Add(res)
		if r.Logger != nil {
			r.Logger.Printf("%-14s trial %2d  params %5d  train error %.4f  test error %.4f",
				res.Architecture, res.Trial, res.Parameters, res.TrainError, res.TestError)
		}
		return nil
	}, r.Parallel)
}

func (r *Runner) trial(data *dataset.Dataset, index, trial int) (Result, error) {
	arch := r.Architectures[index]
	seed := r.BaseSeed + int64(trial)
	rng := rand.New(rand.NewSource(seed))

	trainSet, testSet, err := data.Split(r.TrainFraction, rng)
	if err != nil {
		return Result{}, err
	}
	if r.Standardize {
		var scaler *dataset.Scaler
		trainSet, scaler = trainSet.Standardize()
		if testSet, err = scaler.Apply(testSet); err != nil {
			return Result{}, err
		}
	}

	m, err := arch.Build(data.NumFeatures, data.NumClasses, rng)
	if err != nil {
		return Result{}, err
	}

	cfg := r.Train
	cfg.Seed = seed
	trainer := train.New(m, cfg)
	if trainer.Optimizer, err = NewOptimizer(r.Optimizer, m, cfg.LearningRate); err != nil {
		return Result{}, err
	}

	history, err := trainer.Fit(trainSet)
	if err != nil {
		return Result{}, err
	}
	metrics, err := train.Evaluate(m, testSet)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Architecture: arch.Name,
		Index:        index,
		Trial:        trial,
		Seed:         seed,
		Parameters:   m.NumParameters(),
		TrainError:   history[len(history)-1].Error,
		TestError:    metrics.Error,
		TestLoss:     metrics.MeanLoss,
	}, nil
}

// NewOptimizer returns the optimizer for name over m's parameters. The
// "sgd" optimizer is nil: the trainer then uses Machine.Update.
func NewOptimizer(name string, m *nn.Machine, lr float64) (optim.Optimizer, error) {
	switch name {
	case optim.NameSGD, "":
		return nil, nil
	case optim.NameMomentum:
		return optim.NewSGD(m.Parameters(), optim.SGDConfig{LR: lr, Momentum: 0.9}), nil
	case optim.NameAdam:
		return optim.NewAdam(m.Parameters(), optim.AdamConfig{LR: lr}), nil
	default:
		return nil, fmt.Errorf("unknown optimizer %q", name)
	}
}
