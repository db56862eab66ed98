package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"strings"

	"github.com/born-ml/backprop/internal/config"
	"github.com/born-ml/backprop/internal/dataset"
	"github.com/born-ml/backprop/internal/experiment"
	"github.com/born-ml/backprop/internal/parallel"
	"github.com/born-ml/backprop/internal/train"
)

// flagEnv maps run flags to the variables they override.
var flagEnv = map[string]string{
	"data":           config.EnvData,
	"results":        config.EnvResults,
	"epochs":         config.EnvEpochs,
	"lr":             config.EnvLearningRate,
	"batch":          config.EnvBatchSize,
	"trials":         config.EnvTrials,
	"seed":           config.EnvSeed,
	"workers":        config.EnvWorkers,
	"optimizer":      config.EnvOptimizer,
	"train-fraction": config.EnvTrainFraction,
	"extended":       config.EnvExtended,
}

func runExperiment(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "", log.LstdFlags)

	cfg, err := config.Load()
	var envErrs config.EnvErrors
	if err != nil && !errors.As(err, &envErrs) {
		logger.Printf("config: %v", err)
		return 1
	}

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.DataPath, "data", cfg.DataPath, "dataset file (empty: synthetic Gaussian clusters)")
	fs.StringVar(&cfg.ResultsPath, "results", cfg.ResultsPath, "results file to append to")
	fs.IntVar(&cfg.Epochs, "epochs", cfg.Epochs, "training epochs per trial")
	fs.Float64Var(&cfg.LearningRate, "lr", cfg.LearningRate, "learning rate")
	fs.IntVar(&cfg.BatchSize, "batch", cfg.BatchSize, "examples per update")
	fs.IntVar(&cfg.Trials, "trials", cfg.Trials, "Monte Carlo trials per architecture")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "base seed; trial t uses seed+t")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent trials (0: one per logical core)")
	fs.StringVar(&cfg.Optimizer, "optimizer", cfg.Optimizer, "sgd, momentum or adam")
	fs.Float64Var(&cfg.TrainFraction, "train-fraction", cfg.TrainFraction, "fraction of examples used for training")
	fs.BoolVar(&cfg.Extended, "extended", cfg.Extended, "include two-layer and RBF architectures")
	archNames := fs.String("arch", "", "comma-separated architecture names (default: whole catalogue)")
	samples := fs.Int("samples", 300, "synthetic dataset size")
	features := fs.Int("features", 2, "synthetic feature count")
	classes := fs.Int("classes", 3, "synthetic class count")
	spread := fs.Float64("spread", 1.0, "synthetic cluster standard deviation")
	quiet := fs.Bool("q", false, "only print the summary")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	var overridden []string
	fs.Visit(func(f *flag.Flag) {
		if key, ok := flagEnv[f.Name]; ok {
			overridden = append(overridden, key)
		}
	})
	if err := envErrs.Without(overridden...); err != nil {
		logger.Printf("config: %v", err)
		return 2
	}
	cfg.Optimizer = strings.ToLower(cfg.Optimizer)
	if err := cfg.Validate(); err != nil {
		logger.Printf("config: %v", err)
		return 2
	}

	var names []string
	if *archNames != "" {
		names = strings.Split(*archNames, ",")
	}
	archs, err := experiment.Select(names, cfg.Extended)
	if err != nil {
		logger.Printf("%v", err)
		return 2
	}

	data, source, err := loadData(cfg, *samples, *features, *classes, *spread)
	if err != nil {
		logger.Printf("dataset: %v", err)
		return 1
	}

	runner := experiment.NewRunner(archs)
	runner.Trials = cfg.Trials
	runner.BaseSeed = cfg.Seed
	runner.TrainFraction = cfg.TrainFraction
	runner.Optimizer = cfg.Optimizer
	runner.Parallel = parallel.WithWorkers(cfg.Workers)
	runner.Train = train.Config{
		Epochs:       cfg.Epochs,
		LearningRate: cfg.LearningRate,
		BatchSize:    cfg.BatchSize,
		Shuffle:      true,
	}
	if !*quiet {
		runner.Logger = logger
		logger.Printf("cpu: %s", parallel.Describe())
		logger.Printf("data: %s (%d examples, %d features, %d classes)", source, data.Len(), data.NumFeatures, data.NumClasses)
		logger.Printf("running %d architectures × %d trials on %d workers", len(archs), cfg.Trials, runner.Parallel.NumWorkers)
	}

	collector := experiment.NewCollector()
	if err := runner.Run(data, collector); err != nil {
		logger.Printf("run: %v", err)
		return 1
	}

	rw, err := experiment.OpenResults(cfg.ResultsPath)
	if err != nil {
		logger.Printf("%v", err)
		return 1
	}
	if err := rw.WriteAll(collector.Results()); err != nil {
		rw.Close()
		logger.Printf("%v", err)
		return 1
	}
	if err := rw.Close(); err != nil {
		logger.Printf("failed to close results file: %v", err)
		return 1
	}

	fmt.Fprintf(stdout, "run %s → %s\n\n", rw.RunID(), cfg.ResultsPath)
	fmt.Fprintf(stdout, "%-14s %8s %7s %12s %10s\n", "architecture", "params", "trials", "test error", "std")
	for _, s := range collector.Summary() {
		fmt.Fprintf(stdout, "%-14s %8d %7d %12.4f %10.4f\n", s.Architecture, s.Parameters, s.Trials, s.MeanTestError, s.StdTestError)
	}
	return 0
}

func loadData(cfg *config.Config, samples, features, classes int, spread float64) (*dataset.Dataset, string, error) {
	if cfg.DataPath != "" {
		d, err := dataset.Load(cfg.DataPath)
		return d, cfg.DataPath, err
	}
	d, err := dataset.Gaussian(samples, features, classes, spread, rand.New(rand.NewSource(cfg.Seed)))
	return d, "synthetic gaussian", err
}
