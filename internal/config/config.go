// Package config loads driver settings from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/born-ml/backprop/internal/optim"
	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvData          = "BACKPROP_DATA"
	EnvResults       = "BACKPROP_RESULTS"
	EnvEpochs        = "BACKPROP_EPOCHS"
	EnvLearningRate  = "BACKPROP_LR"
	EnvBatchSize     = "BACKPROP_BATCH"
	EnvTrials        = "BACKPROP_TRIALS"
	EnvSeed          = "BACKPROP_SEED"
	EnvWorkers       = "BACKPROP_WORKERS"
	EnvOptimizer     = "BACKPROP_OPTIMIZER"
	EnvTrainFraction = "BACKPROP_TRAIN_FRACTION"
	EnvExtended      = "BACKPROP_EXTENDED"
)

// EnvError reports a variable whose value could not be parsed.
type EnvError struct {
	Key   string
	Value string
	Err   error
}

func (e *EnvError) Error() string {
	return fmt.Sprintf("invalid %s=%q: %v", e.Key, e.Value, e.Err)
}

func (e *EnvError) Unwrap() error {
	return e.Err
}

// EnvErrors collects every malformed variable seen by FromLookup.
type EnvErrors []*EnvError

func (e EnvErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Without drops the errors for keys, for example those overridden on the
// command line. It returns nil when nothing remains.
func (e EnvErrors) Without(keys ...string) error {
	var rest EnvErrors
	for _, err := range e {
		if !slices.Contains(keys, err.Key) {
			rest = append(rest, err)
		}
	}
	if len(rest) == 0 {
		return nil
	}
	return rest
}

// Config holds the experiment driver configuration.
type Config struct {
	DataPath      string // Empty means a synthetic Gaussian dataset.
	ResultsPath   string
	Epochs        int
	LearningRate  float64
	BatchSize     int
	Trials        int
	Seed          int64
	Workers       int // 0 sizes the pool to the CPU.
	Optimizer     string
	TrainFraction float64
	Extended      bool
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		ResultsPath:   "results.txt",
		Epochs:        50,
		LearningRate:  0.1,
		BatchSize:     1,
		Trials:        10,
		Seed:          1,
		Optimizer:     optim.NameSGD,
		TrainFraction: 0.8,
	}
}

// Load reads the configuration from environment variables.
// It attempts to find a .env file in the current or parent directories;
// variables already set in the process environment take precedence.
// Errors are as for FromLookup, and the result still needs Validate.
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// LoadFile reads settings from a .env file only, ignoring the process
// environment.
func LoadFile(path string) (*Config, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return FromLookup(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
}

// FromLookup builds a Config from a lookup function such as os.LookupEnv.
//
// The result is never nil. Malformed variables keep their defaults and are
// reported together as EnvErrors. The result is not validated, so callers
// can apply overrides before calling Validate.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	p := parser{lookup: lookup}

	p.str(EnvData, &cfg.DataPath)
	p.str(EnvResults, &cfg.ResultsPath)
	p.int(EnvEpochs, &cfg.Epochs)
	p.float(EnvLearningRate, &cfg.LearningRate)
	p.int(EnvBatchSize, &cfg.BatchSize)
	p.int(EnvTrials, &cfg.Trials)
	p.int64(EnvSeed, &cfg.Seed)
	p.int(EnvWorkers, &cfg.Workers)
	p.str(EnvOptimizer, &cfg.Optimizer)
	p.float(EnvTrainFraction, &cfg.TrainFraction)
	p.bool(EnvExtended, &cfg.Extended)

	cfg.Optimizer = strings.ToLower(cfg.Optimizer)
	if len(p.errs) > 0 {
		return cfg, p.errs
	}
	return cfg, nil
}

// Validate checks ranges and names.
func (c *Config) Validate() error {
	switch {
	case c.Epochs <= 0:
		return fmt.Errorf("%s must be positive, got %d", EnvEpochs, c.Epochs)
	case c.LearningRate <= 0:
		return fmt.Errorf("%s must be positive, got %v", EnvLearningRate, c.LearningRate)
	case c.BatchSize <= 0:
		return fmt.Errorf("%s must be positive, got %d", EnvBatchSize, c.BatchSize)
	case c.Trials <= 0:
		return fmt.Errorf("%s must be positive, got %d", EnvTrials, c.Trials)
	case c.Workers < 0:
		return fmt.Errorf("%s must not be negative, got %d", EnvWorkers, c.Workers)
	case c.TrainFraction <= 0 || c.TrainFraction >= 1:
		return fmt.Errorf("%s must be in (0, 1), got %v", EnvTrainFraction, c.TrainFraction)
	case c.ResultsPath == "":
		return fmt.Errorf("%s must not be empty", EnvResults)
	}

	switch c.Optimizer {
	case optim.NameSGD, optim.NameMomentum, optim.NameAdam:
		return nil
	default:
		return fmt.Errorf("%s: unknown optimizer %q", EnvOptimizer, c.Optimizer)
	}
}

type parser struct {
	lookup func(string) (string, bool)
	errs   EnvErrors
}

func (p *parser) get(key string) (string, bool) {
	v, ok := p.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (p *parser) fail(key, value string, err error) {
	p.errs = append(p.errs, &EnvError{Key: key, Value: value, Err: err})
}

func (p *parser) str(key string, dst *string) {
	if v, ok := p.get(key); ok {
		*dst = v
	}
}

func (p *parser) int(key string, dst *int) {
	if v, ok := p.get(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			p.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (p *parser) int64(key string, dst *int64) {
	if v, ok := p.get(key); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			p.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (p *parser) float(key string, dst *float64) {
	if v, ok := p.get(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			p.fail(key, v, err)
			return
		}
		*dst = f
	}
}

func (p *parser) bool(key string, dst *bool) {
	if v, ok := p.get(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			p.fail(key, v, err)
			return
		}
		*dst = b
	}
}

// loadEnvFile looks up to 5 levels for a .env file.
func loadEnvFile() error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}

	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			return godotenv.Load(envPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil
}
