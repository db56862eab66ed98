// Package parallel runs independent units of work on a bounded pool of
// goroutines.
package parallel

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/klauspost/cpuid/v2"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Maximum number of concurrent goroutines.
	MinChunkSize int  // Below this many items the loop runs sequentially.
}

// DefaultConfig sizes the pool to the number of logical cores.
func DefaultConfig() Config {
	n := LogicalCores()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 2,
	}
}

// Sequential returns a config that runs every item on the calling goroutine.
func Sequential() Config {
	return Config{NumWorkers: 1}
}

// WithWorkers returns a config with n workers; n <= 0 keeps the default.
func WithWorkers(n int) Config {
	cfg := DefaultConfig()
	if n > 0 {
		cfg.NumWorkers = n
		cfg.Enabled = n > 1
	}
	return cfg
}

// LogicalCores reports the logical core count from CPUID, falling back to
// runtime.NumCPU when the vendor does not expose it.
func LogicalCores() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return min(n, runtime.NumCPU())
	}
	return runtime.NumCPU()
}

// Describe returns a one-line summary of the host CPU.
func Describe() string {
	brand := strings.TrimSpace(cpuid.CPU.BrandName)
	if brand == "" {
		brand = runtime.GOARCH
	}
	simd := "none"
	switch {
	case cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ):
		simd = "avx512"
	case cpuid.CPU.Supports(cpuid.AVX2):
		simd = "avx2"
	case cpuid.CPU.Supports(cpuid.ASIMD):
		simd = "neon"
	}
	return fmt.Sprintf("%s, %d logical cores, simd=%s", brand, LogicalCores(), simd)
}

// For executes f(i) for i in [0, n), at most NumWorkers at a time.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < cfg.MinChunkSize {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	sem := make(chan struct{}, cfg.NumWorkers)
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			f(i)
		}(i)
	}
	wg.Wait()
}

// ForErr is For with fallible work items. Every item runs; the error of the
// lowest failing index is returned.
func ForErr(n int, f func(i int) error, cfg Config) error {
	errs := make([]error, n)
	For(n, func(i int) {
		errs[i] = f(i)
	}, cfg)

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}
