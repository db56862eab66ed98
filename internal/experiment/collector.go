package experiment

import (
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// Result is the outcome of one Monte Carlo trial.
type Result struct {
	Architecture string
	Index        int // Position of the architecture in the run.
	Trial        int
	Seed         int64
	Parameters   int
	TrainError   float64
	TestError    float64
	TestLoss     float64
}

// Summary aggregates the trials of one architecture.
type Summary struct {
	Architecture  string
	Parameters    int
	Trials        int
	MeanTestError float64
	StdTestError  float64 // Sample standard deviation; 0 for a single trial.
	MinTestError  float64
	MaxTestError  float64
}

// Collector gathers results from concurrent trials. The zero value is ready
// to use.
type Collector struct {
	mu      sync.Mutex
	results []Result
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records a result.
func (c *Collector) Add(r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

// Len returns the number of recorded results.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

// Results returns a copy of the results ordered by architecture, then trial.
func (c *Collector) Results() []Result {
	c.mu.Lock()
	out := make([]Result, len(c.results))
	copy(out, c.results)
	c.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Index != out[j].Index {
			return out[i].Index < out[j].Index
		}
		return out[i].Trial < out[j].Trial
	})
	return out
}

// Summary returns per-architecture test error statistics in run order.
func (c *Collector) Summary() []Summary {
	results := c.Results()

	var summaries []Summary
	for start := 0; start < len(results); {
		end := start
		for end < len(results) && results[end].Index == results[start].Index {
			end++
		}

		errs := make([]float64, 0, end-start)
		for _, r := range results[start:end] {
			errs = append(errs, r.TestError)
		}
		mean, std := stat.MeanStdDev(errs, nil)
		if len(errs) < 2 || math.IsNaN(std) {
			std = 0
		}

		s := Summary{
			Architecture:  results[start].Architecture,
			Parameters:    results[start].Parameters,
			Trials:        len(errs),
			MeanTestError: mean,
			StdTestError:  std,
			MinTestError:  errs[0],
			MaxTestError:  errs[0],
		}
		for _, e := range errs[1:] {
			s.MinTestError = math.Min(s.MinTestError, e)
			s.MaxTestError = math.Max(s.MaxTestError, e)
		}
		summaries = append(summaries, s)
		start = end
	}
	return summaries
}
