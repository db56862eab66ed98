package nn

import (
	"math"
	"math/rand"
)

// Uniform fills p with values drawn from U(-bound, bound).
func Uniform(p *Parameter, bound float64, rng *rand.Rand) {
	data := p.Data()
	for i := range data {
		data[i] = (rng.Float64()*2.0 - 1.0) * bound
	}
}

// FanIn initializes p with U(-k/sqrt(fanIn), k/sqrt(fanIn)).
//
// This is the default for Linear layers with k = 1.
func FanIn(p *Parameter, fanIn int, k float64, rng *rand.Rand) {
	Uniform(p, k/math.Sqrt(float64(fanIn)), rng)
}

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
func Xavier(p *Parameter, fanIn, fanOut int, rng *rand.Rand) {
	Uniform(p, math.Sqrt(6.0/float64(fanIn+fanOut)), rng)
}

// UnitInterval fills p with values drawn from U(0, 1).
func UnitInterval(p *Parameter, rng *rand.Rand) {
	data := p.Data()
	for i := range data {
		data[i] = rng.Float64()
	}
}

// Randn fills p with values drawn from N(0, 1).
func Randn(p *Parameter, rng *rand.Rand) {
	data := p.Data()
	for i := range data {
		data[i] = rng.NormFloat64()
	}
}
