package nn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// probabilityFloor keeps log finite for zero probabilities. The loss is
// constant below it, so the gradient there is zero.
const probabilityFloor = 1e-12

// CrossEntropyLoss computes the cross-entropy between a predicted
// distribution and a target distribution (usually one-hot).
//
// Formula:
//
//	Loss  = -Σ_i t_i log(p_i)
//	dL/dp = -t_i / p_i
//
// The prediction must already be a distribution, so this loss is normally
// placed after a Softmax module. Through that chain the gradient with respect
// to the Softmax input reduces to p - t.
//
// Example:
//
//	m, err := nn.NewMachine(nn.NewCrossEntropyLoss(10),
//	    nn.NewLinear(784, 10, rng),
//	    nn.NewBias(10, rng),
//	    nn.NewSoftmax(10),
//	)
type CrossEntropyLoss struct {
	n     int
	cache lossCache
}

// NewCrossEntropyLoss creates a cross-entropy loss over n classes.
func NewCrossEntropyLoss(n int) *CrossEntropyLoss {
	return &CrossEntropyLoss{n: n}
}

// Name returns "CrossEntropyLoss".
func (c *CrossEntropyLoss) Name() string { return "CrossEntropyLoss" }

// Dim returns the number of classes.
func (c *CrossEntropyLoss) Dim() int { return c.n }

// Forward computes -Σ t_i log(p_i).
func (c *CrossEntropyLoss) Forward(p, target *mat.VecDense) (float64, error) {
	if err := c.cache.store("CrossEntropyLoss.Forward", c.n, p, target); err != nil {
		return 0, err
	}

	var loss float64
	for i := 0; i < c.n; i++ {
		t := target.AtVec(i)
		if t == 0 {
			continue
		}
		loss -= t * math.Log(math.Max(p.AtVec(i), probabilityFloor))
	}
	return loss, nil
}

// Backward returns -t_i / p_i, or 0 where p_i is below the probability
// floor and the loss is flat.
func (c *CrossEntropyLoss) Backward() (*mat.VecDense, error) {
	if c.cache.x == nil {
		return nil, uninitialized("CrossEntropyLoss.Backward")
	}

	dp := mat.NewVecDense(c.n, nil)
	for i := 0; i < c.n; i++ {
		t, p := c.cache.target.AtVec(i), c.cache.x.AtVec(i)
		if t == 0 || p < probabilityFloor {
			continue
		}
		dp.SetVec(i, -t/p)
	}
	return dp, nil
}
