package nn

import (
	"gonum.org/v1/gonum/mat"
)

// Loss is the terminal stage of a Machine.
//
// Forward reduces the prediction x and target to a scalar; Backward returns
// dL/dx for the most recent Forward.
type Loss interface {
	// Name identifies the loss (e.g., "EuclideanLoss").
	Name() string

	// Dim is the length of both prediction and target vectors.
	Dim() int

	// Forward computes the scalar loss for prediction x and target.
	Forward(x, target *mat.VecDense) (float64, error)

	// Backward returns dL/dx for the last Forward.
	Backward() (*mat.VecDense, error)
}

// lossCache keeps the inputs of the last loss evaluation.
type lossCache struct {
	x      *mat.VecDense
	target *mat.VecDense
}

func (c *lossCache) store(op string, n int, x, target *mat.VecDense) error {
	if err := checkLen(op, n, x.Len()); err != nil {
		return err
	}
	if err := checkLen(op+"(target)", n, target.Len()); err != nil {
		return err
	}
	c.x = mat.VecDenseCopyOf(x)
	c.target = mat.VecDenseCopyOf(target)
	return nil
}

// EuclideanLoss computes half the squared Euclidean distance.
//
// Loss = ½ ‖x - t‖²
// dL/dx = x - t
//
// Example:
//
//	loss := nn.NewEuclideanLoss(2)
//	value, err := loss.Forward(prediction, target)
type EuclideanLoss struct {
	n     int
	cache lossCache
}

// NewEuclideanLoss creates a Euclidean loss over n-vectors.
func NewEuclideanLoss(n int) *EuclideanLoss {
	return &EuclideanLoss{n: n}
}

// Name returns "EuclideanLoss".
func (e *EuclideanLoss) Name() string { return "EuclideanLoss" }

// Dim returns the vector length.
func (e *EuclideanLoss) Dim() int { return e.n }

// Forward computes ½ ‖x - t‖².
func (e *EuclideanLoss) Forward(x, target *mat.VecDense) (float64, error) {
	if err := e.cache.store("EuclideanLoss.Forward", e.n, x, target); err != nil {
		return 0, err
	}

	diff := mat.NewVecDense(e.n, nil)
	diff.SubVec(x, target)
	return 0.5 * mat.Dot(diff, diff), nil
}

// Backward returns x - t.
func (e *EuclideanLoss) Backward() (*mat.VecDense, error) {
	if e.cache.x == nil {
		return nil, uninitialized("EuclideanLoss.Backward")
	}

	dx := mat.NewVecDense(e.n, nil)
	dx.SubVec(e.cache.x, e.cache.target)
	return dx, nil
}
