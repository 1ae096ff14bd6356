// Package optimize abstracts the derivative-free scalar minimization the
// ilfr parameter fit depends on. Any black-box minimizer over a bounded
// interval satisfies the contract; the default implementation adapts
// gonum's Nelder-Mead method to the one-dimensional bounded case.
package optimize

import (
	"fmt"
	"math"

	gopt "gonum.org/v1/gonum/optimize"
)

// Objective is a scalar function to minimize.
type Objective func(x float64) float64

// Minimizer finds an approximate minimizer of an objective over [lo, hi].
type Minimizer interface {
	Minimize(f Objective, lo, hi float64) (float64, error)
}

// NelderMead minimizes through gonum's derivative-free simplex method.
// Bounds are enforced with a quadratic penalty, the result is clamped onto
// the interval afterwards.
type NelderMead struct{}

// Default returns the minimizer the models are wired to out of the box.
func Default() Minimizer { return NelderMead{} }

func (NelderMead) Minimize(f Objective, lo, hi float64) (float64, error) {
	if !(lo < hi) {
		return 0, fmt.Errorf("invalid bounds [%g, %g]", lo, hi)
	}
	span := hi - lo
	penalized := func(x []float64) float64 {
		v := x[0]
		if v < lo || v > hi {
			d := math.Max(lo-v, v-hi) / span
			v = math.Min(math.Max(v, lo), hi)
			return f(v) + 1e6*(1+d*d)
		}
		return f(v)
	}

	problem := gopt.Problem{Func: penalized}
	start := []float64{lo + span/2}
	result, err := gopt.Minimize(problem, start, nil, &gopt.NelderMead{})
	if err != nil {
		return 0, fmt.Errorf("nelder-mead failed: %w", err)
	}
	if math.IsNaN(result.F) || math.IsInf(result.F, 0) {
		return 0, fmt.Errorf("nelder-mead converged to non-finite objective %g", result.F)
	}
	x := result.X[0]
	return math.Min(math.Max(x, lo), hi), nil
}
