package detect

import (
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
)

const (
	// DefaultMaxOuterIterations caps the alternating
	// partition/parameter loop.
	DefaultMaxOuterIterations = 100

	// DefaultTolerance is the absolute parameter change below which
	// the alternating loop is considered converged.
	DefaultTolerance = 1e-5
)

// Options controls a detection run.
type Options struct {
	// MaxPasses bounds the node sweeps per local-search phase.
	// Zero means unbounded (sweep until no node moves).
	MaxPasses int `validate:"gte=0"`

	// MaxOuterIterations caps the alternating optimization loop.
	// Zero selects DefaultMaxOuterIterations.
	MaxOuterIterations int `validate:"gte=0"`

	// Tolerance is the parameter-change convergence threshold.
	// Zero selects DefaultTolerance.
	Tolerance float64 `validate:"gte=0"`

	// Seed fixes the node visiting order for reproducible runs.
	// Zero visits nodes in ascending id order.
	Seed int64

	// Logger receives per-iteration progress. Nil disables logging.
	Logger logging.Logger

	// Metrics receives run counters and histograms. Nil disables
	// instrumentation.
	Metrics *metrics.Registry
}

// DefaultOptions returns Options with the documented defaults filled in.
func DefaultOptions() Options {
	return Options{
		MaxOuterIterations: DefaultMaxOuterIterations,
		Tolerance:          DefaultTolerance,
	}
}

func (o Options) normalized() Options {
	if o.MaxOuterIterations == 0 {
		o.MaxOuterIterations = DefaultMaxOuterIterations
	}
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.Logger == nil {
		o.Logger = logging.NewNopLogger()
	}
	return o
}
