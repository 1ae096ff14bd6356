package detect

import (
	"github.com/dd0wney/cluso-communities/pkg/graph"
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/parallel"
	"github.com/google/uuid"
)

// Run describes one detection run in a batch. An empty ID is assigned
// a fresh UUID by RunMany.
type Run struct {
	ID                string
	Model             string
	InitialParameters map[string]float64
	Options           Options
}

// RunResult pairs a run with its outcome.
type RunResult struct {
	ID     string
	Model  string
	Result *Result
	Err    error
}

// RunMany executes a batch of detection runs over the same graph on a
// bounded worker pool and returns the results in input order. Per-run
// failures are reported in RunResult.Err; RunMany itself fails only on
// an invalid worker count.
func RunMany(g graph.WeightedGraph, runs []Run, workers int) ([]RunResult, error) {
	pool, err := parallel.NewWorkerPool(workers)
	if err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}
	results := make([]RunResult, len(runs))
	for i, run := range runs {
		if run.ID == "" {
			run.ID = uuid.NewString()
		}
		i, run := i, run
		pool.Submit(func() {
			opts := run.Options
			if opts.Logger != nil {
				opts.Logger = opts.Logger.With(logging.RunID(run.ID))
			}
			res, err := BestPartition(g, run.Model, run.InitialParameters, opts)
			results[i] = RunResult{ID: run.ID, Model: run.Model, Result: res, Err: err}
		})
	}
	pool.Close()
	return results, nil
}

// Best returns the successful run with the highest log likelihood, or
// nil when every run failed.
func Best(results []RunResult) *RunResult {
	var best *RunResult
	for i := range results {
		r := &results[i]
		if r.Err != nil || r.Result == nil {
			continue
		}
		if best == nil || r.Result.LogLikelihood > best.Result.LogLikelihood {
			best = r
		}
	}
	return best
}
