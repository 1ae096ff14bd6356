package metrics

import (
	"time"
)

// RecordRun records one finished detection run
func (r *Registry) RecordRun(model, status string, duration time.Duration, outerIters, moves int, bestLL float64) {
	r.DetectionRunsTotal.WithLabelValues(model, status).Inc()
	r.DetectionRunDuration.WithLabelValues(model).Observe(duration.Seconds())
	r.DetectionOuterIters.WithLabelValues(model).Observe(float64(outerIters))
	r.DetectionMovesTotal.WithLabelValues(model).Add(float64(moves))
	r.BestLogLikelihood.WithLabelValues(model).Set(bestLL)
}

// RecordPartitionPhase records one partition phase (dendrogram build)
func (r *Registry) RecordPartitionPhase(model string, levels int) {
	r.DetectionLevelsPerRun.WithLabelValues(model).Observe(float64(levels))
}

// RecordEstimation records one parameter estimation attempt
func (r *Registry) RecordEstimation(model string, failed bool) {
	r.EstimationsTotal.WithLabelValues(model).Inc()
	if failed {
		r.EstimationFailures.WithLabelValues(model).Inc()
	}
}
