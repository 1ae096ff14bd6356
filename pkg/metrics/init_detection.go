package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initDetectionMetrics() {
	r.DetectionRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "communities_detection_runs_total",
			Help: "Total number of detection runs",
		},
		[]string{"model", "status"},
	)

	r.DetectionRunDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "communities_detection_run_duration_seconds",
			Help:    "Detection run duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 30.0, 120.0},
		},
		[]string{"model"},
	)

	r.DetectionOuterIters = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "communities_detection_outer_iterations",
			Help:    "Outer alternating-loop iterations per run",
			Buckets: []float64{1, 2, 3, 5, 10, 20, 50, 100},
		},
		[]string{"model"},
	)

	r.DetectionLevelsPerRun = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "communities_detection_levels",
			Help:    "Aggregation levels built per partition phase",
			Buckets: []float64{1, 2, 3, 4, 6, 8, 12},
		},
		[]string{"model"},
	)

	r.DetectionMovesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "communities_detection_node_moves_total",
			Help: "Accepted node reassignments across all sweeps",
		},
		[]string{"model"},
	)

	r.BestLogLikelihood = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "communities_detection_best_log_likelihood",
			Help: "Best observed total log-likelihood of the last run",
		},
		[]string{"model"},
	)

	r.EstimationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "communities_parameter_estimations_total",
			Help: "Parameter estimations performed",
		},
		[]string{"model"},
	)

	r.EstimationFailures = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "communities_parameter_estimation_failures_total",
			Help: "Parameter estimations that failed and fell back",
		},
		[]string{"model"},
	)
}
