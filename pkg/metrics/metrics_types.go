package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the detection pipeline
type Registry struct {
	// Detection metrics
	DetectionRunsTotal    *prometheus.CounterVec
	DetectionRunDuration  *prometheus.HistogramVec
	DetectionOuterIters   *prometheus.HistogramVec
	DetectionLevelsPerRun *prometheus.HistogramVec
	DetectionMovesTotal   *prometheus.CounterVec
	BestLogLikelihood     *prometheus.GaugeVec

	// Parameter estimation metrics
	EstimationsTotal   *prometheus.CounterVec
	EstimationFailures *prometheus.CounterVec

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// NewRegistry creates a registry with all detection metrics registered
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}
	r.initDetectionMetrics()
	return r
}

// Default returns the process-wide registry instance
func Default() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Registry exposes the underlying prometheus registry for scraping
func (r *Registry) Registry() *prometheus.Registry {
	return r.registry
}
