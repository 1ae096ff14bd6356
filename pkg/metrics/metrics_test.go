package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.DetectionRunsTotal == nil {
		t.Fatal("DetectionRunsTotal not initialized")
	}
	if r.Registry() == nil {
		t.Fatal("underlying prometheus registry not initialized")
	}
}

func TestDefaultIsSingleton(t *testing.T) {
	if Default() != Default() {
		t.Error("Default() must return the same registry instance")
	}
}

func TestRecordRun(t *testing.T) {
	r := NewRegistry()

	r.RecordRun("dcppm", "converged", 10*time.Millisecond, 3, 42, -100.5)
	r.RecordRun("dcppm", "converged", 5*time.Millisecond, 2, 8, -99.5)

	runs := testutil.ToFloat64(r.DetectionRunsTotal.WithLabelValues("dcppm", "converged"))
	if runs != 2 {
		t.Errorf("runs counter = %v, want 2", runs)
	}
	moves := testutil.ToFloat64(r.DetectionMovesTotal.WithLabelValues("dcppm"))
	if moves != 50 {
		t.Errorf("moves counter = %v, want 50", moves)
	}
	best := testutil.ToFloat64(r.BestLogLikelihood.WithLabelValues("dcppm"))
	if best != -99.5 {
		t.Errorf("best log-likelihood gauge = %v, want -99.5", best)
	}
}

func TestRecordEstimation(t *testing.T) {
	r := NewRegistry()

	r.RecordEstimation("ilfr", false)
	r.RecordEstimation("ilfr", true)

	total := testutil.ToFloat64(r.EstimationsTotal.WithLabelValues("ilfr"))
	if total != 2 {
		t.Errorf("estimations counter = %v, want 2", total)
	}
	failures := testutil.ToFloat64(r.EstimationFailures.WithLabelValues("ilfr"))
	if failures != 1 {
		t.Errorf("failures counter = %v, want 1", failures)
	}
}
