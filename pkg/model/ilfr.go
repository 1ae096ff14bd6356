package model

import (
	"fmt"
	"math"

	"github.com/dd0wney/cluso-communities/pkg/louvain"
	"github.com/dd0wney/cluso-communities/pkg/optimize"
)

// ILFR is the independent LFR model. Its mixing parameter mu has no
// closed-form maximum-likelihood estimate, so EstimateParameter delegates to
// a black-box scalar minimizer over (0,1).
type ILFR struct {
	minimizer optimize.Minimizer
}

// NewILFR wires the model to the given numeric minimizer.
func NewILFR(min optimize.Minimizer) ILFR {
	return ILFR{minimizer: min}
}

func (ILFR) Name() string          { return "ilfr" }
func (ILFR) ParameterName() string { return "mu" }

func (ILFR) DefaultParameter() float64 { return 0.5 }

func (ILFR) ValidateParameter(par float64) error { return validateMu(par) }

func (ILFR) ClampParameter(par float64) float64 { return clampProb(par) }

func (m ILFR) RemovalCost(lv *louvain.Level, ns louvain.NodeStats, par float64) float64 {
	mu := m.ClampParameter(par)
	e2 := 2 * lv.TotalWeight()
	from := lv.Community(ns.Node)
	degFrom := lv.ComDegree(from)
	inFrom := lv.ComInternal(from)

	cost := ns.WeightToOld * (math.Log(mu) - math.Log(e2))
	if degFrom > 0 {
		cost -= inFrom * math.Log((1-mu)/degFrom+mu/e2)
	}
	if degFrom-ns.Degree > 0 {
		cost += (inFrom - ns.WeightToOld - ns.SelfLoop) * math.Log((1-mu)/(degFrom-ns.Degree)+mu/e2)
	}
	return cost
}

func (m ILFR) InsertionGain(lv *louvain.Level, ns louvain.NodeStats, to int, weightTo, par float64) float64 {
	mu := m.ClampParameter(par)
	e2 := 2 * lv.TotalWeight()
	degTo := lv.ComDegree(to)
	inTo := lv.ComInternal(to)

	gain := weightTo * (math.Log(e2) - math.Log(mu))
	if degTo > 0 {
		gain -= inTo * math.Log((1-mu)/degTo+mu/e2)
	}
	if degTo+ns.Degree > 0 {
		gain += (inTo + weightTo + ns.SelfLoop) * math.Log((1-mu)/(degTo+ns.Degree)+mu/e2)
	}
	return gain
}

// Score is the full ILFR log-likelihood, cheap enough from the aggregates to
// double as the per-level objective.
func (m ILFR) Score(lv *louvain.Level, par float64) float64 {
	return m.LogLikelihood(lv, par)
}

func (m ILFR) LogLikelihood(lv *louvain.Level, par float64) float64 {
	e := lv.TotalWeight()
	if e <= 0 {
		return 0
	}
	mu := m.ClampParameter(par)
	eout := lv.InterWeight()

	ll := lv.Raw.DegreeLogSum - e
	if eout > 0 {
		ll += eout * (math.Log(mu) - math.Log(2*e))
	}
	for c := 0; c < lv.Graph.Order(); c++ {
		deg := lv.ComDegree(c)
		if deg > 0 {
			ll += lv.ComInternal(c) * math.Log((1-mu)/deg+mu/(2*e))
		}
	}
	return ll
}

// EstimateParameter maximizes the log-likelihood over mu in (0,1) through
// the minimizer collaborator. The result must be finite and no worse than
// the closed-form seed Eout/E, otherwise an error is returned so the caller
// can fall back to its previous parameter.
func (m ILFR) EstimateParameter(lv *louvain.Level) (float64, error) {
	e := lv.TotalWeight()
	if e <= 0 {
		return m.DefaultParameter(), nil
	}
	objective := func(mu float64) float64 {
		return -m.LogLikelihood(lv, mu)
	}
	mu, err := m.minimizer.Minimize(objective, Epsilon, 1-Epsilon)
	if err != nil {
		return 0, fmt.Errorf("mu estimation failed: %w", err)
	}
	if math.IsNaN(mu) || math.IsInf(mu, 0) {
		return 0, fmt.Errorf("mu estimation produced non-finite value %g", mu)
	}
	mu = clampProb(mu)

	seed := clampProb(lv.InterWeight() / e)
	if m.LogLikelihood(lv, mu)+Epsilon < m.LogLikelihood(lv, seed) {
		return 0, fmt.Errorf("mu estimation found no improvement over aggregate estimate %g", seed)
	}
	return mu, nil
}
