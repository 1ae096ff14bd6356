package model

import (
	"math"

	"github.com/dd0wney/cluso-communities/pkg/louvain"
)

// ILFRs is the simplified independent LFR model. Unlike ILFR it admits a
// closed-form estimator for the mixing parameter mu (the aggregate fraction
// of inter-community weight), making it a fast, possibly suboptimal
// substitute for the full ILFR fit.
type ILFRs struct{}

func (ILFRs) Name() string          { return "ilfrs" }
func (ILFRs) ParameterName() string { return "mu" }

func (ILFRs) DefaultParameter() float64 { return 0.5 }

func (ILFRs) ValidateParameter(par float64) error { return validateMu(par) }

func (ILFRs) ClampParameter(par float64) float64 { return clampProb(par) }

func (m ILFRs) RemovalCost(lv *louvain.Level, ns louvain.NodeStats, par float64) float64 {
	mu := m.ClampParameter(par)
	e2 := 2 * lv.TotalWeight()
	from := lv.Community(ns.Node)
	degFrom := lv.ComDegree(from)
	inFrom := lv.ComInternal(from)

	cost := ns.WeightToOld * (math.Log(mu/(1-mu)) - math.Log(e2))
	if degFrom > 0 {
		cost += inFrom * math.Log(degFrom)
	}
	if degFrom > ns.Degree {
		cost -= (inFrom - ns.SelfLoop - ns.WeightToOld) * math.Log(degFrom-ns.Degree)
	}
	return cost
}

func (m ILFRs) InsertionGain(lv *louvain.Level, ns louvain.NodeStats, to int, weightTo, par float64) float64 {
	mu := m.ClampParameter(par)
	e2 := 2 * lv.TotalWeight()
	degTo := lv.ComDegree(to)
	inTo := lv.ComInternal(to)

	gain := weightTo * math.Log(e2*(1-mu)/mu)
	if degTo > 0 {
		gain += inTo * math.Log(degTo)
	}
	if degTo+ns.Degree > 0 {
		gain -= (inTo + ns.SelfLoop + weightTo) * math.Log(degTo+ns.Degree)
	}
	return gain
}

// Score is the full ILFRs log-likelihood; it doubles as the per-level
// objective since every term is cheap given the aggregates.
func (m ILFRs) Score(lv *louvain.Level, par float64) float64 {
	return m.LogLikelihood(lv, par)
}

func (m ILFRs) LogLikelihood(lv *louvain.Level, par float64) float64 {
	e := lv.TotalWeight()
	if e <= 0 {
		return 0
	}
	mu := m.ClampParameter(par)
	ein := lv.IntraWeight()
	eout := lv.InterWeight()

	ll := lv.Raw.DegreeLogSum - e
	if eout > 0 {
		ll += eout * (math.Log(mu) - math.Log(2*e))
	}
	if ein > 0 {
		ll += ein * math.Log(1-mu)
	}
	for c := 0; c < lv.Graph.Order(); c++ {
		deg := lv.ComDegree(c)
		if deg > 0 {
			ll -= lv.ComInternal(c) * math.Log(deg)
		}
	}
	return ll
}

// EstimateParameter returns the aggregate mixing fraction Eout/E, the
// closed-form mu estimate of the simplified model.
func (m ILFRs) EstimateParameter(lv *louvain.Level) (float64, error) {
	e := lv.TotalWeight()
	if e <= 0 {
		return m.DefaultParameter(), nil
	}
	return clampProb(lv.InterWeight() / e), nil
}
