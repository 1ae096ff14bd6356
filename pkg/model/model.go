// Package model implements the four statistical generative models the
// detection core can maximize: the planted partition model (ppm), its
// degree-corrected variant (dcppm), the independent LFR model (ilfr) and its
// simplified closed-form variant (ilfrs). All four satisfy
// louvain.QualityModel, so the local search is oblivious to which one it is
// optimizing.
package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/dd0wney/cluso-communities/pkg/louvain"
	"github.com/dd0wney/cluso-communities/pkg/optimize"
)

// Epsilon is the clamping bound for degenerate probabilities and parameters.
// Probabilities are clamped into [Epsilon, 1-Epsilon] and gamma onto
// [Epsilon, inf) before any logarithm, so likelihoods stay finite on
// degenerate partitions instead of producing -Inf or NaN.
const Epsilon = 1e-7

// ErrUnknownModel is returned by New for an unrecognized model name.
var ErrUnknownModel = errors.New("unknown model")

// Names lists the supported model names.
func Names() []string {
	return []string{"ppm", "dcppm", "ilfr", "ilfrs"}
}

// New returns the model registered under name. The ilfr model is wired to
// the default numeric minimizer; use NewILFR to supply a custom one.
func New(name string) (louvain.QualityModel, error) {
	switch name {
	case "ppm":
		return PPM{}, nil
	case "dcppm":
		return DCPPM{}, nil
	case "ilfr":
		return NewILFR(optimize.Default()), nil
	case "ilfrs":
		return ILFRs{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of ppm, dcppm, ilfr, ilfrs)", ErrUnknownModel, name)
	}
}

// clampProb forces p into the representable probability range.
func clampProb(p float64) float64 {
	return math.Min(math.Max(p, Epsilon), 1-Epsilon)
}

// clampLow forces x onto [Epsilon, inf).
func clampLow(x float64) float64 {
	return math.Max(x, Epsilon)
}

// validateGamma checks the resolution parameter domain shared by ppm/dcppm.
func validateGamma(par float64) error {
	if math.IsNaN(par) || par <= 0 {
		return fmt.Errorf("gamma must be positive, got %g", par)
	}
	return nil
}

// validateMu checks the mixing parameter domain shared by ilfr/ilfrs.
func validateMu(par float64) error {
	if math.IsNaN(par) || par <= 0 || par >= 1 {
		return fmt.Errorf("mu must lie strictly in (0,1), got %g", par)
	}
	return nil
}

// pairProbabilities returns the intra/inter pair edge probabilities of the
// uniform null: Pin = Ein/P2in and Pout = Eout/P2out over original-node
// pairs, clamped away from zero.
func pairProbabilities(lv *louvain.Level) (pin, pout float64) {
	ein := lv.IntraWeight()
	eout := lv.InterWeight()
	p2in := clampLow(lv.SumSizePairs())
	p2out := clampLow(lv.PairCount() - lv.SumSizePairs())
	return ein / p2in, eout / p2out
}

// degreeProbabilities returns the configuration-model intra/inter edge
// probabilities: Pin = 4*Ein*E/sum(dc^2) and Pout over the complement.
func degreeProbabilities(lv *louvain.Level) (pin, pout float64) {
	e := lv.TotalWeight()
	ein := lv.IntraWeight()
	eout := lv.InterWeight()
	dc2 := lv.SumDegreeSquared()
	if dc2 <= 0 || e <= 0 {
		return Epsilon, Epsilon
	}
	pin = 4 * ein * e / dc2
	rest := 4*e*e - dc2
	if eout <= 0 || rest <= 0 {
		pout = Epsilon
	} else {
		pout = 4 * eout * e / rest
	}
	return pin, pout
}
