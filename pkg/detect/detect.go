// Package detect runs likelihood-based community detection: a
// multi-level greedy partition optimizer alternating with maximum
// likelihood parameter estimation, for a pluggable family of random
// graph models.
package detect

import (
	"fmt"

	"github.com/dd0wney/cluso-communities/pkg/graph"
	"github.com/dd0wney/cluso-communities/pkg/louvain"
	"github.com/dd0wney/cluso-communities/pkg/model"
)

// BestPartition finds the partition maximizing the model's likelihood,
// alternating partition optimization and parameter estimation. initial
// may seed the model parameter; nil uses the model default.
func BestPartition(g graph.WeightedGraph, modelName string, initial map[string]float64, opts Options) (*Result, error) {
	d, err := NewDriver(g, modelName, initial, opts)
	if err != nil {
		return nil, err
	}
	return d.Run()
}

// TotalLogLikelihood evaluates the model's log likelihood for a fixed
// partition. A missing parameter falls back to the model default.
// Every node of the graph must appear in the partition.
func TotalLogLikelihood(g graph.WeightedGraph, partition map[int]int, modelName string, params map[string]float64) (float64, error) {
	m, err := model.New(modelName)
	if err != nil {
		return 0, &ConfigurationError{Reason: err.Error()}
	}
	par := m.DefaultParameter()
	for name, value := range params {
		if name != m.ParameterName() {
			return 0, &ValidationError{
				Parameter: name,
				Value:     value,
				Reason:    fmt.Sprintf("model %s has no such parameter", m.Name()),
			}
		}
		par = value
	}
	if err := m.ValidateParameter(par); err != nil {
		return 0, &ValidationError{
			Parameter: m.ParameterName(),
			Value:     par,
			Reason:    err.Error(),
		}
	}
	lv, err := levelFromPartition(g, partition)
	if err != nil {
		return 0, err
	}
	return m.LogLikelihood(lv, par), nil
}

// EstimateParameter computes the maximum likelihood model parameter
// for a fixed partition, returned keyed by the model's parameter name.
func EstimateParameter(g graph.WeightedGraph, partition map[int]int, modelName string) (map[string]float64, error) {
	m, err := model.New(modelName)
	if err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}
	lv, err := levelFromPartition(g, partition)
	if err != nil {
		return nil, err
	}
	par, err := m.EstimateParameter(lv)
	if err != nil {
		return nil, &OptimizationError{LastParameter: m.DefaultParameter(), Err: err}
	}
	return map[string]float64{m.ParameterName(): par}, nil
}

// Modularity computes Newman's modularity of a partition, generalized
// by the resolution parameter gamma. The graph must have at least one
// edge.
func Modularity(g graph.WeightedGraph, partition map[int]int, gamma float64) (float64, error) {
	lv, err := levelFromPartition(g, partition)
	if err != nil {
		return 0, err
	}
	if lv.TotalWeight() <= 0 {
		return 0, &ValidationError{
			Parameter: "graph",
			Reason:    "a graph without links has undefined modularity",
		}
	}
	return model.DCPPM{}.Score(lv, gamma), nil
}

// levelFromPartition builds a community-statistics level for an
// externally supplied partition, renumbering arbitrary community
// labels to a dense range by first appearance.
func levelFromPartition(g graph.WeightedGraph, partition map[int]int) (*louvain.Level, error) {
	compact := graph.NewCompact(g)
	n := compact.Order()
	part := make([]int, n)
	relabel := make(map[int]int)
	for i := 0; i < n; i++ {
		label, ok := partition[compact.OriginalID(i)]
		if !ok {
			return nil, &ValidationError{
				Parameter: "partition",
				Reason:    fmt.Sprintf("node %d has no community assignment", compact.OriginalID(i)),
			}
		}
		dense, ok := relabel[label]
		if !ok {
			dense = len(relabel)
			relabel[label] = dense
		}
		part[i] = dense
	}
	raw := louvain.RawStats{NodeCount: n, DegreeLogSum: compact.DegreeLogSum()}
	return louvain.NewLevel(compact, raw, nil, part)
}
