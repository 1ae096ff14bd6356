package louvain

// NodeStats captures the per-node quantities a model needs to price a move.
// Degree and SelfLoop are taken from the node's level graph; Size is the
// number of original nodes the (possibly aggregated) node represents;
// WeightToOld is the edge weight from the node into its current community,
// self-loops excluded.
type NodeStats struct {
	Node        int
	Degree      float64
	SelfLoop    float64
	Size        int
	WeightToOld float64
}

// QualityModel prices node moves and scores partitions under one statistical
// generative model. The local search is model agnostic: it only ever calls
// RemovalCost once per node and InsertionGain once per candidate community,
// so a sweep stays O(degree) per node for every model.
type QualityModel interface {
	// Name returns the literal model name ("ppm", "dcppm", "ilfr", "ilfrs").
	Name() string
	// ParameterName returns the scalar parameter's name ("gamma" or "mu").
	ParameterName() string

	// RemovalCost is the log-likelihood change from lifting the node out of
	// its current community. Level aggregates still include the node.
	RemovalCost(lv *Level, ns NodeStats, par float64) float64
	// InsertionGain is the log-likelihood change from dropping the node into
	// community to, whose aggregates must not include the node. weightTo is
	// the edge weight from the node into to, self-loops excluded.
	InsertionGain(lv *Level, ns NodeStats, to int, weightTo float64, par float64) float64

	// Score is the cheap per-level objective used to decide whether building
	// another aggregation level still pays off.
	Score(lv *Level, par float64) float64
	// LogLikelihood is the full model log-likelihood of the partition held by
	// lv, comparable across runs and parameter values of the same model.
	LogLikelihood(lv *Level, par float64) float64

	// EstimateParameter returns the best parameter for the fixed partition
	// held by lv.
	EstimateParameter(lv *Level) (float64, error)

	// DefaultParameter returns the conventional starting value.
	DefaultParameter() float64
	// ValidateParameter reports whether par lies in the model's domain.
	ValidateParameter(par float64) error
	// ClampParameter forces par onto the model's valid domain.
	ClampParameter(par float64) float64
}

// MoveGain prices reassigning node to community to. It is exactly zero when
// to is the node's current community. Aggregates are not mutated.
func MoveGain(m QualityModel, lv *Level, node, to int, par float64) float64 {
	from := lv.Community(node)
	if to == from {
		return 0
	}
	neigh := lv.NeighborWeights(node)
	ns := lv.NodeStats(node)
	ns.WeightToOld = neigh[from]
	return m.RemovalCost(lv, ns, par) + m.InsertionGain(lv, ns, to, neigh[to], par)
}
