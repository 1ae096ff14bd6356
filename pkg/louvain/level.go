package louvain

import (
	"fmt"

	"github.com/dd0wney/cluso-communities/pkg/graph"
)

// RawStats carries the input-graph constants that likelihood formulas need
// at every aggregation depth. They never change across levels.
type RawStats struct {
	// NodeCount is the number of nodes in the original graph.
	NodeCount int
	// DegreeLogSum is sum(d*ln(d)) over the original graph's weighted degrees.
	DegreeLogSum float64
}

// Level is one (graph, partition, aggregates) snapshot of the hierarchy. It
// owns the per-community aggregate caches and is mutated exclusively by the
// local search sweeping it; once folded into the next level it is discarded.
type Level struct {
	Graph *graph.Compact
	Raw   RawStats

	totalWeight float64

	node2com   []int
	nodeSize   []int // original nodes represented by each node
	nodeDegree []float64
	nodeLoops  []float64

	comDegree   []float64 // total weighted degree per community
	comInternal []float64 // intra-community edge weight, self-loops included, each edge once
	comSize     []int     // original nodes per community
}

// NewLevel builds the aggregate state for g. sizes gives the number of
// original nodes behind each node of g (all ones at the finest level); nil
// means all ones. part is the initial community of each node; nil starts
// every node in its own community.
func NewLevel(g *graph.Compact, raw RawStats, sizes []int, part []int) (*Level, error) {
	n := g.Order()
	lv := &Level{
		Graph:       g,
		Raw:         raw,
		totalWeight: g.TotalWeight(),
		node2com:    make([]int, n),
		nodeSize:    make([]int, n),
		nodeDegree:  make([]float64, n),
		nodeLoops:   make([]float64, n),
		comDegree:   make([]float64, n),
		comInternal: make([]float64, n),
		comSize:     make([]int, n),
	}
	if sizes != nil && len(sizes) != n {
		return nil, fmt.Errorf("sizes length %d does not match graph order %d", len(sizes), n)
	}
	if part != nil && len(part) != n {
		return nil, fmt.Errorf("partition length %d does not match graph order %d", len(part), n)
	}
	for i := 0; i < n; i++ {
		lv.nodeDegree[i] = g.WeightedDegree(i)
		lv.nodeLoops[i] = g.SelfLoopWeight(i)
		if sizes != nil {
			lv.nodeSize[i] = sizes[i]
		} else {
			lv.nodeSize[i] = 1
		}
	}

	if part == nil {
		for i := 0; i < n; i++ {
			lv.node2com[i] = i
			lv.comDegree[i] = lv.nodeDegree[i]
			lv.comInternal[i] = lv.nodeLoops[i]
			lv.comSize[i] = lv.nodeSize[i]
		}
		return lv, nil
	}

	for i := 0; i < n; i++ {
		com := part[i]
		if com < 0 || com >= n {
			return nil, fmt.Errorf("node %d assigned to community %d outside [0,%d)", i, com, n)
		}
		lv.node2com[i] = com
		lv.comDegree[com] += lv.nodeDegree[i]
		lv.comSize[com] += lv.nodeSize[i]
		lv.comInternal[com] += lv.nodeLoops[i]
	}
	// Intra-community edges, each counted once.
	for u := 0; u < n; u++ {
		for _, nb := range g.Neighbors(u) {
			if nb.Node > u && part[nb.Node] == part[u] {
				lv.comInternal[part[u]] += nb.Weight
			}
		}
	}
	return lv, nil
}

// Community returns the community of node.
func (lv *Level) Community(node int) int { return lv.node2com[node] }

// TotalWeight returns the level graph's total edge weight E.
func (lv *Level) TotalWeight() float64 { return lv.totalWeight }

// ComDegree returns the total weighted degree of community c.
func (lv *Level) ComDegree(c int) float64 { return lv.comDegree[c] }

// ComInternal returns the intra-community weight of c, self-loops included.
func (lv *Level) ComInternal(c int) float64 { return lv.comInternal[c] }

// ComSize returns the number of original nodes in community c.
func (lv *Level) ComSize(c int) int { return lv.comSize[c] }

// PairCount returns N*(N-1)/2 over the original node count.
func (lv *Level) PairCount() float64 {
	n := float64(lv.Raw.NodeCount)
	return n * (n - 1) / 2
}

// NodeStats assembles the per-node quantities models price moves with.
// WeightToOld is left zero; the sweep fills it from the neighbor weights.
func (lv *Level) NodeStats(node int) NodeStats {
	return NodeStats{
		Node:     node,
		Degree:   lv.nodeDegree[node],
		SelfLoop: lv.nodeLoops[node],
		Size:     lv.nodeSize[node],
	}
}

// NeighborWeights returns, per neighboring community, the total edge weight
// from node into that community. Self-loops are excluded, so the node's own
// community appears only when a proper neighbor lives there.
func (lv *Level) NeighborWeights(node int) map[int]float64 {
	weights := make(map[int]float64)
	for _, nb := range lv.Graph.Neighbors(node) {
		if nb.Node == node {
			continue
		}
		weights[lv.node2com[nb.Node]] += nb.Weight
	}
	return weights
}

// remove lifts node out of community com. weightToCom is the node's edge
// weight into com, self-loops excluded.
func (lv *Level) remove(node, com int, weightToCom float64) {
	lv.comDegree[com] -= lv.nodeDegree[node]
	lv.comInternal[com] -= weightToCom + lv.nodeLoops[node]
	lv.comSize[com] -= lv.nodeSize[node]
	lv.node2com[node] = -1
}

// insert places node into community com. weightToCom is the node's edge
// weight into com, self-loops excluded.
func (lv *Level) insert(node, com int, weightToCom float64) {
	lv.node2com[node] = com
	lv.comDegree[com] += lv.nodeDegree[node]
	lv.comInternal[com] += weightToCom + lv.nodeLoops[node]
	lv.comSize[com] += lv.nodeSize[node]
}

// IntraWeight returns the total intra-community weight Ein.
func (lv *Level) IntraWeight() float64 {
	var ein float64
	for _, w := range lv.comInternal {
		ein += w
	}
	return ein
}

// InterWeight returns the total cross-community weight Eout = E - Ein.
func (lv *Level) InterWeight() float64 {
	return lv.totalWeight - lv.IntraWeight()
}

// SumSizePairs returns sum(s_c*(s_c-1)/2) over community sizes, i.e. the
// number of original node pairs falling inside one community.
func (lv *Level) SumSizePairs() float64 {
	var sum float64
	for _, s := range lv.comSize {
		if s > 1 {
			sum += float64(s) * float64(s-1) / 2
		}
	}
	return sum
}

// SumDegreeSquared returns sum(degree_c^2) over communities.
func (lv *Level) SumDegreeSquared() float64 {
	var sum float64
	for _, d := range lv.comDegree {
		sum += d * d
	}
	return sum
}

// CommunityCount returns the number of non-empty communities.
func (lv *Level) CommunityCount() int {
	count := 0
	for _, s := range lv.comSize {
		if s > 0 {
			count++
		}
	}
	return count
}

// CompactPartition returns the node -> community assignment renumbered to a
// contiguous range starting at 0, in order of first appearance by node index.
func (lv *Level) CompactPartition() []int {
	part := make([]int, len(lv.node2com))
	renum := make(map[int]int)
	next := 0
	for node, com := range lv.node2com {
		id, ok := renum[com]
		if !ok {
			id = next
			renum[com] = id
			next++
		}
		part[node] = id
	}
	return part
}

// Validate checks the aggregate invariants: every node assigned, community
// degrees summing to 2E and internal weight not exceeding E.
func (lv *Level) Validate() error {
	var degSum, inSum float64
	for node, com := range lv.node2com {
		if com < 0 {
			return fmt.Errorf("node %d is unassigned", node)
		}
	}
	for c := range lv.comDegree {
		degSum += lv.comDegree[c]
		inSum += lv.comInternal[c]
	}
	if diff := degSum - 2*lv.totalWeight; diff > 1e-9 || diff < -1e-9 {
		return fmt.Errorf("community degrees sum to %g, want %g", degSum, 2*lv.totalWeight)
	}
	if inSum > lv.totalWeight+1e-9 {
		return fmt.Errorf("internal weight %g exceeds total weight %g", inSum, lv.totalWeight)
	}
	return nil
}
