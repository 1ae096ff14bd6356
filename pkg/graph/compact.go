package graph

import "math"

// Compact is a dense, immutable snapshot of a WeightedGraph with node ids
// renumbered to [0, n). Every optimization level runs on a Compact so the
// hot loops index slices instead of hashing map keys. The original node ids
// are retained for translating partitions back to the caller's id space.
type Compact struct {
	ids    []int       // dense index -> original node id
	index  map[int]int // original node id -> dense index
	adj    [][]Neighbor
	degree []float64
	loops  []float64
	total  float64
}

// NewCompact builds a dense snapshot of g. Node ids are assigned in the
// order of g.Nodes(), which keeps the layout deterministic.
func NewCompact(g WeightedGraph) *Compact {
	nodes := g.Nodes()
	c := &Compact{
		ids:    nodes,
		index:  make(map[int]int, len(nodes)),
		adj:    make([][]Neighbor, len(nodes)),
		degree: make([]float64, len(nodes)),
		loops:  make([]float64, len(nodes)),
		total:  g.TotalWeight(),
	}
	for i, n := range nodes {
		c.index[n] = i
	}
	for i, n := range nodes {
		raw := g.Neighbors(n)
		dense := make([]Neighbor, len(raw))
		for j, nb := range raw {
			dense[j] = Neighbor{Node: c.index[nb.Node], Weight: nb.Weight}
		}
		c.adj[i] = dense
		c.degree[i] = g.WeightedDegree(n)
		c.loops[i] = g.SelfLoopWeight(n)
	}
	return c
}

// Order returns the number of nodes.
func (c *Compact) Order() int { return len(c.ids) }

// Nodes returns the dense node ids 0..n-1.
func (c *Compact) Nodes() []int {
	nodes := make([]int, len(c.ids))
	for i := range nodes {
		nodes[i] = i
	}
	return nodes
}

// Neighbors returns the dense adjacency of n sorted by neighbor index.
func (c *Compact) Neighbors(n int) []Neighbor { return c.adj[n] }

// WeightedDegree returns the weighted degree of dense node n.
func (c *Compact) WeightedDegree(n int) float64 { return c.degree[n] }

// SelfLoopWeight returns the self-loop weight of dense node n.
func (c *Compact) SelfLoopWeight(n int) float64 { return c.loops[n] }

// TotalWeight returns the total edge weight of the snapshot.
func (c *Compact) TotalWeight() float64 { return c.total }

// OriginalID translates a dense index back to the caller's node id.
func (c *Compact) OriginalID(n int) int { return c.ids[n] }

// DenseIndex translates an original node id to its dense index. The second
// return is false when the node is not part of the graph.
func (c *Compact) DenseIndex(id int) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}

// DegreeLogSum returns sum(d*ln(d)) over all nodes with positive weighted
// degree. The quantity is partition independent and is carried unchanged
// through every aggregation level by the likelihood models.
func (c *Compact) DegreeLogSum() float64 {
	var sum float64
	for _, d := range c.degree {
		if d > 0 {
			sum += d * math.Log(d)
		}
	}
	return sum
}
