package graph

import "sort"

// Neighbor is one weighted adjacency entry.
type Neighbor struct {
	Node   int
	Weight float64
}

// WeightedGraph is the read-only contract the detection core consumes.
// Weighted degree counts a self-loop twice, so the handshake identity
// sum(WeightedDegree) == 2*TotalWeight always holds. TotalWeight counts
// every edge once, self-loops included.
type WeightedGraph interface {
	// Order returns the number of nodes.
	Order() int
	// Nodes returns all node ids in ascending order.
	Nodes() []int
	// Neighbors returns the weighted adjacency of n, self-loop included,
	// sorted by neighbor id.
	Neighbors(n int) []Neighbor
	// WeightedDegree returns the sum of incident edge weights, counting a
	// self-loop twice.
	WeightedDegree(n int) float64
	// SelfLoopWeight returns the weight of the self-loop on n, or 0.
	SelfLoopWeight(n int) float64
	// TotalWeight returns the sum of all edge weights, each edge counted once.
	TotalWeight() float64
}

// Adjacency is an undirected weighted graph backed by nested adjacency maps.
// It is the reference WeightedGraph implementation used by the loaders,
// generators and the aggregation step.
type Adjacency struct {
	adj   map[int]map[int]float64
	total float64
}

// NewAdjacency creates an empty undirected weighted graph.
func NewAdjacency() *Adjacency {
	return &Adjacency{adj: make(map[int]map[int]float64)}
}

// AddNode ensures n exists, without any incident edges.
func (g *Adjacency) AddNode(n int) {
	if _, ok := g.adj[n]; !ok {
		g.adj[n] = make(map[int]float64)
	}
}

// AddEdge adds weight w to the undirected edge {u, v}. Adding the same pair
// again accumulates weight. Self-loops (u == v) are allowed.
func (g *Adjacency) AddEdge(u, v int, w float64) {
	g.AddNode(u)
	g.AddNode(v)
	g.adj[u][v] += w
	if u != v {
		g.adj[v][u] += w
	}
	g.total += w
}

// HasEdge reports whether {u, v} exists.
func (g *Adjacency) HasEdge(u, v int) bool {
	if m, ok := g.adj[u]; ok {
		_, ok = m[v]
		return ok
	}
	return false
}

// EdgeWeight returns the weight of {u, v}, or 0 when absent.
func (g *Adjacency) EdgeWeight(u, v int) float64 {
	if m, ok := g.adj[u]; ok {
		return m[v]
	}
	return 0
}

// Order returns the number of nodes.
func (g *Adjacency) Order() int { return len(g.adj) }

// Nodes returns all node ids in ascending order.
func (g *Adjacency) Nodes() []int {
	nodes := make([]int, 0, len(g.adj))
	for n := range g.adj {
		nodes = append(nodes, n)
	}
	sort.Ints(nodes)
	return nodes
}

// Neighbors returns the weighted adjacency of n sorted by neighbor id.
func (g *Adjacency) Neighbors(n int) []Neighbor {
	m := g.adj[n]
	if len(m) == 0 {
		return nil
	}
	out := make([]Neighbor, 0, len(m))
	for v, w := range m {
		out = append(out, Neighbor{Node: v, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Node < out[j].Node })
	return out
}

// WeightedDegree returns the weighted degree of n, self-loop counted twice.
func (g *Adjacency) WeightedDegree(n int) float64 {
	var deg float64
	for v, w := range g.adj[n] {
		deg += w
		if v == n {
			deg += w
		}
	}
	return deg
}

// SelfLoopWeight returns the self-loop weight of n, or 0.
func (g *Adjacency) SelfLoopWeight(n int) float64 {
	return g.adj[n][n]
}

// TotalWeight returns the sum of all edge weights, each counted once.
func (g *Adjacency) TotalWeight() float64 { return g.total }

// EdgeCount returns the number of distinct edges, self-loops included.
func (g *Adjacency) EdgeCount() int {
	count := 0
	for n, m := range g.adj {
		for v := range m {
			if v >= n {
				count++
			}
		}
	}
	return count
}
