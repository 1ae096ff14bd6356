package graph

import "math/rand"

// PlantedPartition generates a synthetic benchmark graph with the given number
// of equally sized blocks. Within-block pairs receive an edge with probability
// pIn, cross-block pairs with probability pOut, all with weight 1. The
// returned partition is the planted ground truth (node -> block).
func PlantedPartition(blocks, blockSize int, pIn, pOut float64, seed int64) (*Adjacency, map[int]int) {
	rng := rand.New(rand.NewSource(seed))
	n := blocks * blockSize

	g := NewAdjacency()
	truth := make(map[int]int, n)
	for v := 0; v < n; v++ {
		g.AddNode(v)
		truth[v] = v / blockSize
	}
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			p := pOut
			if truth[u] == truth[v] {
				p = pIn
			}
			if rng.Float64() < p {
				g.AddEdge(u, v, 1)
			}
		}
	}
	return g, truth
}

// DisjointCliques generates count fully connected blocks of the given size
// with no cross edges, weight 1 everywhere. Two triangles is
// DisjointCliques(2, 3).
func DisjointCliques(count, size int) (*Adjacency, map[int]int) {
	g := NewAdjacency()
	truth := make(map[int]int, count*size)
	for c := 0; c < count; c++ {
		base := c * size
		for i := 0; i < size; i++ {
			g.AddNode(base + i)
			truth[base+i] = c
			for j := i + 1; j < size; j++ {
				g.AddEdge(base+i, base+j, 1)
			}
		}
	}
	return g, truth
}
