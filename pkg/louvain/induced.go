package louvain

import "github.com/dd0wney/cluso-communities/pkg/graph"

// Induce folds the level's partition into the next coarser graph: one node
// per community, cross-community weights summed into single edges, and all
// intra-community weight (edges plus existing self-loops) folded into the
// community node's self-loop. Total graph weight is preserved exactly.
// Returns the coarse graph, the compact partition that produced it, and the
// per-community original-node counts for the next level.
func (lv *Level) Induce() (*graph.Compact, []int, []int) {
	part := lv.CompactPartition()
	count := 0
	for _, c := range part {
		if c+1 > count {
			count = c + 1
		}
	}

	agg := graph.NewAdjacency()
	for c := 0; c < count; c++ {
		agg.AddNode(c)
	}
	n := lv.Graph.Order()
	for u := 0; u < n; u++ {
		for _, nb := range lv.Graph.Neighbors(u) {
			if nb.Node < u {
				continue // each undirected edge once; self-loops pass as nb.Node == u
			}
			agg.AddEdge(part[u], part[nb.Node], nb.Weight)
		}
	}

	sizes := make([]int, count)
	for u := 0; u < n; u++ {
		sizes[part[u]] += lv.nodeSize[u]
	}
	return graph.NewCompact(agg), part, sizes
}
