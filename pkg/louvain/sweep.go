package louvain

import (
	"math/rand"
	"sort"
)

// minImprovement is the score improvement below which a pass, or a level, is
// considered flat. It matches the clamping epsilon of the likelihood models.
const minImprovement = 1e-7

// LocalSearch greedily reassigns nodes until a full sweep makes no move, the
// score stops improving, or maxPasses sweeps have run (0 means unbounded).
// rng shuffles the sweep order; nil keeps ascending node order. Accepted
// moves are applied immediately and aggregates updated in O(degree).
// Returns the number of accepted moves.
func (lv *Level) LocalSearch(m QualityModel, par float64, maxPasses int, rng *rand.Rand) int {
	totalMoves := 0
	passes := 0
	curScore := m.Score(lv, par)

	order := make([]int, lv.Graph.Order())
	for i := range order {
		order[i] = i
	}

	for {
		passes++
		if rng != nil {
			rng.Shuffle(len(order), func(i, j int) {
				order[i], order[j] = order[j], order[i]
			})
		}

		moves := 0
		for _, node := range order {
			from := lv.node2com[node]
			neigh := lv.NeighborWeights(node)

			ns := lv.NodeStats(node)
			ns.WeightToOld = neigh[from]
			removalCost := m.RemovalCost(lv, ns, par)

			lv.remove(node, from, neigh[from])

			best := from
			bestGain := 0.0
			for _, com := range sortedCommunities(neigh) {
				gain := removalCost + m.InsertionGain(lv, ns, com, neigh[com], par)
				if gain > bestGain {
					bestGain = gain
					best = com
				}
			}

			lv.insert(node, best, neigh[best])
			if best != from {
				moves++
			}
		}

		totalMoves += moves
		if moves == 0 {
			break
		}
		if maxPasses > 0 && passes >= maxPasses {
			break
		}
		newScore := m.Score(lv, par)
		if newScore-curScore < minImprovement {
			break
		}
		curScore = newScore
	}
	return totalMoves
}

// sortedCommunities returns the candidate community ids in ascending order,
// which makes tie-breaking between equal gains deterministic.
func sortedCommunities(weights map[int]float64) []int {
	coms := make([]int, 0, len(weights))
	for c := range weights {
		coms = append(coms, c)
	}
	sort.Ints(coms)
	return coms
}
