package louvain

import (
	"math/rand"

	"github.com/dd0wney/cluso-communities/pkg/graph"
)

// Dendrogram is the ordered stack of per-level partitions from finest to
// coarsest. Levels[i] maps a level-i node to its level-(i+1) community;
// community ids are contiguous from 0 at every level.
type Dendrogram struct {
	Levels [][]int
}

// Depth returns the number of levels.
func (d *Dendrogram) Depth() int { return len(d.Levels) }

// PartitionAtLevel composes levels 0..level into a partition of the original
// nodes. Composition is associative: PartitionAtLevel(Depth()-1) equals
// Final().
func (d *Dendrogram) PartitionAtLevel(level int) []int {
	part := make([]int, len(d.Levels[0]))
	copy(part, d.Levels[0])
	for i := 1; i <= level; i++ {
		for node, com := range part {
			part[node] = d.Levels[i][com]
		}
	}
	return part
}

// Final returns the fully collapsed node-level partition.
func (d *Dendrogram) Final() []int {
	return d.PartitionAtLevel(len(d.Levels) - 1)
}

// Config bounds one multi-level optimization.
type Config struct {
	// MaxPasses caps the sweeps of each local search phase; 0 means
	// unbounded (run to a local optimum).
	MaxPasses int
	// Rand shuffles sweep order when non-nil.
	Rand *rand.Rand
}

// Stats summarizes one multi-level optimization for reporting.
type Stats struct {
	Levels int
	Moves  int
}

// GenerateDendrogram runs local search and aggregation to a hierarchy-level
// fixed point under model m with parameter par. A graph without edges yields
// the degenerate single-level all-singleton dendrogram.
func GenerateDendrogram(g *graph.Compact, raw RawStats, m QualityModel, par float64, cfg Config) (*Dendrogram, Stats, error) {
	d := &Dendrogram{}
	stats := Stats{}

	if g.TotalWeight() == 0 {
		part := make([]int, g.Order())
		for i := range part {
			part[i] = i
		}
		d.Levels = append(d.Levels, part)
		stats.Levels = 1
		return d, stats, nil
	}

	lv, err := NewLevel(g, raw, nil, nil)
	if err != nil {
		return nil, stats, err
	}
	stats.Moves += lv.LocalSearch(m, par, cfg.MaxPasses, cfg.Rand)
	score := m.Score(lv, par)
	coarse, part, sizes := lv.Induce()
	d.Levels = append(d.Levels, part)
	stats.Levels++

	for {
		lv, err = NewLevel(coarse, raw, sizes, nil)
		if err != nil {
			return nil, stats, err
		}
		stats.Moves += lv.LocalSearch(m, par, cfg.MaxPasses, cfg.Rand)
		newScore := m.Score(lv, par)
		if newScore-score < minImprovement {
			break
		}
		score = newScore
		coarse, part, sizes = lv.Induce()
		d.Levels = append(d.Levels, part)
		stats.Levels++
	}
	return d, stats, nil
}
