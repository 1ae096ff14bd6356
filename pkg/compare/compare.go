// Package compare scores the agreement between two partitions of the
// same node set, typically a detected partition against ground truth.
package compare

import (
	"fmt"
	"math"
)

// contingency holds pairwise co-assignment counts for two partitions.
type contingency struct {
	n     int
	cells map[[2]int]int
	rows  map[int]int
	cols  map[int]int
}

func buildContingency(a, b map[int]int) (*contingency, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("partitions cover different node sets: %d vs %d nodes", len(a), len(b))
	}
	ct := &contingency{
		cells: make(map[[2]int]int),
		rows:  make(map[int]int),
		cols:  make(map[int]int),
	}
	for node, ca := range a {
		cb, ok := b[node]
		if !ok {
			return nil, fmt.Errorf("node %d missing from second partition", node)
		}
		ct.n++
		ct.cells[[2]int{ca, cb}]++
		ct.rows[ca]++
		ct.cols[cb]++
	}
	return ct, nil
}

func choose2(n int) float64 {
	return float64(n) * float64(n-1) / 2
}

// pairCounts returns the standard pair-counting decomposition: pairs
// together in both partitions, together only in the first, together
// only in the second, and apart in both.
func (ct *contingency) pairCounts() (a11, a10, a01, a00 float64) {
	var sumCells, sumRows, sumCols float64
	for _, c := range ct.cells {
		sumCells += choose2(c)
	}
	for _, c := range ct.rows {
		sumRows += choose2(c)
	}
	for _, c := range ct.cols {
		sumCols += choose2(c)
	}
	total := choose2(ct.n)
	a11 = sumCells
	a10 = sumRows - sumCells
	a01 = sumCols - sumCells
	a00 = total - sumRows - sumCols + sumCells
	return a11, a10, a01, a00
}

// Rand computes the Rand index: the fraction of node pairs on which
// the two partitions agree. Ranges over [0, 1].
func Rand(a, b map[int]int) (float64, error) {
	ct, err := buildContingency(a, b)
	if err != nil {
		return 0, err
	}
	if ct.n < 2 {
		return 1, nil
	}
	a11, _, _, a00 := ct.pairCounts()
	return (a11 + a00) / choose2(ct.n), nil
}

// Jaccard computes the Jaccard index over co-clustered node pairs.
// When neither partition groups any pair together it returns 1.
func Jaccard(a, b map[int]int) (float64, error) {
	ct, err := buildContingency(a, b)
	if err != nil {
		return 0, err
	}
	a11, a10, a01, _ := ct.pairCounts()
	denom := a11 + a10 + a01
	if denom == 0 {
		return 1, nil
	}
	return a11 / denom, nil
}

// NMI computes the normalized mutual information of two partitions,
// with geometric-mean normalization. When either partition is a single
// community its entropy is zero and NMI is undefined; -1 is returned
// in that case.
func NMI(a, b map[int]int) (float64, error) {
	ct, err := buildContingency(a, b)
	if err != nil {
		return 0, err
	}
	if ct.n == 0 {
		return -1, nil
	}
	n := float64(ct.n)
	var ha, hb float64
	for _, c := range ct.rows {
		p := float64(c) / n
		ha -= p * math.Log(p)
	}
	for _, c := range ct.cols {
		p := float64(c) / n
		hb -= p * math.Log(p)
	}
	if ha == 0 || hb == 0 {
		return -1, nil
	}
	var mi float64
	for cell, c := range ct.cells {
		pxy := float64(c) / n
		px := float64(ct.rows[cell[0]]) / n
		py := float64(ct.cols[cell[1]]) / n
		mi += pxy * math.Log(pxy/(px*py))
	}
	return mi / math.Sqrt(ha*hb), nil
}
