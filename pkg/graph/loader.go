package graph

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadEdgeList reads a tab- or space-separated edge list file into an
// Adjacency. Each line is "from to" with an optional third weight column
// (weight defaults to 1). Blank lines and lines starting with '#' are
// skipped. Repeated occurrences of a pair are ignored, keeping the first
// weight; the dataset tooling lists each undirected edge twice.
func LoadEdgeList(path string) (*Adjacency, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open edge list: %w", err)
	}
	defer f.Close()

	g := NewAdjacency()
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("edge list line %d: expected at least 2 columns, got %d", lineNo, len(fields))
		}
		from, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("edge list line %d: bad source node: %w", lineNo, err)
		}
		to, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("edge list line %d: bad target node: %w", lineNo, err)
		}
		weight := 1.0
		if len(fields) >= 3 {
			weight, err = strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("edge list line %d: bad weight: %w", lineNo, err)
			}
			if weight <= 0 {
				return nil, fmt.Errorf("edge list line %d: weight must be positive, got %g", lineNo, weight)
			}
		}
		if g.HasEdge(from, to) {
			continue
		}
		g.AddEdge(from, to, weight)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read edge list: %w", err)
	}
	return g, nil
}

// LoadClusters reads a "node cluster" TSV file into a partition map.
// Lines naming nodes absent from g (when g is non-nil) are ignored, matching
// the ground-truth loading behavior of the dataset tooling.
func LoadClusters(path string, g *Adjacency) (map[int]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cluster file: %w", err)
	}
	defer f.Close()

	partition := make(map[int]int)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("cluster file line %d: expected 2 columns, got %d", lineNo, len(fields))
		}
		node, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("cluster file line %d: bad node: %w", lineNo, err)
		}
		cluster, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("cluster file line %d: bad cluster: %w", lineNo, err)
		}
		if g != nil {
			if _, ok := g.adj[node]; !ok {
				continue
			}
		}
		partition[node] = cluster
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cluster file: %w", err)
	}
	return partition, nil
}
