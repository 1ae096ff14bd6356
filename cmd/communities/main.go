package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dd0wney/cluso-communities/pkg/compare"
	"github.com/dd0wney/cluso-communities/pkg/config"
	"github.com/dd0wney/cluso-communities/pkg/detect"
	"github.com/dd0wney/cluso-communities/pkg/export"
	"github.com/dd0wney/cluso-communities/pkg/graph"
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
	"github.com/dd0wney/cluso-communities/pkg/model"
)

func main() {
	var (
		configFile  = flag.String("config", "", "YAML run configuration (overrides the other flags)")
		edgesFile   = flag.String("edges", "", "Edge list file (from<TAB>to[<TAB>weight])")
		clusterFile = flag.String("clusters", "", "Ground-truth cluster file (node<TAB>cluster)")
		models      = flag.String("models", "dcppm", "Comma-separated models to run (ppm,dcppm,ilfr,ilfrs)")
		seed        = flag.Int64("seed", 0, "Sweep-order seed (0 = deterministic ascending order)")
		workers     = flag.Int("workers", 1, "Concurrent detection runs")
		maxIter     = flag.Int("max-iterations", 0, "Outer iteration cap (0 = default)")
		tolerance   = flag.Float64("tolerance", 0, "Parameter convergence tolerance (0 = default)")
		exportPath  = flag.String("export", "", "Append results to this result log")
		logLevel    = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	)
	flag.Parse()

	cfg, err := buildConfig(*configFile, *edgesFile, *clusterFile, *models, *seed,
		*workers, *maxIter, *tolerance, *exportPath, *logLevel)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	fmt.Printf("🔍 Cluso Community Detection\n")
	fmt.Printf("============================\n\n")

	fmt.Printf("📂 Loading graph from %s...\n", cfg.Dataset.Edges)
	g, err := graph.LoadEdgeList(cfg.Dataset.Edges)
	if err != nil {
		log.Fatalf("Failed to load edge list: %v", err)
	}
	fmt.Printf("  Nodes: %d\n  Edges: %d\n\n", g.Order(), g.EdgeCount())

	var truth map[int]int
	if cfg.Dataset.Clusters != "" {
		truth, err = graph.LoadClusters(cfg.Dataset.Clusters, g)
		if err != nil {
			log.Fatalf("Failed to load ground truth: %v", err)
		}
		fmt.Printf("  Ground truth: %d labeled nodes\n\n", len(truth))
	}

	opts := detect.Options{
		MaxOuterIterations: cfg.Detection.MaxOuterIterations,
		Tolerance:          cfg.Detection.Tolerance,
		MaxPasses:          cfg.Detection.MaxPasses,
		Seed:               cfg.Detection.Seed,
		Logger:             logger,
		Metrics:            metrics.Default(),
	}
	runs := make([]detect.Run, 0, len(cfg.Models))
	for _, mc := range cfg.Models {
		runs = append(runs, detect.Run{
			Model:             mc.Name,
			InitialParameters: mc.Parameters,
			Options:           opts,
		})
	}

	fmt.Printf("🚀 Running %d detection(s) on %d worker(s)...\n\n", len(runs), cfg.Workers)
	start := time.Now()
	results, err := detect.RunMany(g, runs, cfg.Workers)
	if err != nil {
		log.Fatalf("Detection failed: %v", err)
	}
	fmt.Printf("  ✅ Finished in %v\n\n", time.Since(start).Round(time.Millisecond))

	printResults(results, truth)

	if cfg.Export.Path != "" {
		if err := exportResults(cfg.Export.Path, results); err != nil {
			log.Fatalf("Failed to export results: %v", err)
		}
		fmt.Printf("\n💾 Results appended to %s\n", cfg.Export.Path)
	}

	if best := detect.Best(results); best != nil {
		fmt.Printf("\n🏆 Best model by log-likelihood: %s (%.4f)\n",
			best.Model, best.Result.LogLikelihood)
	}
}

func buildConfig(configFile, edges, clusters, models string, seed int64,
	workers, maxIter int, tolerance float64, exportPath, logLevel string) (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	if edges == "" {
		return nil, fmt.Errorf("either -config or -edges is required")
	}
	cfg := &config.Config{
		Dataset: config.Dataset{Edges: edges, Clusters: clusters},
		Detection: config.Detection{
			MaxOuterIterations: maxIter,
			Tolerance:          tolerance,
			Seed:               seed,
		},
		Workers:  workers,
		Export:   config.Export{Path: exportPath},
		LogLevel: logLevel,
	}
	for _, name := range strings.Split(models, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cfg.Models = append(cfg.Models, config.Model{Name: name})
	}
	if len(cfg.Models) == 0 {
		return nil, fmt.Errorf("no models selected")
	}
	for _, mc := range cfg.Models {
		if _, err := model.New(mc.Name); err != nil {
			return nil, err
		}
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, nil
}

func printResults(results []detect.RunResult, truth map[int]int) {
	fmt.Printf("%-8s %-10s %12s %14s %6s %6s", "MODEL", "PARAM", "VALUE", "LOG-LIKE", "COMS", "ITERS")
	if truth != nil {
		fmt.Printf(" %8s %8s %8s", "RAND", "JACCARD", "NMI")
	}
	fmt.Println()

	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%-8s failed: %v\n", r.Model, r.Err)
			continue
		}
		res := r.Result
		parName, parValue := singleParameter(res.Parameters)
		fmt.Printf("%-8s %-10s %12.6f %14.4f %6d %6d",
			r.Model, parName, parValue, res.LogLikelihood,
			countCommunities(res.Partition), res.OuterIterations)
		if truth != nil {
			printAgreement(res.Partition, truth)
		}
		fmt.Println()
	}
}

func printAgreement(part, truth map[int]int) {
	labeled := make(map[int]int, len(truth))
	for node := range truth {
		if com, ok := part[node]; ok {
			labeled[node] = com
		}
	}
	rand, err := compare.Rand(labeled, truth)
	if err != nil {
		fmt.Printf(" %8s %8s %8s", "-", "-", "-")
		return
	}
	jaccard, _ := compare.Jaccard(labeled, truth)
	nmi, _ := compare.NMI(labeled, truth)
	fmt.Printf(" %8.4f %8.4f %8.4f", rand, jaccard, nmi)
}

func exportResults(path string, results []detect.RunResult) error {
	writer, err := export.NewWriter(path)
	if err != nil {
		return err
	}
	defer writer.Close()
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		res := r.Result
		if _, err := writer.Append(&export.Record{
			RunID:           r.ID,
			Model:           r.Model,
			Partition:       res.Partition,
			Parameters:      res.Parameters,
			LogLikelihood:   res.LogLikelihood,
			Converged:       res.Converged,
			OuterIterations: res.OuterIterations,
			CreatedAt:       time.Now().UTC(),
		}); err != nil {
			return err
		}
	}
	return nil
}

func singleParameter(params map[string]float64) (string, float64) {
	for name, value := range params {
		return name, value
	}
	return "-", 0
}

func countCommunities(part map[int]int) int {
	coms := make(map[int]bool, len(part))
	for _, c := range part {
		coms[c] = true
	}
	return len(coms)
}
