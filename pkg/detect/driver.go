package detect

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/dd0wney/cluso-communities/pkg/graph"
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/louvain"
	"github.com/dd0wney/cluso-communities/pkg/model"
	"github.com/dd0wney/cluso-communities/pkg/validation"
)

// State names a phase of the alternating optimization loop.
type State int

const (
	StateInitializing State = iota
	StatePartitionPhase
	StateParameterPhase
	StateConverged
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StatePartitionPhase:
		return "partition_phase"
	case StateParameterPhase:
		return "parameter_phase"
	case StateConverged:
		return "converged"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// IterationStats records one outer iteration of a detection run.
type IterationStats struct {
	Iteration     int
	Parameter     float64
	LogLikelihood float64
	Communities   int
	Levels        int
	Moves         int
}

// Result is the outcome of a detection run. Partition maps original
// node ids to community labels; the labels are contiguous starting
// from zero. It always carries the best pair seen across all outer
// iterations, whether or not the loop converged.
type Result struct {
	Partition       map[int]int
	Parameters      map[string]float64
	LogLikelihood   float64
	Converged       bool
	State           State
	OuterIterations int
	History         []IterationStats
}

// Driver runs the alternating partition/parameter optimization for one
// graph and model. A Driver is safe to Run multiple times; each run is
// independent and, for a fixed seed, deterministic.
type Driver struct {
	modelName string
	model     louvain.QualityModel
	compact   *graph.Compact
	raw       louvain.RawStats
	initial   float64
	opts      Options
	log       logging.Logger
	state     State
}

// State reports the phase the driver is currently in: StateInitializing
// before Run, one of the two optimization phases while Run executes, and
// the terminal state of the last run afterwards.
func (d *Driver) State() State { return d.state }

func (d *Driver) setState(s State) {
	d.state = s
	d.log.Debug("state transition", logging.String("state", s.String()))
}

// NewDriver validates the configuration and prepares a driver. Unknown
// model names and malformed options are ConfigurationErrors; an
// out-of-domain initial parameter is a ValidationError.
func NewDriver(g graph.WeightedGraph, modelName string, initial map[string]float64, opts Options) (*Driver, error) {
	m, err := model.New(modelName)
	if err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}
	if err := validation.Struct(opts); err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}
	opts = opts.normalized()

	par := m.DefaultParameter()
	for name, value := range initial {
		if name != m.ParameterName() {
			return nil, &ValidationError{
				Parameter: name,
				Value:     value,
				Reason:    fmt.Sprintf("model %s has no such parameter", m.Name()),
			}
		}
		par = value
	}
	if err := m.ValidateParameter(par); err != nil {
		return nil, &ValidationError{
			Parameter: m.ParameterName(),
			Value:     par,
			Reason:    err.Error(),
		}
	}

	compact := graph.NewCompact(g)
	return &Driver{
		modelName: m.Name(),
		model:     m,
		compact:   compact,
		raw: louvain.RawStats{
			NodeCount:    compact.Order(),
			DegreeLogSum: compact.DegreeLogSum(),
		},
		initial: par,
		opts:    opts,
		log:     opts.Logger.With(logging.Model(m.Name())),
		state:   StateInitializing,
	}, nil
}

// Run executes the alternating loop until convergence or the outer
// iteration cap. Convergence is declared when the partition stops
// changing, the parameter change drops below the tolerance, or the
// estimator revisits a previously seen parameter value.
func (d *Driver) Run() (*Result, error) {
	start := time.Now()

	if d.compact.Order() == 0 || d.compact.TotalWeight() == 0 {
		return d.runDegenerate(start)
	}

	var rng *rand.Rand
	if d.opts.Seed != 0 {
		rng = rand.New(rand.NewSource(d.opts.Seed))
	}

	res := &Result{State: StateExhausted}
	par := d.initial
	bestLL := math.Inf(-1)
	var bestPart []int
	bestPar := par
	var prevPart []int
	seen := map[float64]bool{par: true}
	totalMoves := 0

	for iter := 1; iter <= d.opts.MaxOuterIterations; iter++ {
		res.OuterIterations = iter

		d.setState(StatePartitionPhase)
		dendo, stats, err := louvain.GenerateDendrogram(d.compact, d.raw, d.model, par, louvain.Config{
			MaxPasses: d.opts.MaxPasses,
			Rand:      rng,
		})
		if err != nil {
			return nil, err
		}
		if d.opts.Metrics != nil {
			d.opts.Metrics.RecordPartitionPhase(d.modelName, stats.Levels)
		}
		totalMoves += stats.Moves

		part := dendo.Final()
		lv, err := louvain.NewLevel(d.compact, d.raw, nil, part)
		if err != nil {
			return nil, err
		}

		d.setState(StateParameterPhase)
		newPar, estErr := d.model.EstimateParameter(lv)
		if d.opts.Metrics != nil {
			d.opts.Metrics.RecordEstimation(d.modelName, estErr != nil)
		}
		if estErr != nil {
			// Keep the last valid parameter and stop; the
			// partition for it is already optimized.
			optErr := &OptimizationError{LastParameter: par, Err: estErr}
			d.log.Warn("parameter estimation failed, keeping previous value",
				logging.Iteration(iter),
				logging.Parameter(d.model.ParameterName(), par),
				logging.Error(optErr))
			newPar = par
		} else if verr := d.model.ValidateParameter(newPar); verr != nil {
			clamped := d.model.ClampParameter(newPar)
			d.log.Warn("estimated parameter outside domain, clamping",
				logging.Iteration(iter),
				logging.Parameter(d.model.ParameterName(), newPar),
				logging.Float64("clamped", clamped))
			newPar = clamped
		}

		ll := d.model.LogLikelihood(lv, newPar)
		if ll > bestLL {
			bestLL = ll
			bestPart = part
			bestPar = newPar
		}
		res.History = append(res.History, IterationStats{
			Iteration:     iter,
			Parameter:     newPar,
			LogLikelihood: ll,
			Communities:   lv.CommunityCount(),
			Levels:        stats.Levels,
			Moves:         stats.Moves,
		})
		d.log.Info("outer iteration finished",
			logging.Iteration(iter),
			logging.Parameter(d.model.ParameterName(), newPar),
			logging.LogLikelihood(ll),
			logging.Communities(lv.CommunityCount()),
			logging.Levels(stats.Levels),
			logging.Moves(stats.Moves))

		if estErr != nil ||
			(prevPart != nil && equalPartitions(prevPart, part)) ||
			math.Abs(newPar-par) < d.opts.Tolerance ||
			seen[newPar] {
			res.Converged = true
			res.State = StateConverged
			par = newPar
			break
		}
		prevPart = part
		seen[newPar] = true
		par = newPar
	}
	if !res.Converged {
		res.State = StateExhausted
	}
	d.setState(res.State)

	res.Partition = d.exportPartition(bestPart)
	res.Parameters = map[string]float64{d.model.ParameterName(): bestPar}
	res.LogLikelihood = bestLL

	d.record(res, start, totalMoves)
	return res, nil
}

// runDegenerate handles empty and edgeless graphs: every node is its
// own community and the loop is trivially converged.
func (d *Driver) runDegenerate(start time.Time) (*Result, error) {
	n := d.compact.Order()
	part := make([]int, n)
	for i := range part {
		part[i] = i
	}
	lv, err := louvain.NewLevel(d.compact, d.raw, nil, part)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Partition:       d.exportPartition(part),
		Parameters:      map[string]float64{d.model.ParameterName(): d.initial},
		LogLikelihood:   d.model.LogLikelihood(lv, d.initial),
		Converged:       true,
		State:           StateConverged,
		OuterIterations: 0,
	}
	d.setState(StateConverged)
	d.record(res, start, 0)
	return res, nil
}

func (d *Driver) record(res *Result, start time.Time, moves int) {
	if d.opts.Metrics == nil {
		return
	}
	status := "exhausted"
	if res.Converged {
		status = "converged"
	}
	d.opts.Metrics.RecordRun(d.modelName, status, time.Since(start),
		res.OuterIterations, moves, res.LogLikelihood)
}

func (d *Driver) exportPartition(part []int) map[int]int {
	out := make(map[int]int, len(part))
	for i, c := range part {
		out[d.compact.OriginalID(i)] = c
	}
	return out
}

// equalPartitions relies on dendrogram partitions being canonically
// renumbered, so structural equality is plain elementwise equality.
func equalPartitions(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
