package profiler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vk/dagprof/internal/ctxlog"
	"github.com/vk/dagprof/internal/engine"
	"github.com/vk/dagprof/internal/optable"
	"github.com/vk/dagprof/internal/typeagg"
)

// Runner performs one dependency-respecting, possibly parallel
// dispatch of all graph nodes through the given ChainFunc and returns
// overall success. It must not return before every dispatched chain
// has finished.
type Runner interface {
	RunGraph(ctx context.Context, exec engine.ChainFunc) bool
}

// Profiler wraps a graph and its runner with timing instrumentation.
// Construct one per graph; the per-operator table is sized to the
// graph's node count and the two must stay aligned for the profiler's
// whole lifetime.
type Profiler struct {
	graph  *engine.Graph
	runner Runner

	perOp   *optable.Table
	perType *typeagg.Aggregator

	// runs counts every run attempt, successful or not. It is read by
	// chain executors while a run is in flight, hence atomic.
	runs atomic.Int64

	// mu serializes RunOnce: the snapshot/diff/fold sequence is not
	// reentrant and must never overlap the next run's start.
	mu sync.Mutex

	// fatalOnce latches the first consistency error observed by a
	// chain executor so RunOnce can surface it after the join.
	fatalOnce sync.Once
	fatalErr  error

	// now is the clock used for timing; swapped out in tests.
	now func() time.Time
}

// New creates a profiler for the given graph and runner.
func New(graph *engine.Graph, runner Runner) *Profiler {
	return &Profiler{
		graph:   graph,
		runner:  runner,
		perOp:   optable.New(graph.Len()),
		perType: typeagg.New(),
		now:     time.Now,
	}
}

// RunOnce triggers one full-graph run and returns the run's success
// flag. The first run is a warm-up: it executes the graph and performs
// the one-time device placement check, but touches no accumulator.
// Every later run is measured: the per-operator table is snapshotted
// before the run, mutated by the chain executors during it, and diffed
// after the join so this run's per-type totals can be folded in. A
// failed run still folds whatever deltas exist; nodes that never ran
// contribute zero.
func (p *Profiler) RunOnce(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	run := p.runs.Add(1)
	if run <= 1 {
		ok := p.runner.RunGraph(ctx, p.ExecChain)
		p.validatePlacements(ctx)
		return ok, nil
	}

	if err := p.perOp.CheckLen(p.graph.Len()); err != nil {
		return false, err
	}

	before := p.perOp.Snapshot()
	ok := p.runner.RunGraph(ctx, p.ExecChain)
	if err := p.takeFatal(); err != nil {
		return false, err
	}

	deltas, err := p.perOp.DeltaSums(before)
	if err != nil {
		return false, err
	}
	folds := make([]typeagg.Delta, len(deltas))
	for idx, d := range deltas {
		folds[idx] = typeagg.Delta{Type: p.graph.Node(idx).Type, ElapsedMs: d}
	}
	p.perType.FoldRun(folds)

	return ok, nil
}

// ExecChain executes every node of one chain in order, timing each
// invocation on measured runs. It is the ChainFunc handed to the
// runner and is called concurrently for disjoint chains; writes into
// the per-operator table are race-free because each chain owns its
// own node indices. Operator failures flip the success flag but do not
// stop the chain, and timings are recorded even for failed nodes.
func (p *Profiler) ExecChain(ctx context.Context, chain []int) bool {
	logger := ctxlog.FromContext(ctx)
	warmup := p.runs.Load() <= 1

	ok := true
	for _, idx := range chain {
		node := p.graph.Node(idx)

		if warmup {
			if err := node.Op.Run(ctx); err != nil {
				logger.Warn("Operator failed during warm-up run.",
					"opIndex", idx, "opType", node.Type, "error", err)
				ok = false
			}
			continue
		}

		start := p.now()
		err := node.Op.Run(ctx)
		elapsedMs := float64(p.now().Sub(start)) / float64(time.Millisecond)

		if err != nil {
			logger.Warn("Operator failed, timing recorded anyway.",
				"opIndex", idx, "opType", node.Type, "error", err)
			ok = false
		}
		if rerr := p.perOp.Record(idx, elapsedMs); rerr != nil {
			p.fatalOnce.Do(func() { p.fatalErr = rerr })
			return false
		}
	}
	return ok
}

// MeasuredRuns reports how many measured (post-warm-up) runs have
// completed.
func (p *Profiler) MeasuredRuns() int {
	runs := p.runs.Load()
	if runs <= 1 {
		return 0
	}
	return int(runs - 1)
}

func (p *Profiler) takeFatal() error {
	// fatalErr is only written under fatalOnce before the runner's
	// join barrier, and read here strictly after it.
	return p.fatalErr
}
