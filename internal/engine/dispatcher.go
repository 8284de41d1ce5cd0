package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/vk/dagprof/internal/ctxlog"
)

// ChainFunc executes every node of one chain, in order, and reports
// whether all of them succeeded. The dispatcher invokes it
// concurrently, but only ever for chains with disjoint index sets.
type ChainFunc func(ctx context.Context, chain []int) bool

// Dispatcher schedules a graph's chains across a fixed worker pool,
// honoring cross-chain dependencies. A Dispatcher is stateless between
// runs; RunGraph may be called repeatedly (but not concurrently, the
// profiler serializes runs).
type Dispatcher struct {
	graph      *Graph
	numWorkers int
}

// NewDispatcher creates a dispatcher over the given graph. Worker
// counts below 1 are raised to 1.
func NewDispatcher(g *Graph, workers int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{graph: g, numWorkers: workers}
}

// chainState is the per-run scheduling state of one chain.
type chainState struct {
	nodes []int
	// dependents are chain indices unlocked when this chain completes.
	dependents []int
	// depCount counts unmet upstream chains.
	depCount atomic.Int32
	// skipOnce ensures a chain is abandoned exactly once.
	skipOnce sync.Once
}

// runState is the scheduling state of a single RunGraph invocation.
type runState struct {
	states []*chainState
	ready  chan int
	wg     sync.WaitGroup
	failed atomic.Bool
	cancel context.CancelFunc
	exec   ChainFunc
}

// RunGraph executes the whole graph once and returns true only if
// every chain completed successfully. It does not return before all
// dispatched chains have finished, which is the join barrier the
// profiler's snapshot-diff step depends on.
func (d *Dispatcher) RunGraph(ctx context.Context, exec ChainFunc) bool {
	logger := ctxlog.FromContext(ctx)

	chains := d.graph.Chains()
	if len(chains) == 0 {
		logger.Warn("Graph has no nodes, nothing to run.")
		return true
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	rs := &runState{
		states: make([]*chainState, len(chains)),
		ready:  make(chan int, len(chains)),
		cancel: cancel,
		exec:   exec,
	}

	// Cross-chain edges always go from a chain's tail into another
	// chain's head, so dependency counting reduces to the head's
	// parent count and unlock lists to the tail's children.
	headToChain := make(map[int]int, len(chains))
	for ci, chain := range chains {
		rs.states[ci] = &chainState{nodes: chain}
		headToChain[chain[0]] = ci
	}
	for ci, chain := range chains {
		st := rs.states[ci]
		st.depCount.Store(int32(len(d.graph.Node(chain[0]).Parents())))
		for _, child := range d.graph.Node(chain[len(chain)-1]).Children() {
			st.dependents = append(st.dependents, headToChain[child])
		}
	}

	rs.wg.Add(len(chains))

	rootCount := 0
	for ci, st := range rs.states {
		if st.depCount.Load() == 0 {
			rs.ready <- ci
			rootCount++
		}
	}
	logger.Debug("Dispatcher initialized.", "chains", len(chains), "rootChains", rootCount, "workers", d.numWorkers)

	var eg errgroup.Group
	for i := 0; i < d.numWorkers; i++ {
		workerID := i
		eg.Go(func() error {
			rs.worker(runCtx, workerID)
			return nil
		})
	}

	rs.wg.Wait()
	close(rs.ready)
	_ = eg.Wait()

	return !rs.failed.Load()
}

// worker is the processing loop for a single concurrent worker.
func (rs *runState) worker(ctx context.Context, workerID int) {
	logger := ctxlog.FromContext(ctx).With("workerID", workerID)
	logger.Debug("Worker started.")

	for ci := range rs.ready {
		if ctx.Err() != nil {
			logger.Warn("Context canceled, skipping chain.", "chain", ci)
			rs.skip(ci)
			continue
		}

		st := rs.states[ci]
		logger.Debug("Worker picked up chain.", "chain", ci, "nodes", st.nodes)

		if ok := rs.exec(ctx, st.nodes); !ok {
			logger.Warn("Chain reported failure, abandoning dependents.", "chain", ci)
			rs.failed.Store(true)
			rs.cancel()
			for _, dep := range st.dependents {
				rs.skip(dep)
			}
			rs.wg.Done()
			continue
		}

		for _, dep := range st.dependents {
			if rs.states[dep].depCount.Add(-1) == 0 {
				logger.Debug("Unlocking dependent chain.", "chain", dep)
				rs.ready <- dep
			}
		}
		rs.wg.Done()
	}
	logger.Debug("Worker finished.")
}

// skip abandons a chain that will never run, along with everything
// downstream of it. Safe to call multiple times per chain.
func (rs *runState) skip(ci int) {
	st := rs.states[ci]
	st.skipOnce.Do(func() {
		rs.failed.Store(true)
		rs.wg.Done()
		for _, dep := range st.dependents {
			rs.skip(dep)
		}
	})
}
