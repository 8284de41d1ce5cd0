package typeagg

import (
	"sort"

	"github.com/vk/dagprof/internal/stats"
)

// Delta is one node's contribution to a single measured run.
type Delta struct {
	// Type is the node's operator-type name.
	Type string
	// ElapsedMs is the node's summed elapsed time for this run.
	ElapsedMs float64
}

// typeStat is the persistent cross-run state for one operator type.
type typeStat struct {
	acc stats.Accumulator
	// invocations counts nodes of this type observed across all
	// measured runs. It advances once per node per run, independently
	// of acc's own sample count (which advances once per run).
	invocations int64
}

// Aggregator maintains per-operator-type statistics across measured
// runs. Entries are created lazily the first time a type is observed.
// FoldRun must only be called from the single-threaded fold step after
// a run's join barrier.
type Aggregator struct {
	types map[string]*typeStat
}

// New creates an empty aggregator.
func New() *Aggregator {
	return &Aggregator{types: make(map[string]*typeStat)}
}

// FoldRun folds one measured run's per-node deltas in. Deltas for the
// same type are summed into a scratch per-run total first; each type's
// accumulator then records exactly one value for the run.
func (ag *Aggregator) FoldRun(deltas []Delta) {
	runTotals := make(map[string]float64, len(ag.types))
	for _, d := range deltas {
		runTotals[d.Type] += d.ElapsedMs
		ag.stat(d.Type).invocations++
	}
	for opType, total := range runTotals {
		ag.stat(opType).acc.Record(total)
	}
}

func (ag *Aggregator) stat(opType string) *typeStat {
	ts, ok := ag.types[opType]
	if !ok {
		ts = &typeStat{}
		ag.types[opType] = ts
	}
	return ts
}

// Types returns every observed operator-type name in sorted order, so
// reports are deterministic run to run.
func (ag *Aggregator) Types() []string {
	names := make([]string, 0, len(ag.types))
	for name := range ag.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stat returns the cross-run accumulator for an operator type, or nil
// if the type has never been observed.
func (ag *Aggregator) Stat(opType string) *stats.Accumulator {
	ts, ok := ag.types[opType]
	if !ok {
		return nil
	}
	return &ts.acc
}

// Invocations returns how many node executions of the given type have
// been observed across all measured runs.
func (ag *Aggregator) Invocations(opType string) int64 {
	ts, ok := ag.types[opType]
	if !ok {
		return 0
	}
	return ts.invocations
}
