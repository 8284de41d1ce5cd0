package profiler

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/dagprof/internal/ctxlog"
)

// ErrInsufficientData is returned when statistics are requested before
// any measured run has completed. It is recoverable: run the graph at
// least twice and query again.
var ErrInsufficientData = errors.New("insufficient runs to produce meaningful data")

// Stat is one exported statistic: a key plus mean and standard
// deviation in milliseconds per iteration.
type Stat struct {
	Name   string  `json:"name"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// PerTypeStats reports mean and standard deviation of each operator
// type's per-run total cost, normalized over measured runs. The order
// is deterministic (sorted by type name).
func (p *Profiler) PerTypeStats() ([]Stat, error) {
	measured := p.MeasuredRuns()
	if measured < 1 {
		return nil, ErrInsufficientData
	}

	types := p.perType.Types()
	out := make([]Stat, 0, len(types))
	for _, opType := range types {
		acc := p.perType.Stat(opType)
		out = append(out, Stat{
			Name:   opType,
			Mean:   acc.MeanOver(measured),
			StdDev: acc.StdDevOver(measured),
		})
	}
	return out, nil
}

// PerOperatorStats reports per-node mean and standard deviation over
// measured runs, keyed "{network}___{index}___{type}", in node index
// order.
func (p *Profiler) PerOperatorStats() ([]Stat, error) {
	measured := p.MeasuredRuns()
	if measured < 1 {
		return nil, ErrInsufficientData
	}
	if err := p.perOp.CheckLen(p.graph.Len()); err != nil {
		return nil, err
	}

	out := make([]Stat, 0, p.graph.Len())
	for idx := 0; idx < p.graph.Len(); idx++ {
		acc := p.perOp.At(idx)
		out = append(out, Stat{
			Name:   fmt.Sprintf("%s___%d___%s", p.graph.Name(), idx, p.graph.Node(idx).Type),
			Mean:   acc.MeanOver(measured),
			StdDev: acc.StdDevOver(measured),
		})
	}
	return out, nil
}

// Close emits the human-readable teardown summary: per-node timings
// first, then the per-type table with average invocations per run.
// With no measured runs it logs a notice and emits nothing else.
func (p *Profiler) Close(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)

	measured := p.MeasuredRuns()
	if measured < 1 {
		logger.Info("Insufficient runs to produce meaningful data.", "network", p.graph.Name())
		return
	}
	if err := p.perOp.CheckLen(p.graph.Len()); err != nil {
		logger.Error("Timing table diverged from graph, summary skipped.", "error", err)
		return
	}

	for idx := 0; idx < p.graph.Len(); idx++ {
		node := p.graph.Node(idx)
		acc := p.perOp.At(idx)
		logger.Debug("Per-operator timing.",
			"opIndex", idx,
			"name", node.DisplayName(),
			"opType", node.Type,
			"meanMsPerIter", acc.MeanOver(measured),
			"stddevMsPerIter", acc.StdDevOver(measured),
		)
	}

	logger.Info("Time per operator type:", "network", p.graph.Name(), "measuredRuns", measured)
	for _, opType := range p.perType.Types() {
		acc := p.perType.Stat(opType)
		logger.Info("Operator type timing.",
			"opType", opType,
			"meanMsPerIter", acc.MeanOver(measured),
			"stddevMsPerIter", acc.StdDevOver(measured),
			"countPerIter", float64(p.perType.Invocations(opType))/float64(measured),
		)
	}
}
