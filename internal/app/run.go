package app

import (
	"context"
	"fmt"

	"github.com/vk/dagprof/internal/ctxlog"
	"github.com/vk/dagprof/internal/engine"
	"github.com/vk/dagprof/internal/profiler"
)

// Run executes the whole profiling session: one warm-up run, the
// measured runs, the stats export, and the teardown summary.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	graph, err := engine.NewGraph(a.def.Network, a.def.Specs)
	if err != nil {
		return fmt.Errorf("failed to build operator graph: %w", err)
	}
	a.logger.Debug("Operator graph built.", "nodeCount", graph.Len())

	prof := profiler.New(graph, engine.NewDispatcher(graph, a.def.Workers))
	defer prof.Close(ctx)

	a.logger.Info("🚀 Starting profiled execution...",
		"network", a.def.Network, "runs", a.def.Runs, "workers", a.def.Workers)

	for run := 1; run <= a.def.Runs; run++ {
		ok, err := prof.RunOnce(ctx)
		if err != nil {
			return fmt.Errorf("run %d aborted: %w", run, err)
		}
		if !ok {
			a.logger.Warn("Run finished with failures, statistics degrade gracefully.", "run", run)
		} else {
			a.logger.Debug("Run finished.", "run", run, "warmup", run == 1)
		}
	}
	a.logger.Info("🏁 Execution finished.", "measuredRuns", prof.MeasuredRuns())

	if a.config.StatsOut != "" {
		if err := a.exportStats(ctx, prof); err != nil {
			return fmt.Errorf("failed to export statistics: %w", err)
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
