package app

import (
	"context"
	"os"

	"github.com/goccy/go-json"

	"github.com/vk/dagprof/internal/ctxlog"
	"github.com/vk/dagprof/internal/profiler"
)

// statsExport is the JSON document written by -stats-out.
type statsExport struct {
	Network      string          `json:"network"`
	MeasuredRuns int             `json:"measured_runs"`
	PerType      []profiler.Stat `json:"per_type"`
	PerOperator  []profiler.Stat `json:"per_operator"`
}

// exportStats writes both reports to the configured stats file.
func (a *App) exportStats(ctx context.Context, prof *profiler.Profiler) error {
	logger := ctxlog.FromContext(ctx)

	perType, err := prof.PerTypeStats()
	if err != nil {
		return err
	}
	perOp, err := prof.PerOperatorStats()
	if err != nil {
		return err
	}

	doc := statsExport{
		Network:      a.def.Network,
		MeasuredRuns: prof.MeasuredRuns(),
		PerType:      perType,
		PerOperator:  perOp,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(a.config.StatsOut, data, 0o644); err != nil {
		return err
	}
	logger.Info("Statistics exported.", "path", a.config.StatsOut,
		"types", len(perType), "operators", len(perOp))
	return nil
}
