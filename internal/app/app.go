// Package app wires the graph loader, engine, and profiler together
// into a runnable profiling session.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/dagprof/internal/ctxlog"
	"github.com/vk/dagprof/internal/hclgraph"
)

// App encapsulates one profiling session's dependencies and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	def    *hclgraph.Definition
	config *Config
}

// NewApp loads the graph definition and returns a fully initialized
// App with its own isolated logger. A definition that cannot be loaded
// is a fatal startup error and panics; callers recover at the CLI
// boundary.
func NewApp(outW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	def, err := hclgraph.NewLoader().Load(ctx, config.GridPath)
	if err != nil {
		panic(fmt.Errorf("failed to load graph definition: %w", err))
	}

	// CLI flags take precedence over the profile block.
	if config.Runs != 0 {
		def.Runs = config.Runs
	}
	if config.Workers != 0 {
		def.Workers = config.Workers
	}
	logger.Debug("Graph definition loaded.",
		"network", def.Network, "operators", len(def.Specs), "runs", def.Runs, "workers", def.Workers)

	return &App{
		outW:   outW,
		logger: logger,
		def:    def,
		config: config,
	}
}

// Definition returns the loaded graph definition. Primarily for tests.
func (a *App) Definition() *hclgraph.Definition {
	return a.def
}
