package profiler

import (
	"context"

	"github.com/vk/dagprof/internal/ctxlog"
	"github.com/vk/dagprof/internal/engine"
)

// PlacementReporter is optionally implemented by operators that know
// where each of their outputs was actually produced. When absent, the
// producing node's declared device is used instead.
type PlacementReporter interface {
	OutputPlacements() map[string]string
}

// validatePlacements runs once, after the warm-up run, and compares
// every node's declared device against the placement of the tensors it
// consumes. Mismatches are purely diagnostic performance warnings;
// statistics are unaffected.
func (p *Profiler) validatePlacements(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)

	hadMismatches := false
	for _, node := range p.graph.Nodes() {
		if node.Device == "" {
			continue
		}
		for _, parentIdx := range node.Parents() {
			parent := p.graph.Node(parentIdx)
			for _, output := range parent.Outputs {
				device := producedOn(parent, output)
				if device == "" || device == node.Device {
					continue
				}
				hadMismatches = true
				logger.Info("== PERFORMANCE WARNING ==",
					"opType", node.Type,
					"expectsDevice", node.Device,
					"tensor", output,
					"tensorDevice", device,
				)
			}
		}
	}
	if !hadMismatches {
		logger.Info("Analyzed operator & blob device assignments -- no mismatches")
	}
}

// producedOn resolves the device a tensor landed on: the producing
// operator's self-reported placement when available, else the
// producing node's declared device.
func producedOn(parent *engine.Node, output string) string {
	if reporter, ok := parent.Op.(PlacementReporter); ok {
		if device, ok := reporter.OutputPlacements()[output]; ok {
			return device
		}
	}
	return parent.Device
}
