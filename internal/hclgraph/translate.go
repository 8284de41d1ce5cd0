package hclgraph

import (
	"context"
	"fmt"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/dagprof/internal/engine"
)

// translate resolves depends_on references and work expressions,
// producing engine node specs in declaration order.
func translate(profile *ProfileBlock, operators []*OperatorBlock) (*Definition, error) {
	def := &Definition{
		Network: DefaultNetwork,
		Runs:    DefaultRuns,
		Workers: DefaultWorkers,
	}
	if profile != nil {
		if profile.Network != "" {
			def.Network = profile.Network
		}
		if profile.Runs != 0 {
			if profile.Runs < 2 {
				return nil, fmt.Errorf("profile.runs must be at least 2 (run 1 is the warm-up), got %d", profile.Runs)
			}
			def.Runs = profile.Runs
		}
		if profile.Workers != 0 {
			if profile.Workers < 1 {
				return nil, fmt.Errorf("profile.workers must be positive, got %d", profile.Workers)
			}
			def.Workers = profile.Workers
		}
	}

	indexByName := make(map[string]int, len(operators))
	for i, op := range operators {
		if op.Name == "" {
			return nil, fmt.Errorf("operator #%d (%s): instance name must not be empty", i, op.OpType)
		}
		if prev, ok := indexByName[op.Name]; ok {
			return nil, fmt.Errorf("duplicate operator instance name %q (operators #%d and #%d)", op.Name, prev, i)
		}
		indexByName[op.Name] = i
	}

	def.Specs = make([]engine.NodeSpec, len(operators))
	for i, op := range operators {
		work, err := evalWork(op)
		if err != nil {
			return nil, err
		}

		deps := make([]int, 0, len(op.DependsOn))
		for _, name := range op.DependsOn {
			depIdx, ok := indexByName[name]
			if !ok {
				return nil, fmt.Errorf("operator %q depends on unknown operator %q", op.Name, name)
			}
			deps = append(deps, depIdx)
		}

		def.Specs[i] = engine.NodeSpec{
			Type:    op.OpType,
			Name:    op.Name,
			Outputs: op.Outputs,
			Device:  op.Device,
			Deps:    deps,
			Op:      &simOperator{work: work},
		}
	}
	return def, nil
}

// evalWork evaluates the operator's work expression to a duration.
func evalWork(op *OperatorBlock) (time.Duration, error) {
	val, diags := op.Work.Value(nil)
	if diags.HasErrors() {
		return 0, fmt.Errorf("operator %q: failed to evaluate work: %w", op.Name, diags)
	}
	val, err := convert.Convert(val, cty.String)
	if err != nil {
		return 0, fmt.Errorf("operator %q: work must be a duration string: %w", op.Name, err)
	}
	work, err := time.ParseDuration(val.AsString())
	if err != nil {
		return 0, fmt.Errorf("operator %q: invalid work duration: %w", op.Name, err)
	}
	if work < 0 {
		return 0, fmt.Errorf("operator %q: work duration must not be negative", op.Name)
	}
	return work, nil
}

// simOperator stands in for a real compute kernel by sleeping for its
// configured work duration.
type simOperator struct {
	work time.Duration
}

// Run implements engine.Operator.
func (o *simOperator) Run(ctx context.Context) error {
	if o.work == 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(o.work)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
