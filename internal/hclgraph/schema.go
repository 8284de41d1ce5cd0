package hclgraph

import "github.com/hashicorp/hcl/v2"

// ProfileBlock configures one profiling session: how the graph is
// named, how often it runs, and how wide the worker pool is.
type ProfileBlock struct {
	Network string `hcl:"network,optional"`
	Runs    int    `hcl:"runs,optional"`
	Workers int    `hcl:"workers,optional"`
}

// OperatorBlock is one `operator` block from a graph file. The first
// label is the operator-type name, the second the instance name used
// by depends_on references.
type OperatorBlock struct {
	OpType string `hcl:"op_type,label"`
	Name   string `hcl:"instance_name,label"`
	// Work is the simulated execution cost, an expression evaluating
	// to a duration string such as "5ms".
	Work      hcl.Expression `hcl:"work"`
	Outputs   []string       `hcl:"outputs,optional"`
	Device    string         `hcl:"device,optional"`
	DependsOn []string       `hcl:"depends_on,optional"`
}

// fileRoot decodes all recognized top-level blocks from one file.
type fileRoot struct {
	Profile   *ProfileBlock    `hcl:"profile,block"`
	Operators []*OperatorBlock `hcl:"operator,block"`
	Remain    hcl.Body         `hcl:",remain"`
}
