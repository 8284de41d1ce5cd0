package engine

import "context"

// Operator is the unit of work attached to a graph node. A non-nil
// error marks the invocation as failed; the engine propagates failure
// but leaves any interpretation of the error to the operator's owner.
type Operator interface {
	Run(ctx context.Context) error
}

// OperatorFunc adapts a plain function to the Operator interface.
type OperatorFunc func(ctx context.Context) error

// Run implements Operator.
func (f OperatorFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// NodeSpec declares one node of a graph under construction.
type NodeSpec struct {
	// Type is the operator-type name, e.g. "Conv". Required.
	Type string
	// Name is an optional human-readable instance name.
	Name string
	// Outputs are the names of the values this node produces.
	Outputs []string
	// Device is the declared placement of this node, e.g. "cpu/0".
	// Empty means unplaced; placement is diagnostic only.
	Device string
	// Deps are indices of nodes this node depends on.
	Deps []int
	// Op executes the node. Required.
	Op Operator
}

// Node is a single vertex of a constructed graph. Nodes are immutable
// for the lifetime of the graph and identified by their stable index.
type Node struct {
	Index   int
	Type    string
	Name    string
	Outputs []string
	Device  string
	Op      Operator

	parents  []int
	children []int
}

// DisplayName returns the node's configured name, falling back to its
// first declared output, then to "NO_OUTPUT".
func (n *Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	if len(n.Outputs) > 0 {
		return n.Outputs[0]
	}
	return "NO_OUTPUT"
}

// Parents returns the indices of the node's direct dependencies.
func (n *Node) Parents() []int {
	return n.parents
}

// Children returns the indices of the node's direct dependents.
func (n *Node) Children() []int {
	return n.children
}
