package engine

import "fmt"

// Graph is an immutable DAG of operator nodes. The node set and all
// edges are fixed at construction; the profiler's per-operator state
// relies on the node count never changing afterwards.
type Graph struct {
	name  string
	nodes []*Node
}

// NewGraph validates the given specs, builds the edge lists, and
// rejects anything that is not a DAG.
func NewGraph(name string, specs []NodeSpec) (*Graph, error) {
	g := &Graph{name: name, nodes: make([]*Node, len(specs))}

	for i, spec := range specs {
		if spec.Type == "" {
			return nil, fmt.Errorf("node #%d: operator type must not be empty", i)
		}
		if spec.Op == nil {
			return nil, fmt.Errorf("node #%d: operator must not be nil", i)
		}
		g.nodes[i] = &Node{
			Index:   i,
			Type:    spec.Type,
			Name:    spec.Name,
			Outputs: spec.Outputs,
			Device:  spec.Device,
			Op:      spec.Op,
		}
	}

	for i, spec := range specs {
		for _, dep := range spec.Deps {
			if dep == i {
				return nil, fmt.Errorf("node #%d: self-referential edge not allowed", i)
			}
			if dep < 0 || dep >= len(specs) {
				return nil, fmt.Errorf("node #%d: dependency index %d out of range [0, %d)", i, dep, len(specs))
			}
			g.nodes[i].parents = append(g.nodes[i].parents, dep)
			g.nodes[dep].children = append(g.nodes[dep].children, i)
		}
	}

	if err := g.detectCycles(); err != nil {
		return nil, err
	}
	return g, nil
}

// Name returns the graph's name, used in composite stat keys.
func (g *Graph) Name() string {
	return g.name
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node at the given stable index.
func (g *Graph) Node(idx int) *Node {
	return g.nodes[idx]
}

// Nodes returns all nodes in index order.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// detectCycles runs a depth-first search with three node sets:
// permanent nodes are fully visited and known safe, temporary nodes
// are on the current recursion stack, everything else is unvisited.
func (g *Graph) detectCycles() error {
	permanent := make([]bool, len(g.nodes))
	temporary := make([]bool, len(g.nodes))

	var visit func(idx int) error
	visit = func(idx int) error {
		if permanent[idx] {
			return nil
		}
		if temporary[idx] {
			return fmt.Errorf("cycle detected involving node #%d (%s)", idx, g.nodes[idx].Type)
		}
		temporary[idx] = true
		for _, child := range g.nodes[idx].children {
			if err := visit(child); err != nil {
				return err
			}
		}
		temporary[idx] = false
		permanent[idx] = true
		return nil
	}

	for idx := range g.nodes {
		if !permanent[idx] {
			if err := visit(idx); err != nil {
				return err
			}
		}
	}
	return nil
}
