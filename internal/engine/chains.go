package engine

// Chains partitions the node indices into execution chains. A chain is
// a maximal linear run of nodes where every node except the head has
// exactly one parent (its predecessor in the chain) and every node
// except the tail has exactly one child (its successor). Chains are a
// legal partition of the node set: every index appears in exactly one
// chain, and concurrently runnable chains are disjoint by construction.
//
// Collapsing linear runs means a strictly sequential stretch of the
// graph executes on one worker without rescheduling between nodes, and
// all cross-chain edges go from a chain's tail into another chain's
// head, which keeps dependency counting per chain trivial.
func (g *Graph) Chains() [][]int {
	var chains [][]int
	for idx, n := range g.nodes {
		if g.absorbed(n) {
			continue
		}
		chain := []int{idx}
		cur := n
		for len(cur.children) == 1 {
			next := g.nodes[cur.children[0]]
			if len(next.parents) != 1 {
				break
			}
			chain = append(chain, next.Index)
			cur = next
		}
		chains = append(chains, chain)
	}
	return chains
}

// absorbed reports whether the node is a chain continuation rather
// than a chain head: it has exactly one parent and that parent has no
// other children.
func (g *Graph) absorbed(n *Node) bool {
	return len(n.parents) == 1 && len(g.nodes[n.parents[0]].children) == 1
}
