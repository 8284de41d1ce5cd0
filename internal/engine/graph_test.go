package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noop = OperatorFunc(func(ctx context.Context) error { return nil })

func TestNewGraphValidation(t *testing.T) {
	t.Run("empty type is rejected", func(t *testing.T) {
		_, err := NewGraph("net", []NodeSpec{{Type: "", Op: noop}})
		assert.ErrorContains(t, err, "operator type must not be empty")
	})

	t.Run("nil operator is rejected", func(t *testing.T) {
		_, err := NewGraph("net", []NodeSpec{{Type: "Conv"}})
		assert.ErrorContains(t, err, "operator must not be nil")
	})

	t.Run("self edge is rejected", func(t *testing.T) {
		_, err := NewGraph("net", []NodeSpec{{Type: "Conv", Op: noop, Deps: []int{0}}})
		assert.ErrorContains(t, err, "self-referential edge")
	})

	t.Run("out of range dependency is rejected", func(t *testing.T) {
		_, err := NewGraph("net", []NodeSpec{{Type: "Conv", Op: noop, Deps: []int{3}}})
		assert.ErrorContains(t, err, "out of range")
	})

	t.Run("cycle is rejected", func(t *testing.T) {
		_, err := NewGraph("net", []NodeSpec{
			{Type: "A", Op: noop, Deps: []int{1}},
			{Type: "B", Op: noop, Deps: []int{0}},
		})
		assert.ErrorContains(t, err, "cycle detected")
	})

	t.Run("valid dag builds edge lists", func(t *testing.T) {
		g, err := NewGraph("net", []NodeSpec{
			{Type: "A", Op: noop},
			{Type: "B", Op: noop, Deps: []int{0}},
			{Type: "C", Op: noop, Deps: []int{0, 1}},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, g.Len())
		assert.Equal(t, "net", g.Name())
		assert.Equal(t, []int{1, 2}, g.Node(0).Children())
		assert.Equal(t, []int{0, 1}, g.Node(2).Parents())
	})
}

func TestDisplayName(t *testing.T) {
	g, err := NewGraph("net", []NodeSpec{
		{Type: "A", Name: "first", Outputs: []string{"out"}, Op: noop},
		{Type: "B", Outputs: []string{"b_out", "b_aux"}, Op: noop},
		{Type: "C", Op: noop},
	})
	require.NoError(t, err)
	assert.Equal(t, "first", g.Node(0).DisplayName())
	assert.Equal(t, "b_out", g.Node(1).DisplayName())
	assert.Equal(t, "NO_OUTPUT", g.Node(2).DisplayName())
}

func TestChains(t *testing.T) {
	t.Run("linear graph collapses to one chain", func(t *testing.T) {
		g, err := NewGraph("net", []NodeSpec{
			{Type: "A", Op: noop},
			{Type: "B", Op: noop, Deps: []int{0}},
			{Type: "C", Op: noop, Deps: []int{1}},
		})
		require.NoError(t, err)
		assert.Equal(t, [][]int{{0, 1, 2}}, g.Chains())
	})

	t.Run("independent nodes form separate chains", func(t *testing.T) {
		g, err := NewGraph("net", []NodeSpec{
			{Type: "A", Op: noop},
			{Type: "B", Op: noop},
		})
		require.NoError(t, err)
		assert.Equal(t, [][]int{{0}, {1}}, g.Chains())
	})

	t.Run("fan-out splits after the branch point", func(t *testing.T) {
		// 0 -> 1, 0 -> 2: node 0 has two children so it ends its own
		// chain and both branches start fresh chains.
		g, err := NewGraph("net", []NodeSpec{
			{Type: "A", Op: noop},
			{Type: "B", Op: noop, Deps: []int{0}},
			{Type: "C", Op: noop, Deps: []int{0}},
		})
		require.NoError(t, err)
		assert.Equal(t, [][]int{{0}, {1}, {2}}, g.Chains())
	})

	t.Run("fan-in node starts its own chain", func(t *testing.T) {
		// 0 -> 2, 1 -> 2: node 2 has two parents.
		g, err := NewGraph("net", []NodeSpec{
			{Type: "A", Op: noop},
			{Type: "B", Op: noop},
			{Type: "C", Op: noop, Deps: []int{0, 1}},
		})
		require.NoError(t, err)
		assert.Equal(t, [][]int{{0}, {1}, {2}}, g.Chains())
	})

	t.Run("diamond with trailing tail", func(t *testing.T) {
		//      0
		//     / \
		//    1   2
		//     \ /
		//      3 - 4
		g, err := NewGraph("net", []NodeSpec{
			{Type: "A", Op: noop},
			{Type: "B", Op: noop, Deps: []int{0}},
			{Type: "C", Op: noop, Deps: []int{0}},
			{Type: "D", Op: noop, Deps: []int{1, 2}},
			{Type: "E", Op: noop, Deps: []int{3}},
		})
		require.NoError(t, err)
		assert.Equal(t, [][]int{{0}, {1}, {2}, {3, 4}}, g.Chains())
	})

	t.Run("every node appears exactly once", func(t *testing.T) {
		g, err := NewGraph("net", []NodeSpec{
			{Type: "A", Op: noop},
			{Type: "B", Op: noop, Deps: []int{0}},
			{Type: "C", Op: noop, Deps: []int{0}},
			{Type: "D", Op: noop, Deps: []int{1}},
			{Type: "E", Op: noop, Deps: []int{2, 3}},
			{Type: "F", Op: noop},
		})
		require.NoError(t, err)

		seen := make(map[int]int)
		for _, chain := range g.Chains() {
			for _, idx := range chain {
				seen[idx]++
			}
		}
		for idx := 0; idx < g.Len(); idx++ {
			assert.Equal(t, 1, seen[idx], "node %d", idx)
		}
	})
}
