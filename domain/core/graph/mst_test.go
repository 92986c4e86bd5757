package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinimumSpanningTree(t *testing.T) {
	edges := []WeightedEdge[string]{
		{From: "A", To: "B", Weight: 4},
		{From: "A", To: "C", Weight: 1},
		{From: "B", To: "C", Weight: 2},
		{From: "B", To: "D", Weight: 5},
		{From: "C", To: "D", Weight: 8},
	}

	tree := MinimumSpanningTree(edges)

	require.Len(t, tree, 3)
	assert.Equal(t, WeightedEdge[string]{From: "A", To: "C", Weight: 1}, tree[0])
	assert.Equal(t, WeightedEdge[string]{From: "B", To: "C", Weight: 2}, tree[1])
	assert.Equal(t, WeightedEdge[string]{From: "B", To: "D", Weight: 5}, tree[2])

	// Input order is left untouched.
	assert.Equal(t, "B", edges[0].To)
	assert.Equal(t, 4.0, edges[0].Weight)
}

func TestMinimumSpanningTree_Forest(t *testing.T) {
	edges := []WeightedEdge[int]{
		{From: 1, To: 2, Weight: 3},
		{From: 3, To: 4, Weight: 1},
		{From: 2, To: 1, Weight: 1},
	}

	tree := MinimumSpanningTree(edges)

	require.Len(t, tree, 2)
	assert.Equal(t, 3, tree[0].From)
	assert.Equal(t, 2, tree[1].From)
}

func TestMinimumSpanningTree_RejectsCyclesAndSelfLoops(t *testing.T) {
	edges := []WeightedEdge[string]{
		{From: "A", To: "A", Weight: 0},
		{From: "A", To: "B", Weight: 1},
		{From: "B", To: "C", Weight: 1},
		{From: "C", To: "A", Weight: 1},
	}

	tree := MinimumSpanningTree(edges)

	require.Len(t, tree, 2)
	assert.Equal(t, "B", tree[0].To)
	assert.Equal(t, "C", tree[1].To)
}

func TestMinimumSpanningTree_Empty(t *testing.T) {
	assert.Empty(t, MinimumSpanningTree[string](nil))
}

func TestDisjointSet(t *testing.T) {
	d := newDisjointSet[int](4)
	for i := 0; i < 4; i++ {
		d.makeSet(i)
	}

	assert.True(t, d.union(0, 1))
	assert.True(t, d.union(2, 3))
	assert.False(t, d.union(1, 0))
	assert.True(t, d.union(1, 3))
	assert.Equal(t, d.find(0), d.find(2))
	assert.False(t, d.union(0, 3))
}
