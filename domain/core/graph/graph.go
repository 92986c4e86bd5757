// Package graph implements the friendship graph engine: an undirected
// adjacency-list graph over opaque vertex handles with traversal helpers.
//
// A Graph is built from a snapshot for a single request and discarded
// afterwards. It is not safe for concurrent mutation.
package graph

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Graph is an undirected multigraph stored as an arena: every vertex is
// assigned a dense index on registration and adjacency is kept as flat
// per-index slices of neighbor indices.
type Graph[V comparable] struct {
	index     map[V]uint32
	vertices  []V
	adjacency [][]uint32
	edgeCount int
}

// New creates an empty graph.
func New[V comparable]() *Graph[V] {
	return &Graph[V]{
		index: make(map[V]uint32),
	}
}

// NewWithCapacity creates an empty graph sized for roughly n vertices.
func NewWithCapacity[V comparable](n int) *Graph[V] {
	if n < 0 {
		n = 0
	}
	return &Graph[V]{
		index:     make(map[V]uint32, n),
		vertices:  make([]V, 0, n),
		adjacency: make([][]uint32, 0, n),
	}
}

// AddVertex registers v with an empty adjacency list. Registering an
// existing vertex is a no-op.
func (g *Graph[V]) AddVertex(v V) {
	g.ensure(v)
}

// AddEdge connects u and v in both directions. Both vertices are registered
// if absent. Duplicate edges and self-loops are kept as given.
func (g *Graph[V]) AddEdge(u, v V) {
	ui := g.ensure(u)
	vi := g.ensure(v)
	g.adjacency[ui] = append(g.adjacency[ui], vi)
	g.adjacency[vi] = append(g.adjacency[vi], ui)
	g.edgeCount++
}

// HasVertex reports whether v has been registered.
func (g *Graph[V]) HasVertex(v V) bool {
	_, ok := g.index[v]
	return ok
}

// VertexCount returns the number of registered vertices.
func (g *Graph[V]) VertexCount() int {
	return len(g.vertices)
}

// EdgeCount returns the number of AddEdge calls applied to the graph.
func (g *Graph[V]) EdgeCount() int {
	return g.edgeCount
}

// Vertices returns all vertices in registration order.
func (g *Graph[V]) Vertices() []V {
	out := make([]V, len(g.vertices))
	copy(out, g.vertices)
	return out
}

// Neighbors returns v's adjacency list in insertion order. Unknown vertices
// have no neighbors.
func (g *Graph[V]) Neighbors(v V) []V {
	i, ok := g.index[v]
	if !ok {
		return nil
	}
	out := make([]V, len(g.adjacency[i]))
	for k, n := range g.adjacency[i] {
		out[k] = g.vertices[n]
	}
	return out
}

// Degree returns the length of v's adjacency list.
func (g *Graph[V]) Degree(v V) int {
	i, ok := g.index[v]
	if !ok {
		return 0
	}
	return len(g.adjacency[i])
}

// ShortestPath returns a minimum hop path from start to end inclusive, or
// nil when end cannot be reached. Neighbors are explored in adjacency order
// and the first discovery of end wins, so among equal length paths the one
// using earlier inserted edges is returned.
func (g *Graph[V]) ShortestPath(start, end V) []V {
	if start == end {
		return []V{start}
	}

	si, ok := g.index[start]
	if !ok {
		return nil
	}
	ei, ok := g.index[end]
	if !ok {
		return nil
	}

	const noParent = ^uint32(0)
	parent := make([]uint32, len(g.vertices))
	for i := range parent {
		parent[i] = noParent
	}
	visited := make([]bool, len(g.vertices))
	visited[si] = true

	queue := []uint32{si}
	for head := 0; head < len(queue); head++ {
		current := queue[head]
		for _, next := range g.adjacency[current] {
			if next == ei {
				parent[ei] = current
				return g.buildPath(parent, si, ei)
			}
			if !visited[next] {
				visited[next] = true
				parent[next] = current
				queue = append(queue, next)
			}
		}
	}

	return nil
}

// ConnectedComponents partitions the vertex set into connected components.
// Roots are taken in registration order and each component lists its
// vertices in depth-first visit order.
func (g *Graph[V]) ConnectedComponents() [][]V {
	visited := make([]bool, len(g.vertices))
	var components [][]V

	type frame struct {
		vertex uint32
		next   int
	}

	for root := range g.vertices {
		if visited[root] {
			continue
		}

		component := []V{g.vertices[root]}
		visited[root] = true
		stack := []frame{{vertex: uint32(root)}}

		// Each frame resumes scanning its adjacency list where it left off,
		// which reproduces the recursive visit order without recursion.
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			adj := g.adjacency[top.vertex]

			descended := false
			for top.next < len(adj) {
				n := adj[top.next]
				top.next++
				if !visited[n] {
					visited[n] = true
					component = append(component, g.vertices[n])
					stack = append(stack, frame{vertex: n})
					descended = true
					break
				}
			}
			if !descended {
				stack = stack[:len(stack)-1]
			}
		}

		components = append(components, component)
	}

	return components
}

// MutualNeighbors returns the vertices adjacent to both u and v. Duplicate
// adjacency entries collapse; the result is ordered by vertex registration.
func (g *Graph[V]) MutualNeighbors(u, v V) []V {
	ui, ok := g.index[u]
	if !ok {
		return []V{}
	}
	vi, ok := g.index[v]
	if !ok {
		return []V{}
	}

	shared := roaring.BitmapOf(g.adjacency[ui]...)
	shared.And(roaring.BitmapOf(g.adjacency[vi]...))

	out := make([]V, 0, shared.GetCardinality())
	it := shared.Iterator()
	for it.HasNext() {
		out = append(out, g.vertices[it.Next()])
	}
	return out
}

func (g *Graph[V]) ensure(v V) uint32 {
	if i, ok := g.index[v]; ok {
		return i
	}
	i := uint32(len(g.vertices))
	g.index[v] = i
	g.vertices = append(g.vertices, v)
	g.adjacency = append(g.adjacency, nil)
	return i
}

func (g *Graph[V]) buildPath(parent []uint32, start, end uint32) []V {
	var reversed []uint32
	for n := end; ; n = parent[n] {
		reversed = append(reversed, n)
		if n == start {
			break
		}
	}

	path := make([]V, len(reversed))
	for i, n := range reversed {
		path[len(reversed)-1-i] = g.vertices[n]
	}
	return path
}
