package graph

import "sort"

// WeightedEdge is an undirected edge with a numeric weight, used only as
// input and output of MinimumSpanningTree.
type WeightedEdge[V comparable] struct {
	From   V       `json:"from"`
	To     V       `json:"to"`
	Weight float64 `json:"weight"`
}

// MinimumSpanningTree runs Kruskal's algorithm over edges and returns the
// accepted edges in acceptance order. Disconnected input yields a spanning
// forest. Equal weights keep their input order. The input slice is not
// modified.
func MinimumSpanningTree[V comparable](edges []WeightedEdge[V]) []WeightedEdge[V] {
	sorted := make([]WeightedEdge[V], len(edges))
	copy(sorted, edges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight < sorted[j].Weight
	})

	sets := newDisjointSet[V](len(edges))
	for _, e := range sorted {
		sets.makeSet(e.From)
		sets.makeSet(e.To)
	}

	var tree []WeightedEdge[V]
	for _, e := range sorted {
		if sets.union(e.From, e.To) {
			tree = append(tree, e)
		}
	}
	return tree
}

// disjointSet is a union-find over vertex handles with path compression and
// union by rank.
type disjointSet[V comparable] struct {
	parent map[V]V
	rank   map[V]int
}

func newDisjointSet[V comparable](hint int) *disjointSet[V] {
	return &disjointSet[V]{
		parent: make(map[V]V, hint),
		rank:   make(map[V]int, hint),
	}
}

func (d *disjointSet[V]) makeSet(v V) {
	if _, ok := d.parent[v]; ok {
		return
	}
	d.parent[v] = v
	d.rank[v] = 0
}

func (d *disjointSet[V]) find(v V) V {
	root := v
	for d.parent[root] != root {
		root = d.parent[root]
	}
	for v != root {
		next := d.parent[v]
		d.parent[v] = root
		v = next
	}
	return root
}

// union merges the sets holding a and b. It returns false when they were
// already joined, meaning the edge would close a cycle.
func (d *disjointSet[V]) union(a, b V) bool {
	ra, rb := d.find(a), d.find(b)
	if ra == rb {
		return false
	}

	switch {
	case d.rank[ra] < d.rank[rb]:
		d.parent[ra] = rb
	case d.rank[ra] > d.rank[rb]:
		d.parent[rb] = ra
	default:
		d.parent[rb] = ra
		d.rank[ra]++
	}
	return true
}
