// Package ranking holds the feed ranking primitives: a max priority queue,
// the engagement scorer and the share-aware feed orderer.
package ranking

import "math"

// entry is a queued item with its priority. seq records enqueue order and
// breaks ties between equal priorities.
type entry[T any] struct {
	item     T
	priority float64
	seq      uint64
}

// PriorityQueue is a binary max-heap. Items with equal priority come out in
// the order they were enqueued.
type PriorityQueue[T any] struct {
	entries []entry[T]
	nextSeq uint64
}

// NewPriorityQueue creates an empty queue with room for capacity entries.
func NewPriorityQueue[T any](capacity int) *PriorityQueue[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &PriorityQueue[T]{
		entries: make([]entry[T], 0, capacity),
	}
}

// Enqueue inserts item with the given priority. NaN priorities are treated
// as 0.
func (pq *PriorityQueue[T]) Enqueue(item T, priority float64) {
	if math.IsNaN(priority) {
		priority = 0
	}
	pq.entries = append(pq.entries, entry[T]{item: item, priority: priority, seq: pq.nextSeq})
	pq.nextSeq++
	pq.siftUp(len(pq.entries) - 1)
}

// Dequeue removes and returns the highest priority item. It returns false
// when the queue is empty.
func (pq *PriorityQueue[T]) Dequeue() (T, bool) {
	n := len(pq.entries)
	if n == 0 {
		var zero T
		return zero, false
	}

	root := pq.entries[0]
	last := pq.entries[n-1]
	pq.entries[n-1] = entry[T]{}
	pq.entries = pq.entries[:n-1]
	if n-1 > 0 {
		pq.entries[0] = last
		pq.siftDown(0)
	}
	return root.item, true
}

// Peek returns the highest priority item and its priority without removing it.
func (pq *PriorityQueue[T]) Peek() (T, float64, bool) {
	if len(pq.entries) == 0 {
		var zero T
		return zero, 0, false
	}
	return pq.entries[0].item, pq.entries[0].priority, true
}

// IsEmpty reports whether the queue holds no items.
func (pq *PriorityQueue[T]) IsEmpty() bool {
	return len(pq.entries) == 0
}

// Len returns the number of queued items.
func (pq *PriorityQueue[T]) Len() int {
	return len(pq.entries)
}

// TakeTop dequeues up to k items in priority order.
func (pq *PriorityQueue[T]) TakeTop(k int) []T {
	if k > pq.Len() {
		k = pq.Len()
	}
	if k <= 0 {
		return nil
	}
	out := make([]T, 0, k)
	for len(out) < k {
		item, _ := pq.Dequeue()
		out = append(out, item)
	}
	return out
}

// outranks reports whether entry i must sit above entry j.
func (pq *PriorityQueue[T]) outranks(i, j int) bool {
	a, b := pq.entries[i], pq.entries[j]
	if a.priority != b.priority {
		return a.priority > b.priority
	}
	return a.seq < b.seq
}

func (pq *PriorityQueue[T]) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !pq.outranks(i, p) {
			return
		}
		pq.entries[i], pq.entries[p] = pq.entries[p], pq.entries[i]
		i = p
	}
}

func (pq *PriorityQueue[T]) siftDown(i int) {
	n := len(pq.entries)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		r := l + 1
		if r < n && pq.outranks(r, l) {
			best = r
		}
		if !pq.outranks(best, i) {
			return
		}
		pq.entries[i], pq.entries[best] = pq.entries[best], pq.entries[i]
		i = best
	}
}
