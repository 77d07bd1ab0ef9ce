// Package queue provides a binary min-heap ordered by an injectable
// comparator. Elements with equal ordering pop in heap order, which
// callers must treat as unspecified rather than FIFO.
package queue

import "cmp"

// Queue is a comparator-keyed binary min-heap.
type Queue[T any] struct {
	heap []T
	less func(a, b T) bool
}

// Ordered is the default comparator for ordered element types.
func Ordered[T cmp.Ordered](a, b T) bool {
	return a < b
}

// New returns a queue ordered by less, heapified from the given elements
// in O(n).
func New[T any](less func(a, b T) bool, elements ...T) *Queue[T] {
	q := &Queue[T]{
		heap: append([]T(nil), elements...),
		less: less,
	}
	q.heapify()
	return q
}

// Len returns the number of queued elements.
func (q *Queue[T]) Len() int {
	return len(q.heap)
}

// IsEmpty reports whether the queue holds no elements.
func (q *Queue[T]) IsEmpty() bool {
	return len(q.heap) == 0
}

// Push adds an element to the queue.
func (q *Queue[T]) Push(element T) {
	q.heap = append(q.heap, element)
	q.siftUp(len(q.heap) - 1)
}

// Pop removes and returns the smallest element. The second return value
// is false on an empty queue.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	switch len(q.heap) {
	case 0:
		return zero, false
	case 1:
		top := q.heap[0]
		q.heap[0] = zero
		q.heap = q.heap[:0]
		return top, true
	}
	top := q.heap[0]
	last := len(q.heap) - 1
	q.heap[0] = q.heap[last]
	q.heap[last] = zero
	q.heap = q.heap[:last]
	q.siftDown(0)
	return top, true
}

// Peek returns the smallest element without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	if len(q.heap) == 0 {
		var zero T
		return zero, false
	}
	return q.heap[0], true
}

// Remove deletes the first element matching the predicate. A linear scan
// followed by a full rebuild: O(n), correctness over speed.
func (q *Queue[T]) Remove(match func(T) bool) bool {
	for i := range q.heap {
		if match(q.heap[i]) {
			q.heap = append(q.heap[:i], q.heap[i+1:]...)
			q.heapify()
			return true
		}
	}
	return false
}

func (q *Queue[T]) heapify() {
	for i := len(q.heap)/2 - 1; i >= 0; i-- {
		q.siftDown(i)
	}
}

func (q *Queue[T]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !q.less(q.heap[i], q.heap[parent]) {
			return
		}
		q.heap[i], q.heap[parent] = q.heap[parent], q.heap[i]
		i = parent
	}
}

func (q *Queue[T]) siftDown(i int) {
	n := len(q.heap)
	for {
		left := 2*i + 1
		if left >= n {
			return
		}
		smallest := left
		if right := left + 1; right < n && q.less(q.heap[right], q.heap[left]) {
			smallest = right
		}
		if !q.less(q.heap[smallest], q.heap[i]) {
			return
		}
		q.heap[i], q.heap[smallest] = q.heap[smallest], q.heap[i]
		i = smallest
	}
}
