// Package selector provides a fixed-capacity min-heap that keeps the largest
// elements it has been offered under a caller-supplied ordering.
package selector

import (
	"container/heap"
	"iter"

	"golang.org/x/exp/slices"
)

// Bounded retains at most Cap() elements. Every Insert admits the new
// element and then evicts the current minimum if the capacity is exceeded,
// so what remains are the Cap() greatest elements seen so far.
//
// Bounded is not safe for concurrent use.
type Bounded[T any] struct {
	h        minHeap[T]
	capacity int
}

// New creates a selector holding at most capacity elements ordered by less.
// A negative capacity is treated as zero; a zero-capacity selector stays empty.
func New[T any](capacity int, less func(a, b T) bool) *Bounded[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Bounded[T]{
		h:        minHeap[T]{items: make([]T, 0, capacity+1), less: less},
		capacity: capacity,
	}
}

// Insert admits v and drops the minimum if the selector overflows.
func (b *Bounded[T]) Insert(v T) {
	heap.Push(&b.h, v)
	if b.h.Len() > b.capacity {
		heap.Pop(&b.h)
	}
}

// PopMin removes and returns the smallest element.
// The boolean is false when the selector is empty.
func (b *Bounded[T]) PopMin() (T, bool) {
	if b.h.Len() == 0 {
		var zero T
		return zero, false
	}
	return heap.Pop(&b.h).(T), true
}

// Min returns the smallest element without removing it.
func (b *Bounded[T]) Min() (T, bool) {
	if b.h.Len() == 0 {
		var zero T
		return zero, false
	}
	return b.h.items[0], true
}

// Len returns the number of retained elements.
func (b *Bounded[T]) Len() int { return b.h.Len() }

// Cap returns the capacity fixed at construction.
func (b *Bounded[T]) Cap() int { return b.capacity }

// IsEmpty reports whether no element is retained.
func (b *Bounded[T]) IsEmpty() bool { return b.h.Len() == 0 }

// Clear removes all elements. The capacity is unchanged.
func (b *Bounded[T]) Clear() {
	clear(b.h.items)
	b.h.items = b.h.items[:0]
}

// All yields the retained elements in heap order, which is unspecified
// apart from the minimum coming first.
func (b *Bounded[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range b.h.items {
			if !yield(v) {
				return
			}
		}
	}
}

// Items returns a copy of the retained elements in unspecified order.
func (b *Bounded[T]) Items() []T {
	return slices.Clone(b.h.items)
}

// minHeap adapts a slice and comparator to container/heap.
type minHeap[T any] struct {
	items []T
	less  func(a, b T) bool
}

func (h minHeap[T]) Len() int           { return len(h.items) }
func (h minHeap[T]) Less(i, j int) bool { return h.less(h.items[i], h.items[j]) }
func (h minHeap[T]) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *minHeap[T]) Push(x any) {
	h.items = append(h.items, x.(T))
}

func (h *minHeap[T]) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	var zero T
	old[n-1] = zero
	h.items = old[:n-1]
	return x
}
