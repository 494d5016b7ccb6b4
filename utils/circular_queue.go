package utils

import (
	"iter"

	"github.com/oomph-ac/aero/oerror"
)

// CircularQueue is a fixed-capacity FIFO. Appending to a full queue overwrites the oldest
// element.
type CircularQueue[T any] struct {
	items []T
	head  int
	tail  int
	count int
}

func NewCircularQueue[T any](capacity int) *CircularQueue[T] {
	return &CircularQueue[T]{items: make([]T, capacity)}
}

// Iter yields the elements from oldest to newest.
func (q *CircularQueue[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		for index := range q.count {
			if !yield(q.items[(q.head+index)%len(q.items)]) {
				return
			}
		}
	}
}

// Len returns the number of elements currently held.
func (q *CircularQueue[T]) Len() int {
	return q.count
}

// Cap returns the maximum number of items the queue can hold.
func (q *CircularQueue[T]) Cap() int {
	return len(q.items)
}

// Peek returns the oldest element without removing it.
func (q *CircularQueue[T]) Peek() (item T, ok bool) {
	if q.count == 0 {
		return item, false
	}
	return q.items[q.head], true
}

// Last returns the newest element.
func (q *CircularQueue[T]) Last() (item T, ok bool) {
	if q.count == 0 {
		return item, false
	}
	return q.items[(q.head+q.count-1)%len(q.items)], true
}

// Pop removes and returns the oldest element. The boolean ok is false if the
// queue is empty.
func (q *CircularQueue[T]) Pop() (item T, ok bool) {
	if q.count == 0 {
		return item, false
	}
	var zero T
	item = q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) % len(q.items)
	q.count--
	return item, true
}

// PopLast removes and returns the newest element.
func (q *CircularQueue[T]) PopLast() (item T, ok bool) {
	if q.count == 0 {
		return item, false
	}
	var zero T
	q.tail = (q.tail - 1 + len(q.items)) % len(q.items)
	item = q.items[q.tail]
	q.items[q.tail] = zero
	q.count--
	return item, true
}

// Append appends an item. If the queue was full, the oldest element is dropped and
// returned with dropped set to true.
func (q *CircularQueue[T]) Append(item T) (old T, dropped bool, err error) {
	if len(q.items) == 0 {
		return old, false, oerror.New("circularQueue: append on zero-capacity queue")
	}

	if q.count == len(q.items) {
		old, dropped = q.items[q.head], true
		q.head = (q.head + 1) % len(q.items)
	} else {
		q.count++
	}
	q.items[q.tail] = item
	q.tail = (q.tail + 1) % len(q.items)
	return old, dropped, nil
}

// Clear removes every element.
func (q *CircularQueue[T]) Clear() {
	clear(q.items)
	q.head, q.tail, q.count = 0, 0, 0
}
