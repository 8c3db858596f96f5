// Package queue provides the ordered sequence used by study sessions.
//
// Sessions only ever take from the head and put back at the tail, so the
// recycling of failed items is expressed with exactly two operations:
// Dequeue and EnqueueTail.
package queue

// Queue is an unbounded FIFO sequence. The zero value is an empty queue ready
// to use. It is not safe for concurrent use.
type Queue[T any] struct {
	items []T
	head  int
}

// New returns a queue holding items in order. The slice is copied.
func New[T any](items ...T) *Queue[T] {
	q := &Queue[T]{items: make([]T, len(items))}
	copy(q.items, items)
	return q
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	return len(q.items) - q.head
}

// Empty reports whether the queue holds no items.
func (q *Queue[T]) Empty() bool {
	return q.Len() == 0
}

// Peek returns the head item without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	if q.Empty() {
		var zero T
		return zero, false
	}
	return q.items[q.head], true
}

// Dequeue removes and returns the head item.
func (q *Queue[T]) Dequeue() (T, bool) {
	var zero T
	if q.Empty() {
		return zero, false
	}

	item := q.items[q.head]
	q.items[q.head] = zero
	q.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if q.head > 32 && q.head*2 >= len(q.items) {
		q.items = append([]T(nil), q.items[q.head:]...)
		q.head = 0
	}

	return item, true
}

// EnqueueTail appends item at the tail.
func (q *Queue[T]) EnqueueTail(item T) {
	q.items = append(q.items, item)
}

// Items returns a copy of the queued items from head to tail.
func (q *Queue[T]) Items() []T {
	out := make([]T, q.Len())
	copy(out, q.items[q.head:])
	return out
}

// Replace swaps every queued item for which match returns true with the
// result of update. It returns the number of replaced items.
func (q *Queue[T]) Replace(match func(T) bool, update func(T) T) int {
	n := 0
	for i := q.head; i < len(q.items); i++ {
		if match(q.items[i]) {
			q.items[i] = update(q.items[i])
			n++
		}
	}
	return n
}
