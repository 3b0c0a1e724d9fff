// Package ring provides a fixed-capacity buffer that evicts its oldest entry
// when full.
package ring

// Ring is a bounded FIFO. It is not safe for concurrent use; callers hold
// their own lock.
type Ring[T any] struct {
	items []T
	head  int
	size  int
}

// New creates a Ring holding at most capacity items. A capacity below one
// is treated as one.
func New[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{items: make([]T, capacity)}
}

// Push appends v. When the ring is full the oldest item is removed and
// returned with ok set to true.
func (r *Ring[T]) Push(v T) (evicted T, ok bool) {
	if r.size == len(r.items) {
		evicted = r.items[r.head]
		ok = true
		r.items[r.head] = v
		r.head = (r.head + 1) % len(r.items)
		return evicted, ok
	}

	r.items[(r.head+r.size)%len(r.items)] = v
	r.size++
	return evicted, false
}

// Items returns the buffered values, oldest first.
func (r *Ring[T]) Items() []T {
	out := make([]T, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.items[(r.head+i)%len(r.items)]
	}
	return out
}

// Find returns the newest item matching fn.
func (r *Ring[T]) Find(fn func(T) bool) (T, bool) {
	for i := r.size - 1; i >= 0; i-- {
		v := r.items[(r.head+i)%len(r.items)]
		if fn(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Len returns the number of buffered items.
func (r *Ring[T]) Len() int { return r.size }

// Cap returns the maximum number of items.
func (r *Ring[T]) Cap() int { return len(r.items) }
