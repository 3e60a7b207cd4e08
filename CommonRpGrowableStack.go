package realphysics4d

/// Slice-backed LIFO used by tree queries and the island search.
type RpGrowableStack[T any] struct {
	items []T
}

func NewRpGrowableStack[T any](capacity int) *RpGrowableStack[T] {
	return &RpGrowableStack[T]{
		items: make([]T, 0, capacity),
	}
}

// Return the stack's length
func (s RpGrowableStack[T]) GetCount() int {
	return len(s.items)
}

// Push a new element onto the stack
func (s *RpGrowableStack[T]) Push(value T) {
	s.items = append(s.items, value)
}

// Remove the top element from the stack and return its value.
// ok is false when the stack is empty.
func (s *RpGrowableStack[T]) Pop() (value T, ok bool) {
	n := len(s.items)
	if n == 0 {
		return value, false
	}

	value = s.items[n-1]
	s.items = s.items[:n-1]
	return value, true
}

func (s *RpGrowableStack[T]) Clear() {
	s.items = s.items[:0]
}
