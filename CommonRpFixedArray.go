package realphysics4d

/// Bounded, capacity-checked array. Pushing past the capacity asserts in
/// debug builds and drops the element otherwise.
type RpFixedArray[T any] struct {
	items    []T
	capacity int
	dropped  int
}

func MakeRpFixedArray[T any](capacity int) RpFixedArray[T] {
	RpAssert(capacity > 0)
	return RpFixedArray[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
	}
}

/// Returns false when the element did not fit.
func (a *RpFixedArray[T]) Push(value T) bool {
	if len(a.items) >= a.capacity {
		if RP_DEBUG {
			RpAssert(false)
		}
		a.dropped++
		return false
	}

	a.items = append(a.items, value)
	return true
}

func (a RpFixedArray[T]) GetCount() int {
	return len(a.items)
}

func (a RpFixedArray[T]) GetCapacity() int {
	return a.capacity
}

/// Number of elements rejected because the array was full.
func (a RpFixedArray[T]) GetDropped() int {
	return a.dropped
}

func (a RpFixedArray[T]) At(i int) T {
	return a.items[i]
}

func (a *RpFixedArray[T]) Set(i int, value T) {
	a.items[i] = value
}

func (a *RpFixedArray[T]) Clear() {
	a.items = a.items[:0]
	a.dropped = 0
}

/// Copy of the stored elements.
func (a RpFixedArray[T]) Slice() []T {
	res := make([]T, len(a.items))
	copy(res, a.items)
	return res
}
