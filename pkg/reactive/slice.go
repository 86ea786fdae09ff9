package reactive

// SliceSignal wraps Signal[[]T] with copy-on-write slice operations.
// Every mutation notifies subscribers, even when the new slice compares equal
// to the old one.
type SliceSignal[T any] struct {
	*Signal[[]T]
}

// NewSliceSignal creates a new SliceSignal with the given initial value.
// If initial is nil, creates an empty slice.
func NewSliceSignal[T any](initial []T) *SliceSignal[T] {
	if initial == nil {
		initial = []T{}
	}
	s := NewSignal(clone(initial)).WithEquals(func(a, b []T) bool { return false })
	return &SliceSignal[T]{s}
}

// Append adds an item to the end of the slice.
func (s *SliceSignal[T]) Append(item T) {
	s.Update(func(items []T) []T {
		return append(clone(items), item)
	})
}

// AppendAll adds multiple items to the end of the slice.
func (s *SliceSignal[T]) AppendAll(items ...T) {
	s.Update(func(current []T) []T {
		return append(clone(current), items...)
	})
}

// RemoveAt removes the item at the given index.
// Does nothing if index is out of bounds.
func (s *SliceSignal[T]) RemoveAt(index int) {
	items := s.Peek()
	if index < 0 || index >= len(items) {
		return
	}
	s.Update(func(items []T) []T {
		next := make([]T, 0, len(items)-1)
		next = append(next, items[:index]...)
		return append(next, items[index+1:]...)
	})
}

// SetAt sets the item at the given index.
// Does nothing if index is out of bounds.
func (s *SliceSignal[T]) SetAt(index int, item T) {
	items := s.Peek()
	if index < 0 || index >= len(items) {
		return
	}
	s.Update(func(items []T) []T {
		next := clone(items)
		next[index] = item
		return next
	})
}

// Replace swaps the whole slice.
func (s *SliceSignal[T]) Replace(items []T) {
	s.Set(clone(items))
}

// Clear removes all items from the slice.
func (s *SliceSignal[T]) Clear() {
	s.Set([]T{})
}

// Len returns the length of the slice.
// This reads the signal and creates a dependency.
func (s *SliceSignal[T]) Len() int {
	return len(s.Get())
}

// Items returns a copy of the slice and creates a dependency.
func (s *SliceSignal[T]) Items() []T {
	return clone(s.Get())
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
