package reactive

import (
	"reflect"
	"slices"
	"sync"
)

// signalBase is the subscriber list shared by Signal and Memo.
// Listeners are kept in the order they first subscribed and are notified
// in that order.
type signalBase struct {
	id uint64

	mu   sync.RWMutex
	subs []Listener
}

func (s *signalBase) indexOf(l Listener) int {
	id := l.ID()
	return slices.IndexFunc(s.subs, func(x Listener) bool { return x.ID() == id })
}

func (s *signalBase) subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(l) < 0 {
		s.subs = append(s.subs, l)
	}
}

func (s *signalBase) unsubscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(l); i >= 0 {
		s.subs = slices.Delete(s.subs, i, i+1)
	}
}

// notifySubscribers marks every subscriber dirty, or defers that to the
// end of the enclosing batch. The list is copied so listeners may
// unsubscribe while being notified.
func (s *signalBase) notifySubscribers() {
	s.mu.RLock()
	subs := slices.Clone(s.subs)
	s.mu.RUnlock()

	if ctx := current(); ctx.batchDepth > 0 {
		ctx.pending = append(ctx.pending, subs...)
		return
	}
	for _, l := range subs {
		l.MarkDirty()
	}
}

// track subscribes the recording computation, if any, to s.
func (s *signalBase) track() {
	l := current().listener
	if l == nil {
		return
	}
	s.subscribe(l)
	if d, ok := l.(dependent); ok {
		d.deps().add(s)
	}
}

// subscriberCount is used by tests to observe unsubscription.
func (s *signalBase) subscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// Signal is a reactive value. Reading it inside a memo or an effect
// subscribes that computation to later writes.
type Signal[T any] struct {
	base signalBase

	mu    sync.RWMutex
	value T

	// equal decides whether a write changes the value. Nil uses
	// defaultEquals.
	equal func(a, b T) bool
}

// NewSignal creates a signal holding initial.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		base:  signalBase{id: nextID()},
		value: initial,
	}
}

// Get returns the value and subscribes the recording computation.
func (s *Signal[T]) Get() T {
	v := s.Peek()
	s.base.track()
	return v
}

// Peek returns the value without subscribing.
func (s *Signal[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores value. When it differs from the current one, subscribers are
// notified and the invalidated effects have run by the time Set returns,
// unless the write happens inside a Batch or an effect flush.
func (s *Signal[T]) Set(value T) {
	s.Update(func(T) T { return value })
}

// Update replaces the value with fn(current) under the write lock.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	next := fn(s.value)
	changed := !s.equals(s.value, next)
	if changed {
		s.value = next
	}
	s.mu.Unlock()

	if changed {
		s.Notify()
	}
}

// Notify tells subscribers the value changed without writing it, for
// values mutated through a pointer.
func (s *Signal[T]) Notify() {
	s.base.notifySubscribers()
	flushEffects()
}

// WithEquals sets the equality used by writes and returns s.
func (s *Signal[T]) WithEquals(fn func(a, b T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the signal's id.
func (s *Signal[T]) ID() uint64 {
	return s.base.id
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals compares scalars with == and everything else with
// reflect.DeepEqual.
func defaultEquals[T any](a, b T) bool {
	switch x := any(a).(type) {
	case string, bool, int, int64, uint64, float64:
		return x == any(b)
	}
	return reflect.DeepEqual(a, b)
}
