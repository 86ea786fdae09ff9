package reactive

import (
	"sync"
	"sync/atomic"
)

// Memo caches a derived value. It is lazy: nothing runs until the first
// Get, and a change to any value read by the last computation only marks
// it stale. The next read recomputes once, however many sources changed.
//
// A Memo is itself a source: computations reading it are invalidated when
// it goes stale. Recomputation is serialized: a goroutine reading a stale
// memo while another goroutine recomputes it waits for that result.
type Memo[T any] struct {
	base    signalBase
	sources sourceSet
	compute func() T

	mu    sync.RWMutex
	value T

	calc      sync.Mutex
	computing atomic.Pointer[TrackingContext]

	fresh    atomic.Bool
	disposed atomic.Bool
}

// NewMemo creates a memo of compute.
func NewMemo[T any](compute func() T) *Memo[T] {
	return &Memo[T]{
		base:    signalBase{id: nextID()},
		compute: compute,
	}
}

// Get returns the value, recomputing it when stale, and subscribes the
// recording computation.
func (m *Memo[T]) Get() T {
	m.base.track()
	return m.Peek()
}

// Peek returns the value without subscribing. A stale memo still
// recomputes.
func (m *Memo[T]) Peek() T {
	if !m.fresh.Load() {
		m.recompute()
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.value
}

// MarkDirty makes the memo stale and invalidates its readers.
func (m *Memo[T]) MarkDirty() {
	if m.disposed.Load() {
		return
	}
	if m.fresh.CompareAndSwap(true, false) {
		m.base.notifySubscribers()
	}
}

// ID returns the memo's id.
func (m *Memo[T]) ID() uint64 {
	return m.base.id
}

func (m *Memo[T]) deps() *sourceSet {
	return &m.sources
}

// Dispose detaches the memo from its sources. A disposed memo keeps its
// last value and never recomputes.
func (m *Memo[T]) Dispose() {
	if m.disposed.Swap(true) {
		return
	}
	m.sources.release(m)
	m.fresh.Store(true)
}

func (m *Memo[T]) recompute() {
	ctx := current()
	// A memo reading itself keeps its stale value.
	if m.computing.Load() == ctx {
		return
	}
	m.calc.Lock()
	defer m.calc.Unlock()
	if m.fresh.Load() {
		return
	}
	m.computing.Store(ctx)
	defer m.computing.Store(nil)

	m.sources.release(m)

	prev := swapListener(m)
	v := func() T {
		defer swapListener(prev)
		return m.compute()
	}()

	m.mu.Lock()
	m.value = v
	m.mu.Unlock()
	m.fresh.Store(true)
}

var _ dependent = (*Memo[int])(nil)
