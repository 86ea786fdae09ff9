package reactive

import "sync/atomic"

// Effect is a side effect that re-runs after any value it read changes.
//
// The first run happens inside CreateEffect. A run may return a Cleanup,
// which is called before the next run and on Dispose.
type Effect struct {
	id   uint64
	name string
	fn   func() Cleanup

	cleanup Cleanup
	sources sourceSet
	owner   *Owner

	// pending is set while the effect sits in a flush queue.
	pending  atomic.Bool
	disposed atomic.Bool
}

// EffectOption configures an Effect.
type EffectOption func(*Effect)

// EffectName labels an effect. The label shows up in flush budget panics.
func EffectName(name string) EffectOption {
	return func(e *Effect) {
		e.name = name
	}
}

// CreateEffect creates an effect, runs it once and returns it.
// The effect belongs to the current owner, if any, and is disposed with it.
func CreateEffect(fn func() Cleanup, opts ...EffectOption) *Effect {
	e := &Effect{id: nextID(), fn: fn}
	for _, opt := range opts {
		opt(e)
	}

	ctx := current()
	if ctx.owner != nil {
		e.owner = ctx.owner
		ctx.owner.registerEffect(e)
	}

	// The first run counts as part of a flush, so writes it makes queue
	// listeners (e included) instead of re-entering it.
	if ctx.flushing {
		e.run()
	} else {
		ctx.flushing = true
		func() {
			defer func() { ctx.flushing = false }()
			e.run()
		}()
	}
	flushEffects()
	return e
}

// MarkDirty queues the effect for the next flush.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	if e.pending.CompareAndSwap(false, true) {
		ctx := current()
		ctx.effectQueue = append(ctx.effectQueue, e)
	}
}

// ID returns the effect's id.
func (e *Effect) ID() uint64 {
	return e.id
}

// Name returns the label set with EffectName.
func (e *Effect) Name() string {
	return e.name
}

// Disposed reports whether Dispose has been called.
func (e *Effect) Disposed() bool {
	return e.disposed.Load()
}

func (e *Effect) deps() *sourceSet {
	return &e.sources
}

func (e *Effect) runCleanup() {
	if c := e.cleanup; c != nil {
		e.cleanup = nil
		Untracked(c)
	}
}

// run calls fn with e recording reads.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}
	e.pending.Store(false)
	e.runCleanup()
	e.sources.release(e)

	prev := swapListener(e)
	defer swapListener(prev)
	e.cleanup = e.fn()
}

// Dispose runs the pending cleanup and stops the effect. It is idempotent.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}
	e.runCleanup()
	e.sources.release(e)
	if e.owner != nil {
		e.owner.unregisterEffect(e)
	}
}

var _ dependent = (*Effect)(nil)
