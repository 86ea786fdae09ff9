package reactive

import (
	"fmt"
	"sync/atomic"
)

// DefaultFlushBudget is the number of effect runs a single flush may perform
// before it is considered a runaway cycle.
const DefaultFlushBudget = 1000

var flushBudget atomic.Int64

func init() {
	flushBudget.Store(DefaultFlushBudget)
}

// SetFlushBudget changes the maximum number of effect runs per flush and
// returns the previous value. Values below 1 restore the default.
func SetFlushBudget(n int) int {
	if n < 1 {
		n = DefaultFlushBudget
	}
	return int(flushBudget.Swap(int64(n)))
}

// FlushBudgetError is the panic value raised when effects keep invalidating
// each other past the flush budget.
type FlushBudgetError struct {
	Runs   int
	Effect string
}

func (e *FlushBudgetError) Error() string {
	name := e.Effect
	if name == "" {
		name = "unnamed effect"
	}
	return fmt.Sprintf("reactive: effects ran %d times in one flush (last: %s); an effect is likely writing to a value it depends on", e.Runs, name)
}

// Batch groups multiple signal updates into a single notification phase.
// All signal updates within the batch function are collected, deduplicated,
// and then all affected listeners are notified once when the batch completes.
//
// Batches can be nested. Notifications only fire when the outermost batch completes.
//
//	Batch(func() {
//	    first.Set("John")
//	    last.Set("Doe")
//	})
//	// effects reading both run once
func Batch(fn func()) {
	ctx := current()
	ctx.batchDepth++
	defer func() {
		ctx.batchDepth--
		if ctx.batchDepth == 0 {
			notifyPending(ctx)
			flushEffects()
		}
	}()
	fn()
}

// notifyPending marks every listener collected by the batch dirty once.
func notifyPending(ctx *TrackingContext) {
	pending := ctx.pending
	ctx.pending = nil
	seen := make(map[uint64]bool, len(pending))
	for _, l := range pending {
		if id := l.ID(); !seen[id] {
			seen[id] = true
			l.MarkDirty()
		}
	}
}

// Untracked runs a function without tracking signal reads as dependencies.
//
// For single signal reads, use Peek instead.
func Untracked(fn func()) {
	prev := swapListener(nil)
	defer swapListener(prev)
	fn()
}

// UntrackedGet reads a value without tracking it.
func UntrackedGet[T any](fn func() T) T {
	var v T
	Untracked(func() { v = fn() })
	return v
}

// flushEffects drains the effect queue of the current goroutine.
// It does nothing inside a batch or when a flush is already in progress on
// this goroutine; effects queued by a running effect run after it returns.
func flushEffects() {
	ctx := current()
	if ctx.flushing || ctx.batchDepth > 0 || len(ctx.effectQueue) == 0 {
		return
	}

	ctx.flushing = true
	completed := false
	defer func() {
		ctx.flushing = false
		if !completed {
			// Drop whatever was left so a panicking effect does not wedge the queue.
			for _, e := range ctx.effectQueue {
				e.pending.Store(false)
			}
			ctx.effectQueue = nil
		}
	}()

	budget := int(flushBudget.Load())
	runs := 0
	for len(ctx.effectQueue) > 0 {
		e := ctx.effectQueue[0]
		ctx.effectQueue[0] = nil
		ctx.effectQueue = ctx.effectQueue[1:]

		if !e.pending.Load() || e.disposed.Load() {
			continue
		}

		runs++
		if runs > budget {
			panic(&FlushBudgetError{Runs: runs - 1, Effect: e.name})
		}
		e.run()
	}
	ctx.effectQueue = nil
	completed = true
}
