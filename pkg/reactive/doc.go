// Package reactive is the dependency-tracking runtime routekit derives its
// state with.
//
// Three primitives make up the graph:
//
//   - Signal holds a value. Reading it inside a tracked computation
//     subscribes that computation.
//   - Memo caches a computation and recomputes lazily after any of the values
//     it read last time changes.
//   - Effect runs a side effect immediately and re-runs it after any of the
//     values it read changes.
//
// Effects are flushed synchronously: the outermost Set (or Batch) that
// invalidates an effect runs it before returning, so callers observe the
// secondary effects of a write as soon as the write returns. Effects that keep
// invalidating each other are stopped by a run budget (see SetFlushBudget).
//
// Untracked runs a function without recording dependencies. Side effects
// performed from inside an effect, such as navigation, go through it so that
// the effect does not subscribe to what it changes.
//
//	path := reactive.NewSignal("/")
//	upper := reactive.NewMemo(func() string { return strings.ToUpper(path.Get()) })
//	reactive.CreateEffect(func() reactive.Cleanup {
//	    fmt.Println(upper.Get())
//	    return nil
//	})
//	path.Set("/users") // prints "/USERS"
package reactive
