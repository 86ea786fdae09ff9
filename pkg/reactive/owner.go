package reactive

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Owner is a disposal scope. Effects created under it (see WithOwner and
// Run), cleanups registered with OnCleanup and child owners are all
// released by Dispose.
//
// Routers and redirectors each hold an Owner for the derived values they
// set up on the location.
type Owner struct {
	id     uint64
	parent *Owner

	mu       sync.Mutex
	children []*Owner
	effects  []*Effect
	cleanups []func()

	disposed atomic.Bool
}

// NewOwner creates an owner. A non-nil parent disposes it along with
// itself.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{id: nextID(), parent: parent}
	if parent != nil {
		parent.mu.Lock()
		parent.children = append(parent.children, o)
		parent.mu.Unlock()
	}
	return o
}

// ID returns the owner's id.
func (o *Owner) ID() uint64 {
	return o.id
}

// Parent returns the parent owner, or nil for a root.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// IsDisposed reports whether Dispose has been called.
func (o *Owner) IsDisposed() bool {
	return o.disposed.Load()
}

// Run runs fn with o as the current owner.
func (o *Owner) Run(fn func()) {
	WithOwner(o, fn)
}

// OnCleanup registers fn to run on Dispose. On a disposed owner fn runs
// immediately.
func (o *Owner) OnCleanup(fn func()) {
	o.mu.Lock()
	if !o.disposed.Load() {
		o.cleanups = append(o.cleanups, fn)
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()
	fn()
}

// Effects returns the number of live effects owned directly by o.
func (o *Owner) Effects() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.effects)
}

func (o *Owner) registerEffect(e *Effect) {
	o.mu.Lock()
	o.effects = append(o.effects, e)
	o.mu.Unlock()
}

func (o *Owner) unregisterEffect(e *Effect) {
	o.mu.Lock()
	o.effects = slices.DeleteFunc(o.effects, func(x *Effect) bool { return x == e })
	o.mu.Unlock()
}

func (o *Owner) removeChild(child *Owner) {
	o.mu.Lock()
	o.children = slices.DeleteFunc(o.children, func(x *Owner) bool { return x == child })
	o.mu.Unlock()
}

// Dispose releases children (last created first), then effects, then
// cleanups in reverse registration order. It is idempotent.
func (o *Owner) Dispose() {
	o.mu.Lock()
	if o.disposed.Swap(true) {
		o.mu.Unlock()
		return
	}
	children, effects, cleanups := o.children, o.effects, o.cleanups
	o.children, o.effects, o.cleanups = nil, nil, nil
	o.mu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}
	for _, e := range effects {
		e.owner = nil
		e.Dispose()
	}
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	if o.parent != nil {
		o.parent.removeChild(o)
	}
}
