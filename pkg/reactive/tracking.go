package reactive

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// TrackingContext is the reactive state of one goroutine. Subscriptions
// live on the values themselves, so a write on any goroutine reaches every
// listener; what is per goroutine is which computation is currently
// recording reads, the batch depth and the queue of effects to flush.
type TrackingContext struct {
	owner    *Owner
	listener Listener

	batchDepth int
	pending    []Listener

	effectQueue []*Effect
	flushing    bool
}

var contexts sync.Map // goroutine id -> *TrackingContext

// goroutineID parses the id out of the "goroutine N [" stack header.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseUint(string(b), 10, 64)
	return id
}

// current returns the context of the calling goroutine, creating it on
// first use.
func current() *TrackingContext {
	gid := goroutineID()
	if ctx, ok := contexts.Load(gid); ok {
		return ctx.(*TrackingContext)
	}
	ctx, _ := contexts.LoadOrStore(gid, &TrackingContext{})
	return ctx.(*TrackingContext)
}

// swapListener installs l as the recording computation and returns the
// previous one.
func swapListener(l Listener) Listener {
	ctx := current()
	prev := ctx.listener
	ctx.listener = l
	return prev
}

// IsTracking reports whether reads on this goroutine currently record
// dependencies.
func IsTracking() bool {
	return current().listener != nil
}

// WithOwner runs fn with owner as the current owner. Effects created inside
// fn belong to owner and are disposed with it.
func WithOwner(owner *Owner, fn func()) {
	ctx := current()
	prev := ctx.owner
	ctx.owner = owner
	defer func() { ctx.owner = prev }()
	fn()
}

// ReleaseGoroutine forgets the context of the calling goroutine.
// Long-lived servers call it when a goroutine that touched reactive values
// is about to exit.
func ReleaseGoroutine() {
	contexts.Delete(goroutineID())
}
