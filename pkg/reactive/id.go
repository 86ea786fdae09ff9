package reactive

import "sync/atomic"

var lastID atomic.Uint64

// nextID returns a process-unique id for a node of the graph.
func nextID() uint64 {
	return lastID.Add(1)
}
