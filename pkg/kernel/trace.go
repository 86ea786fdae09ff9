package kernel

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/vango-dev/routekit/pkg/hash"
)

// Traceable is a router that can be listed in the trace registry.
type Traceable interface {
	ID() string
	BasePath() string
	ResolvedHash() hash.Hash
}

// TraceNode is a snapshot of one registered router.
type TraceNode struct {
	Handle   string       `json:"handle"`
	Parent   string       `json:"parent,omitempty"`
	ID       string       `json:"id,omitempty"`
	BasePath string       `json:"basePath"`
	Hash     string       `json:"hash"`
	Children []*TraceNode `json:"children,omitempty"`
}

type traceEntry struct {
	handle string
	parent string
	router Traceable
	seq    int
}

// TraceRegistry tracks live routers and their parent links.
type TraceRegistry struct {
	mu      sync.RWMutex
	entries map[string]*traceEntry
	seq     int
}

// NewTraceRegistry creates an empty registry.
func NewTraceRegistry() *TraceRegistry {
	return &TraceRegistry{entries: make(map[string]*traceEntry)}
}

// Register adds r as a child of parent (a handle returned by a previous
// Register, or "" for a root) and returns r's handle.
func (t *TraceRegistry) Register(r Traceable, parent string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	e := &traceEntry{
		handle: uuid.NewString(),
		parent: parent,
		router: r,
		seq:    t.seq,
	}
	t.entries[e.handle] = e
	return e.handle
}

// Unregister removes the router registered under handle.
func (t *TraceRegistry) Unregister(handle string) {
	t.mu.Lock()
	delete(t.entries, handle)
	t.mu.Unlock()
}

// Len returns the number of registered routers.
func (t *TraceRegistry) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Clear removes every router.
func (t *TraceRegistry) Clear() {
	t.mu.Lock()
	t.entries = make(map[string]*traceEntry)
	t.mu.Unlock()
}

func (t *TraceRegistry) sorted() []*traceEntry {
	t.mu.RLock()
	list := make([]*traceEntry, 0, len(t.entries))
	for _, e := range t.entries {
		list = append(list, e)
	}
	t.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].seq < list[j].seq })
	return list
}

// Nodes returns a flat snapshot in registration order.
func (t *TraceRegistry) Nodes() []TraceNode {
	list := t.sorted()
	out := make([]TraceNode, 0, len(list))
	for _, e := range list {
		out = append(out, e.snapshot())
	}
	return out
}

// Tree returns the router hierarchy. Routers whose parent is not
// registered are roots.
func (t *TraceRegistry) Tree() []*TraceNode {
	list := t.sorted()
	byHandle := make(map[string]*TraceNode, len(list))
	for _, e := range list {
		n := e.snapshot()
		byHandle[e.handle] = &n
	}
	var roots []*TraceNode
	for _, e := range list {
		n := byHandle[e.handle]
		if p, ok := byHandle[e.parent]; ok {
			p.Children = append(p.Children, n)
			continue
		}
		roots = append(roots, n)
	}
	return roots
}

func (e *traceEntry) snapshot() TraceNode {
	return TraceNode{
		Handle:   e.handle,
		Parent:   e.parent,
		ID:       e.router.ID(),
		BasePath: e.router.BasePath(),
		Hash:     e.router.ResolvedHash().String(),
	}
}
