package location

import (
	"fmt"
	"net/url"
	"sync"

	rerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/reactive"
)

// HistoryAPI is the platform history capability a Lite location drives.
// Href and State are reactive: reading them inside a memo or effect
// subscribes it to history changes.
type HistoryAPI interface {
	Href() string
	State() State
	Len() int
	ScrollRestoration() string
	SetScrollRestoration(mode string)
	PushState(state State, href string) error
	ReplaceState(state State, href string) error
	Go(delta int)
	Back()
	Forward()
	Dispose()
}

type historyEntry struct {
	href  string
	state State
}

// MemoryHistory is a HistoryAPI that keeps its entries in memory.
type MemoryHistory struct {
	mu       sync.Mutex
	entries  []historyEntry
	index    int
	scroll   string
	disposed bool

	href  *reactive.Signal[string]
	state *reactive.Signal[State]
}

// NewMemoryHistory creates a history whose only entry is initial, which
// must be an absolute URL.
func NewMemoryHistory(initial string) (*MemoryHistory, error) {
	u, err := url.Parse(initial)
	if err != nil {
		return nil, rerrors.Newf(rerrors.CodeInvalidURL, "Cannot parse initial URL %q: %v", initial, err).Wrap(err)
	}
	if !u.IsAbs() {
		return nil, rerrors.Newf(rerrors.CodeInvalidURL, "Initial URL %q must be absolute.", initial)
	}
	st := State{Hash: map[string]any{}}
	return &MemoryHistory{
		entries: []historyEntry{{href: u.String(), state: st}},
		scroll:  "auto",
		href:    reactive.NewSignal(u.String()),
		state:   reactive.NewSignal(st),
	}, nil
}

// Href returns the URL of the current entry.
func (h *MemoryHistory) Href() string {
	return h.href.Get()
}

// State returns the state of the current entry.
func (h *MemoryHistory) State() State {
	return h.state.Get()
}

// Len returns the number of entries.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Index returns the position of the current entry.
func (h *MemoryHistory) Index() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index
}

func (h *MemoryHistory) ScrollRestoration() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scroll
}

func (h *MemoryHistory) SetScrollRestoration(mode string) {
	h.mu.Lock()
	h.scroll = mode
	h.mu.Unlock()
}

// PushState drops the entries after the current one and appends a new one.
func (h *MemoryHistory) PushState(state State, href string) error {
	return h.write(state, href, true)
}

// ReplaceState overwrites the current entry.
func (h *MemoryHistory) ReplaceState(state State, href string) error {
	return h.write(state, href, false)
}

func (h *MemoryHistory) write(state State, href string, push bool) error {
	h.mu.Lock()
	if h.disposed {
		h.mu.Unlock()
		return rerrors.New(rerrors.CodeDisposed).WithDetail("The history has been disposed.")
	}
	base, _ := url.Parse(h.entries[h.index].href)
	ref, err := url.Parse(href)
	if err != nil {
		h.mu.Unlock()
		return rerrors.Newf(rerrors.CodeInvalidURL, "Cannot parse %q: %v", href, err).Wrap(err)
	}
	entry := historyEntry{href: base.ResolveReference(ref).String(), state: state.Clone()}
	if push {
		h.entries = append(h.entries[:h.index+1], entry)
		h.index++
	} else {
		h.entries[h.index] = entry
	}
	h.mu.Unlock()

	h.publish(entry)
	return nil
}

// Go moves delta entries through history. Moves outside the stack are
// ignored, as browsers do.
func (h *MemoryHistory) Go(delta int) {
	h.mu.Lock()
	next := h.index + delta
	if h.disposed || delta == 0 || next < 0 || next >= len(h.entries) {
		h.mu.Unlock()
		return
	}
	h.index = next
	entry := h.entries[next]
	h.mu.Unlock()

	h.publish(entry)
}

func (h *MemoryHistory) Back()    { h.Go(-1) }
func (h *MemoryHistory) Forward() { h.Go(1) }

// Simulate replaces the current entry the way an external actor would
// (another script, the user editing the address bar) and notifies readers.
func (h *MemoryHistory) Simulate(href string, state State) error {
	return h.ReplaceState(state, href)
}

// Dispose makes later writes fail. Entries stay readable.
func (h *MemoryHistory) Dispose() {
	h.mu.Lock()
	h.disposed = true
	h.mu.Unlock()
}

// Entries returns the hrefs of all entries, oldest first.
func (h *MemoryHistory) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.href
	}
	return out
}

func (h *MemoryHistory) publish(e historyEntry) {
	reactive.Batch(func() {
		h.href.Set(e.href)
		h.state.Set(e.state)
	})
}

func (h *MemoryHistory) String() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fmt.Sprintf("MemoryHistory(%d entries, at %d)", len(h.entries), h.index)
}

var _ HistoryAPI = (*MemoryHistory)(nil)
