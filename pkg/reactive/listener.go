package reactive

import (
	"slices"
	"sync"
)

// Listener is a node that is told when a value it read changes.
// Memos and effects are listeners.
type Listener interface {
	// MarkDirty invalidates a memo or queues an effect.
	MarkDirty()

	// ID deduplicates notifications inside a batch.
	ID() uint64
}

// Cleanup is returned by an effect run. It runs before the next run and
// when the effect is disposed.
type Cleanup func()

// dependent is a Listener that records what it read so it can drop those
// subscriptions before running again.
type dependent interface {
	Listener
	deps() *sourceSet
}

// sourceSet holds the values a dependent read during its last run.
type sourceSet struct {
	mu   sync.Mutex
	list []*signalBase
}

func (s *sourceSet) add(src *signalBase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.list, src) {
		s.list = append(s.list, src)
	}
}

// release unsubscribes l from every recorded source and forgets them.
func (s *sourceSet) release(l Listener) {
	s.mu.Lock()
	list := s.list
	s.list = nil
	s.mu.Unlock()
	for _, src := range list {
		src.unsubscribe(l)
	}
}
