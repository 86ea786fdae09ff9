package location

import (
	"maps"

	"github.com/vango-dev/routekit/pkg/hash"
)

// State is the history state object. The path universe owns Path; every
// hash universe owns the Hash entry keyed by its id ("single" for single hash
// routing).
type State struct {
	Path any            `json:"path"`
	Hash map[string]any `json:"hash"`
}

// Clone returns a copy whose Hash map can be modified independently.
func (s State) Clone() State {
	out := State{Path: s.Path, Hash: make(map[string]any, len(s.Hash))}
	maps.Copy(out.Hash, s.Hash)
	return out
}

// Get returns the slot owned by h, which must be resolved.
func (s State) Get(h hash.Hash) any {
	if !h.IsHashRouting() {
		return s.Path
	}
	return s.Hash[h.ID()]
}

// With returns a copy of s with the slot owned by h set to v.
func (s State) With(h hash.Hash, v any) State {
	out := s.Clone()
	if h.IsHashRouting() {
		out.Hash[h.ID()] = v
	} else {
		out.Path = v
	}
	return out
}
