// Package hash models the routing universe a router, link or navigation
// targets, and the fragment layout each universe uses.
//
// A Hash is one of:
//
//   - Unset: use the configured default.
//   - Path: the URL pathname is the test path.
//   - Single: the whole fragment is the test path ("#/users/1").
//   - Named(id): one entry of a multi-hash fragment ("#main=/users/1;side=/help").
package hash

import (
	"fmt"
	"strings"
)

// Kind identifies a routing universe.
type Kind uint8

const (
	// KindUnset defers to the configured default hash.
	KindUnset Kind = iota
	KindPath
	KindSingle
	KindNamed
)

// SingleID is the key single hash routing uses in Paths and history state.
const SingleID = "single"

func (k Kind) String() string {
	switch k {
	case KindUnset:
		return "unset"
	case KindPath:
		return "path"
	case KindSingle:
		return "single"
	case KindNamed:
		return "named"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Hash selects a routing universe. The zero value is Unset.
type Hash struct {
	kind Kind
	id   string
}

// Unset returns the Hash that defers to the configured default.
func Unset() Hash { return Hash{} }

// Path returns the Hash for path routing.
func Path() Hash { return Hash{kind: KindPath} }

// Single returns the Hash for single hash routing.
func Single() Hash { return Hash{kind: KindSingle} }

// Named returns the Hash for the multi hash universe identified by id.
// An empty id yields Unset.
func Named(id string) Hash {
	if id == "" {
		return Hash{}
	}
	return Hash{kind: KindNamed, id: id}
}

// FromBool maps false to Path and true to Single.
func FromBool(b bool) Hash {
	if b {
		return Single()
	}
	return Path()
}

// FromValue converts the loosely typed surface used by configuration and
// the playground: nil is Unset, a bool goes through FromBool, a string is
// Named. A Hash is returned as is.
func FromValue(v any) (Hash, error) {
	switch x := v.(type) {
	case nil:
		return Unset(), nil
	case Hash:
		return x, nil
	case bool:
		return FromBool(x), nil
	case string:
		return Named(x), nil
	case *bool:
		if x == nil {
			return Unset(), nil
		}
		return FromBool(*x), nil
	default:
		return Hash{}, fmt.Errorf("hash: unsupported value of type %T", v)
	}
}

// Kind returns the universe kind.
func (h Hash) Kind() Kind { return h.kind }

func (h Hash) IsUnset() bool  { return h.kind == KindUnset }
func (h Hash) IsPath() bool   { return h.kind == KindPath }
func (h Hash) IsSingle() bool { return h.kind == KindSingle }
func (h Hash) IsNamed() bool  { return h.kind == KindNamed }

// IsHashRouting reports whether the universe lives in the fragment.
func (h Hash) IsHashRouting() bool {
	return h.kind == KindSingle || h.kind == KindNamed
}

// ID returns the key of the universe in Paths and history state:
// SingleID for Single, the id for Named and "" otherwise.
func (h Hash) ID() string {
	switch h.kind {
	case KindSingle:
		return SingleID
	case KindNamed:
		return h.id
	default:
		return ""
	}
}

// Value converts back to the loose surface accepted by FromValue.
func (h Hash) Value() any {
	switch h.kind {
	case KindPath:
		return false
	case KindSingle:
		return true
	case KindNamed:
		return h.id
	default:
		return nil
	}
}

func (h Hash) String() string {
	if h.kind == KindNamed {
		return "named(" + h.id + ")"
	}
	return h.kind.String()
}

// PathEntry is one entry of a Paths list.
type PathEntry struct {
	ID   string
	Path string
}

// Paths maps hash ids to sub-paths, keeping fragment order.
type Paths []PathEntry

// Get returns the path stored for id.
func (p Paths) Get(id string) (string, bool) {
	for _, e := range p {
		if e.ID == id {
			return e.Path, true
		}
	}
	return "", false
}

// Lookup returns the path of h's universe, or "" when absent.
func (p Paths) Lookup(h Hash) string {
	v, _ := p.Get(h.ID())
	return v
}

// IDs returns the ids in order.
func (p Paths) IDs() []string {
	ids := make([]string, len(p))
	for i, e := range p {
		ids[i] = e.ID
	}
	return ids
}

// Map returns a copy of p as a map.
func (p Paths) Map() map[string]string {
	m := make(map[string]string, len(p))
	for _, e := range p {
		m[e.ID] = e.Path
	}
	return m
}

// Equal reports whether both lists hold the same entries in the same order.
func (p Paths) Equal(o Paths) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// ParsePaths splits a fragment (without the leading '#') into Paths.
//
// In multi mode the fragment is split on ';' and every part on its first '=';
// parts without '=' or with an empty id are skipped, and a repeated id keeps
// its first position with the last value. Otherwise the whole fragment is the
// single entry SingleID.
func ParsePaths(fragment string, multi bool) Paths {
	if !multi {
		return Paths{{ID: SingleID, Path: fragment}}
	}

	var out Paths
	if fragment == "" {
		return out
	}
	for _, part := range strings.Split(fragment, ";") {
		id, path, ok := strings.Cut(part, "=")
		if !ok || id == "" {
			continue
		}
		replaced := false
		for i := range out {
			if out[i].ID == id {
				out[i].Path = path
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, PathEntry{ID: id, Path: path})
		}
	}
	return out
}
