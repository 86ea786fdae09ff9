// Package href calculates the hrefs links, redirections and programmatic
// navigation use, for each of the three routing universes.
package href

import (
	"net/url"
	"strings"

	"github.com/vango-dev/routekit/pkg/hash"
	"github.com/vango-dev/routekit/pkg/options"
	"github.com/vango-dev/routekit/pkg/query"
	"github.com/vango-dev/routekit/pkg/routepath"
)

// View is the read side of a location the calculator needs.
type View interface {
	// URL returns the current URL.
	URL() *url.URL
	// HashPaths returns the hash paths parsed from the current fragment.
	HashPaths() hash.Paths
}

// Options controls Calculate.
type Options struct {
	// Hash is the target universe. Unset resolves to the default hash.
	Hash hash.Hash

	// PreserveQuery carries parameters of the current URL over.
	PreserveQuery query.Preserve

	// PreserveHash keeps the current fragment. It only applies to path
	// routing; hash universes always rebuild the fragment.
	PreserveHash bool
}

// Calculate joins paths into an href for the universe selected by opts.
//
// Every segment must be relative. Segment paths are joined, segment queries
// are merged left to right and the first segment fragment is kept for path
// routing:
//
//	path universe:   /a/b?x=1#frag
//	single hash:     ?x=1#/a/b
//	named hash "p1": ?x=1#p1=/a/b;p2=/other
func Calculate(view View, reg *options.Registry, opts Options, paths ...string) (string, error) {
	var (
		pathParts []string
		q         query.Params
		fragment  string
	)
	for _, p := range paths {
		if err := routepath.ValidateRelative(p); err != nil {
			return "", err
		}
		path, rawQuery, frag := routepath.SplitHref(p)
		pathParts = append(pathParts, path)
		q = query.Merge(q, query.Parse(rawQuery))
		if fragment == "" {
			fragment = frag
		}
	}
	joined := routepath.JoinPaths(pathParts...)

	if !opts.PreserveQuery.IsZero() {
		q = query.MergePreserved(q, query.Parse(view.URL().RawQuery), opts.PreserveQuery)
	}

	h := reg.ResolveHash(opts.Hash)
	switch h.Kind() {
	case hash.KindSingle:
		return q.String() + "#" + joined, nil
	case hash.KindNamed:
		return q.String() + "#" + CalculateMultiHashFragment(view.HashPaths(), hash.PathEntry{ID: h.ID(), Path: joined}), nil
	default:
		if opts.PreserveHash {
			fragment = view.URL().EscapedFragment()
		}
		var sb strings.Builder
		sb.WriteString(joined)
		sb.WriteString(q.String())
		if fragment != "" {
			sb.WriteByte('#')
			sb.WriteString(fragment)
		}
		return sb.String(), nil
	}
}

// CalculateMultiHashFragment returns the multi-hash fragment (without "#")
// that results from applying updates to existing.
//
// Existing ids keep their position and take the updated path when one is
// given; an empty path removes the id. New ids are appended in the order
// given. Ids and paths are written as is: a path containing ';' or '='
// cannot be read back.
func CalculateMultiHashFragment(existing hash.Paths, updates ...hash.PathEntry) string {
	pending := make(map[string]string, len(updates))
	for _, u := range updates {
		pending[u.ID] = u.Path
	}

	var parts []string
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[e.ID] = true
		path := e.Path
		if p, ok := pending[e.ID]; ok {
			path = p
		}
		if path != "" {
			parts = append(parts, e.ID+"="+path)
		}
	}
	for _, u := range updates {
		if seen[u.ID] || u.Path == "" {
			continue
		}
		seen[u.ID] = true
		parts = append(parts, u.ID+"="+pending[u.ID])
	}
	return strings.Join(parts, ";")
}
