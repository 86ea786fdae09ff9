package location

import (
	"net/url"

	"github.com/vango-dev/routekit/pkg/hash"
	"github.com/vango-dev/routekit/pkg/query"
)

// Location is the router's view of, and handle on, the browser location.
type Location interface {
	// URL returns a copy of the current URL. Reactive.
	URL() *url.URL

	// Path returns the escaped pathname used by path routing, without a
	// trailing slash. Reactive.
	Path() string

	// HashPaths returns the paths of the hash universes present in the
	// fragment. Reactive.
	HashPaths() hash.Paths

	// GetState returns the history state slot of the universe h resolves to.
	GetState(h hash.Hash) any

	// GoTo commits href, resolved against the current URL, without any
	// routing-universe processing.
	GoTo(href string, opts GoToOptions) error

	// Navigate computes the href of the target universe and commits it.
	Navigate(href string, opts NavigateOptions) error

	Back()
	Forward()
	Go(delta int)

	// On subscribes to location events.
	On(event string, handler func(Navigation)) (func(), error)

	Dispose()
}

// GoToOptions controls Location.GoTo.
type GoToOptions struct {
	// Replace replaces the current history entry instead of pushing.
	Replace bool

	// PreserveQuery carries current query parameters over. Ignored when the
	// href is empty.
	PreserveQuery query.Preserve

	// State is the full history state to commit. Nil keeps the current one.
	State *State
}

// NavigateOptions controls Location.Navigate.
type NavigateOptions struct {
	// Hash is the target universe. Unset uses the default hash.
	Hash hash.Hash

	Replace       bool
	PreserveQuery query.Preserve

	// State is stored in the target universe's slot of the history state.
	State any
}
