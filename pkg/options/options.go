// Package options holds the process-wide routing options and validates
// every change made to them.
package options

import (
	"fmt"
	"sync"

	rerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/hash"
)

// HashMode selects how the URL fragment is interpreted.
type HashMode string

const (
	// HashModeSingle treats the whole fragment as one path.
	HashModeSingle HashMode = "single"
	// HashModeMulti treats the fragment as a list of named paths.
	HashModeMulti HashMode = "multi"
)

// RoutingOptions are the library-wide routing options.
type RoutingOptions struct {
	HashMode HashMode

	// DefaultHash is the universe used when a router, link or navigation
	// doesn't name one. Never Unset.
	DefaultHash hash.Hash

	DisallowPathRouting      bool
	DisallowHashRouting      bool
	DisallowMultiHashRouting bool
}

// Defaults returns the options in effect before any Set and after Reset.
func Defaults() RoutingOptions {
	return RoutingOptions{
		HashMode:    HashModeSingle,
		DefaultHash: hash.Path(),
	}
}

// Validate checks the HashMode/DefaultHash combination.
func (o RoutingOptions) Validate() error {
	switch o.HashMode {
	case HashModeSingle:
		if o.DefaultHash.IsNamed() {
			return rerrors.Newf(rerrors.CodeInvalidOptions,
				"Using a named hash path as the default path can only be done when 'hashMode' is set to 'multi'.")
		}
	case HashModeMulti:
		if o.DefaultHash.IsSingle() {
			return rerrors.Newf(rerrors.CodeInvalidOptions,
				"Using classic hash routing as default can only be done when 'hashMode' is set to 'single'.")
		}
	default:
		return rerrors.Newf(rerrors.CodeInvalidOptions, "Unknown hash mode %q.", string(o.HashMode)).
			WithSuggestion(`Use "single" or "multi".`)
	}
	if o.DefaultHash.IsUnset() {
		return rerrors.Newf(rerrors.CodeInvalidOptions, "The default hash must be set.")
	}
	return nil
}

// Update is a partial change to RoutingOptions. Zero fields leave the
// current value untouched.
type Update struct {
	HashMode                 HashMode
	DefaultHash              hash.Hash
	DisallowPathRouting      *bool
	DisallowHashRouting      *bool
	DisallowMultiHashRouting *bool
}

// Bool returns a pointer to b, for Update literals.
func Bool(b bool) *bool {
	return &b
}

// Apply returns o with u merged in.
func (u Update) Apply(o RoutingOptions) RoutingOptions {
	if u.HashMode != "" {
		o.HashMode = u.HashMode
	}
	if !u.DefaultHash.IsUnset() {
		o.DefaultHash = u.DefaultHash
	}
	if u.DisallowPathRouting != nil {
		o.DisallowPathRouting = *u.DisallowPathRouting
	}
	if u.DisallowHashRouting != nil {
		o.DisallowHashRouting = *u.DisallowHashRouting
	}
	if u.DisallowMultiHashRouting != nil {
		o.DisallowMultiHashRouting = *u.DisallowMultiHashRouting
	}
	return o
}

// Registry is the mutable holder of RoutingOptions.
type Registry struct {
	mu   sync.RWMutex
	opts RoutingOptions
}

// NewRegistry creates a registry holding Defaults().
func NewRegistry() *Registry {
	return &Registry{opts: Defaults()}
}

// Get returns a copy of the current options.
func (r *Registry) Get() RoutingOptions {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.opts
}

// HashMode returns the current hash mode.
func (r *Registry) HashMode() HashMode {
	return r.Get().HashMode
}

// IsMulti reports whether the registry is in multi hash mode.
func (r *Registry) IsMulti() bool {
	return r.HashMode() == HashModeMulti
}

// Set merges u into the current options. The result is validated before it
// is committed; on error the registry is unchanged.
func (r *Registry) Set(u Update) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := u.Apply(r.opts)
	if err := next.Validate(); err != nil {
		return err
	}
	r.opts = next
	return nil
}

// Reset restores Defaults().
func (r *Registry) Reset() {
	r.mu.Lock()
	r.opts = Defaults()
	r.mu.Unlock()
}

// ResolveHash substitutes Unset with the default hash.
func (r *Registry) ResolveHash(h hash.Hash) hash.Hash {
	if h.IsUnset() {
		return r.Get().DefaultHash
	}
	return h
}

// AssertAllowed fails with a routing-mode error when the universe h resolves
// to has been disallowed.
func (r *Registry) AssertAllowed(h hash.Hash) error {
	opts := r.Get()
	h = r.ResolveHash(h)

	var disallowed bool
	var name string
	switch h.Kind() {
	case hash.KindPath:
		disallowed, name = opts.DisallowPathRouting, "Path routing"
	case hash.KindSingle:
		disallowed, name = opts.DisallowHashRouting, "Hash routing"
	case hash.KindNamed:
		disallowed, name = opts.DisallowMultiHashRouting, "Multi hash routing"
	}
	if !disallowed {
		return nil
	}
	return rerrors.Newf(rerrors.CodeRoutingModeDisallowed,
		"%s has been disallowed for this application.", name).
		WithDetail(fmt.Sprintf("The hash value %s targets a routing universe disabled in the routing options.", h))
}
