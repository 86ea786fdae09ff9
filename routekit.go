// Package routekit provides the public API of the routekit routing kernel.
//
// This is the recommended import for most applications:
//
//	import "github.com/vango-dev/routekit"
//
// Usage:
//
//	teardown, err := routekit.Init(routekit.InitOptions{})
//	defer teardown()
//
//	r, err := routekit.NewRouter(routekit.RouterOptions{})
//	r.SetRoute("user", routekit.RouteInfo{Path: "/user/:id"})
//	status := r.RouteStatus()["user"]
//
//	link, err := routekit.CalculateHref(routekit.HrefOptions{Hash: routekit.HashSingle()}, "/settings")
package routekit

import (
	rerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/hash"
	"github.com/vango-dev/routekit/pkg/href"
	"github.com/vango-dev/routekit/pkg/kernel"
	"github.com/vango-dev/routekit/pkg/location"
	"github.com/vango-dev/routekit/pkg/options"
	"github.com/vango-dev/routekit/pkg/pattern"
	"github.com/vango-dev/routekit/pkg/query"
	"github.com/vango-dev/routekit/pkg/redirect"
	"github.com/vango-dev/routekit/pkg/router"
)

// =============================================================================
// Routing universes
// =============================================================================

// Hash selects a routing universe. The zero value uses the default hash.
type Hash = hash.Hash

// PathEntry is one id/path pair of a multi-hash fragment.
type PathEntry = hash.PathEntry

// HashPaths maps hash ids to sub-paths in fragment order.
type HashPaths = hash.Paths

var (
	// HashPath selects path routing.
	HashPath = hash.Path
	// HashSingle selects single hash routing.
	HashSingle = hash.Single
	// HashNamed selects the named hash path id of multi hash routing.
	HashNamed = hash.Named
	// HashFrom converts nil, a bool or a string.
	HashFrom = hash.FromValue
)

// =============================================================================
// Options
// =============================================================================

// RoutingOptions are the library-wide routing options.
type RoutingOptions = options.RoutingOptions

// OptionsUpdate is a partial change to RoutingOptions.
type OptionsUpdate = options.Update

// HashMode selects how the URL fragment is interpreted.
type HashMode = options.HashMode

const (
	HashModeSingle = options.HashModeSingle
	HashModeMulti  = options.HashModeMulti
)

// Bool returns a pointer to b, for OptionsUpdate literals.
var Bool = options.Bool

// Options returns the routing options in effect. Before Init these are the
// defaults.
func Options() RoutingOptions {
	if k := kernel.Active(); k != nil {
		return k.Options.Get()
	}
	return options.Defaults()
}

// =============================================================================
// Location
// =============================================================================

type (
	Location        = location.Location
	HistoryAPI      = location.HistoryAPI
	MemoryHistory   = location.MemoryHistory
	State           = location.State
	Navigation      = location.Navigation
	Middleware      = location.Middleware
	MiddlewareFunc  = location.MiddlewareFunc
	NavigateOptions = location.NavigateOptions
	GoToOptions     = location.GoToOptions
)

// NewMemoryHistory creates an in-memory history positioned at initial.
var NewMemoryHistory = location.NewMemoryHistory

// CurrentLocation returns the location of the initialized kernel.
func CurrentLocation() (Location, error) {
	k, err := kernel.Require()
	if err != nil {
		return nil, err
	}
	return k.Location, nil
}

// =============================================================================
// Routes and routers
// =============================================================================

type (
	RouteInfo     = pattern.RouteInfo
	Params        = pattern.Params
	Router        = router.Engine
	RouterOptions = router.Options
	RouteStatus   = router.RouteStatus
)

// NewRouter creates a router on the initialized kernel.
func NewRouter(opts RouterOptions) (*Router, error) {
	k, err := kernel.Require()
	if err != nil {
		return nil, err
	}
	return router.New(k, opts)
}

// NewChildRouter creates a router nested in parent.
var NewChildRouter = router.NewChild

// =============================================================================
// Redirects
// =============================================================================

type (
	Redirector        = redirect.Redirector
	Redirection       = redirect.Redirection
	RedirectOptions   = redirect.RedirectOptions
	RedirectorOptions = redirect.Options
)

// NewRedirector creates a redirector on the initialized kernel.
func NewRedirector(opts RedirectorOptions) (*Redirector, error) {
	k, err := kernel.Require()
	if err != nil {
		return nil, err
	}
	return redirect.New(k, opts)
}

// =============================================================================
// Hrefs
// =============================================================================

// HrefOptions controls CalculateHref.
type HrefOptions = href.Options

// PreserveQuery selects query parameters carried over from the current URL.
type PreserveQuery = query.Preserve

var (
	PreserveAll  = query.PreserveAll
	PreserveNone = query.PreserveNone
	PreserveKeys = query.PreserveKeys
)

// CalculateHref joins paths into an href for the universe selected by opts,
// relative to the current location.
func CalculateHref(opts HrefOptions, paths ...string) (string, error) {
	k, err := kernel.Require()
	if err != nil {
		return "", err
	}
	return href.Calculate(k.Location, k.Options, opts, paths...)
}

// JoinHref is CalculateHref with default options.
func JoinHref(paths ...string) (string, error) {
	return CalculateHref(HrefOptions{}, paths...)
}

// CalculateMultiHashFragment applies updates to a multi-hash fragment.
var CalculateMultiHashFragment = href.CalculateMultiHashFragment

// =============================================================================
// Errors
// =============================================================================

// RouteError is the structured error returned by every package.
type RouteError = rerrors.RouteError

var (
	ErrConfig      = rerrors.ErrConfig
	ErrLifecycle   = rerrors.ErrLifecycle
	ErrValidation  = rerrors.ErrValidation
	ErrUnsupported = rerrors.ErrUnsupported
	ErrRoutingMode = rerrors.ErrRoutingMode
)
