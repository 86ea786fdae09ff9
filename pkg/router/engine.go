package router

import (
	"log/slog"
	"maps"
	"net/url"
	"slices"
	"sync/atomic"

	rerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/hash"
	"github.com/vango-dev/routekit/pkg/kernel"
	"github.com/vango-dev/routekit/pkg/options"
	"github.com/vango-dev/routekit/pkg/pattern"
	"github.com/vango-dev/routekit/pkg/reactive"
	"github.com/vango-dev/routekit/pkg/routepath"
)

// Options configures New.
type Options struct {
	// Parent is the enclosing router, if any.
	Parent *Engine

	// Hash selects the routing universe. Unset inherits the parent's
	// universe or, for root routers, uses the default hash.
	Hash hash.Hash
}

// RouteStatus is the match result of one route.
type RouteStatus struct {
	Match  bool           `json:"match"`
	Params pattern.Params `json:"params,omitempty"`
}

type routeTable struct {
	order  []string
	byName map[string]pattern.RouteInfo
}

func (t routeTable) with(name string, info pattern.RouteInfo) routeTable {
	next := routeTable{order: t.order, byName: maps.Clone(t.byName)}
	if next.byName == nil {
		next.byName = make(map[string]pattern.RouteInfo)
	}
	if _, ok := next.byName[name]; !ok {
		next.order = append(slices.Clip(t.order), name)
	}
	next.byName[name] = info
	return next
}

func (t routeTable) without(name string) routeTable {
	if _, ok := t.byName[name]; !ok {
		return t
	}
	next := routeTable{byName: maps.Clone(t.byName)}
	delete(next.byName, name)
	next.order = slices.DeleteFunc(slices.Clone(t.order), func(n string) bool { return n == name })
	return next
}

type compiledRoute struct {
	name     string
	compiled pattern.Compiled
	err      error
}

type statusData struct {
	status   map[string]RouteStatus
	fallback bool
}

// Engine holds a router's routes and derives their status from the
// current location.
type Engine struct {
	k            *kernel.Kernel
	parent       *Engine
	resolvedHash hash.Hash
	helper       *RouteHelper
	cache        *pattern.Cache

	id       *reactive.Signal[string]
	routes   *reactive.Signal[routeTable]
	basePath *reactive.Signal[string]

	fullBasePath *reactive.Memo[string]
	patterns     *reactive.Memo[[]compiledRoute]
	status       *reactive.Memo[statusData]

	owner       *reactive.Owner
	traceHandle string
	disposed    atomic.Bool
}

// New creates a router. The library must be initialized.
func New(k *kernel.Kernel, opts Options) (*Engine, error) {
	if k == nil || !k.Alive() {
		return nil, rerrors.New(rerrors.CodeNotInitialized)
	}

	parent := opts.Parent
	var resolved hash.Hash
	if parent != nil && opts.Hash.IsUnset() {
		resolved = parent.resolvedHash
	} else {
		resolved = k.Options.ResolveHash(opts.Hash)
	}

	if parent != nil && resolved != parent.resolvedHash {
		return nil, rerrors.New(rerrors.CodeHashMismatch)
	}
	multi := k.Options.HashMode() == options.HashModeMulti
	if multi && resolved.IsSingle() {
		return nil, rerrors.New(rerrors.CodeInvalidHash).WithDetail(
			"The specified hash value is not valid for the 'multi' hash mode. " +
				"Either don't specify a hash for path routing, or correct the hash value.")
	}
	if !multi && resolved.IsNamed() {
		return nil, rerrors.New(rerrors.CodeInvalidHash).WithDetail(
			"A hash path ID was given, but is only allowed when the library's hash mode has been set to 'multi'.")
	}

	return newEngine(k, parent, resolved)
}

// NewChild creates a router nested in parent that shares its universe.
func NewChild(parent *Engine) (*Engine, error) {
	if parent == nil {
		return nil, rerrors.New(rerrors.CodeNotInitialized).WithDetail("A parent router is required.")
	}
	if !parent.k.Alive() {
		return nil, rerrors.New(rerrors.CodeNotInitialized)
	}
	return newEngine(parent.k, parent, parent.resolvedHash)
}

func newEngine(k *kernel.Kernel, parent *Engine, resolved hash.Hash) (*Engine, error) {
	if err := k.Options.AssertAllowed(resolved); err != nil {
		return nil, err
	}

	e := &Engine{
		k:            k,
		parent:       parent,
		resolvedHash: resolved,
		helper:       NewRouteHelper(k.Location, resolved),
		cache:        pattern.NewCache(),
		id:           reactive.NewSignal(""),
		routes:       reactive.NewSignal(routeTable{}).WithEquals(func(a, b routeTable) bool { return false }),
		basePath:     reactive.NewSignal("/"),
		owner:        reactive.NewOwner(nil),
	}
	e.owner.OnCleanup(e.helper.Dispose)

	e.fullBasePath = reactive.NewMemo(func() string {
		parentBase := "/"
		if e.parent != nil {
			parentBase = e.parent.BasePath()
		}
		return routepath.JoinPaths(parentBase, e.basePath.Get())
	})

	e.patterns = reactive.NewMemo(func() []compiledRoute {
		table := e.routes.Get()
		base := e.fullBasePath.Get()
		e.cache.Prune(table.byName)

		out := make([]compiledRoute, 0, len(table.order))
		for _, name := range table.order {
			c, err := e.cache.Get(name, table.byName[name], base)
			if err != nil {
				e.logger().Error("router: route pattern does not compile",
					"router", e.id.Peek(), "route", name, "base_path", base, "error", err)
			}
			out = append(out, compiledRoute{name: name, compiled: c, err: err})
		}
		return out
	})

	e.status = reactive.NewMemo(func() statusData {
		patterns := e.patterns.Get()
		testPath := e.helper.TestPath()

		data := statusData{status: make(map[string]RouteStatus, len(patterns)), fallback: true}
		for _, p := range patterns {
			var st RouteStatus
			if p.err == nil {
				st.Match, st.Params = p.compiled.Test(testPath)
			}
			data.status[p.name] = st
			if st.Match && !p.compiled.IgnoreForFallback {
				data.fallback = false
			}
		}
		return data
	})

	e.owner.OnCleanup(e.fullBasePath.Dispose)
	e.owner.OnCleanup(e.patterns.Dispose)
	e.owner.OnCleanup(e.status.Dispose)

	if k.TraceOptions().RouterHierarchy {
		parentHandle := ""
		if parent != nil {
			parentHandle = parent.traceHandle
		}
		handle := k.Trace.Register(e, parentHandle)
		e.traceHandle = handle
		e.owner.OnCleanup(func() { k.Trace.Unregister(handle) })
	}

	e.logger().Debug("router: created",
		"hash", resolved.String(),
		"nested", parent != nil,
		"traced", e.traceHandle != "",
	)
	return e, nil
}

func (e *Engine) logger() *slog.Logger {
	return e.k.Logger()
}

// ID returns the router's identifier. Reactive.
func (e *Engine) ID() string {
	return e.id.Get()
}

// SetID sets the router's identifier, used by tracing.
func (e *Engine) SetID(id string) {
	e.id.Set(id)
}

// ResolvedHash returns the routing universe of the router.
func (e *Engine) ResolvedHash() hash.Hash {
	return e.resolvedHash
}

// Parent returns the enclosing router, or nil.
func (e *Engine) Parent() *Engine {
	return e.parent
}

// URL returns the current URL. Reactive.
func (e *Engine) URL() *url.URL {
	return e.k.Location.URL()
}

// State returns the history state of the router's universe.
func (e *Engine) State() any {
	return e.k.Location.GetState(e.resolvedHash)
}

// TestPath returns the path routes are matched against. Reactive.
func (e *Engine) TestPath() string {
	return e.helper.TestPath()
}

// BasePath returns the router's base path joined to its parent's. Reactive.
func (e *Engine) BasePath() string {
	return e.fullBasePath.Get()
}

// SetBasePath sets the router's own base path. "" means "/".
func (e *Engine) SetBasePath(p string) {
	if p == "" {
		p = "/"
	}
	e.basePath.Set(p)
}

// SetRoute adds or replaces the route called name. The pattern is
// compiled first; an invalid pattern leaves the routes unchanged.
func (e *Engine) SetRoute(name string, info pattern.RouteInfo) error {
	if _, err := pattern.Compile(info, reactive.UntrackedGet(e.BasePath)); err != nil {
		return err
	}
	e.routes.Set(e.routes.Peek().with(name, info))
	return nil
}

// SetRoutes adds or replaces several routes at once. Nothing is applied
// when any pattern is invalid.
func (e *Engine) SetRoutes(routes map[string]pattern.RouteInfo) error {
	base := reactive.UntrackedGet(e.BasePath)
	names := slices.Sorted(maps.Keys(routes))
	for _, name := range names {
		if _, err := pattern.Compile(routes[name], base); err != nil {
			return err
		}
	}
	table := e.routes.Peek()
	for _, name := range names {
		table = table.with(name, routes[name])
	}
	e.routes.Set(table)
	return nil
}

// RemoveRoute deletes the route called name.
func (e *Engine) RemoveRoute(name string) {
	e.routes.Set(e.routes.Peek().without(name))
}

// Routes returns a copy of the route definitions. Reactive.
func (e *Engine) Routes() map[string]pattern.RouteInfo {
	return maps.Clone(e.routes.Get().byName)
}

// RouteNames returns the route names in insertion order. Reactive.
func (e *Engine) RouteNames() []string {
	return slices.Clone(e.routes.Get().order)
}

// RouteStatus returns the status of every route, keyed by name. Reactive.
func (e *Engine) RouteStatus() map[string]RouteStatus {
	return maps.Clone(e.status.Get().status)
}

// Fallback reports whether no route other than those flagged
// IgnoreForFallback matches. Reactive.
func (e *Engine) Fallback() bool {
	return e.status.Get().fallback
}

// Disposed reports whether Dispose has been called.
func (e *Engine) Disposed() bool {
	return e.disposed.Load()
}

// Dispose unregisters the router from the trace registry and detaches
// its derived values from the location. It is idempotent.
func (e *Engine) Dispose() {
	if e.disposed.Swap(true) {
		return
	}
	e.owner.Dispose()
}

var _ kernel.Traceable = (*Engine)(nil)
