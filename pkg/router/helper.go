package router

import (
	"github.com/vango-dev/routekit/pkg/hash"
	"github.com/vango-dev/routekit/pkg/location"
	"github.com/vango-dev/routekit/pkg/pattern"
	"github.com/vango-dev/routekit/pkg/reactive"
	"github.com/vango-dev/routekit/pkg/routepath"
)

// RouteHelper parses route patterns and tests them against the path of
// one routing universe.
type RouteHelper struct {
	hash     hash.Hash
	testPath *reactive.Memo[string]
}

// NewRouteHelper creates a helper for the universe h designates. h must
// already be resolved: Unset and Path both select path routing.
func NewRouteHelper(loc location.Location, h hash.Hash) *RouteHelper {
	rh := &RouteHelper{hash: h}
	rh.testPath = reactive.NewMemo(func() string {
		if !h.IsHashRouting() {
			return routepath.NoTrailingSlash(loc.Path())
		}
		p, _ := loc.HashPaths().Get(h.ID())
		if p == "" {
			p = "/"
		}
		return routepath.NoTrailingSlash(p)
	})
	return rh
}

// Hash returns the universe the helper tests.
func (rh *RouteHelper) Hash() hash.Hash {
	return rh.hash
}

// TestPath returns the path routes are matched against. Reactive.
func (rh *RouteHelper) TestPath() string {
	return rh.testPath.Get()
}

// ParseRoutePattern compiles info relative to basePath.
func (rh *RouteHelper) ParseRoutePattern(info pattern.RouteInfo, basePath string) (pattern.Compiled, error) {
	return pattern.Compile(info, basePath)
}

// TestRoute matches c against the test path. The And predicate runs only
// when the pattern matched.
func (rh *RouteHelper) TestRoute(c pattern.Compiled) (bool, pattern.Params) {
	return c.Test(rh.TestPath())
}

// Dispose detaches the helper from the location.
func (rh *RouteHelper) Dispose() {
	rh.testPath.Dispose()
}
