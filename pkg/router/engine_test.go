package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/hash"
	"github.com/vango-dev/routekit/pkg/kernel"
	"github.com/vango-dev/routekit/pkg/location"
	"github.com/vango-dev/routekit/pkg/options"
	"github.com/vango-dev/routekit/pkg/pattern"
	"github.com/vango-dev/routekit/pkg/reactive"
)

func mustEngine(t *testing.T, k *kernel.Kernel, opts Options) *Engine {
	t.Helper()
	e, err := New(k, opts)
	require.NoError(t, err)
	t.Cleanup(e.Dispose)
	return e
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var re *rerrors.RouteError
	require.ErrorAs(t, err, &re)
	return re.Code
}

func TestNewRequiresKernel(t *testing.T) {
	_, err := New(nil, Options{})
	require.Error(t, err)
	assert.Equal(t, rerrors.CodeNotInitialized, codeOf(t, err))

	k := setup(t, "http://example.com/", setupOptions{})
	e := mustEngine(t, k, Options{})
	assert.True(t, e.ResolvedHash().IsPath())
}

func TestNewHashResolution(t *testing.T) {
	t.Run("default hash", func(t *testing.T) {
		k := setup(t, "http://example.com/", setupOptions{routing: options.Update{DefaultHash: hash.Single()}})
		e := mustEngine(t, k, Options{})
		assert.Equal(t, hash.Single(), e.ResolvedHash())
	})

	t.Run("inherits parent", func(t *testing.T) {
		k := setup(t, "http://example.com/", multi)
		parent := mustEngine(t, k, Options{Hash: hash.Named("p1")})
		child := mustEngine(t, k, Options{Parent: parent})
		assert.Equal(t, hash.Named("p1"), child.ResolvedHash())
		assert.Same(t, parent, child.Parent())
	})

	t.Run("parent mismatch", func(t *testing.T) {
		k := setup(t, "http://example.com/", setupOptions{})
		parent := mustEngine(t, k, Options{})
		_, err := New(k, Options{Parent: parent, Hash: hash.Single()})
		require.Error(t, err)
		assert.Equal(t, rerrors.CodeHashMismatch, codeOf(t, err))
	})

	t.Run("single hash in multi mode", func(t *testing.T) {
		k := setup(t, "http://example.com/", multi)
		_, err := New(k, Options{Hash: hash.Single()})
		require.Error(t, err)
		assert.Equal(t, rerrors.CodeInvalidHash, codeOf(t, err))
		assert.ErrorIs(t, err, rerrors.ErrConfig)
	})

	t.Run("named hash in single mode", func(t *testing.T) {
		k := setup(t, "http://example.com/", setupOptions{})
		_, err := New(k, Options{Hash: hash.Named("p1")})
		require.Error(t, err)
		assert.Equal(t, rerrors.CodeInvalidHash, codeOf(t, err))
	})

	t.Run("disallowed universe", func(t *testing.T) {
		k := setup(t, "http://example.com/", setupOptions{routing: options.Update{
			DisallowHashRouting: options.Bool(true),
		}})
		_, err := New(k, Options{Hash: hash.Single()})
		require.Error(t, err)
		assert.ErrorIs(t, err, rerrors.ErrRoutingMode)

		parent := mustEngine(t, k, Options{})
		_, err = NewChild(parent)
		assert.NoError(t, err)
	})
}

func TestNewChild(t *testing.T) {
	k := setup(t, "http://example.com/", setupOptions{routing: options.Update{DefaultHash: hash.Single()}})
	parent := mustEngine(t, k, Options{})
	parent.SetBasePath("/admin")

	child, err := NewChild(parent)
	require.NoError(t, err)
	defer child.Dispose()

	assert.Equal(t, hash.Single(), child.ResolvedHash())
	assert.Equal(t, "/admin", child.BasePath())

	child.SetBasePath("/users")
	assert.Equal(t, "/admin/users", child.BasePath())

	parent.SetBasePath("/root")
	assert.Equal(t, "/root/users", child.BasePath())

	_, err = NewChild(nil)
	assert.Error(t, err)
}

func TestBasePath(t *testing.T) {
	k := setup(t, "http://example.com/", setupOptions{})
	e := mustEngine(t, k, Options{})
	assert.Equal(t, "/", e.BasePath())

	e.SetBasePath("/app/")
	assert.Equal(t, "/app", e.BasePath())

	e.SetBasePath("")
	assert.Equal(t, "/", e.BasePath())
}

func TestRouteStatus(t *testing.T) {
	k := setup(t, "http://example.com/user/42", setupOptions{})
	e := mustEngine(t, k, Options{})

	require.NoError(t, e.SetRoutes(map[string]pattern.RouteInfo{
		"user":  {Path: "/user/:id"},
		"about": {Path: "/about"},
	}))
	require.NoError(t, e.SetRoute("layout", pattern.RouteInfo{IgnoreForFallback: true}))

	status := e.RouteStatus()
	require.Len(t, status, 3)
	assert.Equal(t, RouteStatus{Match: true, Params: pattern.Params{"id": float64(42)}}, status["user"])
	assert.False(t, status["about"].Match)
	assert.True(t, status["layout"].Match)
	assert.False(t, e.Fallback())

	require.NoError(t, k.Location.Navigate("/nowhere", location.NavigateOptions{}))
	assert.False(t, e.RouteStatus()["user"].Match)
	assert.True(t, e.RouteStatus()["layout"].Match)
	assert.True(t, e.Fallback(), "ignored routes do not prevent fallback")

	require.NoError(t, k.Location.Navigate("/about", location.NavigateOptions{}))
	assert.True(t, e.RouteStatus()["about"].Match)
	assert.False(t, e.Fallback())

	e.RemoveRoute("about")
	assert.NotContains(t, e.RouteStatus(), "about")
	assert.True(t, e.Fallback())
	assert.Equal(t, []string{"user", "layout"}, e.RouteNames())
}

func TestNoRoutesIsFallback(t *testing.T) {
	k := setup(t, "http://example.com/", setupOptions{})
	e := mustEngine(t, k, Options{})
	assert.Empty(t, e.RouteStatus())
	assert.True(t, e.Fallback())
}

func TestRouteStatusWithBasePath(t *testing.T) {
	k := setup(t, "http://example.com/app/user/7", setupOptions{})
	e := mustEngine(t, k, Options{})
	require.NoError(t, e.SetRoute("user", pattern.RouteInfo{Path: "/user/:id"}))
	assert.False(t, e.RouteStatus()["user"].Match)

	e.SetBasePath("/app")
	assert.True(t, e.RouteStatus()["user"].Match)
}

func TestRouteStatusHashUniverses(t *testing.T) {
	k := setup(t, "http://example.com/path#main=/a;side=/b", multi)
	main := mustEngine(t, k, Options{Hash: hash.Named("main")})
	side := mustEngine(t, k, Options{Hash: hash.Named("side")})
	path := mustEngine(t, k, Options{})

	require.NoError(t, main.SetRoute("a", pattern.RouteInfo{Path: "/a"}))
	require.NoError(t, side.SetRoute("a", pattern.RouteInfo{Path: "/a"}))
	require.NoError(t, path.SetRoute("a", pattern.RouteInfo{Path: "/a"}))

	assert.True(t, main.RouteStatus()["a"].Match)
	assert.False(t, side.RouteStatus()["a"].Match)
	assert.False(t, path.RouteStatus()["a"].Match)
	assert.Equal(t, "/b", side.TestPath())
	assert.Equal(t, "/path", path.TestPath())
}

func TestSetRouteRejectsInvalidPattern(t *testing.T) {
	k := setup(t, "http://example.com/", setupOptions{})
	e := mustEngine(t, k, Options{})
	require.NoError(t, e.SetRoute("ok", pattern.RouteInfo{Path: "/ok"}))

	err := e.SetRoute("bad", pattern.RouteInfo{Path: "/a/**"})
	require.Error(t, err)
	assert.ErrorIs(t, err, rerrors.ErrValidation)

	err = e.SetRoutes(map[string]pattern.RouteInfo{
		"fine": {Path: "/fine"},
		"bad":  {Path: "/a/**"},
	})
	require.Error(t, err)
	assert.Equal(t, []string{"ok"}, e.RouteNames())
}

func TestRouteStatusIsReactive(t *testing.T) {
	k := setup(t, "http://example.com/", setupOptions{})
	e := mustEngine(t, k, Options{})
	require.NoError(t, e.SetRoute("home", pattern.RouteInfo{Path: "/"}))

	var seen []bool
	eff := reactive.CreateEffect(func() reactive.Cleanup {
		seen = append(seen, e.RouteStatus()["home"].Match)
		return nil
	})
	defer eff.Dispose()

	require.NoError(t, k.Location.Navigate("/elsewhere", location.NavigateOptions{}))
	require.NoError(t, e.SetRoute("other", pattern.RouteInfo{Path: "/elsewhere"}))
	assert.Equal(t, []bool{true, false, false}, seen)
}

func TestEngineShortcuts(t *testing.T) {
	k := setup(t, "http://example.com/start", setupOptions{})
	e := mustEngine(t, k, Options{})

	require.NoError(t, k.Location.Navigate("/next", location.NavigateOptions{State: "payload"}))
	assert.Equal(t, "/next", e.URL().Path)
	assert.Equal(t, "payload", e.State())

	e.SetID("main")
	assert.Equal(t, "main", e.ID())
}

func TestTraceRegistration(t *testing.T) {
	k := setup(t, "http://example.com/", setupOptions{trace: true})
	parent, err := New(k, Options{})
	require.NoError(t, err)
	parent.SetID("root")
	child, err := NewChild(parent)
	require.NoError(t, err)
	child.SetBasePath("/nested")

	assert.Equal(t, 2, k.Trace.Len())
	tree := k.Trace.Tree()
	require.Len(t, tree, 1)
	assert.Equal(t, "root", tree[0].ID)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "/nested", tree[0].Children[0].BasePath)

	child.Dispose()
	child.Dispose()
	assert.True(t, child.Disposed())
	assert.Equal(t, 1, k.Trace.Len())

	parent.Dispose()
	assert.Zero(t, k.Trace.Len())
}

func TestNoTraceByDefault(t *testing.T) {
	k := setup(t, "http://example.com/", setupOptions{})
	mustEngine(t, k, Options{})
	assert.Zero(t, k.Trace.Len())
}

func TestNewAfterTeardown(t *testing.T) {
	reg := options.NewRegistry()
	hist, err := location.NewMemoryHistory("http://example.com/")
	require.NoError(t, err)
	loc, err := location.NewLite(hist, reg)
	require.NoError(t, err)
	teardown, err := kernel.InitCore(loc, reg, kernel.InitOptions{})
	require.NoError(t, err)
	k := kernel.Active()
	teardown()

	_, err = New(k, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, rerrors.ErrLifecycle)
}
