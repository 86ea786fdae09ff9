package href

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/hash"
	"github.com/vango-dev/routekit/pkg/options"
	"github.com/vango-dev/routekit/pkg/query"
)

type staticView struct {
	u     *url.URL
	multi bool
}

func newView(t *testing.T, raw string, multi bool) staticView {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return staticView{u: u, multi: multi}
}

func (v staticView) URL() *url.URL { return v.u }

func (v staticView) HashPaths() hash.Paths {
	return hash.ParsePaths(v.u.EscapedFragment(), v.multi)
}

func registry(t *testing.T, u options.Update) *options.Registry {
	t.Helper()
	r := options.NewRegistry()
	require.NoError(t, r.Set(u))
	return r
}

func TestCalculateCombinesPaths(t *testing.T) {
	view := newView(t, "https://example.com/", false)
	reg := options.NewRegistry()

	tests := []struct {
		paths []string
		want  string
	}{
		{[]string{"path", "anotherPath"}, "path/anotherPath"},
		{[]string{"path?a=b", "anotherPath?c=d"}, "path/anotherPath?a=b&c=d"},
		{[]string{"path#hash", "anotherPath#hash2"}, "path/anotherPath#hash"},
		{[]string{"/path1", "/path2"}, "/path1/path2"},
		{[]string{"/q?a=1", "?a=2"}, "/q?a=1&a=2"},
	}
	for _, tt := range tests {
		got, err := Calculate(view, reg, Options{}, tt.paths...)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestCalculateUniverses(t *testing.T) {
	t.Run("path", func(t *testing.T) {
		view := newView(t, "https://example.com/base/path#base/hash", false)
		reg := options.NewRegistry()

		got, err := Calculate(view, reg, Options{Hash: hash.Path()}, "/sample/path")
		require.NoError(t, err)
		assert.Equal(t, "/sample/path", got)

		got, err = Calculate(view, reg, Options{Hash: hash.Path(), PreserveHash: true}, "/sample/path")
		require.NoError(t, err)
		assert.Equal(t, "/sample/path#base/hash", got)

		got, err = Calculate(view, reg, Options{}, "/sample/path")
		require.NoError(t, err)
		assert.Equal(t, "/sample/path", got, "implicit path routing")
	})

	t.Run("single", func(t *testing.T) {
		view := newView(t, "https://example.com/base/path#base/hash", false)
		reg := registry(t, options.Update{DefaultHash: hash.Single()})

		got, err := Calculate(view, reg, Options{Hash: hash.Single(), PreserveHash: true}, "/sample/path")
		require.NoError(t, err)
		assert.Equal(t, "#/sample/path", got)

		got, err = Calculate(view, reg, Options{}, "/sample/path")
		require.NoError(t, err)
		assert.Equal(t, "#/sample/path", got, "implicit single hash")
	})

	t.Run("multi", func(t *testing.T) {
		view := newView(t, "https://example.com/base/path#p1=path/one;p2=path/two", true)
		reg := registry(t, options.Update{HashMode: options.HashModeMulti, DefaultHash: hash.Named("p1")})

		got, err := Calculate(view, reg, Options{Hash: hash.Named("p1")}, "/sample/path")
		require.NoError(t, err)
		assert.Equal(t, "#p1=/sample/path;p2=path/two", got)

		got, err = Calculate(view, reg, Options{}, "/sample/path")
		require.NoError(t, err)
		assert.Equal(t, "#p1=/sample/path;p2=path/two", got, "implicit multi hash")

		got, err = Calculate(view, reg, Options{Hash: hash.Named("p3")}, "/path1", "/path2")
		require.NoError(t, err)
		assert.Equal(t, "#p1=path/one;p2=path/two;p3=/path1/path2", got)

		got, err = Calculate(view, reg, Options{Hash: hash.Path(), PreserveHash: true}, "/sample/path")
		require.NoError(t, err)
		assert.Equal(t, "/sample/path#p1=path/one;p2=path/two", got)
	})
}

func TestCalculatePreserveQuery(t *testing.T) {
	tests := []struct {
		name string
		h    hash.Hash
		reg  options.Update
		want string
	}{
		{"path", hash.Path(), options.Update{}, "/sample/path?a=b&c=d"},
		{"single", hash.Single(), options.Update{}, "?a=b&c=d#/sample/path"},
		{"multi", hash.Named("p1"), options.Update{HashMode: options.HashModeMulti}, "?a=b&c=d#p1=/sample/path;p2=path/two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			multi := tt.reg.HashMode == options.HashModeMulti
			frag := "#base/hash"
			if multi {
				frag = "#p1=path/one;p2=path/two"
			}
			view := newView(t, "https://example.com/base/path?a=b&c=d"+frag, multi)
			reg := registry(t, tt.reg)

			got, err := Calculate(view, reg, Options{Hash: tt.h, PreserveQuery: query.PreserveAll()}, "/sample/path")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			got, err = Calculate(view, reg, Options{Hash: tt.h, PreserveQuery: query.PreserveKeys("c")}, "/sample/path")
			require.NoError(t, err)
			assert.Contains(t, got, "?c=d")
			assert.NotContains(t, got, "a=b")
		})
	}
}

func TestCalculateRejectsAbsolute(t *testing.T) {
	view := newView(t, "https://example.com/", false)
	reg := options.NewRegistry()

	for _, paths := range [][]string{
		{"http://example.com/path"},
		{"https://example.com/path"},
		{"ftp://example.com/path"},
		{"//example.com/path"},
		{"custom-protocol://example.com/path"},
		{"/valid/path", "https://example.com/invalid", "/another/valid"},
	} {
		_, err := Calculate(view, reg, Options{}, paths...)
		require.Error(t, err)
		assert.ErrorIs(t, err, rerrors.ErrValidation)
	}

	_, err := Calculate(view, reg, Options{}, "/valid/path", "https://example.com/invalid")
	var re *rerrors.RouteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, `HREF cannot contain protocol, host, or port. Received: "https://example.com/invalid"`, re.Message)

	_, err = Calculate(view, reg, Options{}, "/path", "relative/path", "../other/path")
	assert.NoError(t, err)
	_, err = Calculate(view, reg, Options{}, "/http-endpoint", "/https-folder")
	assert.NoError(t, err)
}

func TestCalculateMultiHashFragment(t *testing.T) {
	existing := hash.ParsePaths("p1=/existing/path;p2=/another/path", true)

	tests := []struct {
		name    string
		updates []hash.PathEntry
		want    string
	}{
		{"update in place", []hash.PathEntry{{ID: "p1", Path: "/new"}}, "p1=/new;p2=/another/path"},
		{"remove", []hash.PathEntry{{ID: "p1", Path: ""}}, "p2=/another/path"},
		{"append", []hash.PathEntry{{ID: "p3", Path: "/x"}, {ID: "p4", Path: "/y"}}, "p1=/existing/path;p2=/another/path;p3=/x;p4=/y"},
		{"empty new id ignored", []hash.PathEntry{{ID: "p3", Path: ""}}, "p1=/existing/path;p2=/another/path"},
		{"no updates", nil, "p1=/existing/path;p2=/another/path"},
		{"remove all", []hash.PathEntry{{ID: "p1"}, {ID: "p2"}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateMultiHashFragment(existing, tt.updates...))
		})
	}
}

func TestCalculateMultiHashFragmentIdempotent(t *testing.T) {
	existing := hash.ParsePaths("a=/1;b=/2", true)
	updates := []hash.PathEntry{{ID: "b", Path: "/3"}, {ID: "c", Path: "/4"}}

	once := CalculateMultiHashFragment(existing, updates...)
	twice := CalculateMultiHashFragment(hash.ParsePaths(once, true), updates...)
	assert.Equal(t, once, twice)
	assert.Equal(t, "a=/1;b=/3;c=/4", once)
}
