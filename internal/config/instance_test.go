package config

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/routekit/pkg/kernel"
	"github.com/vango-dev/routekit/pkg/location"
	"github.com/vango-dev/routekit/pkg/options"
)

func initFromConfig(t *testing.T, cfg *Config) *kernel.Kernel {
	t.Helper()
	reg := options.NewRegistry()
	hist, err := location.NewMemoryHistory(cfg.URL)
	require.NoError(t, err)
	loc, err := location.NewLite(hist, reg)
	require.NoError(t, err)
	teardown, err := kernel.InitCore(loc, reg, kernel.InitOptions{
		Routing: cfg.RoutingUpdate(),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Trace:   kernel.TraceOptions{RouterHierarchy: cfg.Trace.RouterHierarchy},
	})
	if err != nil {
		loc.Dispose()
	}
	require.NoError(t, err)
	t.Cleanup(teardown)
	return kernel.Active()
}

func TestInstantiate(t *testing.T) {
	cfg, err := Parse([]byte(`
url: http://example.com/old-user/5?tab=info&x=1
trace:
  routerHierarchy: true
routers:
  - id: main
    routes:
      - {name: user, path: /user/:id}
  - id: nested
    parent: main
    basePath: /user
    routes:
      - {name: detail, path: /:id}
redirectors:
  - parent: main
    rules:
      - path: /old-user/:id
        href: /user/{{.id}}
        options:
          preserveQuery: tab
`))
	require.NoError(t, err)
	k := initFromConfig(t, cfg)

	inst, err := cfg.Instantiate(k)
	require.NoError(t, err)
	defer inst.Dispose()

	require.Len(t, inst.Routers, 2)
	assert.Equal(t, "/user", inst.ByID["nested"].BasePath())
	assert.Same(t, inst.ByID["main"], inst.ByID["nested"].Parent())

	assert.Equal(t, "/user/5", k.Location.Path())
	assert.Equal(t, "tab=info", k.Location.URL().RawQuery)
	assert.True(t, inst.ByID["main"].RouteStatus()["user"].Match)
	assert.True(t, inst.ByID["nested"].RouteStatus()["detail"].Match)

	require.Len(t, k.Trace.Tree(), 1)
	assert.Len(t, k.Trace.Tree()[0].Children, 1)
}

func TestInstantiateRollsBack(t *testing.T) {
	cfg, err := Parse([]byte(`
routers:
  - id: a
  - id: b
    hash: other
`))
	require.NoError(t, err)
	k := initFromConfig(t, &Config{URL: DefaultURL, Trace: TraceConfig{RouterHierarchy: true}})

	inst, err := cfg.Instantiate(k)
	require.Error(t, err)
	assert.Nil(t, inst)
	assert.Zero(t, k.Trace.Len(), "routers created before the failure are disposed")
}
