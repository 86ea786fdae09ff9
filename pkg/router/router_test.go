package router

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vango-dev/routekit/pkg/kernel"
	"github.com/vango-dev/routekit/pkg/location"
	"github.com/vango-dev/routekit/pkg/options"
)

type setupOptions struct {
	routing options.Update
	trace   bool
}

func setup(t *testing.T, initial string, opts setupOptions) *kernel.Kernel {
	t.Helper()
	reg := options.NewRegistry()
	hist, err := location.NewMemoryHistory(initial)
	require.NoError(t, err)
	loc, err := location.NewLite(hist, reg)
	require.NoError(t, err)
	teardown, err := kernel.InitCore(loc, reg, kernel.InitOptions{
		Routing: opts.routing,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Trace:   kernel.TraceOptions{RouterHierarchy: opts.trace},
	})
	if err != nil {
		loc.Dispose()
	}
	require.NoError(t, err)
	t.Cleanup(teardown)
	return kernel.Active()
}

var multi = setupOptions{routing: options.Update{HashMode: options.HashModeMulti}}
