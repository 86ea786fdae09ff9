package kernel

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/hash"
	"github.com/vango-dev/routekit/pkg/location"
	"github.com/vango-dev/routekit/pkg/options"
)

func newLocation(t *testing.T, reg *options.Registry) location.Location {
	t.Helper()
	h, err := location.NewMemoryHistory("http://example.com/")
	require.NoError(t, err)
	loc, err := location.NewLite(h, reg)
	require.NoError(t, err)
	return loc
}

func initKernel(t *testing.T, opts InitOptions) (*Kernel, func()) {
	t.Helper()
	reg := options.NewRegistry()
	teardown, err := InitCore(newLocation(t, reg), reg, opts)
	require.NoError(t, err)
	t.Cleanup(teardown)
	return Active(), teardown
}

func TestLoggerOffBeforeInit(t *testing.T) {
	require.Nil(t, Active())
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}

func TestInitCoreDefaults(t *testing.T) {
	k, _ := initKernel(t, InitOptions{})
	require.NotNil(t, k)
	assert.Equal(t, options.Defaults(), k.Options.Get())
	assert.False(t, k.Logger().Enabled(context.Background(), slog.LevelError))
	assert.False(t, k.TraceOptions().RouterHierarchy)
	assert.True(t, k.Alive())
}

func TestInitCoreCustomOptionsRollBack(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	reg := options.NewRegistry()
	teardown, err := InitCore(newLocation(t, reg), reg, InitOptions{
		Routing: options.Update{
			HashMode:            options.HashModeMulti,
			DefaultHash:         hash.Named("main"),
			DisallowPathRouting: options.Bool(true),
		},
		Logger: logger,
		Trace:  TraceOptions{RouterHierarchy: true},
	})
	require.NoError(t, err)

	k := Active()
	require.NotNil(t, k)
	assert.Equal(t, options.HashModeMulti, k.Options.HashMode())
	assert.True(t, k.Options.Get().DisallowPathRouting)
	assert.Same(t, logger, Logger())
	assert.True(t, k.TraceOptions().RouterHierarchy)
	assert.Contains(t, buf.String(), "routekit: initialized")

	teardown()
	assert.Nil(t, Active())
	assert.Equal(t, options.Defaults(), reg.Get())
	assert.False(t, k.Alive())
	assert.False(t, k.TraceOptions().RouterHierarchy)
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
	assert.Nil(t, location.Active())

	teardown()
}

func TestInitCoreErrors(t *testing.T) {
	t.Run("nil location", func(t *testing.T) {
		_, err := InitCore(nil, nil, InitOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, rerrors.ErrLifecycle)
		assert.Nil(t, Active())
	})

	t.Run("second init", func(t *testing.T) {
		initKernel(t, InitOptions{})
		_, err := InitCore(location.Active(), nil, InitOptions{})
		require.Error(t, err)
		var re *rerrors.RouteError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, rerrors.CodeAlreadyInitialized, re.Code)
	})

	t.Run("invalid options install nothing", func(t *testing.T) {
		reg := options.NewRegistry()
		loc := newLocation(t, reg)
		defer loc.Dispose()

		_, err := InitCore(loc, reg, InitOptions{
			Routing: options.Update{DefaultHash: hash.Named("x")},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, rerrors.ErrConfig)
		assert.Nil(t, Active())
		assert.Equal(t, options.Defaults(), reg.Get())
	})
}

func TestInitCoreCycles(t *testing.T) {
	for i := 0; i < 3; i++ {
		reg := options.NewRegistry()
		teardown, err := InitCore(newLocation(t, reg), reg, InitOptions{
			Routing: options.Update{HashMode: options.HashModeMulti},
		})
		require.NoError(t, err)
		assert.True(t, Active().Options.IsMulti())
		teardown()
		assert.Nil(t, Active())
	}
}

func TestRequire(t *testing.T) {
	_, err := Require()
	require.Error(t, err)
	assert.ErrorIs(t, err, rerrors.ErrLifecycle)

	k, _ := initKernel(t, InitOptions{})
	got, err := Require()
	require.NoError(t, err)
	assert.Same(t, k, got)
}
