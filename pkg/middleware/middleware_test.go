package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/location"
	"github.com/vango-dev/routekit/pkg/options"
)

func pushNav() *location.Navigation {
	return &location.Navigation{
		Context: context.Background(),
		Method:  location.MethodPush,
		From:    "http://example.com/a",
		To:      "http://example.com/b",
	}
}

func run(mw location.Middleware, nav *location.Navigation, err error) error {
	return location.ComposeMiddleware(nav, []location.Middleware{mw}, func() error { return err })
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	mw := Logging(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, run(mw, pushNav(), nil))
	assert.Contains(t, buf.String(), "msg=navigation")
	assert.Contains(t, buf.String(), "to=http://example.com/b")

	buf.Reset()
	boom := errors.New("boom")
	assert.ErrorIs(t, run(mw, pushNav(), boom), boom)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "error=boom")

	buf.Reset()
	require.NoError(t, run(mw, &location.Navigation{Method: location.MethodTraverse, Delta: -2}, nil))
	assert.Contains(t, buf.String(), "delta=-2")
}

func TestMiddlewareWithLite(t *testing.T) {
	var buf bytes.Buffer
	h, err := location.NewMemoryHistory("http://example.com/")
	require.NoError(t, err)

	cancel := location.MiddlewareFunc(func(nav *location.Navigation, next func() error) error {
		if nav.To == "http://example.com/blocked" {
			return rerrors.New(rerrors.CodeCrossOrigin)
		}
		return next()
	})
	l, err := location.NewLite(h, options.NewRegistry(), location.WithMiddleware(
		Logging(slog.New(slog.NewTextHandler(&buf, nil))),
		cancel,
	))
	require.NoError(t, err)
	defer l.Dispose()

	require.NoError(t, l.Navigate("/next", location.NavigateOptions{}))
	assert.Equal(t, "/next", l.Path())

	err = l.Navigate("/blocked", location.NavigateOptions{})
	require.Error(t, err)
	assert.Equal(t, "/next", l.Path())

	l.Back()
	assert.Equal(t, "/", l.Path())
	assert.Contains(t, buf.String(), "method=traverse")
}
