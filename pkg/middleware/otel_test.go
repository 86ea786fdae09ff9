package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/routekit/pkg/location"
)

func newRecorder() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	rec := tracetest.NewSpanRecorder()
	return rec, sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
}

func attrMap(kvs []attribute.KeyValue) map[string]attribute.Value {
	out := make(map[string]attribute.Value, len(kvs))
	for _, kv := range kvs {
		out[string(kv.Key)] = kv.Value
	}
	return out
}

func TestOpenTelemetrySpan(t *testing.T) {
	rec, tp := newRecorder()
	mw := OpenTelemetry(
		WithTracerProvider(tp),
		WithIncludeState(true),
		WithAttributeExtractor(func(*location.Navigation) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	)

	nav := pushNav()
	original := nav.Context
	err := run(mw, nav, nil)
	require.NoError(t, err)
	assert.Equal(t, original, nav.Context, "context is restored after the chain")

	spans := rec.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, SpanName, span.Name())
	assert.Equal(t, codes.Ok, span.Status().Code)

	attrs := attrMap(span.Attributes())
	assert.Equal(t, "push", attrs["routekit.method"].AsString())
	assert.Equal(t, "http://example.com/b", attrs["routekit.to"].AsString())
	assert.Equal(t, "ok", attrs["test.attr"].AsString())
	assert.False(t, attrs["routekit.state.path"].AsBool())
}

func TestOpenTelemetryContextPropagation(t *testing.T) {
	rec, tp := newRecorder()
	var inner trace.SpanContext
	chain := location.Chain(
		OpenTelemetry(WithTracerProvider(tp)),
		location.MiddlewareFunc(func(nav *location.Navigation, next func() error) error {
			inner = trace.SpanContextFromContext(nav.Context)
			return next()
		}),
	)
	require.NoError(t, run(chain, pushNav(), nil))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.True(t, inner.IsValid())
	assert.Equal(t, spans[0].SpanContext().SpanID(), inner.SpanID())
}

func TestOpenTelemetryError(t *testing.T) {
	rec, tp := newRecorder()
	mw := OpenTelemetry(WithTracerProvider(tp))

	boom := errors.New("boom")
	assert.ErrorIs(t, run(mw, &location.Navigation{Method: location.MethodTraverse, Delta: 1}, boom), boom)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, int64(1), attrMap(spans[0].Attributes())["routekit.delta"].AsInt64())
	assert.NotEmpty(t, spans[0].Events(), "error is recorded as an event")
}

func TestOpenTelemetryFilter(t *testing.T) {
	rec, tp := newRecorder()
	mw := OpenTelemetry(
		WithTracerProvider(tp),
		WithNavigationFilter(func(nav *location.Navigation) bool { return nav.Method != location.MethodReplace }),
	)

	require.NoError(t, run(mw, &location.Navigation{Context: context.Background(), Method: location.MethodReplace}, nil))
	assert.Empty(t, rec.Ended())
}
