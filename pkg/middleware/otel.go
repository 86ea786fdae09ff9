package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/routekit/pkg/location"
)

const defaultTracerName = "routekit"

// SpanName is the name of navigation spans.
const SpanName = "routekit.navigate"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "routekit").
	TracerName string

	// TracerProvider provides the tracer. Default: otel.GetTracerProvider().
	TracerProvider trace.TracerProvider

	// IncludeState records whether the committed state carries a value
	// for each universe. Disabled by default.
	IncludeState bool

	// Filter determines which navigations to trace. Nil traces all.
	Filter func(nav *location.Navigation) bool

	// AttributeExtractor adds custom attributes to each span.
	AttributeExtractor func(nav *location.Navigation) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithIncludeState enables state attributes.
func WithIncludeState(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeState = include
	}
}

// WithNavigationFilter sets a filter function for navigations.
func WithNavigationFilter(filter func(nav *location.Navigation) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(nav *location.Navigation) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// OpenTelemetry creates middleware that traces every navigation.
//
// The span records the method, the source and target URLs and, for
// traversals, the distance. Errors set the span status. The span context
// replaces nav.Context for the rest of the chain.
//
// The tracer comes from the global provider unless WithTracerProvider is
// given. Configure it in main():
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) location.Middleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(config.TracerName)

	return location.MiddlewareFunc(func(nav *location.Navigation, next func() error) error {
		if config.Filter != nil && !config.Filter(nav) {
			return next()
		}

		attrs := []attribute.KeyValue{
			attribute.String("routekit.method", string(nav.Method)),
			attribute.String("routekit.from", nav.From),
		}
		if nav.Method == location.MethodTraverse {
			attrs = append(attrs, attribute.Int("routekit.delta", nav.Delta))
		} else {
			attrs = append(attrs, attribute.String("routekit.to", nav.To))
		}
		if config.IncludeState {
			attrs = append(attrs,
				attribute.Bool("routekit.state.path", nav.State.Path != nil),
				attribute.Int("routekit.state.hash_entries", len(nav.State.Hash)),
			)
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(nav)...)
		}

		parent := nav.Context
		if parent == nil {
			parent = context.Background()
		}
		spanCtx, span := tracer.Start(parent, SpanName,
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		nav.Context = spanCtx
		defer func() { nav.Context = parent }()

		err := next()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return err
	})
}
