// Package middleware provides navigation middleware for locations.
//
// Each constructor returns a location.Middleware that wraps every history
// commit (push, replace and traverse):
//   - OpenTelemetry opens a span per navigation
//   - Prometheus counts navigations and observes their duration
//   - Logging writes one slog record per navigation
//
//	h, _ := location.NewMemoryHistory("http://localhost/")
//	loc, _ := location.NewLite(h, reg, location.WithMiddleware(
//	    middleware.OpenTelemetry(),
//	    middleware.Prometheus(middleware.WithNamespace("myapp")),
//	    middleware.Logging(slog.Default()),
//	))
//
// # Prometheus Metrics
//
//   - routekit_navigations_total: navigations by method and status
//   - routekit_navigation_duration_seconds: commit duration by method
//   - routekit_navigation_errors_total: failed navigations by method and
//     error category
//   - routekit_active_routers: routers alive, set with RecordRouters
//
// Expose them with promhttp:
//
//	http.Handle("/metrics", promhttp.Handler())
//
// # Context Propagation
//
// OpenTelemetry replaces Navigation.Context with the span's context, so
// middleware further down the chain and the commit itself can read the
// span with trace.SpanFromContext(nav.Context).
package middleware
