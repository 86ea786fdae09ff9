package middleware

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	rerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/location"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "routekit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "routekit",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the navigation metrics registered on one registry.
type Metrics struct {
	navigations   *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	errors        *prometheus.CounterVec
	activeRouters prometheus.Gauge
}

type metricsKey struct {
	registry  prometheus.Registerer
	namespace string
	subsystem string
}

// Metric sets are shared per registry and name prefix, since registering
// the same collector twice fails.
var (
	metricsMu  sync.Mutex
	metricsSet = map[metricsKey]*Metrics{}
)

func metricsFor(config MetricsConfig) *Metrics {
	key := metricsKey{config.Registry, config.Namespace, config.Subsystem}

	metricsMu.Lock()
	defer metricsMu.Unlock()
	if m, ok := metricsSet[key]; ok {
		return m
	}

	factory := promauto.With(config.Registry)
	m := &Metrics{
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of history commits",
			ConstLabels: config.ConstLabels,
		}, []string{"method", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Navigation commit duration in seconds, effects included",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"method"}),

		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_errors_total",
			Help:        "Total number of failed navigations",
			ConstLabels: config.ConstLabels,
		}, []string{"method", "category"}),

		activeRouters: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_routers",
			Help:        "Number of routers alive",
			ConstLabels: config.ConstLabels,
		}),
	}
	metricsSet[key] = m
	return m
}

// NewMetrics returns the metric set for the given options, registering it
// on first use.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return metricsFor(config)
}

// RecordRouters sets the active router gauge.
func (m *Metrics) RecordRouters(n int) {
	m.activeRouters.Set(float64(n))
}

// Middleware returns the navigation middleware that feeds m.
func (m *Metrics) Middleware() location.Middleware {
	return location.MiddlewareFunc(func(nav *location.Navigation, next func() error) error {
		method := string(nav.Method)
		start := time.Now()

		err := next()

		m.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
		status := "success"
		if err != nil {
			status = "error"
			m.errors.WithLabelValues(method, categorizeError(err)).Inc()
		}
		m.navigations.WithLabelValues(method, status).Inc()
		return err
	})
}

// Prometheus creates middleware that collects navigation metrics.
//
//	loc, _ := location.NewLite(h, reg, location.WithMiddleware(
//	    middleware.Prometheus(middleware.WithNamespace("myapp")),
//	))
func Prometheus(opts ...MetricsOption) location.Middleware {
	return NewMetrics(opts...).Middleware()
}

// categorizeError returns a low-cardinality label for err.
func categorizeError(err error) string {
	var re *rerrors.RouteError
	if errors.As(err, &re) && re.Category != "" {
		return string(re.Category)
	}
	return "internal"
}
