package playground

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/routekit/internal/config"
	rerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/kernel"
	"github.com/vango-dev/routekit/pkg/location"
	"github.com/vango-dev/routekit/pkg/middleware"
	"github.com/vango-dev/routekit/pkg/options"
	"github.com/vango-dev/routekit/pkg/reactive"
)

// Options configures a Server.
type Options struct {
	// Logger receives kernel and request logs. Nil discards them.
	Logger *slog.Logger

	// Registry collects the navigation metrics. Nil creates a private one.
	Registry *prometheus.Registry
}

// Server is the playground. It is safe for concurrent use.
type Server struct {
	mu     sync.Mutex
	closed bool

	k        *kernel.Kernel
	lite     *location.Lite
	history  *location.MemoryHistory
	inst     *config.Instance
	teardown func()
	effect   *reactive.Effect

	hub      *hub
	metrics  *middleware.Metrics
	registry *prometheus.Registry
	logger   *slog.Logger
}

// New initializes the kernel described by cfg and returns a server
// inspecting it. It fails while another kernel is initialized.
func New(cfg *config.Config, opts Options) (*Server, error) {
	if cfg == nil {
		cfg = config.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	promReg := opts.Registry
	if promReg == nil {
		promReg = prometheus.NewRegistry()
	}

	s := &Server{
		hub:      newHub(logger),
		metrics:  middleware.NewMetrics(middleware.WithRegistry(promReg)),
		registry: promReg,
		logger:   logger,
	}

	history, err := location.NewMemoryHistory(cfg.URL)
	if err != nil {
		return nil, err
	}
	reg := options.NewRegistry()
	lite, err := location.NewLite(history, reg,
		location.WithLogger(logger),
		location.WithMiddleware(
			middleware.OpenTelemetry(),
			s.metrics.Middleware(),
			middleware.Logging(logger),
		),
	)
	if err != nil {
		return nil, err
	}
	teardown, err := kernel.InitCore(lite, reg, kernel.InitOptions{
		Routing: cfg.RoutingUpdate(),
		Logger:  logger,
		Trace:   kernel.TraceOptions{RouterHierarchy: cfg.Trace.RouterHierarchy},
	})
	if err != nil {
		lite.Dispose()
		return nil, err
	}
	s.k = kernel.Active()
	s.lite = lite
	s.history = history
	s.teardown = teardown

	inst, err := cfg.Instantiate(s.k)
	if err != nil {
		teardown()
		return nil, err
	}
	s.inst = inst
	s.metrics.RecordRouters(len(inst.Routers))

	s.effect = reactive.CreateEffect(func() reactive.Cleanup {
		s.hub.publish(s.snapshot())
		return nil
	}, reactive.EffectName("playground"))

	logger.Info("playground: kernel ready",
		"url", cfg.URL,
		"routers", len(inst.Routers),
		"redirectors", len(inst.Redirectors))
	return s, nil
}

// Handler returns the HTTP handler of the playground.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/location", s.handleLocation)
		r.Post("/navigate", s.handleNavigate)
		r.Post("/goto", s.handleGoTo)
		r.Post("/back", s.handleTraverse(-1))
		r.Post("/forward", s.handleTraverse(1))
		r.Post("/go", s.handleGo)
		r.Get("/href", s.handleHref)
		r.Get("/routers", s.handleRouters)
	})
	r.Get("/ws", s.hub.ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// ListenAndServe serves the playground on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("playground: listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.hub.close()
		return srv.Shutdown(shutdownCtx)
	}
}

// Close tears the kernel down and disconnects WebSocket clients.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.effect.Dispose()
	s.inst.Dispose()
	s.teardown()
	s.hub.close()
	reactive.ReleaseGoroutine()
}

// locked runs fn with exclusive access to the kernel. Request goroutines
// drop their reactive tracking context afterwards.
func (s *Server) locked(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer reactive.ReleaseGoroutine()
	if s.closed {
		return rerrors.New(rerrors.CodeDisposed).WithDetail("The playground has been closed.")
	}
	return fn()
}
