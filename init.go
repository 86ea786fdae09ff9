package routekit

import (
	"log/slog"

	rerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/kernel"
	"github.com/vango-dev/routekit/pkg/location"
	"github.com/vango-dev/routekit/pkg/options"
)

// DefaultURL is the initial URL of the history Init creates.
const DefaultURL = "http://localhost/"

// TraceOptions enables diagnostics.
type TraceOptions = kernel.TraceOptions

// InitOptions configures Init.
type InitOptions struct {
	// Routing is applied on top of the default routing options.
	Routing OptionsUpdate

	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger

	Trace TraceOptions

	// History backs the location. Nil creates a MemoryHistory at DefaultURL.
	History HistoryAPI

	// Middleware wraps every history commit.
	Middleware []Middleware
}

// Init initializes the library with the lightweight location and returns
// the teardown function. It fails while the library is initialized; a
// failed Init leaves nothing behind.
func Init(opts InitOptions) (func(), error) {
	if k := kernel.Active(); k != nil {
		return nil, rerrors.New(rerrors.CodeAlreadyInitialized)
	}

	history := opts.History
	if history == nil {
		h, err := location.NewMemoryHistory(DefaultURL)
		if err != nil {
			return nil, err
		}
		history = h
	}

	liteOpts := []location.LiteOption{location.WithMiddleware(opts.Middleware...)}
	if opts.Logger != nil {
		liteOpts = append(liteOpts, location.WithLogger(opts.Logger))
	}

	reg := options.NewRegistry()
	lite, err := location.NewLite(history, reg, liteOpts...)
	if err != nil {
		return nil, err
	}
	teardown, err := kernel.InitCore(lite, reg, kernel.InitOptions{
		Routing: opts.Routing,
		Logger:  opts.Logger,
		Trace:   opts.Trace,
	})
	if err != nil {
		lite.Dispose()
		return nil, err
	}
	return teardown, nil
}
