package kernel

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	rerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/location"
	"github.com/vango-dev/routekit/pkg/options"
)

// TraceOptions enables tracing facilities.
type TraceOptions struct {
	// RouterHierarchy makes routers register in the trace registry.
	RouterHierarchy bool
}

// InitOptions configures InitCore.
type InitOptions struct {
	// Routing is applied to the options registry.
	Routing options.Update

	// Logger receives kernel diagnostics. Nil discards them.
	Logger *slog.Logger

	Trace TraceOptions
}

// Kernel is the initialized routing library.
type Kernel struct {
	Options  *options.Registry
	Location location.Location
	Trace    *TraceRegistry

	logger       *slog.Logger
	traceOptions TraceOptions
	torndown     atomic.Bool
}

var (
	active atomic.Pointer[Kernel]
	initMu sync.Mutex
	offLog = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Active returns the initialized kernel, or nil.
func Active() *Kernel {
	return active.Load()
}

// Require returns the initialized kernel or a lifecycle error.
func Require() (*Kernel, error) {
	if k := active.Load(); k != nil {
		return k, nil
	}
	return nil, rerrors.New(rerrors.CodeNotInitialized)
}

// Logger returns the active kernel's logger, or a logger that discards
// everything when the library is not initialized.
func Logger() *slog.Logger {
	if k := active.Load(); k != nil {
		return k.Logger()
	}
	return offLog
}

// InitCore installs loc and reg as the process-wide routing state.
// reg must be the registry loc reads; nil creates a fresh one. Options
// are validated before anything is installed. The returned teardown
// disposes loc, resets the options and clears the trace registry; it is
// safe to call more than once.
func InitCore(loc location.Location, reg *options.Registry, opts InitOptions) (func(), error) {
	initMu.Lock()
	defer initMu.Unlock()

	if active.Load() != nil {
		return nil, rerrors.New(rerrors.CodeAlreadyInitialized)
	}
	if loc == nil {
		return nil, rerrors.New(rerrors.CodeNotInitialized).
			WithDetail("A location object is required to initialize the routing library.")
	}
	if reg == nil {
		reg = options.NewRegistry()
	}
	if err := reg.Set(opts.Routing); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = offLog
	}

	k := &Kernel{
		Options:      reg,
		Location:     loc,
		Trace:        NewTraceRegistry(),
		logger:       logger,
		traceOptions: opts.Trace,
	}
	active.Store(k)

	logger.Debug("routekit: initialized",
		"hash_mode", reg.HashMode(),
		"router_hierarchy", opts.Trace.RouterHierarchy,
	)
	return k.teardown, nil
}

func (k *Kernel) teardown() {
	if k.torndown.Swap(true) {
		return
	}
	initMu.Lock()
	defer initMu.Unlock()

	k.Location.Dispose()
	k.Options.Reset()
	k.Trace.Clear()
	k.logger.Debug("routekit: torn down")
	active.CompareAndSwap(k, nil)
}

// Logger returns the kernel's logger.
func (k *Kernel) Logger() *slog.Logger {
	if k.torndown.Load() {
		return offLog
	}
	return k.logger
}

// TraceOptions returns the trace options the kernel was initialized with.
func (k *Kernel) TraceOptions() TraceOptions {
	if k.torndown.Load() {
		return TraceOptions{}
	}
	return k.traceOptions
}

// Alive reports whether the kernel has not been torn down.
func (k *Kernel) Alive() bool {
	return !k.torndown.Load()
}
