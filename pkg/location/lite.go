package location

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"sync/atomic"

	rerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/hash"
	"github.com/vango-dev/routekit/pkg/href"
	"github.com/vango-dev/routekit/pkg/options"
	"github.com/vango-dev/routekit/pkg/query"
	"github.com/vango-dev/routekit/pkg/reactive"
	"github.com/vango-dev/routekit/pkg/routepath"
)

// active is the live Lite, if any.
var active atomic.Pointer[Lite]

// Lite is a Location backed by a HistoryAPI. It does not intercept link
// clicks nor emit navigation events.
type Lite struct {
	history    HistoryAPI
	reg        *options.Registry
	logger     *slog.Logger
	middleware []Middleware
	ctx        context.Context

	url       *reactive.Memo[*url.URL]
	path      *reactive.Memo[string]
	hashPaths *reactive.Memo[hash.Paths]

	disposed atomic.Bool
}

// LiteOption configures a Lite.
type LiteOption func(*Lite)

// WithLogger sets the logger used for commit traces.
func WithLogger(l *slog.Logger) LiteOption {
	return func(loc *Lite) {
		if l != nil {
			loc.logger = l
		}
	}
}

// WithMiddleware appends navigation middleware.
func WithMiddleware(mw ...Middleware) LiteOption {
	return func(loc *Lite) {
		loc.middleware = append(loc.middleware, mw...)
	}
}

// WithContext sets the context handed to middleware.
func WithContext(ctx context.Context) LiteOption {
	return func(loc *Lite) {
		if ctx != nil {
			loc.ctx = ctx
		}
	}
}

// NewLite creates the location. It fails while another Lite is alive.
func NewLite(history HistoryAPI, reg *options.Registry, opts ...LiteOption) (*Lite, error) {
	l := &Lite{
		history: history,
		reg:     reg,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(l)
	}

	if !active.CompareAndSwap(nil, l) {
		return nil, rerrors.New(rerrors.CodeLocationActive)
	}

	l.url = reactive.NewMemo(func() *url.URL {
		u, err := url.Parse(l.history.Href())
		if err != nil {
			l.logger.Error("location: unparsable history href", "error", err)
			return &url.URL{Path: "/"}
		}
		return u
	})
	l.path = reactive.NewMemo(func() string {
		u := l.url.Get()
		p := u.EscapedPath()
		if u.Scheme == "file" {
			p = routepath.StripDriveLetter(p)
		}
		if p == "" {
			return "/"
		}
		return routepath.NoTrailingSlash(p)
	})
	l.hashPaths = reactive.NewMemo(func() hash.Paths {
		return hash.ParsePaths(l.url.Get().EscapedFragment(), l.reg.IsMulti())
	})

	return l, nil
}

// Active returns the live Lite, or nil.
func Active() *Lite {
	return active.Load()
}

// History returns the underlying history capability.
func (l *Lite) History() HistoryAPI {
	return l.history
}

// URL returns a copy of the current URL.
func (l *Lite) URL() *url.URL {
	u := *l.url.Get()
	return &u
}

// Path returns the pathname used by path routing.
func (l *Lite) Path() string {
	return l.path.Get()
}

// HashPaths returns the hash universes present in the fragment.
func (l *Lite) HashPaths() hash.Paths {
	return l.hashPaths.Get()
}

// GetState returns the state slot of the universe h resolves to.
func (l *Lite) GetState(h hash.Hash) any {
	return l.history.State().Get(l.reg.ResolveHash(h))
}

// GoTo commits href, resolved against the current URL. An empty href
// re-commits the current URL and ignores PreserveQuery.
func (l *Lite) GoTo(target string, opts GoToOptions) error {
	if l.disposed.Load() {
		return rerrors.New(rerrors.CodeDisposed).WithDetail("The location has been disposed.")
	}

	current := reactive.UntrackedGet(l.URL)
	next := current
	if target != "" {
		ref, err := url.Parse(target)
		if err != nil {
			return rerrors.Newf(rerrors.CodeInvalidURL, "Cannot parse %q: %v", target, err).Wrap(err)
		}
		next = current.ResolveReference(ref)
		if next.Scheme != current.Scheme || next.Host != current.Host {
			return rerrors.Newf(rerrors.CodeCrossOrigin,
				"Cannot navigate from %s to %s: the origin differs.", current.Host, next.String())
		}
		if !opts.PreserveQuery.IsZero() {
			merged := query.MergePreserved(query.Parse(next.RawQuery), query.Parse(current.RawQuery), opts.PreserveQuery)
			next.RawQuery = merged.Encode()
		}
	}

	var state State
	if opts.State != nil {
		state = opts.State.Clone()
	} else {
		state = reactive.UntrackedGet(l.history.State).Clone()
	}

	nav := &Navigation{
		Context: l.ctx,
		Method:  MethodPush,
		From:    current.String(),
		To:      next.String(),
		State:   state,
	}
	if opts.Replace {
		nav.Method = MethodReplace
	}

	return ComposeMiddleware(nav, l.middleware, func() error {
		l.logger.Debug("location: commit", "method", nav.Method, "href", nav.To)
		if nav.Method == MethodReplace {
			return l.history.ReplaceState(nav.State, nav.To)
		}
		return l.history.PushState(nav.State, nav.To)
	})
}

// Navigate resolves the target universe, checks that it is allowed,
// computes the href with href.Calculate and commits it. opts.State is
// stored in the universe's slot of a copy of the current state.
func (l *Lite) Navigate(target string, opts NavigateOptions) error {
	h := l.reg.ResolveHash(opts.Hash)
	if err := l.reg.AssertAllowed(h); err != nil {
		return err
	}

	var (
		computed string
		err      error
		state    State
	)
	reactive.Untracked(func() {
		computed, err = href.Calculate(l, l.reg, href.Options{Hash: h, PreserveQuery: opts.PreserveQuery}, target)
		state = l.history.State().With(h, opts.State)
	})
	if err != nil {
		return err
	}
	return l.GoTo(computed, GoToOptions{Replace: opts.Replace, State: &state})
}

// Back moves one entry back.
func (l *Lite) Back() { l.traverse(-1) }

// Forward moves one entry forward.
func (l *Lite) Forward() { l.traverse(1) }

// Go moves delta entries.
func (l *Lite) Go(delta int) { l.traverse(delta) }

func (l *Lite) traverse(delta int) {
	if l.disposed.Load() {
		return
	}
	nav := &Navigation{
		Context: l.ctx,
		Method:  MethodTraverse,
		From:    reactive.UntrackedGet(l.history.Href),
		Delta:   delta,
	}
	err := ComposeMiddleware(nav, l.middleware, func() error {
		l.logger.Debug("location: traverse", "delta", delta)
		switch delta {
		case -1:
			l.history.Back()
		case 1:
			l.history.Forward()
		default:
			l.history.Go(delta)
		}
		return nil
	})
	if err != nil {
		l.logger.Debug("location: traversal cancelled", "delta", delta, "error", err)
	}
}

// On is not supported by Lite.
func (l *Lite) On(event string, _ func(Navigation)) (func(), error) {
	return nil, rerrors.Newf(rerrors.CodeUnsupportedEvent,
		"Cannot subscribe to %q: this location implementation does not emit events.", event)
}

// Dispose releases the history and allows a new Lite to be created.
// Calling Dispose more than once is a no-op.
func (l *Lite) Dispose() {
	if l.disposed.Swap(true) {
		return
	}
	l.history.Dispose()
	active.CompareAndSwap(l, nil)
}

var _ Location = (*Lite)(nil)
