// Package redirect performs reactive URL redirections.
//
// A Redirector holds an ordered list of rules. Whenever the list or the
// current URL changes, the rules are tested in order against the
// redirector's routing universe and the first match navigates to its
// target. Matching uses the same compiler as routes, so rules support
// parameters, rest segments and And predicates.
//
//	r, err := redirect.New(kernel.Active(), redirect.Options{})
//	if err != nil {
//	    return err
//	}
//	defer r.Dispose()
//	err = r.Push(redirect.Redirection{
//	    Path:     "/old-path/:id",
//	    HrefFunc: func(p pattern.Params) string { id, _ := p.String("id"); return "/new-path/" + id },
//	})
package redirect

import (
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"sync/atomic"

	rerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/hash"
	"github.com/vango-dev/routekit/pkg/kernel"
	"github.com/vango-dev/routekit/pkg/location"
	"github.com/vango-dev/routekit/pkg/pattern"
	"github.com/vango-dev/routekit/pkg/query"
	"github.com/vango-dev/routekit/pkg/reactive"
	"github.com/vango-dev/routekit/pkg/router"
)

// RedirectOptions overrides the navigation options of one rule.
type RedirectOptions struct {
	// Hash is the target universe. Unset uses the redirector's universe.
	Hash hash.Hash

	// Replace overrides the redirector's replace setting.
	Replace *bool

	PreserveQuery query.Preserve

	// State is stored in the target universe's state slot. For GoTo rules
	// only a location.State value is used, as the full history state.
	State any
}

// Redirection is one redirect rule. Path, Regexp, CaseSensitive and And
// match like the fields of pattern.RouteInfo.
type Redirection struct {
	Path          string
	Regexp        *regexp.Regexp
	CaseSensitive bool
	And           pattern.Predicate

	// Href is the target. HrefFunc, when set, takes precedence and
	// receives the parameters of the match.
	Href     string
	HrefFunc func(params pattern.Params) string

	// GoTo commits Href verbatim with Location.GoTo instead of computing
	// it for the target universe with Location.Navigate.
	GoTo bool

	Options *RedirectOptions

	IgnoreForFallback bool
}

// RouteInfo returns the matching part of the rule.
func (r Redirection) RouteInfo() pattern.RouteInfo {
	return pattern.RouteInfo{
		Path:              r.Path,
		Regexp:            r.Regexp,
		And:               r.And,
		CaseSensitive:     r.CaseSensitive,
		IgnoreForFallback: r.IgnoreForFallback,
	}
}

func (r Redirection) target(params pattern.Params) string {
	if r.HrefFunc != nil {
		return r.HrefFunc(params)
	}
	return r.Href
}

// Options configures New.
type Options struct {
	// Hash is the universe rules are tested against and, unless a rule
	// says otherwise, navigated in. Unset uses the parent's universe or
	// the default hash.
	Hash hash.Hash

	// Parent, when set, provides the universe and the base path rules
	// are compiled against.
	Parent *router.Engine

	// Replace makes redirects replace the current history entry.
	// Nil means true.
	Replace *bool
}

// Redirector applies the first matching rule whenever the URL or the
// rules change.
type Redirector struct {
	k       *kernel.Kernel
	hash    hash.Hash
	replace bool
	parent  *router.Engine
	helper  *router.RouteHelper

	rules    *reactive.SliceSignal[Redirection]
	patterns *reactive.Memo[[]pattern.Compiled]
	effect   *reactive.Effect
	owner    *reactive.Owner

	mu       sync.Mutex
	lastErr  error
	disposed atomic.Bool
}

// New creates a redirector and starts watching the location.
func New(k *kernel.Kernel, opts Options) (*Redirector, error) {
	if k == nil || !k.Alive() {
		return nil, rerrors.New(rerrors.CodeNotInitialized).
			WithDetail("Initialize the library before creating redirectors.")
	}

	h := opts.Hash
	if h.IsUnset() && opts.Parent != nil {
		h = opts.Parent.ResolvedHash()
	}
	h = k.Options.ResolveHash(h)

	r := &Redirector{
		k:       k,
		hash:    h,
		replace: opts.Replace == nil || *opts.Replace,
		parent:  opts.Parent,
		helper:  router.NewRouteHelper(k.Location, h),
		rules:   reactive.NewSliceSignal[Redirection](nil),
		owner:   reactive.NewOwner(nil),
	}
	r.owner.OnCleanup(r.helper.Dispose)

	r.patterns = reactive.NewMemo(func() []pattern.Compiled {
		rules := r.rules.Get()
		base := r.basePath()
		out := make([]pattern.Compiled, len(rules))
		for i, rule := range rules {
			c, err := pattern.Compile(rule.RouteInfo(), base)
			if err != nil {
				r.logger().Error("redirect: rule pattern does not compile", "index", i, "error", err)
				c = pattern.Compiled{Regexp: neverMatch}
			}
			out[i] = c
		}
		return out
	})

	r.owner.OnCleanup(r.patterns.Dispose)

	r.owner.Run(func() {
		r.effect = reactive.CreateEffect(func() reactive.Cleanup {
			r.scan()
			return nil
		}, reactive.EffectName("redirect"))
	})

	r.logger().Debug("redirect: created", "hash", h.String(), "replace", r.replace)
	return r, nil
}

var neverMatch = regexp.MustCompile(`^\z.`)

func (r *Redirector) logger() *slog.Logger {
	return r.k.Logger()
}

func (r *Redirector) basePath() string {
	if r.parent == nil {
		return "/"
	}
	return r.parent.BasePath()
}

// scan runs inside the effect.
func (r *Redirector) scan() {
	rules := r.rules.Get()
	patterns := r.patterns.Get()
	for i := range rules {
		matched, params := r.helper.TestRoute(patterns[i])
		if !matched {
			continue
		}
		var err error
		reactive.Untracked(func() {
			err = r.navigate(rules[i], params)
		})
		r.mu.Lock()
		r.lastErr = err
		r.mu.Unlock()
		return
	}
}

func (r *Redirector) navigate(rule Redirection, params pattern.Params) error {
	target := rule.target(params)
	from := r.k.Location.URL().String()

	h := r.hash
	replace := r.replace
	var (
		preserve query.Preserve
		state    any
	)
	if o := rule.Options; o != nil {
		if !o.Hash.IsUnset() {
			h = o.Hash
		}
		if o.Replace != nil {
			replace = *o.Replace
		}
		preserve = o.PreserveQuery
		state = o.State
	}

	var err error
	if rule.GoTo {
		goOpts := location.GoToOptions{Replace: replace, PreserveQuery: preserve}
		if s, ok := state.(location.State); ok {
			goOpts.State = &s
		}
		err = r.k.Location.GoTo(target, goOpts)
	} else {
		err = r.k.Location.Navigate(target, location.NavigateOptions{
			Hash:          h,
			Replace:       replace,
			PreserveQuery: preserve,
			State:         state,
		})
	}
	if err != nil {
		err = fmt.Errorf("redirect to %q: %w", target, err)
		r.logger().Error("redirect: navigation failed", "from", from, "to", target, "error", err)
		return err
	}
	r.logger().Info("redirect: redirected", "from", from, "to", target, "goto", rule.GoTo, "hash", h.String())
	return nil
}

func (r *Redirector) mutate(fn func()) error {
	if r.disposed.Load() {
		return rerrors.New(rerrors.CodeDisposed).WithDetail("The redirector has been disposed.")
	}
	r.mu.Lock()
	r.lastErr = nil
	r.mu.Unlock()
	fn()
	return r.Err()
}

func (r *Redirector) validate(rule Redirection) error {
	_, err := pattern.Compile(rule.RouteInfo(), reactive.UntrackedGet(r.basePath))
	return err
}

// Push appends rules. Any redirect they cause happens before Push
// returns, and its navigation error, if any, is returned.
func (r *Redirector) Push(rules ...Redirection) error {
	for _, rule := range rules {
		if err := r.validate(rule); err != nil {
			return err
		}
	}
	return r.mutate(func() { r.rules.AppendAll(rules...) })
}

// Set replaces the rule at index i.
func (r *Redirector) Set(i int, rule Redirection) error {
	if err := r.validate(rule); err != nil {
		return err
	}
	if i < 0 || i >= r.rules.Len() {
		return fmt.Errorf("redirection index %d out of range [0, %d)", i, r.rules.Len())
	}
	return r.mutate(func() { r.rules.SetAt(i, rule) })
}

// Replace swaps the whole rule list.
func (r *Redirector) Replace(rules []Redirection) error {
	for _, rule := range rules {
		if err := r.validate(rule); err != nil {
			return err
		}
	}
	return r.mutate(func() { r.rules.Replace(rules) })
}

// RemoveAt deletes the rule at index i. Out-of-range indexes are ignored.
func (r *Redirector) RemoveAt(i int) {
	_ = r.mutate(func() { r.rules.RemoveAt(i) })
}

// Clear removes every rule.
func (r *Redirector) Clear() {
	_ = r.mutate(func() { r.rules.Clear() })
}

// Redirections returns a copy of the rules. Reactive.
func (r *Redirector) Redirections() []Redirection {
	rules := r.rules.Get()
	out := make([]Redirection, len(rules))
	copy(out, rules)
	return out
}

// Hash returns the redirector's resolved universe.
func (r *Redirector) Hash() hash.Hash {
	return r.hash
}

// Err returns the error of the most recent redirect attempt, or nil when
// it succeeded.
func (r *Redirector) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Dispose stops the redirector. It is idempotent.
func (r *Redirector) Dispose() {
	if r.disposed.Swap(true) {
		return
	}
	r.owner.Dispose()
}
