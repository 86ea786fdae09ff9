package location

import "context"

// Method identifies how a navigation moves through history.
type Method string

const (
	MethodPush     Method = "push"
	MethodReplace  Method = "replace"
	MethodTraverse Method = "traverse"
)

// Navigation describes a history commit.
type Navigation struct {
	Context context.Context
	Method  Method

	// From is the URL before the commit.
	From string

	// To is the committed URL. Empty for traversals.
	To string

	// Delta is the traversal distance.
	Delta int

	State State
}

// Middleware wraps history commits. Returning an error without calling next
// cancels the commit.
type Middleware interface {
	Handle(nav *Navigation, next func() error) error
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(nav *Navigation, next func() error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(nav *Navigation, next func() error) error {
	return f(nav, next)
}

// ComposeMiddleware builds a handler chain from middleware and a final handler.
// Middleware is executed in order (first to last), with the handler at the end.
func ComposeMiddleware(nav *Navigation, mw []Middleware, handler func() error) error {
	if len(mw) == 0 {
		return handler()
	}

	chain := handler
	for i := len(mw) - 1; i >= 0; i-- {
		m := mw[i]
		next := chain
		chain = func() error {
			return m.Handle(nav, next)
		}
	}
	return chain()
}

// Chain creates a middleware that combines multiple middleware in order.
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(nav *Navigation, next func() error) error {
		return ComposeMiddleware(nav, middleware, next)
	})
}

// Only runs mw for navigations matching condition.
func Only(condition func(nav *Navigation) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(nav *Navigation, next func() error) error {
		if !condition(nav) {
			return next()
		}
		return mw.Handle(nav, next)
	})
}
