// Package errors provides the structured errors raised by routekit.
//
// Every error carries a category and a code:
//   - config: invalid routing options, disallowed routing modes
//   - lifecycle: double initialization, use before initialization,
//     parent/child hash mismatches, disposed objects
//   - validation: absolute hrefs, invalid route patterns, cross-origin targets
//   - unsupported: capabilities the active Location does not provide
//
// # Usage
//
//	err := errors.Newf(errors.CodeAbsoluteHref,
//	    "HREF cannot contain protocol, host, or port. Received: %q", segment)
//
//	if stderrors.Is(err, errors.ErrValidation) {
//	    // handle
//	}
//
// The sentinel kinds (ErrConfig, ErrLifecycle, ...) match any error of their
// category; ErrRoutingMode matches only the routing-mode code.
package errors
