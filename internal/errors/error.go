package errors

import (
	"fmt"
)

// Category represents the kind of failure.
type Category string

const (
	CategoryConfig      Category = "config"
	CategoryLifecycle   Category = "lifecycle"
	CategoryValidation  Category = "validation"
	CategoryUnsupported Category = "unsupported"
)

// RouteError is a structured error with a code, a category and an optional
// suggestion for the caller.
type RouteError struct {
	// Code is a unique error identifier (e.g., "R020").
	Code string

	// Category is the error kind.
	Category Category

	// Message is the description of this occurrence, including the
	// offending input when there is one.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RouteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RouteError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a sentinel this error belongs to. A sentinel
// without a code matches by category; one with a code matches by code.
func (e *RouteError) Is(target error) bool {
	t, ok := target.(*RouteError)
	if !ok {
		return false
	}
	if t.Code != "" {
		return t.Code == e.Code
	}
	return t.Category != "" && t.Category == e.Category
}

// WithSuggestion adds a fix suggestion to the error.
func (e *RouteError) WithSuggestion(s string) *RouteError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *RouteError) WithDetail(d string) *RouteError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *RouteError) Wrap(err error) *RouteError {
	e.Wrapped = err
	return e
}

// New creates a RouteError from a registered error code.
func New(code string) *RouteError {
	template, ok := registry[code]
	if !ok {
		return &RouteError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &RouteError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a RouteError from a registered code, replacing the template
// message with a formatted one.
func Newf(code string, format string, args ...any) *RouteError {
	e := New(code)
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// Sentinel kinds for errors.Is.
var (
	ErrConfig      = &RouteError{Category: CategoryConfig, Message: "configuration error"}
	ErrLifecycle   = &RouteError{Category: CategoryLifecycle, Message: "lifecycle error"}
	ErrValidation  = &RouteError{Category: CategoryValidation, Message: "validation error"}
	ErrUnsupported = &RouteError{Category: CategoryUnsupported, Message: "unsupported operation"}
	ErrRoutingMode = &RouteError{Code: CodeRoutingModeDisallowed, Category: CategoryConfig, Message: "routing mode disallowed"}
)
