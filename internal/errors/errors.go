package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrorCategory represents the kind of failure a simulation run can hit
type ErrorCategory string

const (
	// Input outside its allowed range; raised before any work starts
	ErrorCategoryValidation ErrorCategory = "VALIDATION"
	// Historical dataset missing, empty, malformed or too short
	ErrorCategoryData ErrorCategory = "DATA"
	// Time budget exhausted before the run finished
	ErrorCategoryTimeout ErrorCategory = "TIMEOUT"
	// Configuration file or environment invalid
	ErrorCategoryConfiguration ErrorCategory = "CONFIG"
	// Too many simulation requests
	ErrorCategoryRateLimit ErrorCategory = "RATE_LIMIT"
	// Anything else
	ErrorCategoryInternal ErrorCategory = "INTERNAL"
)

// SimError is a categorized error with context
type SimError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
	Context    map[string]interface{}
}

// Error implements the error interface
func (e *SimError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s:%s] %s: %s", e.Category, e.Component, e.Operation, e.Message)
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, e.Context[k]))
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
	}
	if e.Underlying != nil {
		fmt.Fprintf(&b, ": %v", e.Underlying)
	}
	return b.String()
}

// Unwrap returns the underlying error for error unwrapping
func (e *SimError) Unwrap() error {
	return e.Underlying
}

// IsFatal reports whether the error aborts the whole run. Every category
// except VALIDATION is fatal for the run it happened in.
func (e *SimError) IsFatal() bool {
	return e.Category != ErrorCategoryValidation
}

// NewSimError creates a new categorized error
func NewSimError(category ErrorCategory, component, operation, message string) *SimError {
	return &SimError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with category context
func WrapError(err error, category ErrorCategory, component, operation string) *SimError {
	if err == nil {
		return nil
	}

	return &SimError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
		Context:    make(map[string]interface{}),
	}
}

// WithContext adds context information to the error
func (e *SimError) WithContext(key string, value interface{}) *SimError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithMessage replaces the message
func (e *SimError) WithMessage(format string, args ...interface{}) *SimError {
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// Common error constructors

func NewValidationError(component, operation, message string) *SimError {
	return NewSimError(ErrorCategoryValidation, component, operation, message)
}

func NewDataError(component, operation, message string) *SimError {
	return NewSimError(ErrorCategoryData, component, operation, message)
}

func WrapDataError(err error, component, operation string) *SimError {
	return WrapError(err, ErrorCategoryData, component, operation)
}

func NewTimeoutError(component, operation string, err error) *SimError {
	e := WrapError(err, ErrorCategoryTimeout, component, operation)
	if e == nil {
		e = NewSimError(ErrorCategoryTimeout, component, operation, "")
	}
	e.Message = "time budget exceeded"
	return e
}

func NewConfigurationError(component, operation, message string) *SimError {
	return NewSimError(ErrorCategoryConfiguration, component, operation, message)
}

func NewInternalError(component, operation string, err error) *SimError {
	return WrapError(err, ErrorCategoryInternal, component, operation)
}

// NewCancelledError reports work abandoned because its caller went away
// (signal, client disconnect). It is INTERNAL, never TIMEOUT.
func NewCancelledError(component, operation string, err error) *SimError {
	e := WrapError(err, ErrorCategoryInternal, component, operation)
	if e == nil {
		e = NewSimError(ErrorCategoryInternal, component, operation, "")
	}
	e.Message = "cancelled"
	return e
}

// CategoryOf returns the category of the first SimError in err's chain, or
// ErrorCategoryInternal when there is none.
func CategoryOf(err error) ErrorCategory {
	var simErr *SimError
	if stderrors.As(err, &simErr) {
		return simErr.Category
	}
	return ErrorCategoryInternal
}

func IsValidation(err error) bool { return err != nil && CategoryOf(err) == ErrorCategoryValidation }
func IsData(err error) bool       { return err != nil && CategoryOf(err) == ErrorCategoryData }
func IsTimeout(err error) bool    { return err != nil && CategoryOf(err) == ErrorCategoryTimeout }

// HTTPStatus maps an error to the status code the API answers with
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch CategoryOf(err) {
	case ErrorCategoryValidation:
		return http.StatusBadRequest
	case ErrorCategoryTimeout:
		return http.StatusGatewayTimeout
	case ErrorCategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ValidationErrors collects several validation failures into one error
type ValidationErrors struct {
	Component string
	Problems  []string
}

// Add records a problem
func (v *ValidationErrors) Add(format string, args ...interface{}) {
	v.Problems = append(v.Problems, fmt.Sprintf(format, args...))
}

// Err returns nil when nothing was recorded, a VALIDATION SimError otherwise
func (v *ValidationErrors) Err(operation string) error {
	if len(v.Problems) == 0 {
		return nil
	}
	return NewValidationError(v.Component, operation, strings.Join(v.Problems, "; "))
}
