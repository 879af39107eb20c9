package internal

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/actionpack/pkg/csrf"
)

// Lifecycle errors returned by the controller and the dispatcher.
var (
	// ErrDoubleRender is returned when a second response is attempted
	// for a request whose response is already finalized.
	ErrDoubleRender = errors.New("actionpack: response already rendered or redirected")

	// ErrInvalidAuthenticityToken is returned when a protected, non-GET
	// request carries no valid CSRF token.
	ErrInvalidAuthenticityToken = csrf.ErrInvalidToken

	// ErrUnknownAction matches every *UnknownActionError.
	ErrUnknownAction = errors.New("actionpack: unknown action")

	// ErrResponseFinalized is returned by response mutators after finalization.
	ErrResponseFinalized = errors.New("actionpack: response is finalized")

	// ErrInvalidControllerType is returned for malformed controller declarations.
	ErrInvalidControllerType = errors.New("actionpack: invalid controller type")

	// ErrNoViews is returned by Render when no view engine is configured.
	ErrNoViews = errors.New("actionpack: no view engine configured")
)

// UnknownActionError reports an action name missing from a controller type.
type UnknownActionError struct {
	Controller string
	Action     string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("actionpack: unknown action %q for %s", e.Action, e.Controller)
}

// Is makes errors.Is(err, ErrUnknownAction) hold.
func (e *UnknownActionError) Is(target error) bool {
	return target == ErrUnknownAction
}

// HTTPError lets an action pick the status code the adapter answers with.
type HTTPError struct {
	// Err is the underlying error, logged but never shown.
	Err error

	// Message is the user-facing error message.
	Message string

	// Code is the HTTP status code.
	Code int
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code.
func (e *HTTPError) StatusCode() int {
	return e.Code
}

// NewHTTPError creates a new HTTPError. An empty message defaults to the
// status text.
func NewHTTPError(code int, message string, cause ...error) *HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	return &HTTPError{Code: code, Message: message, Err: errors.Join(cause...)}
}

// Convenience constructors for common HTTP errors.

func ErrBadRequest(message string, cause ...error) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, cause...)
}

func ErrForbidden(message string, cause ...error) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message, cause...)
}

func ErrNotFound(message string, cause ...error) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, cause...)
}

func ErrUnprocessable(message string, cause ...error) *HTTPError {
	return NewHTTPError(http.StatusUnprocessableEntity, message, cause...)
}

// AsHTTPError extracts the HTTPError from an error chain.
// Returns nil if there is none.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

// StatusFor maps a dispatch error to the status code the adapter answers with.
func StatusFor(err error) int {
	if httpErr := AsHTTPError(err); httpErr != nil && httpErr.Code >= 400 {
		return httpErr.Code
	}
	switch {
	case errors.Is(err, ErrInvalidAuthenticityToken):
		return http.StatusForbidden
	case errors.Is(err, ErrUnknownAction):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
