package middlewares

import (
	"errors"
	"fmt"
)

// PanicError is what Recover hands to the error handler after an action
// panicked.
type PanicError struct {
	Value  any
	Stack  []byte // nil when stack capture is disabled
	Method string
	Path   string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s %s: %v", e.Method, e.Path, e.Value)
}

// Unwrap exposes the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// AsPanicError reports whether err carries a recovered panic.
func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
