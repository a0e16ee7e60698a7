// Package httperr is the framework's small tagged-error catalog: a
// status code and a message riding on top of an optional wrapped
// cause, so a handler can raise a typed failure and have the chain
// engine's default error handler translate it straight into a
// response without the handler building that response itself.
package httperr

import (
	"fmt"

	"github.com/pkg/errors"
)

// ResponseError carries an HTTP status alongside the message that
// should reach the client. Status defaults to 500 for any error that
// doesn't name one explicitly.
type ResponseError struct {
	Status  int
	Message string
	cause   error
}

func (e *ResponseError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.cause != nil {
		return e.cause.Error()
	}
	return "response error"
}

// StatusCode satisfies the chain engine's status-carrying error
// interface.
func (e *ResponseError) StatusCode() int {
	if e.Status == 0 {
		return 500
	}
	return e.Status
}

// Cause returns the wrapped error, if any, so github.com/pkg/errors's
// Cause helper can walk past this type to whatever raised it. There is
// no Unwrap method, so the standard library's errors.Unwrap stops here.
func (e *ResponseError) Cause() error {
	return e.cause
}

// New builds a ResponseError with no wrapped cause.
func New(status int, message string) *ResponseError {
	return &ResponseError{Status: status, Message: message}
}

// Wrap builds a ResponseError that records cause as the underlying
// reason, preserved via errors.Wrap so logs and error handlers that
// call errors.Cause can still see the original failure.
func Wrap(status int, message string, cause error) *ResponseError {
	return &ResponseError{Status: status, Message: message, cause: errors.Wrap(cause, message)}
}

// NotFound builds the standard 404 ResponseError, carrying the
// message format the framework's wire contract mandates: "Cannot
// {METHOD} {path}".
func NotFound(method, path string) *ResponseError {
	return New(404, fmt.Sprintf("Cannot %s %s", method, path))
}

// MethodNotAllowed builds the standard 405 ResponseError, carrying
// the same "Cannot {METHOD} {path}" message format as NotFound.
func MethodNotAllowed(method, path string) *ResponseError {
	return New(405, fmt.Sprintf("Cannot %s %s", method, path))
}

// BadRequest builds a 400 ResponseError wrapping cause.
func BadRequest(message string, cause error) *ResponseError {
	if cause == nil {
		return New(400, message)
	}
	return Wrap(400, message, cause)
}

// Internal builds a 500 ResponseError wrapping cause.
func Internal(message string, cause error) *ResponseError {
	if cause == nil {
		return New(500, message)
	}
	return Wrap(500, message, cause)
}
