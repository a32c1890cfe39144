package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/s0up4200/restbind/request"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid api configuration")
	// ErrHTTPStatus indicates a non-2xx response
	ErrHTTPStatus = errors.New("unexpected HTTP status")
	// ErrUnknownEndpoint indicates a name not declared on the surface
	ErrUnknownEndpoint = errors.New("unknown endpoint")
	// ErrUnknownGroup indicates a group not declared on the surface
	ErrUnknownGroup = errors.New("unknown endpoint group")
)

// maxErrorBody caps how much of a response body ends up in an error message
const maxErrorBody = 512

// StatusError is returned by the default response processors for non-2xx
// responses
type StatusError struct {
	StatusCode int
	Method     request.Method
	URI        string
	Body       []byte
}

// Error implements the error interface
func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d %s", e.Method, e.URI, e.StatusCode, http.StatusText(e.StatusCode))
	if len(e.Body) == 0 {
		return msg
	}
	body := e.Body
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return msg + ": " + string(body)
}

// Unwrap lets errors.Is match ErrHTTPStatus
func (e *StatusError) Unwrap() error {
	return ErrHTTPStatus
}

// IsNotFound checks if the error indicates a not found response
func (e *StatusError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *StatusError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

func newStatusError(resp *request.Response, spec request.Spec) *StatusError {
	method := spec.Method()
	if method == "" {
		method = request.MethodGet
	}
	return &StatusError{
		StatusCode: resp.StatusCode,
		Method:     method,
		URI:        spec.URI(),
		Body:       resp.Body,
	}
}
