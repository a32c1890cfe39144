package request

import (
	"context"
	"net/http"
)

// Outgoing is what a Transport receives: a fully resolved request
type Outgoing struct {
	Method  Method
	URI     string
	Headers map[string]string
	Body    []byte
}

// Response is the raw result of a dispatch
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport sends one request and returns the raw response. Retries,
// timeouts and redirects are its own business.
type Transport interface {
	Send(ctx context.Context, req Outgoing) (*Response, error)
}

// TransportFunc adapts a function to Transport
type TransportFunc func(ctx context.Context, req Outgoing) (*Response, error)

// Send calls f
func (f TransportFunc) Send(ctx context.Context, req Outgoing) (*Response, error) {
	return f(ctx, req)
}
