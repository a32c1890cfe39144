package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/s0up4200/restbind/request"
)

// DefaultTimeout bounds a single request unless overridden
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is sent when neither the request nor WithUserAgent set one
const DefaultUserAgent = "restbind"

// Option configures an HTTP transport
type Option func(*options)

type options struct {
	timeout   time.Duration
	client    *http.Client
	userAgent string
	tracing   bool
	logger    zerolog.Logger
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithHTTPClient uses c instead of a pooled cleanhttp client. The timeout
// option is not applied to it.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithUserAgent sets the User-Agent header for requests that carry none
func WithUserAgent(userAgent string) Option {
	return func(o *options) {
		o.userAgent = userAgent
	}
}

// WithTracing wraps the round tripper with OpenTelemetry instrumentation
func WithTracing() Option {
	return func(o *options) {
		o.tracing = true
	}
}

// WithLogger sets the logger used for transport level events
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// HTTP sends requests over net/http
type HTTP struct {
	client    *http.Client
	userAgent string
	logger    zerolog.Logger
}

// New creates an HTTP transport
func New(opts ...Option) *HTTP {
	o := options{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	client := o.client
	if client == nil {
		client = cleanhttp.DefaultPooledClient()
		client.Timeout = o.timeout
	}

	if o.tracing {
		traced := *client
		base := traced.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		traced.Transport = otelhttp.NewTransport(base)
		client = &traced
	}

	return &HTTP{
		client:    client,
		userAgent: o.userAgent,
		logger:    o.logger,
	}
}

// Send implements request.Transport
func (h *HTTP) Send(ctx context.Context, out request.Outgoing) (*request.Response, error) {
	var body io.Reader
	if out.Body != nil {
		body = bytes.NewReader(out.Body)
	}

	req, err := http.NewRequestWithContext(ctx, string(out.Method), out.URI, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range out.Headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("User-Agent") == "" && h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	h.logger.Trace().
		Str("method", string(out.Method)).
		Str("uri", out.URI).
		Int("status", resp.StatusCode).
		Int("bytes", len(data)).
		Msg("Received response")

	return &request.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}
